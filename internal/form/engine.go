// Package form binds field descriptors to a validated form state container.
// An Engine renders nothing itself: it owns values, per-field errors, option
// sets, and submit gating, and leaves presentation to the caller (HTTP
// handlers, the CLI prompt loop, tests).
package form

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/ozgurkzlkaya/fixlog/internal/descriptor"
	"github.com/ozgurkzlkaya/fixlog/internal/sched"
)

// Mode selects create or edit behavior: which fields are visible, and where
// initial values come from.
type Mode string

const (
	ModeCreate Mode = "create"
	ModeEdit   Mode = "edit"
)

// ErrInvalid is returned by Submit when validation fails. The submit
// callback is never invoked in that case; field messages are available via
// Errors.
var ErrInvalid = errors.New("form: validation failed")

// defaultDebounce is the delay applied to async option loading.
const defaultDebounce = 300 * time.Millisecond

// Errors maps field ids to user-facing validation messages.
type Errors map[string]string

// Engine is a form state container for a fixed set of field descriptors.
type Engine struct {
	mu      sync.Mutex
	mode    Mode
	fields  []descriptor.FieldDescriptor
	values  map[string]any
	options map[string][]descriptor.Option
	errors  Errors

	timers   *sched.Timers
	debounce time.Duration
}

// Option configures an Engine.
type Option func(*Engine)

// WithDebounce overrides the async option-loading debounce delay.
func WithDebounce(d time.Duration) Option {
	return func(e *Engine) { e.debounce = d }
}

// WithTimers injects a shared timer arena (tests use this to flush
// debounced loads deterministically).
func WithTimers(t *sched.Timers) Option {
	return func(e *Engine) { e.timers = t }
}

// New builds an engine for the given fields and mode. Initial values are
// computed once: edit mode reads the item via each field's accessor key,
// create mode uses the field's static default.
func New(fields []descriptor.FieldDescriptor, mode Mode, item map[string]any, opts ...Option) *Engine {
	e := &Engine{
		mode:     mode,
		fields:   fields,
		values:   make(map[string]any, len(fields)),
		options:  make(map[string][]descriptor.Option),
		errors:   Errors{},
		debounce: defaultDebounce,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.timers == nil {
		e.timers = sched.New()
	}

	for _, f := range fields {
		if mode == ModeEdit && item != nil {
			if v, ok := item[f.Accessor()]; ok {
				e.values[f.ID] = v
				continue
			}
		}
		if mode == ModeCreate && f.DefaultValue != nil {
			e.values[f.ID] = f.DefaultValue
		}
	}
	return e
}

// Mode returns the engine's mode.
func (e *Engine) Mode() Mode { return e.mode }

func (e *Engine) isEdit() bool { return e.mode == ModeEdit }

// Visible returns the fields shown in the current mode, in declaration order.
func (e *Engine) Visible() []descriptor.FieldDescriptor {
	var out []descriptor.FieldDescriptor
	for _, f := range e.fields {
		if f.VisibleIn(e.isEdit()) {
			out = append(out, f)
		}
	}
	return out
}

// Value returns the current value for a field id.
func (e *Engine) Value(id string) any {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.values[id]
}

// Values returns a copy of the current value map.
func (e *Engine) Values() map[string]any {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make(map[string]any, len(e.values))
	for k, v := range e.values {
		out[k] = v
	}
	return out
}

// SetValue records a field value and clears any stale error for the field.
func (e *Engine) SetValue(id string, value any) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.values[id] = value
	delete(e.errors, id)
}

// Disabled evaluates a field's disabled state against its current value.
func (e *Engine) Disabled(id string) bool {
	f := e.field(id)
	if f == nil {
		return false
	}
	return f.IsDisabled(e.isEdit(), e.Value(id))
}

// Errors returns a copy of the current field errors.
func (e *Engine) Errors() Errors {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make(Errors, len(e.errors))
	for k, v := range e.errors {
		out[k] = v
	}
	return out
}

// Options returns the current option set for a field: the last loader
// result when one has resolved, otherwise the descriptor's static options.
func (e *Engine) Options(id string) []descriptor.Option {
	e.mu.Lock()
	if loaded, ok := e.options[id]; ok {
		e.mu.Unlock()
		return loaded
	}
	e.mu.Unlock()
	if f := e.field(id); f != nil {
		return f.Options
	}
	return nil
}

// SetInput reacts to autocomplete/multiselect text input: the field's
// option loader is invoked after the debounce window, and its result fully
// replaces the option set. A failed load keeps the previous options and
// never blocks submission of already-selected values.
func (e *Engine) SetInput(ctx context.Context, id, text string) {
	f := e.field(id)
	if f == nil || f.LoadOptions == nil {
		return
	}
	load := f.LoadOptions
	e.timers.Debounce("options:"+id, e.debounce, func() {
		opts, err := load(ctx, text)
		if err != nil {
			return
		}
		e.mu.Lock()
		e.options[id] = opts
		e.mu.Unlock()
	})
}

// FlushOptions fires a pending debounced load for a field immediately.
func (e *Engine) FlushOptions(id string) {
	e.timers.Flush("options:" + id)
}

// Submit validates all visible fields and, when everything passes, invokes
// fn exactly once with a snapshot of the values. On validation failure fn
// is not called, field errors are recorded, and ErrInvalid is returned.
func (e *Engine) Submit(ctx context.Context, fn func(ctx context.Context, values map[string]any) error) error {
	errs := Errors{}
	for _, f := range e.Visible() {
		if msg := e.validateField(f); msg != "" {
			errs[f.ID] = msg
		}
	}

	e.mu.Lock()
	e.errors = errs
	e.mu.Unlock()

	if len(errs) > 0 {
		return ErrInvalid
	}
	return fn(ctx, e.Values())
}

func (e *Engine) field(id string) *descriptor.FieldDescriptor {
	for i := range e.fields {
		if e.fields[i].ID == id {
			return &e.fields[i]
		}
	}
	return nil
}

// validateField applies the declared rules, then the custom validator.
// Returns a user-facing message, or "" when valid.
func (e *Engine) validateField(f descriptor.FieldDescriptor) string {
	val := e.Value(f.ID)

	if isEmpty(val) {
		if f.Required {
			return "is required"
		}
		return ""
	}

	if s, ok := val.(string); ok {
		n := len([]rune(s))
		if f.MinLength > 0 && n < f.MinLength {
			return fmt.Sprintf("must be at least %d characters", f.MinLength)
		}
		if f.MaxLength > 0 && n > f.MaxLength {
			return fmt.Sprintf("must be %d characters or fewer", f.MaxLength)
		}
	}

	if f.Min != nil || f.Max != nil {
		n, ok := numeric(val)
		if !ok {
			return "must be a number"
		}
		if f.Min != nil && n < *f.Min {
			return fmt.Sprintf("must be at least %s", strconv.FormatFloat(*f.Min, 'f', -1, 64))
		}
		if f.Max != nil && n > *f.Max {
			return fmt.Sprintf("must be at most %s", strconv.FormatFloat(*f.Max, 'f', -1, 64))
		}
	}

	if f.Validate != nil {
		if err := f.Validate(val); err != nil {
			return err.Error()
		}
	}
	return ""
}

// isEmpty reports whether a value counts as "not provided".
func isEmpty(val any) bool {
	switch v := val.(type) {
	case nil:
		return true
	case string:
		return v == ""
	case []string:
		return len(v) == 0
	case []descriptor.Option:
		return len(v) == 0
	case []any:
		return len(v) == 0
	}
	return false
}

// numeric coerces a value to float64 for min/max checks.
func numeric(val any) (float64, bool) {
	switch v := val.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case string:
		n, err := strconv.ParseFloat(v, 64)
		return n, err == nil
	}
	return 0, false
}

// Package dialog orchestrates the modal workflows around the grid:
// confirmation prompts for destructive actions, create/edit form dialogs,
// and bulk actions over the current selection.
package dialog

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/ozgurkzlkaya/fixlog/internal/descriptor"
	"github.com/ozgurkzlkaya/fixlog/internal/form"
)

// ErrNotOpen is returned when a dialog is confirmed or submitted while closed.
var ErrNotOpen = errors.New("dialog: not open")

// Action is the operation a confirm dialog runs when accepted.
type Action func(ctx context.Context) error

// Severity signals how a confirm prompt should be presented.
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
	SeverityDanger  Severity = "danger"
)

// Confirm is a confirmation dialog with single-flight semantics: while the
// accepted action is in flight the dialog is busy, and further Accept calls
// are ignored so the action can never run twice for one prompt. The dialog
// closes only when the action succeeds; on failure it stays open so the
// user can retry or cancel.
type Confirm struct {
	mu       sync.Mutex
	open     bool
	busy     bool
	title    string
	message  string
	severity Severity
	action   Action
	err      error
}

// Open arms the dialog with a message and the action to run on accept,
// defaulting to SeverityWarning with no title. Opening a busy dialog is
// ignored.
func (c *Confirm) Open(message string, action Action) {
	c.OpenTitled("", message, SeverityWarning, action)
}

// OpenTitled arms the dialog with full presentation metadata.
func (c *Confirm) OpenTitled(title, message string, severity Severity, action Action) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.busy {
		return
	}
	c.open = true
	c.title = title
	c.message = message
	c.severity = severity
	c.action = action
	c.err = nil
}

// IsOpen reports whether the dialog is showing.
func (c *Confirm) IsOpen() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.open
}

// IsBusy reports whether the accepted action is in flight.
func (c *Confirm) IsBusy() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.busy
}

// Title returns the prompt title, if any.
func (c *Confirm) Title() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.title
}

// Message returns the prompt text.
func (c *Confirm) Message() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.message
}

// Severity returns the prompt severity.
func (c *Confirm) Severity() Severity {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.severity
}

// Err returns the failure from the last accepted action, cleared on Open.
func (c *Confirm) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.err
}

// Cancel dismisses the dialog without running the action. Cancelling while
// the action is in flight is ignored.
func (c *Confirm) Cancel() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.busy {
		return
	}
	c.reset()
}

// Accept runs the armed action. A second Accept while the first is in
// flight returns nil without running anything. Success closes the dialog;
// failure records the error and leaves it open.
func (c *Confirm) Accept(ctx context.Context) error {
	c.mu.Lock()
	if !c.open {
		c.mu.Unlock()
		return ErrNotOpen
	}
	if c.busy {
		c.mu.Unlock()
		return nil
	}
	c.busy = true
	action := c.action
	c.mu.Unlock()

	err := action(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.busy = false
	if err != nil {
		c.err = err
		return err
	}
	c.reset()
	return nil
}

func (c *Confirm) reset() {
	c.open = false
	c.title = ""
	c.message = ""
	c.severity = ""
	c.action = nil
}

// SubmitFunc persists a form's values.
type SubmitFunc func(ctx context.Context, values map[string]any) error

// FormDialog hosts a create/edit form. Opening in create mode seeds field
// defaults; opening in edit mode seeds from the item under edit. Submit
// routes to the matching callback and closes only on success; validation
// failures and persistence errors keep the dialog open with its state.
type FormDialog struct {
	fields   []descriptor.FieldDescriptor
	onCreate SubmitFunc
	onEdit   SubmitFunc
	formOpts []form.Option

	mu     sync.Mutex
	engine *form.Engine
	busy   bool
}

// NewFormDialog builds a form dialog over a field set and its callbacks.
func NewFormDialog(fields []descriptor.FieldDescriptor, onCreate, onEdit SubmitFunc, opts ...form.Option) *FormDialog {
	return &FormDialog{
		fields:   fields,
		onCreate: onCreate,
		onEdit:   onEdit,
		formOpts: opts,
	}
}

// OpenCreate opens the dialog with a fresh form seeded from field defaults.
// Opening while a submit is in flight is ignored.
func (d *FormDialog) OpenCreate() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.busy {
		return
	}
	d.engine = form.New(d.fields, form.ModeCreate, nil, d.formOpts...)
}

// OpenEdit opens the dialog with a form seeded from the item under edit.
// Opening while a submit is in flight is ignored.
func (d *FormDialog) OpenEdit(item map[string]any) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.busy {
		return
	}
	d.engine = form.New(d.fields, form.ModeEdit, item, d.formOpts...)
}

// IsOpen reports whether the dialog is showing.
func (d *FormDialog) IsOpen() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.engine != nil
}

// Form returns the active form engine, or nil when closed.
func (d *FormDialog) Form() *form.Engine {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.engine
}

// IsBusy reports whether a submit is in flight.
func (d *FormDialog) IsBusy() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.busy
}

// Close dismisses the dialog, discarding any form state. Closing while a
// submit is in flight is ignored.
func (d *FormDialog) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.busy {
		return
	}
	d.engine = nil
}

// Submit validates the form and routes the values to the create or edit
// callback based on the mode the dialog was opened in. While the callback
// is in flight the dialog is busy and further Submit calls return nil
// without running anything, so one prompt can never persist twice. The
// dialog closes only when both validation and the callback succeed.
func (d *FormDialog) Submit(ctx context.Context) error {
	d.mu.Lock()
	if d.engine == nil {
		d.mu.Unlock()
		return ErrNotOpen
	}
	if d.busy {
		d.mu.Unlock()
		return nil
	}
	d.busy = true
	engine := d.engine
	d.mu.Unlock()

	fn := d.onCreate
	if engine.Mode() == form.ModeEdit {
		fn = d.onEdit
	}
	err := engine.Submit(ctx, fn)

	d.mu.Lock()
	defer d.mu.Unlock()
	d.busy = false
	if err != nil {
		return err
	}
	if d.engine == engine {
		d.engine = nil
	}
	return nil
}

// Prompt asks the user to confirm a bulk action. Implementations range from
// an interactive terminal prompt to an auto-accept used under --yes.
type Prompt interface {
	Ask(ctx context.Context, message string) (bool, error)
}

// PromptFunc adapts a function to the Prompt interface.
type PromptFunc func(ctx context.Context, message string) (bool, error)

// Ask implements Prompt.
func (f PromptFunc) Ask(ctx context.Context, message string) (bool, error) {
	return f(ctx, message)
}

// BulkAction is a named operation over a set of selected row ids. Confirm
// is a format string receiving the row count; when empty the action runs
// without prompting.
type BulkAction struct {
	Name    string
	Confirm string
	Run     func(ctx context.Context, ids []string) error
}

// ErrDeclined is returned when the user rejects a bulk-action prompt.
var ErrDeclined = errors.New("dialog: declined")

// Bulk dispatches named bulk actions, prompting through the injected
// Prompt before each destructive run.
type Bulk struct {
	prompt  Prompt
	actions map[string]BulkAction
}

// NewBulk builds a dispatcher over the given actions.
func NewBulk(prompt Prompt, actions ...BulkAction) *Bulk {
	m := make(map[string]BulkAction, len(actions))
	for _, a := range actions {
		m[a.Name] = a
	}
	return &Bulk{prompt: prompt, actions: m}
}

// Actions returns the registered action names.
func (b *Bulk) Actions() []string {
	out := make([]string, 0, len(b.actions))
	for name := range b.actions {
		out = append(out, name)
	}
	return out
}

// Execute runs the named action over the given ids. Actions with a confirm
// message prompt first; a declined prompt returns ErrDeclined and the
// action does not run. An empty selection is a no-op.
func (b *Bulk) Execute(ctx context.Context, name string, ids []string) error {
	action, ok := b.actions[name]
	if !ok {
		return fmt.Errorf("dialog: unknown bulk action %q", name)
	}
	if len(ids) == 0 {
		return nil
	}
	if action.Confirm != "" {
		ok, err := b.prompt.Ask(ctx, fmt.Sprintf(action.Confirm, len(ids)))
		if err != nil {
			return err
		}
		if !ok {
			return ErrDeclined
		}
	}
	return action.Run(ctx, ids)
}

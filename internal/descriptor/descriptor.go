// Package descriptor defines the declarative field and column metadata that
// drives the form engine and the data grid. Descriptors are pure data: safe
// to define at package scope and hand to any number of consumers. The only
// behavior they carry is injected by the owning feature (option loaders,
// formatters, custom validators).
package descriptor

import "context"

// FieldKind identifies how a field is edited.
type FieldKind string

const (
	KindText         FieldKind = "text"
	KindNumber       FieldKind = "number"
	KindSelect       FieldKind = "select"
	KindMultiselect  FieldKind = "multiselect"
	KindAutocomplete FieldKind = "autocomplete"
	KindDate         FieldKind = "date"
	KindDateTime     FieldKind = "datetime"
	KindCustom       FieldKind = "custom"
)

// String returns the string representation of the field kind.
func (k FieldKind) String() string {
	return string(k)
}

// IsValid checks whether the field kind is a known value.
func (k FieldKind) IsValid() bool {
	switch k {
	case KindText, KindNumber, KindSelect, KindMultiselect, KindAutocomplete,
		KindDate, KindDateTime, KindCustom:
		return true
	}
	return false
}

// FilterKind identifies how a column's filter value is interpreted by the
// filter-state translator. The set is closed: the translator rejects unknown
// kinds instead of silently falling back to a default.
type FilterKind string

const (
	FilterText          FilterKind = "text"
	FilterContains      FilterKind = "contains"
	FilterStartsWith    FilterKind = "startsWith"
	FilterEndsWith      FilterKind = "endsWith"
	FilterMultiselect   FilterKind = "multiselect"
	FilterNumberRange   FilterKind = "numberRange"
	FilterDateRange     FilterKind = "dateRange"
	FilterDateTimeRange FilterKind = "dateTimeRange"
	FilterBoolean       FilterKind = "boolean"
)

// String returns the string representation of the filter kind.
func (k FilterKind) String() string {
	return string(k)
}

// IsValid checks whether the filter kind is a known value.
// An empty kind is valid and treated as FilterText.
func (k FilterKind) IsValid() bool {
	switch k {
	case "", FilterText, FilterContains, FilterStartsWith, FilterEndsWith,
		FilterMultiselect, FilterNumberRange, FilterDateRange,
		FilterDateTimeRange, FilterBoolean:
		return true
	}
	return false
}

// Option is a single selectable value for select-like fields.
type Option struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// OptionLoader resolves options dynamically, typically against a remote
// source. Debouncing is the consumer's responsibility, not the loader's.
type OptionLoader func(ctx context.Context, query string) ([]Option, error)

// Layout places a field on a specific row and column of the form.
// Fields without a layout hint are stacked in a single column after all
// hinted rows.
type Layout struct {
	Row    int `json:"row"`
	Column int `json:"column"`
}

// FieldDescriptor describes one editable form input.
// Identity is ID. A descriptor is immutable once handed to an engine.
type FieldDescriptor struct {
	ID       string    `json:"id"`
	Label    string    `json:"label"`
	Kind     FieldKind `json:"kind"`
	Required bool      `json:"required,omitempty"`

	// Static options, or a loader for dynamic sources. When both are set
	// the loader wins once it has resolved at least once.
	Options     []Option     `json:"options,omitempty"`
	LoadOptions OptionLoader `json:"-"`

	// Declared validation rules, translated into validators at bind time.
	Min       *float64 `json:"min,omitempty"`
	Max       *float64 `json:"max,omitempty"`
	MinLength int      `json:"minLength,omitempty"`
	MaxLength int      `json:"maxLength,omitempty"`

	// Validate runs after the declared rules. A nil return means valid;
	// a non-nil error's message is surfaced to the user as-is.
	Validate func(value any) error `json:"-"`

	// Visibility per mode. Zero values mean "shown".
	HideInCreate bool `json:"hideInCreate,omitempty"`
	HideInEdit   bool `json:"hideInEdit,omitempty"`

	// Disabled state: static flag, or a function of the current mode and
	// value, re-evaluated on every value change. DisabledFunc wins when set.
	Disabled     bool                              `json:"disabled,omitempty"`
	DisabledFunc func(isEdit bool, value any) bool `json:"-"`

	Layout *Layout `json:"layout,omitempty"`

	// AccessorKey is the item key edit mode reads the initial value from;
	// empty means ID.
	AccessorKey  string `json:"accessorKey,omitempty"`
	DefaultValue any    `json:"defaultValue,omitempty"`
}

// Accessor returns the item key used to read this field's value.
func (f FieldDescriptor) Accessor() string {
	if f.AccessorKey != "" {
		return f.AccessorKey
	}
	return f.ID
}

// VisibleIn reports whether the field is shown for edit (true) or create mode.
func (f FieldDescriptor) VisibleIn(isEdit bool) bool {
	if isEdit {
		return !f.HideInEdit
	}
	return !f.HideInCreate
}

// IsDisabled evaluates the field's disabled state against the current value.
func (f FieldDescriptor) IsDisabled(isEdit bool, value any) bool {
	if f.DisabledFunc != nil {
		return f.DisabledFunc(isEdit, value)
	}
	return f.Disabled
}

// ColumnDescriptor describes one grid column's display, sort, and filter
// behavior. Editable grids pair each column with a FieldDescriptor by ID;
// read-only display columns (computed or joined values) stand alone.
type ColumnDescriptor struct {
	ID         string     `json:"id"`
	Label      string     `json:"label"`
	Width      int        `json:"width,omitempty"`
	Sortable   bool       `json:"sortable,omitempty"`
	Filterable bool       `json:"filterable,omitempty"`
	FilterKind FilterKind `json:"filterKind,omitempty"`

	// FilterOperator overrides the default operator for FilterText columns:
	// "contains" (default), "startsWith", "endsWith", or "eq".
	FilterOperator string `json:"filterOperator,omitempty"`

	// FilterOptions constrain multiselect filters to a known value set.
	FilterOptions []Option `json:"filterOptions,omitempty"`

	// Format renders a cell value for display. Nil means fmt.Sprint.
	Format func(value any) string `json:"-"`
}

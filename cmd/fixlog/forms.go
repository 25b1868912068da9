package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/ozgurkzlkaya/fixlog/internal/client"
	"github.com/ozgurkzlkaya/fixlog/internal/descriptor"
	"github.com/ozgurkzlkaya/fixlog/internal/form"
	"github.com/ozgurkzlkaya/fixlog/internal/model"
)

func floatPtr(f float64) *float64 { return &f }

// issueFormFields declare the inputs for reporting an issue. The create
// command binds flag values onto them so the validation rules run before
// the request leaves the machine.
var issueFormFields = []descriptor.FieldDescriptor{
	{ID: "product_id", Label: "Product", Kind: descriptor.KindText, Required: true},
	{ID: "title", Label: "Title", Kind: descriptor.KindText, Required: true, MaxLength: 200},
	{ID: "description", Label: "Description", Kind: descriptor.KindText},
	{ID: "priority", Label: "Priority", Kind: descriptor.KindNumber,
		Min: floatPtr(0), Max: floatPtr(3), DefaultValue: 1},
	{ID: "category", Label: "Category", Kind: descriptor.KindSelect,
		Options: []descriptor.Option{
			{Value: model.CategoryMechanical, Label: "Mechanical"},
			{Value: model.CategoryElectrical, Label: "Electrical"},
			{Value: model.CategorySoftware, Label: "Software"},
			{Value: model.CategoryCosmetic, Label: "Cosmetic"},
			{Value: model.CategoryOther, Label: "Other"},
		}},
	{ID: "assignee", Label: "Assignee", Kind: descriptor.KindText},
	{ID: "company_id", Label: "Company", Kind: descriptor.KindText},
}

// issueCreateRequest maps submitted form values onto the API request.
func issueCreateRequest(values map[string]any) *client.CreateIssueRequest {
	return &client.CreateIssueRequest{
		ProductID:   stringValue(values, "product_id"),
		CompanyID:   stringValue(values, "company_id"),
		Title:       stringValue(values, "title"),
		Description: stringValue(values, "description"),
		Priority:    intValue(values, "priority"),
		Category:    stringValue(values, "category"),
		Assignee:    stringValue(values, "assignee"),
		Actor:       actor,
	}
}

func stringValue(values map[string]any, id string) string {
	s, _ := values[id].(string)
	return s
}

func intValue(values map[string]any, id string) int {
	switch n := values[id].(type) {
	case int:
		return n
	case float64:
		return int(n)
	}
	return 0
}

// formError flattens the engine's field errors into one CLI error, fields
// in stable order.
func formError(eng *form.Engine) error {
	errs := eng.Errors()
	fields := make([]string, 0, len(errs))
	for f := range errs {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	parts := make([]string, len(fields))
	for i, f := range fields {
		parts[i] = fmt.Sprintf("%s %s", f, errs[f])
	}
	return fmt.Errorf("invalid input: %s", strings.Join(parts, "; "))
}

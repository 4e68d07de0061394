// Package catalog loads the static recipe catalog and decodes its stored
// list fields into ordered string slices.
package catalog

import "strings"

// Entry is an immutable catalog record. ID is the row position, which is
// also the row of the entry's vector in the feature matrix.
type Entry struct {
	ID          int
	Name        string
	Ingredients []string
	Cuisine     string
	Steps       []string

	// Stored values, kept for fitting and for display when decoding fails.
	RawIngredients string
	RawSteps       string
}

// Field names a text column used when fitting a feature space.
type Field string

const (
	FieldName        Field = "name"
	FieldIngredients Field = "ingredients"
	FieldCuisine     Field = "cuisine"
	FieldSteps       Field = "steps"
)

// DefaultFitFields are the columns whose text describes a recipe for matching.
var DefaultFitFields = []Field{FieldName, FieldIngredients, FieldCuisine}

// Text joins the stored values of the given fields with spaces.
func (e Entry) Text(fields []Field) string {
	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		switch f {
		case FieldName:
			parts = append(parts, e.Name)
		case FieldIngredients:
			parts = append(parts, e.RawIngredients)
		case FieldCuisine:
			parts = append(parts, e.Cuisine)
		case FieldSteps:
			parts = append(parts, e.RawSteps)
		}
	}
	return strings.Join(parts, " ")
}

// ParseFields parses a comma separated field list such as "name,ingredients".
func ParseFields(list string) ([]Field, bool) {
	var fields []Field
	for _, raw := range strings.Split(list, ",") {
		f := Field(strings.ToLower(strings.TrimSpace(raw)))
		switch f {
		case FieldName, FieldIngredients, FieldCuisine, FieldSteps:
			fields = append(fields, f)
		case "":
		default:
			return nil, false
		}
	}
	return fields, len(fields) > 0
}

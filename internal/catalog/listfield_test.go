package catalog_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/recipe-engine/backend/internal/catalog"
)

func TestDecodeList(t *testing.T) {
	tests := []struct {
		name      string
		raw       string
		delimiter string
		expected  []string
		ok        bool
	}{
		{"JSON list", `["1 cup rice", "salt"]`, ",", []string{"1 cup rice", "salt"}, true},
		{"JSON numbers", `["onion", 2]`, ",", []string{"onion", "2"}, true},
		{"Single quoted literal", `['ghee', 'jeera']`, ",", []string{"ghee", "jeera"}, true},
		{"Mixed quotes", `['cook\'s choice', "dal's tadka"]`, ",", []string{"cook's choice", "dal's tadka"}, true},
		{"Trailing comma", `['a', 'b',]`, ",", []string{"a", "b"}, true},
		{"Empty literal", `[ ]`, ",", []string{}, true},
		{"Escaped newline", `['line one\nline two']`, "\n", []string{"line one\nline two"}, true},
		{"Comma blob", "tomato, onion , ,garlic", ",", []string{"tomato", "onion", "garlic"}, true},
		{"Newline steps", "Heat oil.\nAdd cumin.\n\n", "\n", []string{"Heat oil.", "Add cumin."}, true},
		{"No delimiter", "just text", "", []string{"just text"}, true},
		{"Empty", "   ", ",", []string{}, true},
		{"Unterminated", `['ghee', 'jeera`, ",", []string{`['ghee', 'jeera`}, false},
		{"Code is not evaluated", `[__import__('os').system('rm -rf /')]`, ",", []string{`[__import__('os').system('rm -rf /')]`}, false},
		{"Trailing data", `['a'] + ['b']`, ",", []string{`['a'] + ['b']`}, false},
		{"Nested", `[["a"]]`, ",", []string{`[["a"]]`}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items, ok := catalog.DecodeList(tt.raw, tt.delimiter)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.expected, items)
		})
	}
}

func TestEntryText(t *testing.T) {
	e := catalog.Entry{
		Name:           "Jeera Rice",
		RawIngredients: "['rice', 'jeera']",
		Cuisine:        "North Indian",
		RawSteps:       "Boil rice",
	}

	assert.Equal(t, "Jeera Rice ['rice', 'jeera'] North Indian", e.Text(catalog.DefaultFitFields))
	assert.Equal(t, "Boil rice", e.Text([]catalog.Field{catalog.FieldSteps}))
}

func TestParseFields(t *testing.T) {
	fields, ok := catalog.ParseFields("Name, steps")
	assert.True(t, ok)
	assert.Equal(t, []catalog.Field{catalog.FieldName, catalog.FieldSteps}, fields)

	_, ok = catalog.ParseFields("name,calories")
	assert.False(t, ok)

	_, ok = catalog.ParseFields(" , ")
	assert.False(t, ok)
}

package catalog

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/sirupsen/logrus"
)

// ErrMissingColumn is returned when a required catalog column is absent.
var ErrMissingColumn = errors.New("missing catalog column")

// Options controls how stored list fields are decoded.
type Options struct {
	IngredientDelimiter string
	StepDelimiter       string
	Logger              *logrus.Entry
}

// DefaultOptions splits ingredient blobs on commas and step blobs on newlines.
func DefaultOptions() Options {
	return Options{
		IngredientDelimiter: ",",
		StepDelimiter:       "\n",
	}
}

func (o Options) logger() *logrus.Entry {
	if o.Logger == nil {
		return logrus.WithField("component", "catalog")
	}
	return o.Logger
}

var columnAliases = map[Field][]string{
	FieldName:        {"recipename", "recipe_name", "name", "title"},
	FieldIngredients: {"ingredients"},
	FieldCuisine:     {"cuisine"},
	FieldSteps:       {"steps", "instructions"},
}

// ReadCSV loads catalog entries from a CSV with a header row. Header names
// are matched case-insensitively; extra columns are ignored.
func ReadCSV(r io.Reader, opts Options) ([]Entry, error) {
	reader := csv.NewReader(r)
	header, err := reader.Read()
	if err != nil {
		if err == io.EOF {
			return nil, fmt.Errorf("%w: catalog has no header row", ErrMissingColumn)
		}
		return nil, fmt.Errorf("failed to read catalog header: %w", err)
	}

	cols, err := resolveColumns(header)
	if err != nil {
		return nil, err
	}

	var entries []Entry
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read catalog row %d: %w", len(entries), err)
		}
		entries = append(entries, newEntry(len(entries),
			record[cols[FieldName]],
			record[cols[FieldIngredients]],
			record[cols[FieldCuisine]],
			record[cols[FieldSteps]],
			opts,
		))
	}
	return entries, nil
}

func resolveColumns(header []string) (map[Field]int, error) {
	positions := make(map[string]int, len(header))
	for i, h := range header {
		h = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
		if _, dup := positions[h]; !dup {
			positions[h] = i
		}
	}

	cols := make(map[Field]int, len(columnAliases))
	for field, aliases := range columnAliases {
		found := false
		for _, alias := range aliases {
			if i, ok := positions[alias]; ok {
				cols[field] = i
				found = true
				break
			}
		}
		if !found {
			return nil, fmt.Errorf("%w: %s", ErrMissingColumn, field)
		}
	}
	return cols, nil
}

func newEntry(id int, name, ingredients, cuisine, steps string, opts Options) Entry {
	e := Entry{
		ID:             id,
		Name:           strings.TrimSpace(name),
		Cuisine:        strings.TrimSpace(cuisine),
		RawIngredients: ingredients,
		RawSteps:       steps,
	}

	var ok bool
	if e.Ingredients, ok = DecodeList(ingredients, opts.IngredientDelimiter); !ok {
		opts.logger().WithField("recipe_id", id).Debug("Ingredients field is not a valid list, keeping raw value")
	}
	if e.Steps, ok = DecodeList(steps, opts.StepDelimiter); !ok {
		opts.logger().WithField("recipe_id", id).Debug("Steps field is not a valid list, keeping raw value")
	}
	return e
}

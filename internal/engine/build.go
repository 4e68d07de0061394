package engine

import (
	"bytes"
	"context"
	"fmt"

	"github.com/recipe-engine/backend/internal/catalog"
	"github.com/recipe-engine/backend/internal/search"
	"github.com/recipe-engine/backend/internal/storage"
)

// Fit normalizes the chosen fields of every entry, fits a feature space
// over them and returns it with the matrix of catalog vectors. Row i of
// the matrix belongs to entries[i].
func Fit(entries []catalog.Entry, fields []catalog.Field, normalizer *search.Normalizer) (*search.FeatureSpace, *search.Matrix) {
	docs := make([]string, len(entries))
	for i, entry := range entries {
		docs[i] = normalizer.Normalize(entry.Text(fields))
	}

	space := search.Fit(docs, normalizer.Analyzer())
	rows := make([]search.SparseVector, len(docs))
	for i, doc := range docs {
		rows[i] = space.Transform(doc)
	}
	return space, search.NewMatrix(rows, space.Dim())
}

// WriteArtifacts stores the feature space and matrix under the given names.
func WriteArtifacts(ctx context.Context, store storage.ArtifactStore, spaceName, matrixName string, space *search.FeatureSpace, matrix *search.Matrix) error {
	var buf bytes.Buffer
	if err := search.WriteFeatureSpace(&buf, space); err != nil {
		return err
	}
	if err := store.Put(ctx, spaceName, &buf); err != nil {
		return fmt.Errorf("failed to store %s: %w", spaceName, err)
	}

	buf.Reset()
	if err := search.WriteMatrix(&buf, matrix); err != nil {
		return err
	}
	if err := store.Put(ctx, matrixName, &buf); err != nil {
		return fmt.Errorf("failed to store %s: %w", matrixName, err)
	}
	return nil
}

package engine

import (
	"context"
	"fmt"
	"io"

	"github.com/sirupsen/logrus"

	"github.com/recipe-engine/backend/internal/catalog"
	"github.com/recipe-engine/backend/internal/config"
	"github.com/recipe-engine/backend/internal/search"
	"github.com/recipe-engine/backend/internal/storage"
)

// Load reads the catalog and both artifacts and assembles an Engine.
// Any failure here means the service cannot answer queries.
func Load(ctx context.Context, store storage.ArtifactStore, cfg *config.Config, logger *logrus.Entry, opts ...Option) (*Engine, error) {
	// 1. Stop words
	stop, err := loadStopwords(cfg.Text)
	if err != nil {
		return nil, err
	}

	// 2. Feature space
	var space *search.FeatureSpace
	if err := readArtifact(ctx, store, cfg.Artifacts.FeatureSpaceKey, func(r io.Reader) error {
		space, err = search.ReadFeatureSpace(r)
		return err
	}); err != nil {
		return nil, err
	}

	normalizer, err := search.NewNormalizerFor(space, stop)
	if err != nil {
		return nil, err
	}

	// 3. Matrix
	var matrix *search.Matrix
	if err := readArtifact(ctx, store, cfg.Artifacts.MatrixKey, func(r io.Reader) error {
		matrix, err = search.ReadMatrix(r)
		return err
	}); err != nil {
		return nil, err
	}

	// 4. Catalog
	entries, err := loadCatalog(ctx, store, cfg.Catalog, logger)
	if err != nil {
		return nil, err
	}

	eng, err := New(entries, space, matrix, normalizer, append([]Option{WithLogger(logger)}, opts...)...)
	if err != nil {
		return nil, err
	}

	logger.WithFields(logrus.Fields{
		"recipes":    len(entries),
		"vocabulary": space.Dim(),
		"stemming":   space.Analyzer.Stem,
		"source":     cfg.Catalog.Source,
	}).Info("Recommendation engine loaded")
	return eng, nil
}

func loadStopwords(cfg config.TextConfig) (*search.StopwordSet, error) {
	if cfg.StopwordsFile == "" {
		return search.DefaultStopwords()
	}
	stop, err := search.ReadStopwordsFile(cfg.StopwordsFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load stop words: %w", err)
	}
	return stop, nil
}

func loadCatalog(ctx context.Context, store storage.ArtifactStore, cfg config.CatalogConfig, logger *logrus.Entry) ([]catalog.Entry, error) {
	opts := catalog.Options{
		IngredientDelimiter: cfg.IngredientDelimiter,
		StepDelimiter:       cfg.StepDelimiter,
		Logger:              logger.WithField("component", "catalog"),
	}

	switch cfg.Source {
	case config.SourceSQLite:
		entries, err := catalog.LoadSQLiteFile(cfg.SQLitePath, opts)
		if err != nil {
			return nil, fmt.Errorf("failed to load catalog: %w", err)
		}
		return entries, nil
	case config.SourceCSV:
		var entries []catalog.Entry
		err := readArtifact(ctx, store, cfg.CSVKey, func(r io.Reader) error {
			var err error
			entries, err = catalog.ReadCSV(r, opts)
			return err
		})
		if err != nil {
			return nil, fmt.Errorf("failed to load catalog: %w", err)
		}
		return entries, nil
	default:
		return nil, fmt.Errorf("unknown catalog source %q", cfg.Source)
	}
}

func readArtifact(ctx context.Context, store storage.ArtifactStore, name string, decode func(io.Reader) error) error {
	rc, err := store.Open(ctx, name)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", name, err)
	}
	defer rc.Close()

	if err := decode(rc); err != nil {
		return fmt.Errorf("failed to read %s: %w", name, err)
	}
	return nil
}

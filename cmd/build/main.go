package main

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"github.com/recipe-engine/backend/internal/catalog"
	"github.com/recipe-engine/backend/internal/config"
	"github.com/recipe-engine/backend/internal/engine"
	"github.com/recipe-engine/backend/internal/logging"
	"github.com/recipe-engine/backend/internal/search"
	"github.com/recipe-engine/backend/internal/storage"
)

type options struct {
	catalogPath   string
	outDir        string
	stem          bool
	fields        string
	stopwordsFile string
	sqlitePath    string
}

func main() {
	var opts options
	flag.StringVar(&opts.catalogPath, "catalog", "recipes.csv", "recipe catalog CSV")
	flag.StringVar(&opts.outDir, "out", "./data", "artifact output directory")
	flag.BoolVar(&opts.stem, "stem", false, "apply English stemming")
	flag.StringVar(&opts.fields, "fields", "name,ingredients,cuisine", "catalog fields to fit on")
	flag.StringVar(&opts.stopwordsFile, "stopwords", "", "stop-word file (default: embedded English list)")
	flag.StringVar(&opts.sqlitePath, "sqlite", "", "also export the catalog to this SQLite file")
	flag.Parse()

	if err := config.LoadDotEnv(); err != nil {
		logrus.Fatalf("Failed to load environment: %v", err)
	}
	cfg := config.Load()

	logger, err := logging.New(cfg.Log, os.Stderr)
	if err != nil {
		logrus.Fatalf("Failed to configure logging: %v", err)
	}
	entry := logger.WithField("service", "recipe-build")

	if err := run(context.Background(), opts, cfg, entry); err != nil {
		entry.Fatalf("Build failed: %v", err)
	}
}

func run(ctx context.Context, opts options, cfg *config.Config, log *logrus.Entry) error {
	fields, ok := catalog.ParseFields(opts.fields)
	if !ok {
		return fmt.Errorf("invalid -fields %q", opts.fields)
	}

	// 1. Stop words
	var stop *search.StopwordSet
	var err error
	if opts.stopwordsFile != "" {
		stop, err = search.ReadStopwordsFile(opts.stopwordsFile)
	} else {
		stop, err = search.DefaultStopwords()
	}
	if err != nil {
		return err
	}
	normalizer := search.NewNormalizer(stop, opts.stem)

	// 2. Catalog
	raw, err := os.ReadFile(opts.catalogPath)
	if err != nil {
		return fmt.Errorf("failed to read catalog: %w", err)
	}
	entries, err := catalog.ReadCSV(bytes.NewReader(raw), catalog.Options{
		IngredientDelimiter: cfg.Catalog.IngredientDelimiter,
		StepDelimiter:       cfg.Catalog.StepDelimiter,
		Logger:              log.WithField("component", "catalog"),
	})
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		return engine.ErrEmptyCatalog
	}

	// 3. Fit
	space, matrix := engine.Fit(entries, fields, normalizer)
	log.WithFields(logrus.Fields{
		"recipes":    len(entries),
		"vocabulary": space.Dim(),
		"stored":     len(matrix.Data),
		"stemming":   opts.stem,
	}).Info("Feature space fitted")

	// 4. Artifacts
	store, err := storage.NewFileStorage(opts.outDir)
	if err != nil {
		return err
	}
	defer store.Close()

	if err := engine.WriteArtifacts(ctx, store, cfg.Artifacts.FeatureSpaceKey, cfg.Artifacts.MatrixKey, space, matrix); err != nil {
		return err
	}
	if err := store.Put(ctx, cfg.Catalog.CSVKey, bytes.NewReader(raw)); err != nil {
		return fmt.Errorf("failed to store catalog: %w", err)
	}
	log.WithField("dir", store.Dir()).Info("Artifacts written")

	// 5. Optional SQLite export
	if opts.sqlitePath != "" {
		if err := os.MkdirAll(filepath.Dir(opts.sqlitePath), 0755); err != nil {
			return fmt.Errorf("failed to create sqlite directory: %w", err)
		}
		db, err := catalog.OpenSQLite(opts.sqlitePath)
		if err != nil {
			return err
		}
		defer catalog.CloseSQLite(db)
		if err := catalog.ExportSQLite(db, entries); err != nil {
			return err
		}
		log.WithField("path", opts.sqlitePath).Info("Catalog exported to SQLite")
	}
	return nil
}

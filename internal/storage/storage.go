package storage

import (
	"context"
	"fmt"

	"github.com/recipe-engine/backend/internal/config"
)

// New opens the artifact store selected by cfg.Backend.
func New(ctx context.Context, cfg config.ArtifactConfig) (ArtifactStore, error) {
	switch cfg.Backend {
	case config.BackendFile:
		return NewFileStorage(cfg.Dir)
	case config.BackendS3:
		return NewS3Storage(ctx, cfg.S3Bucket, cfg.S3Prefix, cfg.AWSRegion)
	case config.BackendHTTP:
		return NewHTTPStorage(cfg.HTTPBaseURL, cfg.HTTPTimeout)
	default:
		return nil, fmt.Errorf("unknown artifact backend %q", cfg.Backend)
	}
}

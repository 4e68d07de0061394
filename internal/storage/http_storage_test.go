package storage_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/recipe-engine/backend/internal/config"
	"github.com/recipe-engine/backend/internal/storage"
)

func newArtifactServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/models/v1/feature_space.json", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"version":1}`))
	})
	mux.HandleFunc("/models/v1/broken.json", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestHTTPStorageOpen(t *testing.T) {
	srv := newArtifactServer(t)
	store, err := storage.NewHTTPStorage(srv.URL+"/models/v1", time.Second)
	require.NoError(t, err)
	defer store.Close()

	rc, err := store.Open(context.Background(), "feature_space.json")
	require.NoError(t, err)
	defer rc.Close()
	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, `{"version":1}`, string(data))
}

func TestHTTPStorageErrors(t *testing.T) {
	srv := newArtifactServer(t)
	store, err := storage.NewHTTPStorage(srv.URL+"/models/v1/", time.Second)
	require.NoError(t, err)
	ctx := context.Background()

	_, err = store.Open(ctx, "tfidf_matrix.json")
	assert.ErrorIs(t, err, storage.ErrNotFound)

	_, err = store.Open(ctx, "broken.json")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, storage.ErrNotFound)

	_, err = store.Open(ctx, "../secrets")
	assert.ErrorIs(t, err, storage.ErrInvalidName)

	assert.ErrorIs(t, store.Put(ctx, "feature_space.json", strings.NewReader("x")), storage.ErrReadOnly)
}

func TestNewHTTPStorageInvalidURL(t *testing.T) {
	for _, raw := range []string{"", "ftp://host/models", "not a url", "http://"} {
		_, err := storage.NewHTTPStorage(raw, time.Second)
		assert.Error(t, err, raw)
	}
}

func TestNewHTTPBackend(t *testing.T) {
	srv := newArtifactServer(t)
	store, err := storage.New(context.Background(), config.ArtifactConfig{
		Backend:     config.BackendHTTP,
		HTTPBaseURL: srv.URL + "/models/v1",
		HTTPTimeout: time.Second,
	})
	require.NoError(t, err)
	assert.IsType(t, &storage.HTTPStorage{}, store)
}

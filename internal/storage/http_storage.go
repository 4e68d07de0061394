package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// ErrReadOnly is returned when writing to a store that only serves reads.
var ErrReadOnly = errors.New("artifact store is read-only")

// HTTPStorage reads artifacts published under a base URL, such as a CDN
// or a static file server.
type HTTPStorage struct {
	client  *http.Client
	baseURL *url.URL
}

func NewHTTPStorage(baseURL string, timeout time.Duration) (*HTTPStorage, error) {
	u, err := url.Parse(baseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("invalid artifact base url %q", baseURL)
	}
	if !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}

	return &HTTPStorage{
		client: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:        10,
				MaxIdleConnsPerHost: 4,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		baseURL: u,
	}, nil
}

// Open downloads an artifact. The caller must close the body.
func (s *HTTPStorage) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	if !validName(name) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	target := s.baseURL.ResolveReference(&url.URL{Path: name})

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", "recipe-engine/1.0")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("network error: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusNotFound:
		resp.Body.Close()
		return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	case resp.StatusCode != http.StatusOK:
		resp.Body.Close()
		return nil, fmt.Errorf("received non-200 status code %d for %s", resp.StatusCode, name)
	}
	return resp.Body, nil
}

func (s *HTTPStorage) Put(ctx context.Context, name string, r io.Reader) error {
	return ErrReadOnly
}

func (s *HTTPStorage) Close() error {
	s.client.CloseIdleConnections()
	return nil
}

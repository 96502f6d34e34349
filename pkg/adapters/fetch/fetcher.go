// Package fetch retrieves remote model sources over HTTP, with an optional
// Redis-backed byte cache.
package fetch

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"

	"github.com/dverna/annet/internal/logging"
	"github.com/dverna/annet/internal/metrics"
	"github.com/dverna/annet/pkg/domain"
)

// Fetcher downloads remote model files. Fetches are blocking and never
// retried; a failure surfaces as a *domain.FetchError.
type Fetcher struct {
	client *http.Client
	cache  *Cache
	logger *slog.Logger
}

// Option configures the fetcher.
type Option func(*Fetcher)

// WithClient sets the HTTP client used for downloads.
func WithClient(client *http.Client) Option {
	return func(f *Fetcher) {
		f.client = client
	}
}

// WithCache enables the download cache.
func WithCache(cache *Cache) Option {
	return func(f *Fetcher) {
		f.cache = cache
	}
}

// WithLogger sets a structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(f *Fetcher) {
		f.logger = logger
	}
}

// New creates a fetcher.
func New(opts ...Option) *Fetcher {
	f := &Fetcher{
		client: http.DefaultClient,
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// IsRemote reports whether the path parses as a URI with a network
// location (scheme and host present).
func IsRemote(rawPath string) bool {
	u, err := url.Parse(rawPath)
	return err == nil && u.Scheme != "" && u.Host != ""
}

// Fetch downloads the remote source into destDir, deriving the local file
// name from the URI's basename, and returns the local path. A cache hit
// skips the network entirely.
func (f *Fetcher) Fetch(ctx context.Context, rawURL, destDir string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return "", &domain.FetchError{URL: rawURL, Err: fmt.Errorf("not a remote URL")}
	}

	name := path.Base(u.Path)
	if name == "" || name == "." || name == "/" {
		name = "model"
	}
	dest := filepath.Join(destDir, name)

	if f.cache != nil {
		data, ok, err := f.cache.Get(ctx, rawURL)
		if err != nil {
			return "", &domain.FetchError{URL: rawURL, Err: err}
		}
		if ok {
			f.logger.Debug("download cache hit", "url", rawURL)
			if err := os.WriteFile(dest, data, 0o644); err != nil {
				return "", &domain.FetchError{URL: rawURL, Err: err}
			}
			return dest, nil
		}
	}

	f.logger.Debug("downloading model", "url", rawURL, "dest", dest)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", &domain.FetchError{URL: rawURL, Err: err}
	}
	resp, err := f.client.Do(req)
	if err != nil {
		return "", &domain.FetchError{URL: rawURL, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", &domain.FetchError{
			URL: rawURL,
			Err: fmt.Errorf("unexpected status %s", resp.Status),
		}
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &domain.FetchError{URL: rawURL, Err: err}
	}
	if err := os.WriteFile(dest, data, 0o644); err != nil {
		return "", &domain.FetchError{URL: rawURL, Err: err}
	}

	if f.cache != nil {
		if err := f.cache.Put(ctx, rawURL, data); err != nil {
			// The download itself succeeded; a cache write failure only
			// costs the next load a network round-trip.
			f.logger.Warn("failed to cache download", "url", rawURL, "error", err)
		}
	}

	metrics.Fetches.Inc()
	return dest, nil
}

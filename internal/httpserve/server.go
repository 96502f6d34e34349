// Package httpserve exposes a local model directory over HTTP, together
// with the toolkit's Prometheus metrics. It is the counterpart of the
// loader's remote-fetch path: anything it serves can be loaded back through
// a URL.
package httpserve

import (
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dverna/annet/pkg/loader"
)

// NewHandler builds the HTTP handler serving model files from dir.
// Only files whose extension appears in the loader's format table are
// served; everything else is not found.
func NewHandler(dir string, logger *slog.Logger) http.Handler {
	allowed := make(map[string]bool)
	for _, pair := range loader.Extensions() {
		allowed[pair[0]] = true
	}

	r := chi.NewRouter()

	r.Get("/healthz", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	r.Handle("/metrics", promhttp.Handler())

	r.Get("/models/{name}", func(w http.ResponseWriter, req *http.Request) {
		name := chi.URLParam(req, "name")
		// Reject traversal; names are flat files in dir.
		if name != filepath.Base(name) || strings.HasPrefix(name, ".") {
			http.NotFound(w, req)
			return
		}
		ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(name), "."))
		if !allowed[ext] {
			http.NotFound(w, req)
			return
		}
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err != nil {
			http.NotFound(w, req)
			return
		}
		logger.Debug("serving model", "name", name)
		http.ServeFile(w, req, path)
	})

	return r
}

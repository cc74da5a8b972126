// Package server implements the preview HTTP server: Markdown documents are
// rendered per request from a source directory, with health and Prometheus
// metrics endpoints alongside.
package server

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/net/html"

	"git.home.luguber.info/inful/mdhtml/internal/config"
	"git.home.luguber.info/inful/mdhtml/internal/logfields"
	"git.home.luguber.info/inful/mdhtml/internal/render"
)

// indexCandidates are tried, in order, when a directory is requested.
var indexCandidates = []string{"index.md", "README.md"}

// Server renders Markdown from a source directory on demand.
type Server struct {
	renderer *render.Renderer
	srcDir   string
	listen   string
	metrics  *Metrics
	logger   *slog.Logger
}

// New constructs a preview server for srcDir using the config's render
// options.
func New(cfg *config.Config, srcDir string) (*Server, error) {
	r, err := render.New(cfg.RenderOptions(), render.DefaultRenderers())
	if err != nil {
		return nil, err
	}
	abs, err := filepath.Abs(srcDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve source directory: %w", err)
	}
	return &Server{
		renderer: r,
		srcDir:   abs,
		listen:   cfg.Server.Listen,
		metrics:  NewMetrics(),
		logger:   slog.Default(),
	}, nil
}

// Handler returns the full middleware-wrapped handler. Exposed for tests.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", s.handleHealth)
	mux.Handle("/metrics", s.metrics.Handler())
	mux.HandleFunc("/", s.handleDocument)
	return chain(s.logger, mux)
}

// Start serves until ctx is canceled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.listen,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("Preview server listening", "addr", s.listen, "source", s.srcDir)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprintln(w, "ok")
}

func (s *Server) handleDocument(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	src, ok := s.resolve(r.URL.Path)
	if !ok {
		http.NotFound(w, r)
		return
	}

	source, err := os.ReadFile(src)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	start := time.Now()
	var body bytes.Buffer
	err = s.renderer.RenderHTML(&body, source)
	s.metrics.ObserveRender(time.Since(start), err)
	if err != nil {
		s.logger.Error("Render failed", logfields.Document(src), logfields.Error(err))
		http.Error(w, "render failed", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	writePage(w, filepath.Base(src), body.Bytes())
}

// resolve maps a request path to a Markdown file under the source
// directory. Directory requests fall back to index candidates. Paths that
// escape the source directory resolve to nothing.
func (s *Server) resolve(urlPath string) (string, bool) {
	rel := strings.TrimPrefix(filepath.Clean("/"+urlPath), "/")
	path := filepath.Join(s.srcDir, rel)
	if !strings.HasPrefix(path, s.srcDir) {
		return "", false
	}

	if info, err := os.Stat(path); err == nil && info.IsDir() {
		for _, name := range indexCandidates {
			candidate := filepath.Join(path, name)
			if _, err := os.Stat(candidate); err == nil {
				return candidate, true
			}
		}
		return "", false
	}

	// A request for doc.html serves the rendered doc.md.
	if ext := filepath.Ext(path); ext == ".html" {
		path = strings.TrimSuffix(path, ext) + ".md"
	}
	if _, err := os.Stat(path); err != nil {
		return "", false
	}
	return path, true
}

// writePage wraps rendered body markup in a minimal HTML document shell.
func writePage(w http.ResponseWriter, title string, body []byte) {
	fmt.Fprintf(w, "<!DOCTYPE html>\n<html>\n<head><meta charset=\"utf-8\"><title>%s</title></head>\n<body>\n", html.EscapeString(title))
	w.Write(body)
	fmt.Fprint(w, "\n</body>\n</html>\n")
}

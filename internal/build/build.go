// Package build renders Markdown files or directory trees to HTML files on
// disk, mirroring the source layout under the output directory.
package build

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"git.home.luguber.info/inful/mdhtml/internal/config"
	"git.home.luguber.info/inful/mdhtml/internal/logfields"
	"git.home.luguber.info/inful/mdhtml/internal/render"
)

// Stats summarizes a completed build.
type Stats struct {
	Pages    int
	Duration time.Duration
}

// Builder renders Markdown sources to HTML files using one shared renderer
// configuration. A Builder is safe for concurrent Run calls.
type Builder struct {
	renderer *render.Renderer
	outDir   string
	clean    bool
}

// New constructs a Builder from configuration.
func New(cfg *config.Config) (*Builder, error) {
	r, err := render.New(cfg.RenderOptions(), render.DefaultRenderers())
	if err != nil {
		return nil, err
	}
	return &Builder{
		renderer: r,
		outDir:   cfg.Output.Directory,
		clean:    cfg.Output.Clean,
	}, nil
}

// NewWithRenderers constructs a Builder with a caller-supplied renderer set
// replacing the defaults.
func NewWithRenderers(cfg *config.Config, rs render.ElementRenderers) (*Builder, error) {
	r, err := render.New(cfg.RenderOptions(), rs)
	if err != nil {
		return nil, err
	}
	return &Builder{
		renderer: r,
		outDir:   cfg.Output.Directory,
		clean:    cfg.Output.Clean,
	}, nil
}

// Run renders input (a Markdown file or a directory tree of them) into the
// output directory. The context is checked between files so a build over a
// large tree can be canceled.
func (b *Builder) Run(ctx context.Context, input string) (Stats, error) {
	start := time.Now()

	info, err := os.Stat(input)
	if err != nil {
		return Stats{}, fmt.Errorf("failed to stat input: %w", err)
	}

	if b.clean {
		if err := os.RemoveAll(b.outDir); err != nil {
			return Stats{}, fmt.Errorf("failed to clean output directory: %w", err)
		}
	}

	var pages int
	if !info.IsDir() {
		if err := b.renderFile(input, b.outputPath(filepath.Base(input))); err != nil {
			return Stats{}, err
		}
		pages = 1
	} else {
		pages, err = b.renderTree(ctx, input)
		if err != nil {
			return Stats{}, err
		}
	}

	stats := Stats{Pages: pages, Duration: time.Since(start)}
	slog.Info("Build complete",
		logfields.Output(b.outDir),
		logfields.Pages(stats.Pages),
		logfields.DurationMS(float64(stats.Duration.Milliseconds())))
	return stats, nil
}

func (b *Builder) renderTree(ctx context.Context, root string) (int, error) {
	pages := 0
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if d.IsDir() || !IsMarkdown(path) {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		if err := b.renderFile(path, b.outputPath(rel)); err != nil {
			return err
		}
		pages++
		return nil
	})
	if err != nil {
		return pages, fmt.Errorf("build failed: %w", err)
	}
	return pages, nil
}

func (b *Builder) renderFile(src, dst string) error {
	source, err := os.ReadFile(src)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", src, err)
	}
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", dst, err)
	}
	defer out.Close()

	if err := b.renderer.RenderHTML(out, source); err != nil {
		return fmt.Errorf("failed to render %s: %w", src, err)
	}
	slog.Debug("Rendered document", logfields.Document(src), logfields.Output(dst))
	return nil
}

// outputPath maps a source-relative Markdown path to its HTML destination.
func (b *Builder) outputPath(rel string) string {
	ext := filepath.Ext(rel)
	return filepath.Join(b.outDir, strings.TrimSuffix(rel, ext)+".html")
}

// IsMarkdown reports whether path looks like a Markdown source file.
func IsMarkdown(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".md", ".markdown":
		return true
	}
	return false
}

// Package watch rebuilds output whenever Markdown sources change.
package watch

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"git.home.luguber.info/inful/mdhtml/internal/build"
	"git.home.luguber.info/inful/mdhtml/internal/logfields"
)

// Watcher monitors a source tree and triggers rebuilds on change. Events
// are debounced so editor save bursts produce a single rebuild.
type Watcher struct {
	builder      *build.Builder
	root         string
	watcher      *fsnotify.Watcher
	rebuildChan  chan struct{}
	debounceTime time.Duration
}

// New creates a watcher over root that rebuilds with builder.
func New(builder *build.Builder, root string) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		fw.Close()
		return nil, fmt.Errorf("failed to resolve watch root: %w", err)
	}
	return &Watcher{
		builder:      builder,
		root:         abs,
		watcher:      fw,
		rebuildChan:  make(chan struct{}, 1),
		debounceTime: 500 * time.Millisecond,
	}, nil
}

// Run builds once, then watches until ctx is canceled. Directories are
// watched rather than individual files (more reliable across editors), and
// directories created while running are added to the watch set.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.watcher.Close()

	if err := w.addTree(w.root); err != nil {
		return err
	}

	if _, err := w.builder.Run(ctx, w.root); err != nil {
		slog.Error("Initial build failed", logfields.Error(err))
	}

	go w.rebuildLoop(ctx)

	slog.Info("Watching for changes", logfields.Document(w.root))
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			w.handleEvent(event)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			slog.Warn("Watcher error", logfields.Error(err))
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	if event.Op.Has(fsnotify.Create) {
		// New directories need explicit watches.
		if err := w.addTree(event.Name); err != nil {
			slog.Debug("Could not watch new path", logfields.Document(event.Name), logfields.Error(err))
		}
	}
	// Only Markdown changes trigger rebuilds. Rendered output may live
	// inside the watched tree; reacting to it would loop forever.
	if !build.IsMarkdown(event.Name) {
		return
	}
	select {
	case w.rebuildChan <- struct{}{}:
	default:
		// A rebuild is already pending.
	}
}

func (w *Watcher) rebuildLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.rebuildChan:
		}

		// Debounce: absorb the burst before rebuilding.
		timer := time.NewTimer(w.debounceTime)
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
		}

		if _, err := w.builder.Run(ctx, w.root); err != nil {
			slog.Error("Rebuild failed", logfields.Error(err))
		}
	}
}

// addTree watches path and, if it is a directory, every directory below it.
func (w *Watcher) addTree(path string) error {
	return filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
		// Unreadable entries are skipped rather than aborting the watch.
		if err != nil || !d.IsDir() {
			return nil
		}
		return w.watcher.Add(p)
	})
}

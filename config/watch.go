package config

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/nstehr/helm/agent"
	"github.com/nstehr/helm/priority"
)

const defaultDebounce = 250 * time.Millisecond

// Watcher rebuilds a tree document whenever its file changes and hands the
// new tree to a callback. A document that fails to build is logged and the
// callback is not called, so whoever holds the previous tree keeps it.
type Watcher struct {
	path     string
	reg      *priority.Registry[*agent.Agent]
	onChange func(Tree)
	fsw      *fsnotify.Watcher

	// Debounce is how long the file must stay quiet before a rebuild.
	Debounce time.Duration
}

// NewWatcher watches the directory containing path. Editors that replace
// files by rename never produce a write on the original inode, so the file
// itself is not watched.
func NewWatcher(path string, reg *priority.Registry[*agent.Agent], onChange func(Tree)) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := fsw.Add(filepath.Dir(abs)); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("watch %s: %w", filepath.Dir(abs), err)
	}
	return &Watcher{
		path:     abs,
		reg:      reg,
		onChange: onChange,
		fsw:      fsw,
		Debounce: defaultDebounce,
	}, nil
}

// Run blocks until ctx is cancelled or the underlying watcher fails. The
// watcher is closed on return.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.fsw.Close()
	slog.Info("tree watcher started", "path", w.path)

	var (
		timer *time.Timer
		fire  <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			slog.Info("tree watcher stopped", "path", w.path)
			return nil

		case ev, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != w.path || !(ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create)) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(w.Debounce)
			} else {
				timer.Reset(w.Debounce)
			}
			fire = timer.C

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			slog.Warn("tree watcher error", "path", w.path, "error", err)

		case <-fire:
			fire = nil
			w.reload()
		}
	}
}

func (w *Watcher) reload() {
	tree, err := LoadTree(w.path, w.reg)
	if err != nil {
		slog.Error("tree reload failed, keeping previous tree", "path", w.path, "error", err)
		return
	}
	slog.Info("tree reloaded", "name", tree.Name, "entries", priority.Count(tree.Priorities))
	w.onChange(tree)
}

package loader

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

const watchedOps = fsnotify.Write | fsnotify.Create | fsnotify.Remove | fsnotify.Rename

// Watch invalidates cached results as documents change on disk. It blocks
// until ctx is cancelled.
func (l *Loader[T]) Watch(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	dirs, err := watchTree(watcher, l.dir)
	if err != nil {
		return fmt.Errorf("watch %s: %w", l.dir, err)
	}
	l.opts.logger.Info("watching documents",
		zap.String("kind", string(l.kind)),
		zap.String("dir", l.dir),
		zap.Int("dirs", dirs))

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&fsnotify.Create != 0 && isDir(event.Name) {
				if _, err := watchTree(watcher, event.Name); err != nil {
					l.opts.logger.Warn("watch new directory", zap.String("dir", event.Name), zap.Error(err))
				}
				continue
			}
			l.handle(event)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			l.opts.logger.Warn("watch error", zap.String("kind", string(l.kind)), zap.Error(err))
		}
	}
}

// watchTree adds root and every directory below it, since discovery reaches
// documents at any depth
func watchTree(watcher *fsnotify.Watcher, root string) (int, error) {
	n := 0
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if err := watcher.Add(path); err != nil {
			return err
		}
		n++
		return nil
	})
	return n, err
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

func (l *Loader[T]) handle(event fsnotify.Event) {
	if event.Op&watchedOps == 0 {
		return
	}
	if l.ext != "" && !strings.EqualFold(filepath.Ext(event.Name), l.ext) {
		return
	}

	id, ok := l.idOf(event.Name)
	if !ok {
		id, ok = l.idByPath(event.Name)
	}
	if !ok {
		return
	}

	l.Invalidate(id)
	l.opts.logger.Debug("document changed",
		zap.String("kind", string(l.kind)),
		zap.String("id", id),
		zap.String("op", event.Op.String()))

	if l.opts.onChange != nil {
		l.opts.onChange(l.kind, id)
	}
}

// idByPath finds the identifier a path was loaded under
func (l *Loader[T]) idByPath(path string) (string, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for id, p := range l.paths {
		if p == path {
			return id, true
		}
	}
	return "", false
}

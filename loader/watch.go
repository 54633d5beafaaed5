package loader

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

func (l *loader) Watch(ctx context.Context, dir string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}
	l.logger.Debug("watching", "dir", dir)

	for {
		select {
		case <-ctx.Done():
			return nil
		case e, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			l.handleFileEvent(e)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			l.logger.Error("watch failed", "dir", dir, "err", err)
		}
	}
}

// handleFileEvent reloads or evicts the cached asset behind a changed file.
// Files that were never loaded are ignored.
func (l *loader) handleFileEvent(e fsnotify.Event) {
	if !isModelFile(e.Name) {
		return
	}
	key, ok := l.cachedKey(e.Name)
	if !ok {
		return
	}

	switch {
	case e.Op&(fsnotify.Create|fsnotify.Write) != 0:
		// A failed reload keeps the previous asset.
		asset, err := l.backend.Load(key)
		if err != nil {
			l.logger.Warn("reload failed", "path", key, "err", err)
			return
		}
		l.replace(key, asset)
		l.logger.Info("reloaded asset", "path", key, "id", asset.ID)
		if l.reloadHook != nil {
			l.reloadHook(asset)
		}
	case e.Op&(fsnotify.Remove|fsnotify.Rename) != 0:
		if l.Evict(key) {
			l.logger.Info("evicted asset", "path", key)
		}
	}
}

// cachedKey finds the cache key that names the same file as path.
func (l *loader) cachedKey(path string) (string, bool) {
	target, err := filepath.Abs(path)
	if err != nil {
		return "", false
	}

	l.mu.RLock()
	defer l.mu.RUnlock()
	if _, ok := l.assetCache[path]; ok {
		return path, true
	}
	for key := range l.assetCache {
		if abs, err := filepath.Abs(key); err == nil && abs == target {
			return key, true
		}
	}
	return "", false
}

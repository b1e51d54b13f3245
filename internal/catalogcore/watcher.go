package catalogcore

import (
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/hmans/shelf/internal/catalog"
)

const debounceDelay = 100 * time.Millisecond

// Watch starts watching the configured seed file and reseeds the catalog
// whenever it changes. Reseeding discards every book and category created or
// updated since the last load. A seed file that fails to load or validate is
// logged and the current catalog is kept.
//
// The onReload callback, if not nil, is invoked after each successful reseed.
func (c *Core) Watch(onReload func()) error {
	path := c.config.Catalog.Seed
	if path == "" {
		return nil
	}

	c.watchMu.Lock()
	defer c.watchMu.Unlock()

	if c.watching {
		return nil
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}

	// Watch the parent directory so editors that replace the file on save are picked up
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		watcher.Close()
		return err
	}

	c.watching = true
	c.done = make(chan struct{})
	go c.watchLoop(watcher, filepath.Clean(path), c.done, onReload)

	c.logger.Info("watching seed file", zap.String("path", path))
	return nil
}

// Unwatch stops watching the seed file.
func (c *Core) Unwatch() {
	c.watchMu.Lock()
	defer c.watchMu.Unlock()

	if !c.watching {
		return
	}
	close(c.done)
	c.watching = false
}

// watchLoop processes filesystem events with debouncing.
func (c *Core) watchLoop(watcher *fsnotify.Watcher, path string, done <-chan struct{}, onReload func()) {
	defer watcher.Close()

	var debounceTimer *time.Timer

	for {
		select {
		case <-done:
			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			return

		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != path {
				continue
			}
			if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
				continue
			}

			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			debounceTimer = time.AfterFunc(debounceDelay, func() {
				select {
				case <-done:
					return
				default:
				}
				if c.reload(path) && onReload != nil {
					onReload()
				}
			})

		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			c.logger.Warn("seed watcher error", zap.Error(err))
		}
	}
}

// reload reseeds the catalog from path and reports whether it succeeded.
func (c *Core) reload(path string) bool {
	ds, err := catalog.LoadDatasetFile(path)
	if err == nil {
		err = c.Seed(ds)
	}
	if err != nil {
		c.logger.Warn("seed reload failed, keeping current catalog",
			zap.String("path", path),
			zap.Error(err),
		)
		return false
	}
	return true
}

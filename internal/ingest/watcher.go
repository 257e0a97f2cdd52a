package ingest

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

type WatchConfig struct {
	Roots    []string      // directories to watch (recursive)
	Debounce time.Duration // coalesce rapid write/rename bursts into one signal
}

// StartWatcher reports, once per debounced burst, that an invoice document
// under one of the roots was created, written or renamed. Both channels are
// closed when ctx is done.
func StartWatcher(ctx context.Context, cfg WatchConfig, logger *slog.Logger) (<-chan struct{}, <-chan error, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if len(cfg.Roots) == 0 {
		return nil, nil, errors.New("no roots provided")
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, nil, err
	}

	for _, root := range cfg.Roots {
		err := filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
			if walkErr != nil {
				return walkErr
			}
			if !d.IsDir() {
				return nil
			}
			if path != root && IsHidden(path) {
				return filepath.SkipDir
			}
			return w.Add(path)
		})
		if err != nil {
			logger.Error("ingest.watch.add_failed", "root", root, "err", err)
			_ = w.Close()
			return nil, nil, err
		}
	}

	changed := make(chan struct{}, 1)
	errCh := make(chan error, 1)
	go func() {
		defer close(changed)
		defer close(errCh)
		defer func() { _ = w.Close() }()

		notify := func() {
			select {
			case changed <- struct{}{}:
			default: // a signal is already pending
			}
		}
		var fire <-chan time.Time
		for {
			select {
			case <-ctx.Done():
				return
			case e, ok := <-w.Events:
				if !ok {
					return
				}
				if e.Has(fsnotify.Create) && !IsHidden(e.Name) {
					// new subdirectory; errors for plain files are expected
					_ = w.Add(e.Name)
				}
				if IsHidden(e.Name) || !AllowedExt(filepath.Ext(e.Name)) {
					continue
				}
				if !e.Has(fsnotify.Create) && !e.Has(fsnotify.Write) && !e.Has(fsnotify.Rename) {
					continue
				}
				logger.Debug("ingest.watch.event", "path", e.Name, "op", e.Op.String())
				if cfg.Debounce <= 0 {
					notify()
					continue
				}
				fire = time.After(cfg.Debounce)
			case <-fire:
				fire = nil
				notify()
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				logger.Warn("ingest.watch.error", "err", err)
				select {
				case errCh <- err:
				default:
				}
			}
		}
	}()
	return changed, errCh, nil
}

// Package watch keeps a folder under observation and feeds newly arriving
// documents through the rename pipeline as they appear.
package watch

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/marcwessels/invoicefiler/constants"
)

// Config for a folder watch session.
type Config struct {
	Dir         string
	Ext         string        // extension to match, with or without dot
	InitialScan bool          // emit documents already present before watching
	Debounce    time.Duration // coalesce rapid create/write bursts
}

// Start watches cfg.Dir (non-recursive) and emits matching document paths on
// the returned channel. Both channels close once ctx is done. Events arrive
// debounced: a file written in several bursts is emitted once, after the
// bursts settle.
func Start(ctx context.Context, cfg Config, logger *slog.Logger) (<-chan string, <-chan error, error) {
	if logger == nil {
		logger = slog.Default()
	}
	want := constants.NormalizeExt(cfg.Ext)
	if want == "" {
		want = constants.NormalizeExt(constants.DefaultExtension)
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, nil, err
	}
	if err := w.Add(cfg.Dir); err != nil {
		_ = w.Close()
		return nil, nil, err
	}

	evCh := make(chan string, 256)
	errCh := make(chan error, 1)

	if cfg.InitialScan {
		entries, err := os.ReadDir(cfg.Dir)
		if err != nil {
			_ = w.Close()
			return nil, nil, err
		}
		for _, e := range entries {
			if e.IsDir() || constants.NormalizeExt(filepath.Ext(e.Name())) != want {
				continue
			}
			select {
			case evCh <- filepath.Join(cfg.Dir, e.Name()):
			default:
			}
		}
	}

	go func() {
		defer close(evCh)
		defer close(errCh)
		defer func(w *fsnotify.Watcher) {
			if err := w.Close(); err != nil {
				logger.Warn("watch.close_error", "error", err)
			}
		}(w)

		// pending is only touched from this goroutine; the debounce timer
		// signals through flush instead of sharing the map.
		pending := map[string]struct{}{}
		flush := make(chan struct{}, 1)
		var timer *time.Timer

		emit := func() {
			for p := range pending {
				select {
				case evCh <- p:
				default:
				}
				delete(pending, p)
			}
		}

		for {
			select {
			case <-ctx.Done():
				return

			case <-flush:
				emit()

			case e, ok := <-w.Events:
				if !ok {
					return
				}
				if constants.NormalizeExt(filepath.Ext(e.Name)) != want {
					continue
				}
				// Moves into the folder surface as Create.
				if e.Op&(fsnotify.Create|fsnotify.Write) == 0 {
					continue
				}
				pending[e.Name] = struct{}{}
				if cfg.Debounce > 0 {
					if timer != nil {
						timer.Stop()
					}
					timer = time.AfterFunc(cfg.Debounce, func() {
						select {
						case flush <- struct{}{}:
						default:
						}
					})
				} else {
					emit()
				}

			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				select {
				case errCh <- err:
				default:
				}
			}
		}
	}()

	return evCh, errCh, nil
}

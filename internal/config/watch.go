package config

import (
	"context"
	"fmt"
	"log"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DebounceInterval collapses bursts of events from editors that save via
// temp file and rename.
const DebounceInterval = 200 * time.Millisecond

// shouldReload reports whether an fsnotify event concerns the config file.
func shouldReload(configPath, configBase string, event fsnotify.Event) bool {
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
		return false
	}
	name := filepath.Clean(event.Name)
	if name == configPath {
		return true
	}
	// Temp + rename saves can report a different directory prefix.
	return filepath.Base(name) == configBase
}

// Watch calls onChange after the file at configPath settles following a
// change. It returns once the watcher is attached; watching stops when ctx
// is cancelled.
func Watch(ctx context.Context, configPath string, onChange func()) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create config watcher: %w", err)
	}

	// Watching the directory survives atomic replaces of the file itself.
	configPath = filepath.Clean(configPath)
	dir := filepath.Dir(configPath)
	if err := watcher.Add(dir); err != nil {
		watcher.Close() //nolint:errcheck
		return fmt.Errorf("watch config directory '%s': %w", dir, err)
	}
	configBase := filepath.Base(configPath)

	go func() {
		defer watcher.Close() //nolint:errcheck

		var (
			mu    sync.Mutex
			timer *time.Timer
		)
		defer func() {
			mu.Lock()
			if timer != nil {
				timer.Stop()
			}
			mu.Unlock()
		}()

		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if !shouldReload(configPath, configBase, event) {
					continue
				}
				mu.Lock()
				if timer != nil {
					timer.Stop()
				}
				timer = time.AfterFunc(DebounceInterval, func() {
					if ctx.Err() != nil {
						return
					}
					log.Println("Config reload signalled")
					onChange()
				})
				mu.Unlock()
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				log.Printf("Config watcher error: %v", err)
			}
		}
	}()
	return nil
}

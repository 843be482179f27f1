// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// =============================================================================
// CONFIG WATCHER
// =============================================================================

// Update is delivered by a Watcher after the config file changes.
// Exactly one of Config and Err is set.
type Update struct {
	Config *Config
	Err    error
}

// Watcher reloads a config file when it changes on disk.
//
// The parent directory is watched rather than the file, since editors
// commonly save by writing a new file and renaming it over the old one.
type Watcher struct {
	path     string
	watcher  *fsnotify.Watcher
	debounce time.Duration
	updates  chan Update

	ctx    context.Context
	cancel context.CancelFunc
	once   sync.Once
	wg     sync.WaitGroup
}

// NewWatcher creates a watcher for the given config file path.
func NewWatcher(path string, debounce time.Duration) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if debounce <= 0 {
		debounce = 150 * time.Millisecond
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Watcher{
		path:     filepath.Clean(path),
		watcher:  fw,
		debounce: debounce,
		updates:  make(chan Update, 1),
		ctx:      ctx,
		cancel:   cancel,
	}, nil
}

// Path returns the watched config file.
func (w *Watcher) Path() string {
	return w.path
}

// Updates returns the channel on which reloaded configs are delivered.
// If the consumer falls behind, only the newest update is kept.
func (w *Watcher) Updates() <-chan Update {
	return w.updates
}

// Watch starts watching. It returns an error if the directory cannot be
// watched.
func (w *Watcher) Watch() error {
	if err := w.watcher.Add(filepath.Dir(w.path)); err != nil {
		return err
	}
	w.wg.Add(1)
	go w.processEvents()
	return nil
}

// Close stops watching and releases resources. The Updates channel is
// closed once the event loop has exited.
func (w *Watcher) Close() error {
	var err error
	w.once.Do(func() {
		w.cancel()
		err = w.watcher.Close()
		w.wg.Wait()
		// Only processEvents sends, and it has returned.
		close(w.updates)
	})
	return err
}

func (w *Watcher) processEvents() {
	defer w.wg.Done()

	var timer *time.Timer
	var fire <-chan time.Time

	for {
		select {
		case <-w.ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C

		case <-fire:
			fire = nil
			cfg, err := LoadFrom(w.path)
			if err != nil {
				w.publish(Update{Err: err})
			} else {
				w.publish(Update{Config: cfg})
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.publish(Update{Err: err})
		}
	}
}

// publish replaces any undelivered update with u.
func (w *Watcher) publish(u Update) {
	for {
		select {
		case w.updates <- u:
			return
		default:
		}
		select {
		case <-w.updates:
		default:
		}
	}
}

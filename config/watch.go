/*
NAME
  watch.go

DESCRIPTION
  watch.go implements Watch, live-reload for a Config option file backed
  by github.com/fsnotify/fsnotify: every write to the watched path is
  re-parsed and re-applied to the target Updater, with failures logged
  rather than propagated so a malformed edit never takes down a running
  session.

AUTHORS
  Saxon A. Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package config

import (
	"github.com/ausocean/utils/logging"
	"github.com/fsnotify/fsnotify"
)

// Watcher watches a config file for edits and reapplies it to a target
// Updater on every write. Call Close to stop watching.
type Watcher struct {
	fsw    *fsnotify.Watcher
	done   chan struct{}
	path   string
	target Updater
	log    logging.Logger
}

// Watch starts watching path for writes, applying each change to target
// via Load. The initial file contents are applied once, synchronously,
// before Watch returns, so callers can rely on target being configured
// immediately.
func Watch(path string, target Updater, log logging.Logger) (*Watcher, error) {
	if err := Load(path, target); err != nil {
		return nil, err
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fsw.Add(path); err != nil {
		fsw.Close()
		return nil, err
	}

	w := &Watcher{fsw: fsw, done: make(chan struct{}), path: path, target: target, log: log}
	go w.run()
	return w, nil
}

func (w *Watcher) run() {
	for {
		select {
		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if err := Load(w.path, w.target); err != nil && w.log != nil {
				w.log.Warning("config: reload failed, keeping previous values", "path", w.path, "error", err.Error())
			}
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			if w.log != nil {
				w.log.Error("config: watcher error", "path", w.path, "error", err.Error())
			}
		case <-w.done:
			return
		}
	}
}

// Close stops watching and releases the underlying fsnotify watcher.
func (w *Watcher) Close() error {
	close(w.done)
	return w.fsw.Close()
}

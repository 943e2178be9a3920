package config

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"keybus/internal/common/fsutil"
)

// reloadDelay coalesces the burst of events editors produce on save.
const reloadDelay = 100 * time.Millisecond

// Watch reloads the config at path whenever it or its roots_file changes and
// hands the result to onChange. Parse failures go to onError and the previous
// config stays in effect. Parent directories are watched so atomic rename
// saves are seen. Watch blocks until ctx is done.
func Watch(ctx context.Context, path string, onChange func(Config), onError func(error)) error {
	abs, err := fsutil.Resolve(path)
	if err != nil {
		return err
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("config watcher: %w", err)
	}
	defer w.Close()
	if onError == nil {
		onError = func(error) {}
	}

	tracked := map[string]bool{}
	dirs := map[string]bool{}
	track := func(file string) error {
		f, err := fsutil.Resolve(file)
		if err != nil {
			return err
		}
		tracked[f] = true
		dir := filepath.Dir(f)
		if dirs[dir] {
			return nil
		}
		if err := w.Add(dir); err != nil {
			return fmt.Errorf("watch %s: %w", dir, err)
		}
		dirs[dir] = true
		return nil
	}
	if err := track(abs); err != nil {
		return err
	}
	// The roots file is tracked only once a load names it.
	trackRoots := func(cfg Config) {
		if cfg.RootsFile == "" {
			return
		}
		if err := track(cfg.RootsFile); err != nil {
			onError(err)
		}
	}
	if cfg, err := Load(abs); err == nil {
		trackRoots(cfg)
	}

	var timer *time.Timer
	var fire <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if !tracked[filepath.Clean(ev.Name)] || !ev.Has(fsnotify.Write|fsnotify.Create|fsnotify.Rename) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(reloadDelay)
			} else {
				timer.Reset(reloadDelay)
			}
			fire = timer.C
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			onError(err)
		case <-fire:
			fire = nil
			cfg, err := Load(abs)
			if err != nil {
				onError(err)
				continue
			}
			trackRoots(cfg)
			onChange(cfg)
		}
	}
}

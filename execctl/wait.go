package execctl

import (
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/aledsdavies/scrut/scrutcase"
)

// AwaitWait blocks until cfg.Path exists or cfg.Timeout elapses, whichever
// happens first. It is called before running a test case configured with a
// Wait, replacing the ~5ms poll loop spec.md allows with an fsnotify watch
// on Path's parent directory.
func AwaitWait(cfg *scrutcase.WaitConfig) error {
	if cfg == nil {
		return nil
	}
	if cfg.Path == "" {
		time.Sleep(cfg.Timeout)
		return nil
	}
	if _, err := os.Stat(cfg.Path); err == nil {
		return nil
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	dir := filepath.Dir(cfg.Path)
	if err := watcher.Add(dir); err != nil {
		return err
	}

	deadline := time.NewTimer(cfg.Timeout)
	defer deadline.Stop()

	// the path may have been created between the initial Stat and Add.
	if _, err := os.Stat(cfg.Path); err == nil {
		return nil
	}

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Name == cfg.Path && (event.Op&(fsnotify.Create|fsnotify.Write) != 0) {
				return nil
			}
		case <-watcher.Errors:
			// keep waiting; a watcher error doesn't necessarily mean Path
			// will never appear.
		case <-deadline.C:
			return nil
		}
	}
}

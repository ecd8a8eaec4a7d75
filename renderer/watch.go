package renderer

import (
	"log/slog"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
)

// Watcher reports changes to a fixed set of files. It watches the parent
// directories so that editors which replace files on save are noticed.
type Watcher struct {
	// Changes receives the cleaned path of each changed file. Sends never
	// block; a change is dropped when the buffer is full.
	Changes <-chan string

	watcher *fsnotify.Watcher
	done    chan struct{}
	once    sync.Once
	err     error
}

// Watch starts watching paths.
func Watch(paths []string, log *slog.Logger) (*Watcher, error) {
	if log == nil {
		log = slog.Default()
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	wanted := make(map[string]bool, len(paths))
	dirs := make(map[string]bool)
	for _, p := range paths {
		p = filepath.Clean(p)
		wanted[p] = true
		dirs[filepath.Dir(p)] = true
	}
	for d := range dirs {
		if err := fw.Add(d); err != nil {
			fw.Close()
			return nil, err
		}
	}

	changes := make(chan string, 16)
	w := &Watcher{
		Changes: changes,
		watcher: fw,
		done:    make(chan struct{}),
	}
	go func() {
		defer close(changes)
		for {
			select {
			case <-w.done:
				return
			case ev, ok := <-fw.Events:
				if !ok {
					return
				}
				name := filepath.Clean(ev.Name)
				if !wanted[name] || !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
					continue
				}
				select {
				case changes <- name:
				default:
				}
			case err, ok := <-fw.Errors:
				if !ok {
					return
				}
				log.Warn("file watcher", "error", err)
			}
		}
	}()
	return w, nil
}

// Close stops the watcher and closes Changes. Further calls return the
// result of the first.
func (w *Watcher) Close() error {
	w.once.Do(func() {
		close(w.done)
		w.err = w.watcher.Close()
	})
	return w.err
}

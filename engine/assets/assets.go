package assets

import (
	"context"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/pkg/errors"

	"github.com/spaghettifunk/collmesh/engine/core"
)

// Watcher calls back whenever a scene file is created or rewritten.
type Watcher struct {
	fsnotify *fsnotify.Watcher
	done     chan struct{}
	isClosed bool
	mutex    sync.Mutex
}

func NewWatcher() (*Watcher, error) {
	fsWatch, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	return &Watcher{
		fsnotify: fsWatch,
		done:     make(chan struct{}),
	}, nil
}

// Watch blocks until ctx is done or Close is called, invoking onChange each
// time path is created or written. Errors from onChange are logged and
// watching continues. The directory is watched rather than the file so that
// editors replacing the file by rename are still seen.
func (w *Watcher) Watch(ctx context.Context, path string, onChange func() error) error {
	target, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	if err := w.add(filepath.Dir(target)); err != nil {
		return err
	}
	core.LogInfo("Watching '%s' for changes.", target)

	for {
		select {
		case e, ok := <-w.fsnotify.Events:
			if !ok {
				return nil
			}
			name, err := filepath.Abs(e.Name)
			if err != nil || name != target {
				continue
			}
			if e.Op&(fsnotify.Create|fsnotify.Write) == 0 {
				continue
			}
			core.LogDebug("Scene file event: %s", e)
			if err := onChange(); err != nil {
				core.LogError(err.Error())
			}

		case e, ok := <-w.fsnotify.Errors:
			if !ok {
				return nil
			}
			core.LogError(e.Error())

		case <-ctx.Done():
			return w.Close()

		case <-w.done:
			return nil
		}
	}
}

func (w *Watcher) add(name string) error {
	w.mutex.Lock()
	defer w.mutex.Unlock()
	if w.isClosed {
		return errors.New("watcher already closed")
	}
	return w.fsnotify.Add(name)
}

// Close stops watching. It is safe to call more than once.
func (w *Watcher) Close() error {
	w.mutex.Lock()
	defer w.mutex.Unlock()
	if w.isClosed {
		return nil
	}
	w.isClosed = true
	close(w.done)
	return w.fsnotify.Close()
}

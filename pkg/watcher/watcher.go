package watcher

import (
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Watcher reports changes to a fixed set of files. It watches their parent
// directories so that editors that replace files on save are still seen.
type Watcher struct {
	fs        *fsnotify.Watcher
	debouncer *Debouncer
	log       *zap.Logger

	files map[string]bool

	done      chan struct{}
	wg        sync.WaitGroup
	closeOnce sync.Once
}

// Options configures a Watcher
type Options struct {
	Debounce time.Duration
	// MaxWait caps how long a burst of writes delays a notification.
	MaxWait time.Duration
	Logger  *zap.Logger
}

// New starts watching paths. onChange receives the sorted list of files
// that changed during one quiet period; it runs on a timer goroutine.
func New(paths []string, onChange func(paths []string), opts Options) (*Watcher, error) {
	if len(paths) == 0 {
		return nil, errors.New("watcher: no files to watch")
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create fs watcher: %w", err)
	}

	w := &Watcher{
		fs:        fsw,
		debouncer: NewDebouncer(opts.Debounce, opts.MaxWait, onChange),
		log:       opts.Logger.Named("watcher"),
		files:     make(map[string]bool),
		done:      make(chan struct{}),
	}

	dirs := make(map[string]bool)
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			fsw.Close()
			return nil, fmt.Errorf("resolve %s: %w", p, err)
		}
		w.files[abs] = true
		dirs[filepath.Dir(abs)] = true
	}
	for dir := range dirs {
		if err := fsw.Add(dir); err != nil {
			fsw.Close()
			return nil, fmt.Errorf("watch %s: %w", dir, err)
		}
	}

	w.wg.Add(1)
	go w.loop()
	return w, nil
}

// Close stops watching and drops any pending notification
func (w *Watcher) Close() error {
	var err error
	w.closeOnce.Do(func() {
		close(w.done)
		err = w.fs.Close()
		w.wg.Wait()
		w.debouncer.Cancel()
	})
	return err
}

func (w *Watcher) loop() {
	defer w.wg.Done()
	for {
		select {
		case <-w.done:
			return
		case ev, ok := <-w.fs.Events:
			if !ok {
				return
			}
			w.handle(ev)
		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			w.log.Warn("watch error", zap.Error(err))
		}
	}
}

func (w *Watcher) handle(ev fsnotify.Event) {
	if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
		return
	}
	name, err := filepath.Abs(ev.Name)
	if err != nil || !w.files[name] {
		return
	}

	w.log.Debug("file changed", zap.String("path", name), zap.Stringer("op", ev.Op))
	w.debouncer.Add(name)
}

// Package watcher reloads sv's config and sheet body when they change on
// disk, coalescing editor write bursts into one notification.
package watcher

import (
	"sort"
	"sync"
	"time"
)

// DefaultDebounceDuration is the default quiet period before a reload
const DefaultDebounceDuration = 250 * time.Millisecond

// defaultMaxWaitFactor bounds a batch to this many quiet periods when no
// explicit max wait is given.
const defaultMaxWaitFactor = 4

// Debouncer collects changed paths and hands them to its flush function as
// one sorted batch, either once no path has arrived for the quiet period
// or once maxWait has passed since the batch started. The cap keeps a file
// that is rewritten continuously from never reloading.
type Debouncer struct {
	quiet   time.Duration
	maxWait time.Duration
	flush   func(paths []string)

	mu    sync.Mutex
	batch map[string]struct{}
	start time.Time
	timer *time.Timer
	gen   uint64
}

// NewDebouncer creates a debouncer. A zero quiet period selects the
// default; a zero maxWait selects four quiet periods.
func NewDebouncer(quiet, maxWait time.Duration, flush func(paths []string)) *Debouncer {
	if quiet <= 0 {
		quiet = DefaultDebounceDuration
	}
	if maxWait <= 0 {
		maxWait = quiet * defaultMaxWaitFactor
	}
	return &Debouncer{
		quiet:   quiet,
		maxWait: max(maxWait, quiet),
		flush:   flush,
		batch:   make(map[string]struct{}),
	}
}

// Add records path in the current batch and restarts the quiet period.
func (d *Debouncer) Add(path string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	now := time.Now()
	if len(d.batch) == 0 {
		d.start = now
	}
	d.batch[path] = struct{}{}

	wait := min(d.quiet, d.maxWait-now.Sub(d.start))
	d.gen++
	gen := d.gen
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(max(wait, 0), func() { d.fire(gen) })
}

// Cancel drops the pending batch
func (d *Debouncer) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.gen++
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	clear(d.batch)
}

// Pending reports whether a batch is waiting to be flushed
func (d *Debouncer) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.batch) > 0
}

// Duration returns the quiet period
func (d *Debouncer) Duration() time.Duration {
	return d.quiet
}

// MaxWait returns the longest a batch is held
func (d *Debouncer) MaxWait() time.Duration {
	return d.maxWait
}

func (d *Debouncer) fire(gen uint64) {
	d.mu.Lock()
	// A timer that fired while Add or Cancel held the lock is stale.
	if gen != d.gen || len(d.batch) == 0 {
		d.mu.Unlock()
		return
	}
	paths := make([]string, 0, len(d.batch))
	for p := range d.batch {
		paths = append(paths, p)
	}
	clear(d.batch)
	d.timer = nil
	d.mu.Unlock()

	sort.Strings(paths)
	d.flush(paths)
}

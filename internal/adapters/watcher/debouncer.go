// Package watcher implements file system watching for the resubmission loop.
package watcher

import (
	"slices"
	"sync"
	"time"
)

// Debouncer collects changed paths and hands them to a callback as one sorted
// batch once no new path arrived for a full window.
type Debouncer struct {
	window   time.Duration
	callback func(paths []string)

	mu    sync.Mutex
	batch map[string]struct{}
	// gen identifies the latest Add. A timer whose generation is stale does nothing.
	gen   uint64
	timer *time.Timer
}

// NewDebouncer creates a Debouncer. callback runs on its own goroutine and may be nil.
func NewDebouncer(window time.Duration, callback func(paths []string)) *Debouncer {
	return &Debouncer{
		window:   window,
		callback: callback,
		batch:    make(map[string]struct{}),
	}
}

// Add records path and restarts the window.
func (d *Debouncer) Add(path string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.batch[path] = struct{}{}
	d.gen++
	gen := d.gen
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.window, func() { d.expire(gen) })
}

// take empties the batch and returns its sorted paths. d.mu must be held.
func (d *Debouncer) take() []string {
	if len(d.batch) == 0 {
		return nil
	}
	paths := make([]string, 0, len(d.batch))
	for path := range d.batch {
		paths = append(paths, path)
	}
	clear(d.batch)
	slices.Sort(paths)
	d.timer = nil
	return paths
}

func (d *Debouncer) expire(gen uint64) {
	d.mu.Lock()
	if gen != d.gen {
		d.mu.Unlock()
		return
	}
	paths := d.take()
	d.mu.Unlock()

	if len(paths) > 0 && d.callback != nil {
		go d.callback(paths)
	}
}

// Flush delivers the pending batch right away, on the calling goroutine.
// It does nothing when the batch is empty or already on its way to the callback.
func (d *Debouncer) Flush() {
	d.mu.Lock()
	if d.timer != nil {
		d.timer.Stop()
	}
	d.gen++
	paths := d.take()
	d.mu.Unlock()

	if len(paths) > 0 && d.callback != nil {
		d.callback(paths)
	}
}

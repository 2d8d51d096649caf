package fs

import (
	"sync"
	"time"

	"github.com/agentchanti/kbregistry/pkg/core"
)

// debouncer coalesces bursts of filesystem events per path. Editors
// and atomic renames fire several events for one logical change.
type debouncer struct {
	mu      sync.Mutex
	delay   time.Duration
	timers  map[string]*time.Timer
	wg      sync.WaitGroup
	stopped bool
}

func newDebouncer(delay time.Duration) *debouncer {
	return &debouncer{
		delay:  delay,
		timers: map[string]*time.Timer{},
	}
}

// add schedules fn for the event, replacing any pending timer for the
// same path. The last event in a burst wins.
func (d *debouncer) add(e core.Event, fn func(core.Event)) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return
	}

	if t, ok := d.timers[e.Path]; ok {
		if t.Stop() {
			d.wg.Done()
		}
	}

	d.wg.Add(1)
	d.timers[e.Path] = time.AfterFunc(d.delay, func() {
		defer d.wg.Done()
		d.mu.Lock()
		delete(d.timers, e.Path)
		stopped := d.stopped
		d.mu.Unlock()
		if !stopped {
			fn(e)
		}
	})
}

// stopAndWait refuses new events and waits (bounded) for in-flight
// timers to finish, so cleanup can safely close downstream channels.
func (d *debouncer) stopAndWait(timeout time.Duration) {
	d.mu.Lock()
	d.stopped = true
	d.mu.Unlock()

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(timeout):
	}
}

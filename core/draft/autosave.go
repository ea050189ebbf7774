// ABOUTME: Debounced draft autosaver coalescing rapid edits into one cache write
// ABOUTME: Flush writes the pending draft now and Stop cancels it; the editor session lock is never taken

package draft

import (
	"context"
	"sync"
	"time"

	"hostgenie-api/core/domain"
)

// DefaultDelay is the debounce delay after the last change
const DefaultDelay = time.Second

// Autosaver debounces draft saves for one owner.
// Each Touch restarts the timer; once Stop returns no further write happens.
type Autosaver struct {
	service *Service
	owner   string
	delay   time.Duration

	mu      sync.Mutex
	timer   *time.Timer
	latest  domain.Draft
	pending bool
	stopped bool
	gen     uint64

	// held while a save runs so Stop can wait for it
	run sync.Mutex
}

// NewAutosaver creates a stopped-timer autosaver
func NewAutosaver(service *Service, owner string, delay time.Duration) *Autosaver {
	if delay <= 0 {
		delay = DefaultDelay
	}
	return &Autosaver{service: service, owner: owner, delay: delay}
}

// Touch records the latest draft and restarts the debounce timer
func (a *Autosaver) Touch(d domain.Draft) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.stopped {
		return
	}

	a.latest = d
	a.pending = true
	a.gen++
	gen := a.gen
	if a.timer != nil {
		a.timer.Stop()
	}
	a.timer = time.AfterFunc(a.delay, func() { a.fire(gen) })
}

func (a *Autosaver) fire(gen uint64) {
	a.run.Lock()
	defer a.run.Unlock()

	a.mu.Lock()
	if a.stopped || gen != a.gen || !a.pending {
		a.mu.Unlock()
		return
	}
	d := a.latest
	a.pending = false
	a.mu.Unlock()

	a.service.Save(context.Background(), a.owner, d)
}

// Flush writes a pending draft immediately
func (a *Autosaver) Flush() {
	a.mu.Lock()
	if a.timer != nil {
		a.timer.Stop()
	}
	gen := a.gen
	a.mu.Unlock()

	a.fire(gen)
}

// Pending reports whether a change is waiting for the timer
func (a *Autosaver) Pending() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.pending
}

// Stop cancels the timer and waits for an in-flight save to finish
func (a *Autosaver) Stop() {
	a.mu.Lock()
	a.stopped = true
	a.pending = false
	if a.timer != nil {
		a.timer.Stop()
	}
	a.mu.Unlock()

	a.run.Lock()
	a.run.Unlock()
}

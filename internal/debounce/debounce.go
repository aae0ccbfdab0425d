package debounce

import (
	"sync"
	"time"
)

const DefaultDelay = 300 * time.Millisecond

// Timer defers a call until no new call has been scheduled for the delay.
// At most one call is pending; scheduling again replaces it.
type Timer struct {
	mu    sync.Mutex
	delay time.Duration
	timer *time.Timer
	gen   uint64
}

func New(delay time.Duration) *Timer {
	if delay <= 0 {
		delay = DefaultDelay
	}
	return &Timer{delay: delay}
}

// Start schedules fn after the delay, superseding any pending call.
func (t *Timer) Start(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.stopLocked()
	t.gen++
	gen := t.gen
	t.timer = time.AfterFunc(t.delay, func() {
		t.mu.Lock()
		if gen != t.gen || t.timer == nil {
			t.mu.Unlock()
			return
		}
		t.timer = nil
		t.mu.Unlock()
		fn()
	})
}

// Reset is Start under the name UI code usually expects.
func (t *Timer) Reset(fn func()) {
	t.Start(fn)
}

// Cancel drops the pending call, if any, and reports whether there was one.
func (t *Timer) Cancel() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.stopLocked()
}

func (t *Timer) Pending() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.timer != nil
}

func (t *Timer) stopLocked() bool {
	if t.timer == nil {
		return false
	}
	t.timer.Stop()
	t.timer = nil
	t.gen++
	return true
}

// Group keeps one Timer per key, e.g. one per hall owner. A key's Timer is
// dropped once its call has fired, so the group only holds pending keys.
type Group struct {
	mu     sync.Mutex
	delay  time.Duration
	timers map[string]*Timer
}

func NewGroup(delay time.Duration) *Group {
	return &Group{delay: delay, timers: make(map[string]*Timer)}
}

func (g *Group) Start(key string, fn func()) {
	g.mu.Lock()
	defer g.mu.Unlock()

	t, ok := g.timers[key]
	if !ok {
		t = New(g.delay)
		g.timers[key] = t
	}
	t.Start(func() {
		g.mu.Lock()
		if g.timers[key] == t && !t.Pending() {
			delete(g.timers, key)
		}
		g.mu.Unlock()
		fn()
	})
}

// Len reports how many keys have a pending call.
func (g *Group) Len() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.timers)
}

// Stop cancels every pending call.
func (g *Group) Stop() {
	g.mu.Lock()
	defer g.mu.Unlock()
	for key, t := range g.timers {
		t.Cancel()
		delete(g.timers, key)
	}
}

package ui

import (
	"sync"
	"time"
)

// FrameLoop calls a tick function on a steady cadence. Start registers the
// tick function and starts the loop; Pause stops calling it.
type FrameLoop interface {
	Start(tick func())
	Pause()
}

// TickerLoop is a FrameLoop driven by a time.Ticker. Ticks run on the loop's
// own goroutine, which is the only goroutine allowed to touch the scene it
// drives: other goroutines hand it work with Do.
type TickerLoop struct {
	interval time.Duration

	// WorkQueue holds functions to run on the loop goroutine between ticks.
	WorkQueue chan func()

	mu      sync.Mutex
	running bool
	done    chan struct{}
}

// NewTickerLoop returns a loop ticking every interval.
func NewTickerLoop(interval time.Duration) *TickerLoop {
	return &TickerLoop{
		interval:  interval,
		WorkQueue: make(chan func()),
	}
}

// Start starts a goroutine calling tick on every frame. Starting a running
// loop does nothing.
func (l *TickerLoop) Start(tick func()) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.running {
		return
	}
	l.running = true
	l.done = make(chan struct{})
	go l.run(tick, l.done)
}

func (l *TickerLoop) run(tick func(), done chan struct{}) {
	t := time.NewTicker(l.interval)
	defer t.Stop()
	for {
		select {
		case <-done:
			return
		case fn := <-l.WorkQueue:
			fn()
		case <-t.C:
			tick()
		}
	}
}

// Pause stops the loop. Work sent with Do and not yet picked up by the loop
// goroutine is dropped.
func (l *TickerLoop) Pause() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.running {
		return
	}
	l.running = false
	close(l.done)
}

// Running reports whether the loop is started.
func (l *TickerLoop) Running() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.running
}

// stopped returns the channel closed by the next Pause, or nil if the loop
// is not running.
func (l *TickerLoop) stopped() <-chan struct{} {
	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.running {
		return nil
	}
	return l.done
}

// Do sends fn to the loop goroutine. It does not block, so it may be called
// from the loop goroutine itself. fn is dropped if the loop is paused before
// running it.
func (l *TickerLoop) Do(fn func()) {
	done := l.stopped()
	if done == nil {
		return
	}
	go func() {
		select {
		case l.WorkQueue <- fn:
		case <-done:
		}
	}()
}

// DoSync runs fn on the loop goroutine and waits for it to return. It
// reports whether fn ran: a paused loop runs nothing. It must not be called
// from the loop goroutine.
func (l *TickerLoop) DoSync(fn func()) bool {
	done := l.stopped()
	if done == nil {
		return false
	}
	ran := make(chan struct{})
	select {
	case l.WorkQueue <- func() {
		defer close(ran)
		fn()
	}:
	case <-done:
		return false
	}
	<-ran
	return true
}

// ManualLoop is a FrameLoop ticking only when Tick is called. Tests and one
// shot tools use it to control when reconciliation happens.
type ManualLoop struct {
	tick   func()
	paused bool
}

func NewManualLoop() *ManualLoop { return &ManualLoop{paused: true} }

func (l *ManualLoop) Start(tick func()) {
	l.tick = tick
	l.paused = false
}

func (l *ManualLoop) Pause() { l.paused = true }

// Paused reports whether ticks are ignored.
func (l *ManualLoop) Paused() bool { return l.paused }

// Tick calls the tick function unless the loop is paused.
func (l *ManualLoop) Tick() {
	if l.paused || l.tick == nil {
		return
	}
	l.tick()
}

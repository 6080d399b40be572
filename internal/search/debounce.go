package search

import (
	"sync"
	"time"
)

// DefaultDebounce is the production typing debounce window.
const DefaultDebounce = 400 * time.Millisecond

// Debouncer coalesces a rapid stream of query edits into settled values.
// Each Push restarts the window; when it elapses, the value is handed to the
// callback unless it equals the previously emitted value.
type Debouncer struct {
	delay time.Duration
	fn    func(string)

	mu      sync.Mutex
	timer   *time.Timer
	last    string
	hasLast bool
	closed  bool
}

// NewDebouncer creates a debouncer delivering settled values to fn. The
// callback runs on a timer goroutine.
func NewDebouncer(delay time.Duration, fn func(string)) *Debouncer {
	if delay <= 0 {
		delay = DefaultDebounce
	}
	return &Debouncer{delay: delay, fn: fn}
}

// Push submits a new value and restarts the settle window.
func (d *Debouncer) Push(value string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return
	}
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.delay, func() { d.emit(value) })
}

func (d *Debouncer) emit(value string) {
	d.mu.Lock()
	if d.closed || (d.hasLast && d.last == value) {
		d.mu.Unlock()
		return
	}
	d.last = value
	d.hasLast = true
	d.mu.Unlock()

	d.fn(value)
}

// Reset drops any pending value and forgets the last emitted one, so the
// next settled value always fires.
func (d *Debouncer) Reset() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.hasLast = false
	d.last = ""
}

// Close stops the debouncer permanently.
func (d *Debouncer) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.closed = true
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}

package query

import (
	"sync"
	"time"
)

// DefaultQuiet is the debounce quiet interval used when none is configured.
const DefaultQuiet = 300 * time.Millisecond

// Debouncer turns a stream of live values into effective values: fire is
// called with a value only after it has gone quiet for the configured
// interval. A newer Set stops the pending timer outright, so a superseded
// value is never delivered, not even late.
type Debouncer struct {
	quiet time.Duration
	fire  func(string)

	mu    sync.Mutex
	timer *time.Timer
	last  string
	seq   uint64
}

// NewDebouncer creates a debouncer. quiet <= 0 selects DefaultQuiet. fire
// runs on a timer goroutine; callers wanting delivery on their own loop
// should forward from inside fire.
func NewDebouncer(quiet time.Duration, fire func(string)) *Debouncer {
	if quiet <= 0 {
		quiet = DefaultQuiet
	}
	return &Debouncer{quiet: quiet, fire: fire}
}

// Set records a new live value and (re)starts the quiet timer. Any pending
// delivery is cancelled first.
func (d *Debouncer) Set(value string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.last = value
	d.seq++
	seq := d.seq

	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.quiet, func() {
		d.deliver(seq)
	})
}

// deliver fires the callback if seq is still the latest. Stop on a timer
// that already fired is a no-op, so the seq check closes that window.
func (d *Debouncer) deliver(seq uint64) {
	d.mu.Lock()
	if seq != d.seq {
		d.mu.Unlock()
		return
	}
	value := d.last
	d.timer = nil
	d.mu.Unlock()

	d.fire(value)
}

// Cancel stops any pending delivery without firing.
func (d *Debouncer) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.seq++
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}

// Flush delivers the last set value immediately, cancelling the timer.
// Used when the user presses enter instead of waiting out the interval.
func (d *Debouncer) Flush() {
	d.mu.Lock()
	d.seq++
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	value := d.last
	d.mu.Unlock()

	d.fire(value)
}

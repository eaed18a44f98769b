// Package debounce turns a rapidly changing value into a stream of settled
// values: a value settles once it has stayed unchanged for the configured delay.
package debounce

import (
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

// Option configures a Debouncer.
type Option func(*options)

type options struct {
	clock clockwork.Clock
}

// WithClock replaces the wall clock, mostly for tests.
func WithClock(c clockwork.Clock) Option {
	return func(o *options) { o.clock = c }
}

// Debouncer emits the last value passed to Set once delay has elapsed with no
// further Set. Intermediate values are never emitted.
type Debouncer[T any] struct {
	delay time.Duration
	clock clockwork.Clock

	mu      sync.Mutex
	timer   clockwork.Timer
	gen     uint64
	latest  T
	settled bool
	stopped bool
	out     chan T
}

// New returns a Debouncer with the given quiet period.
func New[T any](delay time.Duration, opts ...Option) *Debouncer[T] {
	o := options{clock: clockwork.NewRealClock()}
	for _, opt := range opts {
		opt(&o)
	}
	return &Debouncer[T]{
		delay: delay,
		clock: o.clock,
		out:   make(chan T, 1),
	}
}

// Set records a new value, cancelling any emission scheduled by an earlier Set.
func (d *Debouncer[T]) Set(v T) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stopped {
		return
	}
	if d.timer != nil {
		d.timer.Stop()
	}
	d.gen++
	gen := d.gen
	d.timer = d.clock.AfterFunc(d.delay, func() { d.fire(gen, v) })
}

// A callback can start just before Stop/Set cancels its timer; the generation
// check drops it.
func (d *Debouncer[T]) fire(gen uint64, v T) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stopped || gen != d.gen {
		return
	}
	d.timer = nil
	d.latest = v
	d.settled = true

	// Only fire sends, and it holds mu, so draining then sending cannot block.
	select {
	case d.out <- v:
	default:
		select {
		case <-d.out:
		default:
		}
		d.out <- v
	}
}

// Settled delivers settled values. An unread value is replaced by a newer one.
// The channel is closed by Stop.
func (d *Debouncer[T]) Settled() <-chan T {
	return d.out
}

// Value returns the latest settled value; ok is false until the first settle.
func (d *Debouncer[T]) Value() (v T, ok bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.latest, d.settled
}

// Pending reports whether an emission is scheduled.
func (d *Debouncer[T]) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.timer != nil
}

// Stop cancels any pending emission and closes Settled. Safe to call twice.
func (d *Debouncer[T]) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stopped {
		return
	}
	d.stopped = true
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	close(d.out)
}

// Package flashsale drives the daily flash sale: a wrapping countdown and the items on offer.
package flashsale

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"
)

// ErrAlreadyStarted is returned by Start on a running countdown.
var ErrAlreadyStarted = errors.New("countdown already started")

// wrapTo is where the countdown restarts after reaching zero.
const wrapTo = 24*time.Hour - time.Second

// Tick advances a countdown by one second, wrapping to 23:59:59 after zero.
func Tick(remaining time.Duration) time.Duration {
	remaining = remaining.Truncate(time.Second) - time.Second
	if remaining < 0 {
		return wrapTo
	}

	return remaining
}

// Clock is a countdown split for display.
type Clock struct {
	Hours   int `json:"hours"`
	Minutes int `json:"minutes"`
	Seconds int `json:"seconds"`
}

// Split breaks d into hours, minutes and seconds.
func Split(d time.Duration) Clock {
	s := max(0, int(d/time.Second))

	return Clock{Hours: s / 3600, Minutes: s / 60 % 60, Seconds: s % 60}
}

// String formats the clock as HH:MM:SS.
func (c Clock) String() string {
	return fmt.Sprintf("%02d:%02d:%02d", c.Hours, c.Minutes, c.Seconds)
}

// Countdown counts down from a window once per interval and never ends on its own.
// The zero value is not usable; create one with NewCountdown.
type Countdown struct {
	interval time.Duration

	mu        sync.RWMutex
	remaining time.Duration
	ticks     chan time.Duration
	cancel    context.CancelFunc
	done      chan struct{}
}

// NewCountdown creates a stopped countdown that ticks every second.
func NewCountdown(window time.Duration) *Countdown {
	return NewCountdownWithInterval(window, time.Second)
}

// NewCountdownWithInterval creates a countdown whose one-second steps happen every interval.
func NewCountdownWithInterval(window, interval time.Duration) *Countdown {
	if interval <= 0 {
		interval = time.Second
	}

	return &Countdown{
		interval:  interval,
		remaining: max(0, window.Truncate(time.Second)),
	}
}

// Start runs the countdown until ctx is done or Stop is called. The returned channel
// carries the latest remaining time; slow readers miss intermediate values. It is
// closed when the countdown stops.
func (c *Countdown) Start(ctx context.Context) (<-chan time.Duration, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.cancel != nil {
		return nil, ErrAlreadyStarted
	}

	ctx, cancel := context.WithCancel(ctx)
	c.cancel = cancel
	c.ticks = make(chan time.Duration, 1)
	c.done = make(chan struct{})

	go c.run(ctx, c.ticks, c.done)

	return c.ticks, nil
}

func (c *Countdown) run(ctx context.Context, ticks chan time.Duration, done chan struct{}) {
	defer close(done)
	defer close(ticks)

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.mu.Lock()
			c.remaining = Tick(c.remaining)
			r := c.remaining
			c.mu.Unlock()

			// Replace an unread value with the newest one.
			select {
			case <-ticks:
			default:
			}

			ticks <- r
		}
	}
}

// Remaining returns the time left.
func (c *Countdown) Remaining() time.Duration {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.remaining
}

// Stop halts a running countdown and waits for its goroutine to exit. The countdown
// may be started again and resumes from where it stopped.
func (c *Countdown) Stop() {
	c.mu.Lock()
	cancel, done := c.cancel, c.done
	c.cancel, c.done = nil, nil
	c.mu.Unlock()

	if cancel == nil {
		return
	}

	cancel()
	<-done
}

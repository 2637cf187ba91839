package nav

import (
	"time"

	"github.com/vango-dev/sitekit/pkg/clock"
)

// DefaultThrottle is the minimum gap between scroll or resize reactions.
const DefaultThrottle = 200 * time.Millisecond

// Throttle lets a call through only when more than wait has passed since
// the last accepted call. The window starts when the Throttle is created,
// so calls in the first wait period are dropped.
type Throttle struct {
	sched clock.Scheduler
	wait  time.Duration
	last  time.Time
}

// NewThrottle creates a Throttle.
func NewThrottle(sched clock.Scheduler, wait time.Duration) *Throttle {
	return &Throttle{sched: sched, wait: wait, last: sched.Now()}
}

// Allow reports whether a call may run now, and if so starts a new window.
func (t *Throttle) Allow() bool {
	now := t.sched.Now()
	if now.Sub(t.last) > t.wait {
		t.last = now
		return true
	}
	return false
}

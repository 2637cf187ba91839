package page

import (
	"sync"
	"time"

	"github.com/vango-dev/sitekit/pkg/clock"
)

// scheduler runs callbacks under the page lock and flushes afterwards.
// Pending timers are stopped when the page closes.
type scheduler struct {
	page *Page
	base clock.Scheduler

	mu      sync.Mutex
	pending map[*pageTimer]struct{}
}

type pageTimer struct {
	s *scheduler
	t clock.Timer
}

func newScheduler(p *Page, base clock.Scheduler) *scheduler {
	return &scheduler{
		page:    p,
		base:    base,
		pending: make(map[*pageTimer]struct{}),
	}
}

func (s *scheduler) Now() time.Time {
	return s.base.Now()
}

func (s *scheduler) AfterFunc(d time.Duration, f func()) clock.Timer {
	pt := &pageTimer{s: s}
	s.mu.Lock()
	s.pending[pt] = struct{}{}
	pt.t = s.base.AfterFunc(d, func() { s.fire(pt, f) })
	s.mu.Unlock()
	return pt
}

func (s *scheduler) fire(pt *pageTimer, f func()) {
	s.mu.Lock()
	_, ok := s.pending[pt]
	delete(s.pending, pt)
	s.mu.Unlock()
	if !ok {
		return
	}
	s.page.runTimer(f)
}

// stopAll stops every pending timer and returns how many were stopped.
func (s *scheduler) stopAll() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for pt := range s.pending {
		if pt.t.Stop() {
			n++
		}
		delete(s.pending, pt)
	}
	return n
}

func (s *scheduler) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending)
}

func (t *pageTimer) Stop() bool {
	t.s.mu.Lock()
	_, ok := t.s.pending[t]
	delete(t.s.pending, t)
	t.s.mu.Unlock()
	if !ok {
		return false
	}
	return t.t.Stop()
}

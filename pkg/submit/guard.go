package submit

import "sync/atomic"

// Guard blocks concurrent submissions. The zero value is ready to use.
type Guard struct {
	busy atomic.Bool
}

// TryAcquire takes the guard. It reports false if it is already held.
func (g *Guard) TryAcquire() bool {
	return g.busy.CompareAndSwap(false, true)
}

// Release frees the guard and reports whether it was held.
func (g *Guard) Release() bool {
	return g.busy.CompareAndSwap(true, false)
}

// Held reports whether a submission is in flight.
func (g *Guard) Held() bool {
	return g.busy.Load()
}

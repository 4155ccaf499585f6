package coach

import "sync/atomic"

// Guard allows one outstanding request per interaction surface.
type Guard struct {
	busy atomic.Bool
}

// TryAcquire claims the guard. It returns a release func and true, or nil and
// false when a request is already in flight. Release is idempotent.
func (g *Guard) TryAcquire() (release func(), ok bool) {
	if !g.busy.CompareAndSwap(false, true) {
		return nil, false
	}
	var released atomic.Bool
	return func() {
		if released.CompareAndSwap(false, true) {
			g.busy.Store(false)
		}
	}, true
}

// Busy reports whether a request is in flight.
func (g *Guard) Busy() bool {
	return g.busy.Load()
}

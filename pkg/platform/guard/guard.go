// Package guard provides a call-in-progress guard for the marketplace's
// protected operations. A nested entry made while an outer call is still
// running (for example from a synchronous event subscriber reacting to a
// settlement) is rejected instead of interleaving with the outer call's
// state changes.
package guard

import (
	"sync/atomic"

	dErrors "hangar/pkg/domain-errors"
)

// Guard is an explicit operation-in-progress flag. The zero value is ready
// to use.
type Guard struct {
	busy atomic.Bool
}

// Enter marks a protected operation as in progress. It fails with
// CodeReentrantCall if another protected operation on this guard has entered
// and not yet exited.
func (g *Guard) Enter() error {
	if !g.busy.CompareAndSwap(false, true) {
		return dErrors.New(dErrors.CodeReentrantCall, "operation already in progress")
	}
	return nil
}

// Exit clears the flag. It must be called on every path out of a protected
// operation, including failures.
func (g *Guard) Exit() {
	g.busy.Store(false)
}

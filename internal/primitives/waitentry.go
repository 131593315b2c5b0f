// Package primitives implements the mutex and semaphore state machines
// that back cyclesim's synchronization mode.
package primitives

import "github.com/halvard/cyclesim/internal/model"

// WaitEntry is one element of a primitive's wait queue: the blocked
// process's index and the action type it originally requested, kept
// alongside it so a later WAKE can replay the original access.
type WaitEntry struct {
	ProcessIndex int
	Requested    model.ActionType
}

package primitives

// Mutex is a binary lock with an exclusive owner and a FIFO wait queue.
//
// Invariant: Locked iff Owner != -1; Queue is non-empty only while Locked.
type Mutex struct {
	Locked bool
	Owner  int // process index, -1 when unlocked
	Queue  []WaitEntry
}

// NewMutex creates an unlocked mutex.
func NewMutex() *Mutex {
	return &Mutex{Owner: -1}
}

// TryAcquire grants ownership immediately if the mutex is unlocked.
// Returns true if acquired. Callers queue the requester themselves on
// false, via Enqueue, so the caller controls the WaitEntry's requested
// action type.
func (m *Mutex) TryAcquire(requester int) bool {
	if m.Locked {
		return false
	}
	m.Locked = true
	m.Owner = requester
	return true
}

// Enqueue appends a blocked requester to the wait queue.
func (m *Mutex) Enqueue(entry WaitEntry) {
	m.Queue = append(m.Queue, entry)
}

// Release clears ownership. If the wait queue is non-empty, it pops the
// head and hands ownership to it atomically (the mutex stays Locked,
// only Owner changes), returning the new owner's wait entry. If the
// queue is empty, the mutex becomes unlocked.
func (m *Mutex) Release() (handoff WaitEntry, handedOff bool) {
	if len(m.Queue) > 0 {
		handoff = m.Queue[0]
		m.Queue = m.Queue[1:]
		m.Owner = handoff.ProcessIndex
		// Locked remains true: ownership transferred, never released.
		return handoff, true
	}
	m.Locked = false
	m.Owner = -1
	return WaitEntry{}, false
}

package primitives

// Semaphore is a non-negative counter with a FIFO wait queue.
//
// Invariant: Count >= 0; Count > 0 implies Queue is empty.
type Semaphore struct {
	Count int
	Queue []WaitEntry
}

// NewSemaphore creates a semaphore initialized to the given capacity.
func NewSemaphore(capacity int) *Semaphore {
	return &Semaphore{Count: capacity}
}

// TryAcquire decrements Count if positive and returns true; returns
// false (no mutation) if Count is already zero, in which case the
// caller is responsible for blocking the requester and enqueuing it.
func (s *Semaphore) TryAcquire() bool {
	if s.Count <= 0 {
		return false
	}
	s.Count--
	return true
}

// Enqueue appends a blocked requester to the wait queue.
func (s *Semaphore) Enqueue(entry WaitEntry) {
	s.Queue = append(s.Queue, entry)
}

// Signal releases one unit. If the wait queue is non-empty it pops and
// returns the head to wake (Count is left unchanged: a woken waiter
// consumes the signaled unit directly rather than the count
// oscillating). If the queue is empty, Count is incremented.
func (s *Semaphore) Signal() (woken WaitEntry, hasWoken bool) {
	if len(s.Queue) > 0 {
		woken = s.Queue[0]
		s.Queue = s.Queue[1:]
		return woken, true
	}
	s.Count++
	return WaitEntry{}, false
}

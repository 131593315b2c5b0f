package scheduler

// scheduleSRT gathers every available process (the ready queue plus the
// currently running one, if any) and picks the minimum remaining
// service time. The running process is checked first so ties favor
// staying put. If the winner differs from the current running index,
// preempt: push the old running process back onto the ready queue and
// remove the winner from it.
func scheduleSRT(s *State) {
	best, bestRemaining := -1, 0
	if s.Running != -1 {
		best, bestRemaining = s.Running, s.Processes[s.Running].Remaining
	}
	for _, idx := range s.Ready {
		if !s.Available(idx) {
			continue
		}
		if best == -1 || s.Processes[idx].Remaining < bestRemaining {
			best, bestRemaining = idx, s.Processes[idx].Remaining
		}
	}
	if best == -1 || best == s.Running {
		return
	}
	if s.Running != -1 {
		s.PushReadyTail(s.Running)
	}
	s.RemoveReady(best)
	s.Running = best
}

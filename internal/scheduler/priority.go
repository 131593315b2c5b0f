package scheduler

// schedulePriority picks the available ready-queue entry with the
// smallest priority value (smaller is higher priority). It preempts
// the running process only if that candidate is strictly
// higher-priority than the one running; otherwise the running process
// continues untouched and the candidate stays queued.
func schedulePriority(s *State) {
	best, bestPriority := -1, 0
	for _, idx := range s.Ready {
		if !s.Available(idx) {
			continue
		}
		if best == -1 || s.Processes[idx].Priority < bestPriority {
			best, bestPriority = idx, s.Processes[idx].Priority
		}
	}
	if best == -1 {
		return
	}
	if s.Running == -1 {
		s.RemoveReady(best)
		s.Running = best
		return
	}
	if bestPriority < s.Processes[s.Running].Priority {
		s.PushReadyTail(s.Running)
		s.RemoveReady(best)
		s.Running = best
	}
}

package scheduler

// scheduleFIFO takes the head of the ready queue when the CPU is idle.
// Non-preemptive: a no-op while a process is already running.
func scheduleFIFO(s *State) {
	if s.Running != -1 {
		return
	}
	if len(s.Ready) == 0 {
		return
	}
	s.Running = s.PopReadyHead()
}

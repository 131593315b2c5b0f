package scheduler

// scheduleRR rotates the running process to the tail of the ready
// queue once its quantum counter has reached the configured quantum,
// then takes the new head if the CPU is idle. The counter itself is
// advanced by ExecuteRunning, once per executed cycle.
func scheduleRR(s *State) {
	if s.Running != -1 && s.RRCounter >= s.RRQuantum {
		s.PushReadyTail(s.Running)
		s.Running = -1
		s.RRCounter = 0
	}
	if s.Running == -1 && len(s.Ready) > 0 {
		s.Running = s.PopReadyHead()
	}
}

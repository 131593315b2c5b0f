package model

import "sort"

// Outcome is the result of a synchronization action attempt.
type Outcome string

const (
	Accessed Outcome = "ACCESSED"
	Waiting  Outcome = "WAITING"
)

// Event is one entry in the synchronization event log. Seq records
// emission order within a cycle so the final chronological sort
// (cycle, process index) can be stable without reshuffling events that
// belong to the same (cycle, process) bucket.
type Event struct {
	Cycle        int
	ProcessIndex int
	Resource     string
	Outcome      Outcome
	Action       ActionType
	Seq          int64
}

// SortLog sorts a synchronization log by (cycle ascending, process index
// ascending), using Seq as the tiebreaker so within-bucket emission
// order survives the sort.
func SortLog(log []Event) {
	sort.SliceStable(log, func(i, j int) bool {
		if log[i].Cycle != log[j].Cycle {
			return log[i].Cycle < log[j].Cycle
		}
		if log[i].ProcessIndex != log[j].ProcessIndex {
			return log[i].ProcessIndex < log[j].ProcessIndex
		}
		return log[i].Seq < log[j].Seq
	})
}

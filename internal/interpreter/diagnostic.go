package interpreter

import "fmt"

// DiagnosticCode categorizes a run-time domain error raised while
// interpreting the synchronization action script. These never appear
// in the event log: the offending action is skipped and the run
// continues, consistent across repeated runs of the same inputs.
type DiagnosticCode string

const (
	// CodeUnauthorizedAccess: READ/WRITE on a mutex the issuer doesn't own.
	CodeUnauthorizedAccess DiagnosticCode = "UNAUTHORIZED_ACCESS"
	// CodeUnknownResource: an action named a resource absent from the input.
	CodeUnknownResource DiagnosticCode = "UNKNOWN_RESOURCE"
	// CodeDoubleAcquire: ACQUIRE issued by the mutex's current owner.
	CodeDoubleAcquire DiagnosticCode = "DOUBLE_ACQUIRE"
	// CodeReacquireAfterHandoff: ACQUIRE issued by a process that was just
	// handed the mutex by an automatic release hand-off this cycle.
	CodeReacquireAfterHandoff DiagnosticCode = "REACQUIRE_AFTER_HANDOFF"
	// CodeUnauthorizedRelease: RELEASE issued by a non-owner.
	CodeUnauthorizedRelease DiagnosticCode = "UNAUTHORIZED_RELEASE"
)

// Diagnostic is one entry on the run-time domain-error side channel.
type Diagnostic struct {
	Code      DiagnosticCode
	Cycle     int
	ProcessID string
	Resource  string
	Message   string
}

func (d Diagnostic) Error() string {
	return fmt.Sprintf("%s: %s (process=%s, resource=%s, cycle=%d)", d.Code, d.Message, d.ProcessID, d.Resource, d.Cycle)
}

func diag(code DiagnosticCode, cycle int, processID, resource, message string) Diagnostic {
	return Diagnostic{Code: code, Cycle: cycle, ProcessID: processID, Resource: resource, Message: message}
}

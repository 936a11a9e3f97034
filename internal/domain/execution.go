package domain

import "time"

// FailureClass names the distinguishable ways a subprocess can fail.
// Each class yields a structured result with ExitCode -1 rather than an
// error escaping the executor.
type FailureClass string

const (
	FailureTimeout    FailureClass = "timeout"
	FailurePermission FailureClass = "permission denied"
	FailureNotFound   FailureClass = "not found"
	FailureOS         FailureClass = "os error"
	FailureUnknown    FailureClass = "unknown"
)

// ExecutionResult captures a single subprocess run. It is never persisted
// directly; history and rejection records derive from it.
type ExecutionResult struct {
	Command       string
	Stdout        string
	Stderr        string
	ExitCode      int
	ExecutionTime time.Duration
	Timestamp     time.Time
}

// Succeeded reports whether the command exited cleanly.
func (r ExecutionResult) Succeeded() bool {
	return r.ExitCode == 0
}

// SessionCommand is one REPL turn that reached or attempted execution.
// Transient and in-memory; Result is nil when the command was declined.
type SessionCommand struct {
	NaturalLanguage string
	ShellCommand    string
	Result          *ExecutionResult
}

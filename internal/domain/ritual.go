package domain

import "time"

// StepStatus tracks a ritual step during one run. Status is transient:
// only the ordered commands are persisted.
type StepStatus string

const (
	StepPending StepStatus = "pending"
	StepRunning StepStatus = "running"
	StepSuccess StepStatus = "success"
	StepFailed  StepStatus = "failed"
	StepSkipped StepStatus = "skipped"
)

// RitualStep is one command in a ritual's ordered sequence.
type RitualStep struct {
	Order         int
	Command       string
	Status        StepStatus
	Output        string
	Error         string
	ExecutionTime time.Duration
}

// Ritual is a user-defined, named, ordered sequence of shell commands
// executed as a unit. Names are unique; deleting a ritual cascades to its
// steps.
type Ritual struct {
	ID          int64
	Name        string
	Description string
	Steps       []RitualStep
	CreatedAt   time.Time
}

// RitualRun tracks a single execution of a ritual.
type RitualRun struct {
	Ritual      *Ritual
	CurrentStep int
	StartTime   time.Time
	EndTime     time.Time
	Success     bool
}

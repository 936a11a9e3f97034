// Package domain defines core business entities and value objects for seance.
//
// The domain layer is independent of infrastructure concerns and represents
// pure business logic and data structures.
package domain

// RiskLevel classifies how dangerous a shell command is considered.
type RiskLevel string

const (
	RiskSafe        RiskLevel = "safe"
	RiskModerate    RiskLevel = "moderate"
	RiskDestructive RiskLevel = "destructive"
)

// ConfirmOutcome is the terminal result of a confirmation prompt.
type ConfirmOutcome string

const (
	ConfirmYes   ConfirmOutcome = "yes"
	ConfirmNo    ConfirmOutcome = "no"
	ConfirmRetry ConfirmOutcome = "retry"
)

// DestructiveConfirmLiteral is the exact text a user must type to approve
// a destructive command. Anything else (except a retry keyword) declines.
const DestructiveConfirmLiteral = "EXECUTE"

// RiskRule is a single regex-based classification rule. Rules are evaluated
// in ascending Priority order and the first match wins, so tie-break
// behavior stays auditable instead of depending on slice order.
type RiskRule struct {
	Pattern  string    `yaml:"pattern"`
	Level    RiskLevel `yaml:"level"`
	Priority int       `yaml:"priority"`
	Message  string    `yaml:"message,omitempty"`
}

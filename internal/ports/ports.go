// Package ports defines the interfaces (ports) for the hexagonal architecture.
//
// These interfaces are the contract between the application core and external
// adapters (infrastructure): the application depends on abstractions here,
// never on concrete databases, HTTP clients, or CLI frameworks.
package ports

import (
	"context"
	"time"

	"github.com/seancedev/seance/internal/domain"
)

// ConfigProvider loads the latest configuration from persistent storage.
type ConfigProvider interface {
	Load(context.Context) (domain.Config, error)
}

// InterpretRequest carries everything the interpreter needs for one attempt.
type InterpretRequest struct {
	Input      string
	Context    string
	Examples   []domain.KnowledgeEntry
	Rejections []string
	Blacklist  []string
}

// Interpreter converts natural language into a shell command via the local
// text-generation service. CheckConnection probes liveness; Explain asks for
// a plain-English description of an existing command.
type Interpreter interface {
	CheckConnection(ctx context.Context) error
	Interpret(ctx context.Context, req InterpretRequest) (string, error)
	Explain(ctx context.Context, command string) (string, error)
}

// LearningStore persists history, rejections, aliases, and preferences, and
// supplies ranked retrieval for the interpretation loop.
type LearningStore interface {
	SaveCommand(nl, cmd string, exitCode int, execTime time.Duration, workingDir string) error
	Suggestions(nl string, limit int) ([]domain.HistoryEntry, error)
	RecentCommands(limit int) ([]domain.HistoryEntry, error)
	DirectorySuggestions(workingDir string, limit int) ([]domain.HistoryEntry, error)

	AddRejection(nl, cmd string) error
	Rejections(nl string, limit int) ([]string, error)
	ClearRejections(nl string) error

	SetAlias(name, command string) error
	Alias(name string) (string, bool)
	RemoveAlias(name string) (bool, error)
	ListAliases() ([]domain.Alias, error)

	SetPreference(key, value string) error
	Preference(key string) (string, bool)
}

// RitualStore persists named command sequences. CreateRitual inserts the
// ritual row and all step rows atomically.
type RitualStore interface {
	CreateRitual(name, description string, steps []string) error
	Ritual(name string) (*domain.Ritual, error)
	ListRituals() ([]domain.Ritual, error)
	DeleteRitual(name string) (bool, error)
}

// ContextAssembler inspects a directory for project signals and a bounded
// file listing. Side-effect-free and never fails; I/O trouble yields a
// fallback description.
type ContextAssembler interface {
	Describe(dir string) string
}

// PathCorrector fuzzy-repairs filesystem-path tokens inside a candidate
// command. Correction is idempotent and returns the input untouched when
// nothing changed.
type PathCorrector interface {
	Correct(command, workingDir string) string
}

// RiskClassifier scores a command string. Classification never fails: any
// internal fault degrades to RiskSafe (the confirmation step still runs).
type RiskClassifier interface {
	Classify(command string) domain.RiskLevel
}

// CommandExecutor runs validated commands in a controlled subprocess.
// WorkingDirectory is the only cross-turn mutable state; only the executor
// itself writes it (via directory-change commands or SetWorkingDirectory).
type CommandExecutor interface {
	ValidateSyntax(command string) error
	Execute(ctx context.Context, command string) (domain.ExecutionResult, error)
	WorkingDirectory() string
	SetWorkingDirectory(dir string) error
}

// ConfirmationPrompter drives risk-graded user confirmation. It never
// executes the command itself; it only returns an outcome token.
type ConfirmationPrompter interface {
	Confirm(command string, risk domain.RiskLevel) domain.ConfirmOutcome
}

// KnowledgeBase manages the user-curated command mappings file.
type KnowledgeBase interface {
	Entries() []domain.KnowledgeEntry
	Search(query string, limit int) []domain.KnowledgeEntry
	Add(nl, cmd string) error
	Path() string
}

// Blacklist manages patterns the interpreter must never reproduce.
// Advisory only: enforced via prompt instruction, not post-hoc filtering.
type Blacklist interface {
	Patterns() []string
	Add(pattern string) error
	Path() string
}

// Logger provides structured logging abstraction for the application layer.
type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, err error, fields map[string]interface{})
}

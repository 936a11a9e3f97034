package cli

import (
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/seancedev/seance/internal/domain"
	"github.com/seancedev/seance/internal/pkg/logger"
	"github.com/seancedev/seance/internal/ports"
	"github.com/seancedev/seance/internal/services"
)

type rejection struct{ nl, cmd string }

type replStore struct {
	saved      []string
	rejections []rejection
}

func (s *replStore) SaveCommand(nl, cmd string, exitCode int, execTime time.Duration, wd string) error {
	s.saved = append(s.saved, cmd)
	return nil
}
func (s *replStore) Suggestions(string, int) ([]domain.HistoryEntry, error) { return nil, nil }
func (s *replStore) RecentCommands(int) ([]domain.HistoryEntry, error)     { return nil, nil }
func (s *replStore) DirectorySuggestions(string, int) ([]domain.HistoryEntry, error) {
	return nil, nil
}
func (s *replStore) AddRejection(nl, cmd string) error {
	s.rejections = append(s.rejections, rejection{nl, cmd})
	return nil
}
func (s *replStore) Rejections(string, int) ([]string, error) { return nil, nil }
func (s *replStore) ClearRejections(string) error             { return nil }
func (s *replStore) SetAlias(string, string) error            { return nil }
func (s *replStore) Alias(string) (string, bool)              { return "", false }
func (s *replStore) RemoveAlias(string) (bool, error)         { return false, nil }
func (s *replStore) ListAliases() ([]domain.Alias, error)     { return nil, nil }
func (s *replStore) SetPreference(string, string) error       { return nil }
func (s *replStore) Preference(string) (string, bool)         { return "", false }

type replExecutor struct {
	exitCode int
	executed []string
}

func (e *replExecutor) ValidateSyntax(string) error { return nil }
func (e *replExecutor) Execute(_ context.Context, cmd string) (domain.ExecutionResult, error) {
	e.executed = append(e.executed, cmd)
	return domain.ExecutionResult{Command: cmd, ExitCode: e.exitCode}, nil
}
func (e *replExecutor) WorkingDirectory() string         { return "/tmp" }
func (e *replExecutor) SetWorkingDirectory(string) error { return nil }

type replInterpreter struct {
	command    string
	rejections []string
}

func (i *replInterpreter) CheckConnection(context.Context) error { return nil }
func (i *replInterpreter) Interpret(_ context.Context, req ports.InterpretRequest) (string, error) {
	i.rejections = req.Rejections
	return i.command, nil
}
func (i *replInterpreter) Explain(context.Context, string) (string, error) { return "", nil }

type replKnowledge struct{}

func (replKnowledge) Entries() []domain.KnowledgeEntry           { return nil }
func (replKnowledge) Search(string, int) []domain.KnowledgeEntry { return nil }
func (replKnowledge) Add(string, string) error                   { return nil }
func (replKnowledge) Path() string                               { return "" }

type replBlacklist struct{}

func (replBlacklist) Patterns() []string { return nil }
func (replBlacklist) Add(string) error   { return nil }
func (replBlacklist) Path() string       { return "" }

type replAssembler struct{}

func (replAssembler) Describe(string) string { return "" }

type replCorrector struct{}

func (replCorrector) Correct(cmd, _ string) string { return cmd }

type replClassifier struct{ risk domain.RiskLevel }

func (c replClassifier) Classify(string) domain.RiskLevel { return c.risk }

// newTestREPL wires a REPL around fakes. answer feeds the confirmation
// prompter line by line.
func newTestREPL(store *replStore, exec *replExecutor, interp *replInterpreter, risk domain.RiskLevel, answer string) *REPL {
	log := logger.NewStd(false)
	theme := NewTheme(domain.ThemeConfig{})
	interpretSvc := &services.InterpretService{
		Interpreter: interp,
		Store:       store,
		Knowledge:   replKnowledge{},
		Blacklist:   replBlacklist{},
		Assembler:   replAssembler{},
		Corrector:   replCorrector{},
		Executor:    exec,
		Classifier:  replClassifier{risk: risk},
		Logger:      log,
	}
	suggestSvc := &services.SuggestService{Store: store, Executor: exec, Logger: log}
	return &REPL{
		Config:    &domain.Config{},
		Interpret: interpretSvc,
		Suggest:   suggestSvc,
		Store:     store,
		Executor:  exec,
		Prompter:  NewPrompter(strings.NewReader(answer), io.Discard, theme),
		Renderer:  NewRenderer(io.Discard, theme),
		Logger:    log,
	}
}

func TestExecuteFailurePersistsRejection(t *testing.T) {
	store := &replStore{}
	exec := &replExecutor{exitCode: 1}
	r := newTestREPL(store, exec, &replInterpreter{}, domain.RiskSafe, "")

	r.execute(context.Background(), "stop the service", "systemctl stop nothing")

	if len(store.rejections) != 1 {
		t.Fatalf("non-zero exit must persist a rejection, got %+v", store.rejections)
	}
	if got := store.rejections[0]; got.nl != "stop the service" || got.cmd != "systemctl stop nothing" {
		t.Fatalf("wrong rejection recorded: %+v", got)
	}
	if r.lastFailed != "systemctl stop nothing" {
		t.Fatalf("failed command not tracked, got %q", r.lastFailed)
	}
	if len(store.saved) != 0 {
		t.Fatalf("failed command must not enter history: %+v", store.saved)
	}
}

func TestExecuteSuccessClearsFailureState(t *testing.T) {
	store := &replStore{}
	exec := &replExecutor{exitCode: 0}
	r := newTestREPL(store, exec, &replInterpreter{}, domain.RiskSafe, "")
	r.lastFailed = "old-broken-cmd"

	r.execute(context.Background(), "list files", "ls -la")

	if r.lastFailed != "" {
		t.Fatalf("success must clear the failed command, got %q", r.lastFailed)
	}
	if len(store.saved) != 1 || store.saved[0] != "ls -la" {
		t.Fatalf("success not saved: %+v", store.saved)
	}
	if len(store.rejections) != 0 {
		t.Fatalf("success must not record a rejection: %+v", store.rejections)
	}
}

func TestRetrySeedsFailedCommandAsRejection(t *testing.T) {
	store := &replStore{}
	exec := &replExecutor{exitCode: 0}
	interp := &replInterpreter{command: "ls -la"}
	r := newTestREPL(store, exec, interp, domain.RiskSafe, "\n")
	r.lastInput = "list everything"
	r.lastFailed = "ls --everything"

	r.handleRequest(context.Background(), "list everything")

	found := false
	for _, rej := range interp.rejections {
		if rej == "ls --everything" {
			found = true
		}
	}
	if !found {
		t.Fatalf("retry must steer away from the failed command, rejections: %+v", interp.rejections)
	}
}

func TestDeclinedSafeCommandIsNotPersisted(t *testing.T) {
	store := &replStore{}
	exec := &replExecutor{}
	r := newTestREPL(store, exec, &replInterpreter{command: "ls -la"}, domain.RiskSafe, "n\n")

	r.handleRequest(context.Background(), "enumerate the directory")

	if len(store.rejections) != 0 {
		t.Fatalf("cancelling a safe command must not persist a rejection: %+v", store.rejections)
	}
	if len(r.session) != 0 {
		t.Fatalf("cancelled safe command must not enter session history: %+v", r.session)
	}
	if len(exec.executed) != 0 {
		t.Fatalf("declined command must not run: %+v", exec.executed)
	}
}

func TestDeclinedDestructiveCommandIsRemembered(t *testing.T) {
	store := &replStore{}
	exec := &replExecutor{}
	r := newTestREPL(store, exec, &replInterpreter{command: "rm -rf data"}, domain.RiskDestructive, "absolutely not\n")

	r.handleRequest(context.Background(), "wipe the data directory")

	if len(store.rejections) != 1 || store.rejections[0].cmd != "rm -rf data" {
		t.Fatalf("destructive decline must persist a rejection: %+v", store.rejections)
	}
	if len(r.session) != 1 {
		t.Fatalf("destructive decline must enter session history: %+v", r.session)
	}
	if len(exec.executed) != 0 {
		t.Fatalf("declined command must not run: %+v", exec.executed)
	}
}

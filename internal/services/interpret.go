// Package services contains the application orchestration layer: use cases
// composed from ports, free of infrastructure detail.
package services

import (
	"context"
	"strings"

	"github.com/seancedev/seance/internal/domain"
	"github.com/seancedev/seance/internal/ports"
)

const maxExamples = 3

// Candidate is an interpreted command ready for confirmation. Raw is the
// command as the interpreter produced it, before path correction.
type Candidate struct {
	Command   string
	Raw       string
	Risk      domain.RiskLevel
	Corrected bool
}

// InterpretService turns a natural-language request into a risk-graded
// command candidate: assemble context, consult knowledge and history,
// interpret, path-correct, validate, classify.
type InterpretService struct {
	Interpreter ports.Interpreter
	Store       ports.LearningStore
	Knowledge   ports.KnowledgeBase
	Blacklist   ports.Blacklist
	Assembler   ports.ContextAssembler
	Corrector   ports.PathCorrector
	Executor    ports.CommandExecutor
	Classifier  ports.RiskClassifier
	Logger      ports.Logger
}

// Interpret resolves input into a Candidate. extraRejections are
// turn-scoped: candidates declined via retry this turn, steered away from
// without being persisted. Retrieval faults (rejections, suggestions)
// degrade with a warning rather than failing the request; only
// interpretation and validation errors propagate.
func (s *InterpretService) Interpret(ctx context.Context, input string, extraRejections []string) (Candidate, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return Candidate{}, &domain.InterpretationError{Reason: "empty request"}
	}
	if len(input) > domain.MaxInputLength {
		return Candidate{}, &domain.InterpretationError{Reason: "request too long"}
	}

	wd := s.Executor.WorkingDirectory()

	req := ports.InterpretRequest{
		Input:     input,
		Context:   s.Assembler.Describe(wd),
		Examples:  s.examples(input),
		Blacklist: s.Blacklist.Patterns(),
	}
	req.Rejections = append(req.Rejections, extraRejections...)
	if rejections, err := s.Store.Rejections(input, maxExamples); err != nil {
		s.Logger.Warn("rejection retrieval failed", map[string]interface{}{"error": err.Error()})
	} else {
		req.Rejections = append(req.Rejections, rejections...)
	}

	cmd, err := s.Interpreter.Interpret(ctx, req)
	if err != nil {
		return Candidate{}, err
	}

	corrected := s.Corrector.Correct(cmd, wd)
	if err := s.Executor.ValidateSyntax(corrected); err != nil {
		return Candidate{}, err
	}

	return Candidate{
		Command:   corrected,
		Raw:       cmd,
		Risk:      s.Classifier.Classify(corrected),
		Corrected: corrected != cmd,
	}, nil
}

// examples merges knowledge entries with learned history, knowledge first.
// At most maxExamples total reach the prompt.
func (s *InterpretService) examples(input string) []domain.KnowledgeEntry {
	examples := s.Knowledge.Search(input, maxExamples)
	if len(examples) >= maxExamples {
		return examples[:maxExamples]
	}

	learned, err := s.Store.Suggestions(input, maxExamples)
	if err != nil {
		s.Logger.Warn("suggestion retrieval failed", map[string]interface{}{"error": err.Error()})
		return examples
	}
	for _, h := range learned {
		if len(examples) == maxExamples {
			break
		}
		if containsCommand(examples, h.ShellCommand) {
			continue
		}
		examples = append(examples, domain.KnowledgeEntry{
			NaturalLanguage: h.NaturalLanguage,
			ShellCommand:    h.ShellCommand,
		})
	}
	return examples
}

func containsCommand(entries []domain.KnowledgeEntry, cmd string) bool {
	for _, e := range entries {
		if e.ShellCommand == cmd {
			return true
		}
	}
	return false
}

// RecordSuccess persists an executed command and clears the phrasing's
// rejection slate.
func (s *InterpretService) RecordSuccess(input string, res domain.ExecutionResult) error {
	if err := s.Store.SaveCommand(input, res.Command, res.ExitCode, res.ExecutionTime, s.Executor.WorkingDirectory()); err != nil {
		return err
	}
	return s.Store.ClearRejections(input)
}

// RecordRejection notes a declined candidate so re-asking the same thing
// steers the interpreter elsewhere.
func (s *InterpretService) RecordRejection(input, command string) error {
	return s.Store.AddRejection(input, command)
}

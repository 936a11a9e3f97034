// Package ritual executes named command sequences through the session
// executor.
package ritual

import (
	"context"
	"time"

	"github.com/seancedev/seance/internal/domain"
	"github.com/seancedev/seance/internal/ports"
)

// ProgressFunc observes each step transition during a run. It receives the
// step index and the step after its status changed.
type ProgressFunc func(index int, step domain.RitualStep)

// Engine runs rituals step by step, halting at the first failure.
type Engine struct {
	executor ports.CommandExecutor
	logger   ports.Logger
}

// NewEngine builds an Engine on top of the given executor.
func NewEngine(executor ports.CommandExecutor, logger ports.Logger) *Engine {
	return &Engine{executor: executor, logger: logger}
}

// Run executes every step of r in order. The first step that exits non-zero
// stops the run; steps after it keep their pending status. Steps mutate the
// passed ritual in place so callers can render the final state. progress may
// be nil.
func (e *Engine) Run(ctx context.Context, r *domain.Ritual, progress ProgressFunc) domain.RitualRun {
	run := domain.RitualRun{Ritual: r, StartTime: time.Now(), Success: true}

	for i := range r.Steps {
		step := &r.Steps[i]
		run.CurrentStep = i
		step.Status = domain.StepRunning
		if progress != nil {
			progress(i, *step)
		}

		res, err := e.executor.Execute(ctx, step.Command)
		if err != nil {
			step.Status = domain.StepFailed
			step.Error = err.Error()
			run.Success = false
		} else {
			step.Output = res.Stdout
			step.ExecutionTime = res.ExecutionTime
			if res.Succeeded() {
				step.Status = domain.StepSuccess
			} else {
				step.Status = domain.StepFailed
				step.Error = res.Stderr
				run.Success = false
			}
		}
		if progress != nil {
			progress(i, *step)
		}

		if step.Status == domain.StepFailed {
			e.logger.Warn("ritual halted", map[string]interface{}{
				"ritual": r.Name,
				"step":   i,
			})
			break
		}
	}

	run.EndTime = time.Now()
	return run
}

// Preview returns the commands a run would execute, in order, without
// touching the executor.
func (e *Engine) Preview(r *domain.Ritual) []string {
	cmds := make([]string, len(r.Steps))
	for i, s := range r.Steps {
		cmds[i] = s.Command
	}
	return cmds
}

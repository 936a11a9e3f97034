package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/chzyer/readline"

	"github.com/seancedev/seance/internal/domain"
	"github.com/seancedev/seance/internal/infrastructure/ritual"
	"github.com/seancedev/seance/internal/ports"
	"github.com/seancedev/seance/internal/services"
)

const maxRetryRounds = 3

var errQuit = errors.New("quit")

// REPL is the interactive session loop. All state that spans turns lives
// here: the last request, the last candidate, and the session transcript.
type REPL struct {
	Config       *domain.Config
	SaveConfig   func(domain.Config) error
	Interpret    *services.InterpretService
	Suggest      *services.SuggestService
	Store        ports.LearningStore
	Rituals      ports.RitualStore
	Engine       *ritual.Engine
	Knowledge    ports.KnowledgeBase
	Blacklist    ports.Blacklist
	Executor     ports.CommandExecutor
	Prompter     *Prompter
	Interpreter  ports.Interpreter
	Renderer     *Renderer
	Logger       ports.Logger

	lastInput   string
	lastCommand string
	lastFailed  string
	executed    int
	session     []domain.SessionCommand
}

// Run probes the interpreter service and enters the read loop. A failed
// probe does not end the session: builtins still work, and each request
// reports the connection problem until the service comes back.
func (r *REPL) Run(ctx context.Context) error {
	if err := r.Interpreter.CheckConnection(ctx); err != nil {
		r.Renderer.ConnectionFailure(r.Config.Interpreter.Endpoint, err)
	}
	r.Renderer.Banner(r.Config.Interpreter.Model)

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "seance> ",
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return fmt.Errorf("readline: %w", err)
	}
	defer rl.Close()
	// Confirmation reads go through readline too, so an interrupt mid-prompt
	// declines instead of killing the session.
	r.Prompter.SetLineReader(rl.Readline)

	for {
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			if strings.TrimSpace(line) == "" {
				break
			}
			continue
		}
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return err
		}

		input := strings.TrimSpace(line)
		if input == "" {
			r.Renderer.Notice("Speak, or type 'help'.")
			continue
		}
		if len(input) > domain.MaxInputLength {
			r.Renderer.Warn(fmt.Sprintf("Request too long (%d characters, limit %d).", len(input), domain.MaxInputLength))
			continue
		}

		input = r.expandAlias(input)

		if b, ok := ParseBuiltin(input); ok {
			if err := r.handleBuiltin(ctx, rl, b); err != nil {
				if errors.Is(err, errQuit) {
					break
				}
				r.Renderer.Errorf("%v", err)
			}
			continue
		}

		r.handleRequest(ctx, input)
	}

	r.Renderer.Farewell(r.executed)
	return nil
}

// expandAlias substitutes the first word when it names an alias.
func (r *REPL) expandAlias(input string) string {
	head, rest, _ := strings.Cut(input, " ")
	cmd, ok := r.Store.Alias(head)
	if !ok {
		return input
	}
	expanded := cmd
	if rest != "" {
		expanded += " " + rest
	}
	r.Renderer.Notice(fmt.Sprintf("alias %s -> %s", head, expanded))
	return expanded
}

// handleRequest drives one interpretation round: interpret, confirm,
// execute, learn. Retry outcomes reinterpret with the declined candidate on
// the rejection slate, bounded so a stubborn model cannot loop forever.
func (r *REPL) handleRequest(ctx context.Context, input string) {
	retry := input == r.lastInput
	r.lastInput = input

	if !retry && len(input) >= 3 {
		if hints := r.Suggest.Suggest(input, 1); len(hints) > 0 {
			r.Renderer.Notice(fmt.Sprintf("the spirits whisper: %s (%s)", hints[0].NaturalLanguage, hints[0].ShellCommand))
		}
	}

	var declined []string
	if retry && r.lastFailed != "" {
		// A prior attempt at this phrasing already failed at execution;
		// steer the next interpretation away from it.
		declined = append(declined, r.lastFailed)
	}
	for round := 0; round < maxRetryRounds; round++ {
		cand, err := r.interpretOnce(ctx, input, declined)
		if err != nil {
			r.reportInterpretError(input, err)
			return
		}
		r.lastCommand = cand.Command
		if cand.Corrected {
			r.Renderer.Notice(fmt.Sprintf("path corrected: %s -> %s", cand.Raw, cand.Command))
		}

		switch r.Prompter.Confirm(cand.Command, cand.Risk) {
		case domain.ConfirmYes:
			r.execute(ctx, input, cand.Command)
			return
		case domain.ConfirmRetry:
			// Turn-scoped steering only; nothing is persisted for a retry.
			declined = append(declined, cand.Command)
			continue
		default:
			// Only destructive declines are worth remembering; cancelling a
			// harmless command is not a verdict on the interpretation.
			if cand.Risk == domain.RiskDestructive {
				if err := r.Interpret.RecordRejection(input, cand.Command); err != nil {
					r.warnStorage(err)
				}
				r.session = append(r.session, domain.SessionCommand{NaturalLanguage: input, ShellCommand: cand.Command})
			}
			r.Renderer.Notice("Declined.")
			return
		}
	}
	r.Renderer.Warn("No acceptable interpretation after several attempts. Try rephrasing.")
}

func (r *REPL) interpretOnce(ctx context.Context, input string, declined []string) (services.Candidate, error) {
	sp := NewSpinner(os.Stderr, "consulting the spirits...")
	sp.Start()
	defer sp.Stop()
	return r.Interpret.Interpret(ctx, input, declined)
}

func (r *REPL) reportInterpretError(input string, err error) {
	var connErr *domain.ConnectivityError
	var valErr *domain.ValidationError
	switch {
	case errors.As(err, &connErr):
		r.Renderer.ConnectionFailure(connErr.Endpoint, connErr.Err)
	case errors.As(err, &valErr):
		r.Renderer.Warn(fmt.Sprintf("The answer was not a runnable command: %s", valErr.Reason))
		if recErr := r.Interpret.RecordRejection(input, valErr.Command); recErr != nil {
			r.warnStorage(recErr)
		}
	default:
		r.Renderer.Errorf("%v", err)
	}
}

func (r *REPL) execute(ctx context.Context, input, command string) {
	res, err := r.Executor.Execute(ctx, command)
	if err != nil {
		r.Renderer.Errorf("%v", err)
		return
	}
	r.Renderer.Result(res)
	r.executed++
	r.session = append(r.session, domain.SessionCommand{NaturalLanguage: input, ShellCommand: command, Result: &res})

	if res.Succeeded() {
		r.lastFailed = ""
		if err := r.Interpret.RecordSuccess(input, res); err != nil {
			r.warnStorage(err)
		}
	} else {
		// A non-zero exit is evidence against this interpretation: persist
		// it so re-asking steers elsewhere, and seed the next retry.
		r.lastFailed = command
		if err := r.Interpret.RecordRejection(input, command); err != nil {
			r.warnStorage(err)
		}
	}
}

// warnStorage reports a persistence fault and lets the session continue
// with learning degraded.
func (r *REPL) warnStorage(err error) {
	if errors.Is(err, domain.ErrStorage) {
		r.Renderer.Warn("Memory is failing; this session will not be remembered.")
		r.Logger.Warn("storage degraded", map[string]interface{}{"error": err.Error()})
		return
	}
	r.Renderer.Warn(err.Error())
}

func (r *REPL) handleBuiltin(ctx context.Context, rl *readline.Instance, b Builtin) error {
	switch b.Kind {
	case BuiltinHelp:
		r.Renderer.Help()
	case BuiltinExit:
		return errQuit
	case BuiltinClear:
		fmt.Print("\033[2J\033[H")
	case BuiltinHistory:
		entries, err := r.Store.RecentCommands(10)
		if err != nil {
			return err
		}
		r.Renderer.History(entries)
	case BuiltinRetry:
		if r.lastInput == "" {
			r.Renderer.Notice("Nothing to retry yet.")
			return nil
		}
		r.handleRequest(ctx, r.lastInput)
	case BuiltinExplain:
		return r.explain(ctx, b.Value)
	case BuiltinSuggest:
		r.Renderer.Suggestions(r.Suggest.Suggest(b.Value, 5))
	case BuiltinSystem:
		r.system()
	case BuiltinKnowledgeList:
		r.Renderer.Knowledge(r.Knowledge.Entries(), r.Knowledge.Path())
	case BuiltinKnowledgeAdd:
		if err := r.Knowledge.Add(b.Name, b.Value); err != nil {
			return err
		}
		r.Renderer.Notice("Remembered.")
	case BuiltinBlacklistAdd:
		if err := r.Blacklist.Add(b.Value); err != nil {
			return err
		}
		r.Renderer.Notice("Forbidden.")
	case BuiltinAliasList:
		aliases, err := r.Store.ListAliases()
		if err != nil {
			return err
		}
		r.Renderer.Aliases(aliases)
	case BuiltinAliasSet:
		if err := r.Store.SetAlias(b.Name, b.Value); err != nil {
			return err
		}
		r.Renderer.Notice(fmt.Sprintf("alias %s = %s", b.Name, b.Value))
	case BuiltinAliasRemove:
		removed, err := r.Store.RemoveAlias(b.Name)
		if err != nil {
			return err
		}
		if !removed {
			r.Renderer.Notice(fmt.Sprintf("No alias named %q.", b.Name))
		}
	case BuiltinRitualList:
		rituals, err := r.Rituals.ListRituals()
		if err != nil {
			return err
		}
		r.Renderer.Rituals(rituals)
	case BuiltinRitualShow:
		return r.showRitual(b.Name)
	case BuiltinRitualCreate:
		return r.createRitual(rl, b.Name)
	case BuiltinRitualRun:
		return r.runRitualInteractive(ctx, rl, b.Name)
	case BuiltinRitualPerform:
		return r.performRitual(ctx, b.Name)
	case BuiltinRitualDelete:
		removed, err := r.Rituals.DeleteRitual(b.Name)
		if err != nil {
			return err
		}
		if removed {
			r.Renderer.Notice("Ritual dissolved.")
		} else {
			r.Renderer.Notice(fmt.Sprintf("No ritual named %q.", b.Name))
		}
	case BuiltinConfigGet:
		v, err := ConfigValue(r.Config, b.Name)
		if err != nil {
			return err
		}
		r.Renderer.Notice(fmt.Sprintf("%s = %s", b.Name, v))
	case BuiltinConfigSet:
		if err := SetConfigValue(r.Config, b.Name, b.Value); err != nil {
			return err
		}
		if r.SaveConfig != nil {
			if err := r.SaveConfig(*r.Config); err != nil {
				return err
			}
		}
		r.Renderer.Notice(fmt.Sprintf("%s = %s", b.Name, b.Value))
		if strings.HasPrefix(b.Name, "interpreter.") {
			r.Renderer.Notice("Interpreter settings take effect next session.")
		}
	}
	return nil
}

func (r *REPL) explain(ctx context.Context, command string) error {
	if command == "" {
		command = r.lastCommand
	}
	if command == "" {
		r.Renderer.Notice("No command to explain yet.")
		return nil
	}
	sp := NewSpinner(os.Stderr, "divining...")
	sp.Start()
	text, err := r.Interpreter.Explain(ctx, command)
	sp.Stop()
	if err != nil {
		r.Renderer.Notice("The spirits cannot explain this one.")
		return nil
	}
	r.Renderer.Notice(text)
	return nil
}

func (r *REPL) system() {
	r.Renderer.Notice("working directory: " + r.Executor.WorkingDirectory())
	r.Renderer.Notice("interpreter:       " + r.Config.Interpreter.Endpoint + " (" + r.Config.Interpreter.Model + ")")
	r.Renderer.Notice(fmt.Sprintf("session:           %d commands executed, %d turns", r.executed, len(r.session)))
	r.Renderer.Notice("knowledge:         " + r.Knowledge.Path())
}

func (r *REPL) showRitual(name string) error {
	rit, err := r.Rituals.Ritual(name)
	if err != nil {
		return err
	}
	if rit == nil {
		r.Renderer.Notice(fmt.Sprintf("No ritual named %q.", name))
		return nil
	}
	r.Renderer.RitualDetail(rit, r.Engine.Preview(rit))
	return nil
}

// createRitual collects steps interactively: one command per line, a blank
// line finishes. Each step is syntax-checked on entry.
func (r *REPL) createRitual(rl *readline.Instance, name string) error {
	if name == "" {
		line, err := prompt(rl, "ritual name: ")
		if err != nil {
			return err
		}
		name = strings.TrimSpace(line)
		if name == "" {
			r.Renderer.Notice("A ritual needs a name.")
			return nil
		}
	}

	description, err := prompt(rl, "description (optional): ")
	if err != nil {
		return err
	}

	r.Renderer.Notice("Enter steps one per line; 'done' to finish.")
	var steps []string
	for {
		line, err := prompt(rl, fmt.Sprintf("step %d: ", len(steps)+1))
		if err != nil {
			return err
		}
		step := strings.TrimSpace(line)
		if step == "" || strings.EqualFold(step, "done") {
			break
		}
		if err := r.Executor.ValidateSyntax(step); err != nil {
			r.Renderer.Warn(err.Error())
			continue
		}
		steps = append(steps, step)
	}
	if len(steps) == 0 {
		r.Renderer.Notice("No steps; nothing created.")
		return nil
	}

	if err := r.Rituals.CreateRitual(name, strings.TrimSpace(description), steps); err != nil {
		return err
	}
	r.Renderer.Notice(fmt.Sprintf("Ritual %q bound with %d steps.", name, len(steps)))
	return nil
}

// performRitual runs a ritual through the engine: strict order, halt at the
// first failure.
func (r *REPL) performRitual(ctx context.Context, name string) error {
	rit, err := r.Rituals.Ritual(name)
	if err != nil {
		return err
	}
	if rit == nil {
		r.Renderer.Notice(fmt.Sprintf("No ritual named %q.", name))
		return nil
	}

	run := r.Engine.Run(ctx, rit, r.Renderer.RitualStep)
	r.Renderer.RitualOutcome(run)
	r.executed += executedSteps(rit)
	return nil
}

// runRitualInteractive steps through a ritual asking whether to continue
// after a failed step, instead of halting outright.
func (r *REPL) runRitualInteractive(ctx context.Context, rl *readline.Instance, name string) error {
	rit, err := r.Rituals.Ritual(name)
	if err != nil {
		return err
	}
	if rit == nil {
		r.Renderer.Notice(fmt.Sprintf("No ritual named %q.", name))
		return nil
	}

	for i := range rit.Steps {
		step := &rit.Steps[i]
		step.Status = domain.StepRunning
		r.Renderer.RitualStep(i, *step)

		res, err := r.Executor.Execute(ctx, step.Command)
		if err != nil {
			step.Status = domain.StepFailed
			step.Error = err.Error()
		} else {
			step.Output = res.Stdout
			step.ExecutionTime = res.ExecutionTime
			if res.Succeeded() {
				step.Status = domain.StepSuccess
				r.executed++
			} else {
				step.Status = domain.StepFailed
				step.Error = res.Stderr
			}
		}
		r.Renderer.RitualStep(i, *step)

		if step.Status == domain.StepFailed && i < len(rit.Steps)-1 {
			line, err := prompt(rl, "step failed. continue? [y/N]: ")
			if err != nil || !strings.EqualFold(strings.TrimSpace(line), "y") {
				r.Renderer.Notice("Ritual abandoned.")
				return nil
			}
		}
	}
	r.Renderer.Notice("Ritual finished.")
	return nil
}

func executedSteps(rit *domain.Ritual) int {
	n := 0
	for _, s := range rit.Steps {
		if s.Status == domain.StepSuccess {
			n++
		}
	}
	return n
}

func prompt(rl *readline.Instance, label string) (string, error) {
	rl.SetPrompt(label)
	defer rl.SetPrompt("seance> ")
	return rl.Readline()
}

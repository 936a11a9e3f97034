package cli

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/seancedev/seance/internal/domain"
)

// Renderer prints themed REPL output.
type Renderer struct {
	out   io.Writer
	theme Theme
}

// NewRenderer builds a Renderer writing to out.
func NewRenderer(out io.Writer, theme Theme) *Renderer {
	return &Renderer{out: out, theme: theme}
}

// Banner prints the greeting and connection status.
func (r *Renderer) Banner(model string) {
	fmt.Fprintln(r.out, r.theme.Accent.Render("seance"))
	fmt.Fprintln(r.out, r.theme.Dim.Render("speak plainly; the medium answers in shell. 'help' lists commands."))
	fmt.Fprintln(r.out, r.theme.Dim.Render("model: "+model))
	fmt.Fprintln(r.out)
}

// Farewell prints the session summary on exit.
func (r *Renderer) Farewell(executed int) {
	switch executed {
	case 0:
		fmt.Fprintln(r.out, r.theme.Dim.Render("The session ends. Nothing was asked of the shell."))
	case 1:
		fmt.Fprintln(r.out, r.theme.Dim.Render("The session ends. 1 command crossed over."))
	default:
		fmt.Fprintln(r.out, r.theme.Dim.Render(fmt.Sprintf("The session ends. %d commands crossed over.", executed)))
	}
}

// ConnectionFailure explains how to bring the interpreter service up.
func (r *Renderer) ConnectionFailure(endpoint string, err error) {
	fmt.Fprintln(r.out, r.theme.Danger.Render("Cannot reach the interpreter service."))
	fmt.Fprintf(r.out, "  endpoint: %s\n  error:    %v\n", endpoint, err)
	fmt.Fprintln(r.out, r.theme.Dim.Render("Start it with 'ollama serve' and pull a model with 'ollama pull llama3.2'."))
}

// Notice prints a dim informational line.
func (r *Renderer) Notice(msg string) {
	fmt.Fprintln(r.out, r.theme.Dim.Render(msg))
}

// Warn prints a warning line.
func (r *Renderer) Warn(msg string) {
	fmt.Fprintln(r.out, r.theme.Warning.Render(msg))
}

// Errorf prints an error line.
func (r *Renderer) Errorf(format string, args ...interface{}) {
	fmt.Fprintln(r.out, r.theme.Danger.Render(fmt.Sprintf(format, args...)))
}

// Result prints an execution result: output verbatim, failures styled.
func (r *Renderer) Result(res domain.ExecutionResult) {
	if res.Stdout != "" {
		fmt.Fprint(r.out, res.Stdout)
		if !strings.HasSuffix(res.Stdout, "\n") {
			fmt.Fprintln(r.out)
		}
	}
	if res.Stderr != "" {
		fmt.Fprintln(r.out, r.theme.Warning.Render(strings.TrimRight(res.Stderr, "\n")))
	}
	if !res.Succeeded() {
		fmt.Fprintln(r.out, r.theme.Danger.Render(fmt.Sprintf("exit code %d", res.ExitCode)))
	}
}

// History prints recent history entries, newest first.
func (r *Renderer) History(entries []domain.HistoryEntry) {
	if len(entries) == 0 {
		fmt.Fprintln(r.out, r.theme.Dim.Render("No history yet."))
		return
	}
	for _, e := range entries {
		marker := r.theme.Success.Render("+")
		if e.ExitCode != 0 {
			marker = r.theme.Danger.Render("-")
		}
		fmt.Fprintf(r.out, "%s %s\n", marker, e.NaturalLanguage)
		fmt.Fprintf(r.out, "  %s %s\n", r.theme.Secondary.Render(e.ShellCommand),
			r.theme.Dim.Render(e.Timestamp.Local().Format("2006-01-02 15:04")))
	}
}

// Suggestions prints request/command pairs.
func (r *Renderer) Suggestions(entries []domain.KnowledgeEntry) {
	if len(entries) == 0 {
		fmt.Fprintln(r.out, r.theme.Dim.Render("The spirits are quiet."))
		return
	}
	fmt.Fprintln(r.out, r.theme.Secondary.Render("The spirits suggest:"))
	for _, e := range entries {
		fmt.Fprintf(r.out, "  %s  %s\n", e.NaturalLanguage, r.theme.Dim.Render(e.ShellCommand))
	}
}

// Aliases prints the alias table.
func (r *Renderer) Aliases(aliases []domain.Alias) {
	if len(aliases) == 0 {
		fmt.Fprintln(r.out, r.theme.Dim.Render("No aliases defined."))
		return
	}
	for _, a := range aliases {
		fmt.Fprintf(r.out, "  %s = %s\n", r.theme.Accent.Render(a.Name), a.Command)
	}
}

// Rituals prints the ritual listing.
func (r *Renderer) Rituals(rituals []domain.Ritual) {
	if len(rituals) == 0 {
		fmt.Fprintln(r.out, r.theme.Dim.Render("No rituals recorded. 'ritual create <name>' starts one."))
		return
	}
	for _, rit := range rituals {
		fmt.Fprintf(r.out, "  %s", r.theme.Accent.Render(rit.Name))
		if rit.Description != "" {
			fmt.Fprintf(r.out, "  %s", r.theme.Dim.Render(rit.Description))
		}
		fmt.Fprintln(r.out)
	}
}

// RitualDetail prints a ritual header and the commands a run would execute,
// in order.
func (r *Renderer) RitualDetail(rit *domain.Ritual, commands []string) {
	fmt.Fprintln(r.out, r.theme.Accent.Render(rit.Name))
	if rit.Description != "" {
		fmt.Fprintln(r.out, r.theme.Dim.Render(rit.Description))
	}
	for i, cmd := range commands {
		fmt.Fprintf(r.out, "  %d. %s\n", i+1, cmd)
	}
}

// RitualStep prints one step transition during a run.
func (r *Renderer) RitualStep(index int, step domain.RitualStep) {
	switch step.Status {
	case domain.StepRunning:
		fmt.Fprintf(r.out, "%s %s\n", r.theme.Secondary.Render(fmt.Sprintf("[%d]", index+1)), step.Command)
	case domain.StepSuccess:
		fmt.Fprintf(r.out, "    %s\n", r.theme.Success.Render("done ("+step.ExecutionTime.Round(time.Millisecond).String()+")"))
	case domain.StepFailed:
		fmt.Fprintf(r.out, "%s %s\n", r.theme.Danger.Render("   failed:"), strings.TrimRight(step.Error, "\n"))
	}
}

// RitualOutcome prints the run summary.
func (r *Renderer) RitualOutcome(run domain.RitualRun) {
	if run.Success {
		fmt.Fprintln(r.out, r.theme.Success.Render("Ritual complete."))
		return
	}
	fmt.Fprintln(r.out, r.theme.Danger.Render(
		fmt.Sprintf("Ritual halted at step %d.", run.CurrentStep+1)))
}

// Knowledge prints the knowledge-base entries.
func (r *Renderer) Knowledge(entries []domain.KnowledgeEntry, path string) {
	fmt.Fprintln(r.out, r.theme.Dim.Render(path))
	if len(entries) == 0 {
		fmt.Fprintln(r.out, r.theme.Dim.Render("No entries yet."))
		return
	}
	for _, e := range entries {
		fmt.Fprintf(r.out, "  %s %s %s\n", e.NaturalLanguage, r.theme.Dim.Render("->"), e.ShellCommand)
	}
}

// Help prints the builtin reference.
func (r *Renderer) Help() {
	sections := []struct{ cmd, desc string }{
		{"<anything else>", "interpreted as a natural-language request"},
		{"retry | r", "reinterpret the last request, avoiding the rejected command"},
		{"explain [command]", "plain-English description of a command (default: last)"},
		{"suggest [text]", "ask the spirits for likely commands"},
		{"history", "recent executed commands"},
		{"knowledge [add <nl> -> <cmd>]", "list or extend the curated mappings"},
		{"blacklist add <pattern>", "forbid a pattern in generated commands"},
		{"alias [name=command]", "list or define aliases"},
		{"unalias <name>", "remove an alias"},
		{"ritual [list|show|run|create|delete]", "manage multi-step rituals; run asks before continuing past a failure"},
		{"perform <name>", "run a ritual, halting at the first failure"},
		{"config get|set <key> [value]", "inspect or change configuration"},
		{"system", "session and environment details"},
		{"clear", "clear the screen"},
		{"exit | quit", "end the session"},
	}
	for _, s := range sections {
		fmt.Fprintf(r.out, "  %s\n      %s\n", r.theme.Accent.Render(s.cmd), r.theme.Dim.Render(s.desc))
	}
}

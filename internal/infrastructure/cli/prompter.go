package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/seancedev/seance/internal/domain"
	"github.com/seancedev/seance/internal/ports"
)

// Prompter implements ConfirmationPrompter using stdin/stdout. Its output
// depends on the risk tier: safe commands default to yes, moderate ones
// default to no, and destructive ones require typing the exact literal.
type Prompter struct {
	read  func() (string, error)
	out   io.Writer
	theme Theme
}

// NewPrompter constructs a prompter referencing stdio.
func NewPrompter(in io.Reader, out io.Writer, theme Theme) *Prompter {
	if in == nil {
		in = os.Stdin
	}
	if out == nil {
		out = os.Stdout
	}
	r := bufio.NewReader(in)
	return &Prompter{
		read: func() (string, error) {
			line, err := r.ReadString('\n')
			if err != nil && line == "" {
				return "", err
			}
			return line, nil
		},
		out:   out,
		theme: theme,
	}
}

// SetLineReader routes confirmation reads through an existing line editor.
// The session installs its readline instance here so Ctrl-C during a
// confirmation surfaces as an error instead of a process-killing signal;
// Confirm treats any read error as a decline.
func (p *Prompter) SetLineReader(read func() (string, error)) {
	p.read = read
}

// Confirm asks for approval of command at the given risk tier. Any read
// failure (EOF, interrupt) declines: refusing to run is always the safe
// answer. A retry keyword at any tier asks for a fresh interpretation.
func (p *Prompter) Confirm(command string, risk domain.RiskLevel) domain.ConfirmOutcome {
	fmt.Fprintf(p.out, "\n%s\n", p.theme.Command.Render(command))

	switch risk {
	case domain.RiskDestructive:
		fmt.Fprintf(p.out, "%s\n", p.theme.Danger.Render("DESTRUCTIVE command."))
		fmt.Fprintf(p.out, "Type %s to run, %s for another interpretation, anything else to cancel: ",
			domain.DestructiveConfirmLiteral, "'retry'")
		line, err := p.readLine()
		if err != nil {
			return domain.ConfirmNo
		}
		switch {
		case line == domain.DestructiveConfirmLiteral:
			return domain.ConfirmYes
		case isRetry(line):
			return domain.ConfirmRetry
		default:
			return domain.ConfirmNo
		}

	case domain.RiskModerate:
		fmt.Fprintf(p.out, "%s\n", p.theme.Warning.Render("This command modifies your system."))
		fmt.Fprint(p.out, "Run it? [y/N/retry]: ")
		line, err := p.readLine()
		if err != nil {
			return domain.ConfirmNo
		}
		switch {
		case strings.EqualFold(line, "y") || strings.EqualFold(line, "yes"):
			return domain.ConfirmYes
		case isRetry(line):
			return domain.ConfirmRetry
		default:
			return domain.ConfirmNo
		}

	default:
		fmt.Fprint(p.out, "Run it? [Y/n/retry]: ")
		line, err := p.readLine()
		if err != nil {
			return domain.ConfirmNo
		}
		switch {
		case line == "" || strings.EqualFold(line, "y") || strings.EqualFold(line, "yes"):
			return domain.ConfirmYes
		case isRetry(line):
			return domain.ConfirmRetry
		default:
			return domain.ConfirmNo
		}
	}
}

func (p *Prompter) readLine() (string, error) {
	line, err := p.read()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func isRetry(line string) bool {
	return strings.EqualFold(line, "retry") || strings.EqualFold(line, "r")
}

var _ ports.ConfirmationPrompter = (*Prompter)(nil)

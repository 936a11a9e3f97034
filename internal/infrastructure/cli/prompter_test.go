package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/chzyer/readline"

	"github.com/seancedev/seance/internal/domain"
)

func confirm(t *testing.T, input string, risk domain.RiskLevel) domain.ConfirmOutcome {
	t.Helper()
	var out bytes.Buffer
	p := NewPrompter(strings.NewReader(input), &out, NewTheme(domain.ThemeConfig{}))
	return p.Confirm("some command", risk)
}

func TestConfirmSafeDefaultsYes(t *testing.T) {
	cases := []struct {
		input string
		want  domain.ConfirmOutcome
	}{
		{"\n", domain.ConfirmYes},
		{"y\n", domain.ConfirmYes},
		{"YES\n", domain.ConfirmYes},
		{"n\n", domain.ConfirmNo},
		{"retry\n", domain.ConfirmRetry},
		{"r\n", domain.ConfirmRetry},
	}
	for _, tc := range cases {
		if got := confirm(t, tc.input, domain.RiskSafe); got != tc.want {
			t.Errorf("safe input %q = %q, want %q", tc.input, got, tc.want)
		}
	}
}

func TestConfirmModerateDefaultsNo(t *testing.T) {
	cases := []struct {
		input string
		want  domain.ConfirmOutcome
	}{
		{"\n", domain.ConfirmNo},
		{"y\n", domain.ConfirmYes},
		{"yes\n", domain.ConfirmYes},
		{"whatever\n", domain.ConfirmNo},
		{"retry\n", domain.ConfirmRetry},
	}
	for _, tc := range cases {
		if got := confirm(t, tc.input, domain.RiskModerate); got != tc.want {
			t.Errorf("moderate input %q = %q, want %q", tc.input, got, tc.want)
		}
	}
}

func TestConfirmDestructiveRequiresLiteral(t *testing.T) {
	cases := []struct {
		input string
		want  domain.ConfirmOutcome
	}{
		{"EXECUTE\n", domain.ConfirmYes},
		{"execute\n", domain.ConfirmNo},
		{"y\n", domain.ConfirmNo},
		{"yes\n", domain.ConfirmNo},
		{"\n", domain.ConfirmNo},
		{"retry\n", domain.ConfirmRetry},
		{"R\n", domain.ConfirmRetry},
	}
	for _, tc := range cases {
		if got := confirm(t, tc.input, domain.RiskDestructive); got != tc.want {
			t.Errorf("destructive input %q = %q, want %q", tc.input, got, tc.want)
		}
	}
}

func TestConfirmEOFDeclines(t *testing.T) {
	for _, risk := range []domain.RiskLevel{domain.RiskSafe, domain.RiskModerate, domain.RiskDestructive} {
		if got := confirm(t, "", risk); got != domain.ConfirmNo {
			t.Errorf("EOF at %q = %q, want no", risk, got)
		}
	}
}

func TestConfirmInterruptDeclines(t *testing.T) {
	for _, risk := range []domain.RiskLevel{domain.RiskSafe, domain.RiskModerate, domain.RiskDestructive} {
		var out bytes.Buffer
		p := NewPrompter(strings.NewReader("y\n"), &out, NewTheme(domain.ThemeConfig{}))
		p.SetLineReader(func() (string, error) {
			return "", readline.ErrInterrupt
		})
		if got := p.Confirm("rm -rf build", risk); got != domain.ConfirmNo {
			t.Errorf("interrupt at %q = %q, want no", risk, got)
		}
	}
}

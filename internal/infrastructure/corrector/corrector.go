// Package corrector repairs near-miss filesystem paths in candidate
// commands before they reach validation.
package corrector

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/agnivade/levenshtein"
	shellwords "github.com/mattn/go-shellwords"

	"github.com/seancedev/seance/internal/domain"
	"github.com/seancedev/seance/internal/ports"
)

// Corrector rewrites argument tokens to existing directory entries when a
// close match exists. It is conservative: anything it cannot confidently
// improve passes through untouched.
type Corrector struct {
	cutoff float64
}

// New builds a Corrector from the corrector configuration.
func New(cfg domain.CorrectorConfig) *Corrector {
	return &Corrector{cutoff: cfg.Threshold()}
}

// Correct returns the command with near-miss path arguments replaced by the
// closest entry in workingDir. Commands with pipes, redirects, or chains are
// left alone; so are commands the tokenizer cannot parse. Correct is
// idempotent: a token matching a directory entry verbatim is never touched.
// A token that exists only through filesystem case folding is rewritten to
// the entry's real casing.
func (c *Corrector) Correct(command, workingDir string) string {
	if strings.ContainsAny(command, "|>") || strings.Contains(command, "&&") {
		return command
	}
	tokens, err := shellwords.Parse(command)
	if err != nil || len(tokens) < 2 {
		return command
	}

	entries, err := os.ReadDir(workingDir)
	if err != nil {
		return command
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}

	changed := false
	for i := 1; i < len(tokens); i++ {
		tok := tokens[i]
		if tok == "" || strings.HasPrefix(tok, "-") || strings.HasPrefix(tok, "$") {
			continue
		}
		if fixed, ok := c.fixToken(tok, exists(workingDir, tok), names); ok {
			tokens[i] = fixed
			changed = true
		}
	}
	if !changed {
		return command
	}
	return join(tokens)
}

// fixToken decides the replacement for one argument token. A path that
// exists is kept verbatim unless a differently-cased directory entry matches
// it exactly, as on case-insensitive filesystems where stat succeeds but the
// spelling is wrong. A path that does not exist takes the closest entry at
// or above the cutoff.
func (c *Corrector) fixToken(tok string, present bool, names []string) (string, bool) {
	if present {
		return caseExact(tok, names)
	}
	return c.closest(tok, names)
}

// caseExact finds the entry tok matches up to case, and only up to case: a
// verbatim match means the token is already right.
func caseExact(tok string, names []string) (string, bool) {
	for _, name := range names {
		if name == tok {
			return "", false
		}
	}
	for _, name := range names {
		if strings.EqualFold(name, tok) {
			return name, true
		}
	}
	return "", false
}

// closest picks a case-insensitive exact match first, then the best fuzzy
// match at or above the cutoff.
func (c *Corrector) closest(tok string, names []string) (string, bool) {
	lower := strings.ToLower(tok)
	for _, name := range names {
		if strings.ToLower(name) == lower {
			return name, true
		}
	}

	best := ""
	bestScore := 0.0
	for _, name := range names {
		score := similarity(lower, strings.ToLower(name))
		if score > bestScore {
			best, bestScore = name, score
		}
	}
	if bestScore >= c.cutoff {
		return best, true
	}
	return "", false
}

func similarity(a, b string) float64 {
	if a == b {
		return 1
	}
	longest := len([]rune(a))
	if n := len([]rune(b)); n > longest {
		longest = n
	}
	if longest == 0 {
		return 0
	}
	return 1 - float64(levenshtein.ComputeDistance(a, b))/float64(longest)
}

func exists(dir, tok string) bool {
	p := tok
	if !filepath.IsAbs(p) {
		p = filepath.Join(dir, p)
	}
	_, err := os.Stat(p)
	return err == nil
}

// join reassembles tokens, quoting any that carry whitespace.
func join(tokens []string) string {
	out := make([]string, len(tokens))
	for i, tok := range tokens {
		if strings.ContainsAny(tok, " \t") {
			out[i] = "'" + strings.ReplaceAll(tok, "'", `'\''`) + "'"
		} else {
			out[i] = tok
		}
	}
	return strings.Join(out, " ")
}

var _ ports.PathCorrector = (*Corrector)(nil)

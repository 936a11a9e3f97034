// Package knowledge manages the user-curated mapping file and the pattern
// blacklist. Both are plain text so users can edit them in any editor.
package knowledge

import (
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/seancedev/seance/assets"
	"github.com/seancedev/seance/internal/domain"
	"github.com/seancedev/seance/internal/ports"
)

// Base is a line-oriented file of "natural language -> command" mappings.
// The file is re-read on every access so out-of-band edits take effect
// without restarting.
type Base struct {
	path string
	mu   sync.Mutex
}

// NewBase opens the knowledge file at path, seeding it from the embedded
// default when missing.
func NewBase(path string) (*Base, error) {
	if err := seed(path, assets.DefaultKnowledge); err != nil {
		return nil, fmt.Errorf("knowledge base: %w", err)
	}
	return &Base{path: path}, nil
}

// Path returns the backing file location.
func (b *Base) Path() string { return b.path }

// Entries parses every mapping in the file. Malformed lines are skipped.
func (b *Base) Entries() []domain.KnowledgeEntry {
	b.mu.Lock()
	defer b.mu.Unlock()

	var entries []domain.KnowledgeEntry
	for _, line := range readLines(b.path) {
		nl, cmd, ok := strings.Cut(line, "->")
		if !ok {
			continue
		}
		nl, cmd = strings.TrimSpace(nl), strings.TrimSpace(cmd)
		if nl == "" || cmd == "" {
			continue
		}
		entries = append(entries, domain.KnowledgeEntry{NaturalLanguage: nl, ShellCommand: cmd})
	}
	return entries
}

// Search returns up to limit entries whose description contains the query
// or shares a word with it. Knowledge matches feed the interpreter prompt
// ahead of learned history.
func (b *Base) Search(query string, limit int) []domain.KnowledgeEntry {
	if limit <= 0 {
		limit = 3
	}
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return nil
	}
	queryWords := fieldSet(q)

	var matches []domain.KnowledgeEntry
	for _, e := range b.Entries() {
		nl := strings.ToLower(e.NaturalLanguage)
		if strings.Contains(nl, q) || overlaps(fieldSet(nl), queryWords) {
			matches = append(matches, e)
			if len(matches) == limit {
				break
			}
		}
	}
	return matches
}

// Add appends a mapping to the file.
func (b *Base) Add(nl, cmd string) error {
	nl, cmd = strings.TrimSpace(nl), strings.TrimSpace(cmd)
	if nl == "" || cmd == "" {
		return fmt.Errorf("knowledge entry needs both a description and a command")
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	return appendLine(b.path, fmt.Sprintf("%s -> %s", nl, cmd))
}

func seed(path string, defaults []byte) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	}
	return os.WriteFile(path, defaults, domain.FilePermissions)
}

func readLines(path string) []string {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil
	}
	var lines []string
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		lines = append(lines, line)
	}
	return lines
}

func appendLine(path, line string) error {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, domain.FilePermissions)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = fmt.Fprintln(f, line)
	return err
}

// fieldSet keeps only words long enough to be discriminating; articles and
// prepositions would otherwise match everything.
func fieldSet(s string) map[string]bool {
	set := make(map[string]bool)
	for _, w := range strings.Fields(s) {
		if len(w) > 3 {
			set[w] = true
		}
	}
	return set
}

func overlaps(a, b map[string]bool) bool {
	for w := range a {
		if b[w] {
			return true
		}
	}
	return false
}

var _ ports.KnowledgeBase = (*Base)(nil)

package knowledge

import (
	"fmt"
	"strings"
	"sync"

	"github.com/seancedev/seance/assets"
	"github.com/seancedev/seance/internal/ports"
)

// BlacklistFile is a line-oriented file of patterns the interpreter is told
// never to reproduce. Advisory: enforcement happens in the prompt, and the
// risk classifier still guards whatever comes back.
type BlacklistFile struct {
	path string
	mu   sync.Mutex
}

// NewBlacklist opens the blacklist at path, seeding it from the embedded
// default when missing.
func NewBlacklist(path string) (*BlacklistFile, error) {
	if err := seed(path, assets.DefaultBlacklist); err != nil {
		return nil, fmt.Errorf("blacklist: %w", err)
	}
	return &BlacklistFile{path: path}, nil
}

// Path returns the backing file location.
func (b *BlacklistFile) Path() string { return b.path }

// Patterns returns every non-comment line.
func (b *BlacklistFile) Patterns() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return readLines(b.path)
}

// Add appends a pattern to the file.
func (b *BlacklistFile) Add(pattern string) error {
	pattern = strings.TrimSpace(pattern)
	if pattern == "" {
		return fmt.Errorf("blacklist pattern must not be empty")
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	return appendLine(b.path, pattern)
}

var _ ports.Blacklist = (*BlacklistFile)(nil)

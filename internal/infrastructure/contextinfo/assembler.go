// Package contextinfo inspects the working directory for project signals
// that ground the interpreter's prompt in the user's surroundings.
package contextinfo

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/seancedev/seance/internal/domain"
	"github.com/seancedev/seance/internal/ports"
)

// indicator maps marker files to a project label. First match per label wins.
type indicator struct {
	label   string
	markers []string
}

var indicators = []indicator{
	{"git repository", []string{".git"}},
	{"Go project", []string{"go.mod"}},
	{"Python project", []string{"requirements.txt", "setup.py", "pyproject.toml"}},
	{"Node.js project", []string{"package.json"}},
	{"Rust project", []string{"Cargo.toml"}},
	{"Docker project", []string{"Dockerfile", "docker-compose.yml", "docker-compose.yaml"}},
	{"Makefile present", []string{"Makefile", "makefile"}},
}

// Assembler produces a one-paragraph description of a directory. It holds no
// state beyond its listing bound.
type Assembler struct {
	maxFiles int
}

// New builds an Assembler from the context configuration.
func New(cfg domain.ContextConfig) *Assembler {
	return &Assembler{maxFiles: cfg.Limit()}
}

// Describe reports the directory path, detected project kinds, and a bounded
// listing of visible entries. It never fails: unreadable directories degrade
// to a path-only description.
func (a *Assembler) Describe(dir string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Current directory: %s", dir)

	entries, err := os.ReadDir(dir)
	if err != nil {
		return b.String()
	}

	names := make(map[string]bool, len(entries))
	var visible []string
	for _, e := range entries {
		names[e.Name()] = true
		if strings.HasPrefix(e.Name(), ".") {
			continue
		}
		visible = append(visible, e.Name())
	}
	sort.Strings(visible)

	var labels []string
	for _, ind := range indicators {
		for _, m := range ind.markers {
			if names[m] {
				labels = append(labels, ind.label)
				break
			}
		}
	}
	if len(labels) > 0 {
		fmt.Fprintf(&b, " (%s)", strings.Join(labels, ", "))
	}

	if len(visible) == 0 {
		b.WriteString("\nDirectory is empty.")
		return b.String()
	}

	shown := visible
	overflow := 0
	if len(shown) > a.maxFiles {
		overflow = len(shown) - a.maxFiles
		shown = shown[:a.maxFiles]
	}
	fmt.Fprintf(&b, "\nFiles: %s", strings.Join(shown, ", "))
	if overflow > 0 {
		fmt.Fprintf(&b, " ... (%d more)", overflow)
	}
	return b.String()
}

var _ ports.ContextAssembler = (*Assembler)(nil)

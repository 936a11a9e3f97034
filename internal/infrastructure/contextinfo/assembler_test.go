package contextinfo

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/seancedev/seance/internal/domain"
)

func touch(t *testing.T, dir, name string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), nil, 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
}

func TestDescribeDetectsProjectKinds(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "go.mod")
	touch(t, dir, "main.go")
	touch(t, dir, "Dockerfile")
	if err := os.Mkdir(filepath.Join(dir, ".git"), 0o755); err != nil {
		t.Fatalf("mkdir .git: %v", err)
	}

	a := New(domain.ContextConfig{})
	desc := a.Describe(dir)

	for _, want := range []string{"git repository", "Go project", "Docker project", "main.go"} {
		if !strings.Contains(desc, want) {
			t.Fatalf("description missing %q:\n%s", want, desc)
		}
	}
	if strings.Contains(desc, ".git") {
		t.Fatalf("hidden entries must not appear in the listing:\n%s", desc)
	}
}

func TestDescribeBoundsListing(t *testing.T) {
	dir := t.TempDir()
	for i := 0; i < 8; i++ {
		touch(t, dir, fmt.Sprintf("file%02d.txt", i))
	}

	a := New(domain.ContextConfig{MaxFiles: 5})
	desc := a.Describe(dir)

	if !strings.Contains(desc, "... (3 more)") {
		t.Fatalf("expected overflow marker:\n%s", desc)
	}
	if strings.Contains(desc, "file07.txt") {
		t.Fatalf("entries past the bound must be elided:\n%s", desc)
	}
}

func TestDescribeEmptyDirectory(t *testing.T) {
	dir := t.TempDir()
	a := New(domain.ContextConfig{})
	desc := a.Describe(dir)
	if !strings.Contains(desc, "Directory is empty.") {
		t.Fatalf("expected empty marker:\n%s", desc)
	}
}

func TestDescribeUnreadableDirectory(t *testing.T) {
	a := New(domain.ContextConfig{})
	desc := a.Describe("/definitely/not/a/real/path")
	if !strings.HasPrefix(desc, "Current directory: /definitely/not/a/real/path") {
		t.Fatalf("expected path-only fallback, got:\n%s", desc)
	}
}

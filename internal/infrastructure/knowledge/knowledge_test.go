package knowledge

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func newTestBase(t *testing.T, content string) *Base {
	t.Helper()
	path := filepath.Join(t.TempDir(), "knowledge.txt")
	if content != "" {
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatalf("write: %v", err)
		}
	}
	b, err := NewBase(path)
	if err != nil {
		t.Fatalf("NewBase error: %v", err)
	}
	return b
}

func TestNewBaseSeedsDefaults(t *testing.T) {
	b := newTestBase(t, "")
	if _, err := os.Stat(b.Path()); err != nil {
		t.Fatalf("seeded file missing: %v", err)
	}
	if len(b.Entries()) == 0 {
		t.Fatalf("expected seeded entries")
	}
}

func TestEntriesSkipsCommentsAndMalformed(t *testing.T) {
	b := newTestBase(t, `# comment
show time -> date
not a mapping
-> missing description

deploy it -> make deploy
`)
	entries := b.Entries()
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d: %+v", len(entries), entries)
	}
	if entries[0].ShellCommand != "date" || entries[1].ShellCommand != "make deploy" {
		t.Fatalf("unexpected entries %+v", entries)
	}
}

func TestSearch(t *testing.T) {
	b := newTestBase(t, `show the time -> date
go to projects -> cd ~/Projects
count words -> wc -w
`)

	if got := b.Search("projects", 3); len(got) != 1 || got[0].ShellCommand != "cd ~/Projects" {
		t.Fatalf("substring search failed: %+v", got)
	}
	// Word overlap, not substring: "the current time" shares "time".
	if got := b.Search("the current time", 3); len(got) != 1 || got[0].ShellCommand != "date" {
		t.Fatalf("word overlap search failed: %+v", got)
	}
	if got := b.Search("reboot the server", 3); len(got) != 0 {
		t.Fatalf("expected no matches, got %+v", got)
	}
	if got := b.Search("", 3); got != nil {
		t.Fatalf("empty query must match nothing, got %+v", got)
	}
}

func TestSearchLimit(t *testing.T) {
	b := newTestBase(t, `list files -> ls
list files by size -> ls -S
list files by date -> ls -t
list files with details -> ls -la
`)
	if got := b.Search("list files", 3); len(got) != 3 {
		t.Fatalf("expected limit of 3, got %d", len(got))
	}
}

func TestAddRoundTrip(t *testing.T) {
	b := newTestBase(t, "# empty\n")

	if err := b.Add("backup notes", "rsync -av ~/notes ~/backup"); err != nil {
		t.Fatalf("Add error: %v", err)
	}
	if err := b.Add("", "ls"); err == nil {
		t.Fatalf("expected error for empty description")
	}

	entries := b.Entries()
	if len(entries) != 1 || entries[0].NaturalLanguage != "backup notes" {
		t.Fatalf("unexpected entries %+v", entries)
	}
}

func TestBlacklist(t *testing.T) {
	path := filepath.Join(t.TempDir(), "blacklist.txt")
	bl, err := NewBlacklist(path)
	if err != nil {
		t.Fatalf("NewBlacklist error: %v", err)
	}
	if err := bl.Add("rm -rf /"); err != nil {
		t.Fatalf("Add error: %v", err)
	}
	if err := bl.Add("  "); err == nil {
		t.Fatalf("expected error for blank pattern")
	}

	found := false
	for _, p := range bl.Patterns() {
		if strings.Contains(p, "rm -rf /") {
			found = true
		}
	}
	if !found {
		t.Fatalf("added pattern missing from %+v", bl.Patterns())
	}
}

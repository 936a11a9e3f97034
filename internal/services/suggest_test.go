package services

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/seancedev/seance/internal/domain"
	"github.com/seancedev/seance/internal/pkg/logger"
)

func newSuggestService(store *fakeStore, wd string) *SuggestService {
	return &SuggestService{
		Store:    store,
		Executor: &fakeExecutor{wd: wd},
		Logger:   logger.NewStd(false),
	}
}

func TestSuggestPrefixBeatsContainment(t *testing.T) {
	store := &fakeStore{suggestions: []domain.HistoryEntry{
		{NaturalLanguage: "show list of users", ShellCommand: "cat /etc/passwd"},
		{NaturalLanguage: "list all files", ShellCommand: "ls -la"},
	}}
	svc := newSuggestService(store, t.TempDir())

	got := svc.Suggest("list", 5)
	if len(got) != 2 {
		t.Fatalf("expected 2 suggestions, got %d: %+v", len(got), got)
	}
	if got[0].ShellCommand != "ls -la" {
		t.Fatalf("prefix match must rank first: %+v", got)
	}
}

func TestSuggestDeduplicatesCommands(t *testing.T) {
	store := &fakeStore{suggestions: []domain.HistoryEntry{
		{NaturalLanguage: "list files", ShellCommand: "ls -la"},
		{NaturalLanguage: "list everything", ShellCommand: "ls -la"},
	}}
	svc := newSuggestService(store, t.TempDir())

	got := svc.Suggest("list", 5)
	if len(got) != 1 {
		t.Fatalf("expected deduplication, got %+v", got)
	}
}

func TestSuggestKeywordFallback(t *testing.T) {
	svc := newSuggestService(&fakeStore{}, t.TempDir())

	got := svc.Suggest("find my notes", 5)
	if len(got) != 1 || got[0].ShellCommand != "find . -name '*pattern*'" {
		t.Fatalf("expected find fallback, got %+v", got)
	}
}

func TestSuggestGitFallbackFollowsClock(t *testing.T) {
	svc := newSuggestService(&fakeStore{}, t.TempDir())

	cases := []struct {
		hour int
		want string
	}{
		{9, "git pull"},
		{18, "git push"},
		{14, "git status"},
	}
	for _, tc := range cases {
		svc.Now = func() time.Time {
			return time.Date(2026, 8, 30, tc.hour, 0, 0, 0, time.UTC)
		}
		got := svc.Suggest("git things", 5)
		if len(got) != 1 || got[0].ShellCommand != tc.want {
			t.Fatalf("hour %d: expected %s fallback, got %+v", tc.hour, tc.want, got)
		}
	}
}

func TestSuggestEmptyInputUsesGitContext(t *testing.T) {
	dir := t.TempDir()
	if err := os.Mkdir(filepath.Join(dir, ".git"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	store := &fakeStore{suggestions: []domain.HistoryEntry{
		{NaturalLanguage: "list files", ShellCommand: "ls -la"},
	}}
	svc := newSuggestService(store, dir)
	svc.Now = func() time.Time {
		return time.Date(2026, 8, 30, 9, 0, 0, 0, time.UTC)
	}

	got := svc.Suggest("", 5)
	if len(got) < 2 {
		t.Fatalf("expected git suggestion plus history, got %+v", got)
	}
	if got[0].ShellCommand != "git pull" {
		t.Fatalf("morning in a git repo should suggest git pull, got %+v", got)
	}

	svc.Now = func() time.Time {
		return time.Date(2026, 8, 30, 18, 0, 0, 0, time.UTC)
	}
	got = svc.Suggest("", 5)
	if got[0].ShellCommand != "git push" {
		t.Fatalf("evening in a git repo should suggest git push, got %+v", got)
	}

	svc.Now = func() time.Time {
		return time.Date(2026, 8, 30, 14, 0, 0, 0, time.UTC)
	}
	got = svc.Suggest("", 5)
	if got[0].ShellCommand != "git status" {
		t.Fatalf("midday in a git repo should suggest git status, got %+v", got)
	}
}

func TestSuggestHonorsLimit(t *testing.T) {
	store := &fakeStore{suggestions: []domain.HistoryEntry{
		{NaturalLanguage: "list a", ShellCommand: "ls a"},
		{NaturalLanguage: "list b", ShellCommand: "ls b"},
		{NaturalLanguage: "list c", ShellCommand: "ls c"},
	}}
	svc := newSuggestService(store, t.TempDir())

	if got := svc.Suggest("list", 2); len(got) != 2 {
		t.Fatalf("expected 2 suggestions, got %d", len(got))
	}
}

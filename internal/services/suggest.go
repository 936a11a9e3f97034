package services

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/seancedev/seance/internal/domain"
	"github.com/seancedev/seance/internal/ports"
)

const recentWindow = 50

// SuggestService surfaces likely next requests from learned history and the
// surrounding directory.
type SuggestService struct {
	Store    ports.LearningStore
	Executor ports.CommandExecutor
	Logger   ports.Logger

	// now is swappable for tests; nil means time.Now.
	Now func() time.Time
}

// fallbackSuggestions cover a cold start with no matching history.
var fallbackSuggestions = []struct {
	keyword string
	entry   domain.KnowledgeEntry
}{
	{"find", domain.KnowledgeEntry{NaturalLanguage: "find files by name", ShellCommand: "find . -name '*pattern*'"}},
	{"list", domain.KnowledgeEntry{NaturalLanguage: "list all files with details", ShellCommand: "ls -la"}},
	{"show", domain.KnowledgeEntry{NaturalLanguage: "show disk usage", ShellCommand: "df -h"}},
	{"git", domain.KnowledgeEntry{}}, // resolved by the clock, see timedGit
	{"open", domain.KnowledgeEntry{NaturalLanguage: "open the current directory", ShellCommand: "xdg-open ."}},
	{"search", domain.KnowledgeEntry{NaturalLanguage: "search for text in files", ShellCommand: "grep -rn PATTERN ."}},
	{"create", domain.KnowledgeEntry{NaturalLanguage: "create a directory", ShellCommand: "mkdir NAME"}},
	{"delete", domain.KnowledgeEntry{NaturalLanguage: "delete a file", ShellCommand: "rm FILE"}},
	{"copy", domain.KnowledgeEntry{NaturalLanguage: "copy a file", ShellCommand: "cp SRC DST"}},
	{"move", domain.KnowledgeEntry{NaturalLanguage: "move a file", ShellCommand: "mv SRC DST"}},
}

// Suggest returns up to limit request/command pairs relevant to partial.
// Prefix matches over recent history rank above containment matches; when
// history offers nothing, the keyword table and directory signals fill in.
func (s *SuggestService) Suggest(partial string, limit int) []domain.KnowledgeEntry {
	if limit <= 0 {
		limit = 5
	}
	q := strings.ToLower(strings.TrimSpace(partial))

	recent, err := s.Store.RecentCommands(recentWindow)
	if err != nil {
		s.Logger.Warn("recent history unavailable", map[string]interface{}{"error": err.Error()})
		recent = nil
	}

	var out []domain.KnowledgeEntry
	seen := make(map[string]bool)
	add := func(e domain.KnowledgeEntry) bool {
		if seen[e.ShellCommand] {
			return len(out) < limit
		}
		seen[e.ShellCommand] = true
		out = append(out, e)
		return len(out) < limit
	}

	if q != "" {
		for _, h := range recent {
			if strings.HasPrefix(strings.ToLower(h.NaturalLanguage), q) {
				if !add(entryOf(h)) {
					return out
				}
			}
		}
		for _, h := range recent {
			if strings.Contains(strings.ToLower(h.NaturalLanguage), q) {
				if !add(entryOf(h)) {
					return out
				}
			}
		}
		for _, f := range fallbackSuggestions {
			if !strings.Contains(q, f.keyword) {
				continue
			}
			e := f.entry
			if f.keyword == "git" {
				e = s.timedGit()
			}
			if !add(e) {
				return out
			}
		}
		return out
	}

	// No input: lean on the surroundings.
	if g, ok := s.gitSuggestion(); ok {
		if !add(g) {
			return out
		}
	}
	for _, h := range recent {
		if !add(entryOf(h)) {
			return out
		}
	}
	return out
}

// gitSuggestion proposes a git command when the working directory is a
// repository. The command itself comes from the clock.
func (s *SuggestService) gitSuggestion() (domain.KnowledgeEntry, bool) {
	if _, err := os.Stat(filepath.Join(s.Executor.WorkingDirectory(), ".git")); err != nil {
		return domain.KnowledgeEntry{}, false
	}
	return s.timedGit(), true
}

// timedGit picks the git command that fits the time of day: pull when
// starting out in the morning, push at the end of the day, status in
// between.
func (s *SuggestService) timedGit() domain.KnowledgeEntry {
	now := time.Now
	if s.Now != nil {
		now = s.Now
	}
	switch h := now().Hour(); {
	case h >= 6 && h < 12:
		return domain.KnowledgeEntry{NaturalLanguage: "pull the latest changes", ShellCommand: "git pull"}
	case h >= 17 && h < 23:
		return domain.KnowledgeEntry{NaturalLanguage: "push today's work", ShellCommand: "git push"}
	default:
		return domain.KnowledgeEntry{NaturalLanguage: "show repository status", ShellCommand: "git status"}
	}
}

func entryOf(h domain.HistoryEntry) domain.KnowledgeEntry {
	return domain.KnowledgeEntry{NaturalLanguage: h.NaturalLanguage, ShellCommand: h.ShellCommand}
}

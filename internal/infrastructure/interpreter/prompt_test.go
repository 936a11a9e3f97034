package interpreter

import (
	"strings"
	"testing"

	"github.com/seancedev/seance/internal/domain"
	"github.com/seancedev/seance/internal/ports"
)

func TestBuildPromptDomainBlocksAreAdditive(t *testing.T) {
	p := buildPrompt(ports.InterpretRequest{Input: "search for text in files"})
	if !strings.Contains(p, "File operations:") {
		t.Fatalf("file block missing:\n%s", p)
	}
	if !strings.Contains(p, "Text operations:") {
		t.Fatalf("text block missing:\n%s", p)
	}

	p = buildPrompt(ports.InterpretRequest{Input: "what is my ip"})
	if !strings.Contains(p, "Network operations:") {
		t.Fatalf("network block missing:\n%s", p)
	}
	if strings.Contains(p, "File operations:") {
		t.Fatalf("unmatched domain block leaked:\n%s", p)
	}
}

func TestBuildPromptCapsExamplesAndRejections(t *testing.T) {
	req := ports.InterpretRequest{
		Input: "list files",
		Examples: []domain.KnowledgeEntry{
			{NaturalLanguage: "a", ShellCommand: "cmd-a"},
			{NaturalLanguage: "b", ShellCommand: "cmd-b"},
			{NaturalLanguage: "c", ShellCommand: "cmd-c"},
			{NaturalLanguage: "d", ShellCommand: "cmd-d"},
		},
		Rejections: []string{"rej-1", "rej-2", "rej-3", "rej-4"},
	}
	p := buildPrompt(req)

	if strings.Contains(p, "cmd-d") {
		t.Fatalf("fourth example must be dropped:\n%s", p)
	}
	if !strings.Contains(p, "cmd-c") {
		t.Fatalf("third example missing:\n%s", p)
	}
	if strings.Contains(p, "rej-4") {
		t.Fatalf("fourth rejection must be dropped:\n%s", p)
	}
}

func TestBuildPromptIncludesBlacklist(t *testing.T) {
	p := buildPrompt(ports.InterpretRequest{
		Input:     "clean target",
		Blacklist: []string{"rm -rf /"},
	})
	if !strings.Contains(p, "rm -rf /") {
		t.Fatalf("blacklist missing:\n%s", p)
	}
	if !strings.Contains(p, "Never include") {
		t.Fatalf("blacklist instruction missing:\n%s", p)
	}
}

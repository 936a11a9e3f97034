package interpreter

import (
	"fmt"
	"strings"

	"github.com/seancedev/seance/internal/ports"
)

const maxPromptExamples = 3

// systemRules anchor the model. The -mtime guidance exists because small
// models reliably invent date arithmetic for "files modified last week".
const systemRules = `You are a shell command generator. Convert the user's request into exactly one shell command.

Rules:
- Output ONLY the command, no explanation, no markdown, no code fences.
- Prefer simple, widely available commands.
- Use relative paths when the request refers to the current directory.
- For date-based file searches use find with -mtime (e.g. -mtime -7 for the last week).
- Never produce interactive commands that require further input.`

// domainExamples are appended additively: every keyword group the request
// overlaps contributes its block, so a request spanning files and text gets
// both.
var domainExamples = []struct {
	keywords []string
	block    string
}{
	{
		keywords: []string{"file", "files", "directory", "folder", "list", "find", "copy", "move", "create"},
		block: `File operations:
"list all files" -> ls -la
"find large files" -> find . -type f -size +100M
"create a directory called temp" -> mkdir temp`,
	},
	{
		keywords: []string{"process", "processes", "running", "cpu", "memory", "pid"},
		block: `Process operations:
"show running processes" -> ps aux
"what is using the most memory" -> ps aux --sort=-%mem | head -10`,
	},
	{
		keywords: []string{"network", "port", "ports", "connection", "ping", "download", "ip", "url"},
		block: `Network operations:
"show open ports" -> ss -tuln
"what is my ip address" -> hostname -I`,
	},
	{
		keywords: []string{"text", "grep", "search", "replace", "count", "lines", "word", "words"},
		block: `Text operations:
"count lines in main.go" -> wc -l main.go
"search for TODO in all files" -> grep -rn TODO .`,
	},
}

const generalExamples = `Examples:
"show disk usage" -> df -h
"what directory am i in" -> pwd
"show the last 20 lines of app.log" -> tail -n 20 app.log`

// buildPrompt assembles the full generation prompt: system rules, directory
// context, learned examples (knowledge entries already sorted first by the
// caller), rejections to avoid, blacklist patterns, and example blocks.
func buildPrompt(req ports.InterpretRequest) string {
	var b strings.Builder
	b.WriteString(systemRules)

	if req.Context != "" {
		b.WriteString("\n\nEnvironment:\n")
		b.WriteString(req.Context)
	}

	if len(req.Examples) > 0 {
		b.WriteString("\n\nKnown mappings (follow these when the request matches):\n")
		for i, ex := range req.Examples {
			if i == maxPromptExamples {
				break
			}
			fmt.Fprintf(&b, "%q -> %s\n", ex.NaturalLanguage, ex.ShellCommand)
		}
	}

	if len(req.Rejections) > 0 {
		b.WriteString("\nThe user rejected these commands for this request. Do NOT suggest them again:\n")
		for i, r := range req.Rejections {
			if i == maxPromptExamples {
				break
			}
			fmt.Fprintf(&b, "- %s\n", r)
		}
	}

	if len(req.Blacklist) > 0 {
		b.WriteString("\nNever include any of these patterns in the command:\n")
		for _, p := range req.Blacklist {
			fmt.Fprintf(&b, "- %s\n", p)
		}
	}

	b.WriteString("\n")
	b.WriteString(generalExamples)

	lowered := strings.ToLower(req.Input)
	words := make(map[string]bool)
	for _, w := range strings.Fields(lowered) {
		words[strings.Trim(w, ".,!?")] = true
	}
	for _, d := range domainExamples {
		for _, kw := range d.keywords {
			if words[kw] {
				b.WriteString("\n\n")
				b.WriteString(d.block)
				break
			}
		}
	}

	fmt.Fprintf(&b, "\n\nRequest: %s\nCommand:", req.Input)
	return b.String()
}

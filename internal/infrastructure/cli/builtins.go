package cli

import (
	"strings"
)

// BuiltinKind tags the REPL commands handled locally, without the
// interpreter.
type BuiltinKind int

const (
	BuiltinNone BuiltinKind = iota
	BuiltinHelp
	BuiltinExit
	BuiltinClear
	BuiltinHistory
	BuiltinRetry
	BuiltinExplain
	BuiltinSuggest
	BuiltinSystem
	BuiltinKnowledgeList
	BuiltinKnowledgeAdd
	BuiltinBlacklistAdd
	BuiltinAliasList
	BuiltinAliasSet
	BuiltinAliasRemove
	BuiltinRitualList
	BuiltinRitualShow
	BuiltinRitualCreate
	BuiltinRitualRun
	BuiltinRitualPerform
	BuiltinRitualDelete
	BuiltinConfigGet
	BuiltinConfigSet
)

// Builtin is one parsed REPL command.
type Builtin struct {
	Kind  BuiltinKind
	Name  string
	Value string
}

// ParseBuiltin recognizes REPL builtins. Anything it does not recognize is
// a natural-language request and goes to the interpreter, so unknown
// subcommands fall through rather than erroring.
func ParseBuiltin(line string) (Builtin, bool) {
	fields := strings.Fields(strings.TrimSpace(line))
	if len(fields) == 0 {
		return Builtin{}, false
	}

	head := strings.ToLower(fields[0])
	rest := fields[1:]

	switch head {
	case "help", "?":
		return Builtin{Kind: BuiltinHelp}, true
	case "exit", "quit":
		return Builtin{Kind: BuiltinExit}, true
	case "clear":
		return Builtin{Kind: BuiltinClear}, true
	case "history":
		return Builtin{Kind: BuiltinHistory}, true
	case "retry", "r":
		if len(rest) == 0 {
			return Builtin{Kind: BuiltinRetry}, true
		}
	case "system":
		return Builtin{Kind: BuiltinSystem}, true
	case "explain":
		return Builtin{Kind: BuiltinExplain, Value: strings.Join(rest, " ")}, true
	case "suggest":
		return Builtin{Kind: BuiltinSuggest, Value: strings.Join(rest, " ")}, true
	case "knowledge":
		if len(rest) == 0 {
			return Builtin{Kind: BuiltinKnowledgeList}, true
		}
		if strings.EqualFold(rest[0], "add") {
			nl, cmd, ok := splitMapping(strings.Join(rest[1:], " "))
			if ok {
				return Builtin{Kind: BuiltinKnowledgeAdd, Name: nl, Value: cmd}, true
			}
		}
	case "blacklist":
		if len(rest) > 0 && strings.EqualFold(rest[0], "add") {
			return Builtin{Kind: BuiltinBlacklistAdd, Value: strings.Join(rest[1:], " ")}, true
		}
	case "alias":
		if len(rest) == 0 {
			return Builtin{Kind: BuiltinAliasList}, true
		}
		if name, cmd, ok := strings.Cut(strings.Join(rest, " "), "="); ok {
			return Builtin{
				Kind:  BuiltinAliasSet,
				Name:  strings.TrimSpace(name),
				Value: strings.TrimSpace(cmd),
			}, true
		}
	case "unalias":
		if len(rest) == 1 {
			return Builtin{Kind: BuiltinAliasRemove, Name: rest[0]}, true
		}
	case "ritual":
		return parseRitual(rest)
	case "perform":
		if len(rest) == 1 {
			return Builtin{Kind: BuiltinRitualPerform, Name: rest[0]}, true
		}
	case "config":
		if len(rest) >= 2 && strings.EqualFold(rest[0], "get") {
			return Builtin{Kind: BuiltinConfigGet, Name: rest[1]}, true
		}
		if len(rest) >= 3 && strings.EqualFold(rest[0], "set") {
			return Builtin{Kind: BuiltinConfigSet, Name: rest[1], Value: strings.Join(rest[2:], " ")}, true
		}
	}
	return Builtin{}, false
}

func parseRitual(rest []string) (Builtin, bool) {
	if len(rest) == 0 {
		return Builtin{Kind: BuiltinRitualList}, true
	}
	sub := strings.ToLower(rest[0])
	switch {
	case sub == "list":
		return Builtin{Kind: BuiltinRitualList}, true
	case sub == "create":
		name := ""
		if len(rest) > 1 {
			name = rest[1]
		}
		return Builtin{Kind: BuiltinRitualCreate, Name: name}, true
	case sub == "show" && len(rest) == 2:
		return Builtin{Kind: BuiltinRitualShow, Name: rest[1]}, true
	case sub == "run" && len(rest) == 2:
		return Builtin{Kind: BuiltinRitualRun, Name: rest[1]}, true
	case sub == "delete" && len(rest) == 2:
		return Builtin{Kind: BuiltinRitualDelete, Name: rest[1]}, true
	}
	return Builtin{}, false
}

// splitMapping parses "natural language -> command".
func splitMapping(s string) (string, string, bool) {
	nl, cmd, ok := strings.Cut(s, "->")
	if !ok {
		return "", "", false
	}
	nl, cmd = strings.TrimSpace(nl), strings.TrimSpace(cmd)
	if nl == "" || cmd == "" {
		return "", "", false
	}
	return nl, cmd, true
}

package cli

import "testing"

func TestParseBuiltin(t *testing.T) {
	cases := []struct {
		line string
		want Builtin
		ok   bool
	}{
		{"help", Builtin{Kind: BuiltinHelp}, true},
		{"?", Builtin{Kind: BuiltinHelp}, true},
		{"exit", Builtin{Kind: BuiltinExit}, true},
		{"QUIT", Builtin{Kind: BuiltinExit}, true},
		{"clear", Builtin{Kind: BuiltinClear}, true},
		{"history", Builtin{Kind: BuiltinHistory}, true},
		{"retry", Builtin{Kind: BuiltinRetry}, true},
		{"r", Builtin{Kind: BuiltinRetry}, true},
		{"system", Builtin{Kind: BuiltinSystem}, true},
		{"explain du -sh *", Builtin{Kind: BuiltinExplain, Value: "du -sh *"}, true},
		{"suggest list", Builtin{Kind: BuiltinSuggest, Value: "list"}, true},
		{"suggest", Builtin{Kind: BuiltinSuggest}, true},
		{"knowledge", Builtin{Kind: BuiltinKnowledgeList}, true},
		{"knowledge add show time -> date", Builtin{Kind: BuiltinKnowledgeAdd, Name: "show time", Value: "date"}, true},
		{"blacklist add rm -rf /", Builtin{Kind: BuiltinBlacklistAdd, Value: "rm -rf /"}, true},
		{"alias", Builtin{Kind: BuiltinAliasList}, true},
		{"alias ll=ls -la", Builtin{Kind: BuiltinAliasSet, Name: "ll", Value: "ls -la"}, true},
		{"unalias ll", Builtin{Kind: BuiltinAliasRemove, Name: "ll"}, true},
		{"ritual", Builtin{Kind: BuiltinRitualList}, true},
		{"ritual list", Builtin{Kind: BuiltinRitualList}, true},
		{"ritual create deploy", Builtin{Kind: BuiltinRitualCreate, Name: "deploy"}, true},
		{"ritual show deploy", Builtin{Kind: BuiltinRitualShow, Name: "deploy"}, true},
		{"ritual run deploy", Builtin{Kind: BuiltinRitualRun, Name: "deploy"}, true},
		{"ritual delete deploy", Builtin{Kind: BuiltinRitualDelete, Name: "deploy"}, true},
		{"perform deploy", Builtin{Kind: BuiltinRitualPerform, Name: "deploy"}, true},
		{"config get interpreter.model", Builtin{Kind: BuiltinConfigGet, Name: "interpreter.model"}, true},
		{"config set interpreter.model llama3.2", Builtin{Kind: BuiltinConfigSet, Name: "interpreter.model", Value: "llama3.2"}, true},

		// Natural language falls through, even when it shares a first word.
		{"list all files", Builtin{}, false},
		{"retry the download", Builtin{}, false},
		{"knowledge is power", Builtin{}, false},
		{"ritual run", Builtin{}, false},
		{"", Builtin{}, false},
		{"   ", Builtin{}, false},
	}
	for _, tc := range cases {
		got, ok := ParseBuiltin(tc.line)
		if ok != tc.ok {
			t.Errorf("ParseBuiltin(%q) ok = %v, want %v", tc.line, ok, tc.ok)
			continue
		}
		if got != tc.want {
			t.Errorf("ParseBuiltin(%q) = %+v, want %+v", tc.line, got, tc.want)
		}
	}
}

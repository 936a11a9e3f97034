package domain

// KnowledgeEntry is a user-curated natural-language-to-command mapping.
// Knowledge entries always take priority over learned history when both are
// offered to the interpreter.
type KnowledgeEntry struct {
	NaturalLanguage string
	ShellCommand    string
}

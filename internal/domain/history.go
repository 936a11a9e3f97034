package domain

import "time"

// HistoryEntry is one successfully executed interpretation. Entries are
// write-once; suggestion ranking groups them by shell command.
type HistoryEntry struct {
	ID               int64
	NaturalLanguage  string
	ShellCommand     string
	WorkingDirectory string
	ExitCode         int
	Timestamp        time.Time
	ExecutionTime    time.Duration
}

// RejectionRecord is an interpretation the user or system determined was
// wrong for a given phrasing. Records are append-only and cleared wholesale
// once a command for that phrasing succeeds.
type RejectionRecord struct {
	NaturalLanguage string
	ShellCommand    string
	Timestamp       time.Time
}

// Alias maps a short name to a command, resolved before interpretation.
type Alias struct {
	Name      string
	Command   string
	CreatedAt time.Time
}

// Preference is an opaque key/value configuration row, last-write-wins.
type Preference struct {
	Key   string
	Value string
}

// Package logger provides the leveled logger the session runs on. Output
// goes to stderr so interpreted command output on stdout stays clean enough
// to pipe.
package logger

import (
	"fmt"
	"log"
	"os"
	"sort"
	"strings"
)

// StdLogger writes leveled lines through the standard log package. Every
// level is gated on verbose: an interactive session stays silent unless
// SEANCE_DEBUG is set.
type StdLogger struct {
	verbose bool
	out     *log.Logger
}

// NewStd creates a StdLogger writing to stderr.
func NewStd(verbose bool) *StdLogger {
	return &StdLogger{verbose: verbose, out: log.New(os.Stderr, "", log.LstdFlags)}
}

func (l *StdLogger) Debug(msg string, fields map[string]interface{}) {
	l.print("[DEBUG]", msg, fields)
}

func (l *StdLogger) Info(msg string, fields map[string]interface{}) {
	l.print("[INFO]", msg, fields)
}

func (l *StdLogger) Warn(msg string, fields map[string]interface{}) {
	l.print("[WARN]", msg, fields)
}

func (l *StdLogger) Error(msg string, err error, fields map[string]interface{}) {
	if err != nil {
		if fields == nil {
			fields = map[string]interface{}{}
		}
		fields["error"] = err.Error()
	}
	l.print("[ERROR]", msg, fields)
}

func (l *StdLogger) print(level, msg string, fields map[string]interface{}) {
	if !l.verbose {
		return
	}
	if len(fields) == 0 {
		l.out.Println(level, msg)
		return
	}
	l.out.Println(level, msg, formatFields(fields))
}

// formatFields renders fields as sorted key=value pairs so log lines are
// stable across runs.
func formatFields(fields map[string]interface{}) string {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, len(keys))
	for i, k := range keys {
		pairs[i] = fmt.Sprintf("%s=%v", k, fields[k])
	}
	return strings.Join(pairs, " ")
}

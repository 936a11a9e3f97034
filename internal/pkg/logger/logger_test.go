package logger

import (
	"bytes"
	"errors"
	"log"
	"strings"
	"testing"
)

func testLogger(verbose bool) (*StdLogger, *bytes.Buffer) {
	var buf bytes.Buffer
	return &StdLogger{verbose: verbose, out: log.New(&buf, "", 0)}, &buf
}

func TestQuietUnlessVerbose(t *testing.T) {
	l, buf := testLogger(false)
	l.Debug("d", nil)
	l.Info("i", nil)
	l.Warn("w", nil)
	l.Error("e", errors.New("boom"), nil)
	if buf.Len() != 0 {
		t.Fatalf("non-verbose logger wrote: %q", buf.String())
	}
}

func TestFieldsAreSorted(t *testing.T) {
	l, buf := testLogger(true)
	l.Info("saved", map[string]interface{}{"z": 1, "a": "x", "m": true})
	got := strings.TrimSpace(buf.String())
	if got != "[INFO] saved a=x m=true z=1" {
		t.Fatalf("unexpected line %q", got)
	}
}

func TestErrorCarriesCause(t *testing.T) {
	l, buf := testLogger(true)
	l.Error("load failed", errors.New("no such file"), nil)
	if !strings.Contains(buf.String(), "error=no such file") {
		t.Fatalf("error cause missing: %q", buf.String())
	}
}

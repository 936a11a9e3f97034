package interpreter

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/seancedev/seance/internal/domain"
	"github.com/seancedev/seance/internal/pkg/logger"
	"github.com/seancedev/seance/internal/ports"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	c := NewClient(domain.InterpreterConfig{
		Endpoint: srv.URL,
		Model:    "llama3.2",
	}, logger.NewStd(false))
	return c, srv
}

func respond(t *testing.T, w http.ResponseWriter, text string) {
	t.Helper()
	if err := json.NewEncoder(w).Encode(map[string]string{"response": text}); err != nil {
		t.Fatalf("encode: %v", err)
	}
}

func TestCheckConnection(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/tags" || r.Method != http.MethodGet {
			t.Errorf("unexpected probe %s %s", r.Method, r.URL.Path)
		}
		w.Write([]byte(`{"models":[]}`))
	})
	if err := c.CheckConnection(context.Background()); err != nil {
		t.Fatalf("CheckConnection error: %v", err)
	}
}

func TestCheckConnectionDown(t *testing.T) {
	c, srv := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {})
	srv.Close()

	err := c.CheckConnection(context.Background())
	var connErr *domain.ConnectivityError
	if !errors.As(err, &connErr) {
		t.Fatalf("expected ConnectivityError, got %v", err)
	}
}

func TestInterpretRequestShape(t *testing.T) {
	var got generateRequest
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/generate" || r.Method != http.MethodPost {
			t.Errorf("unexpected call %s %s", r.Method, r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode request: %v", err)
		}
		respond(t, w, "ls -la")
	})

	cmd, err := c.Interpret(context.Background(), ports.InterpretRequest{Input: "list all files"})
	if err != nil {
		t.Fatalf("Interpret error: %v", err)
	}
	if cmd != "ls -la" {
		t.Fatalf("unexpected command %q", cmd)
	}
	if got.Model != "llama3.2" {
		t.Fatalf("unexpected model %q", got.Model)
	}
	if got.Stream {
		t.Fatalf("streaming must be disabled")
	}
	if !strings.Contains(got.Prompt, "list all files") {
		t.Fatalf("prompt missing the request:\n%s", got.Prompt)
	}
}

func TestInterpretCleansMarkdown(t *testing.T) {
	cases := []struct {
		raw  string
		want string
	}{
		{"```bash\nls -la\n```", "ls -la"},
		{"```\ngrep -rn TODO .\n```", "grep -rn TODO ."},
		{"`df -h`", "df -h"},
		{"$ du -sh *", "du -sh *"},
		{"# whoami", "whoami"},
		{"> pwd", "pwd"},
		{"  ps aux  \nThis lists processes.", "ps aux"},
	}
	for _, tc := range cases {
		if got := cleanCommand(tc.raw); got != tc.want {
			t.Errorf("cleanCommand(%q) = %q, want %q", tc.raw, got, tc.want)
		}
	}
}

func TestInterpretEmptyReply(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		respond(t, w, "```\n```")
	})

	_, err := c.Interpret(context.Background(), ports.InterpretRequest{Input: "do nothing"})
	var interpErr *domain.InterpretationError
	if !errors.As(err, &interpErr) {
		t.Fatalf("expected InterpretationError, got %v", err)
	}
}

func TestInterpretServerError(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not found", http.StatusNotFound)
	})

	_, err := c.Interpret(context.Background(), ports.InterpretRequest{Input: "list files"})
	var interpErr *domain.InterpretationError
	if !errors.As(err, &interpErr) {
		t.Fatalf("expected InterpretationError, got %v", err)
	}
}

func TestExplain(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var req generateRequest
		json.NewDecoder(r.Body).Decode(&req)
		if !strings.Contains(req.Prompt, "du -sh") {
			t.Errorf("prompt missing command:\n%s", req.Prompt)
		}
		respond(t, w, "Shows the total size of each item in the current directory.")
	})

	text, err := c.Explain(context.Background(), "du -sh *")
	if err != nil {
		t.Fatalf("Explain error: %v", err)
	}
	if !strings.Contains(text, "total size") {
		t.Fatalf("unexpected explanation %q", text)
	}
}

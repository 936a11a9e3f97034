// Package executor runs validated shell commands in controlled
// subprocesses and owns the session's working directory.
package executor

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"time"

	shellwords "github.com/mattn/go-shellwords"

	"github.com/seancedev/seance/internal/domain"
	"github.com/seancedev/seance/internal/ports"
)

// Executor runs commands through the configured shell. The working
// directory is the only mutable state; it changes solely through cd
// commands and SetWorkingDirectory.
type Executor struct {
	shell   string
	timeout time.Duration
	logger  ports.Logger

	mu         sync.Mutex
	workingDir string
}

// New builds an Executor rooted at the process's current directory.
func New(cfg domain.ExecutorConfig, logger ports.Logger) *Executor {
	shell := cfg.Shell
	if shell == "" {
		shell = "/bin/sh"
	}
	wd, err := os.Getwd()
	if err != nil {
		wd = "."
	}
	return &Executor{shell: shell, timeout: cfg.Timeout(), logger: logger, workingDir: wd}
}

// WorkingDirectory returns the session's current directory.
func (e *Executor) WorkingDirectory() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.workingDir
}

// SetWorkingDirectory points the session at dir, which must exist.
func (e *Executor) SetWorkingDirectory(dir string) error {
	info, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("directory %s: %w", dir, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", dir)
	}
	e.mu.Lock()
	e.workingDir = dir
	e.mu.Unlock()
	return nil
}

var pairs = map[rune]rune{')': '(', ']': '[', '}': '{'}

// ValidateSyntax rejects commands that no shell could run: unbalanced
// quotes or brackets, or pipes and redirects with a missing side. It is a
// cheap pre-flight, not a full parser; the shell has the final word.
func (e *Executor) ValidateSyntax(command string) error {
	cmd := strings.TrimSpace(command)
	if cmd == "" {
		return &domain.ValidationError{Command: command, Reason: "empty command"}
	}
	if strings.HasPrefix(cmd, "|") || strings.HasPrefix(cmd, "<") || strings.HasPrefix(cmd, ">") {
		return &domain.ValidationError{Command: command, Reason: "command starts with a redirection operator"}
	}
	if strings.HasSuffix(cmd, "|") {
		return &domain.ValidationError{Command: command, Reason: "trailing pipe with no consumer"}
	}

	var stack []rune
	var quote rune
	escaped := false
	for _, r := range cmd {
		if escaped {
			escaped = false
			continue
		}
		switch {
		case r == '\\' && quote != '\'':
			escaped = true
		case quote != 0:
			if r == quote {
				quote = 0
			}
		case r == '\'' || r == '"':
			quote = r
		case r == '(' || r == '[' || r == '{':
			stack = append(stack, r)
		case r == ')' || r == ']' || r == '}':
			if len(stack) == 0 || stack[len(stack)-1] != pairs[r] {
				return &domain.ValidationError{Command: command, Reason: fmt.Sprintf("unbalanced %q", r)}
			}
			stack = stack[:len(stack)-1]
		}
	}
	if quote != 0 {
		return &domain.ValidationError{Command: command, Reason: "unterminated quote"}
	}
	if len(stack) > 0 {
		return &domain.ValidationError{Command: command, Reason: fmt.Sprintf("unclosed %q", stack[len(stack)-1])}
	}
	return nil
}

// Execute runs command and always returns a structured result. Subprocess
// failures land in the result with ExitCode -1 and a failure class in
// Stderr; only an empty command raises an error. Directory changes are
// handled in-process because a subprocess cd would not survive its exit.
func (e *Executor) Execute(ctx context.Context, command string) (domain.ExecutionResult, error) {
	cmd := strings.TrimSpace(command)
	if cmd == "" {
		return domain.ExecutionResult{}, &domain.ValidationError{Command: command, Reason: "empty command"}
	}

	if target, ok := parseCd(cmd); ok {
		return e.changeDirectory(cmd, target), nil
	}

	start := time.Now()
	runCtx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	proc := exec.CommandContext(runCtx, e.shell, "-c", cmd)
	proc.Dir = e.WorkingDirectory()
	var stdout, stderr bytes.Buffer
	proc.Stdout = &stdout
	proc.Stderr = &stderr

	err := proc.Run()
	result := domain.ExecutionResult{
		Command:       cmd,
		Stdout:        stdout.String(),
		Stderr:        stderr.String(),
		ExecutionTime: time.Since(start),
		Timestamp:     start,
	}

	switch {
	case err == nil:
		result.ExitCode = 0
	case runCtx.Err() == context.DeadlineExceeded:
		result.ExitCode = -1
		result.Stderr = fmt.Sprintf("%s after %s: %s", domain.FailureTimeout, e.timeout, cmd)
	default:
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			result.ExitCode = exitErr.ExitCode()
		} else {
			result.ExitCode = -1
			result.Stderr = fmt.Sprintf("%s: %s", classify(err), cmd)
		}
	}

	e.logger.Debug("executed command", map[string]interface{}{
		"command":   cmd,
		"exit_code": result.ExitCode,
		"duration":  result.ExecutionTime.String(),
	})
	return result, nil
}

func classify(err error) domain.FailureClass {
	switch {
	case errors.Is(err, os.ErrPermission):
		return domain.FailurePermission
	case errors.Is(err, exec.ErrNotFound) || errors.Is(err, os.ErrNotExist):
		return domain.FailureNotFound
	default:
		var pathErr *os.PathError
		if errors.As(err, &pathErr) {
			return domain.FailureOS
		}
		return domain.FailureUnknown
	}
}

// parseCd recognizes a plain directory change. Compound commands that
// merely start with cd (cd x && make) go to the shell like anything else.
func parseCd(cmd string) (string, bool) {
	if strings.ContainsAny(cmd, "|&;><") {
		return "", false
	}
	tokens, err := shellwords.Parse(cmd)
	if err != nil || len(tokens) == 0 || tokens[0] != "cd" {
		return "", false
	}
	if len(tokens) == 1 {
		return "~", true
	}
	if len(tokens) > 2 {
		return "", false
	}
	return tokens[1], true
}

func (e *Executor) changeDirectory(cmd, target string) domain.ExecutionResult {
	start := time.Now()
	result := domain.ExecutionResult{Command: cmd, Timestamp: start}

	dir := os.ExpandEnv(target)
	if dir == "~" {
		dir, _ = os.UserHomeDir()
	} else if strings.HasPrefix(dir, "~/") {
		home, _ := os.UserHomeDir()
		dir = filepath.Join(home, dir[2:])
	}
	if !filepath.IsAbs(dir) {
		dir = filepath.Join(e.WorkingDirectory(), dir)
	}
	dir = filepath.Clean(dir)

	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		if fixed, ok := caseInsensitiveMatch(dir); ok {
			dir = fixed
		} else {
			result.ExitCode = 1
			result.Stderr = fmt.Sprintf("cd: no such directory: %s", target)
			result.ExecutionTime = time.Since(start)
			return result
		}
	}

	e.mu.Lock()
	e.workingDir = dir
	e.mu.Unlock()
	result.Stdout = dir
	result.ExecutionTime = time.Since(start)
	return result
}

// caseInsensitiveMatch retries the final path element against its parent's
// entries, so "cd downloads" lands in Downloads.
func caseInsensitiveMatch(dir string) (string, bool) {
	parent := filepath.Dir(dir)
	want := strings.ToLower(filepath.Base(dir))
	entries, err := os.ReadDir(parent)
	if err != nil {
		return "", false
	}
	for _, e := range entries {
		if e.IsDir() && strings.ToLower(e.Name()) == want {
			return filepath.Join(parent, e.Name()), true
		}
	}
	return "", false
}

var _ ports.CommandExecutor = (*Executor)(nil)

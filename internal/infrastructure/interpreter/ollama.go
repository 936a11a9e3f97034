// Package interpreter talks to a local Ollama-compatible text-generation
// service and turns natural language into shell commands.
package interpreter

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/seancedev/seance/internal/domain"
	"github.com/seancedev/seance/internal/ports"
)

// Client is an Ollama API adapter. It assumes the service runs on loopback;
// configuration validation enforces that before a Client is built.
type Client struct {
	endpoint string
	model    string
	http     *http.Client
	logger   ports.Logger
}

// NewClient builds a Client from the interpreter configuration.
func NewClient(cfg domain.InterpreterConfig, logger ports.Logger) *Client {
	return &Client{
		endpoint: strings.TrimRight(cfg.Endpoint, "/"),
		model:    cfg.Model,
		http:     &http.Client{Timeout: cfg.Timeout()},
		logger:   logger,
	}
}

// CheckConnection probes the service's model listing endpoint. Any failure
// is a ConnectivityError carrying the endpoint for the remediation message.
func (c *Client) CheckConnection(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint+"/api/tags", nil)
	if err != nil {
		return &domain.ConnectivityError{Endpoint: c.endpoint, Err: err}
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return &domain.ConnectivityError{Endpoint: c.endpoint, Err: err}
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return &domain.ConnectivityError{
			Endpoint: c.endpoint,
			Err:      fmt.Errorf("unexpected status %d", resp.StatusCode),
		}
	}
	return nil
}

type generateRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	Stream bool   `json:"stream"`
}

type generateResponse struct {
	Response string `json:"response"`
}

// Interpret asks the service for a single shell command. The reply is
// cleaned of markdown artifacts; an empty result after cleaning is an
// InterpretationError, not a command.
func (c *Client) Interpret(ctx context.Context, req ports.InterpretRequest) (string, error) {
	raw, err := c.generate(ctx, buildPrompt(req))
	if err != nil {
		return "", err
	}
	cmd := cleanCommand(raw)
	if cmd == "" {
		return "", &domain.InterpretationError{Reason: "service returned no usable command"}
	}
	c.logger.Debug("interpreted command", map[string]interface{}{
		"input":   req.Input,
		"command": cmd,
	})
	return cmd, nil
}

// Explain asks the service for a plain-English description of a command.
func (c *Client) Explain(ctx context.Context, command string) (string, error) {
	prompt := fmt.Sprintf(
		"Explain what this shell command does in one or two plain sentences. "+
			"Do not repeat the command itself.\n\nCommand: %s\n\nExplanation:", command)
	raw, err := c.generate(ctx, prompt)
	if err != nil {
		return "", err
	}
	text := strings.TrimSpace(raw)
	if text == "" {
		return "", &domain.InterpretationError{Reason: "service returned no explanation"}
	}
	return text, nil
}

func (c *Client) generate(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(generateRequest{Model: c.model, Prompt: prompt, Stream: false})
	if err != nil {
		return "", &domain.InterpretationError{Reason: "encoding request", Err: err}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint+"/api/generate", bytes.NewReader(body))
	if err != nil {
		return "", &domain.ConnectivityError{Endpoint: c.endpoint, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", &domain.ConnectivityError{Endpoint: c.endpoint, Err: err}
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", &domain.InterpretationError{
			Reason: fmt.Sprintf("service returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(payload))),
		}
	}

	var gr generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&gr); err != nil {
		return "", &domain.InterpretationError{Reason: "decoding response", Err: err}
	}
	return gr.Response, nil
}

// cleanCommand strips the markdown wrapping and prompt echoes models tend to
// add around commands.
func cleanCommand(raw string) string {
	s := strings.TrimSpace(raw)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```")
		if idx := strings.Index(s, "\n"); idx >= 0 && !strings.ContainsAny(s[:idx], " \t") {
			// Language tag on the fence line.
			s = s[idx+1:]
		}
		if idx := strings.LastIndex(s, "```"); idx >= 0 {
			s = s[:idx]
		}
	}
	s = strings.TrimSpace(s)
	// Keep the first non-empty line; chatty models append commentary.
	if idx := strings.Index(s, "\n"); idx >= 0 {
		s = s[:idx]
	}
	s = strings.Trim(s, "`")
	for _, prefix := range []string{"$ ", "# ", "> "} {
		s = strings.TrimPrefix(s, prefix)
	}
	return strings.TrimSpace(s)
}

var _ ports.Interpreter = (*Client)(nil)

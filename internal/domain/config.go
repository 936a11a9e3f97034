package domain

import (
	"fmt"
	"net"
	"net/url"
	"time"
)

// Config is the root configuration loaded from ~/.seance/config.yaml.
type Config struct {
	Interpreter InterpreterConfig `yaml:"interpreter"`
	Executor    ExecutorConfig    `yaml:"executor"`
	Context     ContextConfig     `yaml:"context"`
	Corrector   CorrectorConfig   `yaml:"corrector"`
	Risk        RiskConfig        `yaml:"risk"`
	Theme       ThemeConfig       `yaml:"theme"`
}

// InterpreterConfig points at the local text-generation service.
type InterpreterConfig struct {
	Endpoint       string `yaml:"endpoint"`
	Model          string `yaml:"model"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

// Timeout returns the configured request timeout.
func (c InterpreterConfig) Timeout() time.Duration {
	if c.TimeoutSeconds <= 0 {
		return 10 * time.Second
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// Validate rejects non-loopback endpoints. The interpreter is a local-only
// collaborator; pointing it at a remote host is a configuration error.
func (c InterpreterConfig) Validate() error {
	u, err := url.Parse(c.Endpoint)
	if err != nil {
		return fmt.Errorf("interpreter endpoint %q: %w", c.Endpoint, err)
	}
	host := u.Hostname()
	if host == "localhost" {
		return nil
	}
	if ip := net.ParseIP(host); ip != nil && ip.IsLoopback() {
		return nil
	}
	return fmt.Errorf("interpreter endpoint %q is not a loopback address", c.Endpoint)
}

// ExecutorConfig controls subprocess execution.
type ExecutorConfig struct {
	Shell          string `yaml:"shell"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

// Timeout returns the wall-clock limit for a single command.
func (c ExecutorConfig) Timeout() time.Duration {
	if c.TimeoutSeconds <= 0 {
		return 300 * time.Second
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// ContextConfig bounds working-directory inspection.
type ContextConfig struct {
	MaxFiles int `yaml:"max_files"`
}

// Limit returns the file-listing cap.
func (c ContextConfig) Limit() int {
	if c.MaxFiles <= 0 {
		return 50
	}
	return c.MaxFiles
}

// CorrectorConfig tunes fuzzy path correction.
type CorrectorConfig struct {
	Cutoff float64 `yaml:"cutoff"`
}

// Threshold returns the similarity cutoff for fuzzy matches.
func (c CorrectorConfig) Threshold() float64 {
	if c.Cutoff <= 0 || c.Cutoff > 1 {
		return 0.6
	}
	return c.Cutoff
}

// RiskConfig points at an optional user rules file overriding the embedded
// classification table.
type RiskConfig struct {
	RulesFile string `yaml:"rules_file"`
}

// ThemeConfig carries the terminal palette. It is materialized into an
// immutable style set at the rendering boundary, never global state.
type ThemeConfig struct {
	Accent    string `yaml:"accent"`
	Secondary string `yaml:"secondary"`
	Success   string `yaml:"success"`
	Warning   string `yaml:"warning"`
	Danger    string `yaml:"danger"`
	Dim       string `yaml:"dim"`
}

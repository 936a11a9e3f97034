package cli

import (
	"fmt"
	"strconv"

	"github.com/seancedev/seance/internal/domain"
)

// configKeys maps dotted setting names to accessors on the live config.
// Interpreter changes need a restart to rebuild the HTTP client; the REPL
// says so when one is set.
var configKeys = map[string]struct {
	get func(*domain.Config) string
	set func(*domain.Config, string) error
}{
	"interpreter.endpoint": {
		get: func(c *domain.Config) string { return c.Interpreter.Endpoint },
		set: func(c *domain.Config, v string) error {
			probe := c.Interpreter
			probe.Endpoint = v
			if err := probe.Validate(); err != nil {
				return err
			}
			c.Interpreter.Endpoint = v
			return nil
		},
	},
	"interpreter.model": {
		get: func(c *domain.Config) string { return c.Interpreter.Model },
		set: func(c *domain.Config, v string) error {
			if v == "" {
				return fmt.Errorf("model must not be empty")
			}
			c.Interpreter.Model = v
			return nil
		},
	},
	"interpreter.timeout_seconds": {
		get: func(c *domain.Config) string { return strconv.Itoa(c.Interpreter.TimeoutSeconds) },
		set: func(c *domain.Config, v string) error { return setPositiveInt(&c.Interpreter.TimeoutSeconds, v) },
	},
	"executor.timeout_seconds": {
		get: func(c *domain.Config) string { return strconv.Itoa(c.Executor.TimeoutSeconds) },
		set: func(c *domain.Config, v string) error { return setPositiveInt(&c.Executor.TimeoutSeconds, v) },
	},
	"context.max_files": {
		get: func(c *domain.Config) string { return strconv.Itoa(c.Context.MaxFiles) },
		set: func(c *domain.Config, v string) error { return setPositiveInt(&c.Context.MaxFiles, v) },
	},
	"corrector.cutoff": {
		get: func(c *domain.Config) string { return strconv.FormatFloat(c.Corrector.Cutoff, 'f', -1, 64) },
		set: func(c *domain.Config, v string) error {
			f, err := strconv.ParseFloat(v, 64)
			if err != nil || f <= 0 || f > 1 {
				return fmt.Errorf("cutoff must be a number in (0, 1]")
			}
			c.Corrector.Cutoff = f
			return nil
		},
	},
}

func setPositiveInt(dst *int, v string) error {
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return fmt.Errorf("value must be a positive integer")
	}
	*dst = n
	return nil
}

// ConfigValue reads a dotted setting name.
func ConfigValue(cfg *domain.Config, key string) (string, error) {
	k, ok := configKeys[key]
	if !ok {
		return "", fmt.Errorf("unknown setting %q", key)
	}
	return k.get(cfg), nil
}

// SetConfigValue updates a dotted setting name in place.
func SetConfigValue(cfg *domain.Config, key, value string) error {
	k, ok := configKeys[key]
	if !ok {
		return fmt.Errorf("unknown setting %q", key)
	}
	return k.set(cfg, value)
}

// Package security classifies candidate commands into risk tiers that drive
// the confirmation flow.
package security

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"regexp"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/seancedev/seance/assets"
	"github.com/seancedev/seance/internal/domain"
	"github.com/seancedev/seance/internal/ports"
)

// devNullRedirect matches redirects into /dev/null, which are harmless and
// must not trip the device-redirect rule. The input is stripped of these
// before rule evaluation; Go regexps have no lookaround to express the
// exception inside the rule itself.
var devNullRedirect = regexp.MustCompile(`(?:\d+)?>{1,2}\s*/dev/null\b`)

type compiledRule struct {
	re    *regexp.Regexp
	level domain.RiskLevel
}

// Classifier evaluates an ordered rule table against command strings.
type Classifier struct {
	rules []compiledRule
}

type ruleFile struct {
	Rules []domain.RiskRule `yaml:"rules"`
}

// New loads rules from path when it exists, falling back to the embedded
// defaults. A missing file is normal; an unreadable or invalid one is an
// error so a user's override never silently degrades to the defaults.
func New(path string) (*Classifier, error) {
	raw := assets.DefaultRiskYAML
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			raw = data
		case errors.Is(err, fs.ErrNotExist):
		default:
			return nil, fmt.Errorf("reading risk rules %s: %w", path, err)
		}
	}

	var rf ruleFile
	if err := yaml.Unmarshal(raw, &rf); err != nil {
		return nil, fmt.Errorf("parsing risk rules: %w", err)
	}
	if len(rf.Rules) == 0 {
		return nil, fmt.Errorf("risk rules: no rules defined")
	}

	sort.SliceStable(rf.Rules, func(i, j int) bool {
		return rf.Rules[i].Priority < rf.Rules[j].Priority
	})

	c := &Classifier{rules: make([]compiledRule, 0, len(rf.Rules))}
	for _, r := range rf.Rules {
		re, err := regexp.Compile("(?i)" + r.Pattern)
		if err != nil {
			return nil, fmt.Errorf("risk rule %q: %w", r.Pattern, err)
		}
		c.rules = append(c.rules, compiledRule{re: re, level: r.Level})
	}
	return c, nil
}

// Classify returns the risk tier of command. Empty input is safe; the first
// matching rule in priority order decides the tier.
func (c *Classifier) Classify(command string) domain.RiskLevel {
	cmd := strings.TrimSpace(command)
	if cmd == "" {
		return domain.RiskSafe
	}
	cmd = devNullRedirect.ReplaceAllString(cmd, "")
	for _, r := range c.rules {
		if r.re.MatchString(cmd) {
			return r.level
		}
	}
	return domain.RiskSafe
}

var _ ports.RiskClassifier = (*Classifier)(nil)

package assets

import (
	_ "embed"
)

// DefaultConfigYAML contains the embedded default configuration.
//
//go:embed defaults/config.yaml
var DefaultConfigYAML []byte

// DefaultRiskYAML contains the embedded default risk classification rules.
//
//go:embed defaults/risk.yaml
var DefaultRiskYAML []byte

// DefaultKnowledge contains the seed knowledge-base file.
//
//go:embed defaults/knowledge.txt
var DefaultKnowledge []byte

// DefaultBlacklist contains the seed blacklist file.
//
//go:embed defaults/blacklist.txt
var DefaultBlacklist []byte

package decisionconfig

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Load reads the YAML policy file. KnownFields(true) makes typos and
// orphaned fields fail immediately instead of silently defaulting.
func Load(path string) (*Config, []byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, err
	}

	var cfg Config
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		return nil, nil, err
	}

	if err := Validate(&cfg); err != nil {
		return nil, data, err
	}

	return &cfg, data, nil
}

// Hash generates a SHA256 over the canonical JSON form. Struct fields
// marshal in declaration order, so the hash is reproducible.
func Hash(cfg *Config) (string, error) {
	jsonBytes, err := json.Marshal(cfg)
	if err != nil {
		return "", err
	}

	sum := sha256.Sum256(jsonBytes)
	return hex.EncodeToString(sum[:]), nil
}

// NewPolicySnapshot captures the policy a run used, for audit.
func NewPolicySnapshot(cfg *Config, yamlData []byte) (*PolicySnapshot, error) {
	hash, err := Hash(cfg)
	if err != nil {
		return nil, err
	}

	return &PolicySnapshot{
		ConfigHash: hash,
		ConfigYAML: string(yamlData),
		PolicyID:   cfg.Meta.PolicyID,
		CreatedAt:  time.Now(),
	}, nil
}

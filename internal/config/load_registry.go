package config

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

//go:embed prebuilts.yaml
var defaultRegistry []byte

// DefaultRegistry returns the registry compiled into the binary.
func DefaultRegistry() (*Registry, error) {
	reg, err := parseYAML(defaultRegistry)
	if err != nil {
		return nil, fmt.Errorf("built-in registry: %w", err)
	}
	return reg, nil
}

// LoadRegistry reads a registry file. The format is chosen by extension:
// .toml is decoded as TOML, .yaml/.yml as YAML.
func LoadRegistry(path string) (*Registry, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read registry %s: %w", path, err)
	}

	var reg *Registry
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		reg, err = parseTOML(raw)
	case ".yaml", ".yml":
		reg, err = parseYAML(raw)
	default:
		return nil, fmt.Errorf("unsupported registry format: %s", path)
	}
	if err != nil {
		return nil, fmt.Errorf("registry %s: %w", path, err)
	}
	return reg, nil
}

func parseYAML(raw []byte) (*Registry, error) {
	var reg Registry
	if err := yaml.Unmarshal(raw, &reg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal yaml: %w", err)
	}
	if err := reg.Validate(); err != nil {
		return nil, err
	}
	return &reg, nil
}

func parseTOML(raw []byte) (*Registry, error) {
	var reg Registry
	if _, err := toml.Decode(string(raw), &reg); err != nil {
		return nil, fmt.Errorf("failed to decode toml: %w", err)
	}
	if err := reg.Validate(); err != nil {
		return nil, err
	}
	return &reg, nil
}

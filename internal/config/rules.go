package config

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/techstore/catalogqa/internal/domain/rules"
)

//go:embed default_rules.yaml
var defaultRules []byte

// LoadRules reads and compiles the rule tables. An empty path selects the
// built-in tables.
func LoadRules(path string) (*rules.Tables, error) {
	data := defaultRules
	if path != "" {
		b, err := os.ReadFile(filepath.Clean(path))
		if err != nil {
			return nil, fmt.Errorf("failed to read rules %s: %w", path, err)
		}
		data = b
	}
	return ParseRules(data)
}

// ParseRules compiles rule tables from YAML.
func ParseRules(data []byte) (*rules.Tables, error) {
	var def rules.Definition
	if err := yaml.Unmarshal(data, &def); err != nil {
		return nil, fmt.Errorf("failed to parse rules: %w", err)
	}
	t, err := rules.Compile(def)
	if err != nil {
		return nil, fmt.Errorf("invalid rules: %w", err)
	}
	return t, nil
}

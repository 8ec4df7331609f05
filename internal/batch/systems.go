// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package batch extracts every system listed in a YAML configuration from
// one parsed deck, writing a standalone output file per system.
package batch

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.yaml.in/yaml/v3"
)

// System names one extraction target: an output name and the element
// groups whose closure the output contains.
type System struct {
	Name   string   `yaml:"name"`
	Elsets []string `yaml:"elsets"`
}

// Config is a batch run definition, usually loaded from systems.yaml.
type Config struct {
	Systems []System `yaml:"systems"`
}

// DefaultSystemsPath returns the conventional systems file location,
// next to the source deck.
func DefaultSystemsPath(source string) string {
	return filepath.Join(filepath.Dir(source), "systems.yaml")
}

// LoadSystems reads and validates a systems file. Systems keep file
// order; every system needs a name, unique ignoring case since names
// become output file names.
func LoadSystems(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading systems file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing systems file %s: %w", path, err)
	}
	if len(cfg.Systems) == 0 {
		return nil, fmt.Errorf("systems file %s defines no systems", path)
	}

	seen := make(map[string]struct{}, len(cfg.Systems))
	for i, sys := range cfg.Systems {
		name := strings.TrimSpace(sys.Name)
		if name == "" {
			return nil, fmt.Errorf("system %d has no name", i+1)
		}
		key := strings.ToLower(name)
		if _, dup := seen[key]; dup {
			return nil, fmt.Errorf("duplicate system name %q", name)
		}
		seen[key] = struct{}{}
		cfg.Systems[i].Name = name
	}
	return &cfg, nil
}

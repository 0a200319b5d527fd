package main

import (
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// loadConfig reads a YAML mapping of flag names to default values, e.g.
//
//	order: 5
//	parallel: false
//	format: yaml
func loadConfig(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var defaults map[string]any
	if err := yaml.Unmarshal(data, &defaults); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return defaults, nil
}

// applyConfig sets every flag of cmd named in defaults that was not given
// on the command line. Keys that name no flag of cmd are skipped so one file
// can serve every subcommand. It returns the names of the flags it set.
func applyConfig(cmd *cobra.Command, defaults map[string]any) ([]string, error) {
	names := make([]string, 0, len(defaults))
	for name := range defaults {
		names = append(names, name)
	}
	sort.Strings(names)

	var applied []string
	for _, name := range names {
		flag := cmd.Flags().Lookup(name)
		if flag == nil || flag.Changed || name == "config" {
			continue
		}
		if err := cmd.Flags().Set(name, fmt.Sprint(defaults[name])); err != nil {
			return nil, fmt.Errorf("config key %q: %w", name, err)
		}
		applied = append(applied, name)
	}
	return applied, nil
}

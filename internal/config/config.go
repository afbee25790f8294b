// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"fmt"
	"os"
	"path/filepath"

	"text-redact/internal/detector"

	"gopkg.in/yaml.v3"
)

// Config holds all tunables for the redaction pipeline. A Config value is
// threaded explicitly through every stage; the engine keeps no package-level
// mutable state, so one Config can serve concurrent documents.
type Config struct {
	// Dedup settings for the span deduplicator
	Dedup struct {
		// ProximityThreshold is the maximum start-offset distance, in bytes,
		// at which two same-label detections are treated as duplicates.
		ProximityThreshold int `yaml:"proximity_threshold"`
	} `yaml:"dedup"`

	// Resolver settings for coreference clustering
	Resolver struct {
		// Enabled selects union-find clustering; when false every occurrence
		// becomes its own cluster with sequential per-label ids.
		Enabled bool `yaml:"enabled"`

		// CoreferenceLabels lists the labels eligible for subset and
		// similarity merging. Exact-text merging applies to every label.
		CoreferenceLabels []string `yaml:"coreference_labels"`

		// PersonLabel is the label the token-subset rule is restricted to
		// (captures "Anna" inside "Anna Meier").
		PersonLabel string `yaml:"person_label"`

		// JaccardThreshold is the minimum token-set similarity for the
		// similarity merge rule.
		JaccardThreshold float64 `yaml:"jaccard_threshold"`
	} `yaml:"resolver"`

	// Fuzzy settings for the variant matcher
	Fuzzy struct {
		// Enabled toggles the fuzzy variant search entirely.
		Enabled bool `yaml:"enabled"`

		// SimilarityThreshold is the minimum normalized similarity for
		// near-miss candidates.
		SimilarityThreshold float64 `yaml:"similarity_threshold"`

		// Suffixes are the inflectional/possessive endings recognized
		// immediately after a known entity text.
		Suffixes []string `yaml:"suffixes"`

		// MinTermLength skips search terms shorter than this many bytes to
		// avoid combinatorial false positives.
		MinTermLength int `yaml:"min_term_length"`
	} `yaml:"fuzzy"`

	// Placeholder settings for rendering redaction tokens
	Placeholder struct {
		// Format names one of the supported placeholder styles
		// (brackets, angles, double_angles, curly, stars, custom).
		Format string `yaml:"format"`

		// Template is the caller-supplied template used when Format is
		// "custom". It must contain {label} and {id}.
		Template string `yaml:"template"`

		// LabelMapping renames raw recognizer labels to human-facing
		// placeholder labels (e.g. person -> NAME).
		LabelMapping map[string]string `yaml:"label_mapping"`
	} `yaml:"placeholder"`

	// ExclusionsFile points to a YAML false-positive exclusion list applied
	// to raw detections before deduplication.
	ExclusionsFile string `yaml:"exclusions_file"`
}

// Default returns a Config populated with the engine defaults.
func Default() *Config {
	cfg := &Config{}

	cfg.Dedup.ProximityThreshold = 10

	cfg.Resolver.Enabled = true
	cfg.Resolver.CoreferenceLabels = []string{"person"}
	cfg.Resolver.PersonLabel = "person"
	cfg.Resolver.JaccardThreshold = 0.8

	cfg.Fuzzy.Enabled = true
	cfg.Fuzzy.SimilarityThreshold = 0.85
	cfg.Fuzzy.Suffixes = []string{"s"}
	cfg.Fuzzy.MinTermLength = 3

	cfg.Placeholder.Format = "brackets"
	cfg.Placeholder.LabelMapping = map[string]string{}

	return cfg
}

// LoadConfig loads configuration from the specified file path. An empty path
// returns the default configuration.
func LoadConfig(configPath string) (*Config, error) {
	cfg := Default()

	if configPath == "" {
		return cfg, nil
	}

	cleanPath := filepath.Clean(configPath)
	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}

	// YAML unmarshaling zeroes absent bool fields; restore the enabled-by-default
	// stages unless the file explicitly disabled them.
	if !containsField(data, "resolver", "enabled") {
		cfg.Resolver.Enabled = true
	}
	if !containsField(data, "fuzzy", "enabled") {
		cfg.Fuzzy.Enabled = true
	}

	if err := Validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// FindConfigFile looks for a configuration file in standard locations.
func FindConfigFile() string {
	candidates := []string{
		"config.yaml",
		"text-redact.yaml",
		"text-redact.yml",
		".text-redact.yaml",
		".text-redact.yml",
	}
	for _, name := range candidates {
		if fileExists(name) {
			return name
		}
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	xdgConfig := os.Getenv("XDG_CONFIG_HOME")
	if xdgConfig == "" {
		xdgConfig = filepath.Join(home, ".config")
	}
	for _, name := range []string{"config.yaml", "config.yml"} {
		candidate := filepath.Join(xdgConfig, "text-redact", name)
		if fileExists(candidate) {
			return candidate
		}
	}

	return ""
}

// Validate checks the configuration for out-of-range values. Violations are
// reported as *detector.ConfigError.
func Validate(cfg *Config) error {
	if cfg == nil {
		return &detector.ConfigError{Message: "configuration cannot be nil"}
	}
	if cfg.Dedup.ProximityThreshold < 0 {
		return &detector.ConfigError{
			Field:   "dedup.proximity_threshold",
			Message: fmt.Sprintf("must be non-negative, got %d", cfg.Dedup.ProximityThreshold),
		}
	}
	if cfg.Resolver.JaccardThreshold < 0 || cfg.Resolver.JaccardThreshold > 1 {
		return &detector.ConfigError{
			Field:   "resolver.jaccard_threshold",
			Message: fmt.Sprintf("must be within [0,1], got %g", cfg.Resolver.JaccardThreshold),
		}
	}
	if cfg.Fuzzy.SimilarityThreshold < 0 || cfg.Fuzzy.SimilarityThreshold > 1 {
		return &detector.ConfigError{
			Field:   "fuzzy.similarity_threshold",
			Message: fmt.Sprintf("must be within [0,1], got %g", cfg.Fuzzy.SimilarityThreshold),
		}
	}
	if cfg.Fuzzy.MinTermLength < 1 {
		return &detector.ConfigError{
			Field:   "fuzzy.min_term_length",
			Message: fmt.Sprintf("must be at least 1, got %d", cfg.Fuzzy.MinTermLength),
		}
	}
	return nil
}

// LoadConfigOrDefault loads configuration from configFile (or searches
// standard locations when configFile is empty). If loading fails, it returns
// the default configuration.
func LoadConfigOrDefault(configFile string) *Config {
	configPath := configFile
	if configPath == "" {
		configPath = FindConfigFile()
	}

	cfg, err := LoadConfig(configPath)
	if err != nil {
		return Default()
	}
	return cfg
}

// containsField checks if a nested field exists in the YAML data.
func containsField(data []byte, path ...string) bool {
	var yamlData map[string]interface{}
	if err := yaml.Unmarshal(data, &yamlData); err != nil {
		return false
	}

	current := yamlData
	for i, key := range path {
		if i == len(path)-1 {
			_, exists := current[key]
			return exists
		}
		next, ok := current[key].(map[string]interface{})
		if !ok {
			return false
		}
		current = next
	}
	return false
}

// fileExists checks if a file exists and is not a directory.
func fileExists(filename string) bool {
	info, err := os.Stat(filename)
	if os.IsNotExist(err) {
		return false
	}
	return err == nil && !info.IsDir()
}

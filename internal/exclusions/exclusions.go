// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package exclusions filters known false-positive detections before they
// enter the redaction pipeline.
package exclusions

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"text-redact/internal/detector"

	"gopkg.in/yaml.v3"
)

// List holds per-label sets of literal texts that must never be treated as
// entities. Lookups are case-sensitive on text and case-insensitive on label,
// matching recognizer output conventions.
type List struct {
	byLabel map[string]map[string]bool
}

// listFile is the on-disk shape: label -> excluded literal texts.
type listFile map[string][]string

// Empty returns a List that excludes nothing.
func Empty() *List {
	return &List{byLabel: map[string]map[string]bool{}}
}

// Load reads an exclusion list from a YAML file. A missing file yields an
// empty list, not an error; a malformed file is an error.
func Load(path string) (*List, error) {
	if path == "" {
		return Empty(), nil
	}

	cleanPath := filepath.Clean(path)
	data, err := os.ReadFile(cleanPath)
	if err != nil {
		if os.IsNotExist(err) {
			return Empty(), nil
		}
		return nil, fmt.Errorf("error reading exclusions file: %w", err)
	}

	var raw listFile
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("error parsing exclusions file: %w", err)
	}

	list := Empty()
	for label, texts := range raw {
		key := strings.ToLower(label)
		set := make(map[string]bool, len(texts))
		for _, t := range texts {
			set[strings.TrimSpace(t)] = true
		}
		list.byLabel[key] = set
	}
	return list, nil
}

// Excluded reports whether the given label/text pair is a known false
// positive.
func (l *List) Excluded(label, text string) bool {
	if l == nil || len(l.byLabel) == 0 {
		return false
	}
	set, ok := l.byLabel[strings.ToLower(label)]
	if !ok {
		return false
	}
	return set[strings.TrimSpace(text)]
}

// Filter returns the occurrences that are not excluded. The input is not
// mutated.
func (l *List) Filter(occs []detector.Occurrence) []detector.Occurrence {
	if l == nil || len(l.byLabel) == 0 {
		return occs
	}
	filtered := make([]detector.Occurrence, 0, len(occs))
	for _, occ := range occs {
		if l.Excluded(occ.Label, occ.Text) {
			continue
		}
		filtered = append(filtered, occ)
	}
	return filtered
}

// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package placeholder renders redaction tokens for entity clusters.
package placeholder

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"text-redact/internal/detector"
)

// formats is the fixed set of supported placeholder styles. Templates are
// plain substitution strings, never executable formatting.
var formats = map[string]string{
	"brackets":      "[{label}_{id}]",
	"angles":        "<{label}_{id}>",
	"double_angles": "<<{label}#{id}>>",
	"curly":         "{{label}_{id}}",
	"stars":         "***{label}_{id}***",
}

// FormatCustom selects the caller-supplied template.
const FormatCustom = "custom"

// Assigner renders placeholder strings for (label, id) pairs. The same pair
// always renders to the same string within one run.
type Assigner struct {
	template     string
	labelMapping map[string]string
}

// New builds an Assigner for the named format. The format must be one of the
// supported styles or "custom" with a template containing {label} and {id};
// anything else is a *detector.ConfigError. labelMapping substitutes a
// human-facing label name for the raw recognizer label.
func New(format, customTemplate string, labelMapping map[string]string) (*Assigner, error) {
	var template string
	switch {
	case format == FormatCustom:
		if !strings.Contains(customTemplate, "{label}") || !strings.Contains(customTemplate, "{id}") {
			return nil, &detector.ConfigError{
				Field:   "placeholder.template",
				Message: fmt.Sprintf("custom template %q must contain {label} and {id}", customTemplate),
			}
		}
		template = customTemplate
	default:
		known, ok := formats[format]
		if !ok {
			return nil, &detector.ConfigError{
				Field:   "placeholder.format",
				Message: fmt.Sprintf("unknown placeholder format %q (supported: %s)", format, strings.Join(Formats(), ", ")),
			}
		}
		template = known
	}

	return &Assigner{
		template:     template,
		labelMapping: labelMapping,
	}, nil
}

// Render produces the placeholder string for a cluster's (label, id) pair.
// Unmapped labels fall back to the upper-cased raw label.
func (a *Assigner) Render(label string, id int) string {
	display := strings.ToUpper(label)
	if a.labelMapping != nil {
		if mapped, ok := a.labelMapping[strings.ToLower(label)]; ok && mapped != "" {
			display = strings.ToUpper(mapped)
		}
	}

	out := strings.ReplaceAll(a.template, "{label}", display)
	return strings.ReplaceAll(out, "{id}", strconv.Itoa(id))
}

// Formats returns the supported style names in a stable order.
func Formats() []string {
	names := make([]string, 0, len(formats)+1)
	for name := range formats {
		names = append(names, name)
	}
	names = append(names, FormatCustom)
	sort.Strings(names)
	return names
}

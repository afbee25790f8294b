// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package yaml

import (
	"fmt"

	"text-redact/internal/detector"
	"text-redact/internal/engine"
	"text-redact/internal/formatters"

	yamlv3 "gopkg.in/yaml.v3"
)

// Formatter implements YAML output formatting.
type Formatter struct{}

// NewFormatter creates a new YAML formatter.
func NewFormatter() *Formatter {
	return &Formatter{}
}

func (f *Formatter) Name() string {
	return "yaml"
}

func (f *Formatter) Description() string {
	return "YAML output for configuration-friendly consumption"
}

func (f *Formatter) FileExtension() string {
	return ".yaml"
}

func (f *Formatter) Format(result *engine.Result, options formatters.Options) (string, error) {
	var payload any = result
	if options.SpansOnly {
		spans := result.Spans
		if spans == nil {
			spans = []detector.ReplacementSpan{}
		}
		payload = spans
	}

	data, err := yamlv3.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("error formatting YAML: %w", err)
	}
	return string(data), nil
}

// Register the formatter during package initialization.
func init() {
	formatters.Register(NewFormatter())
}

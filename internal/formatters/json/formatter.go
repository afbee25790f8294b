// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package json

import (
	"encoding/json"
	"fmt"

	"text-redact/internal/detector"
	"text-redact/internal/engine"
	"text-redact/internal/formatters"
)

// Formatter implements JSON output formatting.
type Formatter struct{}

// NewFormatter creates a new JSON formatter.
func NewFormatter() *Formatter {
	return &Formatter{}
}

func (f *Formatter) Name() string {
	return "json"
}

func (f *Formatter) Description() string {
	return "Structured JSON output for programmatic consumption"
}

func (f *Formatter) FileExtension() string {
	return ".json"
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

	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return "", fmt.Errorf("error formatting JSON: %w", err)
	}
	return string(data), nil
}

// Register the formatter during package initialization.
func init() {
	formatters.Register(NewFormatter())
}

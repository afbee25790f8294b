// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package text

import (
	"fmt"
	"strings"

	"text-redact/internal/engine"
	"text-redact/internal/formatters"

	"github.com/fatih/color"
)

// Formatter implements human-readable text output.
type Formatter struct {
	colors map[string]*color.Color
}

// NewFormatter creates a new text formatter.
func NewFormatter() *Formatter {
	return &Formatter{
		colors: map[string]*color.Color{
			"title":   color.New(color.FgWhite, color.Bold),
			"label":   color.New(color.FgCyan),
			"value":   color.New(color.FgWhite),
			"fuzzy":   color.New(color.FgYellow),
			"offsets": color.New(color.FgMagenta),
		},
	}
}

func (f *Formatter) Name() string {
	return "text"
}

func (f *Formatter) Description() string {
	return "Human-readable text output with the redacted document and mapping report"
}

func (f *Formatter) FileExtension() string {
	return ".txt"
}

func (f *Formatter) Format(result *engine.Result, options formatters.Options) (string, error) {
	if options.NoColor {
		color.NoColor = true
	}

	var builder strings.Builder

	if options.SpansOnly {
		f.appendSpans(&builder, result, options)
		return builder.String(), nil
	}

	f.writeTitle(&builder, options, "=== Redacted Text ===")
	builder.WriteString(result.RedactedText)
	if !strings.HasSuffix(result.RedactedText, "\n") {
		builder.WriteString("\n")
	}
	builder.WriteString("\n")

	f.writeTitle(&builder, options, "=== Mapping ===")
	if len(result.Mapping) == 0 {
		builder.WriteString("No entities redacted.\n")
		return builder.String(), nil
	}

	for _, entry := range result.Mapping.SortedEntries() {
		placeholderStr := entry.Placeholder
		canonicalStr := entry.Canonical
		if !options.NoColor {
			placeholderStr = f.colors["label"].Sprint(entry.Placeholder)
			canonicalStr = f.colors["value"].Sprint(entry.Canonical)
		}
		fmt.Fprintf(&builder, "%s -> %s (%d spans, score %.2f-%.2f mean %.2f)\n",
			placeholderStr, canonicalStr, len(entry.Spans),
			entry.Scores.Min, entry.Scores.Max, entry.Scores.Mean)

		if options.Verbose {
			for _, span := range entry.Spans {
				offsets := fmt.Sprintf("[%d,%d)", span.Start, span.End)
				if !options.NoColor {
					offsets = f.colors["offsets"].Sprint(offsets)
					if span.Source == "fuzzy" {
						offsets = f.colors["fuzzy"].Sprint(offsets)
					}
				}
				fmt.Fprintf(&builder, "  %s %s confidence %.2f\n", offsets, span.Source, span.Confidence)
			}
		}
	}

	return builder.String(), nil
}

// appendSpans renders the finalized span list as a table.
func (f *Formatter) appendSpans(builder *strings.Builder, result *engine.Result, options formatters.Options) {
	if len(result.Spans) == 0 {
		builder.WriteString("No spans found.\n")
		return
	}

	header := fmt.Sprintf("%-12s %-10s %-20s %-8s %s\n", "OFFSETS", "SOURCE", "PLACEHOLDER", "CONF", "LABEL")
	if !options.NoColor {
		header = f.colors["title"].Sprintf("%-12s %-10s %-20s %-8s %s\n", "OFFSETS", "SOURCE", "PLACEHOLDER", "CONF", "LABEL")
	}
	builder.WriteString(header)

	for _, span := range result.Spans {
		offsets := fmt.Sprintf("[%d,%d)", span.Start, span.End)
		fmt.Fprintf(builder, "%-12s %-10s %-20s %-8.2f %s\n",
			offsets, span.Source, span.Placeholder, span.Confidence, span.Label)
	}
}

func (f *Formatter) writeTitle(builder *strings.Builder, options formatters.Options, title string) {
	if !options.NoColor {
		f.colors["title"].Fprintf(builder, "%s\n", title)
		return
	}
	fmt.Fprintf(builder, "%s\n", title)
}

// Register the formatter during package initialization.
func init() {
	formatters.Register(NewFormatter())
}

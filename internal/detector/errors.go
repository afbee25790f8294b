// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package detector

import "fmt"

// ConfigError indicates an invalid configuration value, such as an unknown
// placeholder format name or a threshold outside [0,1]. It is unrecoverable
// for the document being processed.
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("configuration error: %s", e.Message)
	}
	return fmt.Sprintf("configuration error: %s: %s", e.Field, e.Message)
}

// SpanConflictError indicates that two finalized replacement spans overlap.
// This is a defensive invariant check: the pipeline stages are constructed so
// that it should never trigger.
type SpanConflictError struct {
	First  ReplacementSpan
	Second ReplacementSpan
}

func (e *SpanConflictError) Error() string {
	return fmt.Sprintf("span conflict: [%d,%d) %q overlaps [%d,%d) %q",
		e.First.Start, e.First.End, e.First.Placeholder,
		e.Second.Start, e.Second.End, e.Second.Placeholder)
}

// AlignmentError indicates that an occurrence's offsets do not correspond to
// its stated text within the document. It signals an upstream recognizer or
// chunker bug and is surfaced rather than silently corrected.
type AlignmentError struct {
	Occurrence Occurrence
	Actual     string
}

func (e *AlignmentError) Error() string {
	return fmt.Sprintf("alignment error: occurrence [%d,%d) claims %q but document contains %q",
		e.Occurrence.Start, e.Occurrence.End, e.Occurrence.Text, e.Actual)
}

// ValidateAlignment checks every occurrence against the document text and
// returns an AlignmentError for the first mismatch found.
func ValidateAlignment(text string, occs []Occurrence) error {
	for _, occ := range occs {
		if occ.Start < 0 || occ.End > len(text) || occ.Start >= occ.End {
			return &AlignmentError{Occurrence: occ, Actual: ""}
		}
		if actual := text[occ.Start:occ.End]; actual != occ.Text {
			return &AlignmentError{Occurrence: occ, Actual: actual}
		}
	}
	return nil
}

// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package detector

import "sort"

// Occurrence is one raw, position-tagged entity detection produced by the
// external recognizer. Start and End are half-open byte offsets into the
// original document text; Text is the exact substring document[Start:End].
// Occurrences are immutable once produced.
type Occurrence struct {
	Start int     `json:"start" yaml:"start"`
	End   int     `json:"end" yaml:"end"`
	Label string  `json:"label" yaml:"label"`
	Text  string  `json:"text" yaml:"text"`
	Score float64 `json:"score" yaml:"score"`
}

// Len returns the span length in bytes.
func (o Occurrence) Len() int {
	return o.End - o.Start
}

// Overlaps reports whether the occurrence span intersects [start, end).
func (o Occurrence) Overlaps(start, end int) bool {
	return o.Start < end && start < o.End
}

// Cluster groups occurrences believed to denote the same real-world entity.
// All members share the cluster's Label. Canonical is chosen deterministically
// (longest member text, ties broken by earliest start). ID is assigned by
// ascending FirstAppearance per label, so output is reproducible run-over-run.
type Cluster struct {
	ID              int          `json:"id" yaml:"id"`
	Label           string       `json:"label" yaml:"label"`
	Canonical       string       `json:"canonical" yaml:"canonical"`
	Members         []Occurrence `json:"members" yaml:"members"`
	FirstAppearance int          `json:"first_appearance" yaml:"first_appearance"`
}

// SpanSource identifies how a replacement span was produced.
type SpanSource string

const (
	// SourceDetected marks spans that come directly from recognizer detections.
	SourceDetected SpanSource = "detected"

	// SourceFuzzy marks spans discovered by the fuzzy variant matcher.
	SourceFuzzy SpanSource = "fuzzy"
)

// ReplacementSpan is a finalized substitution ready to be applied to the text.
// The final span set handed to the rewriter must be non-overlapping and sorted
// by Start.
type ReplacementSpan struct {
	Start       int        `json:"start" yaml:"start"`
	End         int        `json:"end" yaml:"end"`
	Label       string     `json:"label" yaml:"label"`
	ClusterID   int        `json:"cluster_id" yaml:"cluster_id"`
	Placeholder string     `json:"placeholder" yaml:"placeholder"`
	Source      SpanSource `json:"source" yaml:"source"`
	Confidence  float64    `json:"confidence" yaml:"confidence"`
}

// Overlaps reports whether the span intersects [start, end).
func (s ReplacementSpan) Overlaps(start, end int) bool {
	return s.Start < end && start < s.End
}

// SortOccurrences orders occurrences by ascending start offset, with longer
// spans first on equal starts so that more complete detections win downstream
// tie-breaks.
func SortOccurrences(occs []Occurrence) {
	sort.SliceStable(occs, func(i, j int) bool {
		if occs[i].Start != occs[j].Start {
			return occs[i].Start < occs[j].Start
		}
		return occs[i].Len() > occs[j].Len()
	})
}

// SortSpans orders replacement spans by ascending start offset.
func SortSpans(spans []ReplacementSpan) {
	sort.SliceStable(spans, func(i, j int) bool {
		return spans[i].Start < spans[j].Start
	})
}

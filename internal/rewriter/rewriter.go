// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package rewriter applies finalized replacement spans to the source text and
// produces the provenance mapping report.
package rewriter

import (
	"sort"

	"text-redact/internal/detector"
)

// ScoreStats aggregates confidence statistics over a cluster's member
// occurrence scores.
type ScoreStats struct {
	Min  float64 `json:"min" yaml:"min"`
	Max  float64 `json:"max" yaml:"max"`
	Mean float64 `json:"mean" yaml:"mean"`
}

// MappingEntry describes one placeholder in the output: its canonical
// original text, the spans it covers, and score statistics.
type MappingEntry struct {
	Placeholder string                     `json:"placeholder" yaml:"placeholder"`
	Label       string                     `json:"label" yaml:"label"`
	Canonical   string                     `json:"canonical" yaml:"canonical"`
	Spans       []detector.ReplacementSpan `json:"spans" yaml:"spans"`
	Scores      ScoreStats                 `json:"scores" yaml:"scores"`
}

// Mapping associates each placeholder string with its provenance.
type Mapping map[string]MappingEntry

// SortedEntries returns the mapping entries ordered by label, then by first
// covered offset, for deterministic report output.
func (m Mapping) SortedEntries() []MappingEntry {
	entries := make([]MappingEntry, 0, len(m))
	for _, e := range m {
		entries = append(entries, e)
	}
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].Label != entries[j].Label {
			return entries[i].Label < entries[j].Label
		}
		return firstStart(entries[i].Spans) < firstStart(entries[j].Spans)
	})
	return entries
}

func firstStart(spans []detector.ReplacementSpan) int {
	if len(spans) == 0 {
		return 0
	}
	return spans[0].Start
}

// Rewrite validates that the span set is non-overlapping and substitutes
// placeholders right to left, so earlier spans' offsets remain valid during
// substitution. Overlap is reported as *detector.SpanConflictError; it is a
// defensive check and should never trigger for spans built by the pipeline.
func Rewrite(text string, spans []detector.ReplacementSpan) (string, error) {
	if len(spans) == 0 {
		return text, nil
	}

	ordered := make([]detector.ReplacementSpan, len(spans))
	copy(ordered, spans)
	detector.SortSpans(ordered)

	for i := 1; i < len(ordered); i++ {
		if ordered[i-1].End > ordered[i].Start {
			return "", &detector.SpanConflictError{First: ordered[i-1], Second: ordered[i]}
		}
	}

	// Right-to-left substitution: later substitutions never shift offsets to
	// the left of an unprocessed span.
	out := text
	for i := len(ordered) - 1; i >= 0; i-- {
		s := ordered[i]
		out = out[:s.Start] + s.Placeholder + out[s.End:]
	}

	return out, nil
}

// BuildMapping assembles the provenance report: every placeholder appearing in
// the output maps to its cluster's canonical text, the full list of spans it
// replaced, and min/max/mean statistics over the member occurrence scores.
// Clusters whose every span was suppressed by overlap filtering cover nothing
// and get no entry: their placeholder never appears in the redacted text.
func BuildMapping(clusters []detector.Cluster, placeholders map[int]string, spans []detector.ReplacementSpan) Mapping {
	mapping := make(Mapping, len(clusters))

	spansByPlaceholder := make(map[string][]detector.ReplacementSpan)
	for _, s := range spans {
		spansByPlaceholder[s.Placeholder] = append(spansByPlaceholder[s.Placeholder], s)
	}

	for i, c := range clusters {
		ph := placeholders[i]
		covered := spansByPlaceholder[ph]
		if len(covered) == 0 {
			continue
		}
		detector.SortSpans(covered)
		mapping[ph] = MappingEntry{
			Placeholder: ph,
			Label:       c.Label,
			Canonical:   c.Canonical,
			Spans:       covered,
			Scores:      scoreStats(c.Members),
		}
	}

	return mapping
}

func scoreStats(members []detector.Occurrence) ScoreStats {
	if len(members) == 0 {
		return ScoreStats{}
	}
	stats := ScoreStats{Min: members[0].Score, Max: members[0].Score}
	sum := 0.0
	for _, m := range members {
		if m.Score < stats.Min {
			stats.Min = m.Score
		}
		if m.Score > stats.Max {
			stats.Max = m.Score
		}
		sum += m.Score
	}
	stats.Mean = sum / float64(len(members))
	return stats
}

// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package engine wires the redaction pipeline: exclusion filtering, span
// deduplication, entity resolution, placeholder assignment, fuzzy variant
// matching, and text rewriting. The engine holds no mutable state between
// invocations, so one Engine may serve concurrent documents.
package engine

import (
	"sort"

	"text-redact/internal/config"
	"text-redact/internal/dedup"
	"text-redact/internal/detector"
	"text-redact/internal/exclusions"
	"text-redact/internal/fuzzy"
	"text-redact/internal/placeholder"
	"text-redact/internal/resolver"
	"text-redact/internal/rewriter"
)

// Engine is the entity consolidation and redaction pipeline. Construct it
// with New; the zero value is not usable.
type Engine struct {
	cfg      *config.Config
	assigner *placeholder.Assigner
	excl     *exclusions.List
}

// Result is the outcome of redacting one document.
type Result struct {
	// RedactedText is the rewritten document.
	RedactedText string `json:"redacted_text" yaml:"redacted_text"`

	// Mapping associates each placeholder with its provenance.
	Mapping rewriter.Mapping `json:"mapping" yaml:"mapping"`

	// Spans is the finalized, non-overlapping replacement span list sorted
	// by start offset.
	Spans []detector.ReplacementSpan `json:"spans" yaml:"spans"`

	// Clusters are the resolved entity clusters, ordered by label and id.
	Clusters []detector.Cluster `json:"clusters" yaml:"clusters"`
}

// New validates the configuration and builds an Engine. Threshold violations
// and unknown placeholder formats are reported as *detector.ConfigError.
func New(cfg *config.Config) (*Engine, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	if err := config.Validate(cfg); err != nil {
		return nil, err
	}

	assigner, err := placeholder.New(cfg.Placeholder.Format, cfg.Placeholder.Template, cfg.Placeholder.LabelMapping)
	if err != nil {
		return nil, err
	}

	excl, err := exclusions.Load(cfg.ExclusionsFile)
	if err != nil {
		return nil, err
	}

	return &Engine{cfg: cfg, assigner: assigner, excl: excl}, nil
}

// SetExclusions replaces the false-positive exclusion list. Intended for
// callers that manage exclusions themselves instead of via the config file.
func (e *Engine) SetExclusions(list *exclusions.List) {
	e.excl = list
}

// Redact consolidates the detections, discovers fuzzy variants, and rewrites
// the document. A failing document returns an error without partial output.
func (e *Engine) Redact(text string, occs []detector.Occurrence) (*Result, error) {
	clusters, placeholders, spans, err := e.consolidate(text, occs)
	if err != nil {
		return nil, err
	}

	redacted, err := rewriter.Rewrite(text, spans)
	if err != nil {
		return nil, err
	}

	return &Result{
		RedactedText: redacted,
		Mapping:      rewriter.BuildMapping(clusters, placeholders, spans),
		Spans:        spans,
		Clusters:     clusters,
	}, nil
}

// Spans runs the pipeline without rewriting and returns the finalized,
// non-overlapping span list, for callers producing structured reports instead
// of redacted documents.
func (e *Engine) Spans(text string, occs []detector.Occurrence) ([]detector.ReplacementSpan, error) {
	_, _, spans, err := e.consolidate(text, occs)
	return spans, err
}

// consolidate runs stages 1-4 of the pipeline and returns the clusters, the
// per-cluster placeholder strings (keyed by cluster index), and the finalized
// span set sorted by start.
func (e *Engine) consolidate(text string, occs []detector.Occurrence) ([]detector.Cluster, map[int]string, []detector.ReplacementSpan, error) {
	if err := detector.ValidateAlignment(text, occs); err != nil {
		return nil, nil, nil, err
	}

	filtered := e.excl.Filter(occs)
	deduped := dedup.Deduplicate(filtered, e.cfg.Dedup.ProximityThreshold)

	var clusters []detector.Cluster
	if e.cfg.Resolver.Enabled {
		clusters, _ = resolver.Resolve(deduped, resolver.Options{
			CoreferenceLabels: e.cfg.Resolver.CoreferenceLabels,
			PersonLabel:       e.cfg.Resolver.PersonLabel,
			JaccardThreshold:  e.cfg.Resolver.JaccardThreshold,
		})
	} else {
		clusters, _ = resolver.ResolveSequential(deduped)
	}

	placeholders := make(map[int]string, len(clusters))
	for i, c := range clusters {
		placeholders[i] = e.assigner.Render(c.Label, c.ID)
	}

	spans := detectedSpans(clusters, placeholders)

	if e.cfg.Fuzzy.Enabled {
		variants := fuzzy.FindVariants(text, clusters, fuzzy.Options{
			SimilarityThreshold: e.cfg.Fuzzy.SimilarityThreshold,
			Suffixes:            e.cfg.Fuzzy.Suffixes,
			MinTermLength:       e.cfg.Fuzzy.MinTermLength,
		})
		byCluster := make(map[clusterKey]string, len(clusters))
		for i, c := range clusters {
			byCluster[clusterKey{c.Label, c.ID}] = placeholders[i]
		}
		for _, v := range variants {
			v.Placeholder = byCluster[clusterKey{v.Label, v.ClusterID}]
			spans = append(spans, v)
		}
	}

	detector.SortSpans(spans)
	return clusters, placeholders, spans, nil
}

type clusterKey struct {
	label string
	id    int
}

// detectedSpans converts cluster members into replacement spans, dropping
// cross-label overlaps by keeping the longest span (recognizers occasionally
// tag nested spans under different labels).
func detectedSpans(clusters []detector.Cluster, placeholders map[int]string) []detector.ReplacementSpan {
	var candidates []detector.ReplacementSpan
	for i, c := range clusters {
		for _, m := range c.Members {
			candidates = append(candidates, detector.ReplacementSpan{
				Start:       m.Start,
				End:         m.End,
				Label:       c.Label,
				ClusterID:   c.ID,
				Placeholder: placeholders[i],
				Source:      detector.SourceDetected,
				Confidence:  m.Score,
			})
		}
	}

	// Longest span wins; ties resolve to the earliest start for determinism.
	sort.SliceStable(candidates, func(i, j int) bool {
		li, lj := candidates[i].End-candidates[i].Start, candidates[j].End-candidates[j].Start
		if li != lj {
			return li > lj
		}
		return candidates[i].Start < candidates[j].Start
	})

	kept := make([]detector.ReplacementSpan, 0, len(candidates))
	for _, cand := range candidates {
		conflict := false
		for _, k := range kept {
			if k.Overlaps(cand.Start, cand.End) {
				conflict = true
				break
			}
		}
		if !conflict {
			kept = append(kept, cand)
		}
	}

	detector.SortSpans(kept)
	return kept
}

// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package fuzzy scans the full document text for additional occurrences of
// known entity clusters that the recognizer missed: possessive forms, case
// variants, and near-miss spellings.
package fuzzy

import (
	"sort"
	"strings"
	"unicode"

	"text-redact/internal/detector"
)

// nearMissLengthTolerance bounds the near-miss search to candidate substrings
// whose byte length is within this distance of the search term's length.
const nearMissLengthTolerance = 2

// Confidence values carried by fuzzy spans. Case-insensitive matches are
// exact under folding; suffix variants are slightly weaker; near-miss spans
// carry their similarity score instead.
const (
	caseVariantConfidence   = 1.0
	suffixVariantConfidence = 0.9
)

// Options configures the variant matcher.
type Options struct {
	// SimilarityThreshold is the minimum similarity ratio for near-miss
	// candidates.
	SimilarityThreshold float64

	// Suffixes are inflectional/possessive endings accepted immediately
	// after a known entity text, e.g. "s" for German possessives.
	Suffixes []string

	// MinTermLength skips search terms shorter than this to avoid
	// combinatorial false positives.
	MinTermLength int
}

// FindVariants searches text for additional mentions of each cluster that are
// not already covered by a detected occurrence. Clusters are processed in
// ascending (label, id) order and candidates in a single left-to-right pass
// per technique, so the reserved interval set grows monotonically and matches
// are reproducible.
//
// Search terms for a cluster are its distinct member texts, longest first: a
// cluster whose canonical text is "Anna Meier" must still yield the possessive
// "Annas" of its member "Anna". Clusters whose canonical text is shorter than
// MinTermLength are skipped entirely.
//
// The returned spans carry no placeholder text; the caller renders it from
// the cluster's (label, id).
func FindVariants(text string, clusters []detector.Cluster, opts Options) []detector.ReplacementSpan {
	if len(clusters) == 0 {
		return nil
	}

	ordered := make([]detector.Cluster, len(clusters))
	copy(ordered, clusters)
	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].Label != ordered[j].Label {
			return ordered[i].Label < ordered[j].Label
		}
		return ordered[i].ID < ordered[j].ID
	})

	// Every detected occurrence is reserved before any fuzzy candidate is
	// considered, across all clusters. Overlapping members (nested detections
	// under different labels) merge into one reserved interval, so whichever
	// of them survives the engine's longest-wins filter is fully covered.
	reserved := &intervalSet{}
	for _, c := range ordered {
		for _, m := range c.Members {
			reserved.add(m.Start, m.End)
		}
	}

	words := tokenizeWords(text)

	var found []detector.ReplacementSpan
	for _, c := range ordered {
		if len(c.Canonical) < opts.MinTermLength {
			continue
		}
		for _, term := range searchTerms(c, opts.MinTermLength) {
			found = append(found, matchTerm(text, words, term, c, reserved, opts)...)
		}
	}

	detector.SortSpans(found)
	return found
}

// matchTerm applies the three matching techniques for one search term, in
// fixed order: morphological suffix variants, case-insensitive variants,
// near-miss variants. Accepted candidates are reserved immediately so later
// techniques and clusters cannot claim overlapping spans.
func matchTerm(text string, words []wordSpan, term string, c detector.Cluster, reserved *intervalSet, opts Options) []detector.ReplacementSpan {
	var spans []detector.ReplacementSpan
	// Window sizes come from the same tokenizer as the text, so terms with
	// internal punctuation ("O'Brien") span the right number of words.
	termWords := len(tokenizeWords(term))
	if termWords == 0 {
		return nil
	}

	accept := func(start, end int, confidence float64) {
		spans = append(spans, detector.ReplacementSpan{
			Start:      start,
			End:        end,
			Label:      c.Label,
			ClusterID:  c.ID,
			Source:     detector.SourceFuzzy,
			Confidence: confidence,
		})
		reserved.add(start, end)
	}

	// Technique 1: suffix variants (term followed immediately by a suffix,
	// word boundary after the suffix).
	for _, suffix := range opts.Suffixes {
		if suffix == "" {
			continue
		}
		needle := term + suffix
		needleWords := len(tokenizeWords(needle))
		forEachCandidate(text, words, needleWords, func(start, end int, candidate string) {
			if reserved.overlaps(start, end) {
				return
			}
			if strings.EqualFold(candidate, needle) {
				accept(start, end, suffixVariantConfidence)
			}
		})
	}

	// Technique 2: case-insensitive variants.
	forEachCandidate(text, words, termWords, func(start, end int, candidate string) {
		if reserved.overlaps(start, end) {
			return
		}
		if strings.EqualFold(candidate, term) {
			accept(start, end, caseVariantConfidence)
		}
	})

	// Technique 3: near-miss variants, restricted to candidates of similar
	// length to bound the search.
	termLower := strings.ToLower(term)
	forEachNearCandidate(text, words, len(term), func(start, end int, candidate string) {
		if reserved.overlaps(start, end) {
			return
		}
		ratio := similarityRatio(strings.ToLower(candidate), termLower)
		if ratio >= opts.SimilarityThreshold {
			accept(start, end, ratio)
		}
	})

	return spans
}

// searchTerms returns the cluster's distinct member texts, longest first so
// the most complete form wins overlapping positions, ties broken
// lexicographically for determinism.
func searchTerms(c detector.Cluster, minLen int) []string {
	seen := make(map[string]bool, len(c.Members))
	var terms []string
	for _, m := range c.Members {
		text := strings.TrimSpace(m.Text)
		key := strings.ToLower(text)
		if len(text) < minLen || seen[key] {
			continue
		}
		seen[key] = true
		terms = append(terms, text)
	}
	sort.SliceStable(terms, func(i, j int) bool {
		if len(terms[i]) != len(terms[j]) {
			return len(terms[i]) > len(terms[j])
		}
		return terms[i] < terms[j]
	})
	return terms
}

// wordSpan is a maximal run of letters and digits, identified by half-open
// byte offsets. Candidates built from word spans respect word boundaries on
// both sides by construction, rejecting partial-word matches like "ann"
// inside "annual".
type wordSpan struct {
	start, end int
}

// tokenizeWords splits text into word spans.
func tokenizeWords(text string) []wordSpan {
	var words []wordSpan
	start := -1
	for i, r := range text {
		if isWordRune(r) {
			if start < 0 {
				start = i
			}
			continue
		}
		if start >= 0 {
			words = append(words, wordSpan{start, i})
			start = -1
		}
	}
	if start >= 0 {
		words = append(words, wordSpan{start, len(text)})
	}
	return words
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}

// forEachCandidate visits every candidate substring spanning exactly n
// consecutive words, left to right.
func forEachCandidate(text string, words []wordSpan, n int, visit func(start, end int, candidate string)) {
	for i := 0; i+n <= len(words); i++ {
		start, end := words[i].start, words[i+n-1].end
		visit(start, end, text[start:end])
	}
}

// forEachNearCandidate visits word-boundary-delimited substrings whose byte
// length is within nearMissLengthTolerance of targetLen, left to right.
func forEachNearCandidate(text string, words []wordSpan, targetLen int, visit func(start, end int, candidate string)) {
	for i := 0; i < len(words); i++ {
		for j := i; j < len(words); j++ {
			length := words[j].end - words[i].start
			if length > targetLen+nearMissLengthTolerance {
				break
			}
			if length < targetLen-nearMissLengthTolerance {
				continue
			}
			start, end := words[i].start, words[j].end
			visit(start, end, text[start:end])
		}
	}
}

// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package resolver groups deduplicated detections into canonical entities
// (coreference-style grouping) and assigns each cluster a stable identifier.
package resolver

import (
	"sort"
	"strings"

	"text-redact/internal/detector"
)

// Options configures the clusterer. Clustering is label-scoped: occurrences
// with different labels never merge.
type Options struct {
	// CoreferenceLabels are the labels eligible for subset and similarity
	// merging. Exact-text merging applies to every label.
	CoreferenceLabels []string

	// PersonLabel restricts the token-subset rule to the personal-name label.
	PersonLabel string

	// JaccardThreshold is the minimum token-set similarity for rule 3.
	JaccardThreshold float64
}

// Resolve groups occurrences into clusters using three ordered merge rules:
//
//  1. Exact match: normalized text equality, any label.
//  2. Subset match: whitespace-tokenized subset, personal-name label only.
//  3. Similarity merge: token-set Jaccard similarity above the threshold,
//     coreference-eligible labels only.
//
// The rules are applied as a single union-find merge. Clusters are sorted by
// the minimum start offset among their members and assigned sequential ids
// starting at 0, per label. An occurrence that matches no others becomes a
// singleton cluster.
//
// The returned assignment slice maps each input occurrence (by index) to its
// cluster's index in the returned cluster slice.
func Resolve(occs []detector.Occurrence, opts Options) ([]detector.Cluster, []int) {
	if len(occs) == 0 {
		return []detector.Cluster{}, []int{}
	}

	coref := make(map[string]bool, len(opts.CoreferenceLabels))
	for _, label := range opts.CoreferenceLabels {
		coref[strings.ToLower(label)] = true
	}

	norms := make([]string, len(occs))
	tokens := make([][]string, len(occs))
	for i, occ := range occs {
		norms[i] = normalize(occ.Text)
		tokens[i] = strings.Fields(norms[i])
	}

	// Group occurrence indices by label.
	byLabel := make(map[string][]int)
	for i, occ := range occs {
		byLabel[occ.Label] = append(byLabel[occ.Label], i)
	}

	uf := newUnionFind(len(occs))
	for label, indices := range byLabel {
		labelLower := strings.ToLower(label)
		subsetEligible := strings.EqualFold(label, opts.PersonLabel)
		similarityEligible := coref[labelLower]

		for x := 0; x < len(indices); x++ {
			for y := x + 1; y < len(indices); y++ {
				i, j := indices[x], indices[y]
				if norms[i] == norms[j] {
					uf.union(i, j)
					continue
				}
				if subsetEligible && (isTokenSubset(tokens[i], tokens[j]) || isTokenSubset(tokens[j], tokens[i])) {
					uf.union(i, j)
					continue
				}
				if similarityEligible && jaccard(tokens[i], tokens[j]) >= opts.JaccardThreshold {
					uf.union(i, j)
				}
			}
		}
	}

	return buildClusters(occs, func(i int) int { return uf.find(i) })
}

// ResolveSequential assigns each occurrence its own singleton cluster with
// sequential per-label ids in document order. Used when coreference grouping
// is disabled.
func ResolveSequential(occs []detector.Occurrence) ([]detector.Cluster, []int) {
	if len(occs) == 0 {
		return []detector.Cluster{}, []int{}
	}
	return buildClusters(occs, func(i int) int { return i })
}

// buildClusters materializes clusters from a root function, sorts them
// deterministically, and assigns per-label ids by first appearance.
func buildClusters(occs []detector.Occurrence, root func(int) int) ([]detector.Cluster, []int) {
	memberIndices := make(map[int][]int)
	var roots []int
	for i := range occs {
		r := root(i)
		if _, ok := memberIndices[r]; !ok {
			roots = append(roots, r)
		}
		memberIndices[r] = append(memberIndices[r], i)
	}

	clusters := make([]detector.Cluster, 0, len(roots))
	rootOf := make([]int, 0, len(roots))
	for _, r := range roots {
		indices := memberIndices[r]
		members := make([]detector.Occurrence, 0, len(indices))
		for _, idx := range indices {
			members = append(members, occs[idx])
		}
		sort.SliceStable(members, func(a, b int) bool {
			return members[a].Start < members[b].Start
		})

		clusters = append(clusters, detector.Cluster{
			Label:           members[0].Label,
			Canonical:       canonicalText(members),
			Members:         members,
			FirstAppearance: members[0].Start,
		})
		rootOf = append(rootOf, r)
	}

	// Deterministic ordering: by label, then by first appearance.
	order := make([]int, len(clusters))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		ca, cb := clusters[order[a]], clusters[order[b]]
		if ca.Label != cb.Label {
			return ca.Label < cb.Label
		}
		return ca.FirstAppearance < cb.FirstAppearance
	})

	sorted := make([]detector.Cluster, 0, len(clusters))
	clusterOfRoot := make(map[int]int)
	perLabel := make(map[string]int)
	for _, idx := range order {
		c := clusters[idx]
		c.ID = perLabel[c.Label]
		perLabel[c.Label]++
		clusterOfRoot[rootOf[idx]] = len(sorted)
		sorted = append(sorted, c)
	}

	assignment := make([]int, len(occs))
	for i := range occs {
		assignment[i] = clusterOfRoot[root(i)]
	}

	return sorted, assignment
}

// canonicalText picks the longest member text; ties break by earliest start.
// Members are already sorted by start, so the first longest wins.
func canonicalText(members []detector.Occurrence) string {
	canonical := ""
	for _, m := range members {
		if len(m.Text) > len(canonical) {
			canonical = m.Text
		}
	}
	return canonical
}

// normalize case-folds and collapses whitespace.
func normalize(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

// isTokenSubset reports whether every token of a appears among the tokens of
// b. Order is not required.
func isTokenSubset(a, b []string) bool {
	if len(a) == 0 || len(b) == 0 {
		return false
	}
	set := make(map[string]bool, len(b))
	for _, t := range b {
		set[t] = true
	}
	for _, t := range a {
		if !set[t] {
			return false
		}
	}
	return true
}

// jaccard computes token-set Jaccard similarity.
func jaccard(a, b []string) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 1.0
	}
	if len(a) == 0 || len(b) == 0 {
		return 0.0
	}

	setA := make(map[string]bool, len(a))
	for _, t := range a {
		setA[t] = true
	}
	setB := make(map[string]bool, len(b))
	for _, t := range b {
		setB[t] = true
	}

	intersection := 0
	for t := range setA {
		if setB[t] {
			intersection++
		}
	}
	union := len(setA) + len(setB) - intersection
	if union == 0 {
		return 0.0
	}
	return float64(intersection) / float64(union)
}

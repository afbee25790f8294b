// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package dedup removes near-duplicate raw detections produced by overlapping
// recognition windows.
package dedup

import (
	"sort"

	"text-redact/internal/detector"
)

// Deduplicate removes occurrences whose spans start within proximity bytes of
// an already-accepted occurrence with the same label. On a collision the
// occurrence with the higher score wins; on an exact score tie the larger span
// wins. The input is not mutated.
//
// The sweep is linear after sorting: each occurrence is compared only against
// the last accepted occurrence for its label.
func Deduplicate(occs []detector.Occurrence, proximity int) []detector.Occurrence {
	if len(occs) == 0 {
		return []detector.Occurrence{}
	}

	sorted := make([]detector.Occurrence, len(occs))
	copy(sorted, occs)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Start != sorted[j].Start {
			return sorted[i].Start < sorted[j].Start
		}
		if sorted[i].Score != sorted[j].Score {
			return sorted[i].Score > sorted[j].Score
		}
		return sorted[i].Len() > sorted[j].Len()
	})

	result := make([]detector.Occurrence, 0, len(sorted))
	// Index into result of the last accepted occurrence per label.
	lastAccepted := make(map[string]int)

	for _, occ := range sorted {
		idx, seen := lastAccepted[occ.Label]
		if !seen || occ.Start-result[idx].Start >= proximity {
			result = append(result, occ)
			lastAccepted[occ.Label] = len(result) - 1
			continue
		}

		// Duplicate detection of the same mention: keep the better one.
		if better(occ, result[idx]) {
			result[idx] = occ
		}
	}

	return result
}

// better reports whether a should replace b as the surviving duplicate.
func better(a, b detector.Occurrence) bool {
	if a.Score != b.Score {
		return a.Score > b.Score
	}
	return a.Len() > b.Len()
}

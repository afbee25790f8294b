// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package fuzzy

import "sort"

// intervalSet tracks reserved half-open byte ranges of the document. It grows
// monotonically during a matching pass so results are reproducible.
type intervalSet struct {
	// spans is kept sorted by start; members never overlap.
	spans [][2]int
}

// overlaps reports whether [start, end) intersects any reserved interval.
func (s *intervalSet) overlaps(start, end int) bool {
	// First interval whose end is past our start.
	i := sort.Search(len(s.spans), func(i int) bool {
		return s.spans[i][1] > start
	})
	return i < len(s.spans) && s.spans[i][0] < end
}

// add reserves [start, end), merging with any intervals it touches so the set
// stays sorted and non-overlapping.
func (s *intervalSet) add(start, end int) {
	// First interval that could merge with [start, end).
	i := sort.Search(len(s.spans), func(i int) bool {
		return s.spans[i][1] >= start
	})
	j := i
	for j < len(s.spans) && s.spans[j][0] <= end {
		if s.spans[j][0] < start {
			start = s.spans[j][0]
		}
		if s.spans[j][1] > end {
			end = s.spans[j][1]
		}
		j++
	}

	merged := make([][2]int, 0, len(s.spans)-(j-i)+1)
	merged = append(merged, s.spans[:i]...)
	merged = append(merged, [2]int{start, end})
	merged = append(merged, s.spans[j:]...)
	s.spans = merged
}

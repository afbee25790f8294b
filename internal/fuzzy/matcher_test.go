// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package fuzzy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"text-redact/internal/detector"
)

func defaultOptions() Options {
	return Options{
		SimilarityThreshold: 0.85,
		Suffixes:            []string{"s"},
		MinTermLength:       3,
	}
}

func personCluster(canonical string, members ...detector.Occurrence) detector.Cluster {
	return detector.Cluster{
		ID:        0,
		Label:     "person",
		Canonical: canonical,
		Members:   members,
	}
}

func TestFindVariants_PossessiveSuffix(t *testing.T) {
	text := "Anna schreibt. Annas Geschichte beginnt."
	cluster := personCluster("Anna",
		detector.Occurrence{Start: 0, End: 4, Label: "person", Text: "Anna", Score: 0.9},
	)

	spans := FindVariants(text, []detector.Cluster{cluster}, defaultOptions())
	require.Len(t, spans, 1)
	assert.Equal(t, 15, spans[0].Start)
	assert.Equal(t, 20, spans[0].End)
	assert.Equal(t, "Annas", text[spans[0].Start:spans[0].End])
	assert.Equal(t, detector.SourceFuzzy, spans[0].Source)
	assert.Equal(t, 0.9, spans[0].Confidence)
}

func TestFindVariants_CaseInsensitive(t *testing.T) {
	text := "ANNA kam. Dann kam Anna."
	cluster := personCluster("Anna",
		detector.Occurrence{Start: 19, End: 23, Label: "person", Text: "Anna", Score: 0.9},
	)

	spans := FindVariants(text, []detector.Cluster{cluster}, defaultOptions())
	require.Len(t, spans, 1)
	assert.Equal(t, "ANNA", text[spans[0].Start:spans[0].End])
	assert.Equal(t, 1.0, spans[0].Confidence)
}

func TestFindVariants_RejectsPartialWords(t *testing.T) {
	text := "The annual meeting. Anna attended."
	cluster := personCluster("Anna",
		detector.Occurrence{Start: 20, End: 24, Label: "person", Text: "Anna", Score: 0.9},
	)

	spans := FindVariants(text, []detector.Cluster{cluster}, defaultOptions())
	assert.Empty(t, spans, "\"annual\" must not match \"Anna\"")
}

func TestFindVariants_NearMiss(t *testing.T) {
	text := "Jonathan left. Jonathen returned."
	cluster := personCluster("Jonathan",
		detector.Occurrence{Start: 0, End: 8, Label: "person", Text: "Jonathan", Score: 0.9},
	)

	spans := FindVariants(text, []detector.Cluster{cluster}, defaultOptions())
	require.Len(t, spans, 1)
	assert.Equal(t, "Jonathen", text[spans[0].Start:spans[0].End])
	assert.InDelta(t, 0.875, spans[0].Confidence, 1e-9)
}

func TestFindVariants_MemberTextsAsSearchTerms(t *testing.T) {
	// A cluster whose canonical text is the long form must still catch the
	// possessive of its short member.
	text := "Anna kam spät. Annas Mutter rief an. Anna Meier ging heim."
	cluster := personCluster("Anna Meier",
		detector.Occurrence{Start: 0, End: 4, Label: "person", Text: "Anna", Score: 0.9},
		detector.Occurrence{Start: 38, End: 48, Label: "person", Text: "Anna Meier", Score: 0.95},
	)

	spans := FindVariants(text, []detector.Cluster{cluster}, defaultOptions())
	require.Len(t, spans, 1)
	assert.Equal(t, 16, spans[0].Start)
	assert.Equal(t, 21, spans[0].End)
	assert.Equal(t, "Annas", text[spans[0].Start:spans[0].End])
}

func TestFindVariants_DetectedSpansReserved(t *testing.T) {
	text := "Anna und Anna."
	cluster := personCluster("Anna",
		detector.Occurrence{Start: 0, End: 4, Label: "person", Text: "Anna", Score: 0.9},
		detector.Occurrence{Start: 9, End: 13, Label: "person", Text: "Anna", Score: 0.9},
	)

	spans := FindVariants(text, []detector.Cluster{cluster}, defaultOptions())
	assert.Empty(t, spans, "detected occurrences must not be rediscovered")
}

func TestFindVariants_NestedMembersFullyReserved(t *testing.T) {
	// A member nested inside another cluster's member must not punch a hole
	// in the reservation: the containing span stays fully covered regardless
	// of cluster processing order.
	text := "Anna Meier ging. Meier kam."
	loc := detector.Cluster{
		ID: 0, Label: "loc", Canonical: "Anna",
		Members: []detector.Occurrence{{Start: 0, End: 4, Label: "loc", Text: "Anna", Score: 0.8}},
	}
	person := detector.Cluster{
		ID: 0, Label: "person", Canonical: "Anna Meier",
		Members: []detector.Occurrence{
			{Start: 0, End: 10, Label: "person", Text: "Anna Meier", Score: 0.95},
			{Start: 17, End: 22, Label: "person", Text: "Meier", Score: 0.9},
		},
	}

	spans := FindVariants(text, []detector.Cluster{loc, person}, defaultOptions())
	assert.Empty(t, spans, "\"Meier\" at [5,10) lies inside a detected member and must stay reserved")
}

func TestFindVariants_ShortCanonicalSkipped(t *testing.T) {
	text := "Al kam. Al ging. Als Hund blieb."
	cluster := personCluster("Al",
		detector.Occurrence{Start: 0, End: 2, Label: "person", Text: "Al", Score: 0.9},
	)

	spans := FindVariants(text, []detector.Cluster{cluster}, defaultOptions())
	assert.Empty(t, spans, "clusters below MinTermLength are skipped")
}

func TestFindVariants_NoOverlapAcrossClusters(t *testing.T) {
	text := "Anna Meier sprach. ANNA MEIER lachte."
	first := detector.Cluster{
		ID: 0, Label: "person", Canonical: "Anna Meier",
		Members: []detector.Occurrence{{Start: 0, End: 10, Label: "person", Text: "Anna Meier", Score: 0.9}},
	}
	second := detector.Cluster{
		ID: 1, Label: "person", Canonical: "Meier",
		Members: []detector.Occurrence{{Start: 5, End: 10, Label: "person", Text: "Meier", Score: 0.8}},
	}

	spans := FindVariants(text, []detector.Cluster{first, second}, defaultOptions())
	for i := 0; i < len(spans); i++ {
		for j := i + 1; j < len(spans); j++ {
			assert.False(t, spans[i].Overlaps(spans[j].Start, spans[j].End),
				"spans %d and %d overlap", i, j)
		}
	}
	// The lower-id cluster is processed first and claims the full variant.
	require.NotEmpty(t, spans)
	assert.Equal(t, 0, spans[0].ClusterID)
	assert.Equal(t, "ANNA MEIER", text[spans[0].Start:spans[0].End])
}

func TestFindVariants_Deterministic(t *testing.T) {
	text := "Anna kam spät. Annas Mutter rief an. Anna Meier ging heim."
	cluster := personCluster("Anna Meier",
		detector.Occurrence{Start: 0, End: 4, Label: "person", Text: "Anna", Score: 0.9},
		detector.Occurrence{Start: 38, End: 48, Label: "person", Text: "Anna Meier", Score: 0.95},
	)

	first := FindVariants(text, []detector.Cluster{cluster}, defaultOptions())
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, FindVariants(text, []detector.Cluster{cluster}, defaultOptions()))
	}
}

func TestTokenizeWords(t *testing.T) {
	words := tokenizeWords("Anna kam spät.")
	require.Len(t, words, 3)
	assert.Equal(t, wordSpan{0, 4}, words[0])
	assert.Equal(t, wordSpan{5, 8}, words[1])
	assert.Equal(t, wordSpan{9, 14}, words[2])
}

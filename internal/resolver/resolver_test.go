// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package resolver

import (
	"reflect"
	"testing"

	"text-redact/internal/detector"
)

func defaultOptions() Options {
	return Options{
		CoreferenceLabels: []string{"person"},
		PersonLabel:       "person",
		JaccardThreshold:  0.8,
	}
}

func TestResolve_Empty(t *testing.T) {
	clusters, assignment := Resolve(nil, defaultOptions())
	if len(clusters) != 0 || len(assignment) != 0 {
		t.Fatalf("expected empty output, got %d clusters, %d assignments", len(clusters), len(assignment))
	}
}

func TestResolve_SubsetMerge(t *testing.T) {
	occs := []detector.Occurrence{
		{Start: 0, End: 4, Label: "person", Text: "Anna", Score: 0.9},
		{Start: 38, End: 48, Label: "person", Text: "Anna Meier", Score: 0.95},
	}

	clusters, assignment := Resolve(occs, defaultOptions())
	if len(clusters) != 1 {
		t.Fatalf("expected 1 cluster, got %d", len(clusters))
	}
	c := clusters[0]
	if c.ID != 0 {
		t.Errorf("expected cluster id 0, got %d", c.ID)
	}
	if c.Canonical != "Anna Meier" {
		t.Errorf("expected canonical \"Anna Meier\", got %q", c.Canonical)
	}
	if len(c.Members) != 2 {
		t.Errorf("expected 2 members, got %d", len(c.Members))
	}
	if !reflect.DeepEqual(assignment, []int{0, 0}) {
		t.Errorf("expected both occurrences assigned to cluster 0, got %v", assignment)
	}
}

func TestResolve_ExactMatchAnyLabel(t *testing.T) {
	occs := []detector.Occurrence{
		{Start: 0, End: 9, Label: "org", Text: "Acme Corp", Score: 0.9},
		{Start: 40, End: 50, Label: "org", Text: "ACME  corp", Score: 0.8},
	}

	clusters, _ := Resolve(occs, defaultOptions())
	if len(clusters) != 1 {
		t.Fatalf("expected exact-normalized merge for non-person label, got %d clusters", len(clusters))
	}
}

func TestResolve_LabelScoped(t *testing.T) {
	occs := []detector.Occurrence{
		{Start: 0, End: 6, Label: "person", Text: "Berlin", Score: 0.9},
		{Start: 20, End: 26, Label: "location", Text: "Berlin", Score: 0.9},
	}

	clusters, _ := Resolve(occs, defaultOptions())
	if len(clusters) != 2 {
		t.Fatalf("expected labels to never merge, got %d clusters", len(clusters))
	}
}

func TestResolve_SubsetRestrictedToPersonLabel(t *testing.T) {
	occs := []detector.Occurrence{
		{Start: 0, End: 4, Label: "org", Text: "Acme", Score: 0.9},
		{Start: 20, End: 29, Label: "org", Text: "Acme Corp", Score: 0.9},
	}

	clusters, _ := Resolve(occs, defaultOptions())
	if len(clusters) != 2 {
		t.Fatalf("subset rule must not apply to non-person labels, got %d clusters", len(clusters))
	}
}

func TestResolve_SimilarityMerge(t *testing.T) {
	opts := Options{
		CoreferenceLabels: []string{"org"},
		PersonLabel:       "person",
		JaccardThreshold:  0.6,
	}
	occs := []detector.Occurrence{
		{Start: 0, End: 13, Label: "org", Text: "Acme Corp Inc", Score: 0.9},
		{Start: 30, End: 39, Label: "org", Text: "Corp Acme", Score: 0.9},
	}

	clusters, _ := Resolve(occs, opts)
	if len(clusters) != 1 {
		t.Fatalf("expected Jaccard merge at 2/3 similarity against threshold 0.6, got %d clusters", len(clusters))
	}
}

func TestResolve_TransitiveChain(t *testing.T) {
	// "Anna" merges with "Anna Meier" (subset); "Meier" merges with
	// "Anna Meier" (subset); all three end up connected.
	occs := []detector.Occurrence{
		{Start: 0, End: 4, Label: "person", Text: "Anna", Score: 0.9},
		{Start: 20, End: 25, Label: "person", Text: "Meier", Score: 0.9},
		{Start: 40, End: 50, Label: "person", Text: "Anna Meier", Score: 0.9},
	}

	clusters, _ := Resolve(occs, defaultOptions())
	if len(clusters) != 1 {
		t.Fatalf("expected transitive merge into 1 cluster, got %d", len(clusters))
	}
	if len(clusters[0].Members) != 3 {
		t.Errorf("expected 3 members, got %d", len(clusters[0].Members))
	}
}

func TestResolve_PerLabelSequentialIDs(t *testing.T) {
	occs := []detector.Occurrence{
		{Start: 0, End: 4, Label: "person", Text: "Anna", Score: 0.9},
		{Start: 10, End: 16, Label: "org", Text: "Acme", Score: 0.9},
		{Start: 30, End: 35, Label: "person", Text: "Bruno", Score: 0.9},
		{Start: 50, End: 56, Label: "org", Text: "Initech", Score: 0.9},
	}

	clusters, _ := Resolve(occs, defaultOptions())
	if len(clusters) != 4 {
		t.Fatalf("expected 4 singleton clusters, got %d", len(clusters))
	}

	ids := map[string][]int{}
	for _, c := range clusters {
		ids[c.Label] = append(ids[c.Label], c.ID)
	}
	for label, got := range ids {
		if !reflect.DeepEqual(got, []int{0, 1}) {
			t.Errorf("label %s: expected sequential ids [0 1], got %v", label, got)
		}
	}
}

func TestResolve_Deterministic(t *testing.T) {
	occs := []detector.Occurrence{
		{Start: 0, End: 4, Label: "person", Text: "Anna", Score: 0.9},
		{Start: 20, End: 30, Label: "person", Text: "Anna Meier", Score: 0.95},
		{Start: 50, End: 55, Label: "person", Text: "Bruno", Score: 0.9},
		{Start: 70, End: 76, Label: "org", Text: "Acme", Score: 0.8},
	}

	first, firstAssignment := Resolve(occs, defaultOptions())
	for i := 0; i < 10; i++ {
		clusters, assignment := Resolve(occs, defaultOptions())
		if !reflect.DeepEqual(clusters, first) {
			t.Fatalf("run %d: clusters differ from first run", i)
		}
		if !reflect.DeepEqual(assignment, firstAssignment) {
			t.Fatalf("run %d: assignment differs from first run", i)
		}
	}
}

func TestResolveSequential(t *testing.T) {
	occs := []detector.Occurrence{
		{Start: 0, End: 4, Label: "person", Text: "Anna", Score: 0.9},
		{Start: 20, End: 24, Label: "person", Text: "Anna", Score: 0.9},
	}

	clusters, assignment := ResolveSequential(occs)
	if len(clusters) != 2 {
		t.Fatalf("expected 2 singleton clusters, got %d", len(clusters))
	}
	if clusters[0].ID != 0 || clusters[1].ID != 1 {
		t.Errorf("expected ids 0 and 1, got %d and %d", clusters[0].ID, clusters[1].ID)
	}
	if !reflect.DeepEqual(assignment, []int{0, 1}) {
		t.Errorf("expected assignment [0 1], got %v", assignment)
	}
}

func TestCanonicalText_LongestFirstWins(t *testing.T) {
	members := []detector.Occurrence{
		{Start: 0, End: 10, Text: "Anna Meier"},
		{Start: 20, End: 30, Text: "Meier Anna"},
	}
	if got := canonicalText(members); got != "Anna Meier" {
		t.Errorf("expected earliest longest member, got %q", got)
	}
}

func TestJaccard(t *testing.T) {
	tests := []struct {
		name string
		a, b []string
		want float64
	}{
		{"identical", []string{"anna", "meier"}, []string{"anna", "meier"}, 1.0},
		{"disjoint", []string{"anna"}, []string{"bruno"}, 0.0},
		{"partial", []string{"acme", "corp", "inc"}, []string{"acme", "corp"}, 2.0 / 3.0},
		{"both empty", nil, nil, 1.0},
		{"one empty", []string{"anna"}, nil, 0.0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := jaccard(tt.a, tt.b); got != tt.want {
				t.Errorf("jaccard(%v, %v) = %g, want %g", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

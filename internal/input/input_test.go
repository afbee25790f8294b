// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package input

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDetections(t *testing.T) {
	path := filepath.Join(t.TempDir(), "detections.json")
	content := `[
  {"start": 0, "end": 4, "label": "person", "text": "Anna", "score": 0.9},
  {"start": 38, "end": 48, "label": "person", "text": "Anna Meier", "score": 0.95}
]`
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("failed to write detections file: %v", err)
	}

	occs, err := LoadDetections(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(occs) != 2 {
		t.Fatalf("expected 2 occurrences, got %d", len(occs))
	}
	if occs[0].Text != "Anna" || occs[0].Start != 0 || occs[0].End != 4 {
		t.Errorf("first occurrence parsed wrong: %+v", occs[0])
	}
	if occs[1].Score != 0.95 {
		t.Errorf("expected score 0.95, got %g", occs[1].Score)
	}
}

func TestLoadDetections_MissingFile(t *testing.T) {
	if _, err := LoadDetections("/nonexistent/detections.json"); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestLoadDetections_MalformedJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "detections.json")
	if err := os.WriteFile(path, []byte("{not json"), 0600); err != nil {
		t.Fatalf("failed to write detections file: %v", err)
	}
	if _, err := LoadDetections(path); err == nil {
		t.Fatal("expected error for malformed JSON")
	}
}

func TestLoadDocument_PlainText(t *testing.T) {
	path := filepath.Join(t.TempDir(), "doc.txt")
	text := "Anna kam spät."
	if err := os.WriteFile(path, []byte(text), 0600); err != nil {
		t.Fatalf("failed to write document: %v", err)
	}

	got, err := LoadDocument(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != text {
		t.Errorf("document read verbatim: got %q, want %q", got, text)
	}
}

func TestLoadDocument_MissingFile(t *testing.T) {
	if _, err := LoadDocument("/nonexistent/doc.txt"); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestNormalizeWhitespace(t *testing.T) {
	in := "  Anna   kam  \n\n\tspät.  \n"
	want := "Anna kam\nspät."
	if got := normalizeWhitespace(in); got != want {
		t.Errorf("normalizeWhitespace = %q, want %q", got, want)
	}
}

// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package yaml

import (
	"strings"
	"testing"

	"text-redact/internal/detector"
	"text-redact/internal/engine"
	"text-redact/internal/formatters"

	yamlv3 "gopkg.in/yaml.v3"
)

func TestFormat(t *testing.T) {
	result := &engine.Result{
		RedactedText: "[PERSON_0] kam.",
		Spans: []detector.ReplacementSpan{
			{Start: 0, End: 4, Label: "person", ClusterID: 0, Placeholder: "[PERSON_0]", Source: detector.SourceDetected, Confidence: 0.9},
		},
	}

	f := NewFormatter()
	out, err := f.Format(result, formatters.Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var decoded map[string]any
	if err := yamlv3.Unmarshal([]byte(out), &decoded); err != nil {
		t.Fatalf("output is not valid YAML: %v", err)
	}
	if decoded["redacted_text"] != "[PERSON_0] kam." {
		t.Errorf("redacted_text = %v", decoded["redacted_text"])
	}
	if !strings.Contains(out, "cluster_id") {
		t.Error("expected snake_case field names in YAML output")
	}
}

func TestFormat_SpansOnly(t *testing.T) {
	result := &engine.Result{
		Spans: []detector.ReplacementSpan{
			{Start: 0, End: 4, Label: "person", Placeholder: "[PERSON_0]"},
		},
	}

	f := NewFormatter()
	out, err := f.Format(result, formatters.Options{SpansOnly: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var spans []map[string]any
	if err := yamlv3.Unmarshal([]byte(out), &spans); err != nil {
		t.Fatalf("spans-only output is not a YAML list: %v", err)
	}
	if len(spans) != 1 {
		t.Fatalf("expected 1 span, got %d", len(spans))
	}
}

func TestRegistered(t *testing.T) {
	if _, ok := formatters.Get("yaml"); !ok {
		t.Error("yaml formatter not registered")
	}
}

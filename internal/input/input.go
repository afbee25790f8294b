// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package input loads documents and recognizer detections from disk.
package input

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"text-redact/internal/detector"
)

// LoadDetections reads a JSON array of occurrences produced by an external
// recognizer. The file must contain objects with start, end, label, text and
// score fields.
func LoadDetections(path string) ([]detector.Occurrence, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading detections file: %w", err)
	}

	var occs []detector.Occurrence
	if err := json.Unmarshal(data, &occs); err != nil {
		return nil, fmt.Errorf("error parsing detections file %s: %w", path, err)
	}

	return occs, nil
}

// LoadDocument reads the document text to redact. Plain text files are read
// verbatim; PDF files are run through text extraction first. The format is
// chosen by file extension.
func LoadDocument(path string) (string, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if ext == ".pdf" {
		return extractPDFText(path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("error reading document: %w", err)
	}
	return string(data), nil
}

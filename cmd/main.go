// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"sort"

	"text-redact/internal/config"
	"text-redact/internal/engine"
	"text-redact/internal/exclusions"
	"text-redact/internal/formatters"
	_ "text-redact/internal/formatters/json"
	_ "text-redact/internal/formatters/text"
	_ "text-redact/internal/formatters/yaml"
	"text-redact/internal/input"
	"text-redact/internal/parallel"
	"text-redact/internal/version"

	"golang.org/x/term"
)

// Exit codes: 0 success, 1 processing error, 2 usage or configuration error.
const (
	exitOK      = 0
	exitRuntime = 1
	exitUsage   = 2
)

// batchEntry is one document in a batch manifest.
type batchEntry struct {
	ID         string `json:"id"`
	Text       string `json:"text"`
	Detections string `json:"detections"`
}

func main() {
	textFile := flag.String("text", "", "Path to the document to redact (plain text or PDF)")
	detectionsFile := flag.String("detections", "", "Path to the JSON detections file produced by the recognizer")
	batchFile := flag.String("batch", "", "Path to a JSON batch manifest of {id, text, detections} entries")
	configFile := flag.String("config", "", "Path to configuration file (searches standard locations if not specified)")
	exclusionsFile := flag.String("exclusions", "", "Path to a YAML false-positive exclusion list (overrides the config file setting)")
	outputFormat := flag.String("format", "text", "Output format: text, json, yaml")
	outputFile := flag.String("output", "", "Path to output file (if not specified, output to stdout)")
	spansOnly := flag.Bool("spans-only", false, "Output only the finalized replacement spans")
	verbose := flag.Bool("verbose", false, "Display per-span detail in text output")
	noColor := flag.Bool("no-color", false, "Disable colored output")
	workers := flag.Int("workers", 0, "Worker count for batch mode (default: number of CPUs)")
	showVersion := flag.Bool("version", false, "Show version information")
	flag.Parse()

	if *showVersion {
		fmt.Println(version.Info())
		os.Exit(exitOK)
	}

	if *batchFile == "" && (*textFile == "" || *detectionsFile == "") {
		fmt.Fprintf(os.Stderr, "Error: -text and -detections are required (or -batch for batch mode)\n\n")
		flag.Usage()
		os.Exit(exitUsage)
	}
	if *batchFile != "" && (*textFile != "" || *detectionsFile != "") {
		fmt.Fprintf(os.Stderr, "Error: -batch cannot be combined with -text or -detections\n")
		os.Exit(exitUsage)
	}

	if _, exists := formatters.Get(*outputFormat); !exists {
		fmt.Fprintf(os.Stderr, "Error: unsupported format '%s'. Available formats: %v\n", *outputFormat, formatters.List())
		os.Exit(exitUsage)
	}

	cfg, err := loadConfiguration(*configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(exitUsage)
	}

	eng, err := engine.New(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(exitUsage)
	}

	if *exclusionsFile != "" {
		list, err := exclusions.Load(*exclusionsFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(exitUsage)
		}
		eng.SetExclusions(list)
	}

	options := formatters.Options{
		NoColor:   *noColor || *outputFile != "" || !isTerminal(os.Stdout),
		SpansOnly: *spansOnly,
		Verbose:   *verbose,
	}

	var output string
	if *batchFile != "" {
		output, err = runBatch(eng, *batchFile, *outputFormat, options, *workers)
	} else {
		output, err = runSingle(eng, *textFile, *detectionsFile, *outputFormat, options)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(exitRuntime)
	}

	if err := writeOutput(output, *outputFile); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(exitRuntime)
	}
	os.Exit(exitOK)
}

// loadConfiguration loads the config file, falling back to standard search
// locations when none is specified. A missing explicit file is an error.
func loadConfiguration(configFile string) (*config.Config, error) {
	configPath := configFile
	if configPath == "" {
		configPath = config.FindConfigFile()
	}
	return config.LoadConfig(configPath)
}

// runSingle redacts one document and renders the result.
func runSingle(eng *engine.Engine, textFile, detectionsFile, format string, options formatters.Options) (string, error) {
	text, err := input.LoadDocument(textFile)
	if err != nil {
		return "", err
	}

	occs, err := input.LoadDetections(detectionsFile)
	if err != nil {
		return "", err
	}

	result, err := eng.Redact(text, occs)
	if err != nil {
		return "", err
	}

	return formatters.Export(format, result, options)
}

// runBatch redacts every document in the manifest concurrently. Document
// failures are reported per entry without aborting the batch; the batch fails
// only if every document fails.
func runBatch(eng *engine.Engine, batchFile, format string, options formatters.Options, workers int) (string, error) {
	data, err := os.ReadFile(batchFile)
	if err != nil {
		return "", fmt.Errorf("error reading batch manifest: %w", err)
	}

	var entries []batchEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return "", fmt.Errorf("error parsing batch manifest %s: %w", batchFile, err)
	}

	jobs := make([]parallel.Job, 0, len(entries))
	for i, entry := range entries {
		id := entry.ID
		if id == "" {
			id = fmt.Sprintf("doc-%d", i)
		}

		text, err := input.LoadDocument(entry.Text)
		if err != nil {
			return "", fmt.Errorf("entry %s: %w", id, err)
		}
		occs, err := input.LoadDetections(entry.Detections)
		if err != nil {
			return "", fmt.Errorf("entry %s: %w", id, err)
		}

		jobs = append(jobs, parallel.Job{ID: id, Text: text, Occurrences: occs})
	}

	results := parallel.RedactAll(context.Background(), eng, jobs, workers)

	ids := make([]string, 0, len(results))
	for id := range results {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	var out string
	failed := 0
	for _, id := range ids {
		r := results[id]
		if r.Err != nil {
			failed++
			fmt.Fprintf(os.Stderr, "Warning: %s failed: %v\n", id, r.Err)
			continue
		}

		rendered, err := formatters.Export(format, r.Output, options)
		if err != nil {
			return "", fmt.Errorf("entry %s: %w", id, err)
		}
		out += fmt.Sprintf("=== %s ===\n%s\n", id, rendered)
	}

	if failed == len(results) && len(results) > 0 {
		return "", fmt.Errorf("all %d documents failed", failed)
	}
	return out, nil
}

// writeOutput writes to the output file, or stdout when no file is given.
func writeOutput(output, outputFile string) error {
	if outputFile == "" {
		fmt.Print(output)
		return nil
	}
	if err := os.WriteFile(outputFile, []byte(output), 0600); err != nil {
		return fmt.Errorf("error writing output file: %w", err)
	}
	return nil
}

// isTerminal checks if the file descriptor is a terminal
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package formatters renders redaction results for different consumers.
package formatters

import (
	"fmt"
	"sort"
	"strings"

	"text-redact/internal/engine"
)

// Options defines configuration options for formatters.
type Options struct {
	// NoColor disables colored output.
	NoColor bool

	// SpansOnly limits output to the finalized span list (no redacted text
	// or mapping report).
	SpansOnly bool

	// Verbose includes per-span detail in human-readable output.
	Verbose bool
}

// Formatter is implemented by every output format.
type Formatter interface {
	// Format renders a redaction result.
	Format(result *engine.Result, options Options) (string, error)

	// Name returns the format name (e.g. "json", "text").
	Name() string

	// Description returns a brief description of the output.
	Description() string

	// FileExtension returns the recommended file extension.
	FileExtension() string
}

// Registry holds all registered formatters.
type Registry struct {
	formatters map[string]Formatter
}

// NewRegistry creates an empty formatter registry.
func NewRegistry() *Registry {
	return &Registry{formatters: make(map[string]Formatter)}
}

// Register adds a formatter to the registry.
func (r *Registry) Register(f Formatter) {
	r.formatters[f.Name()] = f
}

// Get retrieves a formatter by name.
func (r *Registry) Get(name string) (Formatter, bool) {
	f, exists := r.formatters[name]
	return f, exists
}

// List returns all registered formatter names, sorted.
func (r *Registry) List() []string {
	names := make([]string, 0, len(r.formatters))
	for name := range r.formatters {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DefaultRegistry is the global formatter registry.
var DefaultRegistry = NewRegistry()

// Register adds a formatter to the default registry.
func Register(f Formatter) {
	DefaultRegistry.Register(f)
}

// Get retrieves a formatter from the default registry.
func Get(name string) (Formatter, bool) {
	return DefaultRegistry.Get(name)
}

// List returns all formatter names in the default registry.
func List() []string {
	return DefaultRegistry.List()
}

// Export renders a result in the named format.
func Export(format string, result *engine.Result, options Options) (string, error) {
	f, exists := Get(format)
	if !exists {
		return "", fmt.Errorf("unsupported format '%s'. Available formats: %s", format, strings.Join(List(), ", "))
	}
	return f.Format(result, options)
}

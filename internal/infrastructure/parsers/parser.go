// Package parsers provides parsers for importing questions from various formats.
package parsers

import (
	"io"
	"path/filepath"
	"strings"
)

// RawQuestion represents a question parsed from an external source before validation.
type RawQuestion struct {
	Text       string `json:"text" yaml:"text"`
	ControlRef string `json:"control_ref,omitempty" yaml:"control_ref,omitempty"`
	LineNum    int    `json:"-" yaml:"-"` // Position in source file (set by parser)
}

// Parser defines the interface for parsing questions from various formats.
type Parser interface {
	Parse(r io.Reader) ([]RawQuestion, error)
}

// ForFormat returns the appropriate parser for the given format.
// Supported formats: "json", "csv", "yaml".
func ForFormat(format string) Parser {
	switch strings.ToLower(format) {
	case "json":
		return &JSONParser{}
	case "csv":
		return &CSVParser{}
	case "yaml", "yml":
		return &YAMLParser{}
	default:
		return nil
	}
}

// ForFile returns the appropriate parser based on file extension.
func ForFile(filename string) Parser {
	return ForFormat(strings.TrimPrefix(filepath.Ext(filename), "."))
}

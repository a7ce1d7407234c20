package main

// Default limits for CLI commands.
const (
	DefaultLogLimit = 20
	// MaxTitleWidth truncates audit titles in tables.
	MaxTitleWidth = 40
)

// Valid report formats.
var validFormats = []string{"json", "csv", "markdown"}

// Valid question import formats.
var validImportFormats = []string{"auto", "json", "csv", "yaml"}

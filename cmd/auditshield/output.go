package main

import (
	"fmt"
	"io"
	"os"

	"golang.org/x/term"

	"github.com/ersonp/auditshield/internal/domain/entities"
	"github.com/ersonp/auditshield/internal/domain/services"
	"github.com/ersonp/auditshield/internal/infrastructure/config"
)

// ANSI color codes
const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorCyan   = "\033[36m"
	colorBold   = "\033[1m"
)

// printer writes CLI output, colored when the mode and terminal allow it.
type printer struct {
	w         io.Writer
	useColors bool
}

// newPrinter creates a printer. mode is one of the config color modes; the
// --color flag wins over it when set.
func newPrinter(w io.Writer, mode string) *printer {
	if globalColor != "" {
		mode = globalColor
	}
	return &printer{w: w, useColors: shouldColor(w, mode)}
}

func shouldColor(w io.Writer, mode string) bool {
	switch mode {
	case config.ColorAlways:
		return true
	case config.ColorNever:
		return false
	}
	if os.Getenv(config.EnvNoColor) != "" {
		return false
	}
	return isTerminal(w)
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func (p *printer) paint(color, s string) string {
	if !p.useColors {
		return s
	}
	return color + s + colorReset
}

func (p *printer) bold(s string) string {
	return p.paint(colorBold, s)
}

// Success prints a success message.
func (p *printer) Success(format string, args ...any) {
	fmt.Fprintln(p.w, p.paint(colorGreen, "✓")+" "+fmt.Sprintf(format, args...))
}

// Warning prints a warning message.
func (p *printer) Warning(format string, args ...any) {
	fmt.Fprintln(p.w, p.paint(colorYellow, "!")+" "+fmt.Sprintf(format, args...))
}

// Printf prints uncolored text.
func (p *printer) Printf(format string, args ...any) {
	fmt.Fprintf(p.w, format, args...)
}

// risk renders a risk level in its severity color.
func (p *printer) risk(level entities.RiskLevel) string {
	switch level {
	case entities.RiskLow:
		return p.paint(colorGreen, string(level))
	case entities.RiskMedium:
		return p.paint(colorYellow, string(level))
	case entities.RiskHigh, entities.RiskCritical:
		return p.paint(colorRed, string(level))
	}
	return string(level)
}

func (p *printer) readiness(r services.ReadinessStatus) string {
	switch r {
	case services.ReadinessHigh:
		return p.paint(colorGreen, string(r))
	case services.ReadinessMedium:
		return p.paint(colorYellow, string(r))
	}
	return p.paint(colorRed, string(r))
}

func (p *printer) status(s entities.AuditStatus) string {
	if s == entities.AuditStatusCompleted {
		return p.paint(colorGreen, string(s))
	}
	return p.paint(colorCyan, string(s))
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

func contains(slice []string, s string) bool {
	for _, v := range slice {
		if v == s {
			return true
		}
	}
	return false
}

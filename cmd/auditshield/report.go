package main

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ersonp/auditshield/internal/application/handlers"
)

type reportFlags struct {
	format string
	output string
}

type reporter struct {
	format string
	output string
}

func newReportCmd() *cobra.Command {
	var flags reportFlags

	cmd := &cobra.Command{
		Use:   "report <audit-id>",
		Short: "Generate an audit report",
		Long:  "Writes an audit's score, per-control compliance, findings and answers as JSON, CSV or Markdown.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReport(cmd, args, flags)
		},
	}

	cmd.Flags().StringVarP(&flags.format, "format", "f", "markdown", "Output format: json, csv, markdown")
	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "Output file (default: stdout)")

	return cmd
}

func runReport(cmd *cobra.Command, args []string, flags reportFlags) error {
	if !contains(validFormats, flags.format) {
		return fmt.Errorf("invalid format %q, valid formats: %v", flags.format, validFormats)
	}

	id, err := parseID(args[0])
	if err != nil {
		return err
	}

	return withDeps(cmd.Context(), func(d *Deps) error {
		report, err := d.Reports.Handle(cmd.Context(), id)
		if err != nil {
			return err
		}
		r := &reporter{format: flags.format, output: flags.output}
		return r.write(report)
	})
}

func (r *reporter) write(report *handlers.Report) (err error) {
	var w io.Writer
	var f *os.File

	if r.output != "" {
		f, err = os.OpenFile(r.output, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
		if err != nil {
			return fmt.Errorf("creating file: %w", err)
		}
		defer func() {
			if cerr := f.Close(); cerr != nil && err == nil {
				err = fmt.Errorf("closing file: %w", cerr)
			}
		}()
		w = f
	} else {
		w = os.Stdout
	}

	if err := formatReport(w, r.format, report); err != nil {
		return fmt.Errorf("formatting output: %w", err)
	}

	if r.output != "" {
		fmt.Printf("Wrote report for audit %d to %s\n", report.Audit.ID, r.output)
	}

	return nil
}

func formatReport(w io.Writer, format string, report *handlers.Report) error {
	switch format {
	case "json":
		return formatJSON(w, report)
	case "csv":
		return formatCSV(w, report)
	case "markdown":
		return formatMarkdown(w, report)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

func formatJSON(w io.Writer, report *handlers.Report) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(report)
}

// formatCSV writes one row per question.
func formatCSV(w io.Writer, report *handlers.Report) error {
	writer := csv.NewWriter(w)

	header := []string{"audit_id", "question_id", "control_ref", "question", "answer", "comment", "level", "complete"}
	if err := writer.Write(header); err != nil {
		return err
	}

	auditID := strconv.FormatInt(report.Audit.ID, 10)
	for _, item := range report.Items {
		row := []string{
			auditID,
			strconv.FormatInt(item.QuestionID, 10),
			item.ControlRef,
			item.Question,
			item.Answer,
			item.Comment,
			item.Level,
			strconv.FormatBool(item.Complete),
		}
		if err := writer.Write(row); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}

func formatMarkdown(w io.Writer, report *handlers.Report) error {
	var b strings.Builder
	a := report.Audit

	fmt.Fprintf(&b, "# Audit Report: %s\n\n", escapeMarkdown(a.Title))
	fmt.Fprintf(&b, "- Framework: %s\n", a.ISOControl)
	fmt.Fprintf(&b, "- Status: %s\n", a.Status)
	fmt.Fprintf(&b, "- Score: %d/%d\n", a.Score, a.MaxScore)
	fmt.Fprintf(&b, "- Risk level: %s\n", a.RiskLevel)
	if !report.GeneratedAt.IsZero() {
		fmt.Fprintf(&b, "- Generated: %s\n", report.GeneratedAt.Format("2006-01-02 15:04 MST"))
	}
	fmt.Fprintf(&b, "\n> %s\n\n", report.Recommendation.Advice)

	b.WriteString("## Summary\n\n")
	fmt.Fprintf(&b, "| Yes | Partial | No | Unanswered | Incomplete | Major NC | Minor NC |\n")
	fmt.Fprintf(&b, "|-----|---------|----|------------|------------|----------|----------|\n")
	fmt.Fprintf(&b, "| %d | %d | %d | %d | %d | %d | %d |\n\n",
		report.Yes, report.Partial, report.No, report.Unanswered, report.Incomplete, report.MajorNC, report.MinorNC)

	if len(report.Controls) > 0 {
		b.WriteString("## Compliance by Control\n\n")
		b.WriteString("| Control | Compliance | Answers |\n")
		b.WriteString("|---------|------------|---------|\n")
		for _, c := range report.Controls {
			fmt.Fprintf(&b, "| %s | %.2f%% | %d |\n", c.Control, c.Compliance, c.Answers)
		}
		b.WriteString("\n")
	}

	if len(report.Findings) > 0 {
		b.WriteString("## Findings\n\n")
		b.WriteString("| Control | Level | Comment |\n")
		b.WriteString("|---------|-------|---------|\n")
		for _, f := range report.Findings {
			fmt.Fprintf(&b, "| %s | %s | %s |\n", f.ControlRef, f.Level, escapeMarkdown(f.Comment))
		}
		b.WriteString("\n")
	}

	b.WriteString("## Answers\n\n")
	b.WriteString("| # | Control | Question | Answer | Comment |\n")
	b.WriteString("|---|---------|----------|--------|---------|\n")
	for _, item := range report.Items {
		answer := item.Answer
		if item.Level != "" {
			answer += " (" + item.Level + ")"
		}
		fmt.Fprintf(&b, "| %d | %s | %s | %s | %s |\n",
			item.QuestionID,
			item.ControlRef,
			escapeMarkdown(item.Question),
			answer,
			escapeMarkdown(item.Comment),
		)
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func escapeMarkdown(s string) string {
	s = strings.ReplaceAll(s, "|", "\\|")
	s = strings.ReplaceAll(s, "\n", " ")
	return s
}

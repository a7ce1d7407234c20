package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/sergi/go-diff/diffmatchpatch"
	"github.com/spf13/cobra"

	"github.com/ersonp/auditshield/internal/application/handlers"
)

func newAuditsCompareCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "compare <audit-id> <audit-id>",
		Short: "Compare the reports of two audits",
		Long:  "Prints a line diff of the Markdown reports of two audits.",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			first, err := parseID(args[0])
			if err != nil {
				return err
			}
			second, err := parseID(args[1])
			if err != nil {
				return err
			}
			return withDeps(cmd.Context(), func(d *Deps) error {
				before, err := d.Reports.Handle(cmd.Context(), first)
				if err != nil {
					return err
				}
				after, err := d.Reports.Handle(cmd.Context(), second)
				if err != nil {
					return err
				}
				diff, err := diffReports(before, after)
				if err != nil {
					return err
				}
				printDiff(newPrinter(os.Stdout, d.Config.Output.Color), diff)
				return nil
			})
		},
	}
}

// diffLine is one line of a report diff. Op is '+', '-' or ' '.
type diffLine struct {
	Op   byte
	Text string
}

// diffReports diffs the Markdown renderings of two reports line by line.
// Generation times are left out so identical audits produce no changes.
func diffReports(before, after *handlers.Report) ([]diffLine, error) {
	a, err := renderForDiff(before)
	if err != nil {
		return nil, err
	}
	b, err := renderForDiff(after)
	if err != nil {
		return nil, err
	}
	return diffLines(a, b), nil
}

func renderForDiff(report *handlers.Report) (string, error) {
	r := *report
	r.GeneratedAt = time.Time{}
	var b strings.Builder
	if err := formatMarkdown(&b, &r); err != nil {
		return "", fmt.Errorf("rendering report %d: %w", report.Audit.ID, err)
	}
	return b.String(), nil
}

func diffLines(before, after string) []diffLine {
	dmp := diffmatchpatch.New()
	chars1, chars2, lines := dmp.DiffLinesToChars(before, after)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(chars1, chars2, false), lines)

	var out []diffLine
	for _, d := range diffs {
		op := byte(' ')
		switch d.Type {
		case diffmatchpatch.DiffInsert:
			op = '+'
		case diffmatchpatch.DiffDelete:
			op = '-'
		}
		for _, line := range strings.Split(strings.TrimSuffix(d.Text, "\n"), "\n") {
			out = append(out, diffLine{Op: op, Text: line})
		}
	}
	return out
}

func printDiff(p *printer, lines []diffLine) {
	changed := 0
	for _, l := range lines {
		text := string(l.Op) + " " + l.Text
		switch l.Op {
		case '+':
			changed++
			text = p.paint(colorGreen, text)
		case '-':
			changed++
			text = p.paint(colorRed, text)
		}
		p.Printf("%s\n", text)
	}
	if changed == 0 {
		p.Printf("\nNo differences.\n")
	}
}

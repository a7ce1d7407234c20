package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ersonp/auditshield/internal/domain/services"
)

const clearScreen = "\033[H\033[2J"

type dashboardFlags struct {
	watch bool
	json  bool
}

func newDashboardCmd() *cobra.Command {
	var flags dashboardFlags

	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Show compliance statistics across all audits",
		Long: `Aggregates every answer of every audit into answer distribution, global
and per-control compliance, non-conformities, findings, the score trend and
certification readiness.

With --watch the dashboard is redrawn after every change until interrupted.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDashboard(cmd, flags)
		},
	}

	cmd.Flags().BoolVarP(&flags.watch, "watch", "w", false, "Redraw on every change until interrupted")
	cmd.Flags().BoolVar(&flags.json, "json", false, "Print JSON instead of text")

	return cmd
}

func runDashboard(cmd *cobra.Command, flags dashboardFlags) error {
	ctx := cmd.Context()

	return withDeps(ctx, func(d *Deps) error {
		p := newPrinter(os.Stdout, d.Config.Output.Color)
		render := func(dash *services.Dashboard) error {
			if flags.json {
				return writeDashboardJSON(os.Stdout, dash)
			}
			renderDashboard(p, dash)
			return nil
		}

		if !flags.watch {
			dash, err := d.Dashboard.Handle(ctx)
			if err != nil {
				return err
			}
			return render(dash)
		}

		interactive := !flags.json && isTerminal(os.Stdout)
		sub, err := d.Dashboard.Watch(ctx, func(dash *services.Dashboard, err error) {
			if err != nil {
				fmt.Fprintf(os.Stderr, "error: %v\n", err)
				return
			}
			if interactive {
				fmt.Print(clearScreen)
			}
			if err := render(dash); err != nil {
				fmt.Fprintf(os.Stderr, "error: %v\n", err)
			}
		})
		if err != nil {
			return err
		}
		defer sub.Close()

		<-ctx.Done()
		return nil
	})
}

func writeDashboardJSON(w io.Writer, dash *services.Dashboard) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(dash)
}

func renderDashboard(p *printer, d *services.Dashboard) {
	s := d.Stats
	p.Printf("%s\n", p.bold("Compliance Dashboard"))
	p.Printf("Audits: %d (%d completed), average score %d%%, %d high risk\n\n",
		s.Total, s.Completed, s.AverageScore, s.HighRisk)

	if d.Empty {
		p.Printf("No answers yet. Create an audit with 'auditshield audits create'.\n")
		return
	}

	p.Printf("Answers: %d\n", d.TotalAnswers)
	p.Printf("  Yes      %6.2f%%  %s\n", d.YesPct, bar(d.YesPct))
	p.Printf("  Partial  %6.2f%%  %s\n", d.PartialPct, bar(d.PartialPct))
	p.Printf("  No       %6.2f%%  %s\n\n", d.NoPct, bar(d.NoPct))

	p.Printf("Global compliance: %.2f%%\n", d.GlobalCompliance)
	p.Printf("Readiness:         %s\n", p.readiness(d.Readiness))
	p.Printf("Non-conformities:  %d major, %d minor, %d observations\n\n", d.MajorNC, d.MinorNC, d.Observations)

	if len(d.Controls) > 0 {
		p.Printf("%s\n", p.bold("Compliance by control"))
		for _, c := range d.Controls {
			p.Printf("  %-8s %6.2f%%  %s\n", c.Control, c.Compliance, bar(c.Compliance))
		}
		p.Printf("\n")
	}

	if len(d.Trend) > 0 {
		p.Printf("%s\n", p.bold("Score trend"))
		for _, t := range d.Trend {
			p.Printf("  #%-4d %3d%%  %s\n", t.AuditID, t.Score, truncate(t.Title, MaxTitleWidth))
		}
		p.Printf("\n")
	}

	if len(d.Findings) > 0 {
		p.Printf("%s\n", p.bold("Findings"))
		for _, f := range d.Findings {
			comment := f.Comment
			if comment == "" {
				comment = "(no comment)"
			}
			p.Printf("  audit %-4d %-8s %-5s %s\n", f.AuditID, f.ControlRef, f.Level, comment)
		}
	}
}

// bar draws a 20-cell bar for a percentage.
func bar(pct float64) string {
	const width = 20
	filled := int(pct/100*width + 0.5)
	if filled < 0 {
		filled = 0
	}
	if filled > width {
		filled = width
	}
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}

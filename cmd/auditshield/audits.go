package main

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ersonp/auditshield/internal/application/handlers"
	"github.com/ersonp/auditshield/internal/domain/entities"
)

func newAuditsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "audits",
		Short: "Manage audits",
		Long:  "Create, list, inspect, finish, delete and compare audits.",
	}

	cmd.AddCommand(
		newAuditsCreateCmd(),
		newAuditsListCmd(),
		newAuditsShowCmd(),
		newAuditsFinishCmd(),
		newAuditsDeleteCmd(),
		newAuditsCompareCmd(),
	)

	return cmd
}

func newAuditsCreateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "create <title>",
		Short: "Create a new audit",
		Long:  "Creates an in-progress audit with one blank answer per question.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			title := strings.Join(args, " ")
			return withDeps(cmd.Context(), func(d *Deps) error {
				result, err := d.Audits.Create(cmd.Context(), title)
				if err != nil {
					return err
				}
				p := newPrinter(os.Stdout, d.Config.Output.Color)
				p.Success("Created audit %d: %s", result.Audit.ID, result.Audit.Title)
				if result.NoQuestions {
					p.Warning("No questions configured: the audit has no answers. Run 'auditshield questions import' first.")
					return nil
				}
				p.Printf("  %d questions to answer (auditshield run %d)\n", result.Answers, result.Audit.ID)
				return nil
			})
		},
	}
}

func newAuditsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List audits",
		Long:  "Lists all audits, newest first, with summary statistics.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDeps(cmd.Context(), func(d *Deps) error {
				result, err := d.Audits.List(cmd.Context())
				if err != nil {
					return err
				}
				p := newPrinter(os.Stdout, d.Config.Output.Color)
				if len(result.Audits) == 0 {
					p.Printf("No audits found.\n")
					return nil
				}
				displayAudits(p, result)
				return nil
			})
		},
	}
}

func displayAudits(p *printer, result *handlers.ListResult) {
	p.Printf("%-5s %-*s %-12s %6s  %-8s\n", "ID", MaxTitleWidth, "TITLE", "STATUS", "SCORE", "RISK")
	for _, a := range result.Audits {
		p.Printf("%-5d %-*s %-12s %5d%%  %s\n",
			a.ID, MaxTitleWidth, truncate(a.Title, MaxTitleWidth), p.status(a.Status), a.Score, p.risk(a.RiskLevel))
	}
	s := result.Stats
	p.Printf("\n%d audits, %d completed, average score %d%%, %d high risk\n",
		s.Total, s.Completed, s.AverageScore, s.HighRisk)
}

func newAuditsShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <audit-id>",
		Short: "Show an audit and its answers",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return withDeps(cmd.Context(), func(d *Deps) error {
				detail, err := d.Audits.Show(cmd.Context(), id)
				if err != nil {
					return err
				}
				if detail == nil {
					return fmt.Errorf("audit not found: %d", id)
				}
				displayAuditDetail(newPrinter(os.Stdout, d.Config.Output.Color), detail)
				return nil
			})
		},
	}
}

func displayAuditDetail(p *printer, d *handlers.AuditDetail) {
	a := d.Audit
	p.Printf("%s\n", p.bold(fmt.Sprintf("Audit %d: %s", a.ID, a.Title)))
	p.Printf("  Framework: %s\n", a.ISOControl)
	p.Printf("  Status:    %s\n", p.status(a.Status))
	p.Printf("  Score:     %d/%d\n", a.Score, a.MaxScore)
	p.Printf("  Risk:      %s\n", p.risk(a.RiskLevel))
	p.Printf("  Created:   %s\n", a.CreatedAt.Local().Format("2006-01-02 15:04"))
	if a.CompletedAt != nil {
		p.Printf("  Completed: %s\n", a.CompletedAt.Local().Format("2006-01-02 15:04"))
	}
	p.Printf("  Advice:    %s\n\n", d.Recommendation.Advice)

	for _, item := range d.Items {
		q := item.Question
		label := "Unanswered"
		if item.Answer != nil {
			label = entities.AnswerLabel(item.Answer.Value)
		}
		ref := q.ControlRef
		if ref == "" {
			ref = "-"
		}
		p.Printf("[%d] %-8s %-9s %s\n", q.ID, ref, label, q.Text)
		if item.Answer != nil && item.Answer.Comment != "" {
			p.Printf("               Comment: %s\n", item.Answer.Comment)
		}
		if item.Answer != nil && item.Answer.NonComplianceLevel != entities.LevelNone {
			p.Printf("               Level:   %s\n", item.Answer.NonComplianceLevel)
		}
	}

	if d.Incomplete > 0 {
		p.Printf("\n")
		p.Warning("%d \"No\" answers still need a comment and a non-compliance level", d.Incomplete)
	}
}

func newAuditsFinishCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "finish <audit-id>",
		Short: "Finish an audit",
		Long:  "Recomputes the score and risk level and marks the audit completed.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return withDeps(cmd.Context(), func(d *Deps) error {
				result, err := d.Audits.Finish(cmd.Context(), id)
				if result == nil && err == nil {
					return fmt.Errorf("audit not found: %d", id)
				}
				if result == nil {
					return err
				}
				displayFinished(newPrinter(os.Stdout, d.Config.Output.Color), result)
				return err
			})
		},
	}
}

func displayFinished(p *printer, r *handlers.FinishResult) {
	if n := len(r.Incomplete); n > 0 {
		p.Warning("%d \"No\" answers are incomplete (missing comment or level)", n)
	}
	p.Success("Audit %d completed: score %d%%, risk %s", r.Audit.ID, r.Audit.Score, p.risk(r.Audit.RiskLevel))
	p.Printf("  %s\n", r.Audit.Recommendations)
}

func newAuditsDeleteCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "delete <audit-id>",
		Short: "Delete an audit and its answers",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return withDeps(cmd.Context(), func(d *Deps) error {
				if !force && !confirmAction(fmt.Sprintf("Delete audit %d and all its answers?", id)) {
					fmt.Println("Cancelled.")
					return nil
				}
				deleted, err := d.Audits.Delete(cmd.Context(), id)
				if !deleted && err == nil {
					return fmt.Errorf("audit not found: %d", id)
				}
				if deleted {
					fmt.Printf("Deleted audit: %d\n", id)
				}
				return err
			})
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Skip confirmation prompt")

	return cmd
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", s)
	}
	return id, nil
}

func confirmAction(prompt string) bool {
	reader := bufio.NewReader(os.Stdin)
	fmt.Printf("%s [y/N]: ", prompt)
	response, _ := reader.ReadString('\n') // Error ignored: EOF/error treated as "no"
	response = strings.TrimSpace(strings.ToLower(response))
	return response == "y" || response == "yes"
}

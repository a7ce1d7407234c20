package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ersonp/auditshield/internal/application/handlers"
	"github.com/ersonp/auditshield/internal/domain/entities"
	"github.com/ersonp/auditshield/internal/domain/services"
)

func newRunCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run <audit-id>",
		Short: "Answer an audit's questions one at a time",
		Long: `Walks through an audit's questions in order. Every answer is saved and the
audit rescored immediately. A "No" needs a comment and a non-compliance level
before moving on. After the last question the audit can be finished.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return withDeps(cmd.Context(), func(d *Deps) error {
				r := &guidedRunner{
					answers:     d.Answers,
					audits:      d.Audits,
					in:          bufio.NewScanner(os.Stdin),
					p:           newPrinter(os.Stdout, d.Config.Output.Color),
					interactive: isTerminal(os.Stdin),
				}
				return r.run(cmd.Context(), id)
			})
		},
	}
}

// guidedRunner drives a services.GuidedFlow from line-based input.
type guidedRunner struct {
	answers     *handlers.AnswerHandler
	audits      *handlers.AuditHandler
	in          *bufio.Scanner
	p           *printer
	interactive bool
}

func (r *guidedRunner) run(ctx context.Context, auditID int64) error {
	audit, flow, err := r.answers.Flow(ctx, auditID)
	if err != nil {
		return err
	}
	if flow.Len() == 0 {
		r.p.Warning("No questions configured. Run 'auditshield questions import' first.")
		return nil
	}

	r.p.Printf("%s\n", r.p.bold(fmt.Sprintf("Audit %d: %s", audit.ID, audit.Title)))
	if r.interactive {
		r.p.Printf("Answer y/p/n (Enter keeps the current answer), b to go back, q to quit.\n")
	}

	for {
		if err := ctx.Err(); err != nil {
			return nil
		}

		item, _ := flow.Current()
		r.showQuestion(flow, item)

		line, ok := r.ask("> ")
		if !ok {
			r.p.Printf("\nProgress saved.\n")
			return nil
		}

		switch strings.ToLower(line) {
		case "q", "quit":
			r.p.Printf("Progress saved.\n")
			return nil
		case "b", "back":
			if !flow.Previous() {
				r.p.Warning("Already at the first question.")
			}
			continue
		}

		answer := currentAnswer(auditID, item)
		if line != "" {
			v, ok := entities.ParseAnswerValue(line)
			if !ok {
				r.p.Warning("Unknown answer %q: use y, p or n", line)
				continue
			}
			answer.Value = v
		}
		if answer.Value == entities.AnswerNo {
			if !r.askNoDetails(&answer) {
				r.p.Printf("\nProgress saved.\n")
				return nil
			}
		}

		result, err := r.answers.Save(ctx, &answer)
		if result == nil {
			return err
		}
		if err != nil {
			r.p.Warning("%v", err)
		}
		flow.Update(*result.Answer)
		r.p.Printf("Score: %d%% (%s)\n", result.Audit.Score, r.p.risk(result.Audit.RiskLevel))

		if !flow.IsLast() {
			if v, moved := flow.Next(); !moved {
				r.p.Warning("Incomplete \"No\": %s", missingFields(v.MissingComment, v.MissingLevel))
			}
			continue
		}

		if !result.Validation.Complete {
			r.p.Warning("Incomplete \"No\": %s", missingFields(result.Validation.MissingComment, result.Validation.MissingLevel))
			continue
		}
		return r.offerFinish(ctx, auditID, flow)
	}
}

func (r *guidedRunner) showQuestion(flow *services.GuidedFlow, item services.QuestionAnswer) {
	ref := item.Question.ControlRef
	if ref == "" {
		ref = services.UnknownControl
	}
	r.p.Printf("\n[%d/%d] %s %s\n", flow.Index()+1, flow.Len(), r.p.bold(ref), item.Question.Text)
	if a := item.Answer; a != nil {
		r.p.Printf("  Current: %s", entities.AnswerLabel(a.Value))
		if a.NonComplianceLevel != entities.LevelNone {
			r.p.Printf(" (%s)", a.NonComplianceLevel)
		}
		if a.Comment != "" {
			r.p.Printf(" - %s", a.Comment)
		}
		r.p.Printf("\n")
	}
}

// askNoDetails prompts for the comment and level of a "No". Empty input keeps
// the current value. Returns false on end of input.
func (r *guidedRunner) askNoDetails(answer *entities.Answer) bool {
	comment, ok := r.ask("  Comment: ")
	if !ok {
		return false
	}
	if comment != "" {
		answer.Comment = comment
	}

	for {
		input, ok := r.ask("  Level (menor/mayor): ")
		if !ok {
			return false
		}
		if input == "" {
			return true
		}
		level, valid := entities.ParseNonComplianceLevel(input)
		if valid {
			answer.NonComplianceLevel = level
			return true
		}
		r.p.Warning("Unknown level %q: use menor or mayor", input)
	}
}

func (r *guidedRunner) offerFinish(ctx context.Context, auditID int64, flow *services.GuidedFlow) error {
	if !flow.CanFinish() {
		r.p.Warning("Some \"No\" answers are still incomplete.")
	}
	line, ok := r.ask("Finish the audit now? [y/N]: ")
	if !ok || !isYes(line) {
		r.p.Printf("Progress saved.\n")
		return nil
	}

	result, err := r.audits.Finish(ctx, auditID)
	if result == nil {
		if err == nil {
			err = fmt.Errorf("audit not found: %d", auditID)
		}
		return err
	}
	displayFinished(r.p, result)
	return err
}

// ask prints a prompt when interactive and reads one trimmed line.
func (r *guidedRunner) ask(prompt string) (string, bool) {
	if r.interactive {
		r.p.Printf("%s", prompt)
	}
	if !r.in.Scan() {
		return "", false
	}
	return strings.TrimSpace(r.in.Text()), true
}

func currentAnswer(auditID int64, item services.QuestionAnswer) entities.Answer {
	if item.Answer != nil {
		return *item.Answer
	}
	return entities.Answer{AuditID: auditID, QuestionID: item.Question.ID, Value: entities.AnswerNo}
}

func isYes(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	return s == "y" || s == "yes"
}

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ersonp/auditshield/internal/application/handlers"
	"github.com/ersonp/auditshield/internal/domain/entities"
)

type answerFlags struct {
	value   string
	comment string
	level   string
}

func newAnswerCmd() *cobra.Command {
	var flags answerFlags

	cmd := &cobra.Command{
		Use:   "answer <audit-id> <question-id>",
		Short: "Answer one question of an audit",
		Long: `Sets the answer to one question and rescores the audit.

A "No" answer is complete only with a comment and a non-compliance level
(menor or mayor). Flags that are not given leave the stored field unchanged.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnswer(cmd, args, flags)
		},
	}

	cmd.Flags().StringVarP(&flags.value, "value", "v", "", "Answer: yes, partial or no")
	cmd.Flags().StringVarP(&flags.comment, "comment", "c", "", "Comment explaining the answer")
	cmd.Flags().StringVarP(&flags.level, "level", "l", "", "Non-compliance level for a No: menor or mayor")

	return cmd
}

func runAnswer(cmd *cobra.Command, args []string, flags answerFlags) error {
	auditID, err := parseID(args[0])
	if err != nil {
		return err
	}
	questionID, err := parseID(args[1])
	if err != nil {
		return err
	}

	req := handlers.AnswerRequest{AuditID: auditID, QuestionID: questionID}
	if cmd.Flags().Changed("value") {
		req.Value = &flags.value
	}
	if cmd.Flags().Changed("comment") {
		req.Comment = &flags.comment
	}
	if cmd.Flags().Changed("level") {
		req.Level = &flags.level
	}
	if req.Value == nil && req.Comment == nil && req.Level == nil {
		return fmt.Errorf("specify at least one of --value, --comment or --level")
	}

	return withDeps(cmd.Context(), func(d *Deps) error {
		result, err := d.Answers.Handle(cmd.Context(), req)
		if result == nil {
			return err
		}
		displayAnswerResult(newPrinter(os.Stdout, d.Config.Output.Color), result)
		return err
	})
}

func displayAnswerResult(p *printer, r *handlers.AnswerResult) {
	p.Success("Question %d: %s", r.Answer.QuestionID, entities.AnswerLabel(r.Answer.Value))
	if !r.Validation.Complete {
		p.Warning("Incomplete \"No\": %s", missingFields(r.Validation.MissingComment, r.Validation.MissingLevel))
	}
	if r.Audit != nil {
		p.Printf("Audit %d score: %d%% (%s)\n", r.Audit.ID, r.Audit.Score, p.risk(r.Audit.RiskLevel))
	}
}

func missingFields(comment, level bool) string {
	switch {
	case comment && level:
		return "add a comment and a level (menor/mayor)"
	case comment:
		return "add a comment"
	case level:
		return "choose a level (menor/mayor)"
	}
	return ""
}

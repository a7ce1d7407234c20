package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ersonp/auditshield/internal/application/handlers"
	"github.com/ersonp/auditshield/internal/domain/services"
)

func newQuestionsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "questions",
		Short: "Manage the question template",
		Long:  "List the checklist questions new audits are created from, or import more.",
	}

	cmd.AddCommand(newQuestionsListCmd(), newQuestionsImportCmd())

	return cmd
}

func newQuestionsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List template questions",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDeps(cmd.Context(), func(d *Deps) error {
				questions, err := d.Questions.List(cmd.Context())
				if err != nil {
					return fmt.Errorf("listing questions: %w", err)
				}
				if len(questions) == 0 {
					fmt.Println("No questions found.")
					return nil
				}
				fmt.Printf("%d questions:\n\n", len(questions))
				for _, q := range questions {
					ref := q.ControlRef
					if ref == "" {
						ref = "-"
					}
					fmt.Printf("%4d  %-8s %s\n", q.ID, ref, q.Text)
				}
				return nil
			})
		},
	}
}

type importFlags struct {
	format string
	dryRun bool
}

func newQuestionsImportCmd() *cobra.Command {
	var flags importFlags

	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Import questions from a file",
		Long: `Imports questions from a JSON, CSV or YAML file.

Each question has a "text" and an optional "control_ref". Questions whose text
already exists are skipped. Existing audits are not changed.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQuestionsImport(cmd, args[0], flags)
		},
	}

	cmd.Flags().StringVarP(&flags.format, "format", "f", "auto", "File format: auto, json, csv, yaml")
	cmd.Flags().BoolVar(&flags.dryRun, "dry-run", false, "Validate without saving")

	return cmd
}

func runQuestionsImport(cmd *cobra.Command, path string, flags importFlags) error {
	if !contains(validImportFormats, flags.format) {
		return fmt.Errorf("invalid format %q, valid formats: %v", flags.format, validImportFormats)
	}

	return withDeps(cmd.Context(), func(d *Deps) error {
		result, err := d.Import.Handle(cmd.Context(), path, handlers.ImportOptions{
			Format: flags.format,
			DryRun: flags.dryRun,
		})
		if result != nil {
			displayImportResult(newPrinter(os.Stdout, d.Config.Output.Color), result, flags.dryRun)
		}
		if errors.Is(err, services.ErrNoQuestionsToImport) && result != nil {
			return fmt.Errorf("%w (%d errors)", err, len(result.Errors))
		}
		return err
	})
}

func displayImportResult(p *printer, r *services.ImportResult, dryRun bool) {
	for _, e := range r.Errors {
		p.Warning("%s", e.Error())
	}
	verb := "Imported"
	if dryRun {
		verb = "Would import"
	}
	p.Success("%s %d questions (%d duplicates skipped, %d errors)", verb, r.Imported, r.Skipped, len(r.Errors))
}

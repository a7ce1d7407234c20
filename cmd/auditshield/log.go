package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ersonp/auditshield/internal/application/handlers"
	"github.com/ersonp/auditshield/internal/domain/entities"
)

type logFlags struct {
	auditID int64
	action  string
	limit   int
}

func newLogCmd() *cobra.Command {
	var flags logFlags

	cmd := &cobra.Command{
		Use:   "log",
		Short: "Show the action log",
		Long:  "Lists recorded workflow actions, newest first.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDeps(cmd.Context(), func(d *Deps) error {
				entries, err := d.Log.Handle(cmd.Context(), handlers.LogQuery{
					AuditID: flags.auditID,
					Action:  flags.action,
					Limit:   flags.limit,
				})
				if err != nil {
					return err
				}
				if len(entries) == 0 {
					fmt.Println("No log entries found.")
					return nil
				}
				for _, e := range entries {
					fmt.Println(formatLogEntry(e))
				}
				return nil
			})
		},
	}

	cmd.Flags().Int64VarP(&flags.auditID, "audit", "a", 0, "Only entries for this audit")
	cmd.Flags().StringVar(&flags.action, "action", "", "Only entries with this action, e.g. answer_saved")
	cmd.Flags().IntVarP(&flags.limit, "limit", "l", DefaultLogLimit, "Maximum number of entries")

	return cmd
}

func formatLogEntry(e entities.ActionEntry) string {
	line := fmt.Sprintf("%s  %-18s", e.CreatedAt.Local().Format("2006-01-02 15:04:05"), e.Action)
	if e.AuditID != 0 {
		line += fmt.Sprintf(" audit=%d", e.AuditID)
	}
	if len(e.Details) > 0 {
		// map keys are marshaled in sorted order
		if details, err := json.Marshal(e.Details); err == nil {
			line += " " + string(details)
		}
	}
	return line
}

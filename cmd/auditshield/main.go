// Package main provides the entry point for the auditshield CLI application.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var (
	version     = "0.1.0-dev"
	globalColor string
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	rootCmd := &cobra.Command{
		Use:           "auditshield",
		Short:         "ISO/IEC 27001 audit checklists with scoring and a compliance dashboard",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&globalColor, "color", "", "Colored output: auto, always or never (default from config)")

	rootCmd.AddCommand(
		newInitCmd(),
		newAuditsCmd(),
		newAnswerCmd(),
		newRunCmd(),
		newDashboardCmd(),
		newReportCmd(),
		newQuestionsCmd(),
		newLogCmd(),
	)

	return rootCmd.ExecuteContext(ctx)
}

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ersonp/auditshield/internal/application/handlers"
	"github.com/ersonp/auditshield/internal/infrastructure/config"
)

func newInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialize a new auditshield workspace",
		Long:  "Creates a .auditshield directory with default configuration, creates the database and loads the default ISO/IEC 27001 questions.",
		RunE:  runInit,
	}
}

func runInit(cmd *cobra.Command, args []string) error {
	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("getting current directory: %w", err)
	}

	result, err := handlers.NewInitHandler(openStore).Handle(cmd.Context(), cwd)
	if err != nil {
		return err
	}

	p := newPrinter(os.Stdout, config.ColorAuto)
	p.Printf("Created %s\n", result.ConfigPath)
	p.Printf("Created database %s\n", result.DatabasePath)
	p.Printf("Loaded %d questions\n", result.Seeded)
	p.Success("auditshield initialized successfully!")

	return nil
}

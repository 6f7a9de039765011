package main

import (
	"fmt"
	"os"

	"catalog-service/internal"

	"github.com/spf13/cobra"
)

func main() {
	var envFile string

	rootCmd := &cobra.Command{
		Use:           "catalog-service",
		Short:         "Property rental catalog service",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			application, err := internal.NewApp(envFile)
			if err != nil {
				return fmt.Errorf("failed to initialize application: %w", err)
			}
			if err := application.Run(); err != nil {
				return fmt.Errorf("application run failed: %w", err)
			}
			return nil
		},
	}
	rootCmd.Flags().StringVar(&envFile, "env-file", "", "path to .env file (default: ./.env if present)")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

package main

import (
	"fmt"

	"rental-listing-client/internal"
	"rental-listing-client/internal/configs"

	"github.com/spf13/cobra"
)

func newServeCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the presentation API for browser clients",
		Long: `Start the HTTP API that keeps one listing session per browser tab and pushes
snapshot updates over server-sent events. Configuration comes from the
environment (PORT, CATALOG_API_URL, RABBITMQ_*, FLUENTBIT_*, ...).`,
		RunE: func(cmd *cobra.Command, args []string) error {
			appConfig, err := configs.LoadConfig(flags.envFile)
			if err != nil {
				return fmt.Errorf("error loading application configuration: %w", err)
			}
			application, err := internal.NewApp(appConfig)
			if err != nil {
				return fmt.Errorf("failed to initialize application: %w", err)
			}
			return application.Run()
		},
	}
}

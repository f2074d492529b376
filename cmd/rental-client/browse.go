package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"rental-listing-client/internal/adapters/catalog_api_client"
	logger_adapter "rental-listing-client/internal/adapters/logger"
	"rental-listing-client/internal/configs"
	"rental-listing-client/internal/contextkeys"
	"rental-listing-client/internal/core/domain"
	"rental-listing-client/internal/core/port"
	"rental-listing-client/internal/core/usecase"
	"rental-listing-client/internal/tui"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

type browseFlags struct {
	landlordID int64
	size       int
	logFile    string
}

func newBrowseCmd(global *globalFlags) *cobra.Command {
	flags := &browseFlags{}
	cmd := &cobra.Command{
		Use:   "browse",
		Short: "Browse property listings in the terminal",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBrowse(cmd.Context(), global, flags)
		},
	}

	cmd.Flags().Int64Var(&flags.landlordID, "landlord", 0, "Landlord id to scope the listing to")
	cmd.Flags().IntVar(&flags.size, "size", 0, "Page size (default: DEFAULT_PAGE_SIZE)")
	cmd.Flags().StringVar(&flags.logFile, "log-file", "", "Write logs to this file (logs are discarded otherwise)")
	return cmd
}

func runBrowse(ctx context.Context, global *globalFlags, flags *browseFlags) error {
	appConfig, err := configs.LoadConfig(global.envFile)
	if err != nil {
		return fmt.Errorf("error loading application configuration: %w", err)
	}

	// терминал занят интерфейсом, поэтому логи пишем только в файл
	var logWriter io.Writer = io.Discard
	if flags.logFile != "" {
		f, err := os.OpenFile(flags.logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		defer f.Close()
		logWriter = f
	}
	logger := logger_adapter.NewSlogAdapter(logger_adapter.SlogConfig{
		Writer: logWriter,
		Level:  logger_adapter.ParseLevel(appConfig.StdoutLogger.Level),
		IsJSON: true,
	}).WithFields(port.Fields{"service_name": appConfig.AppName, "command": "browse"})

	if ctx == nil {
		ctx = context.Background()
	}
	ctx = contextkeys.ContextWithLogger(ctx, logger)
	ctx, _ = contextkeys.EnsureTraceID(ctx)

	pageSize := flags.size
	if pageSize <= 0 {
		pageSize = appConfig.Listing.DefaultPageSize
	}

	client := catalog_api_client.NewClient(appConfig.CatalogAPI.URL, appConfig.CatalogAPI.Timeout)
	controller := usecase.NewListingController(client, client, usecase.ListingControllerOptions{PageSize: pageSize})

	scope := domain.GlobalScope()
	if flags.landlordID != 0 {
		scope = domain.LandlordScope(flags.landlordID)
	}

	logger.Info("Terminal browser started", port.Fields{"scope": scope.String()})
	_, err = tea.NewProgram(tui.NewModel(ctx, controller, scope), tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	return err
}

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"

	"rental-listing-client/internal/adapters/catalog_api_client"
	logger_adapter "rental-listing-client/internal/adapters/logger"
	"rental-listing-client/internal/configs"
	"rental-listing-client/internal/contextkeys"
	"rental-listing-client/internal/core/domain"
	"rental-listing-client/internal/core/port"
	"rental-listing-client/internal/core/usecase"
	"rental-listing-client/internal/tui"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

type listFlags struct {
	landlordID int64
	keyword    string
	page       int
	size       int
	output     string
}

// listedProperty и listing - машиночитаемый вывод команды list.
type listedProperty struct {
	ID           int64   `json:"id" yaml:"id"`
	Name         string  `json:"name" yaml:"name"`
	Address      string  `json:"address,omitempty" yaml:"address,omitempty"`
	Type         string  `json:"type,omitempty" yaml:"type,omitempty"`
	Price        float64 `json:"price" yaml:"price"`
	BedCapacity  int     `json:"bed_capacity" yaml:"bed_capacity"`
	Availability int     `json:"availability" yaml:"availability"`
}

type listing struct {
	Scope         string           `json:"scope" yaml:"scope"`
	Keyword       string           `json:"keyword,omitempty" yaml:"keyword,omitempty"`
	Page          int              `json:"page" yaml:"page"`
	PageSize      int              `json:"page_size" yaml:"page_size"`
	TotalElements int64            `json:"total_elements" yaml:"total_elements"`
	TotalPages    int              `json:"total_pages" yaml:"total_pages"`
	MonthlyIncome *float64         `json:"monthly_income,omitempty" yaml:"monthly_income,omitempty"`
	Items         []listedProperty `json:"items" yaml:"items"`
}

func newListCmd(global *globalFlags) *cobra.Command {
	flags := &listFlags{}
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Print one page of property listings",
		Long: `Fetch one page of listings from the catalog and print it.

Without --landlord the global catalog of available properties is listed.
--search switches to keyword search within the same scope.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			switch flags.output {
			case "table", "json", "yaml":
			default:
				return fmt.Errorf("unknown output format %q (want table, json or yaml)", flags.output)
			}
			return runList(cmd.Context(), cmd.OutOrStdout(), global, flags)
		},
	}

	cmd.Flags().Int64Var(&flags.landlordID, "landlord", 0, "Landlord id to scope the listing to")
	cmd.Flags().StringVar(&flags.keyword, "search", "", "Keyword to search by property name")
	cmd.Flags().IntVar(&flags.page, "page", 1, "Page number (1-based)")
	cmd.Flags().IntVar(&flags.size, "size", 0, "Page size (default: DEFAULT_PAGE_SIZE)")
	cmd.Flags().StringVarP(&flags.output, "output", "o", "table", "Output format: table|json|yaml")
	return cmd
}

func runList(ctx context.Context, out io.Writer, global *globalFlags, flags *listFlags) error {
	appConfig, err := configs.LoadConfig(global.envFile)
	if err != nil {
		return fmt.Errorf("error loading application configuration: %w", err)
	}

	// логи уходят в stderr, чтобы не портить вывод для скриптов
	logger := logger_adapter.NewSlogAdapter(logger_adapter.SlogConfig{
		Writer:   os.Stderr,
		Level:    logger_adapter.ParseLevel(appConfig.StdoutLogger.Level),
		UseColor: true,
	}).WithFields(port.Fields{"service_name": appConfig.AppName, "command": "list"})

	if ctx == nil {
		ctx = context.Background()
	}
	ctx = contextkeys.ContextWithLogger(ctx, logger)
	ctx, traceID := contextkeys.EnsureTraceID(ctx)
	logger.Debug("Listing started", port.Fields{"trace_id": traceID})

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
	if err := controller.Activate(ctx, scope); err != nil {
		return fmt.Errorf("list %s: %w", scope, err)
	}
	if flags.keyword != "" {
		keyword := flags.keyword
		if err := controller.ApplySearch(ctx, &keyword); err != nil {
			return fmt.Errorf("search %q: %w", keyword, err)
		}
	}
	if flags.page > 1 {
		if err := controller.GoToPage(ctx, flags.page); err != nil {
			return fmt.Errorf("go to page %d: %w", flags.page, err)
		}
	}

	return renderListing(out, toListing(controller.Snapshot(), controller.Statistics()), flags.output)
}

func toListing(snapshot domain.ListingSnapshot, stats *domain.LandlordStatistics) listing {
	l := listing{
		Scope:         snapshot.Scope.String(),
		Keyword:       snapshot.Search.KeywordOrEmpty(),
		Page:          snapshot.Cursor.PageNumber,
		PageSize:      snapshot.Cursor.PageSize,
		TotalElements: snapshot.Cursor.TotalElements,
		TotalPages:    snapshot.Cursor.TotalPages,
		Items:         make([]listedProperty, len(snapshot.Items)),
	}
	if stats != nil {
		income := stats.MonthlyIncome
		l.MonthlyIncome = &income
	}
	for i, p := range snapshot.Items {
		l.Items[i] = listedProperty{
			ID:           p.ID,
			Name:         p.PropertyName,
			Address:      p.PropertyAddress,
			Type:         p.PropertyType,
			Price:        p.Price,
			BedCapacity:  p.BedCapacity,
			Availability: int(p.Availability),
		}
	}
	return l
}

func renderListing(out io.Writer, l listing, format string) error {
	switch format {
	case "json":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(l)

	case "yaml":
		enc := yaml.NewEncoder(out)
		enc.SetIndent(2)
		if err := enc.Encode(l); err != nil {
			return err
		}
		return enc.Close()
	}

	caser := cases.Title(language.English)
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("ID", "NAME", "TYPE", "PRICE", "BEDS", "STATUS")
	for _, p := range l.Items {
		t.Row(
			strconv.FormatInt(p.ID, 10),
			caser.String(p.Name),
			caser.String(p.Type),
			strconv.FormatFloat(p.Price, 'f', 2, 64),
			strconv.Itoa(p.BedCapacity),
			tui.AvailabilityLabel(domain.Availability(p.Availability)),
		)
	}

	if _, err := fmt.Fprintln(out, t.Render()); err != nil {
		return err
	}
	footer := fmt.Sprintf("%s · page %d/%d · %d total", l.Scope, l.Page, max(l.TotalPages, 1), l.TotalElements)
	if l.Keyword != "" {
		footer += fmt.Sprintf(" · search %q", l.Keyword)
	}
	if l.MonthlyIncome != nil {
		footer += fmt.Sprintf(" · monthly income %.2f", *l.MonthlyIncome)
	}
	_, err := fmt.Fprintln(out, footer)
	return err
}

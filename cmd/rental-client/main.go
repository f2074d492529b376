package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// globalFlags - флаги, общие для всех команд.
type globalFlags struct {
	envFile string
}

func newRootCmd() *cobra.Command {
	flags := &globalFlags{}
	rootCmd := &cobra.Command{
		Use:   "rental-client",
		Short: "Client for the property rental catalog",
		Long: `rental-client browses, searches and edits property listings of the rental
catalog, either globally or for a single landlord.

It can run as a presentation API for a browser UI (serve), as a terminal
browser (browse) or print one page of listings for scripts (list).`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVar(&flags.envFile, "env", "", "Path to .env file (default: ./.env if present)")

	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newServeCmd(flags))
	rootCmd.AddCommand(newListCmd(flags))
	rootCmd.AddCommand(newBrowseCmd(flags))
	return rootCmd
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

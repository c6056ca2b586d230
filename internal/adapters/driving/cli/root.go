// Package cli provides the command-line interface for the knowledge engine.
package cli

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"github.com/nuxway/knowledge-rag/internal/logger"
)

var (
	// version is set at build time via SetVersion.
	version = "dev"

	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "knowledge",
	Short: "Retrieval engine for the Nuxway knowledge corpus",
	Long: `knowledge builds a searchable corpus from web pages and local files,
then answers questions with the most relevant passages.

Ingest once, then retrieve from the command line, the HTTP API,
the MCP server or the terminal UI.`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (.toml or .yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

// SetVersion sets the version reported by the version command.
func SetVersion(v string) {
	version = v
}

// Execute runs the root command with ctx.
func Execute(ctx context.Context) error {
	defer func() {
		if err := closeServices(); err != nil {
			logger.Warn("Closing services: %v", err)
		}
	}()
	return rootCmd.ExecuteContext(ctx)
}

// errNotConfigured is returned when a command needs a service that was not built.
var errNotConfigured = errors.New("service not configured")

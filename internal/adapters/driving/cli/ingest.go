package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/nuxway/knowledge-rag/internal/core/domain"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest [source...]",
	Short: "Build the corpus store from sources",
	Long: `Fetches each source, extracts its text, splits it into chunks, embeds
every chunk and replaces the corpus store.

Sources are URLs (http:// or https://) or local file paths. Without
arguments the configured sources are used. Sources that fail are
reported and skipped; the previous store is kept if nothing could be
embedded.`,
	RunE: runIngest,
}

func init() {
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	svc, err := loadServices()
	if err != nil {
		return err
	}
	if svc.Ingestion == nil {
		return fmt.Errorf("ingestion: %w", errNotConfigured)
	}

	sources := svc.Sources
	if len(args) > 0 {
		sources, err = domain.ParseSources(args)
		if err != nil {
			return err
		}
	}

	cmd.Printf("Ingesting %d sources...\n", len(sources))

	report, err := svc.Ingestion.Ingest(cmd.Context(), sources)
	if report != nil {
		printFailures(cmd, report)
	}
	if err != nil {
		return fmt.Errorf("ingestion failed: %w", err)
	}

	cmd.Printf("Ingested %d of %d sources: %d chunks, %d dimensions\n",
		report.Ingested, report.Sources, report.Chunks, report.Dimensions)
	cmd.Printf("Store written to %s in %s\n", report.StorePath, report.Duration.Round(time.Millisecond))
	return nil
}

func printFailures(cmd *cobra.Command, report *domain.IngestReport) {
	for _, f := range report.Failures {
		cmd.Printf("  skipped %s: %v\n", f.Source, f.Err)
	}
}

package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nuxway/knowledge-rag/internal/core/domain"
)

// previewRunes caps passage text in table output unless --full is set.
const previewRunes = 300

var (
	retrieveK    int
	retrieveJSON bool
	retrieveFull bool
)

var retrieveCmd = &cobra.Command{
	Use:   "retrieve <query>",
	Short: "Find the passages most relevant to a question",
	Long: `Embeds the question and ranks every stored passage by cosine
similarity. Prints nothing but a notice when no context is available,
for example before the first ingestion.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runRetrieve,
}

func init() {
	retrieveCmd.Flags().IntVarP(&retrieveK, "top", "k", 0, "number of passages (0 = configured default)")
	retrieveCmd.Flags().BoolVar(&retrieveJSON, "json", false, "output results as JSON")
	retrieveCmd.Flags().BoolVar(&retrieveFull, "full", false, "print whole passages")
	rootCmd.AddCommand(retrieveCmd)
}

func runRetrieve(cmd *cobra.Command, args []string) error {
	svc, err := loadServices()
	if err != nil {
		return err
	}
	if svc.Retrieval == nil {
		return fmt.Errorf("retrieval: %w", errNotConfigured)
	}

	query := strings.Join(args, " ")
	results, err := svc.Retrieval.Retrieve(cmd.Context(), query, retrieveK)
	if err != nil {
		return fmt.Errorf("retrieval failed: %w", err)
	}

	if retrieveJSON {
		return outputRetrieveJSON(cmd, results)
	}
	outputRetrieveTable(cmd, results, retrieveFull)
	return nil
}

func outputRetrieveJSON(cmd *cobra.Command, results []domain.SearchResult) error {
	data, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func outputRetrieveTable(cmd *cobra.Command, results []domain.SearchResult, full bool) {
	if len(results) == 0 {
		cmd.Println("No context available.")
		return
	}

	for i := range results {
		cmd.Printf("[%d] %.3f  %s\n", i+1, results[i].Score, results[i].Source)

		text := strings.Join(strings.Fields(results[i].Text), " ")
		if !full {
			text = preview(text, previewRunes)
		}
		cmd.Printf("    %s\n\n", text)
	}
}

func preview(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "..."
}

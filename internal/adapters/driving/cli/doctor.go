package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nuxway/knowledge-rag/internal/adapters/driven/ai"
	"github.com/nuxway/knowledge-rag/internal/core/domain"
)

var doctorOffline bool

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check configuration, embedding backend and store",
	Long: `Runs a series of checks and reports problems that would make
ingestion fail or retrieval return no context:

  - the embedding credential is present
  - the embedding backend answers a test request (skipped with --offline)
  - the corpus store exists and is readable`,
	RunE: runDoctor,
}

func init() {
	doctorCmd.Flags().BoolVar(&doctorOffline, "offline", false, "skip the embedding backend request")
	rootCmd.AddCommand(doctorCmd)
}

type checkResult struct {
	name    string
	ok      bool
	warning bool
	detail  string
}

func runDoctor(cmd *cobra.Command, _ []string) error {
	svc, err := loadServices()
	if err != nil {
		return err
	}

	checks := doctorChecks(cmd, svc)

	problems := 0
	for _, c := range checks {
		mark := "ok  "
		switch {
		case c.warning:
			mark = "warn"
		case !c.ok:
			mark = "FAIL"
			problems++
		}
		cmd.Printf("[%s] %-12s %s\n", mark, c.name, c.detail)
	}

	if problems > 0 {
		return fmt.Errorf("doctor found %d problem(s)", problems)
	}
	return nil
}

func doctorChecks(cmd *cobra.Command, svc *Services) []checkResult {
	settings := svc.Config.EmbeddingSettings()
	checks := []checkResult{{
		name:   "provider",
		ok:     true,
		detail: fmt.Sprintf("%s (%s)", settings.Provider, settings.Model),
	}}

	credential := checkResult{name: "credential", ok: settings.HasCredential(), detail: "present"}
	if !credential.ok {
		credential.detail = "OPENAI_API_KEY is not set"
	}
	checks = append(checks, credential)

	backend := checkResult{name: "embedding", ok: true}
	switch {
	case doctorOffline:
		backend.warning, backend.detail = true, "skipped (offline)"
	case !credential.ok:
		backend.warning, backend.detail = true, "skipped (no credential)"
	default:
		if err := ai.ValidateEmbeddingService(cmd.Context(), svc.Embedding); err != nil {
			backend.ok, backend.detail = false, err.Error()
		} else {
			backend.detail = "reachable"
		}
	}
	checks = append(checks, backend)

	return append(checks, storeCheck(cmd, svc))
}

func storeCheck(cmd *cobra.Command, svc *Services) checkResult {
	if svc.Status == nil {
		return checkResult{name: "store", warning: true, detail: "status unavailable"}
	}

	st := svc.Status.StoreStatus(cmd.Context())
	switch st.State {
	case domain.StoreReady:
		return checkResult{name: "store", ok: true, detail: fmt.Sprintf("%s: %d chunks from %d sources, %d dimensions",
			st.Path, st.Chunks, st.Sources, st.Dimensions)}
	case domain.StoreMissing:
		return checkResult{name: "store", warning: true, detail: st.Path + " not found (run ingest)"}
	case domain.StoreCorrupt, domain.StoreError:
	}
	return checkResult{name: "store", detail: fmt.Sprintf("%s %s: %s", st.Path, st.State, st.Detail)}
}

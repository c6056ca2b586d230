package cli

import (
	"errors"
	"fmt"
	"os"
	"runtime/debug"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/nuxway/knowledge-rag/internal/adapters/driving/tui"
)

// errNotTerminal is returned when the TUI is started without a terminal.
var errNotTerminal = errors.New("tui requires an interactive terminal")

// isTerminal reports whether stdin and stdout are terminals.
var isTerminal = func() bool {
	return term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd()))
}

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch the interactive terminal UI",
	Long: `Launch the interactive terminal interface.

Controls:
  ↑/k, ↓/j - Navigate passages
  Enter    - Ask / Read passage
  n        - New question
  Esc      - Back
  q        - Quit`,
	RunE: runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, _ []string) (err error) {
	if !isTerminal() {
		return errNotTerminal
	}

	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Panic in TUI: %v\n", r)
			fmt.Fprintf(os.Stderr, "Stack trace:\n%s\n", debug.Stack())
			err = fmt.Errorf("tui panic: %v", r)
		}
	}()

	svc, err := loadServices()
	if err != nil {
		return err
	}

	app, err := tui.NewApp(&tui.Ports{
		Retrieval: svc.Retrieval,
		Status:    svc.Status,
	})
	if err != nil {
		return fmt.Errorf("failed to create TUI: %w", err)
	}

	if err := app.WithContext(cmd.Context()).Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}

package cli

import (
	"fmt"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration as TOML",
	Long: `Prints the configuration after defaults, the config file, .env and
environment variables have been applied. The API key is redacted.`,
	RunE: runConfigShow,
}

func init() {
	configCmd.AddCommand(configShowCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigShow(cmd *cobra.Command, _ []string) error {
	svc, err := loadServices()
	if err != nil {
		return err
	}

	cfg := *svc.Config
	if cfg.Embedding.APIKey != "" {
		cfg.Embedding.APIKey = "<redacted>"
	}

	data, err := toml.Marshal(&cfg)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	cmd.Print(string(data))
	return nil
}

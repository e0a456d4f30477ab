package cmd

import (
	"fmt"
	"io"
	"p6export/config"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show active configuration values.",
	Long: `Display the effective configuration (file, environment and defaults merged) and the
resolved config file path. The password is never printed.

This command validates the configuration before printing values.`,
	Example: `
  # Show active configuration
  p6export config show
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadAndValidate()
		if err != nil {
			return fmt.Errorf("invalid config: %w", err)
		}

		out := cmd.OutOrStdout()
		if configPath := viper.ConfigFileUsed(); configPath != "" {
			fmt.Fprintln(out, "Config file loaded from:", configPath)
		} else {
			fmt.Fprintln(out, "No config file loaded; showing environment and defaults.")
		}
		fmt.Fprintln(out, "Configuration:")
		return writeRedactedConfig(out, cfg)
	},
}

func writeRedactedConfig(out io.Writer, cfg *config.Config) error {
	encoder := yaml.NewEncoder(out)
	encoder.SetIndent(2)
	if err := encoder.Encode(cfg.Redacted()); err != nil {
		return fmt.Errorf("render config: %w", err)
	}
	return encoder.Close()
}

func init() {
	configCmd.AddCommand(configShowCmd)
}

package cmd

import "github.com/spf13/cobra"

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage p6export configuration file values.",
	Long: `Create, edit, display, and delete the p6export configuration file.

The configuration stores connection and export defaults:
- p6.host / p6.port / p6.username / p6.password / p6.password_type / p6.timeout / p6.log_traffic
- export.output_dir / export.format / export.entities / export.on_error
- log.level / log.file

Every key can be overridden by an environment variable, e.g. P6EXPORT_P6_PASSWORD.`,
	Example: `
  # Create default config in $HOME/.p6export.yaml
  p6export config create

  # Show active config (password redacted) and source file
  p6export config show

  # Open active config in editor (creates example if missing)
  p6export config edit

  # Delete active config file
  p6export config delete
`,
}

func init() {
	rootCmd.AddCommand(configCmd)
}

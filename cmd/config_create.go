package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var configCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a configuration file from the example template.",
	Long: `Create a configuration file from the template used by "config edit".

The file is created with mode 0600 because it may hold the P6 password. An existing
file is left untouched.`,
	Example: `
  # Create default config at $HOME/.p6export.yaml
  p6export config create

  # Create a project-local config
  p6export --configFile ./.p6export.yaml config create
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := saveDefaultConfig(cmd.OutOrStdout())
		return err
	},
}

// saveDefaultConfig reports whether a new file was written.
func saveDefaultConfig(out io.Writer) (bool, error) {
	path, err := resolveConfigEditPath(cfgFile, viper.ConfigFileUsed())
	if err != nil {
		return false, err
	}
	created, err := ensureConfigFileWithTemplate(path)
	if err != nil {
		return false, err
	}
	if !created {
		fmt.Fprintf(out, "Config file already exists at: %s\n", path)
		return false, nil
	}

	fmt.Fprintf(out, "New config file created at: %s\n", path)
	fmt.Fprintln(out, "Set p6.host and p6.username, then run: p6export export")
	return true, nil
}

func init() {
	configCmd.AddCommand(configCreateCmd)
}

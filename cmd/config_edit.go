package cmd

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"p6export/config"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const defaultConfigName = ".p6export.yaml"

var configEditCmd = &cobra.Command{
	Use:   "edit",
	Short: "Open the active config in an editor.",
	Long: `Open the active p6export config file in $VISUAL, $EDITOR or vi.

A missing config file is created from the example template first. When the editor
exits the file is validated; a file that stores p6.password is restricted to
owner read/write.`,
	Example: `
  # Edit active config
  p6export config edit

  # Edit a project-local config with VS Code
  EDITOR="code --wait" p6export --configFile ./.p6export.yaml config edit
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := resolveConfigEditPath(cfgFile, viper.ConfigFileUsed())
		if err != nil {
			return err
		}
		editor := resolveEditorValue(os.Getenv("VISUAL"), os.Getenv("EDITOR"))
		return editConfig(cmd.OutOrStdout(), path, editor, runInTerminal)
	},
}

func runInTerminal(c *exec.Cmd) error {
	c.Stdin = os.Stdin
	c.Stdout = os.Stdout
	c.Stderr = os.Stderr
	return c.Run()
}

// editConfig seeds, edits and validates the config at path. run executes the
// editor command.
func editConfig(out io.Writer, path, editor string, run func(*exec.Cmd) error) error {
	created, err := ensureConfigFileWithTemplate(path)
	if err != nil {
		return err
	}
	if created {
		fmt.Fprintf(out, "Created example config at: %s\n", path)
	}

	editorCommand, err := buildEditorCommand(editor, path)
	if err != nil {
		return err
	}
	if err := run(editorCommand); err != nil {
		return fmt.Errorf("run editor %q: %w", editor, err)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read edited config: %w", err)
	}
	cfg, err := config.ValidateYAMLContent(content)
	if err != nil {
		return fmt.Errorf("config %s is invalid: %w", path, err)
	}
	tightened, err := protectStoredPassword(path, cfg)
	if err != nil {
		return err
	}
	if tightened {
		fmt.Fprintf(out, "Config stores the P6 password; permissions set to 0600.\n")
	}

	fmt.Fprintf(out, "Configuration saved and validated: %s\n", path)
	return nil
}

func resolveConfigEditPath(configFileFlag, configFileUsed string) (string, error) {
	for _, candidate := range []string{configFileFlag, configFileUsed} {
		if strings.TrimSpace(candidate) != "" {
			return candidate, nil
		}
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return filepath.Join(home, defaultConfigName), nil
}

// ensureConfigFileWithTemplate writes the example config with mode 0600 since
// the file may end up holding the P6 password.
func ensureConfigFileWithTemplate(path string) (bool, error) {
	if _, err := os.Stat(path); err == nil {
		return false, nil
	} else if !os.IsNotExist(err) {
		return false, fmt.Errorf("stat config %s: %w", path, err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return false, fmt.Errorf("create config directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(config.ExampleYAML()), 0o600); err != nil {
		return false, fmt.Errorf("write example config: %w", err)
	}
	return true, nil
}

// protectStoredPassword drops group and other access when cfg carries a
// password. It reports whether the mode changed.
func protectStoredPassword(path string, cfg *config.Config) (bool, error) {
	if cfg.P6.Password == "" {
		return false, nil
	}
	info, err := os.Stat(path)
	if err != nil {
		return false, fmt.Errorf("stat config %s: %w", path, err)
	}
	if info.Mode().Perm()&0o077 == 0 {
		return false, nil
	}
	if err := os.Chmod(path, 0o600); err != nil {
		return false, fmt.Errorf("restrict config %s: %w", path, err)
	}
	return true, nil
}

func resolveEditorValue(visual, editor string) string {
	for _, candidate := range []string{visual, editor} {
		if strings.TrimSpace(candidate) != "" {
			return candidate
		}
	}
	return "vi"
}

func buildEditorCommand(editorValue, configPath string) (*exec.Cmd, error) {
	fields := strings.Fields(editorValue)
	if len(fields) == 0 {
		return nil, fmt.Errorf("editor command is empty")
	}
	return exec.Command(fields[0], append(fields[1:], configPath)...), nil
}

func init() {
	configCmd.AddCommand(configEditCmd)
}

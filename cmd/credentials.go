package cmd

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"p6export/config"
	"strings"

	"golang.org/x/term"
)

// resolveConnection prompts for whatever the flags, environment and config
// file left empty. The password is read through readSecret.
func resolveConnection(cfg *config.P6Config, reader *bufio.Reader, out io.Writer, readSecret func(label string) (string, error)) error {
	if strings.TrimSpace(cfg.Host) == "" {
		host, err := promptRequiredString(reader, out, "P6 host")
		if err != nil {
			return err
		}
		cfg.Host = host
	}
	if strings.TrimSpace(cfg.Username) == "" {
		username, err := promptRequiredString(reader, out, "Username")
		if err != nil {
			return err
		}
		cfg.Username = username
	}
	if cfg.Password == "" {
		password, err := readSecret("Password")
		if err != nil {
			return err
		}
		if password == "" {
			return fmt.Errorf("password must not be empty")
		}
		cfg.Password = password
	}
	return nil
}

func promptRequiredString(reader *bufio.Reader, out io.Writer, label string) (string, error) {
	for {
		fmt.Fprintf(out, "%s: ", strings.TrimSpace(label))
		input, err := reader.ReadString('\n')
		value := strings.TrimSpace(input)
		if err != nil && (err != io.EOF || value == "") {
			return "", fmt.Errorf("read %s: %w", strings.TrimSpace(strings.ToLower(label)), err)
		}
		if value == "" {
			fmt.Fprintln(out, "Value must not be empty.")
			continue
		}
		return value, nil
	}
}

// terminalSecretReader reads without echo when in is a terminal and falls back
// to a plain line read otherwise (pipes, CI).
func terminalSecretReader(in *os.File, reader *bufio.Reader, out io.Writer) func(label string) (string, error) {
	return func(label string) (string, error) {
		fd := int(in.Fd())
		if !term.IsTerminal(fd) {
			fmt.Fprintf(out, "%s: ", label)
			line, err := reader.ReadString('\n')
			if err != nil && (err != io.EOF || line == "") {
				return "", fmt.Errorf("read %s: %w", strings.ToLower(label), err)
			}
			return strings.TrimRight(line, "\r\n"), nil
		}

		fmt.Fprintf(out, "%s: ", label)
		secret, err := term.ReadPassword(fd)
		fmt.Fprintln(out)
		if err != nil {
			return "", fmt.Errorf("read %s: %w", strings.ToLower(label), err)
		}
		return string(secret), nil
	}
}

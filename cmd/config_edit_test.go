package cmd

import (
	"bytes"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

func TestResolveConfigEditPath(t *testing.T) {
	if got, _ := resolveConfigEditPath("./custom.yaml", "/tmp/active.yaml"); got != "./custom.yaml" {
		t.Fatalf("flag should win, got %q", got)
	}
	if got, _ := resolveConfigEditPath("  ", "/tmp/active.yaml"); got != "/tmp/active.yaml" {
		t.Fatalf("active config should be used, got %q", got)
	}

	home := t.TempDir()
	t.Setenv("HOME", home)
	got, err := resolveConfigEditPath("", "")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if want := filepath.Join(home, ".p6export.yaml"); got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestResolveEditorValue(t *testing.T) {
	t.Parallel()

	cases := map[string][3]string{
		"visual wins":     {"code --wait", "nano", "code --wait"},
		"editor fallback": {"", "nano", "nano"},
		"default vi":      {"", " ", "vi"},
	}
	for name, c := range cases {
		if got := resolveEditorValue(c[0], c[1]); got != c[2] {
			t.Fatalf("%s: expected %q, got %q", name, c[2], got)
		}
	}
}

func TestBuildEditorCommand(t *testing.T) {
	t.Parallel()

	c, err := buildEditorCommand("code --wait", "/tmp/cfg.yaml")
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if len(c.Args) != 3 || c.Args[0] != "code" || c.Args[1] != "--wait" || c.Args[2] != "/tmp/cfg.yaml" {
		t.Fatalf("unexpected args %#v", c.Args)
	}
	if _, err := buildEditorCommand("   ", "/tmp/cfg.yaml"); err == nil {
		t.Fatalf("expected error for empty editor")
	}
}

func TestEditConfig_SeedsTemplateAndValidates(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "nested", ".p6export.yaml")
	var ran []string
	var out bytes.Buffer

	err := editConfig(&out, path, "fake-editor -w", func(c *exec.Cmd) error {
		ran = c.Args
		raw, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		if !strings.HasPrefix(string(raw), "# p6export configuration") {
			t.Fatalf("editor should see the example template, got:\n%s", raw)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("edit: %v", err)
	}
	if len(ran) != 3 || ran[2] != path {
		t.Fatalf("unexpected editor args %#v", ran)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if info.Mode().Perm() != 0o600 {
		t.Fatalf("expected mode 0600, got %o", info.Mode().Perm())
	}
	if !strings.Contains(out.String(), "Created example config") || !strings.Contains(out.String(), "saved and validated") {
		t.Fatalf("unexpected output %q", out.String())
	}
}

func TestEditConfig_RestrictsFileWithPassword(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), ".p6export.yaml")
	if err := os.WriteFile(path, []byte("p6:\n  host: p6.example.com\n"), 0o644); err != nil {
		t.Fatalf("seed: %v", err)
	}

	var out bytes.Buffer
	err := editConfig(&out, path, "vi", func(*exec.Cmd) error {
		if err := os.WriteFile(path, []byte("p6:\n  host: p6.example.com\n  password: hunter2\n"), 0o644); err != nil {
			return err
		}
		return os.Chmod(path, 0o644)
	})
	if err != nil {
		t.Fatalf("edit: %v", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if info.Mode().Perm() != 0o600 {
		t.Fatalf("expected mode 0600, got %o", info.Mode().Perm())
	}
	if !strings.Contains(out.String(), "permissions set to 0600") {
		t.Fatalf("expected permission notice, got %q", out.String())
	}
}

func TestEditConfig_ReportsInvalidContent(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), ".p6export.yaml")
	err := editConfig(&bytes.Buffer{}, path, "vi", func(*exec.Cmd) error {
		return os.WriteFile(path, []byte("export:\n  format: parquet\n"), 0o600)
	})
	if err == nil || !strings.Contains(err.Error(), "is invalid") {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestEditConfig_EditorFailure(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), ".p6export.yaml")
	err := editConfig(&bytes.Buffer{}, path, "vi", func(*exec.Cmd) error {
		return errors.New("exit status 1")
	})
	if err == nil || !strings.Contains(err.Error(), `run editor "vi"`) {
		t.Fatalf("expected editor error, got %v", err)
	}
}

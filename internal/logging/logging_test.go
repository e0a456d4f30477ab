package logging

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNew_ConsoleRespectsLevel(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger, closeFn, err := New(Options{Level: "warn", Console: &buf})
	if err != nil {
		t.Fatalf("new logger: %v", err)
	}
	logger.Info("hidden")
	logger.Warn("visible")
	if err := closeFn(); err != nil {
		t.Fatalf("close: %v", err)
	}

	out := buf.String()
	if strings.Contains(out, "hidden") || !strings.Contains(out, "visible") {
		t.Fatalf("unexpected console output:\n%s", out)
	}
}

func TestNew_FileWritesJSON(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "logs", "p6export.log")
	logger, closeFn, err := New(Options{Level: "debug", File: path})
	if err != nil {
		t.Fatalf("new logger: %v", err)
	}
	logger.Debug("read entity")
	if err := closeFn(); err != nil {
		t.Fatalf("close: %v", err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	var entry map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(raw), &entry); err != nil {
		t.Fatalf("expected one json line, got %q: %v", string(raw), err)
	}
	if entry["msg"] != "read entity" || entry["lv"] != "debug" {
		t.Fatalf("unexpected entry %v", entry)
	}
}

func TestParseLevel_RejectsUnknown(t *testing.T) {
	t.Parallel()

	if _, err := ParseLevel("verbose"); err == nil {
		t.Fatalf("expected error")
	}
}

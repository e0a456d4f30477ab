package cmd

import (
	"bufio"
	"bytes"
	"p6export/config"
	"strings"
	"testing"
)

func TestResolveConnection_PromptsForMissingValues(t *testing.T) {
	t.Parallel()

	cfg := config.P6Config{}
	reader := bufio.NewReader(strings.NewReader("\np6.example.com\njdoe\n"))
	var out bytes.Buffer
	var secretLabel string

	err := resolveConnection(&cfg, reader, &out, func(label string) (string, error) {
		secretLabel = label
		return "s3cret", nil
	})
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if cfg.Host != "p6.example.com" || cfg.Username != "jdoe" || cfg.Password != "s3cret" {
		t.Fatalf("unexpected config %+v", cfg)
	}
	if secretLabel != "Password" {
		t.Fatalf("unexpected secret label %q", secretLabel)
	}
	if !strings.Contains(out.String(), "Value must not be empty.") {
		t.Fatalf("expected retry notice for empty input, got %q", out.String())
	}
	if strings.Contains(out.String(), "s3cret") {
		t.Fatalf("password echoed to output")
	}
}

func TestResolveConnection_KeepsConfiguredValues(t *testing.T) {
	t.Parallel()

	cfg := config.P6Config{Host: "p6.example.com", Username: "jdoe", Password: "x"}
	var out bytes.Buffer
	err := resolveConnection(&cfg, bufio.NewReader(strings.NewReader("")), &out, func(string) (string, error) {
		t.Fatalf("secret reader must not be called")
		return "", nil
	})
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if out.Len() != 0 {
		t.Fatalf("expected no prompt, got %q", out.String())
	}
}

func TestResolveConnection_FailsOnClosedInput(t *testing.T) {
	t.Parallel()

	cfg := config.P6Config{Host: "p6.example.com"}
	err := resolveConnection(&cfg, bufio.NewReader(strings.NewReader("")), &bytes.Buffer{}, func(string) (string, error) {
		return "x", nil
	})
	if err == nil || !strings.Contains(err.Error(), "read username") {
		t.Fatalf("expected read error, got %v", err)
	}
}

func TestResolveConnection_RejectsEmptyPassword(t *testing.T) {
	t.Parallel()

	cfg := config.P6Config{Host: "p6.example.com", Username: "jdoe"}
	err := resolveConnection(&cfg, bufio.NewReader(strings.NewReader("")), &bytes.Buffer{}, func(string) (string, error) {
		return "", nil
	})
	if err == nil {
		t.Fatalf("expected error for empty password")
	}
}

package config

import (
	"p6export/p6"
	"strings"
	"testing"
	"time"
)

func TestValidateYAMLContent_ExampleIsValid(t *testing.T) {
	t.Parallel()

	cfg, err := ValidateYAMLContent([]byte(ExampleYAML()))
	if err != nil {
		t.Fatalf("expected example config to validate: %v", err)
	}
	if cfg.P6.Port != 443 || cfg.P6.Timeout != 60*time.Second {
		t.Fatalf("unexpected p6 defaults: %+v", cfg.P6)
	}
	if cfg.Export.Format != "csv" || cfg.Export.OnError != "abort" || cfg.Export.OutputDir != "." {
		t.Fatalf("unexpected export defaults: %+v", cfg.Export)
	}
	kinds, err := cfg.Kinds()
	if err != nil {
		t.Fatalf("kinds: %v", err)
	}
	if len(kinds) != len(p6.AllKinds) {
		t.Fatalf("empty entity list should select all kinds, got %v", kinds)
	}
}

func TestValidateYAMLContent_AppliesDefaultsToPartialFile(t *testing.T) {
	t.Parallel()

	cfg, err := ValidateYAMLContent([]byte(`p6:
  host: p6.example.com
  username: jdoe
`))
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if cfg.P6.Host != "p6.example.com" || cfg.P6.Username != "jdoe" || cfg.P6.PasswordType != "text" {
		t.Fatalf("unexpected p6 config: %+v", cfg.P6)
	}
	if cfg.Log.Level != "info" {
		t.Fatalf("expected default log level, got %q", cfg.Log.Level)
	}
}

func TestValidateYAMLContent_NormalizesCase(t *testing.T) {
	t.Parallel()

	cfg, err := ValidateYAMLContent([]byte(`export:
  format: Excel
  on_error: CONTINUE
p6:
  password_type: Digest
  timeout: 2m
`))
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if cfg.Export.Format != "excel" || cfg.Export.OnError != "continue" || cfg.P6.PasswordType != "digest" {
		t.Fatalf("expected normalized values, got %+v / %+v", cfg.Export, cfg.P6)
	}
	if cfg.P6.Timeout != 2*time.Minute {
		t.Fatalf("unexpected timeout %s", cfg.P6.Timeout)
	}
}

func TestValidateYAMLContent_Rejects(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"format":        "export:\n  format: parquet\n",
		"policy":        "export:\n  on_error: retry\n",
		"password type": "p6:\n  password_type: kerberos\n",
		"port":          "p6:\n  port: 0\n",
		"host":          "p6:\n  host: \"https://p6.example.com/p6ws\"\n",
		"log level":     "log:\n  level: verbose\n",
		"output dir":    "export:\n  output_dir: \"\"\n",
	}
	for name, content := range cases {
		if _, err := ValidateYAMLContent([]byte(content)); err == nil {
			t.Fatalf("%s: expected validation error", name)
		}
	}
}

func TestValidateYAMLContent_RejectsUnknownEntity(t *testing.T) {
	t.Parallel()

	_, err := ValidateYAMLContent([]byte(`export:
  entities:
    - resource-hours
    - Activity
`))
	if err == nil {
		t.Fatalf("expected validation error for unknown entity")
	}
	if !strings.Contains(err.Error(), "export.entities[1]") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestParseKinds_CanonicalOrderWithoutDuplicates(t *testing.T) {
	t.Parallel()

	kinds, err := ParseKinds([]string{"timesheets", "resource-hour", "Timesheet"})
	if err != nil {
		t.Fatalf("parse kinds: %v", err)
	}
	if len(kinds) != 2 || kinds[0] != p6.KindResourceHour || kinds[1] != p6.KindTimesheet {
		t.Fatalf("unexpected kinds %v", kinds)
	}
}

func TestRedacted(t *testing.T) {
	t.Parallel()

	cfg := Config{P6: P6Config{Username: "jdoe", Password: "hunter2"}}
	redacted := cfg.Redacted()
	if redacted.P6.Password == "hunter2" || redacted.P6.Password == "" {
		t.Fatalf("password not redacted: %q", redacted.P6.Password)
	}
	if cfg.P6.Password != "hunter2" {
		t.Fatalf("original config was modified")
	}
	if (Config{}).Redacted().P6.Password != "" {
		t.Fatalf("empty password should stay empty")
	}
}

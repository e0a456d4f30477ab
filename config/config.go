package config

import (
	"bytes"
	"fmt"
	"p6export/p6"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

const (
	KeyP6Host         = "p6.host"
	KeyP6Port         = "p6.port"
	KeyP6Username     = "p6.username"
	KeyP6Password     = "p6.password"
	KeyP6PasswordType = "p6.password_type"
	KeyP6Timeout      = "p6.timeout"
	KeyP6LogTraffic   = "p6.log_traffic"

	KeyExportOutputDir = "export.output_dir"
	KeyExportFormat    = "export.format"
	KeyExportEntities  = "export.entities"
	KeyExportOnError   = "export.on_error"

	KeyLogLevel = "log.level"
	KeyLogFile  = "log.file"

	// EnvPrefix prefixes every environment override, e.g. P6EXPORT_P6_PASSWORD.
	EnvPrefix = "P6EXPORT"

	redactedPassword = "********"
)

type Config struct {
	P6     P6Config     `mapstructure:"p6" yaml:"p6"`
	Export ExportConfig `mapstructure:"export" yaml:"export"`
	Log    LogConfig    `mapstructure:"log" yaml:"log"`
}

type P6Config struct {
	Host         string        `mapstructure:"host" yaml:"host" validate:"omitempty,hostname_rfc1123|ip"`
	Port         int           `mapstructure:"port" yaml:"port" validate:"min=1,max=65535"`
	Username     string        `mapstructure:"username" yaml:"username"`
	Password     string        `mapstructure:"password" yaml:"password"`
	PasswordType string        `mapstructure:"password_type" yaml:"password_type" validate:"oneof=text digest"`
	Timeout      time.Duration `mapstructure:"timeout" yaml:"timeout" validate:"gte=0"`
	LogTraffic   bool          `mapstructure:"log_traffic" yaml:"log_traffic"`
}

type ExportConfig struct {
	OutputDir string   `mapstructure:"output_dir" yaml:"output_dir" validate:"required"`
	Format    string   `mapstructure:"format" yaml:"format" validate:"oneof=csv excel xlsx sqlite db"`
	Entities  []string `mapstructure:"entities" yaml:"entities"`
	OnError   string   `mapstructure:"on_error" yaml:"on_error" validate:"oneof=abort continue"`
}

type LogConfig struct {
	Level string `mapstructure:"level" yaml:"level" validate:"oneof=debug info warn error"`
	File  string `mapstructure:"file" yaml:"file"`
}

// Kinds resolves export.entities; an empty list selects every entity type.
func (c *Config) Kinds() ([]p6.Kind, error) {
	if len(c.Export.Entities) == 0 {
		return append([]p6.Kind(nil), p6.AllKinds...), nil
	}
	return ParseKinds(c.Export.Entities)
}

// ParseKinds resolves entity names and returns them in export order without
// duplicates.
func ParseKinds(names []string) ([]p6.Kind, error) {
	selected := make(map[p6.Kind]bool, len(names))
	for i, name := range names {
		kind, err := p6.ParseKind(name)
		if err != nil {
			return nil, fmt.Errorf("entities[%d]: %w", i, err)
		}
		selected[kind] = true
	}

	kinds := make([]p6.Kind, 0, len(selected))
	for _, kind := range p6.AllKinds {
		if selected[kind] {
			kinds = append(kinds, kind)
		}
	}
	return kinds, nil
}

// Redacted returns a copy that is safe to print.
func (c Config) Redacted() Config {
	if c.P6.Password != "" {
		c.P6.Password = redactedPassword
	}
	c.Export.Entities = append([]string(nil), c.Export.Entities...)
	return c
}

// SetDefaults sets default values if not provided
func SetDefaults() {
	setDefaults(viper.GetViper())
}

// LoadAndValidate loads config from Viper and validates it
func LoadAndValidate() (*Config, error) {
	return loadAndValidateFromViper(viper.GetViper())
}

// ValidateYAMLContent validates configuration from raw YAML content.
func ValidateYAMLContent(content []byte) (*Config, error) {
	local := viper.New()
	setDefaults(local)
	local.SetConfigType("yaml")
	if err := local.ReadConfig(bytes.NewReader(content)); err != nil {
		return nil, fmt.Errorf("read config content: %w", err)
	}
	return loadAndValidateFromViper(local)
}

// ExampleYAML returns the default configuration template.
func ExampleYAML() string {
	return `# p6export configuration
p6:
  host: ""              # P6 EPPM web services host, e.g. p6.example.com
  port: 443
  username: ""
  password: ""          # leave empty to be prompted; or set P6EXPORT_P6_PASSWORD
  password_type: text   # text | digest
  timeout: 60s
  log_traffic: false

export:
  output_dir: "."
  format: csv           # csv | excel | sqlite
  entities: []          # empty exports all entity types
  on_error: abort       # abort | continue

log:
  level: info           # debug | info | warn | error
  file: ""
`
}

func loadAndValidateFromViper(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	normalize(&cfg)

	validate := validator.New()
	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}
	if _, err := cfg.Kinds(); err != nil {
		return nil, fmt.Errorf("validation failed: export.%w", err)
	}

	return &cfg, nil
}

func normalize(cfg *Config) {
	cfg.P6.Host = strings.TrimSpace(cfg.P6.Host)
	cfg.P6.PasswordType = lowerTrim(cfg.P6.PasswordType)
	cfg.Export.Format = lowerTrim(cfg.Export.Format)
	cfg.Export.OnError = lowerTrim(cfg.Export.OnError)
	cfg.Log.Level = lowerTrim(cfg.Log.Level)
}

func lowerTrim(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}

func setDefaults(v *viper.Viper) {
	v.SetDefault(KeyP6Host, "")
	v.SetDefault(KeyP6Port, p6.DefaultPort)
	v.SetDefault(KeyP6Username, "")
	v.SetDefault(KeyP6Password, "")
	v.SetDefault(KeyP6PasswordType, "text")
	v.SetDefault(KeyP6Timeout, "60s")
	v.SetDefault(KeyP6LogTraffic, false)
	v.SetDefault(KeyExportOutputDir, ".")
	v.SetDefault(KeyExportFormat, "csv")
	v.SetDefault(KeyExportEntities, []string{})
	v.SetDefault(KeyExportOnError, "abort")
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyLogFile, "")
}

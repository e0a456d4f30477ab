package cmd

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"p6export/config"
	"p6export/export"
	"p6export/internal/logging"
	"p6export/output"
	"p6export/p6"
	"p6export/wssecurity"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
)

// exportOptions holds flag values. A flag only overrides config when it was
// set on the command line.
type exportOptions struct {
	host         string
	port         int
	username     string
	password     string
	passwordType string
	timeout      time.Duration
	logTraffic   bool
	outputDir    string
	format       string
	entities     []string
	onError      string
	logLevel     string
}

var exportOpts exportOptions

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Read P6 entity tables and write one artifact per entity type.",
	Long: `Read every selected entity type from the P6 web services and write one artifact per
entity type into the output directory.

All reads happen first, one call at a time; artifacts are written afterwards. Each
artifact is written to a temporary file and renamed into place, so an existing
artifact is only replaced by a complete one.

Failure policy (--on-error):
- abort: stop at the first failure; a failed read leaves no artifact behind
- continue: attempt every entity type and report each failure

Missing host, username or password are prompted for on the terminal.`,
	Example: `
  # Export everything to CSV in the current directory
  p6export export --host p6.example.com --username jdoe

  # Export timesheets only, as SQLite, into ./out
  p6export export --entity timesheet -f sqlite -o ./out

  # Use the UsernameToken password digest and log SOAP traffic metadata
  p6export export --password-type digest --log-traffic
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadAndValidate()
		if err != nil {
			return err
		}
		if err := exportOpts.apply(cmd.Flags(), cfg); err != nil {
			return err
		}

		if cfg.P6.LogTraffic {
			cfg.Log.Level = "debug"
		}
		logger, closeLog, err := logging.New(logging.Options{Level: cfg.Log.Level, File: cfg.Log.File})
		if err != nil {
			return err
		}
		defer closeLog()

		stdin := bufio.NewReader(os.Stdin)
		if err := resolveConnection(&cfg.P6, stdin, os.Stderr, terminalSecretReader(os.Stdin, stdin, os.Stderr)); err != nil {
			return err
		}

		passwordType, err := wssecurity.ParsePasswordType(cfg.P6.PasswordType)
		if err != nil {
			return err
		}
		reader, err := p6.NewReader(p6.ReaderConfig{
			Host:         cfg.P6.Host,
			Port:         cfg.P6.Port,
			Username:     cfg.P6.Username,
			Password:     cfg.P6.Password,
			PasswordType: passwordType,
			Timeout:      cfg.P6.Timeout,
			Logger:       logger.Named("soap"),
			LogTraffic:   cfg.P6.LogTraffic,
		})
		if err != nil {
			return err
		}
		writer, err := output.WriterForFormat(cfg.Export.Format)
		if err != nil {
			return err
		}
		kinds, err := cfg.Kinds()
		if err != nil {
			return err
		}
		policy, err := export.ParsePolicy(cfg.Export.OnError)
		if err != nil {
			return err
		}

		logger.Info("starting export",
			zap.String("host", cfg.P6.Host),
			zap.Int("port", cfg.P6.Port),
			zap.String("format", writer.Format()),
			zap.String("output_dir", cfg.Export.OutputDir),
			zap.String("policy", string(policy)),
			zap.Int("entities", len(kinds)))

		service := &export.Service{
			Reader:    reader,
			Writer:    writer,
			OutputDir: cfg.Export.OutputDir,
			Kinds:     kinds,
			Policy:    policy,
			Logger:    logger,
		}
		report, runErr := service.Run(cmd.Context())
		printReport(cmd.OutOrStdout(), report)
		if runErr != nil {
			return fmt.Errorf("export failed: %w", runErr)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Export completed. Artifacts: %d, Format: %s, Directory: %s\n", len(report.Written()), writer.Format(), cfg.Export.OutputDir)
		return nil
	},
}

func (o *exportOptions) register(flags *pflag.FlagSet) {
	flags.StringVar(&o.host, "host", "", "P6 web services host (overrides p6.host)")
	flags.IntVar(&o.port, "port", p6.DefaultPort, "P6 web services HTTPS port")
	flags.StringVar(&o.username, "username", "", "P6 user name")
	flags.StringVar(&o.password, "password", "", "P6 password (prefer the prompt or P6EXPORT_P6_PASSWORD)")
	flags.StringVar(&o.passwordType, "password-type", "text", "WS-Security password type: text|digest")
	flags.DurationVar(&o.timeout, "timeout", 60*time.Second, "Timeout per remote call (0 disables)")
	flags.BoolVar(&o.logTraffic, "log-traffic", false, "Log SOAP call metadata at debug level (never bodies or passwords)")
	flags.StringVarP(&o.outputDir, "output", "o", ".", "Output directory (created if missing)")
	flags.StringVarP(&o.format, "format", "f", "csv", "Output format: csv|excel|sqlite")
	flags.StringSliceVar(&o.entities, "entity", nil, "Entity type to export, repeatable (default: all)")
	flags.StringVar(&o.onError, "on-error", "abort", "Failure policy: abort|continue")
	flags.StringVar(&o.logLevel, "log-level", "info", "Log level: debug|info|warn|error")
}

// apply copies explicitly set flags onto cfg and validates the values that
// config validation would otherwise have caught.
func (o *exportOptions) apply(flags *pflag.FlagSet, cfg *config.Config) error {
	if flags.Changed("host") {
		cfg.P6.Host = strings.TrimSpace(o.host)
	}
	if flags.Changed("port") {
		if o.port < 1 || o.port > 65535 {
			return fmt.Errorf("--port out of range: %d", o.port)
		}
		cfg.P6.Port = o.port
	}
	if flags.Changed("username") {
		cfg.P6.Username = o.username
	}
	if flags.Changed("password") {
		cfg.P6.Password = o.password
	}
	if flags.Changed("password-type") {
		if _, err := wssecurity.ParsePasswordType(o.passwordType); err != nil {
			return fmt.Errorf("--password-type: %w", err)
		}
		cfg.P6.PasswordType = strings.ToLower(strings.TrimSpace(o.passwordType))
	}
	if flags.Changed("timeout") {
		if o.timeout < 0 {
			return fmt.Errorf("--timeout must not be negative")
		}
		cfg.P6.Timeout = o.timeout
	}
	if flags.Changed("log-traffic") {
		cfg.P6.LogTraffic = o.logTraffic
	}
	if flags.Changed("output") {
		if strings.TrimSpace(o.outputDir) == "" {
			return fmt.Errorf("--output must not be empty")
		}
		cfg.Export.OutputDir = o.outputDir
	}
	if flags.Changed("format") {
		if !output.IsSupportedFormat(o.format) {
			return fmt.Errorf("--format: unsupported output format %q (supported: %s)", o.format, strings.Join(output.SupportedFormats, ", "))
		}
		cfg.Export.Format = o.format
	}
	if flags.Changed("entity") {
		if _, err := config.ParseKinds(o.entities); err != nil {
			return fmt.Errorf("--entity: %w", err)
		}
		cfg.Export.Entities = append([]string(nil), o.entities...)
	}
	if flags.Changed("on-error") {
		if _, err := export.ParsePolicy(o.onError); err != nil {
			return fmt.Errorf("--on-error: %w", err)
		}
		cfg.Export.OnError = o.onError
	}
	if flags.Changed("log-level") {
		if _, err := logging.ParseLevel(o.logLevel); err != nil {
			return fmt.Errorf("--log-level: %w", err)
		}
		cfg.Log.Level = o.logLevel
	}
	return nil
}

func printReport(out io.Writer, report export.Report) {
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ENTITY\tSTATUS\tRECORDS\tARTIFACT")
	for _, outcome := range report.Outcomes {
		var status string
		switch {
		case outcome.Phase == export.PhaseSkipped:
			status = "skipped"
		case outcome.Err != nil:
			status = string(outcome.Phase) + " failed"
		case outcome.Succeeded():
			status = "ok"
		default:
			status = "not exported"
		}
		records := "-"
		if outcome.Phase != export.PhaseSkipped && !(outcome.Phase == export.PhaseRead && outcome.Err != nil) {
			records = fmt.Sprintf("%d", outcome.Records)
		}
		artifact := "-"
		if outcome.Succeeded() {
			artifact = outcome.Path
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", outcome.Kind, status, records, artifact)
	}
	_ = tw.Flush()
}

func init() {
	rootCmd.AddCommand(exportCmd)
	exportOpts.register(exportCmd.Flags())
}

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"csv2ics/internal/config"
	"csv2ics/internal/convert"
	appLog "csv2ics/internal/log"
)

// rootFlags holds CLI flag values; only flags that were set override config.
type rootFlags struct {
	configPath     string
	input          string
	output         string
	delimiter      string
	subjectColumn  string
	dateColumn     string
	defaultSubject string
	logLevel       string
	noColor        bool
}

func newRootCmd() *cobra.Command {
	var f rootFlags

	cmd := &cobra.Command{
		Use:   "csv2ics",
		Short: "Convert a delimited event list into an iCalendar file",
		Long: `csv2ics reads a delimited text file with a subject and a date column and
writes one .ics calendar that calendar applications can import.

Every row with a valid date (DD/MM/YYYY or YYYY-MM-DD) becomes a 09:00-09:30
event with a reminder 15 minutes before it starts.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConvert(cmd, f)
		},
	}
	cmd.SetVersionTemplate(`{{printf "csv2ics version %s\n" .Version}}`)

	fl := cmd.Flags()
	fl.StringVarP(&f.input, "input", "i", "", "Input CSV file (required)")
	fl.StringVarP(&f.output, "output", "o", config.DefaultOutput, "Output .ics file")
	fl.StringVarP(&f.delimiter, "delimiter", "d", config.DefaultDelimiter, "CSV delimiter")
	fl.StringVar(&f.subjectColumn, "col-subject", config.DefaultSubjectColumn, "Name of the event title column")
	fl.StringVar(&f.dateColumn, "col-date", config.DefaultDateColumn, "Name of the event date column")
	fl.StringVar(&f.defaultSubject, "default-subject", config.DefaultDefaultSubject, "Event title used when the subject is empty")
	_ = cmd.MarkFlagRequired("input")

	pf := cmd.PersistentFlags()
	pf.StringVar(&f.configPath, "config", "", "Path to a YAML config file")
	pf.StringVar(&f.logLevel, "log-level", "", "Log level: debug, info, warn, error, critical")
	pf.BoolVar(&f.noColor, "no-color", false, "Disable colored log output")

	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		level := config.DefaultLogLevel
		if f.logLevel != "" {
			level = f.logLevel
		}
		setupLogger(cmd, level, f.noColor)
		return nil
	}

	cmd.AddCommand(newVerifyCmd())
	cmd.AddCommand(newInitConfigCmd())

	return cmd
}

func setupLogger(cmd *cobra.Command, level string, noColor bool) *appLog.Logger {
	lvl, ok := appLog.ParseLevel(level)
	logger := appLog.New(cmd.ErrOrStderr(), appLog.Options{MinLevel: lvl, NoColor: noColor})
	appLog.SetDefault(logger)
	if !ok {
		logger.Warn("unknown log level, using info", "log_level", level)
	}
	return logger
}

// loadConfig layers defaults, the YAML file, CSV2ICS_* environment and the
// flags the user set explicitly.
func loadConfig(cmd *cobra.Command, f rootFlags) (*config.Config, error) {
	if err := config.LoadDotEnv(); err != nil {
		appLog.Warn("ignoring .env file", "err", err)
	}

	cfg, err := config.Load(f.configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	cfg.ApplyEnv()

	fl := cmd.Flags()
	if fl.Changed("output") {
		cfg.Output = f.output
	}
	if fl.Changed("delimiter") {
		cfg.Delimiter = f.delimiter
	}
	if fl.Changed("col-subject") {
		cfg.SubjectColumn = f.subjectColumn
	}
	if fl.Changed("col-date") {
		cfg.DateColumn = f.dateColumn
	}
	if fl.Changed("default-subject") {
		cfg.DefaultSubject = f.defaultSubject
	}
	if fl.Changed("log-level") {
		cfg.LogLevel = f.logLevel
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func runConvert(cmd *cobra.Command, f rootFlags) error {
	cfg, err := loadConfig(cmd, f)
	if err != nil {
		appLog.Critical("invalid configuration", err, "config_path", f.configPath)
		return err
	}

	// Config and environment may name a different level than the flag.
	logger := setupLogger(cmd, cfg.LogLevel, f.noColor)

	logger.Debug("effective config",
		"input", f.input,
		"output", cfg.Output,
		"delimiter", cfg.Delimiter,
		"col_subject", cfg.SubjectColumn,
		"col_date", cfg.DateColumn,
		"default_subject", cfg.DefaultSubject,
	)

	sum, err := convert.Run(convert.OptionsFromConfig(f.input, cfg), logger)
	if err != nil {
		logger.Critical("conversion aborted", err, "input", f.input)
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%d events written to %s\n", sum.Accepted, cfg.Output)
	return nil
}

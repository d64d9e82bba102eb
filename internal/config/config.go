package config

import (
	"errors"
	"fmt"
	"os"
	"unicode/utf8"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"csv2ics/internal/fsutil"
)

// Config holds the conversion settings. Values come from, in increasing
// precedence: defaults, an optional YAML file, environment (CSV2ICS_*,
// optionally from a .env file), command-line flags.
type Config struct {
	// Output is the path of the .ics document to write.
	Output string `yaml:"output" json:"output"`

	// Delimiter separates cells in the input. Exactly one character.
	Delimiter string `yaml:"delimiter" json:"delimiter"`

	// SubjectColumn / DateColumn name the input columns. Matching is
	// case-insensitive and ignores surrounding whitespace.
	SubjectColumn string `yaml:"col_subject" json:"col_subject"`
	DateColumn    string `yaml:"col_date" json:"col_date"`

	// DefaultSubject replaces a missing or empty subject.
	DefaultSubject string `yaml:"default_subject" json:"default_subject"`

	// LogLevel is one of debug, info, warn, error, critical.
	LogLevel string `yaml:"log_level" json:"log_level"`
}

const (
	DefaultOutput         = "calendario.ics"
	DefaultDelimiter      = ";"
	DefaultSubjectColumn  = "Assunto"
	DefaultDateColumn     = "Data"
	DefaultDefaultSubject = "Evento Importado"
	DefaultLogLevel       = "info"
)

// Environment variables consulted by ApplyEnv.
const (
	EnvOutput         = "CSV2ICS_OUTPUT"
	EnvDelimiter      = "CSV2ICS_DELIMITER"
	EnvSubjectColumn  = "CSV2ICS_COL_SUBJECT"
	EnvDateColumn     = "CSV2ICS_COL_DATE"
	EnvDefaultSubject = "CSV2ICS_DEFAULT_SUBJECT"
	EnvLogLevel       = "CSV2ICS_LOG_LEVEL"
)

// DefaultConfig returns an in-memory default configuration.
func DefaultConfig() *Config {
	return &Config{
		Output:         DefaultOutput,
		Delimiter:      DefaultDelimiter,
		SubjectColumn:  DefaultSubjectColumn,
		DateColumn:     DefaultDateColumn,
		DefaultSubject: DefaultDefaultSubject,
		LogLevel:       DefaultLogLevel,
	}
}

// Normalize fills in missing/zero values with defaults so that
// partially-filled configs still behave correctly.
func (c *Config) Normalize() {
	if c.Output == "" {
		c.Output = DefaultOutput
	}
	if c.Delimiter == "" {
		c.Delimiter = DefaultDelimiter
	}
	if c.SubjectColumn == "" {
		c.SubjectColumn = DefaultSubjectColumn
	}
	if c.DateColumn == "" {
		c.DateColumn = DefaultDateColumn
	}
	if c.DefaultSubject == "" {
		c.DefaultSubject = DefaultDefaultSubject
	}
	if c.LogLevel == "" {
		c.LogLevel = DefaultLogLevel
	}
}

// Validate reports settings that cannot drive a conversion.
func (c *Config) Validate() error {
	_, err := ParseDelimiter(c.Delimiter)
	return err
}

// ParseDelimiter returns the single delimiter character of s. Quotes, line
// breaks and invalid UTF-8 are rejected.
func ParseDelimiter(s string) (rune, error) {
	if !utf8.ValidString(s) || utf8.RuneCountInString(s) != 1 {
		return 0, fmt.Errorf("delimiter must be a single character, got %q", s)
	}
	r, _ := utf8.DecodeRuneInString(s)
	switch r {
	case '"', '\r', '\n', utf8.RuneError:
		return 0, fmt.Errorf("invalid delimiter %q", s)
	}
	return r, nil
}

// Load reads configuration from the given YAML path.
//
// Behavior:
//   - Empty path: defaults.
//   - Missing file: error (a named config must exist).
//   - Otherwise: unmarshal over the defaults, then normalize.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	cfg.Normalize()

	return cfg, nil
}

// LoadDotEnv loads variables from the given .env files (default ".env") into
// the process environment without overriding existing variables. A missing
// file is not an error.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil {
			if errors.Is(err, os.ErrNotExist) {
				continue
			}
			return fmt.Errorf("load %s: %w", f, err)
		}
	}
	return nil
}

// ApplyEnv overrides fields from CSV2ICS_* environment variables. Empty
// variables are ignored.
func (c *Config) ApplyEnv() {
	set := func(dst *string, key string) {
		if v, ok := os.LookupEnv(key); ok && v != "" {
			*dst = v
		}
	}
	set(&c.Output, EnvOutput)
	set(&c.Delimiter, EnvDelimiter)
	set(&c.SubjectColumn, EnvSubjectColumn)
	set(&c.DateColumn, EnvDateColumn)
	set(&c.DefaultSubject, EnvDefaultSubject)
	set(&c.LogLevel, EnvLogLevel)
}

// Save writes the given configuration to the specified path as YAML,
// atomically and with 0600 permissions.
func Save(path string, cfg *Config) error {
	if path == "" {
		return errors.New("config path is empty")
	}
	if cfg == nil {
		return errors.New("config is nil")
	}

	cfg.Normalize()

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return fsutil.WriteFileAtomic(path, data, 0o600)
}

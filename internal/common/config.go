package common

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Dnyaneshwarigund12/Invoice-extraction/constants"
)

// Config holds all application configuration
type Config struct {
	Input    InputConfig
	Output   OutputConfig
	Profiles ProfilesConfig
	Text     TextConfig
	Log      LogConfig
}

// InputConfig holds input-related configuration
type InputConfig struct {
	Dir   string
	Files []string // explicit batch; empty means the default list
	Scan  bool     // enumerate *.pdf in Dir instead of using Files
	Watch bool     // rebuild the workbook whenever Dir changes
	// Debounce coalesces bursts of file events in watch mode.
	Debounce time.Duration
}

// OutputConfig holds workbook and debug-artifact configuration
type OutputConfig struct {
	Dir      string
	Workbook string
}

// ProfilesConfig holds layout-profile configuration
type ProfilesConfig struct {
	File string // optional YAML override of the embedded profiles
}

// TextConfig holds document text-extraction configuration
type TextConfig struct {
	Engine    string
	Pdftotext string
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level string
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	return &Config{
		Input: InputConfig{
			Dir:      getEnv("INVOICE_INPUT_DIR", "input"),
			Scan:     getEnvAsBool("INVOICE_SCAN_INPUT", false),
			Watch:    getEnvAsBool("INVOICE_WATCH", false),
			Debounce: getEnvAsDuration("INVOICE_WATCH_DEBOUNCE", 2*time.Second),
		},
		Output: OutputConfig{
			Dir:      getEnv("INVOICE_OUTPUT_DIR", "output"),
			Workbook: getEnv("INVOICE_WORKBOOK", constants.DefaultWorkbookName),
		},
		Profiles: ProfilesConfig{
			File: getEnv("INVOICE_PROFILES_FILE", ""),
		},
		Text: TextConfig{
			Engine:    getEnv("INVOICE_TEXT_ENGINE", constants.TextEngineNative),
			Pdftotext: getEnv("PDFTOTEXT_BIN", "pdftotext"),
		},
		Log: LogConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
	}
}

// Helper functions for environment variable parsing
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	switch strings.ToLower(strings.TrimSpace(os.Getenv(key))) {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// WorkbookPath is where the batch workbook is saved.
func (c *Config) WorkbookPath() string {
	return filepath.Join(c.Output.Dir, c.Output.Workbook)
}

// SlogLevel maps the configured level name to a slog.Level, defaulting to info.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.Log.Level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Validate validates the loaded configuration
func (c *Config) Validate() error {
	v := NewValidator().
		Field("input.dir", c.Input.Dir, Required).
		Field("output.dir", c.Output.Dir, Required).
		Field("output.workbook", c.Output.Workbook, Required, Extension(".xlsx")).
		Field("text.engine", c.Text.Engine, OneOf(constants.TextEngineNative, constants.TextEnginePdftotext))
	if c.Input.Watch && c.Input.Debounce < 0 {
		v.errors = append(v.errors, ValidationError{Field: "input.debounce", Value: c.Input.Debounce, Message: "must not be negative"})
	}
	if c.Text.Engine == constants.TextEnginePdftotext {
		v.Field("text.pdftotext", c.Text.Pdftotext, Required)
	}
	if v.HasErrors() {
		return NewAppError(CodeConfig, v.ErrorMessage(), ErrInvalidInput)
	}
	return nil
}

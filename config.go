// FILE: mylog/config.go
package mylog

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/user"
	"path/filepath"
	"reflect"
	"regexp"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/lixenwraith/config"

	"github.com/rdatools/mylog/sanitizer"
)

// Config holds all logger, mailer and runner configuration values
type Config struct {
	// Log files
	LogPath   string `toml:"log_path"`   // Directory of the log, error and email files
	LogFile   string `toml:"log_file"`   // Main log file name
	ErrFile   string `toml:"err_file"`   // Error file name, derived from log_file when empty
	EmailFile string `toml:"email_file"` // Record of sent emails

	// Debug sink
	DebugPath  string `toml:"debug_path"`  // Falls back to log_path
	DebugFile  string `toml:"debug_file"`  // Debug file name
	DebugLevel string `toml:"debug_level"` // "N", "A-B", "A-" or "-B"; empty disables Debug

	// Behavior
	LogMask      int64  `toml:"log_mask"`     // Action bits allowed through Log
	Background   bool   `toml:"background"`   // Suppress screen echo
	NoQuit       bool   `toml:"no_quit"`      // Never exit on ExitLog
	SepLine      string `toml:"sep_line"`     // Separator for SepLine and email composition
	Sanitization string `toml:"sanitization"` // Policy for text written to files: "raw" or "txt"

	// Command execution
	TimeoutS     int64  `toml:"timeout_s"`      // Default deadline for timed runs
	SlowCommandS int64  `toml:"slow_command_s"` // Threshold for the slow-command timing line
	SlowCommands string `toml:"slow_commands"`  // Pipe-separated tools expected to be slow
	RetryDelayMs int64  `toml:"retry_delay_ms"` // Backoff between attempts
	Shell        string `toml:"shell"`          // Shell used to run command strings

	// Email
	EmailSend   string `toml:"email_send"`   // Mail transfer command, message on stdin
	EmailAddr   string `toml:"email_addr"`   // Default receiver
	CcAddr      string `toml:"cc_addr"`      // Initial carbon copies
	EmailDomain string `toml:"email_domain"` // Appended to bare user names

	// Identity, resolved from the environment when empty
	Hostname string `toml:"hostname"`
	User     string `toml:"user"`
	Program  string `toml:"program"`
}

// defaultConfig is the single source for all configurable default values
var defaultConfig = Config{
	// Log files
	LogPath:   "./log",
	LogFile:   "mydss.log",
	ErrFile:   "",
	EmailFile: "myemail.log",

	// Debug sink
	DebugPath:  "",
	DebugFile:  "mydss.dbg",
	DebugLevel: "",

	// Behavior
	LogMask:      int64(DefaultLogMask),
	Background:   false,
	NoQuit:       false,
	SepLine:      strings.Repeat("=", 59) + "\n",
	Sanitization: string(sanitizer.PolicyRaw),

	// Command execution
	TimeoutS:     15,
	SlowCommandS: 120,
	SlowCommands: "dsarch|dsupdt|dsrqst|rdacp|rdasub",
	RetryDelayMs: 6000,
	Shell:        "/bin/sh",

	// Email
	EmailSend:   "/usr/lib/sendmail -t",
	EmailAddr:   "",
	CcAddr:      "",
	EmailDomain: "localhost",
}

// DefaultConfig returns a copy of the default configuration
func DefaultConfig() *Config {
	// Copy so callers cannot modify the defaults
	copiedConfig := defaultConfig
	return &copiedConfig
}

// NewConfigFromFile loads configuration from a TOML file, applies MYLOG_*
// environment overrides and returns a validated Config.
// A missing file is not an error.
func NewConfigFromFile(path string) (*Config, error) {
	cfg := DefaultConfig()

	// Use lixenwraith/config as a loader
	loader := config.New()

	// Register the struct to enable proper unmarshaling
	if err := loader.RegisterStruct("mylog.", *cfg); err != nil {
		return nil, fmt.Errorf("failed to register config struct: %w", err)
	}

	// Load from file (handles file not found gracefully)
	if err := loader.Load(path, nil); err != nil && !errors.Is(err, config.ErrConfigNotFound) {
		return nil, fmt.Errorf("failed to load config from %s: %w", path, err)
	}

	// Extract values into our Config struct
	if err := extractConfig(loader, "mylog.", cfg); err != nil {
		return nil, fmt.Errorf("failed to extract config values: %w", err)
	}

	if err := ApplyEnv(cfg); err != nil {
		return nil, err
	}

	// Validate the loaded configuration
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// NewConfigFromDefaults creates a Config with default values and applies overrides
func NewConfigFromDefaults(overrides map[string]any) (*Config, error) {
	cfg := DefaultConfig()

	// Apply overrides using reflection
	if err := applyOverrides(cfg, overrides); err != nil {
		return nil, fmt.Errorf("failed to apply overrides: %w", err)
	}

	// Validate the configuration
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// extractConfig extracts values from lixenwraith/config into our Config struct
func extractConfig(loader *config.Config, prefix string, cfg *Config) error {
	v := reflect.ValueOf(cfg).Elem()
	t := v.Type()

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		fieldValue := v.Field(i)

		// Get the toml tag to determine the config key
		tomlTag := field.Tag.Get("toml")
		if tomlTag == "" {
			continue
		}

		key := prefix + tomlTag

		// Get value from loader
		val, found := loader.Get(key)
		if !found {
			continue // Use default value
		}

		// Set the field value with type conversion
		if err := setFieldValue(fieldValue, val); err != nil {
			return fmt.Errorf("failed to set field %s: %w", field.Name, err)
		}
	}

	return nil
}

// applyOverrides applies a map of overrides to the Config struct
func applyOverrides(cfg *Config, overrides map[string]any) error {
	v := reflect.ValueOf(cfg).Elem()
	t := v.Type()

	// Create a map of field names to field values for efficient lookup
	fieldMap := make(map[string]reflect.Value)
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		tomlTag := field.Tag.Get("toml")
		if tomlTag != "" {
			fieldMap[tomlTag] = v.Field(i)
		}
	}

	for key, value := range overrides {
		fieldValue, exists := fieldMap[key]
		if !exists {
			return fmt.Errorf("unknown config key: %s", key)
		}

		if err := setFieldValue(fieldValue, value); err != nil {
			return fmt.Errorf("failed to set %s: %w", key, err)
		}
	}

	return nil
}

// setFieldValue sets a reflect.Value with proper type conversion
func setFieldValue(field reflect.Value, value any) error {
	switch field.Kind() {
	case reflect.String:
		strVal, ok := value.(string)
		if !ok {
			return fmt.Errorf("expected string, got %T", value)
		}
		field.SetString(strVal)

	case reflect.Int64:
		switch v := value.(type) {
		case int64:
			field.SetInt(v)
		case int:
			field.SetInt(int64(v))
		case Action:
			field.SetInt(int64(v))
		case string:
			// Action expressions are accepted for the mask
			act, err := ParseAction(v)
			if err != nil {
				return err
			}
			field.SetInt(int64(act))
		default:
			return fmt.Errorf("expected int64, got %T", value)
		}

	case reflect.Bool:
		boolVal, ok := value.(bool)
		if !ok {
			return fmt.Errorf("expected bool, got %T", value)
		}
		field.SetBool(boolVal)

	default:
		return fmt.Errorf("unsupported field type: %v", field.Kind())
	}

	return nil
}

// Validate performs validation on the configuration
func (c *Config) Validate() error {
	// String validations
	if strings.TrimSpace(c.LogFile) == "" {
		return fmtErrorf("log_file cannot be empty")
	}

	if strings.ContainsRune(c.LogFile, filepath.Separator) {
		return fmtErrorf("log_file must be a file name, not a path: %s", c.LogFile)
	}

	if strings.TrimSpace(c.Shell) == "" {
		return fmtErrorf("shell cannot be empty")
	}

	if !sanitizer.ValidPolicy(c.Sanitization) || c.Sanitization == string(sanitizer.PolicyShell) {
		return fmtErrorf("invalid sanitization: '%s' (use raw or txt)", c.Sanitization)
	}

	if c.DebugLevel != "" {
		if _, _, err := parseDebugLevels(c.DebugLevel); err != nil {
			return fmtErrorf("invalid debug_level: %w", err)
		}
	}

	if c.SlowCommands != "" {
		if _, err := regexp.Compile(slowCommandPattern(c.SlowCommands)); err != nil {
			return fmtErrorf("invalid slow_commands '%s': %w", c.SlowCommands, err)
		}
	}

	// Numeric validations
	if c.LogMask < 0 || c.LogMask > int64(DefaultLogMask) {
		return fmtErrorf("log_mask out of range: 0x%x", c.LogMask)
	}

	if c.TimeoutS <= 0 {
		return fmtErrorf("timeout_s must be positive: %d", c.TimeoutS)
	}

	if c.SlowCommandS < 0 || c.RetryDelayMs < 0 {
		return fmtErrorf("slow_command_s and retry_delay_ms cannot be negative")
	}

	return nil
}

// Clone creates a deep copy of the configuration
func (c *Config) Clone() *Config {
	copiedConfig := *c
	return &copiedConfig
}

// WriteTOML encodes the configuration under the [mylog] table
func (c *Config) WriteTOML(w io.Writer) error {
	doc := map[string]Config{"mylog": *c}
	if err := toml.NewEncoder(w).Encode(doc); err != nil {
		return fmtErrorf("failed to encode config: %w", err)
	}
	return nil
}

// LogFilePath returns the main log file path
func (c *Config) LogFilePath() string {
	return filepath.Join(c.LogPath, c.LogFile)
}

// ErrFilePath returns the error file path. Without err_file the name is
// derived from log_file by replacing a trailing "log" with "err".
func (c *Config) ErrFilePath() string {
	name := c.ErrFile
	if name == "" {
		if strings.HasSuffix(c.LogFile, "log") {
			name = strings.TrimSuffix(c.LogFile, "log") + "err"
		} else {
			name = c.LogFile + ".err"
		}
	}
	return filepath.Join(c.LogPath, name)
}

// EmailFilePath returns the sent-email record path
func (c *Config) EmailFilePath() string {
	return filepath.Join(c.LogPath, c.EmailFile)
}

// DebugFilePath returns the debug file path
func (c *Config) DebugFilePath() string {
	dir := c.DebugPath
	if dir == "" {
		dir = c.LogPath
	}
	return filepath.Join(dir, c.DebugFile)
}

// SlowCommandPattern returns the expression matching known-slow tools in a
// command line, or "" when there are none.
func (c *Config) SlowCommandPattern() string {
	if c.SlowCommands == "" {
		return ""
	}
	return slowCommandPattern(c.SlowCommands)
}

func slowCommandPattern(tools string) string {
	return `(^|/|\s)(` + tools + `)\s`
}

// resolve fills the identity fields from the environment
func (c *Config) resolve() {
	if c.Hostname == "" {
		if h, err := os.Hostname(); err == nil {
			c.Hostname, _, _ = strings.Cut(h, ".")
		}
	}
	if c.User == "" {
		if u, err := user.Current(); err == nil {
			c.User = u.Username
		} else {
			c.User = os.Getenv("USER")
		}
	}
	if c.Program == "" && len(os.Args) > 0 {
		prog := filepath.Base(os.Args[0])
		for _, ext := range []string{".pl", ".go"} {
			prog = strings.TrimSuffix(prog, ext)
		}
		c.Program = prog
	}
}

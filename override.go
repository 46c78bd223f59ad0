// FILE: mylog/override.go
package mylog

import (
	"fmt"
	"strconv"
	"strings"
)

// ApplyOverride applies string key-value overrides to the logger's current configuration.
// Each override should be in the format "key=value".
// The configuration is cloned before modification.
//
// Example:
//
//	logger := mylog.NewLogger()
//	err := logger.ApplyOverride(
//	    "log_path=/var/log/dss",
//	    "log_mask=LGEREX",
//	    "no_quit=true",
//	)
func (l *Logger) ApplyOverride(overrides ...string) error {
	cfg := l.getConfig().Clone()
	if err := cfg.Override(overrides...); err != nil {
		return err
	}
	return l.ApplyConfig(cfg)
}

// Override applies "key=value" overrides to c in place. Every malformed
// override is reported; c is left partially updated on error.
func (c *Config) Override(overrides ...string) error {
	var errors []error

	for _, override := range overrides {
		key, value, err := parseKeyValue(override)
		if err != nil {
			errors = append(errors, err)
			continue
		}

		if err := applyConfigField(c, key, value); err != nil {
			errors = append(errors, err)
		}
	}

	return combineConfigErrors(errors)
}

// combineConfigErrors combines multiple configuration errors into a single error.
func combineConfigErrors(errors []error) error {
	if len(errors) == 0 {
		return nil
	}
	if len(errors) == 1 {
		return errors[0]
	}

	var sb strings.Builder
	sb.WriteString(errorPrefix + "multiple configuration errors:")
	for i, err := range errors {
		// Remove prefix from individual errors to avoid duplication
		errMsg := strings.TrimPrefix(err.Error(), errorPrefix)
		sb.WriteString(fmt.Sprintf("\n  %d. %s", i+1, errMsg))
	}
	return fmt.Errorf("%s", sb.String())
}

// applyConfigField applies a single key-value override to a Config.
// This is the core field mapping logic for string overrides.
func applyConfigField(cfg *Config, key, value string) error {
	switch key {
	// Log files
	case "log_path":
		cfg.LogPath = value
	case "log_file":
		cfg.LogFile = value
	case "err_file":
		cfg.ErrFile = value
	case "email_file":
		cfg.EmailFile = value

	// Debug sink
	case "debug_path":
		cfg.DebugPath = value
	case "debug_file":
		cfg.DebugFile = value
	case "debug_level":
		cfg.DebugLevel = value

	// Behavior
	case "log_mask":
		// Special handling: accept both numeric and named values
		act, err := ParseAction(value)
		if err != nil {
			return fmtErrorf("invalid log_mask value '%s': %w", value, err)
		}
		cfg.LogMask = int64(act)
	case "background":
		boolVal, err := strconv.ParseBool(value)
		if err != nil {
			return fmtErrorf("invalid boolean value for background '%s': %w", value, err)
		}
		cfg.Background = boolVal
	case "no_quit":
		boolVal, err := strconv.ParseBool(value)
		if err != nil {
			return fmtErrorf("invalid boolean value for no_quit '%s': %w", value, err)
		}
		cfg.NoQuit = boolVal
	case "sep_line":
		cfg.SepLine = value
	case "sanitization":
		cfg.Sanitization = value

	// Command execution
	case "timeout_s":
		intVal, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return fmtErrorf("invalid integer value for timeout_s '%s': %w", value, err)
		}
		cfg.TimeoutS = intVal
	case "slow_command_s":
		intVal, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return fmtErrorf("invalid integer value for slow_command_s '%s': %w", value, err)
		}
		cfg.SlowCommandS = intVal
	case "slow_commands":
		cfg.SlowCommands = value
	case "retry_delay_ms":
		intVal, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return fmtErrorf("invalid integer value for retry_delay_ms '%s': %w", value, err)
		}
		cfg.RetryDelayMs = intVal
	case "shell":
		cfg.Shell = value

	// Email
	case "email_send":
		cfg.EmailSend = value
	case "email_addr":
		cfg.EmailAddr = value
	case "cc_addr":
		cfg.CcAddr = value
	case "email_domain":
		cfg.EmailDomain = value

	// Identity
	case "hostname":
		cfg.Hostname = value
	case "user":
		cfg.User = value
	case "program":
		cfg.Program = value

	default:
		return fmtErrorf("unknown configuration key '%s'", key)
	}

	return nil
}

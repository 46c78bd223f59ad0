// FILE: mylog/env.go
package mylog

import (
	"os"
	"reflect"
	"strings"
)

// EnvPrefix prefixes the environment variables overriding configuration keys
const EnvPrefix = "MYLOG_"

// EnvName returns the environment variable overriding key, e.g. MYLOG_LOG_PATH
func EnvName(key string) string {
	return EnvPrefix + strings.ToUpper(key)
}

// ApplyEnv overrides cfg fields from MYLOG_<KEY> environment variables.
// Empty variables are ignored; malformed values are reported together.
func ApplyEnv(cfg *Config) error {
	t := reflect.TypeOf(*cfg)

	var errors []error
	for i := 0; i < t.NumField(); i++ {
		key := t.Field(i).Tag.Get("toml")
		if key == "" {
			continue
		}
		raw, ok := os.LookupEnv(EnvName(key))
		if !ok || strings.TrimSpace(raw) == "" {
			continue
		}
		if err := applyConfigField(cfg, key, strings.TrimSpace(raw)); err != nil {
			errors = append(errors, err)
		}
	}

	return combineConfigErrors(errors)
}

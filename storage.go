// FILE: mylog/storage.go
package mylog

import (
	"os"
	"path/filepath"
)

// File modes for the log sinks
const (
	logDirMode  os.FileMode = 0755
	logFileMode os.FileMode = 0644
)

// appendFile opens path in append mode, writes text and closes the file.
// Each entry is a single write so short entries stay whole under O_APPEND.
func appendFile(path string, text string) (err error) {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, logFileMode)
	if err != nil {
		return fmtErrorf("failed to open '%s': %w", path, err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil {
			err = combineErrors(err, fmtErrorf("failed to close '%s': %w", path, closeErr))
		}
	}()

	if _, err := f.WriteString(text); err != nil {
		return fmtErrorf("failed to write '%s': %w", path, err)
	}
	return nil
}

// writeSink appends text to a sink file. A failure is reported once per
// sink on stderr and returned; it never re-enters Log.
func (l *Logger) writeSink(path string, text string) error {
	if l.sanitizer != nil {
		text = l.sanitizer.Sanitize(text)
	}
	if err := appendFile(path, text); err != nil {
		l.internalLog("sink:"+path, "%v", err)
		return err
	}
	return nil
}

// ensureLogDir creates the log directory if missing
func ensureLogDir(cfg *Config) error {
	if err := os.MkdirAll(cfg.LogPath, logDirMode); err != nil {
		return fmtErrorf("failed to create log directory '%s': %w", cfg.LogPath, err)
	}
	if cfg.DebugPath != "" && cfg.DebugLevel != "" {
		if err := os.MkdirAll(filepath.Clean(cfg.DebugPath), logDirMode); err != nil {
			return fmtErrorf("failed to create debug directory '%s': %w", cfg.DebugPath, err)
		}
	}
	return nil
}

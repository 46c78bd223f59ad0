// FILE: mylog/builder.go
package mylog

// Builder provides a fluent API for building logger configurations.
// It wraps a Config instance and provides chainable methods for setting values.
type Builder struct {
	cfg  *Config
	opts []Option
	err  error // Accumulate errors for deferred handling
}

// NewBuilder creates a new configuration builder with default values.
func NewBuilder() *Builder {
	return &Builder{
		cfg: DefaultConfig(),
	}
}

// Build creates a new Logger instance with the specified configuration.
func (b *Builder) Build() (*Logger, error) {
	if b.err != nil {
		return nil, b.err
	}

	logger := NewLogger(b.opts...)

	// ApplyConfig handles validation and directory creation.
	if err := logger.ApplyConfig(b.cfg); err != nil {
		return nil, err
	}

	return logger, nil
}

// Options adds logger options such as WithExitFunc or WithMailer.
func (b *Builder) Options(opts ...Option) *Builder {
	b.opts = append(b.opts, opts...)
	return b
}

// LogPath sets the log directory.
func (b *Builder) LogPath(dir string) *Builder {
	b.cfg.LogPath = dir
	return b
}

// LogFile sets the main log file name.
func (b *Builder) LogFile(name string) *Builder {
	b.cfg.LogFile = name
	return b
}

// ErrFile sets the error file name.
func (b *Builder) ErrFile(name string) *Builder {
	b.cfg.ErrFile = name
	return b
}

// DebugLevel sets the debug level range.
func (b *Builder) DebugLevel(levels string) *Builder {
	b.cfg.DebugLevel = levels
	return b
}

// LogMask sets the actions allowed through Log.
func (b *Builder) LogMask(mask Action) *Builder {
	b.cfg.LogMask = int64(mask)
	return b
}

// LogMaskString sets the log mask from an action expression.
func (b *Builder) LogMaskString(mask string) *Builder {
	if b.err != nil {
		return b
	}
	act, err := ParseAction(mask)
	if err != nil {
		b.err = err
		return b
	}
	b.cfg.LogMask = int64(act)
	return b
}

// Background suppresses screen echo.
func (b *Builder) Background(enable bool) *Builder {
	b.cfg.Background = enable
	return b
}

// NoQuit disables exiting on ExitLog.
func (b *Builder) NoQuit(enable bool) *Builder {
	b.cfg.NoQuit = enable
	return b
}

// TimeoutS sets the default deadline for timed runs.
func (b *Builder) TimeoutS(seconds int64) *Builder {
	b.cfg.TimeoutS = seconds
	return b
}

// RetryDelayMs sets the backoff between attempts.
func (b *Builder) RetryDelayMs(ms int64) *Builder {
	b.cfg.RetryDelayMs = ms
	return b
}

// EmailAddr sets the default receiver.
func (b *Builder) EmailAddr(addr string) *Builder {
	b.cfg.EmailAddr = addr
	return b
}

// Identity sets the host, user and program used in process identifiers.
func (b *Builder) Identity(host, user, program string) *Builder {
	b.cfg.Hostname = host
	b.cfg.User = user
	b.cfg.Program = program
	return b
}

// Example usage:
// logger, err := mylog.NewBuilder().
//
//	LogPath("/var/log/dss").
//	LogMaskString("LGEREX|EMLALL").
//	EmailAddr("ops@example.org").
//	Build()
//
// if err == nil {
//
//	 logger.Log("archiving starts", mylog.LogWarn)
//
// }

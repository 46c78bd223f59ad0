// FILE: mylog/compat/builder.go
package compat

import (
	"fmt"

	"github.com/rdatools/mylog"
)

// Builder creates gnet and fasthttp adapters sharing one serialized logger.
// It can use an existing *mylog.Logger or create one from a *mylog.Config.
type Builder struct {
	logger *mylog.Logger
	logCfg *mylog.Config
	shared *Serialized
	err    error
}

// NewBuilder creates a new adapter builder
func NewBuilder() *Builder {
	return &Builder{}
}

// WithLogger specifies an existing logger to use for the adapters.
// If this is set WithConfig is ignored.
func (b *Builder) WithLogger(l *mylog.Logger) *Builder {
	if l == nil {
		b.err = fmt.Errorf("mylog/compat: provided logger cannot be nil")
		return b
	}
	b.logger = l
	return b
}

// WithConfig provides a configuration for a new logger instance.
// It is used only if no logger was given with WithLogger; without either a
// default logger is created.
func (b *Builder) WithConfig(cfg *mylog.Config) *Builder {
	b.logCfg = cfg
	return b
}

// getShared resolves the serialized logger, creating the logger if necessary
func (b *Builder) getShared() (*Serialized, error) {
	if b.err != nil {
		return nil, b.err
	}
	if b.shared != nil {
		return b.shared, nil
	}

	if b.logger == nil {
		l := mylog.NewLogger()
		cfg := b.logCfg
		if cfg == nil {
			cfg = mylog.DefaultConfig()
		}
		if err := l.ApplyConfig(cfg); err != nil {
			return nil, err
		}
		b.logger = l
	}

	b.shared = Serialize(b.logger)
	return b.shared, nil
}

// BuildGnet creates a gnet adapter
func (b *Builder) BuildGnet(opts ...GnetOption) (*GnetAdapter, error) {
	s, err := b.getShared()
	if err != nil {
		return nil, err
	}
	return NewGnetAdapter(s, opts...), nil
}

// BuildFastHTTP creates a fasthttp adapter
func (b *Builder) BuildFastHTTP(opts ...FastHTTPOption) (*FastHTTPAdapter, error) {
	s, err := b.getShared()
	if err != nil {
		return nil, err
	}
	return NewFastHTTPAdapter(s, opts...), nil
}

// GetLogger returns the underlying *mylog.Logger, creating it if needed
func (b *Builder) GetLogger() (*mylog.Logger, error) {
	s, err := b.getShared()
	if err != nil {
		return nil, err
	}
	return s.Logger(), nil
}

// --- Example Usage ---
//
//	appLogger, err := mylog.NewBuilder().LogPath("/var/log/dss").Build()
//	if err != nil { /* handle error */ }
//
//	builder := compat.NewBuilder().WithLogger(appLogger)
//	gnetLogger, _ := builder.BuildGnet()
//	fasthttpLogger, _ := builder.BuildFastHTTP()
//
//	go gnet.Run(events, "tcp://:9000", gnet.WithLogger(gnetLogger))
//
//	server := &fasthttp.Server{Handler: handler, Logger: fasthttpLogger}
//	go server.ListenAndServe(":8080")

// Package logging builds the process logger. Library packages take a
// *zap.Logger as a dependency and never construct one themselves.
package logging

import (
	"io"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type Options struct {
	// Debug switches to the development config at debug level. Otherwise
	// only warnings and errors are logged.
	Debug bool
	// Output receives log lines; nil means stderr.
	Output io.Writer
}

// New returns a console-encoded logger.
func New(opts Options) (*zap.Logger, error) {
	var cfg zap.Config
	if opts.Debug {
		cfg = zap.NewDevelopmentConfig()
	} else {
		cfg = zap.NewProductionConfig()
		cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
		cfg.Sampling = nil
	}
	cfg.Encoding = "console"
	if opts.Output == nil {
		return cfg.Build()
	}
	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(cfg.EncoderConfig),
		zapcore.AddSync(opts.Output),
		cfg.Level,
	)
	return zap.New(core), nil
}

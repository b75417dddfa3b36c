// Package logging builds the zap logger used across the CLI.
package logging

import (
	"fmt"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/term"
)

type LogOpts struct {
	Verbose  bool
	Encoding string
	// Color is one of auto, always, never. Only meaningful for console
	// encoding.
	Color string
}

func (opts LogOpts) Encoder() zapcore.Encoder {
	switch opts.Encoding {
	case "json":
		if opts.Verbose {
			return zapcore.NewJSONEncoder(zap.NewDevelopmentEncoderConfig())
		}
		return zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig())
	case "console", "":
		cfg := zap.NewDevelopmentEncoderConfig()
		if opts.useColor() {
			cfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
		}
		return zapcore.NewConsoleEncoder(cfg)
	default:
		panic(fmt.Errorf("unknown encoding %q", opts.Encoding))
	}
}

func (opts LogOpts) useColor() bool {
	switch opts.Color {
	case "always", "on":
		return true
	case "never", "off":
		return false
	default:
		return term.IsTerminal(int(os.Stderr.Fd()))
	}
}

func (opts LogOpts) Level() zapcore.LevelEnabler {
	if opts.Verbose {
		return zap.DebugLevel
	}
	return zap.InfoLevel
}

func (opts LogOpts) NewCore(w zapcore.WriteSyncer) zapcore.Core {
	return zapcore.NewCore(opts.Encoder(), w, opts.Level())
}

func (opts LogOpts) NewLogger() *zap.Logger {
	core := opts.NewCore(zapcore.Lock(os.Stderr))
	zopts := []zap.Option{zap.ErrorOutput(zapcore.Lock(os.Stderr))}
	if opts.Verbose {
		zopts = append(zopts, zap.AddCaller(), zap.AddStacktrace(zap.ErrorLevel))
	}
	return zap.New(core, zopts...)
}

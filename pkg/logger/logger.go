// Package logger holds the process-wide zerolog logger.
//
// Call Init once from main; everything else receives the logger by value
// or through Get.
package logger

import (
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Options configures the logger built by Init.
type Options struct {
	// Level is one of trace, debug, info, warn, error. Anything else means info.
	Level string
	// Pretty switches from JSON lines to zerolog's console writer.
	Pretty bool
	// Output defaults to os.Stdout.
	Output io.Writer
	// Service and Env are stamped on every entry when set.
	Service string
	Env     string
}

var (
	instance    zerolog.Logger
	once        sync.Once
	initialized bool
)

// Init builds the logger on the first call and returns it on every call.
func Init(opts Options) zerolog.Logger {
	once.Do(func() {
		instance = build(opts)
		initialized = true
	})
	return instance
}

func build(opts Options) zerolog.Logger {
	zerolog.TimeFieldFormat = time.RFC3339Nano

	out := opts.Output
	if out == nil {
		out = os.Stdout
	}
	if opts.Pretty {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.Kitchen}
	}

	lvl := parseLevel(opts.Level)
	zerolog.SetGlobalLevel(lvl)

	ctx := zerolog.New(out).Level(lvl).With().Timestamp()
	if opts.Service != "" {
		ctx = ctx.Str("service", opts.Service)
	}
	if opts.Env != "" {
		ctx = ctx.Str("env", opts.Env)
	}
	// Caller is added to console output only.
	if opts.Pretty {
		ctx = ctx.Caller()
	}
	return ctx.Logger()
}

// Get panics until Init has run.
func Get() zerolog.Logger {
	if !initialized {
		panic("logger: Get() called before Init()")
	}
	return instance
}

// Reset forgets the built logger. Tests only.
func Reset() {
	once = sync.Once{}
	instance = zerolog.Logger{}
	initialized = false
}

func parseLevel(s string) zerolog.Level {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "warning" {
		return zerolog.WarnLevel
	}
	lvl, err := zerolog.ParseLevel(s)
	if err != nil || lvl == zerolog.NoLevel || lvl > zerolog.ErrorLevel {
		return zerolog.InfoLevel
	}
	return lvl
}

// Package logger owns the process root zerolog logger and the ids carried on contexts
package logger

import (
	"io"
	"os"
	"runtime/debug"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/pkgerrors"
)

// Logger is zerolog's logger under the name the rest of the tree uses
type Logger = zerolog.Logger

// Options shape the root logger
type Options struct {
	// Level is a zerolog level name; unknown names mean debug
	Level string
	// Format "console" pretty prints, anything else writes json lines
	Format    string
	Service   string
	Component string
	Writer    io.Writer
	Caller    bool
	// SampleEvery > 1 keeps one event in N
	SampleEvery int
	Fields      map[string]string
}

// FromEnv reads LOG_*; config imports this package, so it cannot be used here
func FromEnv() Options {
	env := func(key, def string) string {
		if v := strings.TrimSpace(os.Getenv("LOG_" + key)); v != "" {
			return v
		}
		return def
	}
	caller, _ := strconv.ParseBool(env("CALLER", "false"))
	every, _ := strconv.Atoi(env("SAMPLE_EVERY", "0"))
	return Options{
		Level:       strings.ToLower(env("LEVEL", "debug")),
		Format:      strings.ToLower(env("FORMAT", "console")),
		Service:     env("SERVICE", ""),
		Component:   env("COMPONENT", ""),
		Caller:      caller,
		SampleEvery: every,
	}
}

var (
	initOnce sync.Once
	root     zerolog.Logger
)

// Init builds the root logger; only the first call has any effect
func Init(opt Options) {
	initOnce.Do(func() {
		zerolog.ErrorStackMarshaler = pkgerrors.MarshalStack
		zerolog.TimeFieldFormat = time.RFC3339Nano
		root = New(opt)
	})
}

// Get returns the root logger, building it from the environment on first use
func Get() *Logger {
	Init(FromEnv())
	return &root
}

// Named returns a child of the root tagged with component
func Named(component string) *Logger {
	l := Get().With().Str("component", component).Logger()
	return &l
}

// New builds a logger from opt without touching the root
func New(opt Options) Logger {
	w := opt.Writer
	if w == nil {
		w = os.Stdout
	}
	if opt.Format == "console" {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	}

	lc := zerolog.New(w).Level(level(opt.Level)).With().Timestamp()
	if bi, ok := debug.ReadBuildInfo(); ok {
		lc = lc.Str("go_version", bi.GoVersion)
	}
	if opt.Service != "" {
		lc = lc.Str("service", opt.Service)
	}
	if opt.Component != "" {
		lc = lc.Str("component", opt.Component)
	}
	for k, v := range opt.Fields {
		lc = lc.Str(k, v)
	}
	if opt.Caller {
		lc = lc.Caller()
	}

	l := lc.Logger()
	if opt.SampleEvery > 1 {
		l = l.Sample(&zerolog.BasicSampler{N: uint32(opt.SampleEvery)})
	}
	return l
}

func level(s string) zerolog.Level {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "warning" {
		s = "warn"
	}
	lvl, err := zerolog.ParseLevel(s)
	if err != nil || s == "" {
		return zerolog.DebugLevel
	}
	return lvl
}

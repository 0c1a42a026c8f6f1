// Package xlog is the diagnostic logging layer shared by radix,
// suffix and reversed: structured, leveled logging with optional
// styled console output, grounded on the same zerolog + lipgloss +
// go-isatty + lumberjack stack used elsewhere in this project's
// lineage.
package xlog

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Level mirrors the handful of severities the core cares about.
type Level int8

const (
	DebugLevel Level = iota
	InfoLevel
	WarnLevel
	ErrorLevel
)

func (l Level) zerolog() zerolog.Level {
	switch l {
	case DebugLevel:
		return zerolog.DebugLevel
	case WarnLevel:
		return zerolog.WarnLevel
	case ErrorLevel:
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// ParseLevel accepts "debug", "info", "warn"/"warning", "error",
// case-insensitively; anything else yields InfoLevel.
func ParseLevel(s string) Level {
	switch strings.ToLower(s) {
	case "debug":
		return DebugLevel
	case "warn", "warning":
		return WarnLevel
	case "error":
		return ErrorLevel
	default:
		return InfoLevel
	}
}

// Format selects the output encoding.
type Format int8

const (
	FormatConsole Format = iota
	FormatJSON
)

func ParseFormat(s string) Format {
	if strings.EqualFold(s, "json") {
		return FormatJSON
	}
	return FormatConsole
}

// Logger is the structured, leveled sink radix.RadixTree and
// suffix.SuffixTree accept via WithLogger. Both packages declare
// their own narrower structural interface; this one satisfies it.
type Logger interface {
	Debug(args ...any)
	Debugw(msg string, keysAndValues ...any)
	Info(args ...any)
	Infow(msg string, keysAndValues ...any)
	Warn(args ...any)
	Warnw(msg string, keysAndValues ...any)
	Error(args ...any)
	Errorw(msg string, keysAndValues ...any)
}

// Options configures New. LogFile, when non-empty, routes output
// through a rotating lumberjack.Logger instead of stderr; console
// styling is disabled automatically for file output since it's never
// a terminal.
type Options struct {
	Level      Level
	Format     Format
	Styles     *Styles
	LogFile    string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

func (o Options) withDefaults() Options {
	if o.Styles == nil {
		o.Styles = DefaultStylesDark()
	}
	if o.MaxSizeMB <= 0 {
		o.MaxSizeMB = 10
	}
	if o.MaxBackups <= 0 {
		o.MaxBackups = 5
	}
	if o.MaxAgeDays <= 0 {
		o.MaxAgeDays = 7
	}
	return o
}

type zerologLogger struct {
	log zerolog.Logger
}

// New builds a Logger per opts.
func New(opts Options) Logger {
	opts = opts.withDefaults()

	var out io.Writer
	colorCapable := false
	if opts.LogFile != "" {
		out = &lumberjack.Logger{
			Filename:   opts.LogFile,
			MaxSize:    opts.MaxSizeMB,
			MaxBackups: opts.MaxBackups,
			MaxAge:     opts.MaxAgeDays,
			Compress:   opts.Compress,
		}
	} else {
		out = os.Stderr
		colorCapable = isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd())
	}

	var writer io.Writer = out
	if opts.Format == FormatConsole {
		cw := ConsoleWriterWithStyles(opts.Styles)
		cw.Out = out
		cw.NoColor = !colorCapable
		writer = cw
	}

	zl := zerolog.New(writer).With().Timestamp().Logger().Level(opts.Level.zerolog())
	return &zerologLogger{log: zl}
}

// NewNoop returns a Logger that discards everything, the default for
// radix.RadixTree and suffix.SuffixTree when no logger is configured.
func NewNoop() Logger { return &zerologLogger{log: zerolog.Nop()} }

func (l *zerologLogger) Debug(args ...any)  { l.log.Debug().Msg(sprint(args)) }
func (l *zerologLogger) Info(args ...any)   { l.log.Info().Msg(sprint(args)) }
func (l *zerologLogger) Warn(args ...any)   { l.log.Warn().Msg(sprint(args)) }
func (l *zerologLogger) Error(args ...any)  { l.log.Error().Msg(sprint(args)) }

func (l *zerologLogger) Debugw(msg string, kvs ...any) { withFields(l.log.Debug(), kvs).Msg(msg) }
func (l *zerologLogger) Infow(msg string, kvs ...any)  { withFields(l.log.Info(), kvs).Msg(msg) }
func (l *zerologLogger) Warnw(msg string, kvs ...any)  { withFields(l.log.Warn(), kvs).Msg(msg) }
func (l *zerologLogger) Errorw(msg string, kvs ...any) { withFields(l.log.Error(), kvs).Msg(msg) }

func withFields(e *zerolog.Event, kvs []any) *zerolog.Event {
	for i := 0; i+1 < len(kvs); i += 2 {
		key, _ := kvs[i].(string)
		if key == "" {
			key = "field"
		}
		e = e.Interface(key, kvs[i+1])
	}
	return e
}

func sprint(args []any) string {
	if len(args) == 1 {
		if s, ok := args[0].(string); ok {
			return s
		}
	}
	var b strings.Builder
	for i, a := range args {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(toString(a))
	}
	return b.String()
}

func toString(a any) string {
	if s, ok := a.(string); ok {
		return s
	}
	if s, ok := a.(interface{ String() string }); ok {
		return s.String()
	}
	return fmt.Sprintf("%v", a)
}

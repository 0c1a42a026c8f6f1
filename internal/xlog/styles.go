package xlog

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"
)

// IBM Carbon palette, matched to the rest of this lineage's tooling.
const (
	colorTeal40    = "#3ddbd9"
	colorBlue60    = "#4589ff"
	colorBlue40    = "#78a9ff"
	colorBlue70    = "#0043ce"
	colorBlueBase  = "#0f62fe"
	colorRed60     = "#da1e28"
	colorRedStrong = "#ff0000"
	colorOrange40  = "#ff832b"
	colorGray60    = "#8d8d8d"
	colorGray10    = "#f4f4f4"
)

// Styles controls the console renderer's look: per-level color, and
// per-field-key color for the key. Values and DefaultValueStyle are not
// applied by ConsoleWriterWithStyles, which prints field values
// unstyled.
type Styles struct {
	Timestamp         lipgloss.Style
	Levels            map[Level]lipgloss.Style
	Keys              map[string]lipgloss.Style
	Values            map[string]lipgloss.Style
	DefaultKeyStyle   lipgloss.Style
	DefaultValueStyle lipgloss.Style
}

// DefaultStylesByName returns a named theme ("dark" or "light";
// anything else falls back to "dark").
func DefaultStylesByName(name string) *Styles {
	if strings.EqualFold(name, "light") {
		return DefaultStylesLight()
	}
	return DefaultStylesDark()
}

func DefaultStylesDark() *Styles {
	return &Styles{
		Timestamp:         lipgloss.NewStyle().Foreground(lipgloss.Color(colorGray60)).Width(16),
		DefaultKeyStyle:   lipgloss.NewStyle().Foreground(lipgloss.Color(colorBlue40)),
		DefaultValueStyle: lipgloss.NewStyle(),
		Levels: map[Level]lipgloss.Style{
			InfoLevel:  lipgloss.NewStyle().Foreground(lipgloss.Color(colorBlue60)),
			WarnLevel:  lipgloss.NewStyle().Foreground(lipgloss.Color(colorOrange40)),
			ErrorLevel: lipgloss.NewStyle().Foreground(lipgloss.Color(colorRed60)),
		},
		Keys: map[string]lipgloss.Style{
			"key":   lipgloss.NewStyle().Foreground(lipgloss.Color(colorBlue40)),
			"op":    lipgloss.NewStyle().Foreground(lipgloss.Color(colorBlue40)),
			"err":   lipgloss.NewStyle().Foreground(lipgloss.Color(colorRed60)),
			"panic": lipgloss.NewStyle().Foreground(lipgloss.Color(colorRedStrong)),
		},
		Values: map[string]lipgloss.Style{
			"key":   lipgloss.NewStyle().Italic(true),
			"err":   lipgloss.NewStyle().Bold(true),
			"panic": lipgloss.NewStyle().Bold(true),
		},
	}
}

func DefaultStylesLight() *Styles {
	s := DefaultStylesDark()
	s.DefaultKeyStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(colorBlueBase))
	s.Levels[InfoLevel] = lipgloss.NewStyle().Foreground(lipgloss.Color(colorBlue70))
	return s
}

// ConsoleWriterWithStyles builds a zerolog.ConsoleWriter whose level,
// timestamp and field-name rendering go through styles; messages are
// rendered in a fixed color and field values are printed unstyled.
// Matches the hand-styled console format the rest of this project's
// logging uses.
func ConsoleWriterWithStyles(styles *Styles) zerolog.ConsoleWriter {
	return zerolog.ConsoleWriter{
		TimeFormat: "01-02 15:04:05",

		FormatLevel: func(i any) string {
			lvl := strings.ToLower(fmt.Sprint(i))
			level := levelFromString(lvl)
			style, ok := styles.Levels[level]
			if !ok {
				style = styles.DefaultKeyStyle
			}
			return style.Render(strings.ToUpper(padLevel(lvl)))
		},

		FormatTimestamp: func(i any) string {
			return styles.Timestamp.Render(fmt.Sprint(i))
		},

		FormatFieldName: func(i any) string {
			key := fmt.Sprint(i)
			style, ok := styles.Keys[key]
			if !ok {
				style = styles.DefaultKeyStyle
			}
			eq := lipgloss.NewStyle().Foreground(lipgloss.Color(colorGray60))
			return style.Render(key) + eq.Render("=")
		},

		FormatFieldValue: func(i any) string {
			return fmt.Sprint(i)
		},

		FormatMessage: func(i any) string {
			return lipgloss.NewStyle().Foreground(lipgloss.Color(colorGray10)).Render(fmt.Sprint(i))
		},
	}
}

func levelFromString(s string) Level {
	switch s {
	case "debug":
		return DebugLevel
	case "warn":
		return WarnLevel
	case "error":
		return ErrorLevel
	default:
		return InfoLevel
	}
}

func padLevel(level string) string {
	switch level {
	case "info":
		return "inf"
	case "warn":
		return "wrn"
	case "error":
		return "err"
	case "debug":
		return "dbg"
	default:
		return level
	}
}

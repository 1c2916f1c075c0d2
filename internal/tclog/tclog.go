// Package tclog builds a structured slog.Logger from CLI-friendly level
// and format strings, and a pflag/cobra flag set that sets them.
//
// Ground: MacroPower-x's log package (CreateHandlerWithStrings,
// GetLevel, GetFormat, Config.RegisterFlags) — trimmed to the two
// formats and one default level this CLI needs.
package tclog

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/pflag"
)

// Format is the log output encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatText Format = "text"
)

var (
	ErrUnknownLogLevel  = errors.New("unknown log level")
	ErrUnknownLogFormat = errors.New("unknown log format")
)

// GetLevel parses a log level string.
func GetLevel(level string) (slog.Level, error) {
	switch strings.ToLower(level) {
	case "error":
		return slog.LevelError, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "debug":
		return slog.LevelDebug, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownLogLevel, level)
	}
}

// GetFormat parses a log format string.
func GetFormat(format string) (Format, error) {
	switch Format(strings.ToLower(format)) {
	case FormatJSON:
		return FormatJSON, nil
	case FormatText, "":
		return FormatText, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownLogFormat, format)
	}
}

// CreateHandler builds a slog.Handler writing to w at the given level
// and format.
func CreateHandler(w io.Writer, lvl slog.Level, format Format) slog.Handler {
	opts := &slog.HandlerOptions{Level: lvl}
	if format == FormatJSON {
		return slog.NewJSONHandler(w, opts)
	}
	return slog.NewTextHandler(w, opts)
}

// CreateHandlerWithStrings resolves level/format strings and builds the
// handler in one call.
func CreateHandlerWithStrings(w io.Writer, level, format string) (slog.Handler, error) {
	lvl, err := GetLevel(level)
	if err != nil {
		return nil, err
	}
	fmtV, err := GetFormat(format)
	if err != nil {
		return nil, err
	}
	return CreateHandler(w, lvl, fmtV), nil
}

// Config holds the CLI-facing log flag values.
type Config struct {
	Level  string
	Format string
}

// RegisterFlags adds --log-level and --log-format to flags.
func (c *Config) RegisterFlags(flags *pflag.FlagSet) {
	flags.StringVar(&c.Level, "log-level", "info", "log level: debug, info, warn, error")
	flags.StringVar(&c.Format, "log-format", "text", "log format: text, json")
}

// NewLogger builds a *slog.Logger writing to w from c's flag values.
func (c *Config) NewLogger(w io.Writer) (*slog.Logger, error) {
	h, err := CreateHandlerWithStrings(w, c.Level, c.Format)
	if err != nil {
		return nil, err
	}
	return slog.New(h), nil
}

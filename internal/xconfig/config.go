// Package xconfig decodes the ambient JSON/env configuration surface
// for a radix/suffix tree instance into the Options the radix and
// suffix packages accept, the way this project's other JSON-plus-env
// config loaders do.
package xconfig

import (
	"encoding/json"
	"errors"
	"os"
	"strings"

	"github.com/rskv-p/radixkv/internal/xlog"
	"github.com/rskv-p/radixkv/radix"
	"github.com/rskv-p/radixkv/suffix"
)

// Config is the on-disk shape: plain strings so it round-trips
// through JSON without any custom (un)marshalling, translated into
// radix.Option/suffix.Option values by RadixOptions/SuffixOptions.
type Config struct {
	Mode      string `json:"mode"`       // "lockfree" (default) or "rwlock"
	LogLevel  string `json:"log_level"`  // "debug", "info" (default), "warn", "error"
	LogFormat string `json:"log_format"` // "console" (default) or "json"
	LogFile   string `json:"log_file"`   // empty routes to stderr
	LogStyle  string `json:"log_style"`  // "dark" (default) or "light"
}

var defaultConfig = Config{
	Mode:      "lockfree",
	LogLevel:  "info",
	LogFormat: "console",
	LogStyle:  "dark",
}

const defaultConfigPath = "./radixkv.json"

// Load reads path (or $RADIXKV_CONFIG, or ./radixkv.json) and parses
// it over defaultConfig. A missing file is not an error: it yields
// the defaults.
func Load(path string) (Config, error) {
	if path == "" {
		if envPath := os.Getenv("RADIXKV_CONFIG"); envPath != "" {
			path = envPath
		} else {
			path = defaultConfigPath
		}
	}

	cfg := defaultConfig
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return cfg, err
	}

	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return cfg, err
	}
	parseConfigFields(raw, &cfg)
	return cfg, nil
}

// parseConfigFields hand-extracts each snake_case key from raw into
// cfg, leaving fields absent from raw at their existing (default)
// value. Mirrors the field-by-field extraction
// rskv-p-mini/servs/s_runn/runn_cfg/loader.go uses instead of a blind
// mapstructure.Decode over an untagged struct, which would silently
// fail to match these snake_case keys to their CamelCase fields.
func parseConfigFields(raw map[string]any, cfg *Config) {
	if v, ok := raw["mode"].(string); ok {
		cfg.Mode = v
	}
	if v, ok := raw["log_level"].(string); ok {
		cfg.LogLevel = v
	}
	if v, ok := raw["log_format"].(string); ok {
		cfg.LogFormat = v
	}
	if v, ok := raw["log_file"].(string); ok {
		cfg.LogFile = v
	}
	if v, ok := raw["log_style"].(string); ok {
		cfg.LogStyle = v
	}
}

func (c Config) mode() radix.Mode {
	if strings.EqualFold(c.Mode, "rwlock") {
		return radix.ModeRWLock
	}
	return radix.ModeLockFree
}

func (c Config) newLogger() xlog.Logger {
	return xlog.New(xlog.Options{
		Level:   xlog.ParseLevel(c.LogLevel),
		Format:  xlog.ParseFormat(c.LogFormat),
		Styles:  xlog.DefaultStylesByName(c.LogStyle),
		LogFile: c.LogFile,
	})
}

// RadixOptions translates Config into radix.Option values for
// radix.New[V].
func RadixOptions[V any](c Config) []radix.Option[V] {
	return []radix.Option[V]{
		radix.WithMode[V](c.mode()),
		radix.WithLogger[V](c.newLogger()),
	}
}

// SuffixOptions translates Config into suffix.Option values for
// suffix.New[V].
func SuffixOptions[V any](c Config) []suffix.Option[V] {
	return []suffix.Option[V]{
		suffix.WithMode[V](c.mode()),
		suffix.WithLogger[V](c.newLogger()),
	}
}

package config

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// DefaultLogLevel applies when LOG_LEVEL is unset.
const DefaultLogLevel = "info"

// NewLogger builds a host logger writing to w at the level named by
// LOG_LEVEL. An unknown level is an error rather than a silent default.
func NewLogger(w io.Writer, prefix string) (*log.Logger, error) {
	level, err := log.ParseLevel(GetEnv("LOG_LEVEL", DefaultLogLevel))
	if err != nil {
		return nil, fmt.Errorf("LOG_LEVEL: %w", err)
	}
	return log.NewWithOptions(w, log.Options{
		Level:           level,
		Prefix:          prefix,
		ReportTimestamp: true,
		TimeFormat:      time.DateTime,
	}), nil
}

// FromEnv picks the game configuration for a host: the YAML file named by
// GAME_CONFIG if set, otherwise the preset named by GAME_MODE.
func FromEnv() (*Game, error) {
	if path := GetEnv("GAME_CONFIG", ""); path != "" {
		return Load(path)
	}
	g, err := Preset(GetEnv("GAME_MODE", ModeClassic))
	if err != nil {
		return nil, err
	}
	return &g, nil
}

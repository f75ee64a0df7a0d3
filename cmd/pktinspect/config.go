package main

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/wippyai/gamewire/packet"
)

const (
	formatHex = "hex"
	formatRaw = "raw"
)

type config struct {
	LogLevel    string
	Direction   string
	InputFormat string
	Interactive bool
}

type fileConfig struct {
	LogLevel    string `toml:"log_level"`
	Direction   string `toml:"direction"`
	InputFormat string `toml:"input_format"`
	Interactive bool   `toml:"interactive"`
}

func defaultConfig() config {
	return config{
		LogLevel:    "warn",
		Direction:   "to_clt",
		InputFormat: formatHex,
	}
}

func loadConfig(path string) (config, error) {
	cfg := defaultConfig()

	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return config{}, fmt.Errorf("load config: %w", err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return config{}, fmt.Errorf("load config: unknown key %q", undecoded[0].String())
	}

	if meta.IsDefined("log_level") {
		cfg.LogLevel = strings.TrimSpace(raw.LogLevel)
	}
	if meta.IsDefined("direction") {
		cfg.Direction = strings.TrimSpace(raw.Direction)
	}
	if meta.IsDefined("input_format") {
		cfg.InputFormat = strings.ToLower(strings.TrimSpace(raw.InputFormat))
	}
	if meta.IsDefined("interactive") {
		cfg.Interactive = raw.Interactive
	}

	if err := cfg.validate(); err != nil {
		return config{}, err
	}
	return cfg, nil
}

func (c config) validate() error {
	if _, err := packet.ParseDirection(c.Direction); err != nil {
		return fmt.Errorf("direction %q: %w", c.Direction, err)
	}
	if c.InputFormat != formatHex && c.InputFormat != formatRaw {
		return fmt.Errorf("input_format %q: want hex or raw", c.InputFormat)
	}
	if _, err := zapcore.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("log_level: %w", err)
	}
	return nil
}

func newLogger(level string) (*zap.Logger, error) {
	lvl, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return nil, err
	}
	zc := zap.NewDevelopmentConfig()
	zc.Level = lvl
	zc.DisableStacktrace = true
	return zc.Build()
}

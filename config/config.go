// Package config loads framed stream settings from TOML.
//
//	[log]
//	level = "info"
//
//	[frame]
//	stream = "ingest"
//	max_payload_bytes = 8388608
//	checksum = true
//
// Keys left out keep their Default values; unknown keys are rejected.
package config

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/danmuck/binrepr/internal/logging"
)

// Config is the runtime configuration for framed streams and logging.
type Config struct {
	Log   LogConfig
	Frame FrameConfig
}

type LogConfig struct {
	Level     string
	Timestamp bool
	NoColor   bool
}

type FrameConfig struct {
	Stream          string
	MaxPayloadBytes uint64
	Checksum        bool
}

// file key mapping for config.toml.
type fileConfig struct {
	Log struct {
		Level     string `toml:"level"`
		Timestamp bool   `toml:"timestamp"`
		NoColor   bool   `toml:"no_color"`
	} `toml:"log"`
	Frame struct {
		Stream          string `toml:"stream"`
		MaxPayloadBytes uint64 `toml:"max_payload_bytes"`
		Checksum        bool   `toml:"checksum"`
	} `toml:"frame"`
}

func Default() Config {
	return Config{
		Log: LogConfig{
			Level:     "info",
			Timestamp: true,
		},
		Frame: FrameConfig{
			Stream:          "default",
			MaxPayloadBytes: 8 * 1024 * 1024,
		},
	}
}

// Load overlays the keys present in the TOML file at path onto Default.
func Load(path string) (Config, error) {
	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return Config{}, fmt.Errorf("config load failed (%s): %w", path, err)
	}
	cfg, err := overlay(meta, raw)
	if err != nil {
		return Config{}, fmt.Errorf("config invalid (%s): %w", path, err)
	}
	return cfg, nil
}

// Parse is Load for TOML already in memory.
func Parse(data string) (Config, error) {
	var raw fileConfig
	meta, err := toml.Decode(data, &raw)
	if err != nil {
		return Config{}, fmt.Errorf("config parse failed: %w", err)
	}
	return overlay(meta, raw)
}

func overlay(meta toml.MetaData, raw fileConfig) (Config, error) {
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return Config{}, fmt.Errorf("unknown key %q", undecoded[0].String())
	}

	cfg := Default()
	if meta.IsDefined("log", "level") {
		cfg.Log.Level = strings.TrimSpace(raw.Log.Level)
	}
	if meta.IsDefined("log", "timestamp") {
		cfg.Log.Timestamp = raw.Log.Timestamp
	}
	if meta.IsDefined("log", "no_color") {
		cfg.Log.NoColor = raw.Log.NoColor
	}
	if meta.IsDefined("frame", "stream") {
		cfg.Frame.Stream = strings.TrimSpace(raw.Frame.Stream)
	}
	if meta.IsDefined("frame", "max_payload_bytes") {
		cfg.Frame.MaxPayloadBytes = raw.Frame.MaxPayloadBytes
	}
	if meta.IsDefined("frame", "checksum") {
		cfg.Frame.Checksum = raw.Frame.Checksum
	}

	if err := Validate(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func Validate(cfg Config) error {
	if _, ok := logging.ParseLevel(cfg.Log.Level); !ok {
		return fmt.Errorf("log level %q not recognized", cfg.Log.Level)
	}
	if strings.TrimSpace(cfg.Frame.Stream) == "" {
		return fmt.Errorf("frame config missing stream")
	}
	if cfg.Frame.MaxPayloadBytes == 0 {
		return fmt.Errorf("frame max_payload_bytes must be positive")
	}
	return nil
}

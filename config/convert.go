package config

import (
	"github.com/danmuck/binrepr/internal/logging"
	"github.com/danmuck/binrepr/repr/frame"
	"github.com/rs/zerolog"
)

// FrameOptions maps the [frame] section onto stream options. The stream
// logs through Logger.
func (c Config) FrameOptions() frame.Options {
	opts := frame.DefaultOptions()
	opts.Name = c.Frame.Stream
	opts.Limits.MaxPayloadBytes = c.Frame.MaxPayloadBytes
	opts.Checksum = c.Frame.Checksum
	opts.Logger = c.Logger()
	return opts
}

// Logger builds a console logger from the [log] section. Environment
// overrides still win.
func (c Config) Logger() zerolog.Logger {
	cfg := logging.DefaultConfig(logging.ProfileRuntime)
	if lvl, ok := logging.ParseLevel(c.Log.Level); ok {
		cfg.Level = lvl
	}
	cfg.Timestamp = c.Log.Timestamp
	cfg.NoColor = c.Log.NoColor
	logging.ApplyEnvOverrides(&cfg)
	return logging.New(cfg)
}

// LoadFrameOptions reads the TOML file at path and returns the stream
// options it describes.
func LoadFrameOptions(path string) (frame.Options, error) {
	cfg, err := Load(path)
	if err != nil {
		return frame.Options{}, err
	}
	return cfg.FrameOptions(), nil
}

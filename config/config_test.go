package config

import (
	"bytes"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/danmuck/binrepr/internal/logging"
	"github.com/danmuck/binrepr/repr"
	"github.com/danmuck/binrepr/repr/frame"
	"github.com/rs/zerolog"
)

func TestLoadTemplateRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := WriteTemplate(path, false); err != nil {
		t.Fatalf("write template: %v", err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !cfg.Frame.Checksum {
		t.Fatalf("expected checksum enabled from template")
	}
	if cfg.Frame.MaxPayloadBytes != 8*1024*1024 {
		t.Fatalf("unexpected max payload: %d", cfg.Frame.MaxPayloadBytes)
	}

	if err := WriteTemplate(path, false); err == nil {
		t.Fatalf("expected refusal to overwrite")
	}
	if err := WriteTemplate(path, true); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
}

func TestParseOverlaysDefaults(t *testing.T) {
	cfg, err := Parse(`
[frame]
stream = "ingest"
`)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	def := Default()
	if cfg.Frame.Stream != "ingest" {
		t.Fatalf("unexpected stream: %q", cfg.Frame.Stream)
	}
	if cfg.Frame.MaxPayloadBytes != def.Frame.MaxPayloadBytes || cfg.Log != def.Log {
		t.Fatalf("defaults not preserved: %+v", cfg)
	}

	opts := cfg.FrameOptions()
	if opts.Name != "ingest" || opts.Limits.MaxPayloadBytes != def.Frame.MaxPayloadBytes || opts.Checksum {
		t.Fatalf("unexpected frame options: %+v", opts)
	}
}

func TestParseRejectsInvalid(t *testing.T) {
	cases := map[string]string{
		"zero limit":   "[frame]\nmax_payload_bytes = 0\n",
		"blank stream": "[frame]\nstream = \"  \"\n",
		"bad level":    "[log]\nlevel = \"shouty\"\n",
		"unknown key":  "[frame]\ncompression = true\n",
		"bad toml":     "[frame\n",
	}
	for name, data := range cases {
		if _, err := Parse(data); err == nil {
			t.Fatalf("%s: expected error", name)
		}
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	if err == nil || !strings.Contains(err.Error(), "config load failed") {
		t.Fatalf("expected load failure, got %v", err)
	}
	if !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("expected not-exist cause, got %v", err)
	}
}

func TestLoggerLevel(t *testing.T) {
	t.Setenv(logging.EnvLogLevel, "")
	cfg, err := Parse("[log]\nlevel = \"debug\"\nno_color = true\ntimestamp = false\n")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if got := cfg.Logger().GetLevel(); got != zerolog.DebugLevel {
		t.Fatalf("logger level = %v, want debug", got)
	}
	if got := cfg.FrameOptions().Logger.GetLevel(); got != zerolog.DebugLevel {
		t.Fatalf("frame logger level = %v, want debug", got)
	}

	t.Setenv(logging.EnvLogLevel, "error")
	if got := cfg.Logger().GetLevel(); got != zerolog.ErrorLevel {
		t.Fatalf("env override ignored: level = %v", got)
	}
}

func TestLoadFrameOptionsDrivesStream(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	data := "[log]\nlevel = \"off\"\n[frame]\nstream = \"config-stream\"\nmax_payload_bytes = 4\nchecksum = true\n"
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	opts, err := LoadFrameOptions(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if opts.Name != "config-stream" || opts.Limits.MaxPayloadBytes != 4 || !opts.Checksum {
		t.Fatalf("unexpected options: %+v", opts)
	}

	var buf bytes.Buffer
	w := frame.NewWriter(&buf, repr.String, opts)
	if err := w.Write("ok"); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := w.Write("too long"); !errors.Is(err, frame.ErrPayloadTooLarge) {
		t.Fatalf("expected ErrPayloadTooLarge, got %v", err)
	}
	got, err := frame.NewReader(&buf, repr.String, opts).Read()
	if err != nil || got != "ok" {
		t.Fatalf("read = %q, %v", got, err)
	}

	if _, err := LoadFrameOptions(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Fatalf("expected missing file error")
	}
}

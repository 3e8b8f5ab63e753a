package frame

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/danmuck/binrepr/internal/observability"
	"github.com/danmuck/binrepr/internal/testutil/testlog"
	"github.com/danmuck/binrepr/repr"
	"github.com/google/go-cmp/cmp"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type entry = repr.Pair[string, map[string]int]

var entryCodec = repr.Tuple2(repr.String, repr.Map(repr.String, repr.Int))

func TestStreamRoundTrip(t *testing.T) {
	testlog.Start(t)
	opts := DefaultOptions()
	opts.Name = "stream-roundtrip"
	opts.Checksum = true

	in := []entry{
		{First: "a", Second: map[string]int{"x": 1, "y": -2}},
		{First: "b", Second: map[string]int{}},
		{First: "c", Second: map[string]int{"z": 1 << 30}},
	}

	var buf bytes.Buffer
	w := NewWriter(&buf, entryCodec, opts)
	for _, e := range in {
		if err := w.Write(e); err != nil {
			t.Fatalf("write: %v", err)
		}
	}

	r := NewReader(&buf, entryCodec, opts)
	var out []entry
	for {
		e, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			t.Fatalf("read: %v", err)
		}
		out = append(out, e)
	}
	if diff := cmp.Diff(in, out); diff != "" {
		t.Fatalf("stream mismatch (-want +got):\n%s", diff)
	}

	if got := testutil.ToFloat64(observability.FrameCount(opts.Name, observability.DirectionWrite)); got != 3 {
		t.Fatalf("write frames = %v, want 3", got)
	}
	if got := testutil.ToFloat64(observability.FrameCount(opts.Name, observability.DirectionRead)); got != 3 {
		t.Fatalf("read frames = %v, want 3", got)
	}
}

func TestStreamRejectsTrailingPayload(t *testing.T) {
	testlog.Start(t)
	opts := DefaultOptions()
	opts.Name = "stream-trailing"

	var buf bytes.Buffer
	if _, err := WriteFrame(&buf, Frame{Payload: []byte{0x01, 0x00}}, opts.Limits); err != nil {
		t.Fatalf("write frame: %v", err)
	}
	_, err := NewReader(&buf, repr.Uint8, opts).Read()
	if !errors.Is(err, repr.ErrInvalidData) {
		t.Fatalf("expected ErrInvalidData, got %v", err)
	}
	if got := testutil.ToFloat64(observability.FrameErrorCount(opts.Name, observability.DirectionRead, "invalid_data")); got != 1 {
		t.Fatalf("invalid_data errors = %v, want 1", got)
	}
}

func TestStreamDecodeErrorIsWrapped(t *testing.T) {
	testlog.Start(t)
	opts := DefaultOptions()
	opts.Name = "stream-utf8"

	var buf bytes.Buffer
	if _, err := WriteFrame(&buf, Frame{Payload: []byte{0x01, 0xff}}, opts.Limits); err != nil {
		t.Fatalf("write frame: %v", err)
	}
	_, err := NewReader(&buf, repr.String, opts).Read()
	if !errors.Is(err, repr.ErrInvalidData) {
		t.Fatalf("expected ErrInvalidData, got %v", err)
	}
}

func TestStreamWriterEnforcesLimits(t *testing.T) {
	testlog.Start(t)
	opts := DefaultOptions()
	opts.Name = "stream-limits"
	opts.Limits = Limits{MaxPayloadBytes: 3}

	w := NewWriter(io.Discard, repr.String, opts)
	if err := w.Write("too long"); !errors.Is(err, ErrPayloadTooLarge) {
		t.Fatalf("expected ErrPayloadTooLarge, got %v", err)
	}
	if got := testutil.ToFloat64(observability.FrameErrorCount(opts.Name, observability.DirectionWrite, "too_large")); got != 1 {
		t.Fatalf("too_large errors = %v, want 1", got)
	}
}

func TestStreamWriterReportsEncodeError(t *testing.T) {
	testlog.Start(t)
	opts := DefaultOptions()
	opts.Name = "stream-encode"

	w := NewWriter(io.Discard, repr.Ref(repr.String), opts)
	if err := w.Write(nil); !errors.Is(err, repr.ErrInvalidData) {
		t.Fatalf("expected ErrInvalidData, got %v", err)
	}
}

func TestStreamTruncatedMidFrame(t *testing.T) {
	testlog.Start(t)
	opts := DefaultOptions()
	opts.Name = "stream-truncated"

	var buf bytes.Buffer
	if err := NewWriter(&buf, repr.String, opts).Write("hello"); err != nil {
		t.Fatalf("write: %v", err)
	}
	cut := bytes.NewReader(buf.Bytes()[:buf.Len()-1])
	if _, err := NewReader(cut, repr.String, opts).Read(); !errors.Is(err, ErrTruncated) {
		t.Fatalf("expected ErrTruncated, got %v", err)
	}
}

func TestStreamDefaultOptionsAreSilent(t *testing.T) {
	prev := log.Logger
	t.Cleanup(func() { log.Logger = prev })
	var global bytes.Buffer
	log.Logger = zerolog.New(&global).Level(zerolog.DebugLevel)

	for _, opts := range []Options{DefaultOptions(), {}} {
		var buf bytes.Buffer
		if err := NewWriter(&buf, repr.String, opts).Write("hi"); err != nil {
			t.Fatalf("write: %v", err)
		}
		if _, err := NewReader(&buf, repr.String, opts).Read(); err != nil {
			t.Fatalf("read: %v", err)
		}
	}
	if global.Len() != 0 {
		t.Fatalf("stream logged without a configured logger: %q", global.String())
	}
}

func TestStreamUsesConfiguredLogger(t *testing.T) {
	var out bytes.Buffer
	opts := DefaultOptions()
	opts.Name = "stream-logged"
	opts.Logger = zerolog.New(&out).Level(zerolog.DebugLevel)

	var buf bytes.Buffer
	if err := NewWriter(&buf, repr.String, opts).Write("hi"); err != nil {
		t.Fatalf("write: %v", err)
	}
	text := out.String()
	for _, want := range []string{`"component":"frame"`, `"stream":"stream-logged"`, `"message":"frame written"`} {
		if !strings.Contains(text, want) {
			t.Fatalf("log output %q missing %s", text, want)
		}
	}
}

func TestStreamZeroOptionsUseDefaults(t *testing.T) {
	testlog.Start(t)
	in := strings.Repeat("x", 4096)

	var buf bytes.Buffer
	if err := NewWriter(&buf, repr.String, Options{}).Write(in); err != nil {
		t.Fatalf("write: %v", err)
	}
	got, err := NewReader(&buf, repr.String, Options{}).Read()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if got != in {
		t.Fatalf("round trip lost data: %d bytes", len(got))
	}
}

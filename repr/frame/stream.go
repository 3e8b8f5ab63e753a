package frame

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/danmuck/binrepr/internal/observability"
	"github.com/danmuck/binrepr/repr"
	"github.com/rs/zerolog"
)

// Options configures a framed stream. The zero value is usable: an
// empty Name becomes "default", zero Limits become DefaultLimits, and a
// zero Logger discards everything.
type Options struct {
	// Name labels the stream in logs and metrics.
	Name     string
	Limits   Limits
	Checksum bool
	// Logger receives per-frame debug lines, tagged with the component
	// and stream name.
	Logger   zerolog.Logger
}

func DefaultOptions() Options {
	return Options{
		Name:   "default",
		Limits: DefaultLimits(),
		Logger: zerolog.Nop(),
	}
}

func (o Options) resolve() Options {
	if o.Name == "" {
		o.Name = "default"
	}
	if o.Limits == (Limits{}) {
		o.Limits = DefaultLimits()
	}
	return o
}

// Writer encodes one value per frame.
type Writer[T any] struct {
	w     io.Writer
	codec repr.Codec[T]
	opts  Options
	buf   bytes.Buffer
	log   zerolog.Logger
}

func NewWriter[T any](w io.Writer, c repr.Codec[T], opts Options) *Writer[T] {
	opts = opts.resolve()
	return &Writer[T]{
		w:     w,
		codec: c,
		opts:  opts,
		log:   streamLogger(opts),
	}
}

func (fw *Writer[T]) Write(v T) error {
	fw.buf.Reset()
	if _, err := fw.codec.Encode(&fw.buf, v); err != nil {
		fw.fail("encode", err)
		return fmt.Errorf("frame: encode: %w", err)
	}

	var flags uint16
	if fw.opts.Checksum {
		flags |= FlagChecksum
	}
	n, err := WriteFrame(fw.w, Frame{Header: Header{Flags: flags}, Payload: fw.buf.Bytes()}, fw.opts.Limits)
	if err != nil {
		fw.fail("write", err)
		return err
	}

	observability.RecordFrame(fw.opts.Name, observability.DirectionWrite, n)
	fw.log.Debug().Int("payload", fw.buf.Len()).Int("bytes", n).Msg("frame written")
	return nil
}

func (fw *Writer[T]) fail(stage string, err error) {
	kind := errorKind(err)
	observability.RecordFrameError(fw.opts.Name, observability.DirectionWrite, kind)
	fw.log.Debug().Err(err).Str("stage", stage).Str("kind", kind).Msg("frame write failed")
}

// Reader decodes one value per frame. Each payload must hold exactly one
// value.
type Reader[T any] struct {
	r     io.Reader
	codec repr.Codec[T]
	opts  Options
	log   zerolog.Logger
}

func NewReader[T any](r io.Reader, c repr.Codec[T], opts Options) *Reader[T] {
	opts = opts.resolve()
	return &Reader[T]{
		r:     r,
		codec: c,
		opts:  opts,
		log:   streamLogger(opts),
	}
}

// Read returns the next value, or io.EOF once the stream ends cleanly
// between frames.
func (fr *Reader[T]) Read() (T, error) {
	var zero T
	f, err := ReadFrame(fr.r, fr.opts.Limits)
	if err != nil {
		if errors.Is(err, io.EOF) {
			return zero, io.EOF
		}
		fr.fail("read", err)
		return zero, err
	}

	v, err := repr.Unmarshal(fr.codec, f.Payload)
	if err != nil {
		fr.fail("decode", err)
		return zero, fmt.Errorf("frame: decode: %w", err)
	}

	size := FixedHeaderLen + len(f.Payload)
	if f.Header.Flags&FlagChecksum != 0 {
		size += DigestLen
	}
	observability.RecordFrame(fr.opts.Name, observability.DirectionRead, size)
	fr.log.Debug().Int("payload", len(f.Payload)).Bool("checksum", f.Header.Flags&FlagChecksum != 0).Msg("frame read")
	return v, nil
}

func (fr *Reader[T]) fail(stage string, err error) {
	kind := errorKind(err)
	observability.RecordFrameError(fr.opts.Name, observability.DirectionRead, kind)
	fr.log.Debug().Err(err).Str("stage", stage).Str("kind", kind).Msg("frame read failed")
}

func streamLogger(opts Options) zerolog.Logger {
	return opts.Logger.With().Str("component", "frame").Str("stream", opts.Name).Logger()
}

func errorKind(err error) string {
	switch {
	case errors.Is(err, ErrChecksumMismatch):
		return "checksum"
	case errors.Is(err, ErrPayloadTooLarge):
		return "too_large"
	case errors.Is(err, ErrInvalidMagic),
		errors.Is(err, ErrUnsupportedVersion),
		errors.Is(err, ErrUnknownFlags):
		return "header"
	case errors.Is(err, ErrShortHeader),
		errors.Is(err, ErrTruncated),
		errors.Is(err, repr.ErrUnexpectedEOF):
		return "truncated"
	case errors.Is(err, repr.ErrInvalidData):
		return "invalid_data"
	default:
		return "io"
	}
}

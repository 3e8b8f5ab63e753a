// Package frame carries repr-encoded values over a byte stream.
//
// Each frame is a fixed 16-byte big-endian header, an optional 32-byte
// BLAKE3 digest of the payload, and the payload itself:
//
//	magic(4) version(2) flags(2) payload_len(8) [digest(32)] payload
package frame

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/zeebo/blake3"
)

const (
	FixedHeaderLen = 16
	DigestLen      = 32

	Magic   uint32 = 0x52505231 // "RPR1"
	Version uint16 = 1

	FlagChecksum uint16 = 0x01

	knownFlags = FlagChecksum

	// payloadChunk is the largest payload reserved in one allocation
	// before any of it has been read.
	payloadChunk = 64 * 1024
)

var (
	ErrShortHeader        = errors.New("frame: short fixed header")
	ErrInvalidMagic       = errors.New("frame: invalid magic")
	ErrUnsupportedVersion = errors.New("frame: unsupported version")
	ErrUnknownFlags       = errors.New("frame: unknown flags")
	ErrPayloadTooLarge    = errors.New("frame: payload too large")
	ErrTruncated          = errors.New("frame: truncated frame")
	ErrChecksumMismatch   = errors.New("frame: payload checksum mismatch")
)

// Header is the fixed wire header.
type Header struct {
	Magic      uint32
	Version    uint16
	Flags      uint16
	PayloadLen uint64
}

// Frame is one complete wire frame.
type Frame struct {
	Header  Header
	Payload []byte
}

// Limits constrains frame decode/encode memory use.
type Limits struct {
	MaxPayloadBytes uint64
}

func DefaultLimits() Limits {
	return Limits{
		MaxPayloadBytes: 8 * 1024 * 1024,
	}
}

// ReadFrame reads one frame. It returns io.EOF only when r is exhausted
// exactly at a frame boundary.
func ReadFrame(r io.Reader, limits Limits) (Frame, error) {
	var fixed [FixedHeaderLen]byte
	if _, err := io.ReadFull(r, fixed[:]); err != nil {
		if errors.Is(err, io.EOF) {
			return Frame{}, io.EOF
		}
		if errors.Is(err, io.ErrUnexpectedEOF) {
			return Frame{}, ErrShortHeader
		}
		return Frame{}, err
	}

	h, err := DecodeHeader(fixed[:])
	if err != nil {
		return Frame{}, err
	}
	if h.PayloadLen > limits.MaxPayloadBytes {
		return Frame{}, ErrPayloadTooLarge
	}

	var digest [DigestLen]byte
	if h.Flags&FlagChecksum != 0 {
		if err := readFull(r, digest[:]); err != nil {
			return Frame{}, err
		}
	}

	payload, err := readPayload(r, h.PayloadLen)
	if err != nil {
		return Frame{}, err
	}

	if h.Flags&FlagChecksum != 0 {
		sum := blake3.Sum256(payload)
		if !bytes.Equal(sum[:], digest[:]) {
			return Frame{}, ErrChecksumMismatch
		}
	}

	return Frame{Header: h, Payload: payload}, nil
}

// WriteFrame writes f, filling in magic, version and payload length. It
// returns the number of bytes written.
func WriteFrame(w io.Writer, f Frame, limits Limits) (int, error) {
	payloadLen := uint64(len(f.Payload))
	if payloadLen > limits.MaxPayloadBytes {
		return 0, ErrPayloadTooLarge
	}
	if f.Header.Flags&^knownFlags != 0 {
		return 0, ErrUnknownFlags
	}

	h := f.Header
	h.Magic = Magic
	h.Version = Version
	h.PayloadLen = payloadLen

	total, err := writeAll(w, EncodeHeader(h))
	if err != nil {
		return total, err
	}
	if h.Flags&FlagChecksum != 0 {
		sum := blake3.Sum256(f.Payload)
		n, err := writeAll(w, sum[:])
		total += n
		if err != nil {
			return total, err
		}
	}
	if payloadLen > 0 {
		n, err := writeAll(w, f.Payload)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

func EncodeHeader(h Header) []byte {
	buf := make([]byte, FixedHeaderLen)
	binary.BigEndian.PutUint32(buf[0:4], h.Magic)
	binary.BigEndian.PutUint16(buf[4:6], h.Version)
	binary.BigEndian.PutUint16(buf[6:8], h.Flags)
	binary.BigEndian.PutUint64(buf[8:16], h.PayloadLen)
	return buf
}

func DecodeHeader(b []byte) (Header, error) {
	if len(b) != FixedHeaderLen {
		return Header{}, fmt.Errorf("frame: invalid fixed header length: %d", len(b))
	}
	h := Header{
		Magic:      binary.BigEndian.Uint32(b[0:4]),
		Version:    binary.BigEndian.Uint16(b[4:6]),
		Flags:      binary.BigEndian.Uint16(b[6:8]),
		PayloadLen: binary.BigEndian.Uint64(b[8:16]),
	}
	if h.Magic != Magic {
		return Header{}, ErrInvalidMagic
	}
	if h.Version != Version {
		return Header{}, ErrUnsupportedVersion
	}
	if h.Flags&^knownFlags != 0 {
		return Header{}, ErrUnknownFlags
	}
	return h, nil
}

func writeAll(w io.Writer, p []byte) (int, error) {
	n, err := w.Write(p)
	if err != nil {
		return n, err
	}
	if n != len(p) {
		return n, io.ErrShortWrite
	}
	return n, nil
}

// readPayload reads n bytes, growing the buffer as data arrives rather
// than reserving n up front.
func readPayload(r io.Reader, n uint64) ([]byte, error) {
	if n == 0 {
		return []byte{}, nil
	}
	if n > uint64(math.MaxInt) {
		return nil, ErrPayloadTooLarge
	}
	var buf bytes.Buffer
	if n <= payloadChunk {
		buf.Grow(int(n))
	}
	copied, err := io.CopyN(&buf, r, int64(n))
	if err != nil {
		if uint64(copied) < n && (errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF)) {
			return nil, ErrTruncated
		}
		return nil, err
	}
	return buf.Bytes(), nil
}

func readFull(r io.Reader, buf []byte) error {
	if _, err := io.ReadFull(r, buf); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return ErrTruncated
		}
		return err
	}
	return nil
}

package repr

import (
	"encoding/binary"
	"io"
	"math"
)

// Unit is the zero-byte value.
type Unit struct{}

var (
	Bool      Codec[bool]    = boolCodec{}
	Uint8     Codec[uint8]   = uint8Codec{}
	Uint16    Codec[uint16]  = uint16Codec{}
	Uint32    Codec[uint32]  = uint32Codec{}
	Uint64    Codec[uint64]  = uint64Codec{}
	Int8      Codec[int8]    = int8Codec{}
	Int16     Codec[int16]   = int16Codec{}
	Int32     Codec[int32]   = int32Codec{}
	Int64     Codec[int64]   = int64Codec{}
	Int       Codec[int]     = intCodec{}
	Uint      Codec[uint]    = uintCodec{}
	Float32   Codec[float32] = float32Codec{}
	Float64   Codec[float64] = float64Codec{}
	UnitCodec Codec[Unit]    = unitCodec{}
)

const (
	boolFalse byte = 0x00
	boolTrue  byte = 0xff
)

type boolCodec struct{}

func (boolCodec) Encode(w io.Writer, v bool) (int, error) {
	if v {
		return writeByte(w, boolTrue)
	}
	return writeByte(w, boolFalse)
}

func (boolCodec) Decode(r io.Reader) (bool, error) {
	b, err := readByte(r)
	if err != nil {
		return false, err
	}
	return b != 0, nil
}

type uint8Codec struct{}

func (uint8Codec) Encode(w io.Writer, v uint8) (int, error) { return writeByte(w, v) }
func (uint8Codec) Decode(r io.Reader) (uint8, error)        { return readByte(r) }

type uint16Codec struct{}

func (uint16Codec) Encode(w io.Writer, v uint16) (int, error) {
	var buf [2]byte
	binary.BigEndian.PutUint16(buf[:], v)
	return write(w, buf[:])
}

func (uint16Codec) Decode(r io.Reader) (uint16, error) {
	var buf [2]byte
	if err := readFull(r, buf[:]); err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint16(buf[:]), nil
}

type uint32Codec struct{}

func (uint32Codec) Encode(w io.Writer, v uint32) (int, error) {
	var buf [4]byte
	binary.BigEndian.PutUint32(buf[:], v)
	return write(w, buf[:])
}

func (uint32Codec) Decode(r io.Reader) (uint32, error) {
	var buf [4]byte
	if err := readFull(r, buf[:]); err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(buf[:]), nil
}

type uint64Codec struct{}

func (uint64Codec) Encode(w io.Writer, v uint64) (int, error) {
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], v)
	return write(w, buf[:])
}

func (uint64Codec) Decode(r io.Reader) (uint64, error) {
	var buf [8]byte
	if err := readFull(r, buf[:]); err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint64(buf[:]), nil
}

// Signed fixed widths travel as their same-width unsigned bit pattern.

type int8Codec struct{}

func (int8Codec) Encode(w io.Writer, v int8) (int, error) { return writeByte(w, uint8(v)) }

func (int8Codec) Decode(r io.Reader) (int8, error) {
	b, err := readByte(r)
	return int8(b), err
}

type int16Codec struct{}

func (int16Codec) Encode(w io.Writer, v int16) (int, error) {
	return uint16Codec{}.Encode(w, uint16(v))
}

func (int16Codec) Decode(r io.Reader) (int16, error) {
	v, err := uint16Codec{}.Decode(r)
	return int16(v), err
}

type int32Codec struct{}

func (int32Codec) Encode(w io.Writer, v int32) (int, error) {
	return uint32Codec{}.Encode(w, uint32(v))
}

func (int32Codec) Decode(r io.Reader) (int32, error) {
	v, err := uint32Codec{}.Decode(r)
	return int32(v), err
}

type int64Codec struct{}

func (int64Codec) Encode(w io.Writer, v int64) (int, error) {
	return uint64Codec{}.Encode(w, uint64(v))
}

func (int64Codec) Decode(r io.Reader) (int64, error) {
	v, err := uint64Codec{}.Decode(r)
	return int64(v), err
}

// Platform-width integers go through the varint. int is widened to
// int64 first so the bytes do not depend on the platform word size.

type intCodec struct{}

func (intCodec) Encode(w io.Writer, v int) (int, error) {
	return WriteVarint(w, uint64(int64(v)))
}

func (intCodec) Decode(r io.Reader) (int, error) {
	u, err := ReadVarint(r)
	if err != nil {
		return 0, err
	}
	v := int64(u)
	if v > int64(maxInt) || v < -int64(maxInt)-1 {
		return 0, errIntOverflow
	}
	return int(v), nil
}

type uintCodec struct{}

func (uintCodec) Encode(w io.Writer, v uint) (int, error) {
	return WriteVarint(w, uint64(v))
}

func (uintCodec) Decode(r io.Reader) (uint, error) {
	u, err := ReadVarint(r)
	if err != nil {
		return 0, err
	}
	if u > uint64(^uint(0)) {
		return 0, errIntOverflow
	}
	return uint(u), nil
}

type float32Codec struct{}

func (float32Codec) Encode(w io.Writer, v float32) (int, error) {
	return uint32Codec{}.Encode(w, math.Float32bits(v))
}

func (float32Codec) Decode(r io.Reader) (float32, error) {
	bits, err := uint32Codec{}.Decode(r)
	if err != nil {
		return 0, err
	}
	return math.Float32frombits(bits), nil
}

type float64Codec struct{}

func (float64Codec) Encode(w io.Writer, v float64) (int, error) {
	return uint64Codec{}.Encode(w, math.Float64bits(v))
}

func (float64Codec) Decode(r io.Reader) (float64, error) {
	bits, err := uint64Codec{}.Decode(r)
	if err != nil {
		return 0, err
	}
	return math.Float64frombits(bits), nil
}

type unitCodec struct{}

func (unitCodec) Encode(io.Writer, Unit) (int, error) { return 0, nil }
func (unitCodec) Decode(io.Reader) (Unit, error)      { return Unit{}, nil }

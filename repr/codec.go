package repr

import (
	"bytes"
	"io"
)

// Codec is the encode/decode contract every wire type satisfies.
//
// Encode writes v to w and returns the number of bytes written. Decode
// reads exactly one value from r. For any value x a conforming codec
// guarantees Decode(Encode(x)) == x.
type Codec[T any] interface {
	Encode(w io.Writer, v T) (int, error)
	Decode(r io.Reader) (T, error)
}

// Encoder is the method form of the encode half of the contract, for
// types that carry their own encoding.
type Encoder interface {
	EncodeBin(w io.Writer) (int, error)
}

// Decoder is the method form of the decode half. Implementations fill
// the receiver with owned storage.
type Decoder interface {
	DecodeBin(r io.Reader) error
}

// Of adapts a type implementing EncodeBin/DecodeBin on its pointer into
// a Codec, so it can be nested in containers.
func Of[T any, P interface {
	*T
	Encoder
	Decoder
}]() Codec[T] {
	return methodCodec[T, P]{}
}

type methodCodec[T any, P interface {
	*T
	Encoder
	Decoder
}] struct{}

func (methodCodec[T, P]) Encode(w io.Writer, v T) (int, error) {
	return P(&v).EncodeBin(w)
}

func (methodCodec[T, P]) Decode(r io.Reader) (T, error) {
	var v T
	if err := P(&v).DecodeBin(r); err != nil {
		var zero T
		return zero, err
	}
	return v, nil
}

// Func builds a Codec from a pair of functions.
func Func[T any](
	encode func(w io.Writer, v T) (int, error),
	decode func(r io.Reader) (T, error),
) Codec[T] {
	return funcCodec[T]{encode: encode, decode: decode}
}

type funcCodec[T any] struct {
	encode func(w io.Writer, v T) (int, error)
	decode func(r io.Reader) (T, error)
}

func (c funcCodec[T]) Encode(w io.Writer, v T) (int, error) { return c.encode(w, v) }
func (c funcCodec[T]) Decode(r io.Reader) (T, error)        { return c.decode(r) }

// Ref is the non-owning reference codec: it encodes whatever the pointer
// refers to and refuses to decode, since decoding has no caller storage
// to borrow.
func Ref[T any](c Codec[T]) Codec[*T] {
	return refCodec[T]{elem: c}
}

type refCodec[T any] struct {
	elem Codec[T]
}

func (c refCodec[T]) Encode(w io.Writer, v *T) (int, error) {
	if v == nil {
		return 0, errNilRef
	}
	return c.elem.Encode(w, *v)
}

func (refCodec[T]) Decode(io.Reader) (*T, error) {
	return nil, errDecodeRef
}

// Marshal encodes v into a new byte slice.
func Marshal[T any](c Codec[T], v T) ([]byte, error) {
	var buf bytes.Buffer
	if _, err := c.Encode(&buf, v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Unmarshal decodes one value from data. The value must span data
// exactly; leftover bytes are ErrInvalidData.
func Unmarshal[T any](c Codec[T], data []byte) (T, error) {
	r := bytes.NewReader(data)
	v, err := c.Decode(r)
	if err != nil {
		var zero T
		return zero, err
	}
	if r.Len() != 0 {
		var zero T
		return zero, errTrailingBytes
	}
	return v, nil
}

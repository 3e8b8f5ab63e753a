package repr

import (
	"bytes"
	"io"
	"slices"
	"unicode/utf8"
)

// preallocCap caps the capacity reserved from an untrusted count prefix.
const preallocCap = 1024

// Str is a text view. A borrowed Str references caller bytes and is only
// valid while they stay unmodified; an owned Str holds its own string.
// Decoding always yields an owned Str.
type Str struct {
	ref   []byte
	s     string
	owned bool
}

// BorrowStr references b as text without copying it.
func BorrowStr(b []byte) Str { return Str{ref: b} }

// OwnStr wraps a string the view owns.
func OwnStr(s string) Str { return Str{s: s, owned: true} }

// Owned reports whether the view holds its own storage.
func (s Str) Owned() bool { return s.owned }

// Len is the text length in bytes.
func (s Str) Len() int {
	if s.owned {
		return len(s.s)
	}
	return len(s.ref)
}

// String returns the text, copying when the view is borrowed.
func (s Str) String() string {
	if s.owned {
		return s.s
	}
	return string(s.ref)
}

// Buf is a byte-buffer view with the same borrowed/owned split as Str.
type Buf struct {
	b     []byte
	owned bool
}

// BorrowBuf references b without copying it.
func BorrowBuf(b []byte) Buf { return Buf{b: b} }

// OwnBuf copies b into storage the view owns.
func OwnBuf(b []byte) Buf { return Buf{b: bytes.Clone(b), owned: true} }

// Owned reports whether the view holds its own storage.
func (b Buf) Owned() bool { return b.owned }

// Len is the buffer length in bytes.
func (b Buf) Len() int { return len(b.b) }

// Bytes returns the underlying bytes without copying.
func (b Buf) Bytes() []byte { return b.b }

// Array is a sequence view with the same borrowed/owned split as Str.
type Array[T any] struct {
	items []T
	owned bool
}

// BorrowArray references items without copying them.
func BorrowArray[T any](items []T) Array[T] { return Array[T]{items: items} }

// OwnArray copies items into storage the view owns.
func OwnArray[T any](items []T) Array[T] {
	return Array[T]{items: slices.Clone(items), owned: true}
}

// Owned reports whether the view holds its own storage.
func (a Array[T]) Owned() bool { return a.owned }

// Len is the number of items.
func (a Array[T]) Len() int { return len(a.items) }

// Items returns the underlying slice without copying.
func (a Array[T]) Items() []T { return a.items }

var (
	StrCodec Codec[Str] = strCodec{}
	BufCodec Codec[Buf] = bufCodec{}

	// String and Bytes are the plain Go forms of the text and buffer views.
	String Codec[string] = stringCodec{}
	Bytes  Codec[[]byte] = bytesCodec{}

	// BorrowedStr and BorrowedBuf encode caller-owned bytes in place.
	// They cannot decode: there is no caller storage to bind to.
	BorrowedStr Codec[[]byte] = borrowedCodec{}
	BorrowedBuf Codec[[]byte] = borrowedCodec{}
)

// ArrayCodec encodes a sequence view with elem.
func ArrayCodec[T any](elem Codec[T]) Codec[Array[T]] {
	return arrayCodec[T]{elem: elem}
}

// BorrowedArray encodes a caller-owned slice in place and refuses to
// decode.
func BorrowedArray[T any](elem Codec[T]) Codec[[]T] {
	return borrowedArrayCodec[T]{elem: elem}
}

func writeLenPrefixed(w io.Writer, b []byte) (int, error) {
	n, err := WriteVarint(w, uint64(len(b)))
	if err != nil {
		return n, err
	}
	m, err := write(w, b)
	return n + m, err
}

func writeLenPrefixedString(w io.Writer, s string) (int, error) {
	n, err := WriteVarint(w, uint64(len(s)))
	if err != nil {
		return n, err
	}
	m, err := io.WriteString(w, s)
	if err == nil && m != len(s) {
		err = io.ErrShortWrite
	}
	return n + m, err
}

func readLenPrefixed(r io.Reader) ([]byte, error) {
	n, err := readLen(r)
	if err != nil {
		return nil, err
	}
	return readN(r, n)
}

type strCodec struct{}

func (strCodec) Encode(w io.Writer, v Str) (int, error) {
	if v.owned {
		return writeLenPrefixedString(w, v.s)
	}
	return writeLenPrefixed(w, v.ref)
}

func (strCodec) Decode(r io.Reader) (Str, error) {
	s, err := stringCodec{}.Decode(r)
	if err != nil {
		return Str{}, err
	}
	return OwnStr(s), nil
}

type stringCodec struct{}

func (stringCodec) Encode(w io.Writer, v string) (int, error) {
	return strCodec{}.Encode(w, OwnStr(v))
}

func (stringCodec) Decode(r io.Reader) (string, error) {
	b, err := readLenPrefixed(r)
	if err != nil {
		return "", err
	}
	if !utf8.Valid(b) {
		return "", errInvalidUTF8
	}
	return string(b), nil
}

type bufCodec struct{}

func (bufCodec) Encode(w io.Writer, v Buf) (int, error) {
	return writeLenPrefixed(w, v.b)
}

func (bufCodec) Decode(r io.Reader) (Buf, error) {
	b, err := readLenPrefixed(r)
	if err != nil {
		return Buf{}, err
	}
	return Buf{b: b, owned: true}, nil
}

type bytesCodec struct{}

func (bytesCodec) Encode(w io.Writer, v []byte) (int, error) {
	return bufCodec{}.Encode(w, BorrowBuf(v))
}

func (bytesCodec) Decode(r io.Reader) ([]byte, error) {
	v, err := bufCodec{}.Decode(r)
	return v.b, err
}

type borrowedCodec struct{}

func (borrowedCodec) Encode(w io.Writer, v []byte) (int, error) {
	return writeLenPrefixed(w, v)
}

func (borrowedCodec) Decode(io.Reader) ([]byte, error) {
	return nil, errDecodeRef
}

type arrayCodec[T any] struct {
	elem Codec[T]
}

func (c arrayCodec[T]) Encode(w io.Writer, v Array[T]) (int, error) {
	return encodeItems(w, c.elem, v.items)
}

func (c arrayCodec[T]) Decode(r io.Reader) (Array[T], error) {
	n, err := readLen(r)
	if err != nil {
		return Array[T]{}, err
	}
	items := make([]T, 0, min(n, preallocCap))
	for range n {
		item, err := c.elem.Decode(r)
		if err != nil {
			return Array[T]{}, err
		}
		items = append(items, item)
	}
	return Array[T]{items: items, owned: true}, nil
}

type borrowedArrayCodec[T any] struct {
	elem Codec[T]
}

func (c borrowedArrayCodec[T]) Encode(w io.Writer, v []T) (int, error) {
	return encodeItems(w, c.elem, v)
}

func (borrowedArrayCodec[T]) Decode(io.Reader) ([]T, error) {
	return nil, errDecodeRef
}

func encodeItems[T any](w io.Writer, elem Codec[T], items []T) (int, error) {
	total, err := WriteVarint(w, uint64(len(items)))
	if err != nil {
		return total, err
	}
	for _, item := range items {
		n, err := elem.Encode(w, item)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

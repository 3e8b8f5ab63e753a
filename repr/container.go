package repr

import (
	"cmp"
	"io"
	"maps"
	"slices"
)

// Slice encodes a growable sequence; the wire form is that of ArrayCodec.
func Slice[T any](elem Codec[T]) Codec[[]T] {
	return sliceCodec[T]{array: arrayCodec[T]{elem: elem}}
}

type sliceCodec[T any] struct {
	array arrayCodec[T]
}

func (c sliceCodec[T]) Encode(w io.Writer, v []T) (int, error) {
	return c.array.Encode(w, BorrowArray(v))
}

func (c sliceCodec[T]) Decode(r io.Reader) ([]T, error) {
	a, err := c.array.Decode(r)
	if err != nil {
		return nil, err
	}
	return a.items, nil
}

// Map encodes an ordered mapping. Entries are written in ascending key
// order so equal maps always produce equal bytes.
func Map[K cmp.Ordered, V any](key Codec[K], val Codec[V]) Codec[map[K]V] {
	return MapFunc(key, val, cmp.Compare[K])
}

// MapFunc is Map for keys without a natural order; compare defines the
// wire order and must be a strict total order over the keys in use.
func MapFunc[K comparable, V any](key Codec[K], val Codec[V], compare func(a, b K) int) Codec[map[K]V] {
	return mapCodec[K, V]{key: key, val: val, compare: compare}
}

type mapCodec[K comparable, V any] struct {
	key     Codec[K]
	val     Codec[V]
	compare func(a, b K) int
}

func (c mapCodec[K, V]) Encode(w io.Writer, m map[K]V) (int, error) {
	total, err := WriteVarint(w, uint64(len(m)))
	if err != nil {
		return total, err
	}
	// Values are carried with their keys: a key that is not equal to
	// itself, such as NaN, cannot be looked up again.
	entries := make([]Pair[K, V], 0, len(m))
	for k, v := range maps.All(m) {
		entries = append(entries, Pair[K, V]{First: k, Second: v})
	}
	slices.SortFunc(entries, func(a, b Pair[K, V]) int {
		return c.compare(a.First, b.First)
	})
	for _, e := range entries {
		n, err := c.key.Encode(w, e.First)
		total += n
		if err != nil {
			return total, err
		}
		n, err = c.val.Encode(w, e.Second)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// Decode does not reject duplicate keys; the last one read wins.
func (c mapCodec[K, V]) Decode(r io.Reader) (map[K]V, error) {
	n, err := readLen(r)
	if err != nil {
		return nil, err
	}
	m := make(map[K]V, min(n, preallocCap))
	for range n {
		k, err := c.key.Decode(r)
		if err != nil {
			return nil, err
		}
		v, err := c.val.Decode(r)
		if err != nil {
			return nil, err
		}
		m[k] = v
	}
	return m, nil
}

const (
	optionAbsent  byte = 0x00
	optionPresent byte = 0xff
)

// Option encodes a nil pointer as absent and anything else as present.
func Option[T any](elem Codec[T]) Codec[*T] {
	return optionCodec[T]{elem: elem}
}

type optionCodec[T any] struct {
	elem Codec[T]
}

func (c optionCodec[T]) Encode(w io.Writer, v *T) (int, error) {
	if v == nil {
		return writeByte(w, optionAbsent)
	}
	total, err := writeByte(w, optionPresent)
	if err != nil {
		return total, err
	}
	n, err := c.elem.Encode(w, *v)
	return total + n, err
}

func (c optionCodec[T]) Decode(r io.Reader) (*T, error) {
	tag, err := readByte(r)
	if err != nil {
		return nil, err
	}
	if tag == optionAbsent {
		return nil, nil
	}
	v, err := c.elem.Decode(r)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// Pair is a fixed 2-tuple.
type Pair[A, B any] struct {
	First  A
	Second B
}

// Triple is a fixed 3-tuple.
type Triple[A, B, C any] struct {
	First  A
	Second B
	Third  C
}

// Tuple2 encodes a Pair as its components in order, with no prefix.
func Tuple2[A, B any](a Codec[A], b Codec[B]) Codec[Pair[A, B]] {
	return pairCodec[A, B]{a: a, b: b}
}

// Tuple3 encodes a Triple as its components in order, with no prefix.
func Tuple3[A, B, C any](a Codec[A], b Codec[B], c Codec[C]) Codec[Triple[A, B, C]] {
	return tripleCodec[A, B, C]{a: a, b: b, c: c}
}

type pairCodec[A, B any] struct {
	a Codec[A]
	b Codec[B]
}

func (c pairCodec[A, B]) Encode(w io.Writer, v Pair[A, B]) (int, error) {
	total, err := c.a.Encode(w, v.First)
	if err != nil {
		return total, err
	}
	n, err := c.b.Encode(w, v.Second)
	return total + n, err
}

func (c pairCodec[A, B]) Decode(r io.Reader) (Pair[A, B], error) {
	a, err := c.a.Decode(r)
	if err != nil {
		return Pair[A, B]{}, err
	}
	b, err := c.b.Decode(r)
	if err != nil {
		return Pair[A, B]{}, err
	}
	return Pair[A, B]{First: a, Second: b}, nil
}

type tripleCodec[A, B, C any] struct {
	a Codec[A]
	b Codec[B]
	c Codec[C]
}

func (c tripleCodec[A, B, C]) Encode(w io.Writer, v Triple[A, B, C]) (int, error) {
	total, err := c.a.Encode(w, v.First)
	if err != nil {
		return total, err
	}
	n, err := c.b.Encode(w, v.Second)
	total += n
	if err != nil {
		return total, err
	}
	n, err = c.c.Encode(w, v.Third)
	return total + n, err
}

func (c tripleCodec[A, B, C]) Decode(r io.Reader) (Triple[A, B, C], error) {
	var zero Triple[A, B, C]
	a, err := c.a.Decode(r)
	if err != nil {
		return zero, err
	}
	b, err := c.b.Decode(r)
	if err != nil {
		return zero, err
	}
	v, err := c.c.Decode(r)
	if err != nil {
		return zero, err
	}
	return Triple[A, B, C]{First: a, Second: b, Third: v}, nil
}

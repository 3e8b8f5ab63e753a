// Package schema composes repr codecs for records and sum types.
//
// Records encode their fields in declaration order with no prefix. Sum
// types encode a varint discriminant followed by the selected
// alternative's payload. Nothing here generates code; these are the
// building blocks hand-written or generated implementations call into.
package schema

import (
	"fmt"
	"io"

	"github.com/danmuck/binrepr/repr"
)

// Field binds one field of S to a codec.
type Field[S any] struct {
	encode func(w io.Writer, s *S) (int, error)
	decode func(r io.Reader, s *S) error
}

// Bind ties codec c to the field of S that at returns.
func Bind[S, T any](c repr.Codec[T], at func(*S) *T) Field[S] {
	return Field[S]{
		encode: func(w io.Writer, s *S) (int, error) {
			return c.Encode(w, *at(s))
		},
		decode: func(r io.Reader, s *S) error {
			v, err := c.Decode(r)
			if err != nil {
				return err
			}
			*at(s) = v
			return nil
		},
	}
}

// Record builds a codec that encodes fields in the order given.
func Record[S any](fields ...Field[S]) repr.Codec[S] {
	return recordCodec[S]{fields: fields}
}

type recordCodec[S any] struct {
	fields []Field[S]
}

func (c recordCodec[S]) Encode(w io.Writer, v S) (int, error) {
	total := 0
	for _, f := range c.fields {
		n, err := f.encode(w, &v)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

func (c recordCodec[S]) Decode(r io.Reader) (S, error) {
	var v S
	for _, f := range c.fields {
		if err := f.decode(r, &v); err != nil {
			var zero S
			return zero, err
		}
	}
	return v, nil
}

// UnknownTagError reports a discriminant with no matching alternative.
// It matches repr.ErrInvalidData.
type UnknownTagError struct {
	Tag uint64
}

func (e UnknownTagError) Error() string {
	return fmt.Sprintf("schema: unknown variant tag %d", e.Tag)
}

func (e UnknownTagError) Unwrap() error {
	return repr.ErrInvalidData
}

// Case is one alternative of a sum type S.
type Case[S any] struct {
	tag    uint64
	encode func(w io.Writer, s S) (int, error)
	decode func(r io.Reader) (S, error)
}

// Alt declares the alternative selected by tag. unwrap extracts the
// payload from an S known to carry this tag; wrap builds an S from a
// decoded payload.
func Alt[S, T any](tag uint64, c repr.Codec[T], wrap func(T) S, unwrap func(S) T) Case[S] {
	return Case[S]{
		tag: tag,
		encode: func(w io.Writer, s S) (int, error) {
			return c.Encode(w, unwrap(s))
		},
		decode: func(r io.Reader) (S, error) {
			v, err := c.Decode(r)
			if err != nil {
				var zero S
				return zero, err
			}
			return wrap(v), nil
		},
	}
}

// Unit declares an alternative that carries no payload.
func Unit[S any](tag uint64, value S) Case[S] {
	return Alt(tag, repr.UnitCodec,
		func(repr.Unit) S { return value },
		func(S) repr.Unit { return repr.Unit{} },
	)
}

// Variant builds a codec for a sum type. tagOf reports which alternative
// a value holds. Duplicate tags are a programming error and panic.
func Variant[S any](tagOf func(S) uint64, cases ...Case[S]) repr.Codec[S] {
	byTag := make(map[uint64]Case[S], len(cases))
	for _, c := range cases {
		if _, dup := byTag[c.tag]; dup {
			panic(fmt.Sprintf("schema: duplicate variant tag %d", c.tag))
		}
		byTag[c.tag] = c
	}
	return variantCodec[S]{tagOf: tagOf, cases: byTag}
}

type variantCodec[S any] struct {
	tagOf func(S) uint64
	cases map[uint64]Case[S]
}

func (c variantCodec[S]) Encode(w io.Writer, v S) (int, error) {
	tag := c.tagOf(v)
	alt, ok := c.cases[tag]
	if !ok {
		return 0, UnknownTagError{Tag: tag}
	}
	total, err := repr.WriteVarint(w, tag)
	if err != nil {
		return total, err
	}
	n, err := alt.encode(w, v)
	return total + n, err
}

func (c variantCodec[S]) Decode(r io.Reader) (S, error) {
	var zero S
	tag, err := repr.ReadVarint(r)
	if err != nil {
		return zero, err
	}
	alt, ok := c.cases[tag]
	if !ok {
		return zero, UnknownTagError{Tag: tag}
	}
	return alt.decode(r)
}

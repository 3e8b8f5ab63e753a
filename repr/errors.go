package repr

import (
	"errors"
	"io"
)

var (
	// ErrUnexpectedEOF reports a source that ran out before a value was
	// complete. It is io.ErrUnexpectedEOF so either name matches errors.Is.
	ErrUnexpectedEOF = io.ErrUnexpectedEOF

	// ErrInvalidData reports bytes that do not form a value of the target
	// type, or a decode into a non-owning reference.
	ErrInvalidData = errors.New("repr: invalid data")
)

var (
	errVarintOverflow = wrapInvalid("varint overflows 64 bits")
	errInvalidUTF8    = wrapInvalid("text is not valid utf-8")
	errDecodeRef      = wrapInvalid("cannot decode into a borrowed reference")
	errNilRef         = wrapInvalid("cannot encode a nil reference")
	errTrailingBytes  = wrapInvalid("trailing bytes after value")
	errLengthOverflow = wrapInvalid("length prefix overflows int")
	errIntOverflow    = wrapInvalid("integer overflows platform width")
)

type invalidDataError struct {
	reason string
}

func wrapInvalid(reason string) error {
	return invalidDataError{reason: reason}
}

func (e invalidDataError) Error() string {
	return "repr: invalid data: " + e.reason
}

func (e invalidDataError) Unwrap() error {
	return ErrInvalidData
}

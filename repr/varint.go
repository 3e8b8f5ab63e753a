package repr

import "io"

// MaxVarintLen is the longest varint a 64-bit value can produce.
const MaxVarintLen = 10

// AppendVarint appends the varint encoding of n to dst.
func AppendVarint(dst []byte, n uint64) []byte {
	for n >= 0x80 {
		dst = append(dst, 0x80|byte(n&0x7f))
		n >>= 7
	}
	return append(dst, byte(n))
}

// VarintSize returns the number of bytes AppendVarint would emit for n.
func VarintSize(n uint64) int {
	size := 1
	for n >= 0x80 {
		n >>= 7
		size++
	}
	return size
}

// WriteVarint writes n as a varint and returns the bytes written.
func WriteVarint(w io.Writer, n uint64) (int, error) {
	var buf [MaxVarintLen]byte
	return write(w, AppendVarint(buf[:0], n))
}

// ReadVarint reads one varint. A source that ends before the terminating
// byte yields ErrUnexpectedEOF, even when nothing was read at all.
func ReadVarint(r io.Reader) (uint64, error) {
	var n uint64
	var shift uint
	for i := 0; i < MaxVarintLen; i++ {
		b, err := readByte(r)
		if err != nil {
			return 0, err
		}
		if i == MaxVarintLen-1 && b > 1 {
			return 0, errVarintOverflow
		}
		n |= uint64(b&0x7f) << shift
		if b < 0x80 {
			return n, nil
		}
		shift += 7
	}
	return 0, errVarintOverflow
}

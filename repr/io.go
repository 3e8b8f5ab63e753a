package repr

import (
	"errors"
	"io"
)

// readChunk bounds how much a length prefix may allocate before the
// source has proven it actually holds that many bytes.
const readChunk = 64 * 1024

func write(w io.Writer, p []byte) (int, error) {
	n, err := w.Write(p)
	if err != nil {
		return n, err
	}
	if n != len(p) {
		return n, io.ErrShortWrite
	}
	return n, nil
}

func writeByte(w io.Writer, b byte) (int, error) {
	if bw, ok := w.(io.ByteWriter); ok {
		if err := bw.WriteByte(b); err != nil {
			return 0, err
		}
		return 1, nil
	}
	return write(w, []byte{b})
}

func readFull(r io.Reader, buf []byte) error {
	if _, err := io.ReadFull(r, buf); err != nil {
		if errors.Is(err, io.EOF) {
			return ErrUnexpectedEOF
		}
		return err
	}
	return nil
}

func readByte(r io.Reader) (byte, error) {
	if br, ok := r.(io.ByteReader); ok {
		b, err := br.ReadByte()
		if errors.Is(err, io.EOF) {
			return 0, ErrUnexpectedEOF
		}
		return b, err
	}
	var buf [1]byte
	if err := readFull(r, buf[:]); err != nil {
		return 0, err
	}
	return buf[0], nil
}

// readN reads exactly n bytes into fresh storage. Small reads allocate
// once; large ones grow chunk by chunk so a lying prefix cannot force a
// huge allocation ahead of the data.
func readN(r io.Reader, n int) ([]byte, error) {
	if n <= readChunk {
		buf := make([]byte, n)
		if err := readFull(r, buf); err != nil {
			return nil, err
		}
		return buf, nil
	}
	buf := make([]byte, 0, readChunk)
	for len(buf) < n {
		step := min(n-len(buf), readChunk)
		if cap(buf)-len(buf) < step {
			grown := make([]byte, len(buf), min(2*cap(buf), n))
			copy(grown, buf)
			buf = grown
		}
		if err := readFull(r, buf[len(buf):len(buf)+step]); err != nil {
			return nil, err
		}
		buf = buf[:len(buf)+step]
	}
	return buf, nil
}

// readLen reads a varint length or count prefix as an int.
func readLen(r io.Reader) (int, error) {
	n, err := ReadVarint(r)
	if err != nil {
		return 0, err
	}
	if n > uint64(maxInt) {
		return 0, errLengthOverflow
	}
	return int(n), nil
}

const maxInt = int(^uint(0) >> 1)

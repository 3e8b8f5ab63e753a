// Package repr owns the binary value codec.
//
// Ownership boundary:
// - varint length/integer primitives
// - fixed-width scalar encodings (big-endian)
// - borrowed/owned views for text, bytes and sequences
// - container encodings (sequences, ordered maps, options, tuples)
// - the Codec contract every encodable type satisfies
//
// Wire summary:
//
//	varint      7 payload bits per byte, low group first, 0x80 = more follows
//	bool        0x00 / 0xFF (decode: any nonzero byte is true)
//	uintN/intN  big-endian, width-matched (signed as same-width unsigned)
//	int/uint    varint (int sign-extended to 64 bits, then unsigned)
//	float64     IEEE-754 bits as big-endian uint64
//	unit        zero bytes
//	text/bytes  varint(len) + raw bytes
//	sequence    varint(count) + elements
//	map         varint(count) + (key, value) pairs in ascending key order
//	option      0x00 | 0xFF + payload
//	tuple       components in order, no prefix
//
// Negative int values are never rejected: they travel as the ten-byte
// varint of their two's complement bit pattern.
//
// Nothing in this package logs. Malformed input surfaces as
// ErrUnexpectedEOF or ErrInvalidData; sink and source errors pass
// through unchanged.
package repr

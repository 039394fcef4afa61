package vpack

import "encoding/binary"

// CompactSize implements Bitcoin-style VarInt encoding per spec §4.1.
type CompactSize uint64

// Encode returns the canonical minimal-length encoding of c.
func (c CompactSize) Encode() []byte {
	n := uint64(c)
	switch {
	case n < 0xfd:
		return []byte{byte(n)}
	case n <= 0xffff:
		var b [3]byte
		b[0] = 0xfd
		binary.LittleEndian.PutUint16(b[1:], uint16(n))
		return b[:]
	case n <= 0xffffffff:
		var b [5]byte
		b[0] = 0xfe
		binary.LittleEndian.PutUint32(b[1:], uint32(n))
		return b[:]
	default:
		var b [9]byte
		b[0] = 0xff
		binary.LittleEndian.PutUint64(b[1:], n)
		return b[:]
	}
}

// DecodeCompactSize decodes the CompactSize at the start of b, returning the
// value and the number of bytes consumed. Non-minimal encodings are
// rejected with ErrNonCanonicalVarint (spec §4.1, §8).
func DecodeCompactSize(b []byte) (CompactSize, int, error) {
	if len(b) < 1 {
		return 0, 0, vperr(ErrPayloadTruncated, "compact size: empty input")
	}
	tag := b[0]
	switch {
	case tag < 0xfd:
		return CompactSize(tag), 1, nil
	case tag == 0xfd:
		if len(b) < 3 {
			return 0, 0, vperr(ErrPayloadTruncated, "compact size: truncated u16 form")
		}
		n := uint64(binary.LittleEndian.Uint16(b[1:3]))
		if n < 0xfd {
			return 0, 0, vperr(ErrNonCanonicalVarint, "u16 form used for value < 0xfd")
		}
		return CompactSize(n), 3, nil
	case tag == 0xfe:
		if len(b) < 5 {
			return 0, 0, vperr(ErrPayloadTruncated, "compact size: truncated u32 form")
		}
		n := uint64(binary.LittleEndian.Uint32(b[1:5]))
		if n <= 0xffff {
			return 0, 0, vperr(ErrNonCanonicalVarint, "u32 form used for value <= 0xffff")
		}
		return CompactSize(n), 5, nil
	default: // 0xff
		if len(b) < 9 {
			return 0, 0, vperr(ErrPayloadTruncated, "compact size: truncated u64 form")
		}
		n := binary.LittleEndian.Uint64(b[1:9])
		if n <= 0xffffffff {
			return 0, 0, vperr(ErrNonCanonicalVarint, "u64 form used for value <= 0xffffffff")
		}
		return CompactSize(n), 9, nil
	}
}

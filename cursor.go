package vpack

import "encoding/binary"

// cursor is a bounds-checked reader over a byte slice. Every read is
// explicitly checked against the remaining length; no slice index can
// panic on attacker-controlled input (spec §5: bounded memory).
type cursor struct {
	b   []byte
	pos int
}

func newCursor(b []byte) *cursor {
	return &cursor{b: b, pos: 0}
}

func (c *cursor) remaining() int {
	if c.pos >= len(c.b) {
		return 0
	}
	return len(c.b) - c.pos
}

func (c *cursor) readExact(n int) ([]byte, error) {
	if n < 0 || c.remaining() < n {
		return nil, vperr(ErrPayloadTruncated, "unexpected end of payload")
	}
	start := c.pos
	c.pos += n
	return c.b[start:c.pos], nil
}

func (c *cursor) readU8() (byte, error) {
	b, err := c.readExact(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

func (c *cursor) readU16LE() (uint16, error) {
	b, err := c.readExact(2)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(b), nil
}

func (c *cursor) readU32LE() (uint32, error) {
	b, err := c.readExact(4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

func (c *cursor) readU64LE() (uint64, error) {
	b, err := c.readExact(8)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(b), nil
}

// readCompactSize reads a CompactSize and advances past it.
func (c *cursor) readCompactSize() (uint64, error) {
	n, used, err := DecodeCompactSize(c.b[c.pos:])
	if err != nil {
		return 0, err
	}
	c.pos += used
	return uint64(n), nil
}

// readLenPrefixed reads a CompactSize length followed by that many bytes,
// bounded by the cursor's own remaining length (spec §4.1: the parser
// enforces an upper bound equal to payload_len - current_offset, which for
// a cursor sliced to the payload is simply "remaining").
func (c *cursor) readLenPrefixed() ([]byte, error) {
	n, err := c.readCompactSize()
	if err != nil {
		return nil, err
	}
	if n > uint64(c.remaining()) {
		return nil, vperr(ErrLengthPrefixOverflow, "declared length exceeds remaining payload")
	}
	raw, err := c.readExact(int(n))
	if err != nil {
		return nil, err
	}
	out := make([]byte, len(raw))
	copy(out, raw)
	return out, nil
}

// atEnd reports whether the cursor has consumed the entire buffer.
func (c *cursor) atEnd() bool {
	return c.pos == len(c.b)
}

func appendU16LE(dst []byte, v uint16) []byte {
	var b [2]byte
	binary.LittleEndian.PutUint16(b[:], v)
	return append(dst, b[:]...)
}

func appendU32LE(dst []byte, v uint32) []byte {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	return append(dst, b[:]...)
}

func appendU64LE(dst []byte, v uint64) []byte {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], v)
	return append(dst, b[:]...)
}

func appendLenPrefixed(dst []byte, b []byte) []byte {
	dst = append(dst, CompactSize(len(b)).Encode()...)
	return append(dst, b...)
}

package vpack

import "encoding/binary"

// Wire layout constants, spec §3 "Header fields".
const (
	HeaderSize = 24

	magicByte0 = 'V'
	magicByte1 = 'P'
	magicByte2 = 'K'

	currentVersion = 0x01

	// VariantChain is Variant 0x03, the recursive chain topology whose
	// identity is an OutPoint (spec §4.5.1, GLOSSARY).
	VariantChain byte = 0x03
	// VariantTree is Variant 0x04, the fanned-out tree topology whose
	// identity is a 32-byte hash (spec §4.5.2, GLOSSARY).
	VariantTree byte = 0x04

	// Flag bits within header byte 3.
	flagLZ4     byte = 1 << 0
	flagTestnet byte = 1 << 1 // SPEC_FULL.md Open Question 1.
	flagCompact byte = 1 << 2
	flagAssetID byte = 1 << 3

	// FlagTestnet is flagTestnet exported for callers (e.g. the adapter
	// package) that build a Header directly from ingredients rather than
	// parsing wire bytes, spec §6 "export_to_vpack(ingredient_json,
	// is_testnet: bool)".
	FlagTestnet = flagTestnet

	// AssetType values (header bytes 12..16), spec §3.
	AssetTypeBTC     uint32 = 0
	AssetTypeTaproot uint32 = 1
	AssetTypeRGB     uint32 = 2

	// DoS-protection hard limits (spec §5 "bounded reader"; exact values
	// per original_source/src/header.rs MAX_TREE_DEPTH/MAX_TREE_ARITY/
	// MAX_PAYLOAD_SIZE).
	maxTreeDepth   uint16 = 32
	maxTreeArity   uint16 = 16
	minTreeArity   uint16 = 2
	maxPayloadSize uint32 = 1 << 20 // 1 MiB hard cap
)

// Header is the 24-byte fixed-layout V-PACK header, spec §3/§4.2.
type Header struct {
	Flags      byte
	Version    byte
	TxVariant  byte
	TreeArity  uint16
	TreeDepth  uint16
	NodeCount  uint16
	AssetType  uint32
	PayloadLen uint32
	Checksum   uint32
}

// IsLZ4 reports whether the LZ4-compression flag bit is set.
func (h Header) IsLZ4() bool { return h.Flags&flagLZ4 != 0 }

// IsTestnet reports whether the testnet flag bit is set.
func (h Header) IsTestnet() bool { return h.Flags&flagTestnet != 0 }

// IsCompact reports whether sibling nodes use the compact
// {hash,value,script} wire form rather than full TxOuts.
func (h Header) IsCompact() bool { return h.Flags&flagCompact != 0 }

// HasAssetID reports whether a 32-byte asset ID follows the header.
func (h Header) HasAssetID() bool { return h.Flags&flagAssetID != 0 }

// fieldsForChecksum returns header bytes 0..20 (everything but the
// checksum field itself), the input to the CRC32 per spec §4.1.
func (h Header) fieldsForChecksum() []byte {
	buf := make([]byte, 0, 20)
	buf = append(buf, magicByte0, magicByte1, magicByte2)
	buf = append(buf, h.Flags, h.Version, h.TxVariant)
	buf = appendU16LE(buf, h.TreeArity)
	buf = appendU16LE(buf, h.TreeDepth)
	buf = appendU16LE(buf, h.NodeCount)
	buf = appendU32LE(buf, h.AssetType)
	buf = appendU32LE(buf, h.PayloadLen)
	return buf
}

// Encode serializes h to its 24-byte wire form, recomputing Checksum over
// the header fields plus payload.
func (h Header) Encode(payload []byte) []byte {
	h.PayloadLen = uint32(len(payload))
	fields := h.fieldsForChecksum()
	h.Checksum = checksumIEEE(fields, payload)
	out := make([]byte, 0, HeaderSize)
	out = append(out, fields...)
	out = appendU32LE(out, h.Checksum)
	return out
}

// decodeHeader parses and validates the 24-byte header at the start of b.
func decodeHeader(b []byte) (Header, error) {
	var h Header
	if len(b) < HeaderSize {
		return h, vperr(ErrMalformedHeader, "input shorter than header size")
	}
	if b[0] != magicByte0 || b[1] != magicByte1 || b[2] != magicByte2 {
		return h, vperr(ErrMalformedHeader, "bad magic bytes")
	}
	h.Flags = b[3]
	h.Version = b[4]
	if h.Version != currentVersion {
		return h, vperrf(ErrMalformedHeader, "unsupported version %#x", h.Version)
	}
	h.TxVariant = b[5]
	if h.TxVariant != VariantChain && h.TxVariant != VariantTree {
		return h, vperrf(ErrMalformedHeader, "unsupported tx variant %#x", h.TxVariant)
	}
	h.TreeArity = binary.LittleEndian.Uint16(b[6:8])
	h.TreeDepth = binary.LittleEndian.Uint16(b[8:10])
	h.NodeCount = binary.LittleEndian.Uint16(b[10:12])
	h.AssetType = binary.LittleEndian.Uint32(b[12:16])
	h.PayloadLen = binary.LittleEndian.Uint32(b[16:20])
	h.Checksum = binary.LittleEndian.Uint32(b[20:24])

	if h.TreeArity < minTreeArity || h.TreeArity > maxTreeArity {
		return h, vperrf(ErrArityViolation, "tree_arity %d out of range [%d,%d]", h.TreeArity, minTreeArity, maxTreeArity)
	}
	if h.TreeDepth > maxTreeDepth {
		return h, vperrf(ErrDepthExceeded, "tree_depth %d exceeds limit %d", h.TreeDepth, maxTreeDepth)
	}

	if h.PayloadLen == 0 {
		return h, vperr(ErrMalformedHeader, "payload_len must be nonzero")
	}
	if h.PayloadLen > maxPayloadSize {
		return h, vperrf(ErrMalformedHeader, "payload_len %d exceeds max payload size %d", h.PayloadLen, maxPayloadSize)
	}
	if uint64(h.PayloadLen)+HeaderSize > uint64(len(b)) {
		return h, vperr(ErrPayloadTruncated, "declared payload_len exceeds input length")
	}
	if uint64(h.PayloadLen)+HeaderSize < uint64(len(b)) {
		return h, vperr(ErrTrailingBytes, "bytes remain after declared payload")
	}

	payload := b[HeaderSize : HeaderSize+int(h.PayloadLen)]
	fields := h.fieldsForChecksum()
	got := checksumIEEE(fields, payload)
	if got != h.Checksum {
		return h, vperrf(ErrChecksumMismatch, "expected %08x, computed %08x", h.Checksum, got)
	}
	return h, nil
}

// HeaderInfo is the summary returned by ParseHeaderBytes (spec §6).
type HeaderInfo struct {
	AnchorTxid string // display-form hex
	AnchorVout uint32
	TxVariant  byte
	IsTestnet  bool
}

// ParseHeaderBytes decodes the whole V-PACK blob (header, prefix and tree
// section, via DecodeContainer) and reports the anchor outpoint, variant,
// and testnet flag (spec §6 parse_header).
func ParseHeaderBytes(b []byte) (HeaderInfo, error) {
	c, err := DecodeContainer(b)
	if err != nil {
		return HeaderInfo{}, err
	}
	return HeaderInfo{
		AnchorTxid: displayHex(c.Anchor().Hash),
		AnchorVout: c.Anchor().Vout,
		TxVariant:  c.Header.TxVariant,
		IsTestnet:  c.Header.IsTestnet(),
	}, nil
}

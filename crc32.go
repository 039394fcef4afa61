package vpack

import "hash/crc32"

// checksumIEEE computes the IEEE 802.3 CRC32 over headerFields (bytes 0..20
// of the header, i.e. everything up to but excluding the checksum field)
// concatenated with payload, per spec §4.1/§4.2.
//
// hash/crc32's IEEE table already matches the reference algorithm exactly
// (poly 0xEDB88320, init 0xFFFFFFFF, final XOR 0xFFFFFFFF, reflected
// input/output) — there is no project-specific variant to diverge from, and
// no third-party CRC32 package appears anywhere in the example pack, so the
// standard library is the grounded choice here.
func checksumIEEE(headerFields, payload []byte) uint32 {
	h := crc32.NewIEEE()
	h.Write(headerFields)
	h.Write(payload)
	return h.Sum32()
}

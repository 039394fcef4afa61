package vpack

import "testing"

func TestDisplayHexRoundTrip(t *testing.T) {
	h := doubleSHA256([]byte("vpack test vector"))
	s := displayHex(h)
	back, err := parseDisplayHex(s)
	if err != nil {
		t.Fatalf("parseDisplayHex: %v", err)
	}
	if back != h {
		t.Errorf("round trip mismatch: got %x, want %x", back, h)
	}
}

func TestDisplayHexIsByteReversed(t *testing.T) {
	var h [32]byte
	h[0] = 0xaa
	h[31] = 0xbb
	s := displayHex(h)
	if s[0:2] != "bb" {
		t.Errorf("display hex should start with the last internal byte, got %s", s[0:2])
	}
	if s[len(s)-2:] != "aa" {
		t.Errorf("display hex should end with the first internal byte, got %s", s[len(s)-2:])
	}
}

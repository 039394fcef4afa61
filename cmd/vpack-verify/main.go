// Command vpack-verify decodes and verifies a V-PACK file or JSON
// ingredient document from the command line, mirroring the teacher's
// cmd/rubin-consensus-cli: a thin flag-driven wrapper with no logging
// framework of its own.
package main

import (
	"encoding/hex"
	"flag"
	"fmt"
	"os"

	"github.com/jgmcalpine/vpack"
	"github.com/jgmcalpine/vpack/adapter"
)

func main() {
	var (
		path      = flag.String("file", "", "path to a .vpk file or ingredient .json document")
		jsonMode  = flag.Bool("json", false, "treat -file as an ingredient JSON document rather than a .vpk blob")
		expectHex = flag.String("expect", "", "expected vtxo id (hex hash for Tree variant, txid:vout for Chain variant)")
	)
	flag.Parse()

	if *path == "" {
		fmt.Fprintln(os.Stderr, "usage: vpack-verify -file <path> [-json] [-expect <id>]")
		os.Exit(2)
	}

	raw, err := os.ReadFile(*path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "vpack-verify: %v\n", err)
		os.Exit(1)
	}

	if *jsonMode {
		verdict, err := adapter.VerifyJSON(raw)
		report(verdict.Valid, verdict.Identity.String(), err)
		return
	}

	c, err := vpack.DecodeContainer(raw)
	if err != nil {
		fmt.Fprintf(os.Stderr, "vpack-verify: decode failed: %v\n", err)
		os.Exit(1)
	}

	opts := vpack.VerifyOpts{}
	if *expectHex != "" {
		expected, err := parseExpectedFlag(*expectHex, c.Header.TxVariant)
		if err != nil {
			fmt.Fprintf(os.Stderr, "vpack-verify: %v\n", err)
			os.Exit(2)
		}
		opts.ExpectedID = &expected
	}

	verdict, err := vpack.Verify(c, opts)
	report(verdict.Valid, verdict.Identity.String(), err)
}

func parseExpectedFlag(s string, variant byte) (vpack.VtxoId, error) {
	if variant == vpack.VariantTree {
		h, err := parseHashHex(s)
		if err != nil {
			return vpack.VtxoId{}, err
		}
		return vpack.VtxoId{Kind: vpack.VtxoIdHash, Hash: h}, nil
	}

	sep := -1
	for i := len(s) - 1; i >= 0; i-- {
		if s[i] == ':' {
			sep = i
			break
		}
	}
	if sep < 0 {
		return vpack.VtxoId{}, fmt.Errorf("-expect must be txid:vout for a Chain variant file")
	}
	h, err := parseHashHex(s[:sep])
	if err != nil {
		return vpack.VtxoId{}, err
	}
	var vout uint32
	if _, err := fmt.Sscanf(s[sep+1:], "%d", &vout); err != nil {
		return vpack.VtxoId{}, fmt.Errorf("-expect has a malformed vout: %v", err)
	}
	return vpack.VtxoId{Kind: vpack.VtxoIdOutPoint, OutPoint: vpack.OutPoint{Hash: h, Vout: vout}}, nil
}

// parseHashHex decodes a display-form (byte-reversed) 32-byte hex string
// into internal wire byte order, matching vpack's own display convention.
func parseHashHex(s string) ([32]byte, error) {
	var out [32]byte
	raw, err := hex.DecodeString(s)
	if err != nil || len(raw) != 32 {
		return out, fmt.Errorf("expected 32-byte hex, got %q", s)
	}
	for i := range raw {
		out[31-i] = raw[i]
	}
	return out, nil
}

func report(valid bool, identity string, err error) {
	if err != nil {
		if code, ok := vpack.CodeOf(err); ok {
			fmt.Fprintf(os.Stderr, "vpack-verify: %s\n", code)
		} else {
			fmt.Fprintf(os.Stderr, "vpack-verify: %v\n", err)
		}
		os.Exit(1)
	}
	fmt.Printf("valid: %v\nidentity: %s\n", valid, identity)
}

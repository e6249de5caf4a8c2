//go:build go1.18

package domain

import (
	"strings"
	"testing"
)

// FuzzParseMetadataHash verifies the mint-time trust boundary never panics
// and that accepted values round-trip and satisfy the format invariants.
func FuzzParseMetadataHash(f *testing.F) {
	f.Add("")
	f.Add("QmYwAPJzv5CZsnA625s3Xf2nemtYgPpHdWEz79ojWnPbdG")
	f.Add("Qm" + strings.Repeat("1", 44))
	f.Add(strings.Repeat("Q", 46))
	f.Add("'; DROP TABLE assets;--")
	f.Add(string([]byte{0x00, 0x01, 0x02}))

	f.Fuzz(func(t *testing.T, input string) {
		h, err := ParseMetadataHash(input)
		if err != nil {
			return
		}
		if len(h.String()) != MetadataHashLen {
			t.Errorf("accepted hash with length %d", len(h.String()))
		}
		if !strings.HasPrefix(h.String(), "Qm") {
			t.Error("accepted hash without Qm prefix")
		}
		roundTrip, err := ParseMetadataHash(h.String())
		if err != nil || roundTrip != h {
			t.Error("accepted hash failed round-trip")
		}
	})
}

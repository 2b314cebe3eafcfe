package hash

import (
	"fmt"
	"strconv"

	"github.com/cespare/xxhash/v2"
)

// Fingerprint computes the xxHash64 of an ordered list of names.
//
// Each name is length-prefixed so that ["ab", "c"] and ["a", "bc"] differ.
func Fingerprint(names []string) uint64 {
	d := xxhash.New()
	var buf [20]byte
	for _, n := range names {
		_, _ = d.Write(strconv.AppendInt(buf[:0], int64(len(n)), 10))
		_, _ = d.WriteString(":")
		_, _ = d.WriteString(n)
	}
	return d.Sum64()
}

// FingerprintString returns the fingerprint as a fixed-width hex string.
func FingerprintString(names []string) string {
	return fmt.Sprintf("%016x", Fingerprint(names))
}

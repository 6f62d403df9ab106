package schedq

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// SlotPath converts a slot key into a filesystem-safe path fragment.
// Sanitizing alone can collapse two distinct keys into the same string,
// so a hash of the raw key is appended to keep paths collision-free.
// The result is deterministic: the same key always yields the same path.
func SlotPath(slot string) string {
	var b strings.Builder
	b.Grow(len(slot) + 1 + sha256.Size*2)
	for i := 0; i < len(slot); i++ {
		c := slot[i]
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
			b.WriteByte(c)
		case c == '-' || c == '.' || c == '_':
			b.WriteByte(c)
		default:
			b.WriteByte('_')
		}
	}
	sum := sha256.Sum256([]byte(slot))
	b.WriteByte('-')
	b.WriteString(hex.EncodeToString(sum[:]))
	return b.String()
}

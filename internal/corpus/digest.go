package corpus

import (
	"encoding/hex"
	"slices"

	"github.com/zeebo/blake3"
)

// Digest fingerprints corpus data with BLAKE3. Entries are hashed in key
// order, so two mappings with the same content always share a digest.
func Digest(data map[string]string) string {
	keys := make([]string, 0, len(data))
	for key := range data {
		keys = append(keys, key)
	}
	slices.Sort(keys)

	h := blake3.New()
	for _, key := range keys {
		_, _ = h.Write([]byte(key))
		_, _ = h.Write([]byte{0})
		_, _ = h.Write([]byte(data[key]))
		_, _ = h.Write([]byte{'\n'})
	}
	return hex.EncodeToString(h.Sum(nil))
}

// Digest returns the fingerprint of the indexed data.
func (i *Index) Digest() string {
	return i.digest
}

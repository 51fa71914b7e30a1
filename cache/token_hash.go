package cache

import (
	"crypto/sha256"
	"encoding/hex"
)

// HashToken reduces a token to a fixed-size cache key. Storing hashes rather
// than raw token values also keeps bearer credentials out of the cache backend.
func HashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

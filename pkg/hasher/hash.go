package hasher

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
)

// Hash returns the hex SHA-256 of s.
func Hash(s string) string {
	return SumBytes([]byte(s))
}

func Verify(s, hash string) bool {
	return Hash(s) == hash
}

// SumBytes is Hash for a byte slice.
func SumBytes(b []byte) string {
	h := sha256.Sum256(b)
	return hex.EncodeToString(h[:])
}

// ETag returns a strong HTTP entity tag for the JSON encoding of v.
func ETag(v any) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return `"` + SumBytes(b)[:32] + `"`, nil
}

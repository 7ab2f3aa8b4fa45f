package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"unicode"
)

// ContentHash fingerprints posting text so that copies differing only in
// whitespace or letter case collapse to the same value.
type ContentHash string

// ComputeContentHash removes all whitespace and control characters, lowercases
// the rest and returns the hex SHA-256 digest.
func ComputeContentHash(text string) ContentHash {
	normalized := strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) || unicode.IsControl(r) {
			return -1
		}
		return r
	}, strings.ToLower(text))

	sum := sha256.Sum256([]byte(normalized))
	return ContentHash(hex.EncodeToString(sum[:]))
}

func (h ContentHash) String() string { return string(h) }

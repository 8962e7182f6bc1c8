// Package hashing derives registry data hashes from raw verification payloads.
//
// A data hash is the legacy Keccak-256 digest of the payload's compact JSON
// text as sent. Only insignificant whitespace is removed: number literals,
// string escapes and key order are hashed verbatim, so the digest equals
// keccak256(JSON.stringify(data)) only when the client sent that same text.
package hashing

import (
	"bytes"
	"encoding/json"
	"fmt"

	"golang.org/x/crypto/sha3"

	"trustlink/pkg/domain"
)

// Keccak256 returns the legacy (pre-NIST padding) Keccak-256 digest of data.
func Keccak256(data []byte) domain.DataHash {
	h := sha3.NewLegacyKeccak256()
	h.Write(data) //nolint:errcheck // hash.Hash never returns an error
	var out domain.DataHash
	copy(out[:], h.Sum(nil))
	return out
}

// HashJSON hashes raw JSON after removing insignificant whitespace. Nothing
// else is normalized, so a client hashing the same compact text gets the same
// digest.
func HashJSON(raw []byte) (domain.DataHash, error) {
	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		return domain.ZeroHash, fmt.Errorf("compact payload: %w", err)
	}
	return Keccak256(buf.Bytes()), nil
}

package domain

import (
	"encoding/hex"
	"strings"

	dErrors "trustlink/pkg/domain-errors"
)

// DataHashLength is the byte length of a stored digest.
const DataHashLength = 32

// DataHash is an opaque 32-byte digest. The registry never inspects it.
type DataHash [DataHashLength]byte

// ZeroHash is returned by reads that find nothing.
var ZeroHash DataHash

// ParseDataHash parses a 0x-prefixed (or bare) 64 character hex digest.
func ParseDataHash(s string) (DataHash, error) {
	var h DataHash
	raw := strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
	if raw == "" {
		return h, dErrors.New(dErrors.CodeInvalidInput, "data hash cannot be empty")
	}
	if len(raw) != DataHashLength*2 {
		return h, dErrors.New(dErrors.CodeInvalidInput, "data hash must be 32 bytes")
	}
	if _, err := hex.Decode(h[:], []byte(raw)); err != nil {
		return DataHash{}, dErrors.New(dErrors.CodeInvalidInput, "invalid data hash format")
	}
	return h, nil
}

// DataHashFromBytes copies b into a DataHash. b must be exactly 32 bytes.
func DataHashFromBytes(b []byte) (DataHash, error) {
	var h DataHash
	if len(b) != DataHashLength {
		return h, dErrors.New(dErrors.CodeInvalidInput, "data hash must be 32 bytes")
	}
	copy(h[:], b)
	return h, nil
}

func (h DataHash) String() string { return "0x" + hex.EncodeToString(h[:]) }

func (h DataHash) IsZero() bool { return h == ZeroHash }

func (h DataHash) MarshalText() ([]byte, error) { return []byte(h.String()), nil }

func (h *DataHash) UnmarshalText(text []byte) error {
	parsed, err := ParseDataHash(string(text))
	if err != nil {
		return err
	}
	*h = parsed
	return nil
}

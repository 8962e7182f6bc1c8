// Package domain provides type-safe identifiers and value types shared across
// modules. Values are parsed once at trust boundaries (handlers, token claims)
// and passed around in their typed form afterwards.
package domain

import (
	"encoding/hex"
	"strings"

	dErrors "trustlink/pkg/domain-errors"
)

// PrincipalLength is the byte length of an account address.
const PrincipalLength = 20

// Principal identifies a calling actor. It is a 20-byte account address,
// rendered as 0x-prefixed lowercase hex.
type Principal [PrincipalLength]byte

// ParsePrincipal parses a 0x-prefixed hex address. Hex digits are accepted in
// either case; the canonical form is lowercase.
func ParsePrincipal(s string) (Principal, error) {
	var p Principal
	if s == "" {
		return p, dErrors.New(dErrors.CodeInvalidInput, "principal cannot be empty")
	}
	raw, ok := strings.CutPrefix(s, "0x")
	if !ok {
		raw, ok = strings.CutPrefix(s, "0X")
	}
	if !ok || len(raw) != PrincipalLength*2 {
		return p, dErrors.New(dErrors.CodeInvalidInput, "invalid principal format")
	}
	if _, err := hex.Decode(p[:], []byte(raw)); err != nil {
		return Principal{}, dErrors.New(dErrors.CodeInvalidInput, "invalid principal format")
	}
	return p, nil
}

func (p Principal) String() string { return "0x" + hex.EncodeToString(p[:]) }

// IsZero reports whether p is the zero address. The zero address never
// identifies a caller.
func (p Principal) IsZero() bool { return p == Principal{} }

func (p Principal) MarshalText() ([]byte, error) { return []byte(p.String()), nil }

func (p *Principal) UnmarshalText(text []byte) error {
	parsed, err := ParsePrincipal(string(text))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"trustlink/pkg/domain"
	dErrors "trustlink/pkg/domain-errors"
)

// VerificationType is the fixed category code of a registry entry.
type VerificationType uint8

const (
	TypeIdentity VerificationType = iota
	TypeAddress
	TypeDevice
	TypeEmail
	TypeCommunity
	TypeTrustScore
	// TypeDocument is the legacy single-hash slot, written only through StoreHash.
	TypeDocument
)

const (
	// PrimaryTypeCount is the number of types counted towards completion.
	PrimaryTypeCount = 6
	// TypeCount includes the legacy document slot.
	TypeCount = 7
)

var typeNames = [TypeCount]string{
	"identity",
	"address",
	"device",
	"email",
	"community",
	"trust-score",
	"document",
}

// String returns the URL slug for known types and "type(n)" otherwise.
func (t VerificationType) String() string {
	if t.IsKnown() {
		return typeNames[t]
	}
	return fmt.Sprintf("type(%d)", uint8(t))
}

// IsStorable reports whether StoreVerification accepts t.
func (t VerificationType) IsStorable() bool { return t < PrimaryTypeCount }

// IsKnown reports whether t names a registry slot (including the legacy one).
func (t VerificationType) IsKnown() bool { return t < TypeCount }

// ParseKind maps a URL slug to one of the six primary types.
func ParseKind(slug string) (VerificationType, bool) {
	for i := range PrimaryTypeCount {
		if typeNames[i] == slug {
			return VerificationType(i), true
		}
	}
	return 0, false
}

// MarshalJSON writes the numeric code so []VerificationType encodes as a
// number array rather than base64.
func (t VerificationType) MarshalJSON() ([]byte, error) {
	return strconv.AppendUint(nil, uint64(t), 10), nil
}

func (t *VerificationType) UnmarshalJSON(b []byte) error {
	var n uint8
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("verification type: %w", err)
	}
	*t = VerificationType(n)
	return nil
}

// AllTypes lists every slot in ascending order.
func AllTypes() []VerificationType {
	out := make([]VerificationType, TypeCount)
	for i := range out {
		out[i] = VerificationType(i)
	}
	return out
}

// ErrInvalidVerificationType is matched with errors.Is on write failures.
var ErrInvalidVerificationType = errors.New("invalid verification type")

// NewInvalidVerificationTypeError returns the client-facing write rejection.
func NewInvalidVerificationTypeError() error {
	return dErrors.Wrap(ErrInvalidVerificationType, dErrors.CodeInvalidInput, "invalid verification type")
}

// Entry is a single (principal, type) slot. The zero Entry reads as
// "never written".
type Entry struct {
	DataHash  domain.DataHash
	Timestamp uint64
	IsActive  bool
}

// Document is the legacy type-6 view of an entry.
type Document struct {
	DataHash  domain.DataHash
	Timestamp uint64
}

// DocumentRecord is one row of the full-registry legacy enumeration.
type DocumentRecord struct {
	Principal domain.Principal
	DataHash  domain.DataHash
	Timestamp uint64
}

// AllVerifications holds parallel slices over a principal's active types,
// ascending. Statuses is always all true.
type AllVerifications struct {
	Types      []VerificationType
	Hashes     []domain.DataHash
	Timestamps []uint64
	Statuses   []bool
}

// VerificationStatus reports the active flag of the six primary types.
type VerificationStatus struct {
	Identity   bool `json:"identity"`
	Address    bool `json:"address"`
	Device     bool `json:"device"`
	Email      bool `json:"email"`
	Community  bool `json:"community"`
	TrustScore bool `json:"trust_score"`
}

// StoredDocuments holds parallel slices in ledger order.
type StoredDocuments struct {
	Principals []domain.Principal
	Hashes     []domain.DataHash
	Timestamps []uint64
}

// Completion returns active*100/6 truncated, counting primary types only.
func Completion(entries [TypeCount]Entry) uint8 {
	active := 0
	for t := range PrimaryTypeCount {
		if entries[t].IsActive {
			active++
		}
	}
	return uint8(active * 100 / PrimaryTypeCount)
}

// Status projects the primary types' active flags.
func Status(entries [TypeCount]Entry) VerificationStatus {
	return VerificationStatus{
		Identity:   entries[TypeIdentity].IsActive,
		Address:    entries[TypeAddress].IsActive,
		Device:     entries[TypeDevice].IsActive,
		Email:      entries[TypeEmail].IsActive,
		Community:  entries[TypeCommunity].IsActive,
		TrustScore: entries[TypeTrustScore].IsActive,
	}
}

// CollectActive builds the bulk view over active slots in ascending type order.
func CollectActive(entries [TypeCount]Entry) AllVerifications {
	var out AllVerifications
	for t, e := range entries {
		if !e.IsActive {
			continue
		}
		out.Types = append(out.Types, VerificationType(t))
		out.Hashes = append(out.Hashes, e.DataHash)
		out.Timestamps = append(out.Timestamps, e.Timestamp)
		out.Statuses = append(out.Statuses, true)
	}
	return out
}

// HasAnyActive scans all seven slots.
func HasAnyActive(entries [TypeCount]Entry) bool {
	for _, e := range entries {
		if e.IsActive {
			return true
		}
	}
	return false
}

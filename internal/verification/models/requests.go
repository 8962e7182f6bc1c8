package models

import (
	"encoding/json"

	"trustlink/pkg/domain"
	dErrors "trustlink/pkg/domain-errors"
	"trustlink/pkg/platform/hashing"
)

// StoreRequest carries either a precomputed hash or the raw payload to hash.
// Timestamp defaults to the request time when omitted.
type StoreRequest struct {
	DataHash  *domain.DataHash `json:"data_hash,omitempty"`
	Data      json.RawMessage  `json:"data,omitempty"`
	Timestamp *uint64          `json:"timestamp,omitempty"`
}

func (r *StoreRequest) Validate() error {
	hasHash := r.DataHash != nil
	hasData := len(r.Data) > 0 && string(r.Data) != "null"
	if hasHash == hasData {
		return dErrors.New(dErrors.CodeValidation, "exactly one of data_hash or data is required")
	}
	return nil
}

// ResolveHash returns the supplied hash or the Keccak-256 of the payload.
func (r *StoreRequest) ResolveHash() (domain.DataHash, error) {
	if r.DataHash != nil {
		return *r.DataHash, nil
	}
	h, err := hashing.HashJSON(r.Data)
	if err != nil {
		return domain.ZeroHash, dErrors.Wrap(err, dErrors.CodeValidation, "data is not valid JSON")
	}
	return h, nil
}

// ResolveTimestamp returns the supplied timestamp or fallback.
func (r *StoreRequest) ResolveTimestamp(fallback uint64) uint64 {
	if r.Timestamp != nil {
		return *r.Timestamp
	}
	return fallback
}

// TypedStoreRequest is the generic store call with an explicit type code.
type TypedStoreRequest struct {
	Type *int `json:"type"`
	StoreRequest
}

func (r *TypedStoreRequest) Validate() error {
	if r.Type == nil {
		return dErrors.New(dErrors.CodeValidation, "type is required")
	}
	return r.StoreRequest.Validate()
}

// VerificationType narrows the wire code; anything outside uint8 is rejected
// the same way as any other unstorable code.
func (r *TypedStoreRequest) VerificationType() (VerificationType, error) {
	if *r.Type < 0 || *r.Type > 255 {
		return 0, NewInvalidVerificationTypeError()
	}
	return VerificationType(*r.Type), nil
}

// VerifyDocumentRequest asks whether the caller's legacy slot matches.
type VerifyDocumentRequest struct {
	DataHash  *domain.DataHash `json:"data_hash,omitempty"`
	Data      json.RawMessage  `json:"data,omitempty"`
	Timestamp *uint64          `json:"timestamp"`
}

func (r *VerifyDocumentRequest) Validate() error {
	if r.Timestamp == nil {
		return dErrors.New(dErrors.CodeValidation, "timestamp is required")
	}
	probe := StoreRequest{DataHash: r.DataHash, Data: r.Data}
	return probe.Validate()
}

func (r *VerifyDocumentRequest) ResolveHash() (domain.DataHash, error) {
	probe := StoreRequest{DataHash: r.DataHash, Data: r.Data}
	return probe.ResolveHash()
}

package models

import "trustlink/pkg/domain"

type EntryResponse struct {
	Principal        domain.Principal `json:"principal"`
	VerificationType VerificationType `json:"verification_type"`
	Kind             string           `json:"kind"`
	DataHash         domain.DataHash  `json:"data_hash"`
	Timestamp        uint64           `json:"timestamp"`
	IsActive         bool             `json:"is_active"`
}

type StoreResponse struct {
	Principal        domain.Principal `json:"principal"`
	VerificationType VerificationType `json:"verification_type"`
	DataHash         domain.DataHash  `json:"data_hash"`
	Timestamp        uint64           `json:"timestamp"`
}

type AllVerificationsResponse struct {
	Principal  domain.Principal   `json:"principal"`
	Types      []VerificationType `json:"types"`
	Hashes     []domain.DataHash  `json:"hashes"`
	Timestamps []uint64           `json:"timestamps"`
	Statuses   []bool             `json:"statuses"`
}

// NewAllVerificationsResponse renders nil slices as empty JSON arrays.
func NewAllVerificationsResponse(p domain.Principal, all AllVerifications) AllVerificationsResponse {
	return AllVerificationsResponse{
		Principal:  p,
		Types:      nonNil(all.Types),
		Hashes:     nonNil(all.Hashes),
		Timestamps: nonNil(all.Timestamps),
		Statuses:   nonNil(all.Statuses),
	}
}

type ExistsResponse struct {
	Exists bool `json:"exists"`
}

type StatusResponse struct {
	Principal domain.Principal `json:"principal"`
	VerificationStatus
}

type CompletionResponse struct {
	Principal  domain.Principal `json:"principal"`
	Percentage uint8            `json:"percentage"`
}

type TotalUsersResponse struct {
	TotalUsers uint64 `json:"total_users"`
}

type TimestampResponse struct {
	Timestamp uint64 `json:"timestamp"`
}

type DocumentResponse struct {
	DataHash  domain.DataHash `json:"data_hash"`
	Timestamp uint64          `json:"timestamp"`
}

type VerifyDocumentResponse struct {
	Valid bool `json:"valid"`
}

type StoredDocumentsResponse struct {
	Principals []domain.Principal `json:"principals"`
	Hashes     []domain.DataHash  `json:"hashes"`
	Timestamps []uint64           `json:"timestamps"`
}

func NewStoredDocumentsResponse(docs StoredDocuments) StoredDocumentsResponse {
	return StoredDocumentsResponse{
		Principals: nonNil(docs.Principals),
		Hashes:     nonNil(docs.Hashes),
		Timestamps: nonNil(docs.Timestamps),
	}
}

type TypeInfo struct {
	Code      VerificationType `json:"code"`
	Kind      string           `json:"kind"`
	Storable  bool             `json:"storable"`
	Countable bool             `json:"counts_towards_completion"`
}

// Catalogue describes every slot for clients.
func Catalogue() []TypeInfo {
	out := make([]TypeInfo, 0, TypeCount)
	for _, t := range AllTypes() {
		out = append(out, TypeInfo{Code: t, Kind: t.String(), Storable: t.IsStorable(), Countable: t.IsStorable()})
	}
	return out
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

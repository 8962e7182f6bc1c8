package service

import (
	"context"

	"trustlink/internal/verification/models"
	"trustlink/internal/verification/tracer"
	"trustlink/pkg/domain"
)

// HashDocument returns the caller's legacy document if its slot is active,
// the zero Document otherwise.
func (s *Service) HashDocument(ctx context.Context) (models.Document, error) {
	caller, err := callerFrom(ctx)
	if err != nil {
		return models.Document{}, err
	}
	s.metrics.IncrementReads("hash_document")
	entry, err := s.readEntry(ctx, tracer.SpanHashDocument, caller, models.TypeDocument)
	if err != nil {
		return models.Document{}, err
	}
	if !entry.IsActive {
		return models.Document{}, nil
	}
	return models.Document{DataHash: entry.DataHash, Timestamp: entry.Timestamp}, nil
}

// VerifyDocument reports whether the caller's active legacy document matches
// both hash and timestamp exactly.
func (s *Service) VerifyDocument(ctx context.Context, hash domain.DataHash, timestamp uint64) (bool, error) {
	caller, err := callerFrom(ctx)
	if err != nil {
		return false, err
	}
	s.metrics.IncrementReads("verify_document")
	entry, err := s.readEntry(ctx, tracer.SpanVerifyDoc, caller, models.TypeDocument)
	if err != nil {
		return false, err
	}
	return entry.IsActive && entry.DataHash == hash && entry.Timestamp == timestamp, nil
}

func (s *Service) GetMyVerification(ctx context.Context, vtype models.VerificationType) (models.Entry, error) {
	caller, err := callerFrom(ctx)
	if err != nil {
		return models.Entry{}, err
	}
	return s.GetUserVerification(ctx, caller, vtype)
}

// GetUserVerification returns the raw slot. Unknown types read as the zero
// Entry rather than failing.
func (s *Service) GetUserVerification(ctx context.Context, principal domain.Principal, vtype models.VerificationType) (models.Entry, error) {
	s.metrics.IncrementReads("get_verification")
	if !vtype.IsKnown() {
		return models.Entry{}, nil
	}
	return s.readEntry(ctx, tracer.SpanRead, principal, vtype)
}

func (s *Service) HasVerification(ctx context.Context, principal domain.Principal, vtype models.VerificationType) (bool, error) {
	s.metrics.IncrementReads("has_verification")
	if !vtype.IsKnown() {
		return false, nil
	}
	entry, err := s.readEntry(ctx, tracer.SpanHasEntry, principal, vtype)
	if err != nil {
		return false, err
	}
	return entry.IsActive, nil
}

func (s *Service) GetMyAllVerifications(ctx context.Context) (models.AllVerifications, error) {
	caller, err := callerFrom(ctx)
	if err != nil {
		return models.AllVerifications{}, err
	}
	return s.GetUserAllVerifications(ctx, caller)
}

// GetUserAllVerifications lists the active slots in ascending type order.
func (s *Service) GetUserAllVerifications(ctx context.Context, principal domain.Principal) (out models.AllVerifications, err error) {
	s.metrics.IncrementReads("get_all_verifications")
	ctx, span := s.tracer.Start(ctx, tracer.SpanReadAll, tracer.String(tracer.AttrPrincipal, principal.String()))
	defer func() { span.End(err) }()

	entries, err := s.listEntries(ctx, principal)
	if err != nil {
		return models.AllVerifications{}, err
	}
	out = models.CollectActive(entries)
	span.SetAttributes(tracer.Int64(tracer.AttrCount, int64(len(out.Types))))
	return out, nil
}

func (s *Service) GetVerificationStatus(ctx context.Context, principal domain.Principal) (_ models.VerificationStatus, err error) {
	s.metrics.IncrementReads("status")
	ctx, span := s.tracer.Start(ctx, tracer.SpanStatus, tracer.String(tracer.AttrPrincipal, principal.String()))
	defer func() { span.End(err) }()

	entries, err := s.listEntries(ctx, principal)
	if err != nil {
		return models.VerificationStatus{}, err
	}
	return models.Status(entries), nil
}

// GetCompletionPercentage counts the six primary types only; the legacy
// document slot never contributes.
func (s *Service) GetCompletionPercentage(ctx context.Context, principal domain.Principal) (_ uint8, err error) {
	s.metrics.IncrementReads("completion")
	ctx, span := s.tracer.Start(ctx, tracer.SpanCompletion, tracer.String(tracer.AttrPrincipal, principal.String()))
	defer func() { span.End(err) }()

	entries, err := s.listEntries(ctx, principal)
	if err != nil {
		return 0, err
	}
	return models.Completion(entries), nil
}

// GetAllStoredHashesAndTimestamps walks the ledger in insertion order and
// returns every principal whose legacy document slot is active.
func (s *Service) GetAllStoredHashesAndTimestamps(ctx context.Context) (_ models.StoredDocuments, err error) {
	s.metrics.IncrementReads("documents")
	ctx, span := s.tracer.Start(ctx, tracer.SpanEnumerate)
	defer func() { span.End(err) }()

	records, err := s.store.ListDocuments(ctx)
	if err != nil {
		return models.StoredDocuments{}, wrapStoreError(err, "failed to list stored documents")
	}
	out := models.StoredDocuments{
		Principals: make([]domain.Principal, 0, len(records)),
		Hashes:     make([]domain.DataHash, 0, len(records)),
		Timestamps: make([]uint64, 0, len(records)),
	}
	for _, r := range records {
		out.Principals = append(out.Principals, r.Principal)
		out.Hashes = append(out.Hashes, r.DataHash)
		out.Timestamps = append(out.Timestamps, r.Timestamp)
	}
	span.SetAttributes(tracer.Int64(tracer.AttrCount, int64(len(records))))
	return out, nil
}

func (s *Service) GetTotalUsers(ctx context.Context) (_ uint64, err error) {
	s.metrics.IncrementReads("total_users")
	ctx, span := s.tracer.Start(ctx, tracer.SpanTotalUsers)
	defer func() { span.End(err) }()

	total, err := s.store.TotalUsers(ctx)
	if err != nil {
		return 0, wrapStoreError(err, "failed to read total users")
	}
	return total, nil
}

func (s *Service) readEntry(ctx context.Context, span string, principal domain.Principal, vtype models.VerificationType) (_ models.Entry, err error) {
	ctx, sp := s.tracer.Start(ctx, span,
		tracer.String(tracer.AttrPrincipal, principal.String()),
		tracer.String(tracer.AttrType, vtype.String()),
	)
	defer func() { sp.End(err) }()

	entry, err := s.findEntry(ctx, principal, vtype)
	if err != nil {
		return models.Entry{}, wrapStoreError(err, "failed to read verification")
	}
	sp.SetAttributes(tracer.Bool(tracer.AttrActive, entry.IsActive))
	return entry, nil
}

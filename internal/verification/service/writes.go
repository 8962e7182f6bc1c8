package service

import (
	"context"
	"time"

	"trustlink/internal/verification/models"
	"trustlink/internal/verification/store"
	"trustlink/internal/verification/tracer"
	"trustlink/pkg/domain"
	"trustlink/pkg/platform/audit"
	"trustlink/pkg/requestcontext"
)

// StoreVerification writes the caller's slot for one of the six primary
// types. The legacy document slot is only writable through StoreHash.
func (s *Service) StoreVerification(ctx context.Context, vtype models.VerificationType, hash domain.DataHash, timestamp uint64) error {
	if !vtype.IsStorable() {
		s.metrics.IncrementRejected("store")
		return models.NewInvalidVerificationTypeError()
	}
	return s.storeEntry(ctx, vtype, hash, timestamp, audit.EventVerificationStored)
}

func (s *Service) StoreIdentityVerification(ctx context.Context, hash domain.DataHash, timestamp uint64) error {
	return s.StoreVerification(ctx, models.TypeIdentity, hash, timestamp)
}

func (s *Service) StoreAddressVerification(ctx context.Context, hash domain.DataHash, timestamp uint64) error {
	return s.StoreVerification(ctx, models.TypeAddress, hash, timestamp)
}

func (s *Service) StoreDeviceVerification(ctx context.Context, hash domain.DataHash, timestamp uint64) error {
	return s.StoreVerification(ctx, models.TypeDevice, hash, timestamp)
}

func (s *Service) StoreEmailVerification(ctx context.Context, hash domain.DataHash, timestamp uint64) error {
	return s.StoreVerification(ctx, models.TypeEmail, hash, timestamp)
}

func (s *Service) StoreCommunityVerification(ctx context.Context, hash domain.DataHash, timestamp uint64) error {
	return s.StoreVerification(ctx, models.TypeCommunity, hash, timestamp)
}

func (s *Service) StoreTrustScore(ctx context.Context, hash domain.DataHash, timestamp uint64) error {
	return s.StoreVerification(ctx, models.TypeTrustScore, hash, timestamp)
}

// StoreHash writes the caller's legacy document slot.
func (s *Service) StoreHash(ctx context.Context, hash domain.DataHash, timestamp uint64) error {
	return s.storeEntry(ctx, models.TypeDocument, hash, timestamp, audit.EventDocumentStored)
}

// DeactivateVerification clears the caller's active flag for any of the
// seven slots. Hash and timestamp stay; the ledger is untouched.
func (s *Service) DeactivateVerification(ctx context.Context, vtype models.VerificationType) (err error) {
	if !vtype.IsKnown() {
		s.metrics.IncrementRejected("deactivate")
		return models.NewInvalidVerificationTypeError()
	}
	caller, err := callerFrom(ctx)
	if err != nil {
		return err
	}

	ctx, span := s.tracer.Start(ctx, tracer.SpanDeactivate,
		tracer.String(tracer.AttrPrincipal, caller.String()),
		tracer.String(tracer.AttrType, vtype.String()),
	)
	defer func() { span.End(err) }()

	start := time.Now()
	err = s.tx.RunInTx(ctx, func(ctx context.Context, st store.Store) error {
		return st.Deactivate(ctx, caller, vtype)
	})
	s.metrics.ObserveStoreOperation("deactivate", start)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to deactivate verification",
			"request_id", requestcontext.RequestID(ctx),
			"principal", caller.String(),
			"type", vtype.String(),
			"error", err,
		)
		return wrapStoreError(err, "failed to deactivate verification")
	}

	s.invalidate(ctx, caller, vtype)
	s.metrics.IncrementDeactivated(vtype.String())
	s.logger.InfoContext(ctx, "verification deactivated",
		"request_id", requestcontext.RequestID(ctx),
		"principal", caller.String(),
		"type", vtype.String(),
	)
	s.emit(ctx, audit.EventVerificationDeactivated, caller, vtype, nil)
	return nil
}

// storeEntry is the shared write path. The ledger check runs before the
// upsert so a principal's first write is the one that registers it.
func (s *Service) storeEntry(ctx context.Context, vtype models.VerificationType, hash domain.DataHash, timestamp uint64, action audit.AuditEvent) (err error) {
	caller, err := callerFrom(ctx)
	if err != nil {
		return err
	}

	ctx, span := s.tracer.Start(ctx, tracer.SpanStore,
		tracer.String(tracer.AttrPrincipal, caller.String()),
		tracer.String(tracer.AttrType, vtype.String()),
	)
	defer func() { span.End(err) }()

	var added bool
	start := time.Now()
	err = s.tx.RunInTx(ctx, func(ctx context.Context, st store.Store) error {
		hasAny, err := s.hasAnyVerification(ctx, st, caller)
		if err != nil {
			return err
		}
		if !hasAny {
			if added, err = st.AppendUser(ctx, caller); err != nil {
				return err
			}
		}
		return st.UpsertEntry(ctx, caller, vtype, models.Entry{
			DataHash:  hash,
			Timestamp: timestamp,
			IsActive:  true,
		})
	})
	s.metrics.ObserveStoreOperation("store", start)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to store verification",
			"request_id", requestcontext.RequestID(ctx),
			"principal", caller.String(),
			"type", vtype.String(),
			"error", err,
		)
		return wrapStoreError(err, "failed to store verification")
	}

	s.invalidate(ctx, caller, vtype)
	s.metrics.IncrementStored(vtype.String())
	span.SetAttributes(tracer.Bool(tracer.AttrNewUser, added))
	if added {
		s.metrics.IncrementUsersAdded()
		span.AddEvent(tracer.EventUserAppended)
		s.emit(ctx, audit.EventRegistryUserAdded, caller, vtype, nil)
	}
	s.logger.InfoContext(ctx, "verification stored",
		"request_id", requestcontext.RequestID(ctx),
		"principal", caller.String(),
		"type", vtype.String(),
		"new_user", added,
	)
	s.emit(ctx, action, caller, vtype, &hash)
	return nil
}

func (s *Service) invalidate(ctx context.Context, principal domain.Principal, vtype models.VerificationType) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, principal, vtype); err != nil {
		s.logger.WarnContext(ctx, "failed to invalidate cached verification",
			"request_id", requestcontext.RequestID(ctx),
			"principal", principal.String(),
			"type", vtype.String(),
			"error", err,
		)
	}
}

// emit never fails the call: the registry write has already committed.
func (s *Service) emit(ctx context.Context, action audit.AuditEvent, principal domain.Principal, vtype models.VerificationType, hash *domain.DataHash) {
	if s.auditor == nil {
		return
	}
	event := audit.Event{
		Timestamp:        requestcontext.Now(ctx),
		Principal:        principal,
		Action:           string(action),
		VerificationType: vtype.String(),
		RequestID:        requestcontext.RequestID(ctx),
		ClientIP:         requestcontext.ClientIP(ctx),
		Device:           requestcontext.DeviceLabel(ctx),
	}
	if hash != nil {
		event.DataHash = hash.String()
	}
	if err := s.auditor.Emit(ctx, event); err != nil {
		s.logger.WarnContext(ctx, "failed to emit audit event",
			"request_id", event.RequestID,
			"action", event.Action,
			"error", err,
		)
	}
}

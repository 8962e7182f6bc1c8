// Package service holds the verification registry rules: which types each
// write path accepts, when a principal joins the ledger, and how reads
// project the seven slots.
package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"trustlink/internal/verification/metrics"
	"trustlink/internal/verification/models"
	"trustlink/internal/verification/store"
	"trustlink/internal/verification/tracer"
	"trustlink/pkg/domain"
	dErrors "trustlink/pkg/domain-errors"
	"trustlink/pkg/platform/audit"
	"trustlink/pkg/platform/sentinel"
	"trustlink/pkg/requestcontext"
)

// AuditPublisher receives an event for every committed mutation.
type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}

// EntryCache fronts single-slot reads. Invalidate runs after a write commits.
type EntryCache interface {
	FindEntry(ctx context.Context, principal domain.Principal, vtype models.VerificationType) (models.Entry, error)
	Invalidate(ctx context.Context, principal domain.Principal, vtype models.VerificationType) error
}

type Service struct {
	store   store.Store
	tx      store.StoreTx
	cache   EntryCache
	auditor AuditPublisher
	metrics *metrics.Metrics
	tracer  tracer.Tracer
	logger  *slog.Logger
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithAuditPublisher(p AuditPublisher) Option {
	return func(s *Service) {
		s.auditor = p
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func WithTracer(t tracer.Tracer) Option {
	return func(s *Service) {
		s.tracer = t
	}
}

// WithEntryCache routes single-slot reads through cache.
func WithEntryCache(cache EntryCache) Option {
	return func(s *Service) {
		s.cache = cache
	}
}

func New(st store.Store, tx store.StoreTx, opts ...Option) (*Service, error) {
	if st == nil {
		return nil, errors.New("verification store is required")
	}
	if tx == nil {
		return nil, errors.New("verification store transaction is required")
	}
	s := &Service{
		store:  st,
		tx:     tx,
		tracer: tracer.NewNoop(),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// GetCurrentTimestamp returns the request time in Unix seconds.
func (s *Service) GetCurrentTimestamp(ctx context.Context) uint64 {
	return uint64(requestcontext.Now(ctx).Unix()) //nolint:gosec // request time is after 1970
}

func callerFrom(ctx context.Context) (domain.Principal, error) {
	caller := requestcontext.Principal(ctx)
	if caller.IsZero() {
		return domain.Principal{}, dErrors.New(dErrors.CodeUnauthorized, "caller identity required")
	}
	return caller, nil
}

// hasAnyVerification reports whether any of the seven slots is active.
func (s *Service) hasAnyVerification(ctx context.Context, st store.Store, principal domain.Principal) (bool, error) {
	entries, err := st.ListEntries(ctx, principal)
	if err != nil {
		return false, err
	}
	return models.HasAnyActive(entries), nil
}

func (s *Service) findEntry(ctx context.Context, principal domain.Principal, vtype models.VerificationType) (models.Entry, error) {
	defer s.metrics.ObserveStoreOperation("find_entry", time.Now())
	if s.cache != nil {
		return s.cache.FindEntry(ctx, principal, vtype)
	}
	return s.store.FindEntry(ctx, principal, vtype)
}

func (s *Service) listEntries(ctx context.Context, principal domain.Principal) ([models.TypeCount]models.Entry, error) {
	defer s.metrics.ObserveStoreOperation("list_entries", time.Now())
	entries, err := s.store.ListEntries(ctx, principal)
	if err != nil {
		return entries, wrapStoreError(err, "failed to read verifications")
	}
	return entries, nil
}

// wrapStoreError keeps domain errors (tx timeouts), translates store
// sentinels and hides everything else behind CodeInternal.
func wrapStoreError(err error, msg string) error {
	var de *dErrors.Error
	if errors.As(err, &de) {
		return err
	}
	switch {
	case errors.Is(err, sentinel.ErrUnavailable):
		return dErrors.Wrap(err, dErrors.CodeUnavailable, msg)
	case errors.Is(err, sentinel.ErrConflict):
		return dErrors.Wrap(err, dErrors.CodeConflict, msg)
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, msg)
}

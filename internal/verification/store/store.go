// Package store persists the verification registry: per-slot entries, the
// append-only principal ledger and the total users counter.
//
// Stores are pure I/O. Bookkeeping rules (when a principal joins the ledger,
// which types are writable) belong to the service, which runs every mutation
// through StoreTx so the read-check-write sequence commits as one unit.
package store

import (
	"context"

	"trustlink/internal/verification/models"
	"trustlink/pkg/domain"
)

type Store interface {
	// FindEntry returns the zero Entry when the slot was never written.
	FindEntry(ctx context.Context, principal domain.Principal, vtype models.VerificationType) (models.Entry, error)
	// ListEntries returns all slots for principal indexed by type.
	ListEntries(ctx context.Context, principal domain.Principal) ([models.TypeCount]models.Entry, error)
	UpsertEntry(ctx context.Context, principal domain.Principal, vtype models.VerificationType, entry models.Entry) error
	// Deactivate clears the active flag and keeps hash and timestamp.
	// Deactivating an unwritten slot is a no-op.
	Deactivate(ctx context.Context, principal domain.Principal, vtype models.VerificationType) error
	// AppendUser adds principal to the ledger and bumps the counter unless it
	// is already present. added reports whether the ledger changed.
	AppendUser(ctx context.Context, principal domain.Principal) (added bool, err error)
	// ListUsers returns the ledger in insertion order.
	ListUsers(ctx context.Context) ([]domain.Principal, error)
	TotalUsers(ctx context.Context) (uint64, error)
	// ListDocuments walks the ledger in order and returns principals whose
	// legacy document slot is active.
	ListDocuments(ctx context.Context) ([]models.DocumentRecord, error)
}

// StoreTx runs fn as one atomic registry transition. If fn returns an error
// nothing it wrote is visible afterwards.
type StoreTx interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context, store Store) error) error
}

package store

import (
	"context"
	"sync"
	"time"

	"trustlink/internal/verification/models"
	"trustlink/pkg/domain"
	dErrors "trustlink/pkg/domain-errors"
)

const defaultMemoryTxTimeout = 5 * time.Second

type entryKey struct {
	principal domain.Principal
	vtype     models.VerificationType
}

// InMemoryStore keeps the registry in process memory. A single RWMutex guards
// all of it: the ledger and counter are global state touched by every
// first write, so there is nothing to shard on.
type InMemoryStore struct {
	mu         sync.RWMutex
	entries    map[entryKey]models.Entry
	users      []domain.Principal
	userSet    map[domain.Principal]struct{}
	totalUsers uint64
	txTimeout  time.Duration
}

type MemoryOption func(*InMemoryStore)

// WithTxTimeout bounds RunInTx when the caller's context has no deadline.
func WithTxTimeout(d time.Duration) MemoryOption {
	return func(s *InMemoryStore) {
		if d > 0 {
			s.txTimeout = d
		}
	}
}

func NewInMemoryStore(opts ...MemoryOption) *InMemoryStore {
	s := &InMemoryStore{
		entries:   make(map[entryKey]models.Entry),
		userSet:   make(map[domain.Principal]struct{}),
		txTimeout: defaultMemoryTxTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *InMemoryStore) FindEntry(_ context.Context, principal domain.Principal, vtype models.VerificationType) (models.Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.findEntry(principal, vtype), nil
}

func (s *InMemoryStore) ListEntries(_ context.Context, principal domain.Principal) ([models.TypeCount]models.Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.listEntries(principal), nil
}

func (s *InMemoryStore) UpsertEntry(_ context.Context, principal domain.Principal, vtype models.VerificationType, entry models.Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.upsertEntry(principal, vtype, entry)
	return nil
}

func (s *InMemoryStore) Deactivate(_ context.Context, principal domain.Principal, vtype models.VerificationType) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deactivate(principal, vtype)
	return nil
}

func (s *InMemoryStore) AppendUser(_ context.Context, principal domain.Principal) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.appendUser(principal), nil
}

func (s *InMemoryStore) ListUsers(_ context.Context) ([]domain.Principal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.Principal{}, s.users...), nil
}

func (s *InMemoryStore) TotalUsers(_ context.Context) (uint64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.totalUsers, nil
}

func (s *InMemoryStore) ListDocuments(_ context.Context) ([]models.DocumentRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.listDocuments(), nil
}

// RunInTx holds the write lock for the whole of fn and rolls back every
// write fn made if it fails.
func (s *InMemoryStore) RunInTx(ctx context.Context, fn func(ctx context.Context, store Store) error) error {
	if err := ctx.Err(); err != nil {
		return dErrors.Wrap(err, dErrors.CodeTimeout, "transaction aborted: context cancelled")
	}

	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.txTimeout)
		defer cancel()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return dErrors.Wrap(err, dErrors.CodeTimeout, "transaction aborted: context cancelled")
	}

	view := &memoryTxView{s: s}
	if err := fn(ctx, view); err != nil {
		view.rollback()
		return err
	}
	return nil
}

func (s *InMemoryStore) findEntry(principal domain.Principal, vtype models.VerificationType) models.Entry {
	return s.entries[entryKey{principal: principal, vtype: vtype}]
}

func (s *InMemoryStore) listEntries(principal domain.Principal) [models.TypeCount]models.Entry {
	var out [models.TypeCount]models.Entry
	for i := range out {
		out[i] = s.findEntry(principal, models.VerificationType(i))
	}
	return out
}

func (s *InMemoryStore) listDocuments() []models.DocumentRecord {
	var out []models.DocumentRecord
	for _, p := range s.users {
		e := s.findEntry(p, models.TypeDocument)
		if !e.IsActive {
			continue
		}
		out = append(out, models.DocumentRecord{Principal: p, DataHash: e.DataHash, Timestamp: e.Timestamp})
	}
	return out
}

func (s *InMemoryStore) upsertEntry(principal domain.Principal, vtype models.VerificationType, entry models.Entry) {
	s.entries[entryKey{principal: principal, vtype: vtype}] = entry
}

func (s *InMemoryStore) deactivate(principal domain.Principal, vtype models.VerificationType) {
	key := entryKey{principal: principal, vtype: vtype}
	e, ok := s.entries[key]
	if !ok {
		return
	}
	e.IsActive = false
	s.entries[key] = e
}

func (s *InMemoryStore) appendUser(principal domain.Principal) bool {
	if _, ok := s.userSet[principal]; ok {
		return false
	}
	s.userSet[principal] = struct{}{}
	s.users = append(s.users, principal)
	s.totalUsers++
	return true
}

// memoryTxView runs against the store while RunInTx holds its lock and keeps
// an undo log for rollback.
type memoryTxView struct {
	s    *InMemoryStore
	undo []func()
}

func (v *memoryTxView) rollback() {
	for i := len(v.undo) - 1; i >= 0; i-- {
		v.undo[i]()
	}
	v.undo = nil
}

func (v *memoryTxView) restoreEntry(key entryKey) {
	prev, existed := v.s.entries[key]
	v.undo = append(v.undo, func() {
		if existed {
			v.s.entries[key] = prev
		} else {
			delete(v.s.entries, key)
		}
	})
}

func (v *memoryTxView) FindEntry(_ context.Context, principal domain.Principal, vtype models.VerificationType) (models.Entry, error) {
	return v.s.findEntry(principal, vtype), nil
}

func (v *memoryTxView) ListEntries(_ context.Context, principal domain.Principal) ([models.TypeCount]models.Entry, error) {
	return v.s.listEntries(principal), nil
}

func (v *memoryTxView) UpsertEntry(ctx context.Context, principal domain.Principal, vtype models.VerificationType, entry models.Entry) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	v.restoreEntry(entryKey{principal: principal, vtype: vtype})
	v.s.upsertEntry(principal, vtype, entry)
	return nil
}

func (v *memoryTxView) Deactivate(ctx context.Context, principal domain.Principal, vtype models.VerificationType) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	v.restoreEntry(entryKey{principal: principal, vtype: vtype})
	v.s.deactivate(principal, vtype)
	return nil
}

func (v *memoryTxView) AppendUser(ctx context.Context, principal domain.Principal) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	if !v.s.appendUser(principal) {
		return false, nil
	}
	v.undo = append(v.undo, func() {
		delete(v.s.userSet, principal)
		v.s.users = v.s.users[:len(v.s.users)-1]
		v.s.totalUsers--
	})
	return true, nil
}

func (v *memoryTxView) ListUsers(_ context.Context) ([]domain.Principal, error) {
	return append([]domain.Principal{}, v.s.users...), nil
}

func (v *memoryTxView) TotalUsers(_ context.Context) (uint64, error) {
	return v.s.totalUsers, nil
}

func (v *memoryTxView) ListDocuments(_ context.Context) ([]models.DocumentRecord, error) {
	return v.s.listDocuments(), nil
}

var (
	_ Store   = (*InMemoryStore)(nil)
	_ StoreTx = (*InMemoryStore)(nil)
	_ Store   = (*memoryTxView)(nil)
)

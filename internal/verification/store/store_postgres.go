package store

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"trustlink/internal/verification/models"
	"trustlink/pkg/domain"
	"trustlink/pkg/platform/sentinel"
	txcontext "trustlink/pkg/platform/tx"
)

// PostgresStore persists the registry in PostgreSQL. It joins the
// transaction carried in ctx when one is present; RunInTx for this store
// lives with the server wiring.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

type dbExecutor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (s *PostgresStore) execer(ctx context.Context) dbExecutor {
	if tx, ok := txcontext.From(ctx); ok {
		return tx
	}
	return s.db
}

func (s *PostgresStore) FindEntry(ctx context.Context, principal domain.Principal, vtype models.VerificationType) (models.Entry, error) {
	query := `
		SELECT data_hash, timestamp, is_active
		FROM verification_entries
		WHERE principal = $1 AND verification_type = $2
	`
	var (
		hash   []byte
		ts     int64
		active bool
	)
	err := s.execer(ctx).QueryRowContext(ctx, query, principal.String(), int16(vtype)).Scan(&hash, &ts, &active)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Entry{}, nil
	}
	if err != nil {
		return models.Entry{}, queryError("find verification entry", err)
	}
	return toEntry(hash, ts, active)
}

func (s *PostgresStore) ListEntries(ctx context.Context, principal domain.Principal) ([models.TypeCount]models.Entry, error) {
	var out [models.TypeCount]models.Entry
	types := make([]int64, 0, models.TypeCount)
	for _, t := range models.AllTypes() {
		types = append(types, int64(t))
	}
	query := `
		SELECT verification_type, data_hash, timestamp, is_active
		FROM verification_entries
		WHERE principal = $1 AND verification_type = ANY($2)
	`
	rows, err := s.execer(ctx).QueryContext(ctx, query, principal.String(), pq.Array(types))
	if err != nil {
		return out, queryError("list verification entries", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			vtype  int16
			hash   []byte
			ts     int64
			active bool
		)
		if err := rows.Scan(&vtype, &hash, &ts, &active); err != nil {
			return out, fmt.Errorf("scan verification entry: %w", err)
		}
		entry, err := toEntry(hash, ts, active)
		if err != nil {
			return out, err
		}
		out[vtype] = entry
	}
	if err := rows.Err(); err != nil {
		return out, fmt.Errorf("iterate verification entries: %w", err)
	}
	return out, nil
}

// UpsertEntry stores timestamps as BIGINT; values above MaxInt64 round-trip
// through the two's complement bit pattern.
func (s *PostgresStore) UpsertEntry(ctx context.Context, principal domain.Principal, vtype models.VerificationType, entry models.Entry) error {
	query := `
		INSERT INTO verification_entries (principal, verification_type, data_hash, timestamp, is_active, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW())
		ON CONFLICT (principal, verification_type) DO UPDATE SET
			data_hash = EXCLUDED.data_hash,
			timestamp = EXCLUDED.timestamp,
			is_active = EXCLUDED.is_active,
			updated_at = EXCLUDED.updated_at
	`
	_, err := s.execer(ctx).ExecContext(ctx, query,
		principal.String(),
		int16(vtype),
		entry.DataHash[:],
		int64(entry.Timestamp), //nolint:gosec // bit-preserving
		entry.IsActive,
	)
	if err != nil {
		return queryError("upsert verification entry", err)
	}
	return nil
}

func (s *PostgresStore) Deactivate(ctx context.Context, principal domain.Principal, vtype models.VerificationType) error {
	query := `
		UPDATE verification_entries
		SET is_active = FALSE, updated_at = NOW()
		WHERE principal = $1 AND verification_type = $2
	`
	if _, err := s.execer(ctx).ExecContext(ctx, query, principal.String(), int16(vtype)); err != nil {
		return queryError("deactivate verification entry", err)
	}
	return nil
}

func (s *PostgresStore) AppendUser(ctx context.Context, principal domain.Principal) (bool, error) {
	exec := s.execer(ctx)
	result, err := exec.ExecContext(ctx, `
		INSERT INTO verification_users (principal)
		VALUES ($1)
		ON CONFLICT (principal) DO NOTHING
	`, principal.String())
	if err != nil {
		return false, queryError("append registry user", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("append registry user rows affected: %w", err)
	}
	if rows == 0 {
		return false, nil
	}
	if _, err := exec.ExecContext(ctx, `
		UPDATE verification_registry_stats SET total_users = total_users + 1 WHERE id = 1
	`); err != nil {
		return false, fmt.Errorf("increment total users: %w", err)
	}
	return true, nil
}

func (s *PostgresStore) ListUsers(ctx context.Context) ([]domain.Principal, error) {
	rows, err := s.execer(ctx).QueryContext(ctx, `SELECT principal FROM verification_users ORDER BY seq`)
	if err != nil {
		return nil, queryError("list registry users", err)
	}
	defer rows.Close()

	var out []domain.Principal
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("scan registry user: %w", err)
		}
		p, err := domain.ParsePrincipal(raw)
		if err != nil {
			return nil, fmt.Errorf("decode registry user: %w", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate registry users: %w", err)
	}
	return out, nil
}

func (s *PostgresStore) TotalUsers(ctx context.Context) (uint64, error) {
	var total int64
	err := s.execer(ctx).QueryRowContext(ctx, `SELECT total_users FROM verification_registry_stats WHERE id = 1`).Scan(&total)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, queryError("read total users", err)
	}
	return uint64(total), nil //nolint:gosec // counter is never negative
}

func (s *PostgresStore) ListDocuments(ctx context.Context) ([]models.DocumentRecord, error) {
	query := `
		SELECT u.principal, e.data_hash, e.timestamp
		FROM verification_users u
		JOIN verification_entries e
			ON e.principal = u.principal AND e.verification_type = $1
		WHERE e.is_active
		ORDER BY u.seq
	`
	rows, err := s.execer(ctx).QueryContext(ctx, query, int16(models.TypeDocument))
	if err != nil {
		return nil, queryError("list stored documents", err)
	}
	defer rows.Close()

	var out []models.DocumentRecord
	for rows.Next() {
		var (
			raw  string
			hash []byte
			ts   int64
		)
		if err := rows.Scan(&raw, &hash, &ts); err != nil {
			return nil, fmt.Errorf("scan stored document: %w", err)
		}
		p, err := domain.ParsePrincipal(raw)
		if err != nil {
			return nil, fmt.Errorf("decode document principal: %w", err)
		}
		h, err := domain.DataHashFromBytes(hash)
		if err != nil {
			return nil, fmt.Errorf("decode document hash: %w", err)
		}
		out = append(out, models.DocumentRecord{Principal: p, DataHash: h, Timestamp: uint64(ts)}) //nolint:gosec // bit-preserving
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate stored documents: %w", err)
	}
	return out, nil
}

func toEntry(hash []byte, ts int64, active bool) (models.Entry, error) {
	h, err := domain.DataHashFromBytes(hash)
	if err != nil {
		return models.Entry{}, fmt.Errorf("decode data hash: %w", err)
	}
	return models.Entry{DataHash: h, Timestamp: uint64(ts), IsActive: active}, nil //nolint:gosec // bit-preserving
}

var _ Store = (*PostgresStore)(nil)

// queryError marks lost connections as sentinel.ErrUnavailable so callers can
// tell an outage from a bad statement.
func queryError(op string, err error) error {
	if errors.Is(err, driver.ErrBadConn) || errors.Is(err, sql.ErrConnDone) {
		return fmt.Errorf("%s: %w: %w", op, sentinel.ErrUnavailable, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}

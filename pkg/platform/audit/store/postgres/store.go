package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"trustlink/pkg/domain"
	audit "trustlink/pkg/platform/audit"
	txcontext "trustlink/pkg/platform/tx"
)

// Store implements audit.Store on the audit_events table.
type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

type dbExecutor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// execer joins an ambient transaction when one is present.
func (s *Store) execer(ctx context.Context) dbExecutor {
	if tx, ok := txcontext.From(ctx); ok {
		return tx
	}
	return s.db
}

func (s *Store) Append(ctx context.Context, event audit.Event) error {
	query := `
		INSERT INTO audit_events (id, principal, category, action, verification_type, data_hash, request_id, client_ip, device, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	_, err := s.execer(ctx).ExecContext(ctx, query,
		uuid.New(),
		event.Principal.String(),
		string(audit.AuditEvent(event.Action).Category()),
		event.Action,
		nullString(event.VerificationType),
		nullString(event.DataHash),
		nullString(event.RequestID),
		nullString(event.ClientIP),
		nullString(event.Device),
		event.Timestamp,
	)
	if err != nil {
		return fmt.Errorf("insert audit event: %w", err)
	}
	return nil
}

func (s *Store) ListByPrincipal(ctx context.Context, principal domain.Principal) ([]audit.Event, error) {
	query := `
		SELECT principal, action, verification_type, data_hash, request_id, client_ip, device, created_at
		FROM audit_events
		WHERE principal = $1
		ORDER BY created_at, id
	`
	rows, err := s.execer(ctx).QueryContext(ctx, query, principal.String())
	if err != nil {
		return nil, fmt.Errorf("list audit events: %w", err)
	}
	defer rows.Close()

	var events []audit.Event
	for rows.Next() {
		var (
			rawPrincipal string
			event        audit.Event
			vt, hash     sql.NullString
			reqID, ip    sql.NullString
			device       sql.NullString
		)
		if err := rows.Scan(&rawPrincipal, &event.Action, &vt, &hash, &reqID, &ip, &device, &event.Timestamp); err != nil {
			return nil, fmt.Errorf("scan audit event: %w", err)
		}
		if event.Principal, err = domain.ParsePrincipal(rawPrincipal); err != nil {
			return nil, fmt.Errorf("parse audit principal: %w", err)
		}
		event.VerificationType = vt.String
		event.DataHash = hash.String
		event.RequestID = reqID.String
		event.ClientIP = ip.String
		event.Device = device.String
		events = append(events, event)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate audit events: %w", err)
	}
	return events, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

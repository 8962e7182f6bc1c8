// Package audit carries registry mutations to append-only sinks.
package audit

import (
	"context"
	"time"

	"trustlink/pkg/domain"
)

type EventCategory string

const (
	// CategoryCompliance covers changes to a principal's verification record.
	CategoryCompliance EventCategory = "compliance"
	// CategoryOperations covers registry bookkeeping.
	CategoryOperations EventCategory = "operations"
)

type AuditEvent string

const (
	EventVerificationStored      AuditEvent = "verification_stored"
	EventVerificationDeactivated AuditEvent = "verification_deactivated"
	EventRegistryUserAdded       AuditEvent = "registry_user_added"
	EventDocumentStored          AuditEvent = "document_stored"
)

var eventCategories = map[AuditEvent]EventCategory{
	EventVerificationStored:      CategoryCompliance,
	EventVerificationDeactivated: CategoryCompliance,
	EventDocumentStored:          CategoryCompliance,
	EventRegistryUserAdded:       CategoryOperations,
}

// Category defaults to CategoryOperations for unknown events.
func (e AuditEvent) Category() EventCategory {
	if cat, ok := eventCategories[e]; ok {
		return cat
	}
	return CategoryOperations
}

// Event is emitted by the registry after a mutation commits.
type Event struct {
	Timestamp        time.Time        `json:"timestamp"`
	Principal        domain.Principal `json:"principal"`
	Action           string           `json:"action"`
	VerificationType string           `json:"verification_type,omitempty"`
	DataHash         string           `json:"data_hash,omitempty"`
	RequestID        string           `json:"request_id,omitempty"`
	ClientIP         string           `json:"client_ip,omitempty"`
	Device           string           `json:"device,omitempty"`
}

// Store persists audit events and lists them back per principal.
type Store interface {
	Append(ctx context.Context, event Event) error
	ListByPrincipal(ctx context.Context, principal domain.Principal) ([]Event, error)
}

// Sink receives a copy of every event after the primary store accepted it.
type Sink interface {
	Append(ctx context.Context, event Event) error
}

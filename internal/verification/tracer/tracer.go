// Package tracer is the span abstraction used by the verification service.
// NoopTracer serves tests; OTelTracer adapts OpenTelemetry.
package tracer

import "context"

type Span interface {
	// End must be called exactly once; a non-nil err marks the span failed.
	End(err error)
	SetAttributes(attrs ...Attribute)
	AddEvent(name string, attrs ...Attribute)
}

// Tracer must be safe for concurrent use.
type Tracer interface {
	Start(ctx context.Context, name string, attrs ...Attribute) (context.Context, Span)
}

type Attribute struct {
	Key   string
	Value any
}

func String(key, value string) Attribute {
	return Attribute{Key: key, Value: value}
}

func Bool(key string, value bool) Attribute {
	return Attribute{Key: key, Value: value}
}

func Int64(key string, value int64) Attribute {
	return Attribute{Key: key, Value: value}
}

const (
	SpanStore       = "verification.store"
	SpanDeactivate  = "verification.deactivate"
	SpanRead        = "verification.read"
	SpanReadAll     = "verification.read_all"
	SpanEnumerate   = "verification.enumerate_documents"
	SpanVerifyDoc   = "verification.verify_document"
	SpanTotalUsers  = "verification.total_users"
	SpanCompletion  = "verification.completion"
	SpanStatus      = "verification.status"
	SpanHasEntry    = "verification.has"
	SpanHashDocument = "verification.hash_document"
)

const (
	AttrPrincipal = "principal"
	AttrType      = "verification.type"
	AttrNewUser   = "registry.new_user"
	AttrActive    = "verification.active"
	AttrCount     = "result.count"
)

const (
	EventUserAppended = "registry.user_appended"
	EventAuditEmitted = "audit.emitted"
)

// Package tracer provides a lightweight tracing abstraction for registry operations.
//
// Services depend on the Tracer interface only; the OpenTelemetry adapter is
// wired in main and tests use NoopTracer.
package tracer

import "context"

// Span represents an active trace span.
type Span interface {
	// End completes the span, marking it failed when err is non-nil.
	// End must be called exactly once, typically via defer.
	End(err error)
	SetAttributes(attrs ...Attribute)
	AddEvent(name string, attrs ...Attribute)
}

// Tracer creates spans. Implementations must be safe for concurrent use.
//
//	ctx, span := t.Start(ctx, tracer.SpanMint, tracer.String(tracer.AttrCaller, caller.String()))
//	defer func() { span.End(err) }()
type Tracer interface {
	Start(ctx context.Context, name string, attrs ...Attribute) (context.Context, Span)
}

// Attribute represents a key-value pair attached to spans.
type Attribute struct {
	Key   string
	Value any
}

func String(key, value string) Attribute { return Attribute{Key: key, Value: value} }

func Bool(key string, value bool) Attribute { return Attribute{Key: key, Value: value} }

func Int64(key string, value int64) Attribute { return Attribute{Key: key, Value: value} }

// Uint64 stores ids and amounts; values above MaxInt64 are rendered as strings by the OTel adapter.
func Uint64(key string, value uint64) Attribute { return Attribute{Key: key, Value: value} }

// Span names.
const (
	SpanMint        = "mint.mint"
	SpanMintCharge  = "mint.charge"
	SpanMintInsert  = "mint.insert"
	SpanTransfer    = "mint.transfer"
	SpanAdminUpdate = "mint.admin.update"
)

// Attribute keys.
const (
	AttrCaller       = "caller"
	AttrCredentialID = "credential.id"
	AttrRecipient    = "recipient"
	AttrMintFee      = "mint.fee"
	AttrErrorCode    = "error.code"
	AttrSetting      = "setting"
)

package models

import "context"

// Outcome of a suggestion request. Only OutcomeOK carries suggestions; the
// others are expected, informational results and not errors.
type Outcome string

const (
	OutcomeOK         Outcome = "ok"
	OutcomeNoCategory Outcome = "no_category"
	OutcomeNoSites    Outcome = "no_sites"
)

// ReasonSource tells whether a justification came from the model or the template.
type ReasonSource string

const (
	ReasonSourceModel    ReasonSource = "model"
	ReasonSourceFallback ReasonSource = "fallback"
)

// Usage operation names
const (
	OperationReasonsBatch = "reasons_batch"
	OperationReasonSite   = "reason_site"
)

type operationKey struct{}

// WithOperation tags ctx with the usage operation name recorded by providers.
func WithOperation(ctx context.Context, op string) context.Context {
	return context.WithValue(ctx, operationKey{}, op)
}

// OperationFrom returns the operation stored by WithOperation, or "completion".
func OperationFrom(ctx context.Context) string {
	if op, ok := ctx.Value(operationKey{}).(string); ok && op != "" {
		return op
	}
	return "completion"
}

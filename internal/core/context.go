package core

import "context"

type contextKey string

const ctxKeyOperationID contextKey = "operation_id"

// ContextWithOperationID tags ctx with the id of the running upload or export,
// so outbound requests and log lines can be correlated.
func ContextWithOperationID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxKeyOperationID, id)
}

// OperationIDFromContext extracts the operation id, or "" when unset.
func OperationIDFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(ctxKeyOperationID).(string); ok {
		return v
	}
	return ""
}

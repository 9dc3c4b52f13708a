package web

import (
	"context"
	"net/http"
)

// gestureContext returns the context a gesture runs under. It keeps the
// request's values (request id for logs) but not its cancellation, so a page
// reload does not abort an upload or export halfway through.
func gestureContext(r *http.Request) context.Context {
	return context.WithoutCancel(r.Context())
}

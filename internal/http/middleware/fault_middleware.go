package middleware

import (
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/avialine/backoffice/internal/http/response"
)

// FaultCloser ends a user's open session after an unhandled failure.
type FaultCloser interface {
	CloseOnFault(userID uint)
}

// SessionFaultRecoverer converts panics in authenticated handlers into
// a 500 response and closes the caller's open session so the fault is
// visible in their login history. It must sit inside AuthMiddleware in
// the chain.
func SessionFaultRecoverer(closer FaultCloser) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				slog.Error("panic in request handler",
					"path", r.URL.Path,
					"panic", rec,
					"stack", string(debug.Stack()),
				)
				if userID, ok := UserIDFromContext(r.Context()); ok {
					closer.CloseOnFault(userID)
				}
				response.Error(w, r, http.StatusInternalServerError, "INTERNAL", "internal server error", nil)
			}()
			next.ServeHTTP(w, r)
		})
	}
}

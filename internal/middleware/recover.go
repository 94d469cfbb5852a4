package middleware

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"runtime/debug"
)

var internalErrorBody, _ = json.Marshal(map[string]string{
	"message": "An internal error occurred",
	"error":   "internal_error",
})

// Recoverer turns a panic in a handler into a logged 500 with the standard
// JSON error body. http.ErrAbortHandler is re-panicked so net/http can abort
// the connection.
func Recoverer(logger *slog.Logger) func(http.Handler) http.Handler {
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

				logger.Error("panic recovered",
					slog.Any("panic", rec),
					slog.String("method", r.Method),
					slog.String("path", r.URL.Path),
					slog.String("stack", string(debug.Stack())),
				)

				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusInternalServerError)
				_, _ = w.Write(internalErrorBody)
			}()

			next.ServeHTTP(w, r)
		})
	}
}

package middleware

import (
	"net/http"
	"runtime/debug"

	"github.com/thriveverse/backend/internal/handler"
	"github.com/thriveverse/backend/pkg/logger"
)

// Recovery catches panics and returns a 500 error instead of crashing the server.
func Recovery(log *logger.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					log.WithFields(map[string]interface{}{
						"panic": err,
						"stack": string(debug.Stack()),
					}).Error("panic recovered")
					handler.JSON(w, http.StatusInternalServerError, map[string]string{
						"error": "internal server error",
					})
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

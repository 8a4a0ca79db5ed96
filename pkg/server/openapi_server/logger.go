// SPDX-License-Identifier: MIT

package openapi_server

import (
	"net/http"
	"time"

	"github.com/natevvv/terrain-routing/internal/logging"
)

// Logger attaches a request scoped logger (with a request id) to the request
// context and logs every handled request.
func Logger(inner http.Handler, name string, base logging.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ctx, log := logging.WithRequestLogger(r.Context(), base)
		w.Header().Set("X-Request-Id", logging.RequestIDFromContext(ctx))

		inner.ServeHTTP(w, r.WithContext(ctx))

		log.Info(ctx, "handled request",
			logging.String("method", r.Method),
			logging.String("uri", r.RequestURI),
			logging.String("route", name),
			logging.Any("duration", time.Since(start)),
		)
	})
}

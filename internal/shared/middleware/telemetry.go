package middleware

import (
	"net/http"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// Telemetry wraps an http.Handler with otelhttp request metrics and a
// server span per request.
func Telemetry(next http.Handler) http.Handler {
	return otelhttp.NewMiddleware("household-api")(next)
}

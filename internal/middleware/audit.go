package middleware

import (
	"net/http"

	"go.uber.org/zap"

	logpkg "github.com/ChikinaValeria/TimeTrackerApp/internal/logger"
	"github.com/ChikinaValeria/TimeTrackerApp/internal/request"
)

// Audit logs rejected and failed requests for monitoring
func Audit(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			wrapped := newStatusRecorder(w)
			next.ServeHTTP(wrapped, r)

			status := wrapped.statusCode
			var event string
			switch {
			case status == http.StatusTooManyRequests:
				event = "rate_limit_violation"
			case status == http.StatusRequestEntityTooLarge || status == http.StatusUnsupportedMediaType:
				event = "request_rejected"
			case status == http.StatusBadGateway:
				event = "backend_unavailable"
			case status >= http.StatusInternalServerError:
				event = "server_error_response"
			default:
				return
			}

			logger.Warn(event,
				zap.String("request_id", logpkg.SanitizeString(request.RequestIDFromContext(r.Context()), logpkg.MaxGeneralStringLength)),
				zap.Int("status_code", status),
				zap.String("method", r.Method),
				zap.String("path", logpkg.SanitizePath(r.URL.Path)),
				zap.String("ip", logpkg.SanitizeClientIP(request.ClientIP(r))),
			)
		})
	}
}

package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/wizzzeystore/wizzzey-store-web/internal/logger"
	"github.com/wizzzeystore/wizzzey-store-web/internal/utils"
	"go.uber.org/zap"
)

// ServiceAuthHeader carries the shared secret of trusted internal callers.
const ServiceAuthHeader = "X-Service-Auth"

// RequireServiceKey only lets through requests carrying the internal secret.
// With no secret configured every request is refused.
func RequireServiceKey(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got := r.Header.Get(ServiceAuthHeader)
			if secret == "" || subtle.ConstantTimeCompare([]byte(got), []byte(secret)) != 1 {
				logger.FromCtx(r.Context()).Warn("rejected internal request",
					zap.String("path", r.URL.Path),
					zap.Bool("header_present", got != ""),
				)
				utils.WriteJSONError(w, "unauthorized", http.StatusUnauthorized)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

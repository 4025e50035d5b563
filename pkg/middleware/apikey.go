package middleware

import (
	"crypto/subtle"
	"log/slog"
	"net/http"

	apperrors "github.com/utafrali/gearcatalog/pkg/errors"
	"github.com/utafrali/gearcatalog/pkg/httputil"
)

// APIKeyHeader is the request header carrying the shared secret.
const APIKeyHeader = "X-API-Key"

// APIKey rejects requests whose X-API-Key header does not match key with a
// 401. The comparison is constant time.
func APIKey(key string, l *slog.Logger) func(http.Handler) http.Handler {
	expected := []byte(key)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got := r.Header.Get(APIKeyHeader)
			if got == "" || subtle.ConstantTimeCompare([]byte(got), expected) != 1 {
				httputil.WriteError(w, r, apperrors.Unauthorized("invalid or missing API key"), l)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCacheControl(t *testing.T) {
	tests := []struct {
		name   string
		maxAge time.Duration
		method string
		want   string
	}{
		{"get with max age", 5 * time.Minute, http.MethodGet, "public, max-age=300"},
		{"head with max age", time.Minute, http.MethodHead, "public, max-age=60"},
		{"zero disables caching", 0, http.MethodGet, "no-store"},
		{"post untouched", time.Minute, http.MethodPost, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			CacheControl(tt.maxAge)(okHandler()).ServeHTTP(rec, httptest.NewRequest(tt.method, "/v1/categories", nil))
			assert.Equal(t, tt.want, rec.Header().Get("Cache-Control"))
		})
	}
}

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCORS(t *testing.T) {
	tests := []struct {
		name        string
		allowed     []string
		method      string
		origin      string
		wantStatus  int
		wantOrigin  string
		wantReached bool
	}{
		{name: "allowed preflight", allowed: []string{"http://app.local"}, method: http.MethodOptions, origin: "http://app.local", wantStatus: http.StatusNoContent, wantOrigin: "http://app.local"},
		{name: "wildcard preflight", allowed: []string{"*"}, method: http.MethodOptions, origin: "http://any.local", wantStatus: http.StatusNoContent, wantOrigin: "http://any.local"},
		{name: "unknown origin preflight", allowed: []string{"http://app.local"}, method: http.MethodOptions, origin: "http://evil.example", wantStatus: http.StatusTeapot, wantReached: true},
		{name: "preflight without origin", allowed: []string{"http://app.local"}, method: http.MethodOptions, wantStatus: http.StatusTeapot, wantReached: true},
		{name: "allowed simple request", allowed: []string{"http://app.local"}, method: http.MethodGet, origin: "http://app.local", wantStatus: http.StatusTeapot, wantOrigin: "http://app.local", wantReached: true},
		{name: "unknown origin simple request", allowed: []string{"http://app.local"}, method: http.MethodGet, origin: "http://evil.example", wantStatus: http.StatusTeapot, wantReached: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reached := false
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				reached = true
				w.WriteHeader(http.StatusTeapot)
			})

			req := httptest.NewRequest(tt.method, "/update-profile", nil)
			if tt.origin != "" {
				req.Header.Set("Origin", tt.origin)
			}
			rec := httptest.NewRecorder()
			NewCORS(tt.allowed, "X-Profile-Source")(next).ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantReached, reached)
			assert.Equal(t, tt.wantOrigin, rec.Header().Get("Access-Control-Allow-Origin"))
			if tt.wantOrigin != "" {
				assert.Equal(t, "X-Profile-Source", rec.Header().Get("Access-Control-Expose-Headers"))
			}
		})
	}
}

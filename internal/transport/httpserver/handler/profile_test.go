package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	profiledomain "profile-service-go/internal/domain/profile"
	"profile-service-go/internal/repository/inmemory"
	"profile-service-go/pkg/logger"
)

var errStoreDown = errors.New("dial tcp 127.0.0.1:5432: connect: connection refused")

type failingRepo struct{}

func (failingRepo) Upsert(context.Context, *profiledomain.Profile) error {
	return errStoreDown
}

func (failingRepo) GetByUserID(context.Context, int) (*profiledomain.Profile, error) {
	return nil, errStoreDown
}

func (failingRepo) Ping(context.Context) error {
	return errStoreDown
}

func newTestHandlers(repo profiledomain.Repository, mask bool) *Handlers {
	log := logger.New(io.Discard, slog.LevelDebug, "text")
	return New(profiledomain.NewService(repo), Options{MaskReadErrors: mask}, log)
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestUpdateProfileJSON(t *testing.T) {
	h := newTestHandlers(inmemory.NewProfileRepository(), true)

	req := httptest.NewRequest(http.MethodPost, "/update-profile", strings.NewReader(`{"userid": 42, "name": "X", "email": "Y", "nickname": "ignored"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.UpdateProfile(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, map[string]any{"userid": float64(1), "name": "X", "email": "Y"}, decodeBody(t, rec))
}

func TestUpdateProfileForm(t *testing.T) {
	h := newTestHandlers(inmemory.NewProfileRepository(), true)

	form := url.Values{"name": {"X"}, "interests": {""}, "userid": {"7"}}
	req := httptest.NewRequest(http.MethodPost, "/update-profile", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	h.UpdateProfile(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, map[string]any{"userid": float64(1), "name": "X", "interests": ""}, decodeBody(t, rec))
}

func TestUpdateProfileEmptyBody(t *testing.T) {
	h := newTestHandlers(inmemory.NewProfileRepository(), true)

	req := httptest.NewRequest(http.MethodPost, "/update-profile", http.NoBody)
	rec := httptest.NewRecorder()
	h.UpdateProfile(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, map[string]any{"userid": float64(1)}, decodeBody(t, rec))
}

func TestUpdateProfileInvalidJSON(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "malformed", body: `{"name": `},
		{name: "non-string field", body: `{"name": 12}`},
		{name: "trailing garbage", body: `{"name": "X"} garbage`},
		{name: "second document", body: `{"name": "X"}{"name": "Y"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := inmemory.NewProfileRepository()
			h := newTestHandlers(repo, true)

			req := httptest.NewRequest(http.MethodPost, "/update-profile", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			rec := httptest.NewRecorder()
			h.UpdateProfile(rec, req)

			require.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, map[string]any{"error": "invalid request body"}, decodeBody(t, rec))

			_, err := repo.GetByUserID(context.Background(), profiledomain.SingletonUserID)
			assert.ErrorIs(t, err, profiledomain.ErrProfileNotFound, "rejected body must not be stored")
		})
	}
}

func TestUpdateProfileStoreDown(t *testing.T) {
	h := newTestHandlers(failingRepo{}, true)

	req := httptest.NewRequest(http.MethodPost, "/update-profile", strings.NewReader(`{"name": "X"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.UpdateProfile(rec, req)

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, map[string]any{"error": "Database operation failed"}, decodeBody(t, rec))
}

func TestGetProfileSources(t *testing.T) {
	tests := []struct {
		name           string
		repo           profiledomain.Repository
		mask           bool
		expectedStatus int
		expectedSource string
		expectedBody   map[string]any
	}{
		{
			name:           "default when absent",
			repo:           inmemory.NewProfileRepository(),
			mask:           true,
			expectedStatus: http.StatusOK,
			expectedSource: "default",
			expectedBody: map[string]any{
				"name":      "Anna Smith",
				"email":     "anna.smith@example.com",
				"interests": "coding",
			},
		},
		{
			name:           "fallback when store down",
			repo:           failingRepo{},
			mask:           true,
			expectedStatus: http.StatusOK,
			expectedSource: "fallback",
			expectedBody: map[string]any{
				"name":      "Anna Smith",
				"email":     "anna.smith@example.com",
				"interests": "coding",
			},
		},
		{
			name:           "unavailable when masking disabled",
			repo:           failingRepo{},
			mask:           false,
			expectedStatus: http.StatusServiceUnavailable,
			expectedSource: "fallback",
			expectedBody:   map[string]any{"error": "Database operation failed"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newTestHandlers(tt.repo, tt.mask)

			rec := httptest.NewRecorder()
			h.GetProfile(rec, httptest.NewRequest(http.MethodGet, "/get-profile", nil))

			require.Equal(t, tt.expectedStatus, rec.Code)
			assert.Equal(t, tt.expectedSource, rec.Header().Get(ProfileSourceHeader))
			assert.Equal(t, tt.expectedBody, decodeBody(t, rec))
		})
	}
}

func TestHealth(t *testing.T) {
	rec := httptest.NewRecorder()
	newTestHandlers(inmemory.NewProfileRepository(), true).Health(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, map[string]any{"status": "ok"}, decodeBody(t, rec))

	rec = httptest.NewRecorder()
	newTestHandlers(failingRepo{}, true).Health(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, map[string]any{"status": "unavailable"}, decodeBody(t, rec))
}

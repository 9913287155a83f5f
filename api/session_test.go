package api_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/linesmerrill/lexmatch-api/api"
	"github.com/linesmerrill/lexmatch-api/databases"
	"github.com/linesmerrill/lexmatch-api/models"
)

func newSessions(t *testing.T) *api.SessionManager {
	users := databases.NewUserDatabase(
		models.User{ID: "client-1", Name: "Alex Founder", Role: models.RoleClient, Company: "TechStartup Inc."},
		models.User{ID: "lawyer-1", Name: "Jessica Pearson", Role: models.RoleLawyer},
	)
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	return api.NewSessionManager(ctx, "test-secret", time.Hour, users)
}

func whoAmI(t *testing.T) (http.Handler, *models.User) {
	var seen models.User
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := api.UserFromContext(r.Context())
		assert.True(t, ok)
		seen = user
		w.WriteHeader(http.StatusNoContent)
	}), &seen
}

func TestSessionManager_IssueAndAuthenticate(t *testing.T) {
	s := newSessions(t)

	session, err := s.Issue(httptest.NewRequest("POST", "/api/v1/session", nil), models.RoleLawyer)
	require.NoError(t, err)
	assert.Equal(t, "lawyer-1", session.User.ID)
	assert.NotEmpty(t, session.Token)

	next, seen := whoAmI(t)
	req := httptest.NewRequest("GET", "/api/v1/me", nil)
	req.Header.Set("Authorization", "Bearer "+session.Token)
	rr := httptest.NewRecorder()
	s.Middleware(next).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusNoContent, rr.Code)
	assert.Equal(t, "Jessica Pearson", seen.Name)
}

func TestSessionManager_QueryToken(t *testing.T) {
	s := newSessions(t)
	session, err := s.Issue(httptest.NewRequest("POST", "/api/v1/session", nil), models.RoleClient)
	require.NoError(t, err)

	next, seen := whoAmI(t)
	req := httptest.NewRequest("GET", "/api/v1/intake/tasks/1/ws?access_token="+session.Token, nil)
	rr := httptest.NewRecorder()
	s.StreamMiddleware(next).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusNoContent, rr.Code)
	assert.Equal(t, "client-1", seen.ID)
}

func TestSessionManager_QueryTokenOnlyOnStreams(t *testing.T) {
	s := newSessions(t)
	session, err := s.Issue(httptest.NewRequest("POST", "/api/v1/session", nil), models.RoleClient)
	require.NoError(t, err)

	next, _ := whoAmI(t)
	req := httptest.NewRequest("GET", "/api/v1/me?access_token="+session.Token, nil)
	rr := httptest.NewRecorder()
	s.Middleware(next).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestSessionManager_Rejects(t *testing.T) {
	s := newSessions(t)
	next, _ := whoAmI(t)

	forged, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "client-1"}).SignedString([]byte("other"))
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
	}{
		{"no token", ""},
		{"unknown token", "Bearer not-a-session"},
		{"basic auth", "Basic YWxleDpwYXNz"},
		{"forged token", "Bearer " + forged},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/api/v1/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rr := httptest.NewRecorder()
			s.Middleware(next).ServeHTTP(rr, req)
			assert.Equal(t, http.StatusUnauthorized, rr.Code)
			assert.Contains(t, rr.Body.String(), `"Message":"unauthorized"`)
		})
	}
}

func TestSessionManager_Revoke(t *testing.T) {
	s := newSessions(t)
	session, err := s.Issue(httptest.NewRequest("POST", "/api/v1/session", nil), models.RoleClient)
	require.NoError(t, err)

	req := httptest.NewRequest("DELETE", "/api/v1/session", nil)
	req.Header.Set("Authorization", "Bearer "+session.Token)
	require.NoError(t, s.Revoke(req))

	next, _ := whoAmI(t)
	rr := httptest.NewRecorder()
	s.Middleware(next).ServeHTTP(rr, req)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	assert.ErrorIs(t, s.Revoke(httptest.NewRequest("DELETE", "/api/v1/session", nil)), api.ErrNoSession)
}

func TestSessionManager_InvalidRole(t *testing.T) {
	s := newSessions(t)
	_, err := s.Issue(httptest.NewRequest("POST", "/api/v1/session", nil), models.Role("ADMIN"))
	assert.ErrorIs(t, err, api.ErrInvalidRole)
}

func TestTokenFromRequest(t *testing.T) {
	req := httptest.NewRequest("GET", "/?access_token=abc", nil)
	assert.Equal(t, "", api.TokenFromRequest(req))

	req.Header.Set("Authorization", "Bearer xyz")
	assert.Equal(t, "xyz", api.TokenFromRequest(req))

	req.Header.Set("Authorization", "Basic xyz")
	assert.Equal(t, "", api.TokenFromRequest(req))
}

package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/shaj13/go-guardian/auth"
	"github.com/shaj13/go-guardian/auth/strategies/bearer"
	"github.com/shaj13/go-guardian/store"
	"go.uber.org/zap"

	"github.com/linesmerrill/lexmatch-api/config"
	"github.com/linesmerrill/lexmatch-api/databases"
	"github.com/linesmerrill/lexmatch-api/models"
)

// AccessTokenParam carries the session token for browser websockets, which
// cannot set headers. Only StreamMiddleware reads it.
const AccessTokenParam = "access_token"

var (
	// ErrInvalidRole is returned when a session is requested for an unknown role
	ErrInvalidRole = errors.New("role must be CLIENT or LAWYER")
	// ErrNoSession is returned when a request carries no usable token
	ErrNoSession = errors.New("no session token")
)

// SessionManager issues persona sessions and authenticates requests. A
// session is a signed JWT that is also registered in a go-guardian token
// cache, so revoking it takes effect before it expires.
type SessionManager struct {
	authenticator auth.Authenticator
	strategy      auth.Strategy
	secret        []byte
	ttl           time.Duration
	users         databases.UserDatabase
	now           func() time.Time
}

// NewSessionManager sets up go-guardian with a cached bearer strategy. An
// empty secret is replaced with a random one, which invalidates sessions on
// restart.
func NewSessionManager(ctx context.Context, secret string, ttl time.Duration, users databases.UserDatabase) *SessionManager {
	if secret == "" {
		zap.S().Warnw("SESSION_SECRET not set, using a random secret")
		secret = uuid.NewString()
	}
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}

	cache := store.NewFIFO(ctx, ttl)
	strategy := bearer.New(bearer.NoOpAuthenticate, cache)
	authenticator := auth.New()
	authenticator.EnableStrategy(bearer.CachedStrategyKey, strategy)

	return &SessionManager{
		authenticator: authenticator,
		strategy:      strategy,
		secret:        []byte(secret),
		ttl:           ttl,
		users:         users,
		now:           time.Now,
	}
}

// Issue starts a session as the persona registered for role
func (s *SessionManager) Issue(r *http.Request, role models.Role) (*models.SessionResponse, error) {
	if !role.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidRole, role)
	}
	user, err := s.users.FindByRole(r.Context(), role)
	if err != nil {
		return nil, err
	}

	now := s.now()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  user.ID,
		"role": string(user.Role),
		"name": user.Name,
		"jti":  uuid.NewString(),
		"iat":  now.Unix(),
		"exp":  now.Add(s.ttl).Unix(),
	}).SignedString(s.secret)
	if err != nil {
		return nil, fmt.Errorf("sign session token: %w", err)
	}

	info := auth.NewDefaultUser(user.Name, user.ID, []string{string(user.Role)}, nil)
	if err := auth.Append(s.strategy, token, info, r); err != nil {
		return nil, fmt.Errorf("register session token: %w", err)
	}
	zap.S().Infow("session issued", "userID", user.ID, "role", user.Role)
	return &models.SessionResponse{Token: token, User: *user}, nil
}

// Revoke ends the session carried by r
func (s *SessionManager) Revoke(r *http.Request) error {
	token := TokenFromRequest(r)
	if token == "" {
		return ErrNoSession
	}
	return auth.Revoke(s.strategy, token, r)
}

// Middleware authenticates the request from its Authorization header and
// stores the session user on its context
func (s *SessionManager) Middleware(next http.Handler) http.Handler {
	return s.authenticate(next, false)
}

// StreamMiddleware is Middleware that also accepts the access_token query
// parameter. Use it only on websocket routes.
func (s *SessionManager) StreamMiddleware(next http.Handler) http.Handler {
	return s.authenticate(next, true)
}

func (s *SessionManager) authenticate(next http.Handler, allowQuery bool) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := TokenFromRequest(r)
		if token == "" && allowQuery && r.Header.Get("Authorization") == "" {
			token = r.URL.Query().Get(AccessTokenParam)
		}
		if token == "" {
			config.ErrorStatus("unauthorized", http.StatusUnauthorized, w, ErrNoSession)
			return
		}
		if r.Header.Get("Authorization") == "" {
			r = r.Clone(r.Context())
			r.Header.Set("Authorization", "Bearer "+token)
		}

		info, err := s.authenticator.Authenticate(r)
		if err != nil {
			config.ErrorStatus("unauthorized", http.StatusUnauthorized, w, err)
			return
		}
		if err := s.verify(token, info.ID()); err != nil {
			_ = auth.Revoke(s.strategy, token, r)
			config.ErrorStatus("unauthorized", http.StatusUnauthorized, w, err)
			return
		}
		user, err := s.users.FindOne(r.Context(), info.ID())
		if err != nil {
			config.ErrorStatus("unauthorized", http.StatusUnauthorized, w, err)
			return
		}
		zap.S().Debugf("User %s Authenticated", user.Name)
		next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), *user)))
	})
}

func (s *SessionManager) verify(token, userID string) error {
	claims := jwt.MapClaims{}
	_, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(s.now))
	if err != nil {
		return fmt.Errorf("invalid session token: %w", err)
	}
	sub, err := claims.GetSubject()
	if err != nil || sub != userID {
		return errors.New("invalid session token: subject mismatch")
	}
	return nil
}

// TokenFromRequest reads the bearer token from the Authorization header
func TokenFromRequest(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if !strings.HasPrefix(h, "Bearer ") {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
}

package auth

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/utsav-books/utsav-books/internal/platform/httpx"
)

const sessionPrefix = "utsav:session:"

// ErrSessionsUnavailable is returned when the session store has no Redis
// connection, so logins and guarded requests fail cleanly instead of
// panicking on a nil client.
var ErrSessionsUnavailable = errors.New("auth: session store unavailable")

// SessionManager issues and validates cookie-backed operator sessions
// stored in Redis.
type SessionManager struct {
	client     *redis.Client
	cookieName string
	ttl        time.Duration
	secure     bool
}

// NewSessionManager constructs a SessionManager.
func NewSessionManager(client *redis.Client, cookieName string, ttl time.Duration, secure bool) *SessionManager {
	return &SessionManager{client: client, cookieName: cookieName, ttl: ttl, secure: secure}
}

// Issue creates a session and sets its cookie.
func (sm *SessionManager) Issue(ctx context.Context, w http.ResponseWriter) error {
	if sm.client == nil {
		return ErrSessionsUnavailable
	}
	id := uuid.NewString()
	if err := sm.client.Set(ctx, sessionPrefix+id, "operator", sm.ttl).Err(); err != nil {
		return err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     sm.cookieName,
		Value:    id,
		Path:     "/",
		MaxAge:   int(sm.ttl.Seconds()),
		HttpOnly: true,
		Secure:   sm.secure,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// Validate reports whether the request carries a live session.
func (sm *SessionManager) Validate(ctx context.Context, r *http.Request) (bool, error) {
	if sm.client == nil {
		return false, ErrSessionsUnavailable
	}
	cookie, err := r.Cookie(sm.cookieName)
	if err != nil {
		if errors.Is(err, http.ErrNoCookie) {
			return false, nil
		}
		return false, err
	}
	err = sm.client.Get(ctx, sessionPrefix+cookie.Value).Err()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// Destroy removes the session and expires its cookie.
func (sm *SessionManager) Destroy(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	if sm.client == nil {
		return ErrSessionsUnavailable
	}
	cookie, err := r.Cookie(sm.cookieName)
	if err != nil {
		if errors.Is(err, http.ErrNoCookie) {
			return nil
		}
		return err
	}
	if err := sm.client.Del(ctx, sessionPrefix+cookie.Value).Err(); err != nil && !errors.Is(err, redis.Nil) {
		return err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     sm.cookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   sm.secure,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// Require rejects requests without a live session.
func (sm *SessionManager) Require(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ok, err := sm.Validate(r.Context(), r)
		if errors.Is(err, ErrSessionsUnavailable) {
			httpx.Problem(w, http.StatusServiceUnavailable, "Service Unavailable", "sessions unavailable")
			return
		}
		if err != nil {
			httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
			return
		}
		if !ok {
			httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", "login required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

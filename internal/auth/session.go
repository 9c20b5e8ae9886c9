package auth

import (
	"context"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/realtyflow/api/internal/domain/user"
	"github.com/realtyflow/api/internal/repo/postgres"
)

const CookieName = "realtyflow_session"

var (
	ErrNoSession      = errors.New("no valid session")
	ErrSessionExpired = errors.New("session expired")
)

// SessionStore is the slice of the sessions repo the manager needs; kept
// small so tests can fake it.
type SessionStore interface {
	Create(ctx context.Context, row postgres.SessionRow) error
	GetWithUser(ctx context.Context, tokenHash string) (postgres.SessionRow, user.User, error)
	Delete(ctx context.Context, tokenHash string) error
}

// Sessions issues opaque tokens and resolves them back to users. The raw
// token only ever lives in the cookie; the store sees an HMAC-SHA256 hash,
// so a leaked sessions table cannot be replayed.
type Sessions struct {
	store  SessionStore
	secret []byte
	ttl    time.Duration
}

func NewSessions(store SessionStore, secret string, ttl time.Duration) *Sessions {
	if ttl <= 0 {
		ttl = 7 * 24 * time.Hour
	}

	return &Sessions{
		store:  store,
		secret: []byte(secret),
		ttl:    ttl,
	}
}

func (s *Sessions) TTL() time.Duration {
	return s.ttl
}

// Issue transitions the caller from Anonymous to Authenticated: a fresh
// random token is minted and its hash persisted against the user id.
func (s *Sessions) Issue(ctx context.Context, userID string) (raw string, expiresAt time.Time, err error) {
	buf := make([]byte, 32)

	if _, err = rand.Read(buf); err != nil {
		return "", time.Time{}, err
	}

	raw = hex.EncodeToString(buf)
	now := time.Now().UTC()
	expiresAt = now.Add(s.ttl)

	row := postgres.SessionRow{
		ID:        uuid.NewString(),
		UserID:    userID,
		TokenHash: s.HashToken(raw),
		ExpiresAt: expiresAt,
		CreatedAt: now,
	}

	if err = s.store.Create(ctx, row); err != nil {
		return "", time.Time{}, err
	}

	return raw, expiresAt, nil
}

// Verify resolves a raw cookie token to its user. Expired rows are reaped
// on sight and reported as no-session.
func (s *Sessions) Verify(ctx context.Context, raw string) (user.User, error) {
	if raw == "" {
		return user.User{}, ErrNoSession
	}

	hash := s.HashToken(raw)

	row, u, err := s.store.GetWithUser(ctx, hash)

	if err != nil {
		if errors.Is(err, postgres.ErrSessionNotFound) {
			return user.User{}, ErrNoSession
		}
		return user.User{}, err
	}

	if time.Now().UTC().After(row.ExpiresAt) {
		_ = s.store.Delete(ctx, hash)
		return user.User{}, ErrSessionExpired
	}

	return u, nil
}

// Revoke destroys the session behind a raw token. Idempotent.
func (s *Sessions) Revoke(ctx context.Context, raw string) error {
	if raw == "" {
		return nil
	}

	return s.store.Delete(ctx, s.HashToken(raw))
}

// Deterministic HMAC hash; only hashes are stored, never raw tokens.
func (s *Sessions) HashToken(raw string) string {
	h := hmac.New(sha256.New, s.secret)
	h.Write([]byte(raw))
	return hex.EncodeToString(h.Sum(nil))
}

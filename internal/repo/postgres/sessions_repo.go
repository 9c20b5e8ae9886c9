package postgres

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/realtyflow/api/internal/domain/user"
	"github.com/realtyflow/api/internal/observability"
)

var ErrSessionNotFound = errors.New("session not found")

type SessionRow struct {
	ID        string
	UserID    string
	TokenHash string
	ExpiresAt time.Time
	CreatedAt time.Time
}

// SessionsRepo provisions its own backing table on first use, the way the
// original deployment's session store did.
type SessionsRepo struct {
	pool *pgxpool.Pool
	obs  *observability.Prom

	provision sync.Once
	provErr   error
}

func NewSessionsRepo(pool *pgxpool.Pool, obs *observability.Prom) *SessionsRepo {
	return &SessionsRepo{pool: pool, obs: obs}
}

func (r *SessionsRepo) ensureTable(ctx context.Context) error {
	r.provision.Do(func() {
		_, r.provErr = r.pool.Exec(ctx, `
			CREATE TABLE IF NOT EXISTS sessions (
				id TEXT PRIMARY KEY,
				user_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
				token_hash TEXT NOT NULL UNIQUE,
				expires_at TIMESTAMPTZ NOT NULL,
				created_at TIMESTAMPTZ NOT NULL
			)`)
	})

	return r.provErr
}

func (r *SessionsRepo) Create(ctx context.Context, row SessionRow) error {
	if err := r.ensureTable(ctx); err != nil {
		return err
	}

	return r.obs.ObserveDB("sessions.create", func() error {
		_, err := r.pool.Exec(ctx,
			`INSERT INTO sessions (id, user_id, token_hash, expires_at, created_at)
			VALUES ($1,$2,$3,$4,$5)`,
			row.ID, row.UserID, row.TokenHash, row.ExpiresAt, row.CreatedAt,
		)
		return err
	})
}

// GetWithUser resolves a token hash to its session and owner in one round
// trip; the auth middleware runs this on every authenticated request.
func (r *SessionsRepo) GetWithUser(ctx context.Context, tokenHash string) (SessionRow, user.User, error) {
	if err := r.ensureTable(ctx); err != nil {
		return SessionRow{}, user.User{}, err
	}

	var s SessionRow
	var u user.User

	err := r.obs.ObserveDB("sessions.get_with_user", func() error {
		return r.pool.QueryRow(ctx,
			`SELECT s.id, s.user_id, s.token_hash, s.expires_at, s.created_at,
				u.id, u.username, u.password_hash, u.role, u.email, u.full_name, u.created_at
			FROM sessions s
			JOIN users u ON u.id = s.user_id
			WHERE s.token_hash = $1`,
			tokenHash,
		).Scan(
			&s.ID, &s.UserID, &s.TokenHash, &s.ExpiresAt, &s.CreatedAt,
			&u.ID, &u.Username, &u.PasswordHash, &u.Role, &u.Email, &u.FullName, &u.CreatedAt,
		)
	})

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return SessionRow{}, user.User{}, ErrSessionNotFound
		}
		return SessionRow{}, user.User{}, err
	}

	return s, u, nil
}

// Delete destroys one session. Logout of an already-destroyed session is
// not an error.
func (r *SessionsRepo) Delete(ctx context.Context, tokenHash string) error {
	if err := r.ensureTable(ctx); err != nil {
		return err
	}

	return r.obs.ObserveDB("sessions.delete", func() error {
		_, err := r.pool.Exec(ctx, `DELETE FROM sessions WHERE token_hash = $1`, tokenHash)
		return err
	})
}

func (r *SessionsRepo) DeleteExpired(ctx context.Context) error {
	if err := r.ensureTable(ctx); err != nil {
		return err
	}

	return r.obs.ObserveDB("sessions.delete_expired", func() error {
		_, err := r.pool.Exec(ctx, `DELETE FROM sessions WHERE expires_at < NOW()`)
		return err
	})
}

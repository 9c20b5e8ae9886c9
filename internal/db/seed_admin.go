package db

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/realtyflow/api/internal/config"
	"github.com/realtyflow/api/internal/domain/user"
	"github.com/realtyflow/api/internal/security"
)

// EnsureAdminUser creates the seed admin when SEED_ADMIN_USERNAME and
// SEED_ADMIN_PASSWORD are configured and the username does not exist yet.
func EnsureAdminUser(ctx context.Context, pool *pgxpool.Pool, cfg config.Config) error {
	if cfg.AdminUsername == "" || cfg.AdminPassword == "" {
		return nil
	}

	// check if the user exists

	var dummy string

	err := pool.QueryRow(ctx, `SELECT id FROM users WHERE username = $1`, cfg.AdminUsername).Scan(&dummy)

	if err == nil {
		return nil
	}

	if !errors.Is(err, pgx.ErrNoRows) {
		return err
	}

	hash, err := security.HashPassword(cfg.AdminPassword)

	if err != nil {
		return err
	}

	var email *string
	if cfg.AdminEmail != "" {
		email = &cfg.AdminEmail
	}

	fullName := "Admin"

	u := user.User{
		ID:           uuid.NewString(),
		Username:     cfg.AdminUsername,
		PasswordHash: hash,
		Role:         user.RoleAdmin,
		Email:        email,
		FullName:     &fullName,
		CreatedAt:    time.Now().UTC(),
	}

	_, err = pool.Exec(ctx,
		`INSERT INTO users (id, username, password_hash, role, email, full_name, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
		`,
		u.ID, u.Username, u.PasswordHash, u.Role, u.Email, u.FullName, u.CreatedAt,
	)

	return err
}

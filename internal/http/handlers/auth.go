package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/realtyflow/api/internal/auth"
	"github.com/realtyflow/api/internal/config"
	"github.com/realtyflow/api/internal/domain/user"
	"github.com/realtyflow/api/internal/http/middlewares"
	"github.com/realtyflow/api/internal/repo/postgres"
	"github.com/realtyflow/api/internal/security"
)

type UserReader interface {
	GetByID(ctx context.Context, id string) (user.User, error)
	GetByUsername(ctx context.Context, username string) (user.User, error)
}

type UserWriter interface {
	Create(ctx context.Context, username, passwordHash, role string, email, fullName *string) (user.User, error)
}

type AuthHandler struct {
	users      UserReader
	userWriter UserWriter
	sessions   *auth.Sessions
	cfg        config.Config
}

func NewAuthHandler(users UserReader, userWriter UserWriter, sessions *auth.Sessions, cfg config.Config) *AuthHandler {
	return &AuthHandler{
		users:      users,
		userWriter: userWriter,
		sessions:   sessions,
		cfg:        cfg,
	}
}

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type RegisterRequest struct {
	Username string  `json:"username" binding:"required,min=3,max=80"`
	Password string  `json:"password" binding:"required,min=6"`
	Email    *string `json:"email" binding:"omitempty,email"`
	FullName *string `json:"fullName" binding:"omitempty,max=200"`
}

// Register creates the account and immediately authenticates it; there is
// no separate login step after signing up.
func (h *AuthHandler) Register(ctx *gin.Context) {
	var req RegisterRequest

	if !BindJSON(ctx, &req) {
		return
	}

	cctx, cancel := config.WithTimeout(3 * time.Second)

	defer cancel()

	hash, err := security.HashPassword(req.Password)

	if err != nil {
		RespondInternal(ctx, "Could not create user")
		return
	}

	// registration never grants admin
	u, err := h.userWriter.Create(cctx, req.Username, hash, user.RoleUser, req.Email, req.FullName)

	if err != nil {
		if errors.Is(err, postgres.ErrUsernameTaken) {
			RespondError(ctx, http.StatusBadRequest, "username_taken", "Username is already in use.", nil)
			return
		}

		RespondInternal(ctx, "Could not create user")
		return
	}

	raw, expiresAt, err := h.sessions.Issue(cctx, u.ID)

	if err != nil {
		RespondInternal(ctx, "Could not create session")
		return
	}

	h.setSessionCookie(ctx, raw, expiresAt)

	ctx.JSON(http.StatusCreated, u)
}

// Login fails identically for an unknown username and a wrong password.
func (h *AuthHandler) Login(ctx *gin.Context) {
	var req LoginRequest

	if !BindJSON(ctx, &req) {
		return
	}

	cctx, cancel := config.WithTimeout(2 * time.Second)
	defer cancel()

	foundUser, err := h.users.GetByUsername(cctx, req.Username)
	if err != nil {
		RespondUnAuthorized(ctx, "invalid_credentials", "Username or password is incorrect.")
		return
	}

	err = security.CheckPassword(foundUser.PasswordHash, req.Password)

	if err != nil {
		RespondUnAuthorized(ctx, "invalid_credentials", "Username or password is incorrect.")
		return
	}

	raw, expiresAt, err := h.sessions.Issue(cctx, foundUser.ID)

	if err != nil {
		RespondInternal(ctx, "Could not create session")
		return
	}

	h.setSessionCookie(ctx, raw, expiresAt)

	ctx.JSON(http.StatusOK, foundUser)
}

// Logout destroys the server-side session and clears the cookie. Both
// steps are idempotent.
func (h *AuthHandler) Logout(ctx *gin.Context) {
	raw, err := ctx.Cookie(auth.CookieName)

	if err == nil && raw != "" {
		cctx, cancel := config.WithTimeout(3 * time.Second)
		defer cancel()

		_ = h.sessions.Revoke(cctx, raw)
	}

	h.clearSessionCookie(ctx)
	ctx.Status(http.StatusNoContent)
}

// Me returns the authenticated user; RequireAuth has already resolved the
// session.
func (h *AuthHandler) Me(ctx *gin.Context) {
	id, ok := middlewares.UserIDFromContext(ctx)

	if !ok || id == "" {
		RespondUnAuthorized(ctx, "unauthorized", "Authentication required")
		return
	}

	cctx, cancel := config.WithTimeout(2 * time.Second)
	defer cancel()

	u, err := h.users.GetByID(cctx, id)

	if err != nil {
		RespondInternal(ctx, "Could not load user")
		return
	}

	ctx.JSON(http.StatusOK, u)
}

func (h *AuthHandler) setSessionCookie(ctx *gin.Context, raw string, expiresAt time.Time) {
	secure := h.cfg.Env == "prod"

	maxAge := int(time.Until(expiresAt).Seconds())

	ctx.SetSameSite(http.SameSiteLaxMode)

	ctx.SetCookie(
		auth.CookieName,
		raw,
		maxAge,
		"/",
		"",
		secure,
		true, // HttpOnly
	)
}

func (h *AuthHandler) clearSessionCookie(ctx *gin.Context) {
	secure := h.cfg.Env == "prod"
	ctx.SetSameSite(http.SameSiteLaxMode)
	ctx.SetCookie(
		auth.CookieName,
		"",
		-1,
		"/",
		"",
		secure,
		true,
	)
}

package middlewares_test

import (
	"bytes"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/realtyflow/api/internal/auth"
	"github.com/realtyflow/api/internal/domain/user"
	"github.com/realtyflow/api/internal/http/middlewares"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeVerifier struct {
	user user.User
	err  error
}

func (f fakeVerifier) Verify(ctx *gin.Context, raw string) (user.User, error) {
	return f.user, f.err
}

func TestRequireAuth(t *testing.T) {
	tests := []struct {
		name           string
		cookie         string
		verifier       fakeVerifier
		wantStatusCode int
	}{
		{
			name:           "no_cookie",
			verifier:       fakeVerifier{},
			wantStatusCode: http.StatusUnauthorized,
		},
		{
			name:           "stale_session",
			cookie:         "deadbeef",
			verifier:       fakeVerifier{err: auth.ErrNoSession},
			wantStatusCode: http.StatusUnauthorized,
		},
		{
			name:           "expired_session",
			cookie:         "deadbeef",
			verifier:       fakeVerifier{err: auth.ErrSessionExpired},
			wantStatusCode: http.StatusUnauthorized,
		},
		{
			name:           "store_error",
			cookie:         "deadbeef",
			verifier:       fakeVerifier{err: errors.New("db down")},
			wantStatusCode: http.StatusUnauthorized,
		},
		{
			name:   "valid_session",
			cookie: "deadbeef",
			verifier: fakeVerifier{user: user.User{
				ID: "u1", Username: "alice", Role: user.RoleUser,
			}},
			wantStatusCode: http.StatusOK,
		},
	}

	for _, tt := range tests {
		tt := tt

		t.Run(tt.name, func(t *testing.T) {
			m := middlewares.NewAuthMiddlewareWithVerifier(tt.verifier)

			r := gin.New()
			r.GET("/protected", m.RequireAuth(), func(c *gin.Context) {
				id, _ := middlewares.UserIDFromContext(c)
				role, _ := middlewares.RoleFromContext(c)
				c.JSON(http.StatusOK, gin.H{"id": id, "role": role})
			})

			req := httptest.NewRequest(http.MethodGet, "/protected", nil)

			if tt.cookie != "" {
				req.AddCookie(&http.Cookie{Name: auth.CookieName, Value: tt.cookie})
			}

			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			if w.Code != tt.wantStatusCode {
				t.Fatalf("got status %d, want %d, body=%s", w.Code, tt.wantStatusCode, w.Body.String())
			}
		})
	}
}

// The three rejection modes must be byte-identical so callers cannot probe
// for which one they hit.
func TestRequireAuthFailuresAreIndistinguishable(t *testing.T) {
	bodies := map[string]bool{}

	for _, v := range []fakeVerifier{
		{err: auth.ErrNoSession},
		{err: auth.ErrSessionExpired},
		{err: errors.New("db down")},
	} {
		m := middlewares.NewAuthMiddlewareWithVerifier(v)

		r := gin.New()
		r.GET("/protected", m.RequireAuth(), func(c *gin.Context) {
			c.Status(http.StatusOK)
		})

		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.AddCookie(&http.Cookie{Name: auth.CookieName, Value: "deadbeef"})
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		bodies[w.Body.String()] = true
	}

	if len(bodies) != 1 {
		t.Fatalf("rejection bodies differ: %v", bodies)
	}
}

func TestRequirePermission(t *testing.T) {
	tests := []struct {
		name           string
		role           string
		action         auth.Action
		wantStatusCode int
	}{
		{name: "admin_create", role: user.RoleAdmin, action: auth.ActionCreateListing, wantStatusCode: http.StatusOK},
		{name: "admin_delete", role: user.RoleAdmin, action: auth.ActionDeleteListing, wantStatusCode: http.StatusOK},
		{name: "user_create", role: user.RoleUser, action: auth.ActionCreateListing, wantStatusCode: http.StatusForbidden},
		{name: "user_update", role: user.RoleUser, action: auth.ActionUpdateListing, wantStatusCode: http.StatusForbidden},
		{name: "user_view", role: user.RoleUser, action: auth.ActionViewListings, wantStatusCode: http.StatusOK},
		{name: "unknown_role_delete", role: "auditor", action: auth.ActionDeleteListing, wantStatusCode: http.StatusForbidden},
	}

	for _, tt := range tests {
		tt := tt

		t.Run(tt.name, func(t *testing.T) {
			m := middlewares.NewAuthMiddlewareWithVerifier(fakeVerifier{user: user.User{
				ID: "u1", Username: "x", Role: tt.role,
			}})

			r := gin.New()
			r.POST("/x", m.RequireAuth(), m.RequirePermission(tt.action), func(c *gin.Context) {
				c.Status(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodPost, "/x", nil)
			req.AddCookie(&http.Cookie{Name: auth.CookieName, Value: "deadbeef"})
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			if w.Code != tt.wantStatusCode {
				t.Fatalf("got status %d, want %d", w.Code, tt.wantStatusCode)
			}
		})
	}
}

// A non-admin sending garbage still gets 403, never 400: authorization is
// decided before the body is ever read.
func TestForbiddenWinsOverInvalidBody(t *testing.T) {
	m := middlewares.NewAuthMiddlewareWithVerifier(fakeVerifier{user: user.User{
		ID: "u1", Username: "alice", Role: user.RoleUser,
	}})

	bodyRead := false

	r := gin.New()
	r.POST("/properties", m.RequireAuth(), m.RequirePermission(auth.ActionCreateListing), func(c *gin.Context) {
		bodyRead = true
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodPost, "/properties", bytes.NewBufferString(`{"title": 42}`))
	req.Header.Set("Content-Type", "application/json")
	req.AddCookie(&http.Cookie{Name: auth.CookieName, Value: "deadbeef"})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusForbidden {
		t.Fatalf("got status %d, want 403", w.Code)
	}

	if bodyRead {
		t.Fatal("handler ran for a forbidden caller")
	}
}

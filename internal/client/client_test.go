package client_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/realtyflow/api/internal/cache"
	"github.com/realtyflow/api/internal/client"
	"github.com/realtyflow/api/internal/domain/property"
)

// fakeAPI is a minimal stand-in for the real server: an in-memory catalog
// behind the same routes, envelopes and status codes.
type fakeAPI struct {
	mu        sync.Mutex
	props     map[string]property.Property
	listCalls int
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{props: map[string]property.Property{}}
}

func (a *fakeAPI) handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /properties", func(w http.ResponseWriter, r *http.Request) {
		a.mu.Lock()
		defer a.mu.Unlock()

		a.listCalls++

		items := make([]property.Property, 0, len(a.props))
		for _, p := range a.props {
			items = append(items, p)
		}

		writeJSON(w, http.StatusOK, map[string]any{"items": items, "count": len(items)})
	})

	mux.HandleFunc("GET /properties/{id}", func(w http.ResponseWriter, r *http.Request) {
		a.mu.Lock()
		defer a.mu.Unlock()

		p, ok := a.props[r.PathValue("id")]

		if !ok {
			writeError(w, http.StatusNotFound, "not_found", "Property not found")
			return
		}

		writeJSON(w, http.StatusOK, p)
	})

	mux.HandleFunc("POST /properties", func(w http.ResponseWriter, r *http.Request) {
		if !a.authed(r) {
			writeError(w, http.StatusUnauthorized, "unauthorized", "Authentication required")
			return
		}

		var req property.CreateRequest

		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_json", "Malformed body")
			return
		}

		p := property.NewFromCreateRequest(req, "admin-id")

		a.mu.Lock()
		a.props[p.ID] = p
		a.mu.Unlock()

		writeJSON(w, http.StatusCreated, p)
	})

	mux.HandleFunc("DELETE /properties/{id}", func(w http.ResponseWriter, r *http.Request) {
		if !a.authed(r) {
			writeError(w, http.StatusUnauthorized, "unauthorized", "Authentication required")
			return
		}

		a.mu.Lock()
		delete(a.props, r.PathValue("id"))
		a.mu.Unlock()

		w.WriteHeader(http.StatusNoContent)
	})

	mux.HandleFunc("POST /auth/login", func(w http.ResponseWriter, r *http.Request) {
		var creds struct {
			Username string `json:"username"`
			Password string `json:"password"`
		}

		_ = json.NewDecoder(r.Body).Decode(&creds)

		if creds.Username != "admin" || creds.Password != "admin123456" {
			writeError(w, http.StatusUnauthorized, "invalid_credentials", "Username or password is incorrect.")
			return
		}

		http.SetCookie(w, &http.Cookie{
			Name:     "realtyflow_session",
			Value:    "session-token",
			Path:     "/",
			HttpOnly: true,
		})

		writeJSON(w, http.StatusOK, map[string]any{"id": "admin-id", "username": "admin", "role": "admin"})
	})

	mux.HandleFunc("POST /auth/logout", func(w http.ResponseWriter, r *http.Request) {
		http.SetCookie(w, &http.Cookie{Name: "realtyflow_session", Value: "", Path: "/", MaxAge: -1})
		w.WriteHeader(http.StatusNoContent)
	})

	return mux
}

func (a *fakeAPI) authed(r *http.Request) bool {
	c, err := r.Cookie("realtyflow_session")
	return err == nil && c.Value == "session-token"
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, map[string]any{"error": map[string]any{"code": code, "message": message}})
}

func demoCreateRequest() property.CreateRequest {
	return property.CreateRequest{
		Title:        "Modern Family Home",
		Description:  "Spacious 4-bedroom home with open floor plan and sunny backyard.",
		Price:        "850000",
		Address:      "123 Maple St",
		City:         "San Mateo",
		State:        "CA",
		ZipCode:      "94401",
		PropertyType: "house",
		Bedrooms:     4,
		Bathrooms:    "2.5",
		SquareFeet:   2150,
	}
}

func TestListUsesCacheUntilWriteInvalidates(t *testing.T) {
	api := newFakeAPI()
	srv := httptest.NewServer(api.handler())
	defer srv.Close()

	c, err := client.New(srv.URL, cache.NewMemory(time.Minute))

	if err != nil {
		t.Fatalf("new client: %v", err)
	}

	ctx := context.Background()

	if _, err := c.Login(ctx, "admin", "admin123456"); err != nil {
		t.Fatalf("login: %v", err)
	}

	if _, err := c.ListProperties(ctx); err != nil {
		t.Fatalf("list: %v", err)
	}
	if _, err := c.ListProperties(ctx); err != nil {
		t.Fatalf("list: %v", err)
	}

	if api.listCalls != 1 {
		t.Fatalf("server hit %d times, want 1 (second read cached)", api.listCalls)
	}

	created, err := c.CreateProperty(ctx, demoCreateRequest())

	if err != nil {
		t.Fatalf("create: %v", err)
	}

	list, err := c.ListProperties(ctx)

	if err != nil {
		t.Fatalf("list after create: %v", err)
	}

	if api.listCalls != 2 {
		t.Fatalf("create must invalidate the cache, server hit %d times", api.listCalls)
	}

	if len(list) != 1 || list[0].ID != created.ID {
		t.Fatalf("fresh read missing the new listing: %+v", list)
	}

	if err := c.DeleteProperty(ctx, created.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	list, err = c.ListProperties(ctx)

	if err != nil {
		t.Fatalf("list after delete: %v", err)
	}

	if len(list) != 0 {
		t.Fatalf("deleted listing still visible: %+v", list)
	}
}

func TestCookieJarCarriesSessionAcrossCalls(t *testing.T) {
	api := newFakeAPI()
	srv := httptest.NewServer(api.handler())
	defer srv.Close()

	c, err := client.New(srv.URL, nil)

	if err != nil {
		t.Fatal(err)
	}

	ctx := context.Background()

	// before login, writes are rejected
	_, err = c.CreateProperty(ctx, demoCreateRequest())

	var apiErr *client.APIError

	if !errors.As(err, &apiErr) || apiErr.Status != http.StatusUnauthorized {
		t.Fatalf("want 401 APIError before login, got %v", err)
	}

	if _, err := c.Login(ctx, "admin", "admin123456"); err != nil {
		t.Fatalf("login: %v", err)
	}

	if _, err := c.CreateProperty(ctx, demoCreateRequest()); err != nil {
		t.Fatalf("create after login: %v", err)
	}

	if err := c.Logout(ctx); err != nil {
		t.Fatalf("logout: %v", err)
	}

	_, err = c.CreateProperty(ctx, demoCreateRequest())

	if !errors.As(err, &apiErr) || apiErr.Status != http.StatusUnauthorized {
		t.Fatalf("want 401 after logout, got %v", err)
	}
}

func TestGetPropertyNotFound(t *testing.T) {
	srv := httptest.NewServer(newFakeAPI().handler())
	defer srv.Close()

	c, err := client.New(srv.URL, nil)

	if err != nil {
		t.Fatal(err)
	}

	_, err = c.GetProperty(context.Background(), uuid.NewString())

	var apiErr *client.APIError

	if !errors.As(err, &apiErr) {
		t.Fatalf("want APIError, got %v", err)
	}

	if apiErr.Status != http.StatusNotFound || apiErr.Code != "not_found" {
		t.Fatalf("unexpected error: %+v", apiErr)
	}
}

func TestLoginFailureSurfacesEnvelope(t *testing.T) {
	srv := httptest.NewServer(newFakeAPI().handler())
	defer srv.Close()

	c, err := client.New(srv.URL, nil)

	if err != nil {
		t.Fatal(err)
	}

	_, err = c.Login(context.Background(), "admin", "wrong")

	var apiErr *client.APIError

	if !errors.As(err, &apiErr) || apiErr.Code != "invalid_credentials" {
		t.Fatalf("want invalid_credentials, got %v", err)
	}
}

func TestCorruptCacheEntryFallsBackToFetch(t *testing.T) {
	api := newFakeAPI()
	srv := httptest.NewServer(api.handler())
	defer srv.Close()

	store := cache.NewMemory(time.Minute)
	store.Set(context.Background(), "/properties", []byte("{{{garbage"))

	c, err := client.New(srv.URL, store)

	if err != nil {
		t.Fatal(err)
	}

	list, err := c.ListProperties(context.Background())

	if err != nil {
		t.Fatalf("list over corrupt cache: %v", err)
	}

	if list == nil || api.listCalls != 1 {
		t.Fatalf("corrupt entry should force a fetch, server hit %d times", api.listCalls)
	}
}

// Package client is the Go rendition of the browser data layer: a typed
// API client whose reads run through a path-keyed cache and whose writes
// invalidate the listing entry before reporting success.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"strings"
	"time"

	"github.com/realtyflow/api/internal/cache"
	"github.com/realtyflow/api/internal/domain/property"
	"github.com/realtyflow/api/internal/domain/user"
)

const listPath = "/properties"

// APIError carries the server's error envelope for non-2xx responses.
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api: %d %s: %s", e.Status, e.Code, e.Message)
}

type Client struct {
	base  string
	http  *http.Client
	cache cache.Store
}

// New builds a client against baseURL. The cookie jar holds the session
// cookie across calls, so Login followed by CreateProperty just works.
func New(baseURL string, store cache.Store) (*Client, error) {
	jar, err := cookiejar.New(nil)

	if err != nil {
		return nil, err
	}

	if store == nil {
		store = cache.NewMemory(30 * time.Second)
	}

	return &Client{
		base: strings.TrimRight(baseURL, "/"),
		http: &http.Client{
			Jar:     jar,
			Timeout: 15 * time.Second,
		},
		cache: store,
	}, nil
}

type listEnvelope struct {
	Items []property.Property `json:"items"`
	Count int                 `json:"count"`
}

// ListProperties reuses the cached listing unless a write invalidated it.
func (c *Client) ListProperties(ctx context.Context) ([]property.Property, error) {
	if body, ok := c.cache.Get(ctx, listPath); ok {
		var env listEnvelope
		if err := json.Unmarshal(body, &env); err == nil {
			return env.Items, nil
		}
		// cached bytes went bad; fall through to a fresh fetch
		c.cache.Delete(ctx, listPath)
	}

	body, err := c.do(ctx, http.MethodGet, listPath, nil, http.StatusOK)

	if err != nil {
		return nil, err
	}

	var env listEnvelope

	if err := json.Unmarshal(body, &env); err != nil {
		return nil, err
	}

	c.cache.Set(ctx, listPath, body)

	return env.Items, nil
}

func (c *Client) GetProperty(ctx context.Context, id string) (property.Property, error) {
	var p property.Property

	body, err := c.do(ctx, http.MethodGet, listPath+"/"+id, nil, http.StatusOK)

	if err != nil {
		return property.Property{}, err
	}

	err = json.Unmarshal(body, &p)

	return p, err
}

func (c *Client) CreateProperty(ctx context.Context, req property.CreateRequest) (property.Property, error) {
	body, err := c.do(ctx, http.MethodPost, listPath, req, http.StatusCreated)

	if err != nil {
		return property.Property{}, err
	}

	// invalidate before the caller learns the write landed
	c.cache.Delete(ctx, listPath)

	var p property.Property
	err = json.Unmarshal(body, &p)

	return p, err
}

func (c *Client) UpdateProperty(ctx context.Context, id string, req property.UpdateRequest) (property.Property, error) {
	body, err := c.do(ctx, http.MethodPatch, listPath+"/"+id, req, http.StatusOK)

	if err != nil {
		return property.Property{}, err
	}

	c.cache.Delete(ctx, listPath)

	var p property.Property
	err = json.Unmarshal(body, &p)

	return p, err
}

func (c *Client) DeleteProperty(ctx context.Context, id string) error {
	_, err := c.do(ctx, http.MethodDelete, listPath+"/"+id, nil, http.StatusNoContent)

	if err != nil {
		return err
	}

	c.cache.Delete(ctx, listPath)

	return nil
}

type credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (c *Client) Login(ctx context.Context, username, password string) (user.User, error) {
	body, err := c.do(ctx, http.MethodPost, "/auth/login", credentials{Username: username, Password: password}, http.StatusOK)

	if err != nil {
		return user.User{}, err
	}

	var u user.User
	err = json.Unmarshal(body, &u)

	return u, err
}

func (c *Client) Logout(ctx context.Context) error {
	_, err := c.do(ctx, http.MethodPost, "/auth/logout", nil, http.StatusNoContent)
	return err
}

func (c *Client) do(ctx context.Context, method, path string, payload interface{}, wantStatus int) ([]byte, error) {
	var reqBody io.Reader

	if payload != nil {
		b, err := json.Marshal(payload)

		if err != nil {
			return nil, err
		}

		reqBody = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.base+path, reqBody)

	if err != nil {
		return nil, err
	}

	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)

	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)

	if err != nil {
		return nil, err
	}

	if resp.StatusCode != wantStatus {
		return nil, parseAPIError(resp.StatusCode, body)
	}

	return body, nil
}

func parseAPIError(status int, body []byte) error {
	var envelope struct {
		Error struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}

	apiErr := &APIError{Status: status, Code: "unknown", Message: http.StatusText(status)}

	if err := json.Unmarshal(body, &envelope); err == nil && envelope.Error.Code != "" {
		apiErr.Code = envelope.Error.Code
		apiErr.Message = envelope.Error.Message
	}

	return apiErr
}

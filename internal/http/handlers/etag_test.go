package handlers_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/realtyflow/api/internal/http/handlers"
)

func etagRouter() *gin.Engine {
	r := gin.New()
	r.GET("/payload", func(c *gin.Context) {
		handlers.RespondJSONWithETag(c, http.StatusOK, gin.H{"items": []string{"a", "b"}})
	})

	return r
}

func TestETagRoundTrip(t *testing.T) {
	r := etagRouter()

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/payload", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("got status %d, want 200", w.Code)
	}

	etag := w.Header().Get("ETag")

	if etag == "" {
		t.Fatal("ETag header missing")
	}

	tests := []struct {
		name           string
		ifNoneMatch    string
		wantStatusCode int
	}{
		{name: "matching", ifNoneMatch: etag, wantStatusCode: http.StatusNotModified},
		{name: "weak_match", ifNoneMatch: "W/" + etag, wantStatusCode: http.StatusNotModified},
		{name: "star", ifNoneMatch: "*", wantStatusCode: http.StatusNotModified},
		{name: "list_match", ifNoneMatch: `"other", ` + etag, wantStatusCode: http.StatusNotModified},
		{name: "stale", ifNoneMatch: `"stale-value"`, wantStatusCode: http.StatusOK},
		{name: "absent", ifNoneMatch: "", wantStatusCode: http.StatusOK},
	}

	for _, tt := range tests {
		tt := tt

		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/payload", nil)

			if tt.ifNoneMatch != "" {
				req.Header.Set("If-None-Match", tt.ifNoneMatch)
			}

			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			if w.Code != tt.wantStatusCode {
				t.Fatalf("got status %d, want %d", w.Code, tt.wantStatusCode)
			}

			if tt.wantStatusCode == http.StatusNotModified && w.Body.Len() != 0 {
				t.Fatalf("304 must not carry a body, got %q", w.Body.String())
			}
		})
	}
}

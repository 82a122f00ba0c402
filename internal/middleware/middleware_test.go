package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"livestock/internal/identity"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type staticAuth struct {
	token string
}

func (a staticAuth) Authenticate(ctx context.Context, token string) (*identity.Claims, error) {
	if token != a.token {
		return nil, identity.ErrUnauthenticated
	}
	return &identity.Claims{UserID: "U1"}, nil
}

func newAuthEngine() *gin.Engine {
	r := gin.New()
	r.Use(AuthMiddleware(staticAuth{token: "good"}))
	r.GET("/whoami", func(c *gin.Context) {
		c.String(http.StatusOK, UserID(c))
	})
	return r
}

func TestAuthMiddleware(t *testing.T) {
	t.Parallel()

	r := newAuthEngine()

	tests := []struct {
		name     string
		header   string
		query    string
		wantCode int
		wantBody string
	}{
		{"bearer header", "Bearer good", "", http.StatusOK, "U1"},
		{"query token", "", "?access_token=good", http.StatusOK, "U1"},
		{"missing", "", "", http.StatusUnauthorized, ""},
		{"rejected", "Bearer stale", "", http.StatusUnauthorized, ""},
		{"wrong scheme", "Basic good", "", http.StatusUnauthorized, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/whoami"+tt.query, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			if w.Code != tt.wantCode {
				t.Fatalf("expected %d, got %d", tt.wantCode, w.Code)
			}
			if tt.wantBody != "" && w.Body.String() != tt.wantBody {
				t.Errorf("expected body %q, got %q", tt.wantBody, w.Body.String())
			}
		})
	}
}

func TestClaimsOutsideAuth(t *testing.T) {
	t.Parallel()

	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	if Claims(c) != nil || UserID(c) != "" {
		t.Error("expected no identity outside AuthMiddleware")
	}
}

func TestCORSMiddleware(t *testing.T) {
	t.Parallel()

	r := gin.New()
	r.Use(CORSMiddleware("https://app.example.com, https://admin.example.com"))
	r.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("Origin", "https://app.example.com")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "https://app.example.com" {
		t.Errorf("expected allowed origin echoed, got %q", got)
	}

	req = httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Errorf("expected no CORS header for unknown origin, got %q", got)
	}

	req = httptest.NewRequest(http.MethodOptions, "/ping", nil)
	req.Header.Set("Origin", "https://admin.example.com")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusNoContent {
		t.Errorf("expected preflight 204, got %d", w.Code)
	}
}

func TestParseOrigins(t *testing.T) {
	t.Parallel()

	listed := ParseOrigins(" https://app.example.com ,https://admin.example.com")
	if !listed.Allows("https://admin.example.com") || listed.Allows("https://evil.example.com") || listed.Allows("") {
		t.Error("expected only listed origins to be allowed")
	}

	wildcard := ParseOrigins("*")
	if !wildcard.Allows("https://evil.example.com") || wildcard.Allows("") {
		t.Error("expected wildcard to allow every non-empty origin")
	}

	if ParseOrigins("").Allows("https://app.example.com") {
		t.Error("expected an empty list to allow nothing")
	}
}

func TestIdempotencyMiddleware_DisabledWithoutRedis(t *testing.T) {
	t.Parallel()

	calls := 0
	r := gin.New()
	r.Use(IdempotencyMiddleware(nil))
	r.POST("/jobs", func(c *gin.Context) {
		calls++
		c.Status(http.StatusCreated)
	})

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodPost, "/jobs", nil)
		req.Header.Set(idempotencyHeader, "same-key")
		r.ServeHTTP(httptest.NewRecorder(), req)
	}
	if calls != 2 {
		t.Errorf("expected handler to run twice, ran %d times", calls)
	}
}

func TestIdempotencyCacheKey_ScopedPerUser(t *testing.T) {
	t.Parallel()

	a := idempotencyCacheKey("U1", http.MethodPost, "/v1/jobs/:id/accept", "k")
	b := idempotencyCacheKey("U2", http.MethodPost, "/v1/jobs/:id/accept", "k")
	if a == b {
		t.Error("keys for different users must differ")
	}
}

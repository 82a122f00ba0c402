package app

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

type allowAll struct{}

func (allowAll) Authenticate(ctx context.Context, token string) (*identity.Claims, error) {
	return &identity.Claims{UserID: "T1"}, nil
}

func TestNewRouter_EarningsAreReadOnly(t *testing.T) {
	t.Parallel()

	router := NewRouter(RouterDeps{Authenticator: allowAll{}})

	registered := make(map[string]bool)
	for _, route := range router.Routes() {
		registered[route.Method+" "+route.Path] = true
	}

	for _, want := range []string{"GET /v1/earnings", "GET /v1/earnings/summary"} {
		if !registered[want] {
			t.Errorf("expected route %s", want)
		}
	}
	for _, method := range []string{http.MethodPost, http.MethodPut, http.MethodPatch} {
		if registered[method+" /v1/earnings"] {
			t.Errorf("earnings must not be writable via %s", method)
		}
	}

	req := httptest.NewRequest(http.MethodPost, "/v1/earnings", nil)
	req.Header.Set("Authorization", "Bearer token")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404 for POST /v1/earnings, got %d", w.Code)
	}
}

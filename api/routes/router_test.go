package routes

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/hyunwoo-dev/storefront-backend/pkg/config"
)

func testDeps() Deps {
	return Deps{
		Config: &config.Config{
			App:  config.AppConfig{Env: "dev", Port: "0"},
			JWT:  config.JWTConfig{Secret: "secret", Issuer: "storefront", ExpirationMinutes: 30},
			CORS: config.CORSConfig{AllowedOrigins: []string{"http://localhost:3000"}},
		},
	}
}

func TestRouterServesLiveness(t *testing.T) {
	router := NewRouter(testDeps())

	req := httptest.NewRequest(http.MethodGet, "/health/live", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
}

func TestRouterServesCategoriesPublicly(t *testing.T) {
	router := NewRouter(testDeps())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/categories/", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
}

func TestRouterGuardsCart(t *testing.T) {
	router := NewRouter(testDeps())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart/", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
}

func TestRouterSkipsMetricsWithoutGatherer(t *testing.T) {
	router := NewRouter(testDeps())

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", resp.Code)
	}
}

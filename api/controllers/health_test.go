package controllers

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/hyunwoo-dev/storefront-backend/pkg/config"
)

type stubPinger struct {
	err error
}

func (s stubPinger) Ping(ctx context.Context) error {
	return s.err
}

func healthTestConfig() *config.Config {
	return &config.Config{App: config.AppConfig{Env: "dev", Port: "0"}}
}

func TestHealthLive(t *testing.T) {
	handler := HealthLive(healthTestConfig())

	req := httptest.NewRequest(http.MethodGet, "/health/live", nil)
	resp := httptest.NewRecorder()

	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if got := resp.Header().Get("X-Storefront-Env"); got != "dev" {
		t.Fatalf("expected env header dev got %q", got)
	}
}

func TestHealthReadyAllUp(t *testing.T) {
	handler := HealthReady(healthTestConfig(), nil, stubPinger{}, stubPinger{}, stubPinger{})

	req := httptest.NewRequest(http.MethodGet, "/health/ready", nil)
	resp := httptest.NewRecorder()

	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
}

func TestHealthReadyReportsFailure(t *testing.T) {
	handler := HealthReady(
		healthTestConfig(),
		nil,
		stubPinger{},
		stubPinger{err: fmt.Errorf("connection refused")},
		stubPinger{},
	)

	req := httptest.NewRequest(http.MethodGet, "/health/ready", nil)
	resp := httptest.NewRecorder()

	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 got %d", resp.Code)
	}
}

package controllers

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/hyunwoo-dev/storefront-backend/api/responses"
	"github.com/hyunwoo-dev/storefront-backend/pkg/config"
	pkgerrors "github.com/hyunwoo-dev/storefront-backend/pkg/errors"
	"github.com/hyunwoo-dev/storefront-backend/pkg/logger"
	"go.uber.org/multierr"
)

const readyCheckTimeout = 2 * time.Second

type pinger interface {
	Ping(ctx context.Context) error
}

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Storefront-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady pings every backing dependency and reports all failures at once.
func HealthReady(cfg *config.Config, logg *logger.Logger, db, redis, storage pinger) http.HandlerFunc {
	checks := []struct {
		name string
		dep  pinger
	}{
		{"database", db},
		{"redis", redis},
		{"storage", storage},
	}

	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Storefront-Env", cfg.App.Env)

		ctx, cancel := context.WithTimeout(r.Context(), readyCheckTimeout)
		defer cancel()

		var errs error
		for _, check := range checks {
			if check.dep == nil {
				continue
			}
			if err := check.dep.Ping(ctx); err != nil {
				errs = multierr.Append(errs, fmt.Errorf("%s: %w", check.name, err))
			}
		}

		if errs != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, errs, "readiness check failed"))
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "ready"})
	}
}

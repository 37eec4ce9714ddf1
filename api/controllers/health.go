package controllers

import (
	"context"
	"net/http"

	"go.uber.org/multierr"

	"github.com/borealpetro/fueldesk-backend/api/responses"
	"github.com/borealpetro/fueldesk-backend/pkg/config"
	pkgerrors "github.com/borealpetro/fueldesk-backend/pkg/errors"
	"github.com/borealpetro/fueldesk-backend/pkg/logger"
)

// ReadyCheck is a named dependency probe run by the readiness endpoint.
type ReadyCheck struct {
	Name string
	Ping func(context.Context) error
}

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-FuelDesk-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady reports ready only when every wired dependency answers a ping.
func HealthReady(cfg *config.Config, logg *logger.Logger, checks ...ReadyCheck) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-FuelDesk-Env", cfg.App.Env)

		var errs error
		failed := make([]string, 0)
		for _, check := range checks {
			if check.Ping == nil {
				continue
			}
			if err := check.Ping(r.Context()); err != nil {
				failed = append(failed, check.Name)
				errs = multierr.Append(errs, err)
			}
		}

		if errs != nil {
			if logg != nil {
				ctx := logg.WithField(r.Context(), "failed_dependencies", failed)
				logg.Error(ctx, "health.ready", errs)
			}
			responses.WriteError(r.Context(), nil, w, pkgerrors.Wrap(pkgerrors.CodeDependency, errs, "dependencies unavailable"))
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "ready"})
	}
}

package controllers

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/multierr"

	"github.com/HYPERLOOPFIVER/lakes/api/responses"
	"github.com/HYPERLOOPFIVER/lakes/pkg/config"
	"github.com/HYPERLOOPFIVER/lakes/pkg/db"
	pkgerrors "github.com/HYPERLOOPFIVER/lakes/pkg/errors"
	"github.com/HYPERLOOPFIVER/lakes/pkg/logger"
	"github.com/HYPERLOOPFIVER/lakes/pkg/pubsub"
	"github.com/HYPERLOOPFIVER/lakes/pkg/redis"
)

const readinessTimeout = 5 * time.Second

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Lakes-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady pings every backing service; any failure flips the check.
func HealthReady(cfg *config.Config, logg *logger.Logger, dbP db.Pinger, redisP redis.Pinger, pubsubP pubsub.Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Lakes-Env", cfg.App.Env)

		ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
		defer cancel()

		var errs error
		checks := map[string]string{}
		for name, pinger := range map[string]redis.Pinger{
			"firestore": dbP,
			"redis":     redisP,
			"pubsub":    pubsubP,
		} {
			if pinger == nil {
				checks[name] = "skipped"
				continue
			}
			if err := pinger.Ping(ctx); err != nil {
				checks[name] = "down"
				errs = multierr.Append(errs, err)
				continue
			}
			checks[name] = "ok"
		}

		if errs != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, errs, "readiness check failed").WithDetails(checks))
			return
		}
		responses.WriteSuccess(w, map[string]any{"status": "ready", "checks": checks})
	}
}

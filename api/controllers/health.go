package controllers

import (
	"net/http"

	"github.com/kartosvlad459-art/inko-shop-bot/api/responses"
	"github.com/kartosvlad459-art/inko-shop-bot/pkg/config"
	"github.com/kartosvlad459-art/inko-shop-bot/pkg/db"
	"github.com/kartosvlad459-art/inko-shop-bot/pkg/logger"
	"github.com/kartosvlad459-art/inko-shop-bot/pkg/redis"
)

// HealthLive reports process liveness only.
func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		responses.WriteSuccess(w, map[string]string{
			"status": "ok",
			"env":    cfg.App.Env,
		})
	}
}

// HealthReady pings the backing stores. The redis pinger is optional since the
// session store falls back to memory.
func HealthReady(logg *logger.Logger, dbP db.Pinger, redisP redis.Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		checks := map[string]string{}

		status := http.StatusOK
		if dbP == nil {
			checks["db"] = "missing"
			status = http.StatusServiceUnavailable
		} else if err := dbP.Ping(ctx); err != nil {
			if logg != nil {
				logg.Error(ctx, "db ping failed", err)
			}
			checks["db"] = "down"
			status = http.StatusServiceUnavailable
		} else {
			checks["db"] = "ok"
		}

		if redisP == nil {
			checks["redis"] = "disabled"
		} else if err := redisP.Ping(ctx); err != nil {
			if logg != nil {
				logg.Error(ctx, "redis ping failed", err)
			}
			checks["redis"] = "down"
			status = http.StatusServiceUnavailable
		} else {
			checks["redis"] = "ok"
		}

		responses.WriteSuccessStatus(w, status, checks)
	}
}

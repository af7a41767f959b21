package controllers

import (
	"crypto/subtle"
	"encoding/json"
	"net/http"
	"time"

	"github.com/kartosvlad459-art/inko-shop-bot/api/responses"
	"github.com/kartosvlad459-art/inko-shop-bot/pkg/auth"
	"github.com/kartosvlad459-art/inko-shop-bot/pkg/config"
	pkgerrors "github.com/kartosvlad459-art/inko-shop-bot/pkg/errors"
	"github.com/kartosvlad459-art/inko-shop-bot/pkg/logger"
)

type tokenRequest struct {
	APIKey string `json:"api_key"`
}

type tokenResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// AdminToken exchanges the configured API key for a short-lived admin JWT.
func AdminToken(cfg *config.Config, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if cfg.Storefront.AdminAPIKey == "" {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.New(pkgerrors.CodeForbidden, "admin api disabled"))
			return
		}

		var req tokenRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid request body"))
			return
		}

		if subtle.ConstantTimeCompare([]byte(req.APIKey), []byte(cfg.Storefront.AdminAPIKey)) != 1 {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid api key"))
			return
		}

		now := time.Now()
		token, err := auth.MintAdminToken(cfg.JWT, now, cfg.Bot.AdminChatID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint token"))
			return
		}

		responses.WriteSuccess(w, tokenResponse{
			Token:     token,
			ExpiresAt: now.Add(cfg.JWT.TokenTTL()),
		})
	}
}

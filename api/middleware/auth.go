package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/kartosvlad459-art/inko-shop-bot/api/responses"
	"github.com/kartosvlad459-art/inko-shop-bot/pkg/auth"
	"github.com/kartosvlad459-art/inko-shop-bot/pkg/config"
	pkgerrors "github.com/kartosvlad459-art/inko-shop-bot/pkg/errors"
	"github.com/kartosvlad459-art/inko-shop-bot/pkg/logger"
)

type contextKey string

const adminClaimsKey contextKey = "admin_claims"

// AdminAuth guards the admin routes with the bearer JWT minted by the token
// endpoint.
func AdminAuth(cfg config.JWTConfig, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if !strings.HasPrefix(header, "Bearer ") {
				responses.WriteError(r.Context(), logg, w,
					pkgerrors.New(pkgerrors.CodeUnauthorized, "bearer token required"))
				return
			}

			claims, err := auth.ParseAdminToken(cfg, strings.TrimPrefix(header, "Bearer "))
			if err != nil {
				responses.WriteError(r.Context(), logg, w,
					pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid token"))
				return
			}

			ctx := context.WithValue(r.Context(), adminClaimsKey, claims)
			if logg != nil {
				ctx = logg.WithChatID(ctx, claims.ChatID)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// AdminClaims extracts the verified token claims placed by AdminAuth.
func AdminClaims(ctx context.Context) *auth.AdminTokenClaims {
	claims, _ := ctx.Value(adminClaimsKey).(*auth.AdminTokenClaims)
	return claims
}

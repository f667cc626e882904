package auth

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/mkirylau/vinylmarket/internal/infrastructure/redis"
	pkgerrors "github.com/mkirylau/vinylmarket/pkg/errors"
)

type ctxKey int

const identityKey ctxKey = 0

// IdentityFromContext returns the authenticated identity set by Middleware.
func IdentityFromContext(ctx context.Context) (*Identity, bool) {
	identity, ok := ctx.Value(identityKey).(*Identity)
	return identity, ok
}

// Middleware authenticates requests with a Bearer JWT. Tokens must also
// match the copy cached in Redis at login time, which doubles as the
// revocation point.
func Middleware(redisClient redis.RedisClient, jwtSecret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				pkgerrors.WriteHTTP(w, r, pkgerrors.NewAuthentication("authorization header missing"))
				return
			}

			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || parts[0] != "Bearer" {
				pkgerrors.WriteHTTP(w, r, pkgerrors.NewAuthentication("invalid authorization header"))
				return
			}

			tokenStr := parts[1]
			identity, err := ParseToken(tokenStr, jwtSecret)
			if err != nil {
				pkgerrors.WriteHTTP(w, r, pkgerrors.NewAuthentication("invalid token"))
				return
			}

			redisKey := fmt.Sprintf("user:%d:token", identity.UserID)
			storedToken, err := redisClient.Get(r.Context(), redisKey)
			if err != nil || storedToken != tokenStr {
				slog.Error("invalid or revoked token", "user_id", identity.UserID, "error", err)
				pkgerrors.WriteHTTP(w, r, pkgerrors.NewAuthentication("invalid or revoked token"))
				return
			}

			ctx := context.WithValue(r.Context(), identityKey, identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

package middleware

import (
	"context"
	"log"
	"net/http"
	"strings"

	"github.com/ArtemSydun/KIT-GLOBAL/domain"
	"github.com/ArtemSydun/KIT-GLOBAL/util"
	"github.com/go-redis/redis/v8"
	"github.com/gorilla/mux"
)

type AuthUserValue struct {
	Email   string
	IsAdmin bool
	Token   string
}

// AuthMiddleware resolves the bearer token against the auth cache and
// puts the principal on the request context. Token issuance happens
// elsewhere; this is only the verification seam.
func AuthMiddleware(authCache domain.AuthCache, admin string) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			parts := strings.Split(header, " ")

			if len(parts) < 2 || strings.ToLower(parts[0]) != "bearer" {
				log.Println("bad Authorization header")
				util.WriteUnauthorized(w)
				return
			}

			ctx, cancel := util.GetContextWithTimeout(context.Background())
			defer cancel()
			token := parts[1]
			email, err := authCache.GetEmailByToken(ctx, token)

			if err != nil {
				log.Println(err)
				if err == redis.Nil {
					util.WriteUnauthorized(w)
				} else {
					util.WriteInternalServerError(w)
				}
				return
			}

			ctx = context.WithValue(r.Context(), "user", AuthUserValue{
				Email:   email,
				IsAdmin: email == admin,
				Token:   token,
			})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

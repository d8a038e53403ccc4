package auth

import (
	"context"
	"net/http"
	"strconv"

	"github.com/foodcourt/orders/internal/service/services/ordersvc"
)

// Session issuance lives in a peer system; the gateway in front of this
// service verifies the token and forwards the identity in these headers.
const (
	HeaderUserID = "X-User-Id"
	HeaderRole   = "X-User-Role"

	roleAdmin = "admin"
)

type ctxKey struct{}

// NewAuthMiddleware extracts the acting user from the gateway headers and
// rejects requests that carry none.
func NewAuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, err := strconv.ParseInt(r.Header.Get(HeaderUserID), 10, 64)
		if err != nil || userID <= 0 {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"success":false,"message":"Not authenticated"}`))

			return
		}

		actor := ordersvc.Actor{
			UserID: userID,
			Admin:  r.Header.Get(HeaderRole) == roleAdmin,
		}

		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxKey{}, actor)))
	})
}

// ActorFromContext returns the acting user stored by the middleware.
func ActorFromContext(ctx context.Context) (ordersvc.Actor, bool) {
	actor, ok := ctx.Value(ctxKey{}).(ordersvc.Actor)

	return actor, ok
}

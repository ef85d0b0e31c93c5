package middleware

import (
	"context"
	"net/http"

	"github.com/gorilla/mux"
)

type contextKey string

// UserIDKey carries the resolved user id through the request context.
const UserIDKey contextKey = "userId"

// RequireUser resolves the user id from the route and stores it in the
// request context. There is no authentication layer: clients identify
// themselves with a single synthetic user id.
func RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID := mux.Vars(r)["userId"]
		if userID == "" {
			http.Error(w, `{"error":"missing user id"}`, http.StatusBadRequest)
			return
		}
		ctx := context.WithValue(r.Context(), UserIDKey, userID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetUserID extracts the user id from context
func GetUserID(ctx context.Context) string {
	if v := ctx.Value(UserIDKey); v != nil {
		return v.(string)
	}
	return ""
}

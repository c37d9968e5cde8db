package middleware

import (
	"encoding/json"
	"net/http"

	"dispatch-admin/internal/session"
)

// RequireSession rejects requests when the stored credential is missing or
// expired. Expiry is detected (and the credential cleared) inside the
// store's validity check; here it simply becomes a 401, the service-side
// analog of the redirect to login.
func RequireSession(store *session.Store, role string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !store.IsAuthenticated() {
				unauthorized(w, "session expired, sign in again")
				return
			}
			if role != "" {
				u, ok := store.User()
				if !ok || u.Role != role {
					unauthorized(w, "wrong role for this resource")
					return
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

func unauthorized(w http.ResponseWriter, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

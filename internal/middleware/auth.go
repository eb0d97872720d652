package middleware

import (
	"net/http"
	"os"

	"github.com/Ayush3323/printingbackend/internal/auth"
	"github.com/Ayush3323/printingbackend/internal/utils"
)

// AuthMiddleware attaches caller identity to the request context when a valid
// bearer token is present. Handlers decide whether identity is required.
func AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tokenStr := auth.ExtractAccessToken(r)
		if tokenStr == "" {
			next.ServeHTTP(w, r)
			return
		}

		claims, err := auth.ParseJWT(tokenStr)
		if err != nil {
			next.ServeHTTP(w, r)
			return
		}

		ctx := utils.WithUserID(r.Context(), claims.UserID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireUser rejects requests without an authenticated user.
func RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := utils.GetUserIDFromContext(r.Context()); !ok {
			utils.WriteError(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireOperator guards the operations endpoints with an API key checked
// against the bcrypt hash from config.
func RequireOperator(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hash := os.Getenv("OPS_KEY_HASH")
		key := r.Header.Get("X-Ops-Key")

		if hash == "" || key == "" || !auth.CheckOpsKey(key, hash) {
			utils.WriteError(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		next.ServeHTTP(w, r.WithContext(utils.WithOperator(r.Context())))
	})
}

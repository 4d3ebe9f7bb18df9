package httpapi

import (
	"context"
	"net/http"
	"strings"

	"github.com/dmitrijs2005/goalkeeper/internal/common"
	"github.com/dmitrijs2005/goalkeeper/internal/server/auth"
)

type contextKey string

const userIDKey contextKey = "user_id"

// userID returns the authenticated principal identity stored by authMiddleware.
func userID(r *http.Request) string {
	id, _ := r.Context().Value(userIDKey).(string)
	return id
}

// authMiddleware validates the bearer access token and stores the principal
// identity in the request context. Handlers pass it down to services as an
// explicit argument.
func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get(common.AuthorizationHeaderName)
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			writeError(w, common.ErrorUnauthenticated)
			return
		}

		id, err := auth.GetUserIDFromToken(token, s.jwtSecret)
		if err != nil {
			writeError(w, err)
			return
		}

		ctx := context.WithValue(r.Context(), userIDKey, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

package auth

import (
	"net/http"
	"strings"

	"github.com/hashicorp/go-hclog"
	"gorm.io/gorm"

	"github.com/hashicorp-forge/docrepo/pkg/models"
)

// RequireUser validates the bearer token, resolves the full user record
// (role and department included), and stores it on the request context.
// Requests without a valid token receive 401.
func RequireUser(issuer *TokenIssuer, db *gorm.DB, log hclog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if !strings.HasPrefix(header, "Bearer ") {
				http.Error(w, "No authorization information in request",
					http.StatusUnauthorized)
				return
			}

			userID, err := issuer.Validate(strings.TrimPrefix(header, "Bearer "))
			if err != nil {
				log.Warn("invalid bearer token",
					"error", err,
					"path", r.URL.Path,
				)
				http.Error(w, "Invalid authentication credentials",
					http.StatusUnauthorized)
				return
			}

			user, err := models.GetUserByID(db, userID)
			if err != nil {
				log.Warn("token subject not found",
					"user_id", userID,
					"path", r.URL.Path,
				)
				http.Error(w, "Invalid authentication credentials",
					http.StatusUnauthorized)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
		})
	}
}

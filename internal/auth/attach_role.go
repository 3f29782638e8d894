package auth

import (
	"database/sql"
	"errors"
	"net/http"
	"strings"

	"github.com/pixelsinav/pixelsinav/internal/rbac"
)

// AttachRoleFromDB replaces the role claim with the highest role currently stored for the
// subject, so role changes apply before the token expires. Deleted accounts are rejected.
func AttachRoleFromDB(db *sql.DB) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			sub := SubjectFromContext(ctx)

			var roles string
			err := db.QueryRowContext(ctx, `SELECT roles FROM users WHERE id=$1`, sub).Scan(&roles)
			switch {
			case err == nil:
				role := rbac.Highest(strings.Split(roles, ","))
				next.ServeHTTP(w, r.WithContext(rbac.WithRole(ctx, role)))
			case errors.Is(err, sql.ErrNoRows):
				deny(w, http.StatusUnauthorized, "unauthorized: account no longer exists")
			default:
				deny(w, http.StatusInternalServerError, err.Error())
			}
		})
	}
}

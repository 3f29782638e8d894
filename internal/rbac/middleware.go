package rbac

import (
	"net/http"
)

// Guard turns permission checks into chi middleware. Deny writes the rejection.
type Guard struct {
	Checker *Checker
	Deny    func(w http.ResponseWriter, r *http.Request)
}

func NewGuard(c *Checker, deny func(w http.ResponseWriter, r *http.Request)) *Guard {
	if c == nil {
		c = NewChecker(nil)
	}
	if deny == nil {
		deny = func(w http.ResponseWriter, _ *http.Request) {
			http.Error(w, "forbidden", http.StatusForbidden)
		}
	}
	return &Guard{Checker: c, Deny: deny}
}

// Require enforces a single permission.
func (g *Guard) Require(perm string) func(http.Handler) http.Handler {
	return g.RequireAny(perm)
}

// RequireAny enforces that the role has at least one of the permissions.
func (g *Guard) RequireAny(perms ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			role := RoleFromContext(r.Context())
			if role == "" || !g.Checker.Any(role, perms...) {
				g.Deny(w, r)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// Allowed reports whether the request may act on a resource: either it holds perm
// outright, or it owns the resource and holds ownPerm.
func (g *Guard) Allowed(r *http.Request, perm, ownPerm string, owner bool) bool {
	role := RoleFromContext(r.Context())
	return g.Checker.Has(role, perm) || (owner && g.Checker.Has(role, ownPerm))
}

package rbac

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestCheckerInheritsAndWildcards(t *testing.T) {
	c := NewChecker(nil)
	cases := []struct {
		role, perm string
		want       bool
	}{
		{"student", "profile:update", true},
		{"student", "lesson:create", false},
		{"teacher", "profile:update", true},
		{"teacher", "lesson:create", true},
		{"teacher", "lesson:delete", false},
		{"admin", "lesson:delete", true},
		{"", "profile:view", false},
	}
	for _, tc := range cases {
		if got := c.Has(tc.role, tc.perm); got != tc.want {
			t.Errorf("Has(%q, %q) = %v", tc.role, tc.perm, got)
		}
	}
}

func TestHighest(t *testing.T) {
	if got := Highest([]string{"student", " teacher"}); got != "teacher" {
		t.Fatal(got)
	}
	if got := Highest([]string{"admin", "student"}); got != "admin" {
		t.Fatal(got)
	}
	if got := Highest(nil); got != "student" {
		t.Fatal(got)
	}
}

func TestGuardRequire(t *testing.T) {
	g := NewGuard(nil, nil)
	h := g.Require("exam:create")(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	for role, want := range map[string]int{"student": 403, "teacher": 204, "admin": 204, "": 403} {
		req := httptest.NewRequest(http.MethodPost, "/api/exams", nil)
		req = req.WithContext(WithRole(req.Context(), role))
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		if rec.Code != want {
			t.Errorf("role %q: got %d want %d", role, rec.Code, want)
		}
	}
}

func TestGuardAllowedOwnership(t *testing.T) {
	g := NewGuard(nil, nil)
	req := httptest.NewRequest(http.MethodDelete, "/api/lessons/l1", nil)
	teacher := req.WithContext(WithRole(req.Context(), "teacher"))
	if g.Allowed(teacher, "lesson:delete", "lesson:delete_own", false) {
		t.Fatal("teacher may not delete someone else's lesson")
	}
	if !g.Allowed(teacher, "lesson:delete", "lesson:delete_own", true) {
		t.Fatal("teacher may delete their own lesson")
	}
	admin := req.WithContext(WithRole(req.Context(), "admin"))
	if !g.Allowed(admin, "lesson:delete", "lesson:delete_own", false) {
		t.Fatal("admin may delete anything")
	}
}

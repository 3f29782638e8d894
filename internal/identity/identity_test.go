package identity

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/zalando/go-keyring"

	"github.com/pixelsinav/pixelsinav/internal/form"
)

type memStorage struct {
	id    *Identity
	saves int
}

func (m *memStorage) Load() (Identity, error) {
	if m.id == nil {
		return Identity{}, ErrNoIdentity
	}
	return *m.id, nil
}
func (m *memStorage) Save(id Identity) error { m.id = &id; m.saves++; return nil }
func (m *memStorage) Clear() error           { m.id = nil; return nil }

func signed(t *testing.T, exp time.Time) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "u1",
		ExpiresAt: jwt.NewNumericDate(exp),
	}).SignedString([]byte("secret"))
	if err != nil {
		t.Fatal(err)
	}
	return tok
}

func TestHolderBearer(t *testing.T) {
	h := NewHolder(&memStorage{}, nil)
	if err := h.Load(); err != nil {
		t.Fatal(err)
	}
	if _, err := h.Bearer(context.Background()); !form.IsKind(err, form.KindAuth) {
		t.Fatalf("want auth error when signed out, got %v", err)
	}

	live := signed(t, time.Now().Add(time.Hour))
	if err := h.SignIn(live, User{ID: "u1", Email: "a@b.co"}); err != nil {
		t.Fatal(err)
	}
	tok, err := h.Bearer(context.Background())
	if err != nil || tok != live {
		t.Fatalf("bearer: %q %v", tok, err)
	}

	h.SignIn(signed(t, time.Now().Add(-time.Minute)), User{ID: "u1"})
	if _, err := h.Bearer(context.Background()); !form.IsKind(err, form.KindAuth) {
		t.Fatalf("want auth error for expired token, got %v", err)
	}

	h.SignIn("opaque-token", User{ID: "u1"})
	if tok, err := h.Bearer(context.Background()); err != nil || tok != "opaque-token" {
		t.Fatalf("opaque tokens are passed through: %q %v", tok, err)
	}

	if err := h.SignOut(); err != nil {
		t.Fatal(err)
	}
	if _, ok := h.Current(); ok {
		t.Fatal("identity should be cleared")
	}
}

func TestFileStorageRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "session.json")
	fs := NewFileStorage(path)
	if _, err := fs.Load(); err != ErrNoIdentity {
		t.Fatalf("want ErrNoIdentity, got %v", err)
	}
	in := Identity{Token: "tok", User: User{ID: "u1", Email: "a@b.co", Name: "Ayşe", Roles: []string{"teacher"}}}
	if err := fs.Save(in); err != nil {
		t.Fatal(err)
	}
	st, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if st.Mode().Perm() != 0o600 {
		t.Fatalf("want 0600, got %v", st.Mode().Perm())
	}
	out, err := fs.Load()
	if err != nil {
		t.Fatal(err)
	}
	if out.Token != "tok" || out.User.Name != "Ayşe" || !out.User.HasRole("teacher") {
		t.Fatalf("unexpected identity %+v", out)
	}
	if err := fs.Clear(); err != nil {
		t.Fatal(err)
	}
	if err := fs.Clear(); err != nil {
		t.Fatal("clearing twice should be fine")
	}
}

func TestHolderFollowsFileChanges(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	fs := NewFileStorage(path)
	h := NewHolder(fs, nil)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := h.Follow(ctx, fs); err != nil {
		t.Fatal(err)
	}

	// another process logs in
	if err := NewFileStorage(path).Save(Identity{Token: "from-elsewhere"}); err != nil {
		t.Fatal(err)
	}
	deadline := time.Now().Add(3 * time.Second)
	for {
		if id, ok := h.Current(); ok && id.Token == "from-elsewhere" {
			return
		}
		if time.Now().After(deadline) {
			t.Fatal("holder did not pick up the new session")
		}
		time.Sleep(20 * time.Millisecond)
	}
}

func TestKeyringStorage(t *testing.T) {
	keyring.MockInit()
	ks := NewKeyringStorage("pixelsinav-test")
	if _, err := ks.Load(); err != ErrNoIdentity {
		t.Fatalf("want ErrNoIdentity, got %v", err)
	}
	if err := ks.Save(Identity{Token: "tok", User: User{ID: "u1", IsVerified: true}}); err != nil {
		t.Fatal(err)
	}
	id, err := ks.Load()
	if err != nil || id.Token != "tok" || !id.User.IsVerified {
		t.Fatalf("load: %+v %v", id, err)
	}
	if err := ks.Clear(); err != nil {
		t.Fatal(err)
	}
	if _, err := ks.Load(); err != ErrNoIdentity {
		t.Fatalf("want ErrNoIdentity after clear, got %v", err)
	}
}

package http

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/pixelsinav/pixelsinav/internal/apiclient"
	"github.com/pixelsinav/pixelsinav/internal/form"
	"github.com/pixelsinav/pixelsinav/internal/forms"
	"github.com/pixelsinav/pixelsinav/internal/i18n"
	"github.com/pixelsinav/pixelsinav/internal/identity"
)

// TestFormsAgainstServer drives the client forms through the real router.
func TestFormsAgainstServer(t *testing.T) {
	f := newFixture(t)
	ts := httptest.NewServer(f.h)
	defer ts.Close()

	ctx := context.Background()
	p := i18n.NewPrinter("tr")
	quiet := slog.New(slog.NewTextHandler(io.Discard, nil))
	holder := identity.NewHolder(identity.NewFileStorage(filepath.Join(t.TempDir(), "identity.json")), quiet)
	deps := form.Deps{
		Transport:   apiclient.New(apiclient.Config{BaseURL: ts.URL, Transport: http.DefaultTransport, Logger: quiet}),
		Credentials: holder,
		Messages:    i18n.Messages(p),
		Logger:      quiet,
	}

	reg := forms.Register(p).Open(deps)
	for k, v := range map[string]any{
		"name": "Ayşe Yılmaz", "email": "ayse@example.com", "password": "gizli-sifre",
		"confirmPassword": "gizli-sifre", "terms": true,
	} {
		reg.Store().Set(k, v)
	}
	if _, err := reg.Submit(ctx); err != nil {
		t.Fatalf("register: %v", err)
	}
	again := forms.Register(p).Open(deps)
	for k, v := range map[string]any{
		"name": "Ayşe", "email": "ayse@example.com", "password": "gizli-sifre",
		"confirmPassword": "gizli-sifre", "terms": true,
	} {
		again.Store().Set(k, v)
	}
	if _, err := again.Submit(ctx); !form.IsKind(err, form.KindConflict) {
		t.Fatalf("duplicate register should be a conflict, got %v", err)
	}

	login := forms.Login(p, holder).Open(deps)
	login.Store().Set("email", "ayse@example.com")
	login.Store().Set("password", "gizli-sifre")
	if _, err := login.Submit(ctx); err != nil {
		t.Fatalf("login: %v", err)
	}
	id, ok := holder.Current()
	if !ok || id.User.Email != "ayse@example.com" {
		t.Fatalf("holder not signed in: %+v", id)
	}

	// students may not author lessons until promoted
	lesson := forms.Lesson(p).Open(deps)
	st := lesson.Store()
	st.Set("title", "Kesirler")
	st.Set("category", "matematik")
	st.Set("description", "Kesirlere giriş dersi")
	forms.AddSection(st, "Giriş", 3000)
	forms.AddSection(st, "Toplama", 1500)
	if sec, _ := forms.AddSection(st, "Çarpma", 1000); sec.Fields.Int("xpPoints") != 500 {
		t.Fatalf("third section should be capped to 500, got %d", sec.Fields.Int("xpPoints"))
	}
	if _, err := lesson.Submit(ctx); !form.IsKind(err, form.KindAuth) {
		t.Fatalf("student lesson should be refused, got %v", err)
	}

	if _, err := f.srv.DB.Exec(`UPDATE users SET roles='student,teacher' WHERE id=$1`, id.User.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := lesson.Submit(ctx); err != nil {
		t.Fatalf("teacher lesson: %v", err)
	}
	saved := st.Snapshot()
	if saved.String("id") == "" || len(saved.Items("sections")) != 3 {
		t.Fatalf("draft should carry the stored lesson: %v", saved)
	}

	st.Set("title", "Kesirler 1")
	if _, err := lesson.Submit(ctx); err != nil {
		t.Fatalf("update: %v", err)
	}
	if st.Snapshot().String("title") != "Kesirler 1" {
		t.Fatal("update not echoed")
	}
}

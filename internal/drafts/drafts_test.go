package drafts

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/pixelsinav/pixelsinav/internal/form"
	"github.com/pixelsinav/pixelsinav/internal/forms"
	"github.com/pixelsinav/pixelsinav/internal/i18n"
	"github.com/pixelsinav/pixelsinav/internal/identity"
)

func newTestRepo(t *testing.T) (*RedisRepo, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewRedisRepo(client, time.Hour), mr
}

func TestRedisRepoRoundTrip(t *testing.T) {
	ctx := context.Background()
	repo, mr := newTestRepo(t)

	if _, ok, err := repo.Get(ctx, "lesson", "u1"); ok || err != nil {
		t.Fatalf("empty repo: ok=%v err=%v", ok, err)
	}

	d := form.Of(form.F("title", "Kesirler"), form.F("sections", []*form.Draft{
		form.Of(form.F("title", "Giriş"), form.F("xpPoints", 100)),
	}))
	if err := repo.Save(ctx, "lesson", "u1", d); err != nil {
		t.Fatal(err)
	}
	if !mr.Exists("draft:lesson:u1") {
		t.Fatalf("missing key, have %v", mr.Keys())
	}
	if ttl := mr.TTL("draft:lesson:u1"); ttl != time.Hour {
		t.Fatalf("ttl %v", ttl)
	}

	got, ok, err := repo.Get(ctx, "lesson", "u1")
	if err != nil || !ok {
		t.Fatalf("get: ok=%v err=%v", ok, err)
	}
	secs := got.Items("sections")
	if got.String("title") != "Kesirler" || len(secs) != 1 || secs[0].Fields.Int("xpPoints") != 100 {
		t.Fatalf("unexpected draft %v", got.Keys())
	}

	if err := repo.Delete(ctx, "lesson", "u1"); err != nil {
		t.Fatal(err)
	}
	if mr.Exists("draft:lesson:u1") {
		t.Fatal("key should be gone")
	}
}

func TestAutosaverKeepsFailedDraftsAndDropsSentOnes(t *testing.T) {
	ctx := context.Background()
	repo, mr := newTestRepo(t)

	status := http.StatusInternalServerError
	transport := form.TransportFunc(func(context.Context, form.Request) (form.Response, error) {
		return form.Response{Status: status}, nil
	})
	def := form.Definition{Spec: form.Spec{Name: "category", Method: http.MethodPost, Path: "/api/categories"}}

	s := form.Open(def, form.Of(form.F("name", "")), form.Deps{Transport: transport})
	a := NewAutosaver(repo, "u1", nil)
	a.Attach(s)

	s.Store().Set("name", "Fizik")
	if !mr.Exists("draft:category:u1") {
		t.Fatal("edit should be saved")
	}
	if _, err := s.Submit(ctx); err == nil {
		t.Fatal("want server failure")
	}
	if !mr.Exists("draft:category:u1") {
		t.Fatal("failed submission must keep the saved draft")
	}

	resumed := a.Resume(ctx, "category")
	if resumed == nil || resumed.String("name") != "Fizik" {
		t.Fatal("draft should resume")
	}

	status = http.StatusOK
	if _, err := s.Submit(ctx); err != nil {
		t.Fatal(err)
	}
	if mr.Exists("draft:category:u1") {
		t.Fatal("successful submission should drop the saved draft")
	}
	if a.Resume(ctx, "category") != nil {
		t.Fatal("nothing left to resume")
	}
}

type noSignIn struct{}

func (noSignIn) SignIn(string, identity.User) error { return nil }

func TestAutosaverNeverStoresPasswords(t *testing.T) {
	ctx := context.Background()
	repo, mr := newTestRepo(t)

	refused := form.TransportFunc(func(context.Context, form.Request) (form.Response, error) {
		return form.Response{}, errors.New("dial tcp: connection refused")
	})
	p := i18n.NewPrinter("tr")
	for _, f := range []forms.Form{forms.Login(p, noSignIn{}), forms.ResetPassword(p, "tok")} {
		s := f.Open(form.Deps{Transport: refused})
		NewAutosaver(repo, "anonymous", nil).Attach(s)
		for _, k := range s.Store().Snapshot().Keys() {
			if k == "email" {
				s.Store().Set(k, "ali@example.com")
				continue
			}
			s.Store().Set(k, "hunter2-secret")
		}
		if _, err := s.Submit(ctx); err == nil {
			t.Fatalf("%s: want a failed submission", f.Name())
		}
	}

	for _, key := range mr.Keys() {
		raw, err := mr.Get(key)
		if err != nil {
			t.Fatal(err)
		}
		if strings.Contains(raw, "hunter2-secret") || strings.Contains(strings.ToLower(raw), "password") {
			t.Fatalf("%s holds a secret: %s", key, raw)
		}
	}
	if got, ok, _ := repo.Get(ctx, "login", "anonymous"); !ok || got.String("email") != "ali@example.com" {
		t.Fatal("non-secret fields should still be saved")
	}
}

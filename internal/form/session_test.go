package form

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/pixelsinav/pixelsinav/internal/notify"
)

type pushed struct {
	level notify.Level
	msg   string
}

type fakeNotifier struct {
	mu        sync.Mutex
	next      notify.ID
	pushed    []pushed
	dismissed []notify.ID
}

func (f *fakeNotifier) Push(level notify.Level, msg string, d time.Duration) notify.ID {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.next++
	f.pushed = append(f.pushed, pushed{level, msg})
	return f.next
}

func (f *fakeNotifier) Dismiss(id notify.ID) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.dismissed = append(f.dismissed, id)
	return true
}

func (f *fakeNotifier) last() pushed {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.pushed[len(f.pushed)-1]
}

type staticCreds struct {
	token string
	err   error
}

func (c staticCreds) Bearer(context.Context) (string, error) { return c.token, c.err }

// echoTransport answers with the submitted payload as the canonical entity.
type echoTransport struct {
	mu   sync.Mutex
	reqs []Request
}

func (e *echoTransport) Do(ctx context.Context, req Request) (Response, error) {
	e.mu.Lock()
	e.reqs = append(e.reqs, req)
	e.mu.Unlock()
	body, err := json.Marshal(req.Body)
	if err != nil {
		return Response{}, err
	}
	ok := true
	return Response{Status: http.StatusOK, Success: &ok, Message: "Kaydedildi", Data: body}, nil
}

func lessonDefinition() Definition {
	return Definition{
		Spec: Spec{Name: "lesson", Method: http.MethodPost, Path: "/api/lessons", Auth: true},
		Lists: map[string]ListPolicy{
			"sections": sectionsPolicy,
		},
		Budgets: []ListPath{List("sections")},
		Rules: []Rule{
			Required("title", "Başlık gerekli"),
			Length("title", 3, 100, "Başlık 3-100 karakter olmalı"),
			Count("sections", 1, 20, "En az bir bölüm ekleyin"),
		},
	}
}

func TestSessionRoundTripOnSuccess(t *testing.T) {
	tr := &echoTransport{}
	n := &fakeNotifier{}
	s := Open(lessonDefinition(), NewDraft(), Deps{Transport: tr, Credentials: staticCreds{token: "tok"}, Notifier: n})

	s.Store().Set("title", "Kesirler")
	s.Store().Set("description", "Kesirlere giriş")
	s.Store().AddItem(List("sections"), section("Giriş", 3000))
	s.Store().AddItem(List("sections"), section("Alıştırma", 1500))

	res, err := s.Submit(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(tr.reqs) != 1 || tr.reqs[0].Token != "tok" || tr.reqs[0].Path != "/api/lessons" {
		t.Fatalf("unexpected requests %+v", tr.reqs)
	}
	if !s.Store().Snapshot().Equal(res.Entity) {
		t.Fatalf("draft should equal echoed entity\n got %s", mustJSON(t, s.Store().Snapshot()))
	}
	if s.Store().Dirty() {
		t.Fatal("draft should be clean after success")
	}
	if got := n.last(); got.level != notify.Success || got.msg != "Kaydedildi" {
		t.Fatalf("unexpected notification %+v", got)
	}
	if len(n.dismissed) != 1 || n.pushed[0].level != notify.Loading {
		t.Fatal("loading notification should be shown then dismissed")
	}
}

func TestSessionPayloadOmitsTemporaryIDs(t *testing.T) {
	tr := &echoTransport{}
	s := Open(lessonDefinition(), Of(F("title", "Kesirler")), Deps{Transport: tr, Credentials: staticCreds{token: "tok"}})
	s.Store().AddItem(List("sections"), section("Giriş", 10))
	if _, err := s.Submit(context.Background()); err != nil {
		t.Fatal(err)
	}
	body := mustJSON(t, tr.reqs[0].Body)
	want := `{"title":"Kesirler","sections":[{"title":"Giriş","xpPoints":10,"order":1}]}`
	if body != want {
		t.Fatalf("want %s, got %s", want, body)
	}
}

func TestSessionValidationSendsNothing(t *testing.T) {
	tr := &echoTransport{}
	n := &fakeNotifier{}
	def := Definition{
		Spec: Spec{Name: "reset-password", Method: http.MethodPost, Path: "/api/auth/reset-password/t"},
		Comparisons: []Comparison{
			MustMatch("confirm", "newPassword", "confirmPassword", "Yeni şifreler eşleşmiyor!"),
			MustDiffer("reuse", "oldPassword", "newPassword", "Yeni şifreniz eski şifrenizle aynı olamaz!"),
		},
	}
	seed := Of(F("oldPassword", "a"), F("newPassword", "a"), F("confirmPassword", "a"))
	s := Open(def, seed, Deps{Transport: tr, Notifier: n})

	res, err := s.Submit(context.Background())
	if !IsKind(err, KindValidation) {
		t.Fatalf("want validation error, got %v", err)
	}
	if res.Message != "Yeni şifreniz eski şifrenizle aynı olamaz!" {
		t.Fatalf("unexpected message %q", res.Message)
	}
	if len(tr.reqs) != 0 {
		t.Fatal("no request may be sent on validation failure")
	}
	if got := n.last(); got.level != notify.Error || got.msg != res.Message {
		t.Fatalf("unexpected notification %+v", got)
	}
	if s.Controller().State() != Idle {
		t.Fatal("controller must stay idle")
	}
}

func TestSessionMissingSessionIsAuthError(t *testing.T) {
	tr := &echoTransport{}
	s := Open(lessonDefinition(), Of(F("title", "Kesirler"), F("sections", []*Draft{section("a", 1)})),
		Deps{Transport: tr, Credentials: staticCreds{err: errors.New("no token")}})
	_, err := s.Submit(context.Background())
	fe, ok := AsError(err)
	if !ok || fe.Kind != KindAuth || fe.Message != DefaultMessages().Auth {
		t.Fatalf("want auth error, got %v", err)
	}
	if len(tr.reqs) != 0 {
		t.Fatal("no request without a token")
	}
}

func TestSessionFailurePreservesDraft(t *testing.T) {
	tr := TransportFunc(func(ctx context.Context, req Request) (Response, error) {
		f := false
		return Response{Status: http.StatusBadRequest, Success: &f, Message: "Toplam XP 5000'i aşamaz"}, nil
	})
	s := Open(lessonDefinition(), NewDraft(), Deps{Transport: tr, Credentials: staticCreds{token: "tok"}})
	s.Store().Set("title", "Kesirler")
	s.Store().AddItem(List("sections"), section("a", 100))
	before := s.Store().Snapshot()

	res, err := s.Submit(context.Background())
	if !IsKind(err, KindServer) || res.Message != "Toplam XP 5000'i aşamaz" {
		t.Fatalf("unexpected result %+v, %v", res, err)
	}
	if !s.Store().Snapshot().Equal(before) || !s.Store().Dirty() {
		t.Fatal("draft must be preserved after failure")
	}
}

func TestSessionResetOnSuccessAndHook(t *testing.T) {
	tr := TransportFunc(func(ctx context.Context, req Request) (Response, error) {
		return Response{Status: http.StatusOK}, nil
	})
	var hooked Result
	def := Definition{Spec: Spec{
		Name: "forgot-password", Method: http.MethodPost, Path: "/api/auth/forgot-password",
		ResetOnSuccess: true,
		Success:        "E-posta gönderildi",
		OnSuccess: func(ctx context.Context, res Result) error {
			hooked = res
			return nil
		},
	}}
	s := Open(def, Of(F("email", "")), Deps{Transport: tr})
	var resolved int
	s.OnResolve(func(Result) { resolved++ })
	s.Store().Set("email", "a@b.co")

	if _, err := s.Submit(context.Background()); err != nil {
		t.Fatal(err)
	}
	if got := s.Store().Snapshot().String("email"); got != "" {
		t.Fatalf("draft should be reset to seed, got %q", got)
	}
	if hooked.Message != "E-posta gönderildi" || resolved != 1 {
		t.Fatalf("hook=%+v resolved=%d", hooked, resolved)
	}
}

func TestSessionSingleFlight(t *testing.T) {
	release := make(chan struct{})
	entered := make(chan struct{})
	var calls int
	tr := TransportFunc(func(ctx context.Context, req Request) (Response, error) {
		calls++
		close(entered)
		<-release
		return Response{Status: http.StatusOK}, nil
	})
	s := Open(Definition{Spec: Spec{Name: "profile", Method: http.MethodPut, Path: "/api/auth/update"}}, NewDraft(), Deps{Transport: tr})

	done := make(chan error, 1)
	go func() {
		_, err := s.Submit(context.Background())
		done <- err
	}()
	<-entered
	if _, err := s.Submit(context.Background()); !errors.Is(err, ErrInFlight) {
		t.Fatalf("want ErrInFlight, got %v", err)
	}
	close(release)
	if err := <-done; err != nil {
		t.Fatal(err)
	}
	if calls != 1 {
		t.Fatalf("want one request, got %d", calls)
	}
}

func mustJSON(t *testing.T, v any) string {
	t.Helper()
	b, err := json.Marshal(v)
	if err != nil {
		t.Fatal(err)
	}
	return string(b)
}

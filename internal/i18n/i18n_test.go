package i18n

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"golang.org/x/text/language"
)

func TestMatch(t *testing.T) {
	cases := []struct {
		in   string
		want language.Tag
	}{
		{"", language.Turkish},
		{"tr-TR", language.Turkish},
		{"en-US", language.English},
		{"de-DE,en;q=0.8", language.English},
		{"fr", language.Turkish},
	}
	for _, tc := range cases {
		if got := Match(tc.in); got != tc.want {
			t.Errorf("Match(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestCatalogCoversBothLocales(t *testing.T) {
	tr := NewPrinter("tr")
	en := NewPrinter("en")
	for key := range entries {
		if tr.Sprintf(key) == key || en.Sprintf(key) == key {
			t.Errorf("key %q is missing a translation", key)
		}
	}
	if got := tr.Sprintf(PasswordReuse); got != "Yeni şifreniz eski şifrenizle aynı olamaz!" {
		t.Fatalf("unexpected turkish text %q", got)
	}
	if got := en.Sprintf(LengthBetween, "Title", 3, 100); got != "Title must be between 3 and 100 characters" {
		t.Fatalf("unexpected english text %q", got)
	}
}

func TestMessages(t *testing.T) {
	m := Messages(NewPrinter("tr"))
	if m.Conflict == "" || m.Auth == m.Failure || m.Pending != "Kaydediliyor..." {
		t.Fatalf("unexpected messages %+v", m)
	}
}

func TestMiddlewareUsesAcceptLanguage(t *testing.T) {
	var got string
	h := Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = FromContext(r.Context()).Sprintf(NotFound)
	}))
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Accept-Language", "en-GB,en;q=0.9")
	h.ServeHTTP(httptest.NewRecorder(), req)
	if got != "Record not found" {
		t.Fatalf("got %q", got)
	}

	req = httptest.NewRequest(http.MethodGet, "/?lang=tr", nil)
	req.Header.Set("Accept-Language", "en")
	h.ServeHTTP(httptest.NewRecorder(), req)
	if got != "Kayıt bulunamadı" {
		t.Fatalf("lang query should win, got %q", got)
	}
}

// Package i18n resolves locales and holds the user-facing message catalog.
package i18n

import (
	"context"
	"net/http"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"

	"github.com/pixelsinav/pixelsinav/internal/form"
)

// Supported locales; the first is the default.
var Supported = []language.Tag{language.Turkish, language.English}

var matcher = language.NewMatcher(Supported)

var cat = build()

func build() *catalog.Builder {
	b := catalog.NewBuilder()
	for key, e := range entries {
		if err := b.SetString(language.Turkish, key, e.tr); err != nil {
			panic(err)
		}
		if err := b.SetString(language.English, key, e.en); err != nil {
			panic(err)
		}
	}
	return b
}

// Match picks the best supported locale for the given preferences. Each entry may be
// a tag ("en-US") or an Accept-Language value ("en-US,en;q=0.9").
func Match(prefs ...string) language.Tag {
	_, idx := language.MatchStrings(matcher, prefs...)
	return Supported[idx]
}

// NewPrinter returns a printer bound to the catalog for the best match of locale.
func NewPrinter(locale string) *message.Printer {
	return message.NewPrinter(Match(locale), message.Catalog(cat))
}

// Messages builds the session fallbacks in p's language.
func Messages(p *message.Printer) form.Messages {
	return form.Messages{
		Success:   p.Sprintf(SubmitSuccess),
		Failure:   p.Sprintf(SubmitFailure),
		Transport: p.Sprintf(SubmitTransport),
		Timeout:   p.Sprintf(SubmitTimeout),
		Conflict:  p.Sprintf(SubmitConflict),
		Auth:      p.Sprintf(SubmitAuth),
		Pending:   p.Sprintf(SubmitPending),
	}
}

type ctxKey struct{}

// Middleware stores the printer for the request's lang query or Accept-Language header.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tag := Match(r.URL.Query().Get("lang"), r.Header.Get("Accept-Language"))
		p := message.NewPrinter(tag, message.Catalog(cat))
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxKey{}, p)))
	})
}

// FromContext returns the request printer, or a default-locale one.
func FromContext(ctx context.Context) *message.Printer {
	if p, ok := ctx.Value(ctxKey{}).(*message.Printer); ok {
		return p
	}
	return message.NewPrinter(Supported[0], message.Catalog(cat))
}

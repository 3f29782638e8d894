// Package forms defines the PixelSınav forms on top of package form.
package forms

import (
	"net/http"
	"net/url"

	"golang.org/x/text/message"

	"github.com/pixelsinav/pixelsinav/internal/form"
	"github.com/pixelsinav/pixelsinav/internal/i18n"
)

// Form pairs a definition with the draft a fresh session starts from.
type Form struct {
	Definition form.Definition
	Seed       *form.Draft
	// Autosave marks authoring forms whose unsent drafts may be kept for resuming.
	Autosave bool
}

func (f Form) Name() string { return f.Definition.Spec.Name }

// Open starts a session seeded with f.Seed.
func (f Form) Open(deps form.Deps) *form.Session {
	return form.Open(f.Definition, f.Seed, deps)
}

// OpenWith starts a session seeded with a fetched entity or a resumed draft.
func (f Form) OpenWith(seed *form.Draft, deps form.Deps) *form.Session {
	if seed == nil {
		seed = f.Seed
	}
	return form.Open(f.Definition, seed, deps)
}

func label(p *message.Printer, key string) string { return p.Sprintf(key) }

func required(p *message.Printer, field, labelKey string) form.Rule {
	return form.Required(field, p.Sprintf(i18n.Required, label(p, labelKey)))
}

func between(p *message.Printer, field, labelKey string, min, max int) form.Rule {
	return form.Length(field, min, max, p.Sprintf(i18n.LengthBetween, label(p, labelKey), min, max))
}

func atLeast(p *message.Printer, field, labelKey string, min int) form.Rule {
	return form.Length(field, min, 0, p.Sprintf(i18n.LengthMin, label(p, labelKey), min))
}

func atMost(p *message.Printer, field, labelKey string, max int) form.Rule {
	return form.Length(field, 0, max, p.Sprintf(i18n.LengthMax, label(p, labelKey), max))
}

func oneOf(p *message.Printer, field, labelKey string, allowed []string) form.Rule {
	return form.OneOf(field, allowed, p.Sprintf(i18n.OneOf, label(p, labelKey)))
}

// pick copies the named fields that are present in d, in the given order.
func pick(d *form.Draft, fields ...string) *form.Draft {
	out := make([]form.Field, 0, len(fields))
	for _, f := range fields {
		if v, ok := d.Get(f); ok {
			out = append(out, form.F(f, v))
		}
	}
	return form.Of(out...)
}

// upsert posts to the collection until the draft carries a server id, then puts to it.
func upsert(spec form.Spec, collection string) form.Spec {
	base := "/api/" + collection
	spec.Method = http.MethodPost
	spec.Path = base
	spec.Auth = true
	spec.MethodFunc = func(d *form.Draft) string {
		if d.String("id") != "" {
			return http.MethodPut
		}
		return http.MethodPost
	}
	spec.PathFunc = func(d *form.Draft) string {
		if id := d.String("id"); id != "" {
			return base + "/" + url.PathEscape(id)
		}
		return base
	}
	return spec
}

// Delete removes one entity of a collection.
func Delete(p *message.Printer, collection, id string) Form {
	return Form{
		Definition: form.Definition{Spec: form.Spec{
			Name:    "delete-" + collection,
			Method:  http.MethodDelete,
			Path:    "/api/" + collection + "/" + url.PathEscape(id),
			Auth:    true,
			Success: p.Sprintf(i18n.Deleted),
		}},
		Seed: form.NewDraft(),
	}
}

package forms

import (
	"golang.org/x/text/message"

	"github.com/pixelsinav/pixelsinav/internal/content"
	"github.com/pixelsinav/pixelsinav/internal/form"
	"github.com/pixelsinav/pixelsinav/internal/i18n"
)

func Category(p *message.Printer) Form {
	def := form.Definition{
		Spec: upsert(form.Spec{
			Name:     "category",
			Success:  p.Sprintf(i18n.CategorySaved),
			Conflict: p.Sprintf(i18n.CategoryConflict),
		}, content.CollectionCategories),
		Rules: []form.Rule{
			required(p, "name", i18n.LabelName),
			required(p, "slug", i18n.LabelSlug),
			required(p, "color", i18n.LabelColor),
			between(p, "name", i18n.LabelName, 2, 50),
			atMost(p, "description", i18n.LabelDescription, 500),
			atMost(p, "metaTitle", i18n.LabelMetaTitle, 60),
			atMost(p, "metaDescription", i18n.LabelMetaDescription, 160),
			form.Range("displayOrder", 1, 1e6, p.Sprintf(i18n.RangeMin, label(p, i18n.LabelDisplayOrder), 1)),
			oneOf(p, "color", i18n.LabelColor, content.CategoryColors),
			oneOf(p, "icon", i18n.LabelIcon, content.CategoryIcons),
			oneOf(p, "status", i18n.LabelStatus, content.CategoryStates),
		},
	}
	seed := form.Of(
		form.F("name", ""),
		form.F("slug", ""),
		form.F("description", ""),
		form.F("color", content.CategoryColors[0]),
		form.F("icon", content.CategoryIcons[0]),
		form.F("status", "active"),
		form.F("displayOrder", 1),
		form.F("metaTitle", ""),
		form.F("metaDescription", ""),
	)
	return Form{Definition: def, Seed: seed, Autosave: true}
}

// SlugFromName keeps the slug field derived from the name field.
func SlugFromName(s *form.Store) {
	s.Observe(func(c form.Change) {
		if c.Field != "name" && c.Field != "" {
			return
		}
		s.Set("slug", content.Slugify(s.Snapshot().String("name")))
	})
}

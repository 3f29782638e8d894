package forms

import (
	"net/http"
	"net/url"

	"golang.org/x/text/message"

	"github.com/pixelsinav/pixelsinav/internal/content"
	"github.com/pixelsinav/pixelsinav/internal/form"
	"github.com/pixelsinav/pixelsinav/internal/i18n"
)

var Sections = form.List("sections")

// SectionTemplate is a new section worth xp points.
func SectionTemplate(title, description string, xp int) *form.Draft {
	return form.Of(
		form.F("title", title),
		form.F("description", description),
		form.F("xpPoints", xp),
	)
}

func Lesson(p *message.Printer) Form {
	xp := label(p, i18n.LabelXP)
	def := form.Definition{
		Spec: upsert(form.Spec{
			Name:    "lesson",
			Success: p.Sprintf(i18n.LessonSaved),
		}, content.CollectionLessons),
		Lists: map[string]form.ListPolicy{
			Sections.Key(): {
				Max:         content.MaxSections,
				BudgetField: "xpPoints",
				Ceiling:     content.MaxLessonXP,
				OrderField:  "order",
				Template:    SectionTemplate("", "", 0),
			},
		},
		Budgets: []form.ListPath{Sections},
		Rules: []form.Rule{
			required(p, "title", i18n.LabelTitle),
			required(p, "category", i18n.LabelCategory),
			required(p, "description", i18n.LabelDescription),
			between(p, "title", i18n.LabelTitle, 3, 100),
			between(p, "description", i18n.LabelDescription, 10, 2000),
			form.Each("sections", required(p, "title", i18n.LabelSectionTitle)),
			form.Count("sections", 1, content.MaxSections, p.Sprintf(i18n.CountMin, 1, label(p, i18n.LabelSections))),
			form.WithinBudget("sections", "xpPoints", content.MaxLessonXP, p.Sprintf(i18n.BudgetExceeded, xp, content.MaxLessonXP)),
			oneOf(p, "difficulty", i18n.LabelDifficulty, content.Difficulties),
		},
	}
	seed := form.Of(
		form.F("title", ""),
		form.F("category", ""),
		form.F("description", ""),
		form.F("difficulty", content.Difficulties[0]),
		form.F("content", ""),
		form.F("tags", []string{}),
		form.F("sections", []form.Item{}),
	)
	return Form{Definition: def, Seed: seed, Autosave: true}
}

// AddSection appends a section; xp is capped to the remaining lesson budget.
func AddSection(s *form.Store, title string, xp int) (form.Item, bool) {
	return s.AddItem(Sections, SectionTemplate(title, "", xp))
}

// SectionContent edits the markdown body of one stored lesson section.
func SectionContent(p *message.Printer, lessonID, sectionID string) Form {
	def := form.Definition{
		Spec: form.Spec{
			Name:   "section-content",
			Method: http.MethodPut,
			Path: "/api/" + content.CollectionLessons + "/" + url.PathEscape(lessonID) +
				"/sections/" + url.PathEscape(sectionID) + "/content",
			Auth:         true,
			IgnoreEntity: true,
			Success:      p.Sprintf(i18n.ContentSaved),
		},
		Rules: []form.Rule{
			required(p, "content", i18n.LabelContent),
			atMost(p, "content", i18n.LabelContent, 20000),
		},
	}
	return Form{Definition: def, Seed: form.Of(form.F("content", ""))}
}

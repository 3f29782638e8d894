package forms

import (
	"golang.org/x/text/message"

	"github.com/pixelsinav/pixelsinav/internal/content"
	"github.com/pixelsinav/pixelsinav/internal/form"
	"github.com/pixelsinav/pixelsinav/internal/i18n"
)

var Questions = form.List("questions")

// Options addresses the options of one question.
func Options(questionID string) form.ListPath {
	return form.List("questions", questionID, "options")
}

// OptionTemplate is an option with the given text and correctness.
func OptionTemplate(text string, correct bool) *form.Draft {
	return form.Of(form.F("text", text), form.F("isCorrect", correct))
}

// QuestionTemplate holds DefaultPoints and three empty options, the first marked correct.
// Points are capped to the remaining exam budget when the question is added.
func QuestionTemplate(text string, points int) *form.Draft {
	return form.Of(
		form.F("text", text),
		form.F("points", points),
		form.F("options", []*form.Draft{
			OptionTemplate("", true),
			OptionTemplate("", false),
			OptionTemplate("", false),
		}),
	)
}

func Exam(p *message.Printer) Form {
	pts := label(p, i18n.LabelPoints)
	def := form.Definition{
		Spec: upsert(form.Spec{
			Name:    "exam",
			Success: p.Sprintf(i18n.ExamSaved),
		}, content.CollectionExams),
		Lists: map[string]form.ListPolicy{
			Questions.Key(): {
				Max:         content.MaxQuestions,
				BudgetField: "points",
				Ceiling:     content.MaxExamPoints,
				Template:    QuestionTemplate("", content.DefaultPoints),
			},
			Questions.Key() + ".options": {
				Min:       content.MinOptions,
				Max:       content.MaxOptions,
				Exclusive: "isCorrect",
				Template:  OptionTemplate("", false),
			},
		},
		Budgets: []form.ListPath{Questions},
		Rules: []form.Rule{
			required(p, "title", i18n.LabelTitle),
			required(p, "category", i18n.LabelCategory),
			required(p, "description", i18n.LabelDescription),
			form.Each("questions", required(p, "text", i18n.LabelQuestionText)),
			form.Each("questions", form.Each("options", required(p, "text", i18n.LabelOptionText))),
			between(p, "title", i18n.LabelTitle, 3, 100),
			between(p, "description", i18n.LabelDescription, 10, 2000),
			form.Range("duration", 1, 600, p.Sprintf(i18n.RangeMin, label(p, i18n.LabelDuration), 1)),
			form.Count("questions", 1, content.MaxQuestions, p.Sprintf(i18n.CountMin, 1, label(p, i18n.LabelQuestions))),
			form.Each("questions", form.Count("options", content.MinOptions, content.MaxOptions,
				p.Sprintf(i18n.CountMin, content.MinOptions, label(p, i18n.LabelOptions)))),
			form.Each("questions", form.ExactlyOne("options", "isCorrect", p.Sprintf(i18n.OneCorrect))),
			form.WithinBudget("questions", "points", content.MaxExamPoints, p.Sprintf(i18n.BudgetExceeded, pts, content.MaxExamPoints)),
		},
	}
	seed := form.Of(
		form.F("title", ""),
		form.F("category", ""),
		form.F("description", ""),
		form.F("duration", 30),
		form.F("questions", []form.Item{}),
	)
	return Form{Definition: def, Seed: seed, Autosave: true}
}

// AddQuestion appends a question worth DefaultPoints, or whatever budget is left.
func AddQuestion(s *form.Store, text string) (form.Item, bool) {
	return s.AddItem(Questions, QuestionTemplate(text, content.DefaultPoints))
}

func AddOption(s *form.Store, questionID, text string) (form.Item, bool) {
	return s.AddItem(Options(questionID), OptionTemplate(text, false))
}

// MarkCorrect makes one option the only correct option of its question.
func MarkCorrect(s *form.Store, questionID, optionID string) bool {
	return s.SetNested(Options(questionID), optionID, "isCorrect", true)
}

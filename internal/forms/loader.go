package forms

import (
	"fmt"
	"io"

	"golang.org/x/text/message"
	"gopkg.in/yaml.v3"

	"github.com/pixelsinav/pixelsinav/internal/content"
	"github.com/pixelsinav/pixelsinav/internal/form"
	"github.com/pixelsinav/pixelsinav/internal/i18n"
)

// LessonFile is the YAML authoring format of a lesson.
type LessonFile struct {
	ID          string   `yaml:"id"`
	Title       string   `yaml:"title"`
	Category    string   `yaml:"category"`
	Description string   `yaml:"description"`
	Difficulty  string   `yaml:"difficulty"`
	Content     string   `yaml:"content"`
	Tags        []string `yaml:"tags"`
	Sections    []struct {
		Title       string `yaml:"title"`
		Description string `yaml:"description"`
		XP          int    `yaml:"xp"`
	} `yaml:"sections"`
}

// ExamFile is the YAML authoring format of an exam.
type ExamFile struct {
	ID          string `yaml:"id"`
	Title       string `yaml:"title"`
	Category    string `yaml:"category"`
	Description string `yaml:"description"`
	Duration    int    `yaml:"duration"`
	Questions   []struct {
		Text    string `yaml:"text"`
		Points  *int   `yaml:"points"`
		Options []struct {
			Text    string `yaml:"text"`
			Correct bool   `yaml:"correct"`
		} `yaml:"options"`
	} `yaml:"questions"`
}

func decodeStrict(r io.Reader, v any) error {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("decode yaml: %w", err)
	}
	return nil
}

func LoadLesson(r io.Reader) (LessonFile, error) {
	var f LessonFile
	err := decodeStrict(r, &f)
	return f, err
}

func LoadExam(r io.Reader) (ExamFile, error) {
	var f ExamFile
	err := decodeStrict(r, &f)
	return f, err
}

// Apply replays the file through the store, so list limits and budgets apply exactly as
// they would to interactive edits. It returns a notice for every skipped or capped section.
func (f LessonFile) Apply(p *message.Printer, s *form.Store) []string {
	if f.ID != "" {
		s.Set("id", f.ID)
	}
	s.Set("title", f.Title)
	s.Set("category", f.Category)
	s.Set("description", f.Description)
	if f.Difficulty != "" {
		s.Set("difficulty", f.Difficulty)
	}
	s.Set("content", f.Content)
	if f.Tags != nil {
		s.Set("tags", f.Tags)
	}

	var notes []string
	for _, sec := range f.Sections {
		it, ok := s.AddItem(Sections, SectionTemplate(sec.Title, sec.Description, sec.XP))
		if !ok {
			notes = append(notes, p.Sprintf(i18n.ItemSkipped, sec.Title))
			continue
		}
		if got := it.Fields.Int("xpPoints"); got < sec.XP {
			notes = append(notes, p.Sprintf(i18n.ItemCapped, sec.Title, sec.XP, got))
		}
	}
	return notes
}

// Apply replays the exam file through the store. Questions without options get the default
// three; questions without points get DefaultPoints.
func (f ExamFile) Apply(p *message.Printer, s *form.Store) []string {
	if f.ID != "" {
		s.Set("id", f.ID)
	}
	s.Set("title", f.Title)
	s.Set("category", f.Category)
	s.Set("description", f.Description)
	if f.Duration > 0 {
		s.Set("duration", f.Duration)
	}

	var notes []string
	for _, q := range f.Questions {
		want := content.DefaultPoints
		if q.Points != nil {
			want = *q.Points
		}
		tmpl := QuestionTemplate(q.Text, want)
		if len(q.Options) > 0 {
			opts := make([]*form.Draft, len(q.Options))
			for i, o := range q.Options {
				opts[i] = OptionTemplate(o.Text, o.Correct)
			}
			tmpl = form.Of(form.F("text", q.Text), form.F("points", want), form.F("options", opts))
		}
		it, ok := s.AddItem(Questions, tmpl)
		if !ok {
			notes = append(notes, p.Sprintf(i18n.ItemSkipped, q.Text))
			continue
		}
		if got := it.Fields.Int("points"); got < want {
			notes = append(notes, p.Sprintf(i18n.ItemCapped, q.Text, want, got))
		}
	}
	return notes
}

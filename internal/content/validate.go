package content

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// ErrInvalid wraps every server-side validation failure.
var ErrInvalid = errors.New("invalid")

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalid, fmt.Sprintf(format, args...))
}

func between(field, s string, min, max int) error {
	tag := fmt.Sprintf("min=%d", min)
	if max > 0 {
		tag += fmt.Sprintf(",max=%d", max)
	}
	if validate.Var(strings.TrimSpace(s), tag) != nil {
		return invalid("%s must be %d-%d characters", field, min, max)
	}
	return nil
}

func oneOf(field, v string, allowed []string) error {
	if validate.Var(v, "oneof="+strings.Join(allowed, " ")) != nil {
		return invalid("%s has an unknown value %q", field, v)
	}
	return nil
}

func (l Lesson) Validate() error {
	if err := between("title", l.Title, 3, 100); err != nil {
		return err
	}
	if err := between("description", l.Description, 10, 2000); err != nil {
		return err
	}
	if l.Difficulty != "" {
		if err := oneOf("difficulty", l.Difficulty, Difficulties); err != nil {
			return err
		}
	}
	if len(l.Sections) == 0 || len(l.Sections) > MaxSections {
		return invalid("a lesson needs 1-%d sections", MaxSections)
	}
	for i, s := range l.Sections {
		if strings.TrimSpace(s.Title) == "" {
			return invalid("section %d has no title", i+1)
		}
		if s.XPPoints < 0 {
			return invalid("section %d has negative XP", i+1)
		}
	}
	if total := l.TotalXP(); total > MaxLessonXP {
		return invalid("total XP %d exceeds %d", total, MaxLessonXP)
	}
	return nil
}

func (e Exam) Validate() error {
	if err := between("title", e.Title, 3, 100); err != nil {
		return err
	}
	if err := between("description", e.Description, 10, 2000); err != nil {
		return err
	}
	if e.Duration < 1 {
		return invalid("duration must be at least 1 minute")
	}
	if len(e.Questions) == 0 || len(e.Questions) > MaxQuestions {
		return invalid("an exam needs 1-%d questions", MaxQuestions)
	}
	for i, q := range e.Questions {
		if strings.TrimSpace(q.Text) == "" {
			return invalid("question %d has no text", i+1)
		}
		if q.Points < 0 {
			return invalid("question %d has negative points", i+1)
		}
		if len(q.Options) < MinOptions || len(q.Options) > MaxOptions {
			return invalid("question %d needs %d-%d options", i+1, MinOptions, MaxOptions)
		}
		correct := 0
		for j, o := range q.Options {
			if strings.TrimSpace(o.Text) == "" {
				return invalid("question %d option %d has no text", i+1, j+1)
			}
			if o.IsCorrect {
				correct++
			}
		}
		if correct != 1 {
			return invalid("question %d needs exactly one correct option", i+1)
		}
	}
	if total := e.TotalPoints(); total > MaxExamPoints {
		return invalid("total points %d exceed %d", total, MaxExamPoints)
	}
	return nil
}

func (c Category) Validate() error {
	if err := between("name", c.Name, 2, 50); err != nil {
		return err
	}
	if c.Slug == "" || c.Slug != Slugify(c.Slug) {
		return invalid("slug %q is not normalized", c.Slug)
	}
	if err := oneOf("color", c.Color, CategoryColors); err != nil {
		return err
	}
	if err := oneOf("status", c.Status, CategoryStates); err != nil {
		return err
	}
	if c.DisplayOrder < 1 {
		return invalid("displayOrder must be at least 1")
	}
	if validate.Var(c.Description, "max=500") != nil {
		return invalid("description must be at most 500 characters")
	}
	if validate.Var(c.MetaTitle, "max=60") != nil {
		return invalid("metaTitle must be at most 60 characters")
	}
	if validate.Var(c.MetaDescription, "max=160") != nil {
		return invalid("metaDescription must be at most 160 characters")
	}
	return nil
}

func (a TeacherApplication) Validate() error {
	if err := between("fullName", a.FullName, 2, 100); err != nil {
		return err
	}
	if strings.TrimSpace(a.Email) == "" || strings.TrimSpace(a.Education) == "" {
		return invalid("email and education are required")
	}
	if err := between("experience", a.Experience, 10, 2000); err != nil {
		return err
	}
	if err := between("expertise", a.Expertise, 10, 2000); err != nil {
		return err
	}
	if a.CV == nil || a.CV.Key == "" {
		return invalid("cv is required")
	}
	if err := oneOf("cv", strings.ToLower(filepath.Ext(a.CV.Name)), CVExtensions); err != nil {
		return err
	}
	if len(a.Certificates) > MaxCertificates {
		return invalid("at most %d certificates", MaxCertificates)
	}
	return nil
}

func (p Privacy) Validate() error {
	for field, v := range map[string]string{
		"profileVisibility": p.ProfileVisibility,
		"onlineStatus":      p.OnlineStatus,
		"statsSharing":      p.StatsSharing,
	} {
		if err := oneOf(field, v, Visibilities); err != nil {
			return err
		}
	}
	return nil
}

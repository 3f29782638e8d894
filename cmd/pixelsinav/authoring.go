package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strconv"

	"github.com/pixelsinav/pixelsinav/internal/content"
	"github.com/pixelsinav/pixelsinav/internal/form"
	"github.com/pixelsinav/pixelsinav/internal/forms"
	"github.com/pixelsinav/pixelsinav/internal/i18n"
)

func (a *app) upload(ctx context.Context, path string) (form.FileRef, error) {
	tok, err := a.holder.Bearer(ctx)
	if err != nil {
		return form.FileRef{}, err
	}
	f, err := os.Open(path)
	if err != nil {
		return form.FileRef{}, err
	}
	defer f.Close()
	ref, err := a.client.Upload(ctx, "/api/assets", tok, filepath.Base(path), f)
	if err != nil {
		return form.FileRef{}, err
	}
	a.sink.Success(a.p.Sprintf(i18n.UploadSuccess))
	return ref, nil
}

func cmdUpload(ctx context.Context, a *app, args []string) error {
	if len(args) != 1 {
		return errors.New("usage: pixelsinav upload <file>")
	}
	ref, err := a.upload(ctx, args[0])
	if err != nil {
		return err
	}
	a.printf("%s\t%s\t%d\n", ref.Key, ref.Name, ref.Size)
	return nil
}

// subcommand splits "add|delete" off args.
func subcommand(args []string) (string, []string, error) {
	if len(args) == 0 {
		return "", nil, errors.New("expected add or delete")
	}
	switch args[0] {
	case "add", "delete":
		return args[0], args[1:], nil
	}
	return "", nil, errors.New("expected add or delete, got " + args[0])
}

func deleteEntity(ctx context.Context, a *app, collection string, args []string) error {
	fs := flag.NewFlagSet("delete", flag.ContinueOnError)
	id := fs.String("id", "", "id of the "+collection+" entry")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *id == "" {
		return errors.New("-id is required")
	}
	s, _ := a.open(ctx, forms.Delete(a.p, collection, *id), nil, false)
	return submit(ctx, s)
}

// existing fetches a stored entity to edit, or returns nil for a new one.
func (a *app) existing(ctx context.Context, collection, id string) (*form.Draft, error) {
	if id == "" {
		return nil, nil
	}
	return a.fetch(ctx, form.Request{Method: http.MethodGet, Path: "/api/" + collection + "/" + url.PathEscape(id)})
}

func cmdCategory(ctx context.Context, a *app, args []string) error {
	verb, rest, err := subcommand(args)
	if err != nil {
		return err
	}
	if verb == "delete" {
		return deleteEntity(ctx, a, content.CollectionCategories, rest)
	}

	fs := flag.NewFlagSet("category add", flag.ContinueOnError)
	id := fs.String("id", "", "update this category instead of creating one")
	fields := map[string]string{
		"name": "name", "slug": "slug", "description": "description", "color": "color",
		"icon": "icon", "status": "status", "meta-title": "metaTitle", "meta-description": "metaDescription",
	}
	for name, field := range fields {
		fs.String(name, "", field)
	}
	order := fs.Int("order", 0, "display order (1 or more)")
	resume := fs.Bool("resume", false, "continue the last unsent draft")
	if err := fs.Parse(rest); err != nil {
		return err
	}
	seed, err := a.existing(ctx, content.CollectionCategories, *id)
	if err != nil {
		return err
	}
	f := forms.Category(a.p)
	s, _ := a.open(ctx, f, seed, *resume)
	st := s.Store()
	forms.SlugFromName(st)
	setFlags(fs, st, fields)
	if *order > 0 {
		st.Set("displayOrder", *order)
	}
	return submit(ctx, s)
}

func cmdLesson(ctx context.Context, a *app, args []string) error {
	verb, rest, err := subcommand(args)
	if err != nil {
		return err
	}
	if verb == "delete" {
		return deleteEntity(ctx, a, content.CollectionLessons, rest)
	}

	fs := flag.NewFlagSet("lesson add", flag.ContinueOnError)
	file := fs.String("f", "", "lesson YAML file")
	resume := fs.Bool("resume", false, "continue the last unsent draft instead of reading -f")
	if err := fs.Parse(rest); err != nil {
		return err
	}
	s, resumed := a.open(ctx, forms.Lesson(a.p), nil, *resume)
	if !resumed {
		if *file == "" {
			return errors.New("-f is required")
		}
		r, err := os.Open(*file)
		if err != nil {
			return err
		}
		defer r.Close()
		lf, err := forms.LoadLesson(r)
		if err != nil {
			return err
		}
		a.notes(lf.Apply(a.p, s.Store()))
	}
	a.budget(s, forms.Sections, i18n.LabelXP)
	return submit(ctx, s)
}

func cmdExam(ctx context.Context, a *app, args []string) error {
	verb, rest, err := subcommand(args)
	if err != nil {
		return err
	}
	if verb == "delete" {
		return deleteEntity(ctx, a, content.CollectionExams, rest)
	}

	fs := flag.NewFlagSet("exam add", flag.ContinueOnError)
	file := fs.String("f", "", "exam YAML file")
	resume := fs.Bool("resume", false, "continue the last unsent draft instead of reading -f")
	duration := fs.String("duration", "", "override the duration in minutes")
	if err := fs.Parse(rest); err != nil {
		return err
	}
	s, resumed := a.open(ctx, forms.Exam(a.p), nil, *resume)
	if !resumed {
		if *file == "" {
			return errors.New("-f is required")
		}
		r, err := os.Open(*file)
		if err != nil {
			return err
		}
		defer r.Close()
		ef, err := forms.LoadExam(r)
		if err != nil {
			return err
		}
		a.notes(ef.Apply(a.p, s.Store()))
	}
	if *duration != "" {
		n, err := strconv.Atoi(*duration)
		if err != nil {
			return err
		}
		s.Store().Set("duration", n)
	}
	a.budget(s, forms.Questions, i18n.LabelPoints)
	return submit(ctx, s)
}

func cmdSection(ctx context.Context, a *app, args []string) error {
	fs := flag.NewFlagSet("section", flag.ContinueOnError)
	lesson := fs.String("lesson", "", "lesson id")
	section := fs.String("section", "", "section id")
	file := fs.String("f", "", "markdown file with the section content")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *lesson == "" || *section == "" || *file == "" {
		return errors.New("-lesson, -section and -f are required")
	}
	body, err := os.ReadFile(*file)
	if err != nil {
		return err
	}
	s, _ := a.open(ctx, forms.SectionContent(a.p, *lesson, *section), nil, false)
	s.Store().Set("content", string(body))
	return submit(ctx, s)
}

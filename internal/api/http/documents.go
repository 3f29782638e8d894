package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/pixelsinav/pixelsinav/internal/auth"
	"github.com/pixelsinav/pixelsinav/internal/content"
	"github.com/pixelsinav/pixelsinav/internal/i18n"
	syncx "github.com/pixelsinav/pixelsinav/internal/sync"
)

// collection describes one CRUD resource under /api/<name>.
type collection struct {
	name     string
	noun     string // permission prefix
	conflict string // catalog key for a natural-key collision
	// body validates a request body and returns the stored form plus its natural key.
	body func(raw []byte) (json.RawMessage, string, error)
}

var collections = []collection{
	{name: content.CollectionLessons, noun: "lesson", conflict: i18n.SubmitConflict, body: lessonBody},
	{name: content.CollectionExams, noun: "exam", conflict: i18n.SubmitConflict, body: examBody},
	{name: content.CollectionCategories, noun: "category", conflict: i18n.CategoryConflict, body: categoryBody},
}

// canonical marshals v without the fields the store owns.
func canonical(v any) (json.RawMessage, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var m map[string]any
	if err := json.Unmarshal(b, &m); err != nil {
		return nil, err
	}
	for _, k := range []string{"id", "ownerId", "createdAt", "updatedAt"} {
		delete(m, k)
	}
	return json.Marshal(m)
}

func lessonBody(raw []byte) (json.RawMessage, string, error) {
	var l content.Lesson
	if err := json.Unmarshal(raw, &l); err != nil {
		return nil, "", err
	}
	for i := range l.Sections {
		if l.Sections[i].ID == "" {
			l.Sections[i].ID = uuid.NewString()
		}
		l.Sections[i].Order = i + 1
	}
	if err := l.Validate(); err != nil {
		return nil, "", err
	}
	b, err := canonical(l)
	return b, "", err
}

func examBody(raw []byte) (json.RawMessage, string, error) {
	var e content.Exam
	if err := json.Unmarshal(raw, &e); err != nil {
		return nil, "", err
	}
	for i := range e.Questions {
		q := &e.Questions[i]
		if q.ID == "" {
			q.ID = uuid.NewString()
		}
		for j := range q.Options {
			if q.Options[j].ID == "" {
				q.Options[j].ID = uuid.NewString()
			}
		}
	}
	if err := e.Validate(); err != nil {
		return nil, "", err
	}
	b, err := canonical(e)
	return b, "", err
}

func categoryBody(raw []byte) (json.RawMessage, string, error) {
	var c content.Category
	if err := json.Unmarshal(raw, &c); err != nil {
		return nil, "", err
	}
	if err := c.Validate(); err != nil {
		return nil, "", err
	}
	b, err := canonical(c)
	return b, c.Slug, err
}

func (s *Server) respondDocument(w http.ResponseWriter, r *http.Request, status int, key string, d content.Document) {
	ent, err := d.Entity()
	if err != nil {
		failRaw(w, http.StatusInternalServerError, err.Error())
		return
	}
	ok(w, r, status, key, ent)
}

// storeFailure maps store errors onto responses.
func storeFailure(w http.ResponseWriter, r *http.Request, err error, conflictKey string) {
	switch {
	case errors.Is(err, content.ErrNotFound):
		fail(w, r, http.StatusNotFound, i18n.NotFound)
	case errors.Is(err, content.ErrDuplicate):
		fail(w, r, http.StatusConflict, conflictKey)
	default:
		failRaw(w, http.StatusInternalServerError, err.Error())
	}
}

func (s *Server) decodeBody(w http.ResponseWriter, r *http.Request, c collection) (json.RawMessage, string, bool) {
	var raw json.RawMessage
	if err := readJSON(w, r, &raw); err != nil {
		fail(w, r, http.StatusBadRequest, i18n.BadRequest)
		return nil, "", false
	}
	body, key, err := c.body(raw)
	if err != nil {
		failRaw(w, http.StatusBadRequest, err.Error())
		return nil, "", false
	}
	return body, key, true
}

func (s *Server) createDocument(c collection) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body, key, good := s.decodeBody(w, r, c)
		if !good {
			return
		}
		d, err := s.Docs.Put(r.Context(), content.Document{
			Collection: c.name,
			OwnerID:    auth.SubjectFromContext(r.Context()),
			Key:        key,
			Body:       body,
		})
		if err != nil {
			storeFailure(w, r, err, c.conflict)
			return
		}
		s.record(r.Context(), c.name, syncx.Created, d.ID)
		s.respondDocument(w, r, http.StatusCreated, "", d)
	}
}

// owned loads the document and checks the caller may act on it with verb.
func (s *Server) owned(w http.ResponseWriter, r *http.Request, c collection, verb string) (content.Document, bool) {
	d, err := s.Docs.Get(r.Context(), c.name, chi.URLParam(r, "id"))
	if err != nil {
		storeFailure(w, r, err, c.conflict)
		return content.Document{}, false
	}
	mine := d.OwnerID != "" && d.OwnerID == auth.SubjectFromContext(r.Context())
	if !s.guard.Allowed(r, c.noun+":"+verb, c.noun+":"+verb+"_own", mine) {
		fail(w, r, http.StatusForbidden, i18n.Forbidden)
		return content.Document{}, false
	}
	return d, true
}

func (s *Server) updateDocument(c collection) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		d, allowed := s.owned(w, r, c, "update")
		if !allowed {
			return
		}
		body, key, good := s.decodeBody(w, r, c)
		if !good {
			return
		}
		d.Body, d.Key = body, key
		d, err := s.Docs.Put(r.Context(), d)
		if err != nil {
			storeFailure(w, r, err, c.conflict)
			return
		}
		s.record(r.Context(), c.name, syncx.Updated, d.ID)
		s.respondDocument(w, r, http.StatusOK, "", d)
	}
}

func (s *Server) deleteDocument(c collection) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		d, allowed := s.owned(w, r, c, "delete")
		if !allowed {
			return
		}
		if err := s.Docs.Delete(r.Context(), c.name, d.ID); err != nil {
			storeFailure(w, r, err, c.conflict)
			return
		}
		s.record(r.Context(), c.name, syncx.Deleted, d.ID)
		ok(w, r, http.StatusOK, i18n.Deleted, map[string]string{"id": d.ID})
	}
}

func (s *Server) getDocument(c collection) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		d, err := s.Docs.Get(r.Context(), c.name, chi.URLParam(r, "id"))
		if err != nil {
			storeFailure(w, r, err, c.conflict)
			return
		}
		s.respondDocument(w, r, http.StatusOK, "", d)
	}
}

func (s *Server) listDocuments(c collection) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		limit, _ := strconv.Atoi(q.Get("limit"))
		offset, _ := strconv.Atoi(q.Get("offset"))
		docs, err := s.Docs.List(r.Context(), c.name, content.ListOpts{OwnerID: q.Get("owner"), Limit: limit, Offset: offset})
		if err != nil {
			failRaw(w, http.StatusInternalServerError, err.Error())
			return
		}
		out := make([]map[string]any, 0, len(docs))
		for _, d := range docs {
			ent, err := d.Entity()
			if err != nil {
				failRaw(w, http.StatusInternalServerError, err.Error())
				return
			}
			out = append(out, ent)
		}
		ok(w, r, http.StatusOK, "", out)
	}
}

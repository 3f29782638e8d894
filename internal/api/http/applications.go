package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/pixelsinav/pixelsinav/internal/auth"
	"github.com/pixelsinav/pixelsinav/internal/content"
	"github.com/pixelsinav/pixelsinav/internal/i18n"
	syncx "github.com/pixelsinav/pixelsinav/internal/sync"
)

// createApplication stores one teacher application per user; the user id is the natural key.
func (s *Server) createApplication(w http.ResponseWriter, r *http.Request) {
	var a content.TeacherApplication
	if err := readJSON(w, r, &a); err != nil {
		fail(w, r, http.StatusBadRequest, i18n.BadRequest)
		return
	}
	if err := a.Validate(); err != nil {
		failRaw(w, http.StatusBadRequest, err.Error())
		return
	}
	sub := auth.SubjectFromContext(r.Context())
	a.UserID = sub
	a.Status = "pending"
	body, err := canonical(a)
	if err != nil {
		failRaw(w, http.StatusInternalServerError, err.Error())
		return
	}
	d, err := s.Docs.Put(r.Context(), content.Document{
		Collection: content.CollectionApplications,
		OwnerID:    sub,
		Key:        sub,
		Body:       body,
	})
	if err != nil {
		storeFailure(w, r, err, i18n.ApplicationExists)
		return
	}
	s.record(r.Context(), content.CollectionApplications, syncx.Created, d.ID)
	s.respondDocument(w, r, http.StatusCreated, i18n.ApplicationSuccess, d)
}

func (s *Server) listApplications(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	docs, err := s.Docs.List(r.Context(), content.CollectionApplications, content.ListOpts{Limit: limit})
	if err != nil {
		failRaw(w, http.StatusInternalServerError, err.Error())
		return
	}
	out := make([]json.RawMessage, 0, len(docs))
	for _, d := range docs {
		ent, err := d.Entity()
		if err != nil {
			failRaw(w, http.StatusInternalServerError, err.Error())
			return
		}
		b, _ := json.Marshal(ent)
		out = append(out, b)
	}
	ok(w, r, http.StatusOK, "", out)
}

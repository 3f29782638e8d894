package http

import (
	"encoding/json"
	"net/http"
	"unicode/utf8"

	"github.com/go-chi/chi/v5"

	"github.com/pixelsinav/pixelsinav/internal/content"
	"github.com/pixelsinav/pixelsinav/internal/i18n"
	syncx "github.com/pixelsinav/pixelsinav/internal/sync"
)

const maxSectionContent = 20000

type sectionContentReq struct {
	Content string `json:"content"`
}

// putSectionContent replaces the markdown body of one section of a lesson.
func (s *Server) putSectionContent(w http.ResponseWriter, r *http.Request) {
	lessons := collections[0]
	d, allowed := s.owned(w, r, lessons, "update")
	if !allowed {
		return
	}
	var req sectionContentReq
	if err := readJSON(w, r, &req); err != nil {
		fail(w, r, http.StatusBadRequest, i18n.BadRequest)
		return
	}
	p := i18n.FromContext(r.Context())
	if n := utf8.RuneCountInString(req.Content); n == 0 || n > maxSectionContent {
		fail(w, r, http.StatusBadRequest, i18n.LengthBetween, p.Sprintf(i18n.LabelContent), 1, maxSectionContent)
		return
	}

	var l content.Lesson
	if err := json.Unmarshal(d.Body, &l); err != nil {
		failRaw(w, http.StatusInternalServerError, err.Error())
		return
	}
	sectionID := chi.URLParam(r, "sectionID")
	found := false
	for i := range l.Sections {
		if l.Sections[i].ID == sectionID {
			l.Sections[i].Content = req.Content
			found = true
			break
		}
	}
	if !found {
		fail(w, r, http.StatusNotFound, i18n.NotFound)
		return
	}
	body, err := canonical(l)
	if err != nil {
		failRaw(w, http.StatusInternalServerError, err.Error())
		return
	}
	d.Body = body
	if _, err := s.Docs.Put(r.Context(), d); err != nil {
		storeFailure(w, r, err, lessons.conflict)
		return
	}
	s.record(r.Context(), lessons.name, syncx.Updated, d.ID)
	ok(w, r, http.StatusOK, i18n.ContentSaved, map[string]string{"id": sectionID})
}

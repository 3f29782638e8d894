package http

import (
	"context"
	"net/http"
	"strconv"

	"github.com/pixelsinav/pixelsinav/internal/auth"
	syncx "github.com/pixelsinav/pixelsinav/internal/sync"
)

// record appends a change event. A failed append is logged; the write it describes stands.
func (s *Server) record(ctx context.Context, collection, typ, id string) {
	err := s.Events.Append(ctx, syncx.Event{
		Collection: collection,
		Type:       typ,
		Key:        id,
		ActorID:    auth.SubjectFromContext(ctx),
	})
	if err != nil {
		s.Log.Warn("event not recorded", "collection", collection, "type", typ, "id", id, "err", err)
	}
}

// listEvents pages through the change log: GET /api/events?after=<offset>&limit=<n>.
func (s *Server) listEvents(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	after, _ := strconv.ParseInt(q.Get("after"), 10, 64)
	limit, _ := strconv.Atoi(q.Get("limit"))
	events, err := s.Events.Since(r.Context(), after, limit)
	if err != nil {
		failRaw(w, http.StatusInternalServerError, err.Error())
		return
	}
	if events == nil {
		events = []syncx.Event{}
	}
	ok(w, r, http.StatusOK, "", events)
}

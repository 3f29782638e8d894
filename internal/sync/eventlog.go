// Package syncx records content changes as an ordered event log that clients can page
// through by offset.
package syncx

import (
	"context"
	"database/sql"
	"time"
)

// Event types.
const (
	Created = "created"
	Updated = "updated"
	Deleted = "deleted"
)

type Event struct {
	Offset     int64  `json:"offset"`
	Collection string `json:"collection"`
	Type       string `json:"type"`
	Key        string `json:"key"` // document id
	ActorID    string `json:"actorId,omitempty"`
	CreatedAt  int64  `json:"createdAt"`
}

type EventRepo struct {
	db  *sql.DB
	now func() time.Time
}

func NewEventRepo(db *sql.DB) *EventRepo { return &EventRepo{db: db, now: time.Now} }

func (r *EventRepo) Append(ctx context.Context, e Event) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO event_log (collection, typ, doc_key, actor_id, created_at)
		 VALUES ($1,$2,$3,$4,$5)`,
		e.Collection, e.Type, e.Key, e.ActorID, r.now().Unix())
	return err
}

// Since returns up to limit events with an offset greater than after, oldest first.
func (r *EventRepo) Since(ctx context.Context, after int64, limit int) ([]Event, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, collection, typ, doc_key, actor_id, created_at
		 FROM event_log WHERE id > $1 ORDER BY id LIMIT $2`, after, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Event
	for rows.Next() {
		var e Event
		if err := rows.Scan(&e.Offset, &e.Collection, &e.Type, &e.Key, &e.ActorID, &e.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

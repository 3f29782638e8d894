package content

import (
	"context"
	"encoding/json"
	"errors"
)

var (
	ErrNotFound  = errors.New("document not found")
	ErrDuplicate = errors.New("document already exists")
)

// Document is one stored entity of a collection. Key is the collection-unique natural key
// (category slug, applicant user id); empty means no uniqueness beyond the id.
type Document struct {
	Collection string          `json:"-"`
	ID         string          `json:"id"`
	OwnerID    string          `json:"ownerId,omitempty"`
	Key        string          `json:"-"`
	Body       json.RawMessage `json:"-"`
	CreatedAt  int64           `json:"createdAt"`
	UpdatedAt  int64           `json:"updatedAt"`
}

type ListOpts struct {
	OwnerID string // empty lists every owner
	Limit   int
	Offset  int
}

type Store interface {
	// Put inserts when ID is empty or unknown and updates otherwise. It returns ErrDuplicate
	// when Key collides with another document of the same collection.
	Put(ctx context.Context, d Document) (Document, error)
	Get(ctx context.Context, collection, id string) (Document, error)
	List(ctx context.Context, collection string, opts ListOpts) ([]Document, error)
	Delete(ctx context.Context, collection, id string) error
}

// Entity decodes the body and stamps the stored id and ownership onto it.
func (d Document) Entity() (map[string]any, error) {
	m := map[string]any{}
	if len(d.Body) > 0 {
		if err := json.Unmarshal(d.Body, &m); err != nil {
			return nil, err
		}
	}
	m["id"] = d.ID
	if d.OwnerID != "" {
		m["ownerId"] = d.OwnerID
	}
	m["createdAt"] = d.CreatedAt
	m["updatedAt"] = d.UpdatedAt
	return m, nil
}

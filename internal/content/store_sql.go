package content

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
)

type SQLStore struct {
	db  *sql.DB
	now func() time.Time
}

func NewSQLStore(db *sql.DB) *SQLStore {
	return &SQLStore{db: db, now: time.Now}
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func (s *SQLStore) Put(ctx context.Context, d Document) (Document, error) {
	now := s.now().Unix()
	if d.ID == "" {
		d.ID = uuid.NewString()
	}
	if len(d.Body) == 0 {
		d.Body = []byte("{}")
	}
	err := s.db.QueryRowContext(ctx, `INSERT INTO documents (collection,id,owner_id,natural_key,body_json,created_at,updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$6)
		ON CONFLICT (collection,id) DO UPDATE SET natural_key=EXCLUDED.natural_key, body_json=EXCLUDED.body_json, updated_at=EXCLUDED.updated_at
		RETURNING owner_id, created_at, updated_at`,
		d.Collection, d.ID, d.OwnerID, nullable(d.Key), string(d.Body), now,
	).Scan(&d.OwnerID, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		if IsUniqueViolation(err) {
			return Document{}, ErrDuplicate
		}
		return Document{}, err
	}
	return d, nil
}

func (s *SQLStore) Get(ctx context.Context, collection, id string) (Document, error) {
	row := s.db.QueryRowContext(ctx, `SELECT owner_id, COALESCE(natural_key,''), body_json, created_at, updated_at
		FROM documents WHERE collection=$1 AND id=$2`, collection, id)
	d := Document{Collection: collection, ID: id}
	var body string
	if err := row.Scan(&d.OwnerID, &d.Key, &body, &d.CreatedAt, &d.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Document{}, ErrNotFound
		}
		return Document{}, err
	}
	d.Body = []byte(body)
	return d, nil
}

func (s *SQLStore) List(ctx context.Context, collection string, opts ListOpts) ([]Document, error) {
	limit := opts.Limit
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	q := `SELECT id, owner_id, COALESCE(natural_key,''), body_json, created_at, updated_at
		FROM documents WHERE collection=$1`
	args := []any{collection}
	if opts.OwnerID != "" {
		q += ` AND owner_id=$2 ORDER BY created_at, id LIMIT $3 OFFSET $4`
		args = append(args, opts.OwnerID, limit, opts.Offset)
	} else {
		q += ` ORDER BY created_at, id LIMIT $2 OFFSET $3`
		args = append(args, limit, opts.Offset)
	}
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Document{}
	for rows.Next() {
		d := Document{Collection: collection}
		var body string
		if err := rows.Scan(&d.ID, &d.OwnerID, &d.Key, &body, &d.CreatedAt, &d.UpdatedAt); err != nil {
			return nil, err
		}
		d.Body = []byte(body)
		out = append(out, d)
	}
	return out, rows.Err()
}

func (s *SQLStore) Delete(ctx context.Context, collection, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM documents WHERE collection=$1 AND id=$2`, collection, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// IsUniqueViolation reports a unique constraint failure from either driver.
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	// modernc sqlite reports constraint failures as text only
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

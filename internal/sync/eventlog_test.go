package syncx

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/pixelsinav/pixelsinav/internal/db"
)

func TestEventRepoAppendSince(t *testing.T) {
	ctx := context.Background()
	conn, err := db.Open(ctx, db.DriverSQLite, "file:"+filepath.Join(t.TempDir(), "events.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { conn.Close() })

	r := NewEventRepo(conn)
	r.now = func() time.Time { return time.Unix(1_700_000_000, 0) }

	for _, e := range []Event{
		{Collection: "lessons", Type: Created, Key: "l1", ActorID: "t1"},
		{Collection: "lessons", Type: Updated, Key: "l1", ActorID: "t1"},
		{Collection: "exams", Type: Deleted, Key: "e1", ActorID: "a1"},
	} {
		if err := r.Append(ctx, e); err != nil {
			t.Fatal(err)
		}
	}

	all, err := r.Since(ctx, 0, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 3 {
		t.Fatalf("want 3 events, got %d", len(all))
	}
	if all[0].Type != Created || all[2].Collection != "exams" || all[2].CreatedAt != 1_700_000_000 {
		t.Fatalf("unexpected events %+v", all)
	}
	if !(all[0].Offset < all[1].Offset && all[1].Offset < all[2].Offset) {
		t.Fatalf("offsets not increasing: %+v", all)
	}

	page, err := r.Since(ctx, all[0].Offset, 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(page) != 1 || page[0].Offset != all[1].Offset {
		t.Fatalf("want the second event, got %+v", page)
	}

	rest, err := r.Since(ctx, all[2].Offset, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(rest) != 0 {
		t.Fatalf("want nothing after the last offset, got %+v", rest)
	}
}

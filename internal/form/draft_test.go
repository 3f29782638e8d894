package form

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestDraftFromJSONKeepsOrderAndIDs(t *testing.T) {
	in := `{"title":"Sınav","duration":45,"image":{"name":"a.png","key":"assets/a.png","size":120},` +
		`"questions":[{"id":"q1","text":"2+2?","points":10,"options":[{"text":"4","isCorrect":true},{"text":"5","isCorrect":false}]}],` +
		`"tags":["matematik","temel"]}`
	d, err := DraftFromJSON([]byte(in))
	if err != nil {
		t.Fatal(err)
	}
	if got := strings.Join(d.Keys(), ","); got != "title,duration,image,questions,tags" {
		t.Fatalf("key order: %s", got)
	}
	if f, ok := d.File("image"); !ok || f.Key != "assets/a.png" || f.Size != 120 {
		t.Fatalf("image: %+v", f)
	}
	q, ok := d.Item("questions", "q1")
	if !ok {
		t.Fatal("question id should be kept")
	}
	if _, has := q.Fields.Get("id"); has {
		t.Fatal("id must not remain a field")
	}
	opts := q.Fields.Items("options")
	if len(opts) != 2 || !IsTemporaryID(opts[0].ID) || opts[0].ID == opts[1].ID {
		t.Fatalf("options should get distinct temporary ids: %+v", opts)
	}
	if tags := d.Strings("tags"); len(tags) != 2 || tags[1] != "temel" {
		t.Fatalf("tags: %v", tags)
	}
	if d.Int("duration") != 45 {
		t.Fatalf("duration: %d", d.Int("duration"))
	}

	out, err := json.Marshal(d)
	if err != nil {
		t.Fatal(err)
	}
	if string(out) != in {
		t.Fatalf("re-encoding changed the document:\n in %s\nout %s", in, out)
	}
}

func TestDraftFromJSONRejectsNonObject(t *testing.T) {
	if _, err := DraftFromJSON([]byte(`[1,2]`)); err == nil {
		t.Fatal("want error for array input")
	}
}

func TestCloneIsDeep(t *testing.T) {
	d := Of(F("sections", []*Draft{Of(F("title", "a"))}))
	c := d.Clone()
	c.Items("sections")[0].Fields.put("title", "b")
	if got := d.Items("sections")[0].Fields.String("title"); got != "a" {
		t.Fatalf("original mutated: %q", got)
	}
}

func TestTemporaryIDs(t *testing.T) {
	a, b := NewTempID(), NewTempID()
	if a == b || !IsTemporaryID(a) {
		t.Fatalf("ids %q %q", a, b)
	}
	if IsTemporaryID("665f1c2e9b1d") {
		t.Fatal("server id reported as temporary")
	}
}

package storage

import (
	"errors"
	"io"
	"strings"
	"testing"
)

func TestFSStoreRoundTrip(t *testing.T) {
	s, err := NewFSStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	key := NewKey("assets", "Thumbnail.PNG")
	if !strings.HasPrefix(key, "assets/") || !strings.HasSuffix(key, ".png") {
		t.Fatalf("key = %q", key)
	}
	got, err := s.Put(key, strings.NewReader("pixels"))
	if err != nil || got != key {
		t.Fatalf("put: %q %v", got, err)
	}
	rc, err := s.Get(key)
	if err != nil {
		t.Fatal(err)
	}
	defer rc.Close()
	b, _ := io.ReadAll(rc)
	if string(b) != "pixels" {
		t.Fatalf("body = %q", b)
	}
	u, err := s.URL(key)
	if err != nil || u != "/files/"+key {
		t.Fatalf("url = %q %v", u, err)
	}
}

func TestFSStoreRejectsEscapes(t *testing.T) {
	s, err := NewFSStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	for _, key := range []string{"", "../x", "a/../../x", "/etc/passwd", `a\b`} {
		if _, err := s.Put(key, strings.NewReader("x")); !errors.Is(err, ErrBadKey) {
			t.Errorf("Put(%q) err = %v", key, err)
		}
	}
}

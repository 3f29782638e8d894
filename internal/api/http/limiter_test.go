package http

import (
	"testing"
	"time"
)

func TestLoginLimiterForgetsIdleClients(t *testing.T) {
	clock := time.Unix(1_700_000_000, 0)
	l := newLoginLimiter(2)
	l.now = func() time.Time { return clock }

	for _, addr := range []string{"10.0.0.1", "10.0.0.2", "10.0.0.3"} {
		if !l.allow(addr) {
			t.Fatalf("%s: first attempt refused", addr)
		}
	}
	l.allow("10.0.0.1")
	if l.allow("10.0.0.1") {
		t.Fatal("third attempt within the burst window should be refused")
	}
	if n := l.size(); n != 3 {
		t.Fatalf("want 3 tracked clients, got %d", n)
	}

	clock = clock.Add(limiterIdle + time.Minute)
	if !l.allow("10.0.0.4") {
		t.Fatal("new client refused")
	}
	if n := l.size(); n != 1 {
		t.Fatalf("idle clients should be dropped, %d left", n)
	}
	if !l.allow("10.0.0.1") {
		t.Fatal("a forgotten client starts with a fresh budget")
	}
}

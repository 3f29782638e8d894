package notify

import (
	"bytes"
	"strings"
	"testing"
	"time"
)

type fakeTimer struct {
	d       time.Duration
	fire    func()
	stopped bool
}

func (t *fakeTimer) Stop() bool { t.stopped = true; return true }

type fakeClock struct {
	timers []*fakeTimer
}

func (c *fakeClock) after(d time.Duration, f func()) interface{ Stop() bool } {
	t := &fakeTimer{d: d, fire: f}
	c.timers = append(c.timers, t)
	return t
}

func newTestSink() (*Sink, *fakeClock) {
	c := &fakeClock{}
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	return NewSink(WithClock(func() time.Time { return now }, c.after)), c
}

func TestPushUsesLevelDefaults(t *testing.T) {
	s, c := newTestSink()
	s.Success("kaydedildi")
	s.Error("hata")
	s.Info("bilgi")
	s.Push(Loading, "yükleniyor", 0)

	if len(c.timers) != 3 {
		t.Fatalf("want 3 timers (loading is sticky), got %d", len(c.timers))
	}
	want := []time.Duration{2 * time.Second, 4 * time.Second, 4 * time.Second}
	for i, w := range want {
		if c.timers[i].d != w {
			t.Fatalf("timer %d: want %v, got %v", i, w, c.timers[i].d)
		}
	}
	if got := len(s.Active()); got != 4 {
		t.Fatalf("want 4 active, got %d", got)
	}
}

func TestTimerExpiryDismisses(t *testing.T) {
	s, c := newTestSink()
	var events []Event
	s.Subscribe(func(e Event) { events = append(events, e) })

	a := s.Push(Error, "first", 0)
	b := s.Push(Info, "second", time.Second)
	c.timers[0].fire()

	active := s.Active()
	if len(active) != 1 || active[0].ID != b {
		t.Fatalf("want only %d active, got %+v", b, active)
	}
	if len(events) != 3 || events[2].Kind != Dismissed || events[2].Notification.ID != a {
		t.Fatalf("unexpected events: %+v", events)
	}
}

func TestManualDismissStopsTimer(t *testing.T) {
	s, c := newTestSink()
	id := s.Success("ok")
	if !s.Dismiss(id) {
		t.Fatal("dismiss should report true")
	}
	if !c.timers[0].stopped {
		t.Fatal("timer should be stopped")
	}
	if s.Dismiss(id) {
		t.Fatal("second dismiss should report false")
	}
	// expiry after manual dismiss is a no-op
	c.timers[0].fire()
	if len(s.Active()) != 0 {
		t.Fatal("nothing should be active")
	}
}

func TestNegativeDurationIsSticky(t *testing.T) {
	s, c := newTestSink()
	s.Push(Info, "pinned", -1)
	if len(c.timers) != 0 {
		t.Fatal("sticky notification must not schedule a timer")
	}
}

func TestCloseDropsEverything(t *testing.T) {
	s, c := newTestSink()
	s.Info("a")
	s.Close()
	if !c.timers[0].stopped {
		t.Fatal("close should stop timers")
	}
	if id := s.Info("b"); id != 0 || len(s.Active()) != 0 {
		t.Fatal("push after close should be ignored")
	}
}

func TestRendererPrintsShownNotifications(t *testing.T) {
	s, _ := newTestSink()
	var buf bytes.Buffer
	NewRenderer(&buf).Attach(s)

	id := s.Push(Loading, "Kaydediliyor...", 0)
	s.Dismiss(id)
	s.Success("Ders oluşturuldu")

	out := buf.String()
	for _, want := range []string{"loading", "Kaydediliyor...", "done", "success", "Ders oluşturuldu"} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q:\n%s", want, out)
		}
	}
}

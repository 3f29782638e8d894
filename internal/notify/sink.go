// Package notify holds transient user feedback. Nothing here is persisted.
package notify

import (
	"sync"
	"time"
)

type Level int

const (
	Info Level = iota
	Success
	Error
	Loading
)

func (l Level) String() string {
	switch l {
	case Info:
		return "info"
	case Success:
		return "success"
	case Error:
		return "error"
	case Loading:
		return "loading"
	}
	return "unknown"
}

// DefaultDuration is how long a notification of level l stays visible when the caller
// passes zero. Loading notifications are sticky and return 0.
func DefaultDuration(l Level) time.Duration {
	switch l {
	case Success:
		return 2 * time.Second
	case Info, Error:
		return 4 * time.Second
	}
	return 0
}

type ID uint64

type Notification struct {
	ID       ID
	Level    Level
	Message  string
	Duration time.Duration // 0 means sticky
	Shown    time.Time
}

type EventKind int

const (
	Shown EventKind = iota
	Dismissed
)

type Event struct {
	Kind         EventKind
	Notification Notification
}

type stopper interface{ Stop() bool }

// Sink keeps the set of visible notifications and dismisses them when they expire.
type Sink struct {
	mu     sync.Mutex
	next   ID
	order  []ID
	active map[ID]Notification
	timers map[ID]stopper
	subs   []func(Event)
	closed bool

	now   func() time.Time
	after func(time.Duration, func()) stopper
}

type Option func(*Sink)

// WithClock replaces time.Now and time.AfterFunc, for tests.
func WithClock(now func() time.Time, after func(time.Duration, func()) interface{ Stop() bool }) Option {
	return func(s *Sink) {
		if now != nil {
			s.now = now
		}
		if after != nil {
			s.after = func(d time.Duration, f func()) stopper { return after(d, f) }
		}
	}
}

func NewSink(opts ...Option) *Sink {
	s := &Sink{
		active: map[ID]Notification{},
		timers: map[ID]stopper{},
		now:    time.Now,
		after:  func(d time.Duration, f func()) stopper { return time.AfterFunc(d, f) },
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Subscribe registers fn for every shown and dismissed notification.
func (s *Sink) Subscribe(fn func(Event)) {
	s.mu.Lock()
	s.subs = append(s.subs, fn)
	s.mu.Unlock()
}

// Push shows a notification. A zero duration selects the level default; a negative
// duration makes it sticky.
func (s *Sink) Push(level Level, msg string, d time.Duration) ID {
	if d == 0 {
		d = DefaultDuration(level)
	}
	if d < 0 || level == Loading {
		d = 0
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return 0
	}
	s.next++
	n := Notification{ID: s.next, Level: level, Message: msg, Duration: d, Shown: s.now()}
	s.active[n.ID] = n
	s.order = append(s.order, n.ID)
	if d > 0 {
		id := n.ID
		s.timers[id] = s.after(d, func() { s.Dismiss(id) })
	}
	subs := s.subscribers()
	s.mu.Unlock()

	for _, fn := range subs {
		fn(Event{Kind: Shown, Notification: n})
	}
	return n.ID
}

func (s *Sink) Info(msg string) ID    { return s.Push(Info, msg, 0) }
func (s *Sink) Success(msg string) ID { return s.Push(Success, msg, 0) }
func (s *Sink) Error(msg string) ID   { return s.Push(Error, msg, 0) }

// Dismiss removes a visible notification. It reports false for unknown or already
// dismissed ids.
func (s *Sink) Dismiss(id ID) bool {
	s.mu.Lock()
	n, ok := s.active[id]
	if !ok {
		s.mu.Unlock()
		return false
	}
	delete(s.active, id)
	if t, ok := s.timers[id]; ok {
		t.Stop()
		delete(s.timers, id)
	}
	for i, x := range s.order {
		if x == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	subs := s.subscribers()
	s.mu.Unlock()

	for _, fn := range subs {
		fn(Event{Kind: Dismissed, Notification: n})
	}
	return true
}

// Active returns visible notifications, oldest first.
func (s *Sink) Active() []Notification {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Notification, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.active[id])
	}
	return out
}

// Close stops all timers and drops every visible notification without events.
func (s *Sink) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, t := range s.timers {
		t.Stop()
	}
	s.closed = true
	s.timers = map[ID]stopper{}
	s.active = map[ID]Notification{}
	s.order = nil
}

func (s *Sink) subscribers() []func(Event) {
	return append([]func(Event){}, s.subs...)
}

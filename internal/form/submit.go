package form

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"
)

// State of a Controller.
type State int

const (
	Idle State = iota
	Pending
	Succeeded
	Failed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Pending:
		return "pending"
	case Succeeded:
		return "success"
	case Failed:
		return "failure"
	}
	return "unknown"
}

// Request is one outbound call. Body is marshalled as JSON when non-nil.
type Request struct {
	Method string
	Path   string
	Body   any
	Token  string // bearer token; empty for anonymous calls
}

// Response is what the remote API answered. Success is nil when the body had no marker.
type Response struct {
	Status  int
	Success *bool
	Message string
	Data    json.RawMessage
}

// OK reports a 2xx reply whose success marker is true or absent.
func (r Response) OK() bool {
	if r.Status/100 != 2 {
		return false
	}
	return r.Success == nil || *r.Success
}

// Transport sends a Request. Only failures to get a reply are returned as errors.
type Transport interface {
	Do(ctx context.Context, req Request) (Response, error)
}

// TransportFunc adapts a function to Transport.
type TransportFunc func(ctx context.Context, req Request) (Response, error)

func (f TransportFunc) Do(ctx context.Context, req Request) (Response, error) { return f(ctx, req) }

// Messages are the user-facing fallbacks used when the server gives none, and the
// fixed texts for conflict and auth failures.
type Messages struct {
	Success   string
	Failure   string
	Transport string
	Timeout   string
	Conflict  string
	Auth      string
	Pending   string
}

func DefaultMessages() Messages {
	return Messages{
		Success:   "Saved successfully.",
		Failure:   "Something went wrong. Please try again.",
		Transport: "Could not reach the server. Please check your connection.",
		Timeout:   "The server took too long to respond.",
		Conflict:  "This record already exists.",
		Auth:      "Your session has expired. Please log in again.",
		Pending:   "Saving...",
	}
}

// Result is the outcome of one submission.
type Result struct {
	State   State
	Message string
	Entity  *Draft // canonical entity returned by the server, if any
	Data    json.RawMessage
	Err     *Error
	Elapsed time.Duration
}

// Controller sends at most one request at a time.
type Controller struct {
	transport Transport
	timeout   time.Duration
	msgs      Messages
	log       *slog.Logger

	mu        sync.Mutex
	state     State
	observers []func(State)
}

func NewController(t Transport, timeout time.Duration, msgs Messages, log *slog.Logger) *Controller {
	if log == nil {
		log = slog.Default()
	}
	return &Controller{transport: t, timeout: timeout, msgs: msgs, log: log}
}

func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Observe registers fn for every state transition.
func (c *Controller) Observe(fn func(State)) {
	c.mu.Lock()
	c.observers = append(c.observers, fn)
	c.mu.Unlock()
}

func (c *Controller) begin() bool {
	c.mu.Lock()
	if c.state != Idle {
		c.mu.Unlock()
		return false
	}
	c.state = Pending
	c.mu.Unlock()
	c.notify(Pending)
	return true
}

func (c *Controller) transition(s State) {
	c.mu.Lock()
	c.state = s
	c.mu.Unlock()
	c.notify(s)
}

func (c *Controller) notify(s State) {
	c.mu.Lock()
	obs := append([]func(State){}, c.observers...)
	c.mu.Unlock()
	for _, fn := range obs {
		fn(s)
	}
}

// Submit sends req and resolves it. It returns ErrInFlight without sending when
// another submission is pending. The controller is Idle again when Submit returns.
func (c *Controller) Submit(ctx context.Context, req Request) (Result, error) {
	if !c.begin() {
		return Result{}, ErrInFlight
	}
	start := time.Now()
	res := c.send(ctx, req)
	res.Elapsed = time.Since(start)
	c.transition(res.State)
	c.transition(Idle)
	return res, nil
}

func (c *Controller) send(ctx context.Context, req Request) Result {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}
	resp, err := c.transport.Do(ctx, req)
	if err != nil {
		msg := c.msgs.Transport
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
			msg = c.msgs.Timeout
		}
		c.log.Warn("submission transport failure", "method", req.Method, "path", req.Path, "err", err)
		return failure(&Error{Kind: KindTransport, Message: msg, Err: err})
	}
	c.log.Debug("submission resolved", "method", req.Method, "path", req.Path, "status", resp.Status)
	if resp.OK() {
		msg := resp.Message
		if msg == "" {
			msg = c.msgs.Success
		}
		return Result{State: Succeeded, Message: msg, Entity: entityFrom(resp.Data), Data: resp.Data}
	}
	return failure(c.classify(resp))
}

func failure(e *Error) Result {
	return Result{State: Failed, Message: e.Message, Err: e}
}

var (
	authMarkers     = []string{"jwt expired", "token expired", "invalid token", "unauthorized"}
	conflictMarkers = []string{"duplicate", "already exists", "e11000", "zaten mevcut", "zaten kayıtlı", "zaten kullanılıyor"}
)

func (c *Controller) classify(resp Response) *Error {
	lower := strings.ToLower(resp.Message)
	cause := errors.New(resp.Message)
	if resp.Message == "" {
		cause = errors.New(http.StatusText(resp.Status))
	}
	switch {
	case resp.Status == http.StatusUnauthorized || resp.Status == http.StatusForbidden || containsAny(lower, authMarkers):
		return &Error{Kind: KindAuth, Message: c.msgs.Auth, Status: resp.Status, Err: cause}
	case resp.Status == http.StatusConflict || containsAny(lower, conflictMarkers):
		return &Error{Kind: KindConflict, Message: c.msgs.Conflict, Status: resp.Status, Err: cause}
	}
	msg := resp.Message
	if msg == "" {
		msg = c.msgs.Failure
	}
	return &Error{Kind: KindServer, Message: msg, Status: resp.Status, Err: cause}
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

func entityFrom(data json.RawMessage) *Draft {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || data[0] != '{' {
		return nil
	}
	d, err := DraftFromJSON(data)
	if err != nil {
		return nil
	}
	return d
}

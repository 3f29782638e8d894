package form

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/pixelsinav/pixelsinav/internal/notify"
)

// Credentials yields the bearer token of the acting user at submission time.
type Credentials interface {
	Bearer(ctx context.Context) (string, error)
}

// Notifier receives user feedback. *notify.Sink satisfies it.
type Notifier interface {
	Push(level notify.Level, msg string, d time.Duration) notify.ID
	Dismiss(id notify.ID) bool
}

// Spec describes where and how a form is submitted.
type Spec struct {
	Name   string
	Method string
	Path   string
	// PathFunc and MethodFunc override Path and Method, e.g. to update a stored entity.
	PathFunc   func(d *Draft) string
	MethodFunc func(d *Draft) string
	Auth       bool
	// Payload maps the draft to the request body. The draft itself is sent when nil.
	Payload func(d *Draft) any
	// ResetOnSuccess returns the draft to its seed when the server sends no entity.
	ResetOnSuccess bool
	// IgnoreEntity keeps reply data out of the draft, e.g. login tokens.
	IgnoreEntity bool
	// OnSuccess runs after the draft has been reconciled.
	OnSuccess func(ctx context.Context, res Result) error
	// Conflict and Success override the session messages for this form.
	Conflict string
	Success  string
}

// Definition is everything needed to open a Session for one form.
type Definition struct {
	Spec        Spec
	Lists       map[string]ListPolicy
	Budgets     []ListPath
	Comparisons []Comparison
	Rules       []Rule
}

type Deps struct {
	Transport   Transport
	Credentials Credentials
	Notifier    Notifier
	Messages    Messages
	Timeout     time.Duration
	Logger      *slog.Logger
	IDs         func() string
}

// Session wires the store, evaluator, gate and controller of one form.
type Session struct {
	def   Definition
	seed  *Draft
	store *Store
	eval  *Evaluator
	gate  *Gate
	ctrl  *Controller
	deps  Deps
	msgs  Messages
	log   *slog.Logger

	resolved []func(Result)
}

func Open(def Definition, seed *Draft, deps Deps) *Session {
	opts := []StoreOption{WithIDSource(deps.IDs)}
	for key, pol := range def.Lists {
		opts = append(opts, WithList(key, pol))
	}
	store := NewStore(seed, opts...)

	msgs := deps.Messages
	if msgs == (Messages{}) {
		msgs = DefaultMessages()
	}
	if def.Spec.Conflict != "" {
		msgs.Conflict = def.Spec.Conflict
	}
	if def.Spec.Success != "" {
		msgs.Success = def.Spec.Success
	}
	log := deps.Logger
	if log == nil {
		log = slog.Default()
	}
	log = log.With("form", def.Spec.Name)

	rules := append([]Rule(nil), def.Rules...)
	for _, c := range def.Comparisons {
		rules = append(rules, Compare(c))
	}
	return &Session{
		def:   def,
		seed:  store.Snapshot(),
		store: store,
		eval:  NewEvaluator(store, def.Budgets, def.Comparisons),
		gate:  NewGate(store, rules...),
		ctrl:  NewController(deps.Transport, deps.Timeout, msgs, log),
		deps:  deps,
		msgs:  msgs,
		log:   log,
	}
}

func (s *Session) Name() string              { return s.def.Spec.Name }
func (s *Session) Store() *Store             { return s.store }
func (s *Session) Evaluator() *Evaluator     { return s.eval }
func (s *Session) Gate() *Gate               { return s.gate }
func (s *Session) Controller() *Controller   { return s.ctrl }
func (s *Session) Definition() Definition    { return s.def }
func (s *Session) Messages() Messages        { return s.msgs }
func (s *Session) OnResolve(fn func(Result)) { s.resolved = append(s.resolved, fn) }

// Submit validates the draft and, when it passes, sends exactly one request.
// The returned error is ErrInFlight or a *Error; the draft is kept on every failure.
func (s *Session) Submit(ctx context.Context) (Result, error) {
	if s.ctrl.State() != Idle {
		return Result{}, ErrInFlight
	}
	if err := s.gate.Check(); err != nil {
		fe, _ := AsError(err)
		s.notify(notify.Error, fe.Message)
		return s.resolve(failure(fe)), fe
	}

	req := s.request()
	if s.def.Spec.Auth {
		if s.deps.Credentials == nil {
			return s.fail(&Error{Kind: KindAuth, Message: s.msgs.Auth, Err: errors.New("no credentials configured")})
		}
		token, err := s.deps.Credentials.Bearer(ctx)
		if err != nil {
			if fe, ok := AsError(err); ok && fe.Kind == KindAuth {
				return s.fail(&Error{Kind: KindAuth, Message: s.msgs.Auth, Err: fe})
			}
			return s.fail(&Error{Kind: KindAuth, Message: s.msgs.Auth, Err: err})
		}
		req.Token = token
	}

	var loading notify.ID
	if s.deps.Notifier != nil {
		loading = s.deps.Notifier.Push(notify.Loading, s.msgs.Pending, 0)
	}
	res, err := s.ctrl.Submit(ctx, req)
	if s.deps.Notifier != nil {
		s.deps.Notifier.Dismiss(loading)
	}
	if err != nil {
		return Result{}, err
	}

	if res.State == Failed {
		s.log.Info("submission failed", "kind", res.Err.Kind, "status", res.Err.Status, "elapsed", res.Elapsed)
		s.notify(notify.Error, res.Message)
		return s.resolve(res), res.Err
	}

	s.log.Info("submission succeeded", "elapsed", res.Elapsed)
	s.notify(notify.Success, res.Message)
	switch {
	case res.Entity != nil && !s.def.Spec.IgnoreEntity:
		s.store.Reset(res.Entity)
	case s.def.Spec.ResetOnSuccess:
		s.store.Reset(s.seed)
	default:
		s.store.MarkClean()
	}
	s.resolve(res)
	if s.def.Spec.OnSuccess != nil {
		if err := s.def.Spec.OnSuccess(ctx, res); err != nil {
			s.log.Warn("post-submit hook failed", "err", err)
			return res, fmt.Errorf("form %s: after submit: %w", s.def.Spec.Name, err)
		}
	}
	return res, nil
}

func (s *Session) request() Request {
	d := s.store.Snapshot()
	path := s.def.Spec.Path
	if s.def.Spec.PathFunc != nil {
		path = s.def.Spec.PathFunc(d)
	}
	method := s.def.Spec.Method
	if s.def.Spec.MethodFunc != nil {
		method = s.def.Spec.MethodFunc(d)
	}
	var body any = d
	if s.def.Spec.Payload != nil {
		body = s.def.Spec.Payload(d)
	}
	return Request{Method: method, Path: path, Body: body}
}

func (s *Session) fail(e *Error) (Result, error) {
	s.notify(notify.Error, e.Message)
	return s.resolve(failure(e)), e
}

func (s *Session) resolve(res Result) Result {
	for _, fn := range s.resolved {
		fn(res)
	}
	return res
}

func (s *Session) notify(level notify.Level, msg string) {
	if s.deps.Notifier == nil || msg == "" {
		return
	}
	s.deps.Notifier.Push(level, msg, 0)
}

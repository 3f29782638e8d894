package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/redis/go-redis/v9"
	"golang.org/x/text/message"

	"github.com/pixelsinav/pixelsinav/internal/apiclient"
	"github.com/pixelsinav/pixelsinav/internal/config"
	"github.com/pixelsinav/pixelsinav/internal/drafts"
	"github.com/pixelsinav/pixelsinav/internal/form"
	"github.com/pixelsinav/pixelsinav/internal/forms"
	"github.com/pixelsinav/pixelsinav/internal/i18n"
	"github.com/pixelsinav/pixelsinav/internal/identity"
	"github.com/pixelsinav/pixelsinav/internal/metrics"
	"github.com/pixelsinav/pixelsinav/internal/notify"
)

// app holds everything one invocation shares between forms.
type app struct {
	cfg     config.Config
	p       *message.Printer
	log     *slog.Logger
	sink    *notify.Sink
	holder  *identity.Holder
	file    *identity.FileStorage // nil with the keyring backend
	client  *apiclient.Client
	metrics *metrics.Collector
	redis   *redis.Client // nil without autosave
}

func newApp(ctx context.Context, cfg config.Config) (*app, error) {
	level := slog.LevelWarn
	if os.Getenv("PIXELSINAV_DEBUG") != "" {
		level = slog.LevelDebug
	}
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	a := &app{
		cfg:     cfg,
		p:       i18n.NewPrinter(cfg.Locale),
		log:     log,
		sink:    notify.NewSink(),
		metrics: metrics.New(),
		client: apiclient.New(apiclient.Config{
			BaseURL: cfg.APIBaseURL,
			Timeout: cfg.RequestTimeout,
			Logger:  log,
		}),
	}
	notify.NewRenderer(os.Stdout).Attach(a.sink)

	var store identity.Storage
	switch cfg.IdentityBackend {
	case config.IdentityKeyring:
		store = identity.NewKeyringStorage("pixelsinav")
	default:
		path := cfg.IdentityPath
		if path == "" {
			p, err := identity.DefaultPath()
			if err != nil {
				return nil, err
			}
			path = p
		}
		a.file = identity.NewFileStorage(path)
		store = a.file
	}
	a.holder = identity.NewHolder(store, log)
	if err := a.holder.Load(); err != nil {
		return nil, err
	}

	if cfg.Autosave && cfg.RedisAddr != "" {
		a.redis = redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		if err := a.redis.Ping(ctx).Err(); err != nil {
			log.Warn("draft autosave disabled", "addr", cfg.RedisAddr, "err", err)
			a.redis.Close()
			a.redis = nil
		}
	}
	return a, nil
}

func (a *app) close() {
	a.sink.Close()
	if a.redis != nil {
		a.redis.Close()
	}
	if a.cfg.MetricsFile != "" {
		if err := a.metrics.WriteToTextfile(a.cfg.MetricsFile); err != nil {
			a.log.Warn("metrics not written", "path", a.cfg.MetricsFile, "err", err)
		}
	}
}

func (a *app) deps() form.Deps {
	return form.Deps{
		Transport:   a.client,
		Credentials: a.holder,
		Notifier:    a.sink,
		Messages:    i18n.Messages(a.p),
		Timeout:     a.cfg.RequestTimeout,
		Logger:      a.log,
	}
}

// autosaver returns nil when drafts are not kept.
func (a *app) autosaver() *drafts.Autosaver {
	if a.redis == nil {
		return nil
	}
	user := "anonymous"
	if id, ok := a.holder.Current(); ok {
		user = id.User.ID
	}
	return drafts.NewAutosaver(drafts.NewRedisRepo(a.redis, drafts.DefaultTTL), user, a.log)
}

// open starts a session for f. With resume set, a saved draft replaces the seed and
// resumed reports true.
func (a *app) open(ctx context.Context, f forms.Form, seed *form.Draft, resume bool) (s *form.Session, resumed bool) {
	var saver *drafts.Autosaver
	if f.Autosave {
		saver = a.autosaver()
	}
	if saver != nil && resume {
		if d := saver.Resume(ctx, f.Name()); d != nil {
			seed, resumed = d, true
		}
	}
	s = f.OpenWith(seed, a.deps())
	if saver != nil {
		saver.Attach(s)
	}
	a.metrics.Observe(s)
	return s, resumed
}

// fetch loads an entity with the current token.
func (a *app) fetch(ctx context.Context, r form.Request) (*form.Draft, error) {
	tok, err := a.holder.Bearer(ctx)
	if err != nil {
		return nil, err
	}
	r.Token = tok
	return a.client.Fetch(ctx, r)
}

// budget prints the derived total of a budgeted list.
func (a *app) budget(s *form.Session, list form.ListPath, labelKey string) {
	b := s.Evaluator().Budget(list)
	a.sink.Info(a.p.Sprintf(i18n.BudgetStatus, a.p.Sprintf(labelKey), b.Total, b.Ceiling, b.Remaining))
}

func (a *app) notes(msgs []string) {
	for _, m := range msgs {
		a.sink.Push(notify.Info, m, 0)
	}
}

func (a *app) printf(format string, args ...any) {
	fmt.Fprintf(os.Stdout, format, args...)
}

package drafts

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/pixelsinav/pixelsinav/internal/form"
)

type Repo interface {
	Get(ctx context.Context, formName, user string) (*form.Draft, bool, error)
	Save(ctx context.Context, formName, user string, d *form.Draft) error
	Delete(ctx context.Context, formName, user string) error
}

// Autosaver mirrors one session's draft into a Repo while it is dirty and forgets it
// once the session submits successfully.
type Autosaver struct {
	repo    Repo
	user    string
	timeout time.Duration
	log     *slog.Logger
}

func NewAutosaver(repo Repo, user string, log *slog.Logger) *Autosaver {
	if log == nil {
		log = slog.Default()
	}
	return &Autosaver{repo: repo, user: user, timeout: 2 * time.Second, log: log}
}

// Resume returns the saved draft for formName, or nil.
func (a *Autosaver) Resume(ctx context.Context, formName string) *form.Draft {
	d, ok, err := a.repo.Get(ctx, formName, a.user)
	if err != nil {
		a.log.Warn("draft not resumed", "form", formName, "err", err)
		return nil
	}
	if !ok {
		return nil
	}
	return d
}

// Attach starts mirroring s. Failures are logged; they never block editing.
func (a *Autosaver) Attach(s *form.Session) {
	name := s.Name()
	store := s.Store()
	store.Observe(func(form.Change) {
		if !store.Dirty() {
			return
		}
		ctx, cancel := context.WithTimeout(context.Background(), a.timeout)
		defer cancel()
		if err := a.repo.Save(ctx, name, a.user, withoutSecrets(store.Snapshot())); err != nil {
			a.log.Warn("draft autosave failed", "form", name, "err", err)
		}
	})
	s.OnResolve(func(res form.Result) {
		if res.State != form.Succeeded {
			return
		}
		ctx, cancel := context.WithTimeout(context.Background(), a.timeout)
		defer cancel()
		if err := a.repo.Delete(ctx, name, a.user); err != nil {
			a.log.Warn("draft cleanup failed", "form", name, "err", err)
		}
	})
}

// withoutSecrets drops password fields; they are never written to the repo.
func withoutSecrets(d *form.Draft) *form.Draft {
	var keep []form.Field
	for _, k := range d.Keys() {
		if strings.Contains(strings.ToLower(k), "password") {
			continue
		}
		v, _ := d.Get(k)
		keep = append(keep, form.F(k, v))
	}
	return form.Of(keep...)
}

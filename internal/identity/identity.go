// Package identity holds the signed-in user and their bearer token.
// The auth flow is the only writer; form sessions read the token at submission time.
package identity

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/pixelsinav/pixelsinav/internal/form"
)

// User mirrors the record the API returns on login.
type User struct {
	ID         string   `json:"_id"`
	Email      string   `json:"email"`
	Name       string   `json:"name"`
	Username   string   `json:"username,omitempty"`
	Roles      []string `json:"roles,omitempty"`
	IsVerified bool     `json:"isVerified"`
}

// HasRole reports whether u carries role.
func (u User) HasRole(role string) bool {
	for _, r := range u.Roles {
		if r == role {
			return true
		}
	}
	return false
}

type Identity struct {
	Token string
	User  User
}

var ErrNoIdentity = errors.New("identity: not signed in")

// Storage persists the two session entries: accessToken and user.
type Storage interface {
	Load() (Identity, error)
	Save(Identity) error
	Clear() error
}

// Holder caches the identity in memory on top of a Storage.
type Holder struct {
	store Storage
	log   *slog.Logger
	now   func() time.Time

	mu  sync.RWMutex
	cur *Identity
}

func NewHolder(store Storage, log *slog.Logger) *Holder {
	if log == nil {
		log = slog.Default()
	}
	return &Holder{store: store, log: log, now: time.Now}
}

// Load reads the stored identity. A missing identity is not an error.
func (h *Holder) Load() error {
	id, err := h.store.Load()
	h.mu.Lock()
	defer h.mu.Unlock()
	switch {
	case errors.Is(err, ErrNoIdentity):
		h.cur = nil
		return nil
	case err != nil:
		return fmt.Errorf("load identity: %w", err)
	}
	h.cur = &id
	return nil
}

// Current returns the cached identity.
func (h *Holder) Current() (Identity, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.cur == nil {
		return Identity{}, false
	}
	return *h.cur, true
}

// Bearer returns the token for an authenticated request. It fails with an auth
// *form.Error when nobody is signed in or the token's exp claim has passed.
func (h *Holder) Bearer(ctx context.Context) (string, error) {
	id, ok := h.Current()
	if !ok || id.Token == "" {
		return "", &form.Error{Kind: form.KindAuth, Message: "not signed in", Err: ErrNoIdentity}
	}
	if exp, ok := expiry(id.Token); ok && !h.now().Before(exp) {
		return "", &form.Error{Kind: form.KindAuth, Message: "session expired", Err: jwt.ErrTokenExpired}
	}
	return id.Token, nil
}

// SignIn stores a fresh identity. Only the login flow calls it.
func (h *Holder) SignIn(token string, u User) error {
	if token == "" {
		return errors.New("identity: empty token")
	}
	id := Identity{Token: token, User: u}
	if err := h.store.Save(id); err != nil {
		return fmt.Errorf("save identity: %w", err)
	}
	h.mu.Lock()
	h.cur = &id
	h.mu.Unlock()
	h.log.Info("signed in", "user", u.ID, "email", u.Email)
	return nil
}

// SignOut clears both the cache and the storage.
func (h *Holder) SignOut() error {
	h.mu.Lock()
	h.cur = nil
	h.mu.Unlock()
	if err := h.store.Clear(); err != nil {
		return fmt.Errorf("clear identity: %w", err)
	}
	h.log.Info("signed out")
	return nil
}

// expiry reads the exp claim without verifying the signature; the server does that.
func expiry(token string) (time.Time, bool) {
	claims := jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return time.Time{}, false
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, false
	}
	return claims.ExpiresAt.Time, true
}

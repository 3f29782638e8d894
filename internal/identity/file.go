package identity

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// FileStorage keeps the session in a JSON file readable only by the owner.
type FileStorage struct {
	path string
}

type fileDoc struct {
	AccessToken string `json:"accessToken"`
	User        *User  `json:"user"`
}

func NewFileStorage(path string) *FileStorage { return &FileStorage{path: path} }

// DefaultPath is <user config dir>/pixelsinav/session.json.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "pixelsinav", "session.json"), nil
}

func (f *FileStorage) Path() string { return f.path }

func (f *FileStorage) Load() (Identity, error) {
	b, err := os.ReadFile(f.path)
	if errors.Is(err, os.ErrNotExist) {
		return Identity{}, ErrNoIdentity
	}
	if err != nil {
		return Identity{}, err
	}
	var doc fileDoc
	if err := json.Unmarshal(b, &doc); err != nil {
		return Identity{}, fmt.Errorf("decode %s: %w", f.path, err)
	}
	if doc.AccessToken == "" {
		return Identity{}, ErrNoIdentity
	}
	id := Identity{Token: doc.AccessToken}
	if doc.User != nil {
		id.User = *doc.User
	}
	return id, nil
}

// Save writes atomically: a temp file in the same directory is renamed over the target.
func (f *FileStorage) Save(id Identity) error {
	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}
	b, err := json.MarshalIndent(fileDoc{AccessToken: id.Token, User: &id.User}, "", "  ")
	if err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, ".session-*.json")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())
	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		return err
	}
	if _, err := tmp.Write(b); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), f.path)
}

func (f *FileStorage) Clear() error {
	if err := os.Remove(f.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

// Watch calls onChange whenever the session file is written, replaced or removed,
// until ctx is done. The directory is watched so atomic saves are seen.
func (f *FileStorage) Watch(ctx context.Context, onChange func(), log *slog.Logger) error {
	if log == nil {
		log = slog.Default()
	}
	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("identity watcher: %w", err)
	}
	if err := w.Add(dir); err != nil {
		_ = w.Close()
		return fmt.Errorf("identity watcher: watch %s: %w", dir, err)
	}
	target := filepath.Clean(f.path)
	go func() {
		defer w.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-w.Events:
				if !ok {
					return
				}
				if filepath.Clean(ev.Name) != target {
					continue
				}
				if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) != 0 {
					onChange()
				}
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				log.Error("identity watcher error", "err", err)
			}
		}
	}()
	return nil
}

// Follow keeps h in sync with changes made to the file by other processes.
func (h *Holder) Follow(ctx context.Context, f *FileStorage) error {
	return f.Watch(ctx, func() {
		if err := h.Load(); err != nil {
			h.log.Warn("reload identity", "err", err)
		}
	}, h.log)
}

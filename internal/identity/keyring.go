package identity

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/zalando/go-keyring"
)

const (
	keyToken = "accessToken"
	keyUser  = "user"
)

// KeyringStorage keeps the session in the OS credential store under service.
type KeyringStorage struct {
	service string
}

func NewKeyringStorage(service string) *KeyringStorage {
	if service == "" {
		service = "pixelsinav"
	}
	return &KeyringStorage{service: service}
}

func (k *KeyringStorage) Load() (Identity, error) {
	token, err := keyring.Get(k.service, keyToken)
	if errors.Is(err, keyring.ErrNotFound) {
		return Identity{}, ErrNoIdentity
	}
	if err != nil {
		return Identity{}, err
	}
	id := Identity{Token: token}
	raw, err := keyring.Get(k.service, keyUser)
	switch {
	case errors.Is(err, keyring.ErrNotFound):
		return id, nil
	case err != nil:
		return Identity{}, err
	}
	if err := json.Unmarshal([]byte(raw), &id.User); err != nil {
		return Identity{}, fmt.Errorf("decode keyring user: %w", err)
	}
	return id, nil
}

func (k *KeyringStorage) Save(id Identity) error {
	b, err := json.Marshal(id.User)
	if err != nil {
		return err
	}
	if err := keyring.Set(k.service, keyToken, id.Token); err != nil {
		return err
	}
	return keyring.Set(k.service, keyUser, string(b))
}

func (k *KeyringStorage) Clear() error {
	for _, key := range []string{keyToken, keyUser} {
		if err := keyring.Delete(k.service, key); err != nil && !errors.Is(err, keyring.ErrNotFound) {
			return err
		}
	}
	return nil
}

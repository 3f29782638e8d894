// Package drafts keeps unsent form drafts in redis so an interrupted or failed
// submission can be resumed.
package drafts

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/pixelsinav/pixelsinav/internal/form"
)

const DefaultTTL = 7 * 24 * time.Hour

type RedisRepo struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisRepo(client *redis.Client, ttl time.Duration) *RedisRepo {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &RedisRepo{client: client, ttl: ttl}
}

// Get returns the saved draft of form for user; ok is false when there is none.
func (r *RedisRepo) Get(ctx context.Context, formName, user string) (*form.Draft, bool, error) {
	v, err := r.client.Get(ctx, draftKey(formName, user)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	d, err := form.DraftFromJSON(v)
	if err != nil {
		return nil, false, fmt.Errorf("saved draft %s: %w", formName, err)
	}
	return d, true, nil
}

func (r *RedisRepo) Save(ctx context.Context, formName, user string, d *form.Draft) error {
	b, err := json.Marshal(d)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, draftKey(formName, user), b, r.ttl).Err()
}

func (r *RedisRepo) Delete(ctx context.Context, formName, user string) error {
	return r.client.Del(ctx, draftKey(formName, user)).Err()
}

func draftKey(formName, user string) string {
	if user == "" {
		user = "anonymous"
	}
	return fmt.Sprintf("draft:%s:%s", formName, user)
}

package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/MrJamesThe3rd/invoicer/internal/template"
)

// Redis keeps each slot as a plain string key without expiry.
type Redis struct {
	client *redis.Client
	prefix string
}

func NewRedis(client *redis.Client, prefix string) *Redis {
	return &Redis{client: client, prefix: prefix}
}

func (r *Redis) key(slot string) string {
	return r.prefix + slot
}

func (r *Redis) Get(ctx context.Context, slot string) ([]byte, error) {
	data, err := r.client.Get(ctx, r.key(slot)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, template.ErrNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("reading slot %s: %w", slot, err)
	}

	return data, nil
}

func (r *Redis) Set(ctx context.Context, slot string, data []byte) error {
	if err := r.client.Set(ctx, r.key(slot), data, 0).Err(); err != nil {
		return fmt.Errorf("writing slot %s: %w", slot, err)
	}

	return nil
}

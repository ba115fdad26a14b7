package store

import (
	"context"
	"fmt"
	"io"

	"github.com/redis/go-redis/v9"

	"github.com/MrJamesThe3rd/invoicer/internal/config"
	"github.com/MrJamesThe3rd/invoicer/internal/database"
	"github.com/MrJamesThe3rd/invoicer/internal/template"
)

const redisPrefix = "invoicer:"

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// FromConfig opens the backend named by cfg.Store.Backend. The returned closer releases its
// connections.
func FromConfig(ctx context.Context, cfg *config.Config) (template.Store, io.Closer, error) {
	switch cfg.Store.Backend {
	case "", "memory":
		return NewMemory(), nopCloser{}, nil
	case "postgres":
		db, err := database.New(ctx, cfg.ConnectionString())
		if err != nil {
			return nil, nil, err
		}

		pg := NewPostgres(db)
		if err := pg.Migrate(ctx); err != nil {
			db.Close()
			return nil, nil, err
		}

		return pg, db, nil
	case "redis":
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})

		if err := client.Ping(ctx).Err(); err != nil {
			client.Close()
			return nil, nil, fmt.Errorf("pinging redis: %w", err)
		}

		return NewRedis(client, redisPrefix), client, nil
	}

	return nil, nil, fmt.Errorf("unknown store backend %q", cfg.Store.Backend)
}

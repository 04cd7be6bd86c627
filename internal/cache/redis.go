// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package cache

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"
)

// RedisOptions configures the Redis medium.
type RedisOptions struct {
	Addr     string
	Password string
	DB       int
}

// Redis is a medium storing entries under "starctl:<session>:<key>". It
// reports connection problems as errors and leaves the fail-soft decision
// to the Store.
type Redis struct {
	rdb    *redis.Client
	prefix string
}

// NewRedis creates a Redis medium for the given session.
func NewRedis(opts RedisOptions, session string) *Redis {
	rdb := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})
	return &Redis{rdb: rdb, prefix: "starctl:" + sanitizeSession(session) + ":"}
}

func (r *Redis) Locate(key string) string {
	return r.prefix + key
}

func (r *Redis) GetItem(ctx context.Context, key string) (string, bool, error) {
	val, err := r.rdb.Get(ctx, r.Locate(key)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return val, true, nil
}

// SetItem stores the entry with no expiration.
func (r *Redis) SetItem(ctx context.Context, key, value string) error {
	return r.rdb.Set(ctx, r.Locate(key), value, 0).Err()
}

// Clear deletes every key in the session.
func (r *Redis) Clear(ctx context.Context) error {
	iter := r.rdb.Scan(ctx, 0, r.prefix+"*", 100).Iterator() //nolint:mnd
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return err
	}
	if len(keys) == 0 {
		return nil
	}
	return r.rdb.Del(ctx, keys...).Err()
}

// Ping checks the Redis connection.
func (r *Redis) Ping(ctx context.Context) error {
	return r.rdb.Ping(ctx).Err()
}

// Close closes the underlying Redis client.
func (r *Redis) Close() error {
	return r.rdb.Close()
}

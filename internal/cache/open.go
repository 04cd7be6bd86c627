// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package cache

import (
	"context"
	"fmt"
	"os"

	"github.com/apex/log"
)

// Medium kinds accepted by Open.
const (
	KindMemory = "memory"
	KindFile   = "file"
	KindRedis  = "redis"
	KindNone   = "none"
)

// Options selects and configures a medium.
type Options struct {
	Kind       string
	Session    string
	Dir        string
	MaxEntries int64
	Redis      RedisOptions
}

// None is a medium that never holds anything.
type None struct{}

func (None) GetItem(context.Context, string) (string, bool, error) { return "", false, nil }
func (None) SetItem(context.Context, string, string) error         { return nil }

// Enabled returns true unless STARCTL_CACHE explicitly disables it ("0"/"false").
func Enabled() bool {
	enabled, _ := os.LookupEnv("STARCTL_CACHE")
	return enabled == "" || (enabled != "0" && enabled != "false")
}

// Open builds a Store over the medium described by opts. An empty Kind
// selects the file medium. When the cache is disabled, or the file medium
// has no usable directory, the Store is backed by None.
func Open(opts Options) (*Store, error) {
	if !Enabled() {
		log.Debug("cache disabled by STARCTL_CACHE")
		return New(None{}), nil
	}

	session := opts.Session
	if session == "" {
		session = DefaultSession
	}

	switch opts.Kind {
	case "", KindFile:
		dir := opts.Dir
		if dir == "" {
			d, ok := Dir()
			if !ok {
				log.Warn("no cache directory available, caching disabled")
				return New(None{}), nil
			}
			dir = d
		}
		return New(NewFile(dir, session)), nil
	case KindMemory:
		m, err := NewMemory(opts.MaxEntries)
		if err != nil {
			return nil, fmt.Errorf("failed to create memory cache: %w", err)
		}
		return New(m), nil
	case KindRedis:
		if opts.Redis.Addr == "" {
			return nil, fmt.Errorf("redis cache requires an address")
		}
		return New(NewRedis(opts.Redis, session)), nil
	case KindNone:
		return New(None{}), nil
	default:
		return nil, fmt.Errorf("unknown cache medium %q", opts.Kind)
	}
}

// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package cache

import (
	"context"
	"encoding/json"
	"io"

	"github.com/apex/log"
	"github.com/jmgilman/go/errors"
	"github.com/tidwall/gjson"
)

// Store is a best-effort JSON cache over a Medium. None of its read or
// write operations fail: an unavailable medium reads as a miss and
// swallows writes.
type Store struct {
	medium Medium
	kind   string
}

// New returns a Store over m. A nil medium behaves like None.
func New(m Medium) *Store {
	if m == nil {
		m = None{}
	}
	return &Store{medium: m, kind: kindOf(m)}
}

// Kind names the medium, e.g. "file" or "redis".
func (s *Store) Kind() string {
	return s.kind
}

// Lookup returns the raw JSON stored under key. Entries that are missing,
// unreadable or not valid JSON are all reported as absent.
func (s *Store) Lookup(ctx context.Context, key string) (json.RawMessage, bool) {
	val, ok, err := s.medium.GetItem(ctx, key)
	if err != nil {
		logUnavailable(unavailable(err, "get", key))
		return nil, false
	}
	if !ok {
		log.WithField("key", key).Debug("cache miss")
		return nil, false
	}
	if !gjson.Valid(val) {
		log.WithField("key", key).Warn("discarding malformed cache entry")
		return nil, false
	}

	log.WithField("key", key).Debug("cache hit")
	return json.RawMessage(val), true
}

// Get decodes the entry under key into v and reports whether it did.
func (s *Store) Get(ctx context.Context, key string, v any) bool {
	raw, ok := s.Lookup(ctx, key)
	if !ok {
		return false
	}
	if err := json.Unmarshal(raw, v); err != nil {
		log.WithError(err).WithField("key", key).Warn("discarding undecodable cache entry")
		return false
	}
	return true
}

// Set encodes v as JSON and stores it under key. Failures are logged and
// otherwise ignored.
func (s *Store) Set(ctx context.Context, key string, v any) {
	b, err := json.Marshal(v)
	if err != nil {
		log.WithError(err).WithField("key", key).Warn("failed to encode cache entry")
		return
	}
	if err := s.medium.SetItem(ctx, key, string(b)); err != nil {
		logUnavailable(unavailable(err, "set", key))
		return
	}
	log.WithField("key", key).Debug("cache write")
}

// Setter returns a function that stores its argument under key and hands it
// back unchanged, so a store step can be dropped into a processing chain.
func Setter[T any](ctx context.Context, s *Store, key string) func(T) T {
	return func(v T) T {
		s.Set(ctx, key, v)
		return v
	}
}

// Locate reports where key would live in the medium, or "" when the medium
// cannot say.
func (s *Store) Locate(key string) string {
	if l, ok := s.medium.(Locator); ok {
		return l.Locate(key)
	}
	return ""
}

// Clear ends the session by dropping every entry the medium holds for it.
// Media without a notion of clearing are left alone.
func (s *Store) Clear(ctx context.Context) error {
	c, ok := s.medium.(Clearer)
	if !ok {
		return nil
	}
	if err := c.Clear(ctx); err != nil {
		return unavailable(err, "clear", "")
	}
	return nil
}

// Close releases the medium's resources, if it holds any.
func (s *Store) Close() error {
	if c, ok := s.medium.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

// unavailable classifies a medium failure.
func unavailable(err error, op, key string) error {
	e := errors.Wrap(err, errors.CodeUnavailable, "cache medium unavailable")
	e = errors.WithContext(e, "op", op)
	if key != "" {
		e = errors.WithContext(e, "key", key)
	}
	return e
}

func logUnavailable(err error) {
	log.WithError(err).Warn("cache degraded")
}

func kindOf(m Medium) string {
	switch m.(type) {
	case *Memory:
		return KindMemory
	case *File:
		return KindFile
	case *Redis:
		return KindRedis
	case None:
		return KindNone
	default:
		return "custom"
	}
}

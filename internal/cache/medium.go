// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package cache

import (
	"context"
	"regexp"
)

// Medium is the persistent storage behind a Store. It only has to move
// strings in and out by key.
type Medium interface {
	// GetItem returns the value stored under key. The boolean is false when
	// there is no such key.
	GetItem(ctx context.Context, key string) (string, bool, error)

	// SetItem stores value under key, replacing any previous value.
	SetItem(ctx context.Context, key, value string) error
}

// Clearer is implemented by media that can drop every entry belonging to
// the current session.
type Clearer interface {
	Clear(ctx context.Context) error
}

// Locator is implemented by media that can say where an entry lives.
type Locator interface {
	Locate(key string) string
}

// DefaultSession is the session name used when none is configured.
const DefaultSession = "default"

var sessionRegex = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// sanitizeSession turns a user supplied session name into something that is
// safe to use as a directory name or key prefix.
func sanitizeSession(s string) string {
	s = sessionRegex.ReplaceAllString(s, "_")
	if s == "" || s == "." || s == ".." {
		return DefaultSession
	}
	return s
}

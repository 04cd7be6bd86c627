// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package cache

import (
	"bytes"
	"context"
	"crypto/md5"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// File is an on-disk medium. Each session is a directory beneath the base
// cache directory and each entry is a file named by the MD5 of its key.
// The session ends when Clear removes its directory.
type File struct {
	base    string
	session string
}

// NewFile returns a file medium rooted at base for the given session.
func NewFile(base, session string) *File {
	return &File{base: base, session: sanitizeSession(session)}
}

// Dir resolves the base cache directory.
// Precedence:
//  1. STARCTL_CACHE_DIR, if set and non-empty
//  2. os.UserCacheDir()/starctl
//
// Returns ("", false) if a base cannot be resolved (treat as disabled).
func Dir() (string, bool) {
	if c, ok := os.LookupEnv("STARCTL_CACHE_DIR"); ok && c != "" {
		return c, true
	}
	if dir, err := os.UserCacheDir(); err == nil && dir != "" {
		return filepath.Join(dir, "starctl"), true
	}
	return "", false
}

// SessionDir is the directory holding this session's entries.
func (f *File) SessionDir() string {
	return filepath.Join(f.base, f.session)
}

// Locate returns the path an entry for key lives at.
func (f *File) Locate(key string) string {
	return filepath.Join(f.SessionDir(), encodeKey(key))
}

func (f *File) GetItem(_ context.Context, key string) (string, bool, error) {
	b, err := os.ReadFile(f.Locate(key))
	if errors.Is(err, fs.ErrNotExist) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to read cache entry: %w", err)
	}
	return string(bytes.TrimSpace(b)), true, nil
}

// SetItem writes the entry to a temporary file and renames it into place so
// a concurrent reader never sees a partial entry.
func (f *File) SetItem(_ context.Context, key, value string) error {
	dir := f.SessionDir()
	if err := os.MkdirAll(dir, 0o755); err != nil { //nolint:mnd
		return fmt.Errorf("failed to create cache directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".entry-*")
	if err != nil {
		return fmt.Errorf("failed to write to cache: %w", err)
	}
	defer os.Remove(tmp.Name()) //nolint:errcheck

	if _, err := tmp.WriteString(value); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to write to cache: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write to cache: %w", err)
	}
	if err := os.Chmod(tmp.Name(), 0o600); err != nil { //nolint:mnd
		return fmt.Errorf("failed to write to cache: %w", err)
	}
	if err := os.Rename(tmp.Name(), f.Locate(key)); err != nil {
		return fmt.Errorf("failed to write to cache: %w", err)
	}
	return nil
}

// Clear removes the session directory and everything in it.
func (f *File) Clear(_ context.Context) error {
	if err := os.RemoveAll(f.SessionDir()); err != nil {
		return fmt.Errorf("failed to remove session directory: %w", err)
	}
	return nil
}

// encodeKey hashes k with MD5 and returns the hex string.
func encodeKey(k string) string {
	h := md5.New()
	_, _ = h.Write([]byte(k))
	return hex.EncodeToString(h.Sum(nil))
}

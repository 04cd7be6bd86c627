// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package cache

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFile_GetSet(t *testing.T) {
	base := t.TempDir()
	f := NewFile(base, "blog")
	ctx := t.Context()

	_, ok, err := f.GetItem(ctx, "vercel/next.js")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, f.SetItem(ctx, "vercel/next.js", `{"stargazers_count":42}`))

	v, ok, err := f.GetItem(ctx, "vercel/next.js")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `{"stargazers_count":42}`, v)

	// The entry is an md5-named file in the session directory.
	p := f.Locate("vercel/next.js")
	assert.Equal(t, filepath.Join(base, "blog", encodeKey("vercel/next.js")), p)
	info, err := os.Stat(p)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	// No temp files are left behind.
	entries, err := os.ReadDir(f.SessionDir())
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestFile_TrimsWhitespace(t *testing.T) {
	f := NewFile(t.TempDir(), "s")
	require.NoError(t, os.MkdirAll(f.SessionDir(), 0o755))
	require.NoError(t, os.WriteFile(f.Locate("k"), []byte("  {\"a\":1}\n\n"), 0o600))

	v, ok, err := f.GetItem(t.Context(), "k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `{"a":1}`, v)
}

func TestFile_SessionsAreIsolated(t *testing.T) {
	base := t.TempDir()
	ctx := t.Context()
	a := NewFile(base, "a")
	b := NewFile(base, "b")

	require.NoError(t, a.SetItem(ctx, "k", "1"))
	_, ok, err := b.GetItem(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestFile_Clear(t *testing.T) {
	base := t.TempDir()
	f := NewFile(base, "s")
	ctx := t.Context()

	require.NoError(t, f.SetItem(ctx, "k", "1"))
	require.NoError(t, f.Clear(ctx))

	_, err := os.Stat(f.SessionDir())
	assert.True(t, os.IsNotExist(err))

	_, ok, err := f.GetItem(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)

	// Clearing an already ended session is fine.
	assert.NoError(t, f.Clear(ctx))
}

func TestFile_UnwritableBase(t *testing.T) {
	base := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(base, []byte("x"), 0o600))

	f := NewFile(base, "s")
	assert.Error(t, f.SetItem(t.Context(), "k", "1"))

	// Reads through a file-as-directory fail rather than report a miss.
	_, _, err := f.GetItem(t.Context(), "k")
	assert.Error(t, err)
}

func TestSanitizeSession(t *testing.T) {
	tests := map[string]string{
		"":            DefaultSession,
		"blog":        "blog",
		"my session":  "my_session",
		"../../etc":   ".._.._etc",
		"..":          DefaultSession,
		"feature/x-1": "feature_x-1",
	}
	for in, want := range tests {
		assert.Equal(t, want, sanitizeSession(in), "input %q", in)
	}
}

func TestDir(t *testing.T) {
	t.Setenv("STARCTL_CACHE_DIR", "/tmp/starctl-test")
	d, ok := Dir()
	assert.True(t, ok)
	assert.Equal(t, "/tmp/starctl-test", d)

	t.Setenv("STARCTL_CACHE_DIR", "")
	t.Setenv("XDG_CACHE_HOME", "/tmp/xdg-cache")
	t.Setenv("HOME", "/tmp/home")
	d, ok = Dir()
	assert.True(t, ok)
	assert.Equal(t, "starctl", filepath.Base(d))
}

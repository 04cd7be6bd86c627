// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package github

import (
	"context"
	stderrors "errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jmgilman/go/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
	"go.opentelemetry.io/otel/attribute"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/staranto/starctl/internal/cache"
)

const nextJS = `{"id":70107786,"full_name":"vercel/next.js","owner":{"login":"vercel"},"stargazers_count":42,"topics":["react","nextjs"]}`

// mapMedium is an in-process medium whose contents tests can inspect.
type mapMedium struct {
	items map[string]string
}

func newMapMedium() *mapMedium {
	return &mapMedium{items: map[string]string{}}
}

func (m *mapMedium) GetItem(_ context.Context, key string) (string, bool, error) {
	v, ok := m.items[key]
	return v, ok, nil
}

func (m *mapMedium) SetItem(_ context.Context, key, value string) error {
	m.items[key] = value
	return nil
}

type brokenMedium struct{}

var errQuota = stderrors.New("quota exceeded")

func (brokenMedium) GetItem(context.Context, string) (string, bool, error) { return "", false, errQuota }
func (brokenMedium) SetItem(context.Context, string, string) error         { return errQuota }

// fakeAPI serves body with status for every request and counts the hits.
type fakeAPI struct {
	*httptest.Server
	hits  atomic.Int32
	paths []string
}

func newFakeAPI(t *testing.T, status int, body string, headers ...string) *fakeAPI {
	t.Helper()
	f := &fakeAPI{}
	f.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.hits.Add(1)
		f.paths = append(f.paths, r.URL.Path)
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "application/vnd.github+json", r.Header.Get("Accept"))
		assert.NotEmpty(t, r.Header.Get("User-Agent"))
		assert.Empty(t, r.Header.Get("Authorization"))
		for i := 0; i+1 < len(headers); i += 2 {
			w.Header().Set(headers[i], headers[i+1])
		}
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(f.Close)
	return f
}

func TestGetRepoData_FetchesAndStores(t *testing.T) {
	api := newFakeAPI(t, http.StatusOK, nextJS)
	medium := newMapMedium()
	c := NewClient(cache.New(medium), WithBaseURL(api.URL))

	rec, err := c.GetRepoData(t.Context(), RepoRef{User: "vercel", Repo: "next.js"})
	require.NoError(t, err)

	assert.Equal(t, int32(1), api.hits.Load())
	assert.Equal(t, []string{"/repos/vercel/next.js"}, api.paths)
	assert.JSONEq(t, nextJS, string(rec.Raw()))

	stored, ok := medium.items["vercel/next.js"]
	require.True(t, ok, "record should be stored under user/repo")
	assert.JSONEq(t, nextJS, stored)
}

func TestGetRepoData_ServesFromCache(t *testing.T) {
	api := newFakeAPI(t, http.StatusOK, nextJS)
	c := NewClient(cache.New(newMapMedium()), WithBaseURL(api.URL))
	ref := RepoRef{User: "vercel", Repo: "next.js"}

	first, err := c.GetRepoData(t.Context(), ref)
	require.NoError(t, err)
	second, err := c.GetRepoData(t.Context(), ref)
	require.NoError(t, err)

	assert.Equal(t, int32(1), api.hits.Load())
	assert.JSONEq(t, string(first.Raw()), string(second.Raw()))
}

func TestGetRepoData_PreloadedEntryIsNotRefetched(t *testing.T) {
	api := newFakeAPI(t, http.StatusOK, nextJS)
	medium := newMapMedium()
	medium.items["vercel/next.js"] = `{"stargazers_count":7}`
	c := NewClient(cache.New(medium), WithBaseURL(api.URL))

	n, ok, err := c.GetStargazers(t.Context(), RepoRef{User: "vercel", Repo: "next.js"})
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 7, n)
	assert.Zero(t, api.hits.Load())
}

func TestGetStargazers(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		want   int
		wantOK bool
	}{
		{"present", nextJS, 42, true},
		{"zero", `{"stargazers_count":0}`, 0, true},
		{"missing", `{"full_name":"vercel/next.js"}`, 0, false},
		{"not a number", `{"stargazers_count":"many"}`, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := newFakeAPI(t, http.StatusOK, tt.body)
			c := NewClient(cache.New(newMapMedium()), WithBaseURL(api.URL))

			got, ok, err := c.GetStargazers(t.Context(), RepoRef{User: "vercel", Repo: "next.js"})
			require.NoError(t, err)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestGetRepoData_NetworkErrorIsNotCached(t *testing.T) {
	api := newFakeAPI(t, http.StatusOK, nextJS)
	url := api.URL
	api.Close()

	medium := newMapMedium()
	c := NewClient(cache.New(medium), WithBaseURL(url))

	rec, err := c.GetRepoData(t.Context(), RepoRef{User: "vercel", Repo: "next.js"})
	require.Error(t, err)
	assert.Nil(t, rec)
	assert.True(t, IsNetworkError(err))
	assert.Equal(t, errors.CodeNetwork, errors.GetCode(err))
	assert.Empty(t, medium.items)
}

func TestGetRepoData_ParseErrorIsNotCached(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"truncated", `{"stargazers_count":`},
		{"html", `<html>rate limited</html>`},
		{"array", `[1,2,3]`},
		{"empty", ``},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := newFakeAPI(t, http.StatusOK, tt.body)
			medium := newMapMedium()
			c := NewClient(cache.New(medium), WithBaseURL(api.URL))

			_, err := c.GetRepoData(t.Context(), RepoRef{User: "vercel", Repo: "next.js"})
			require.Error(t, err)
			assert.True(t, IsParseError(err))
			assert.Empty(t, medium.items)
		})
	}
}

func TestGetRepoData_StatusErrorIsNotCached(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		headers  []string
		wantCode errors.ErrorCode
	}{
		{"not found", http.StatusNotFound, `{"message":"Not Found"}`, nil, errors.CodeNotFound},
		{"forbidden", http.StatusForbidden, `{"message":"Forbidden"}`, nil, errors.CodeForbidden},
		{"rate limited", http.StatusForbidden, `{"message":"API rate limit exceeded"}`, []string{"X-RateLimit-Remaining", "0"}, errors.CodeRateLimit},
		{"too many requests", http.StatusTooManyRequests, ``, nil, errors.CodeRateLimit},
		{"server error", http.StatusBadGateway, `bad gateway`, nil, errors.CodeUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := newFakeAPI(t, tt.status, tt.body, tt.headers...)
			medium := newMapMedium()
			c := NewClient(cache.New(medium), WithBaseURL(api.URL))

			_, err := c.GetRepoData(t.Context(), RepoRef{User: "vercel", Repo: "next.js"})
			require.Error(t, err)
			assert.True(t, IsStatusError(err))
			assert.Equal(t, tt.wantCode, errors.GetCode(err))
			assert.Empty(t, medium.items)
		})
	}
}

func TestGetRepoData_StatusErrorCarriesMessage(t *testing.T) {
	api := newFakeAPI(t, http.StatusNotFound, `{"message":"Not Found"}`)
	c := NewClient(nil, WithBaseURL(api.URL))

	_, err := c.GetRepoData(t.Context(), RepoRef{User: "nobody", Repo: "nothing"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Not Found")
}

func TestGetRepoData_UnavailableCacheStillFetches(t *testing.T) {
	api := newFakeAPI(t, http.StatusOK, nextJS)
	c := NewClient(cache.New(brokenMedium{}), WithBaseURL(api.URL))
	ref := RepoRef{User: "vercel", Repo: "next.js"}

	for range 2 {
		n, ok, err := c.GetStargazers(t.Context(), ref)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, 42, n)
	}
	assert.Equal(t, int32(2), api.hits.Load())
}

func TestGetRepoData_InvalidRef(t *testing.T) {
	api := newFakeAPI(t, http.StatusOK, nextJS)
	c := NewClient(nil, WithBaseURL(api.URL))

	_, err := c.GetRepoData(t.Context(), RepoRef{User: "vercel"})
	require.Error(t, err)
	assert.Equal(t, errors.CodeInvalidInput, errors.GetCode(err))
	assert.Zero(t, api.hits.Load())
}

func TestGetRepoData_Span(t *testing.T) {
	api := newFakeAPI(t, http.StatusOK, nextJS)
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	c := NewClient(cache.New(newMapMedium()), WithBaseURL(api.URL), WithTracerProvider(tp))
	ref := RepoRef{User: "vercel", Repo: "next.js"}

	_, err := c.GetRepoData(t.Context(), ref)
	require.NoError(t, err)
	_, err = c.GetRepoData(t.Context(), ref)
	require.NoError(t, err)

	spans := recorder.Ended()
	require.Len(t, spans, 2)
	assert.Equal(t, "github.GetRepoData", spans[0].Name())

	attrs := func(s sdktrace.ReadOnlySpan) map[attribute.Key]attribute.Value {
		m := map[attribute.Key]attribute.Value{}
		for _, kv := range s.Attributes() {
			m[kv.Key] = kv.Value
		}
		return m
	}
	first, second := attrs(spans[0]), attrs(spans[1])
	assert.Equal(t, "vercel/next.js", first["repo.key"].AsString())
	assert.False(t, first["cache.hit"].AsBool())
	assert.Equal(t, int64(http.StatusOK), first["http.status_code"].AsInt64())
	assert.True(t, second["cache.hit"].AsBool())
}

func TestRepoRecord_View(t *testing.T) {
	rec, err := NewRepoRecord([]byte(nextJS))
	require.NoError(t, err)

	assert.Equal(t, "vercel", rec.Get("owner.login").String())
	assert.Equal(t, "nextjs", rec.Get("topics[1]").String())
	assert.Equal(t, gjson.Null, rec.Get("license.key").Type)

	repo, err := rec.Repository()
	require.NoError(t, err)
	assert.Equal(t, "vercel/next.js", repo.GetFullName())
	assert.Equal(t, 42, repo.GetStargazersCount())
	assert.Equal(t, []string{"react", "nextjs"}, repo.Topics)
}

// Misses that overlap are not merged: each one fetches, and the store keeps
// whichever record was written last.
func TestGetRepoData_ConcurrentMissesEachFetch(t *testing.T) {
	mem, err := cache.NewMemory(0)
	require.NoError(t, err)
	t.Cleanup(func() { _ = mem.Close() })
	store := cache.New(mem)
	ref := RepoRef{User: "vercel", Repo: "next.js"}

	var (
		hits    atomic.Int32
		arrived sync.WaitGroup
		bothIn  = make(chan struct{})
	)
	arrived.Add(2)
	go func() {
		arrived.Wait()
		close(bothIn)
	}()

	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		n := hits.Add(1)
		arrived.Done()
		select {
		case <-bothIn:
		case <-time.After(5 * time.Second):
			assert.Fail(t, "second request never arrived")
		}
		// The second response goes out once the first one is stored.
		if n == 2 {
			assert.Eventually(t, func() bool {
				_, ok := store.Lookup(context.Background(), ref.Key())
				return ok
			}, 5*time.Second, 5*time.Millisecond)
		}
		fmt.Fprintf(w, `{"full_name":"vercel/next.js","stargazers_count":%d}`, n)
	}))
	t.Cleanup(api.Close)

	c := NewClient(store, WithBaseURL(api.URL))

	var wg sync.WaitGroup
	stars := make([]int, 2)
	for i := range stars {
		wg.Add(1)
		go func() {
			defer wg.Done()
			n, ok, err := c.GetStargazers(t.Context(), ref)
			assert.NoError(t, err)
			assert.True(t, ok)
			stars[i] = n
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(2), hits.Load())
	assert.ElementsMatch(t, []int{1, 2}, stars)

	n, ok, err := c.GetStargazers(t.Context(), ref)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 2, n, "last write wins")
	assert.Equal(t, int32(2), hits.Load())
}

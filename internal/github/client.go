// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package github

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/apex/log"
	"github.com/tidwall/gjson"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/staranto/starctl/internal/cache"
)

// DefaultBaseURL is the public GitHub REST API.
const DefaultBaseURL = "https://api.github.com"

const tracerName = "github.com/staranto/starctl/internal/github"

// Client resolves repository metadata, reading through a cache.Store.
type Client struct {
	store     *cache.Store
	http      *http.Client
	baseURL   string
	userAgent string
	tracer    trace.Tracer
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces http.DefaultClient.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithBaseURL points the client at another API root, e.g. a GitHub
// Enterprise host or a test server.
func WithBaseURL(u string) Option {
	return func(c *Client) {
		if u != "" {
			c.baseURL = strings.TrimSuffix(u, "/")
		}
	}
}

// WithUserAgent sets the User-Agent header GitHub requires on every request.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		if ua != "" {
			c.userAgent = ua
		}
	}
}

// WithTracerProvider traces requests with tp instead of the global provider.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(c *Client) {
		if tp != nil {
			c.tracer = tp.Tracer(tracerName)
		}
	}
}

// NewClient returns a Client reading through store. A nil store disables
// caching.
func NewClient(store *cache.Store, opts ...Option) *Client {
	if store == nil {
		store = cache.New(nil)
	}
	c := &Client{
		store:     store,
		http:      http.DefaultClient,
		baseURL:   DefaultBaseURL,
		userAgent: "starctl",
		tracer:    otel.GetTracerProvider().Tracer(tracerName),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Store returns the cache the client reads through.
func (c *Client) Store() *cache.Store {
	return c.store
}

// GetRepoData returns the repository's metadata. A cached record is returned
// as is; otherwise the record is fetched with a single GET, stored under
// ref.Key() and returned. Failed requests and unparsable bodies are not
// cached.
func (c *Client) GetRepoData(ctx context.Context, ref RepoRef) (*RepoRecord, error) {
	if err := ref.Validate(); err != nil {
		return nil, err
	}
	key := ref.Key()

	ctx, span := c.tracer.Start(ctx, "github.GetRepoData",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(attribute.String("repo.key", key)),
	)
	defer span.End()

	var cached RepoRecord
	if c.store.Get(ctx, key, &cached) {
		span.SetAttributes(attribute.Bool("cache.hit", true))
		log.WithField("key", key).Debug("serving repository from cache")
		return &cached, nil
	}
	span.SetAttributes(attribute.Bool("cache.hit", false))

	record, status, err := c.fetch(ctx, ref)
	if status != 0 {
		span.SetAttributes(attribute.Int("http.status_code", status))
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	c.store.Set(ctx, key, record)
	return record, nil
}

// GetStargazers returns the repository's star count. The boolean is false,
// with a nil error, when the record has no stargazers_count.
func (c *Client) GetStargazers(ctx context.Context, ref RepoRef) (int, bool, error) {
	record, err := c.GetRepoData(ctx, ref)
	if err != nil {
		return 0, false, err
	}
	n, ok := record.Stargazers()
	return n, ok, nil
}

// fetch performs the GET and parses the body. The returned status is zero
// when no response arrived.
func (c *Client) fetch(ctx context.Context, ref RepoRef) (*RepoRecord, int, error) {
	url := c.baseURL + ref.Path()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("User-Agent", c.userAgent)

	log.WithField("url", url).Debug("fetching repository")
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, 0, newNetworkError(err, url)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, newNetworkError(err, url)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		rateLimited := resp.StatusCode == http.StatusForbidden && resp.Header.Get("X-RateLimit-Remaining") == "0"
		message := gjson.GetBytes(body, "message").String()
		return nil, resp.StatusCode, newStatusError(resp.StatusCode, rateLimited, message, url)
	}

	record, err := NewRepoRecord(body)
	if err != nil {
		return nil, resp.StatusCode, newParseError(err, url)
	}
	return record, resp.StatusCode, nil
}

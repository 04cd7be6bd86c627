// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package github

import (
	"bytes"
	"encoding/json"
	"fmt"

	gh "github.com/google/go-github/v67/github"
	"github.com/tidwall/gjson"

	"github.com/staranto/starctl/internal/driller"
)

// RepoRecord is the repository-metadata document returned by the API. Only
// the star count is typed; the rest of the body is carried verbatim so that
// upstream schema changes pass straight through the cache.
type RepoRecord struct {
	// StargazersCount is nil when the document has no integer
	// stargazers_count.
	StargazersCount *int

	raw json.RawMessage
}

// NewRepoRecord builds a record from a JSON document. The document must be
// a JSON object.
func NewRepoRecord(body []byte) (*RepoRecord, error) {
	r := &RepoRecord{}
	if err := r.UnmarshalJSON(body); err != nil {
		return nil, err
	}
	return r, nil
}

// UnmarshalJSON keeps a copy of the document and extracts the typed fields.
func (r *RepoRecord) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if !gjson.ValidBytes(b) {
		return fmt.Errorf("not valid JSON")
	}
	doc := gjson.ParseBytes(b)
	if !doc.IsObject() {
		return fmt.Errorf("expected a JSON object, got %s", doc.Type)
	}

	r.raw = append(json.RawMessage(nil), b...)
	r.StargazersCount = nil
	if sc := doc.Get("stargazers_count"); sc.Type == gjson.Number && sc.Num == float64(int(sc.Num)) {
		n := int(sc.Int())
		r.StargazersCount = &n
	}
	return nil
}

// MarshalJSON returns the document exactly as it was received.
func (r RepoRecord) MarshalJSON() ([]byte, error) {
	if len(r.raw) == 0 {
		return []byte("{}"), nil
	}
	return r.raw, nil
}

// Raw is the untouched document.
func (r *RepoRecord) Raw() json.RawMessage {
	return r.raw
}

// Stargazers returns the star count and whether the document carried one.
func (r *RepoRecord) Stargazers() (int, bool) {
	if r == nil || r.StargazersCount == nil {
		return 0, false
	}
	return *r.StargazersCount, true
}

// Get resolves a dotted attribute path, e.g. "owner.login" or "topics[0]".
func (r *RepoRecord) Get(path string) gjson.Result {
	return driller.Driller(string(r.raw), path)
}

// Repository decodes the document into go-github's typed repository.
func (r *RepoRecord) Repository() (*gh.Repository, error) {
	var repo gh.Repository
	if err := json.Unmarshal(r.raw, &repo); err != nil {
		return nil, fmt.Errorf("failed to decode repository: %w", err)
	}
	return &repo, nil
}

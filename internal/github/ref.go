// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package github

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/jmgilman/go/errors"
)

// RepoRef names a repository by owner and name.
type RepoRef struct {
	User string
	Repo string
}

// Key is the cache key for the repository, "<user>/<repo>".
func (r RepoRef) Key() string {
	return r.User + "/" + r.Repo
}

func (r RepoRef) String() string {
	return r.Key()
}

// Path is the API path of the repository-metadata endpoint.
func (r RepoRef) Path() string {
	return fmt.Sprintf("/repos/%s/%s", url.PathEscape(r.User), url.PathEscape(r.Repo))
}

// HTMLURL is the repository's page on github.com.
func (r RepoRef) HTMLURL() string {
	return "https://github.com/" + r.Key()
}

// Validate rejects refs whose parts are empty or contain a "/", which is
// what keeps Key collision free.
func (r RepoRef) Validate() error {
	for _, f := range [...]struct{ field, v string }{{"user", r.User}, {"repo", r.Repo}} {
		field, v := f.field, f.v
		if strings.TrimSpace(v) == "" {
			return invalidRef(field, "must not be empty")
		}
		if strings.Contains(v, "/") {
			return invalidRef(field, "must not contain '/'")
		}
	}
	return nil
}

// ParseRepoRef parses "user/repo". A github.com URL is accepted as well.
func ParseRepoRef(s string) (RepoRef, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "https://")
	s = strings.TrimPrefix(s, "http://")
	s = strings.TrimPrefix(s, "github.com/")
	s = strings.TrimSuffix(s, "/")
	s = strings.TrimSuffix(s, ".git")

	parts := strings.Split(s, "/")
	if len(parts) != 2 { //nolint:mnd
		err := errors.Newf(errors.CodeInvalidInput, "invalid repository %q: want user/repo", s)
		return RepoRef{}, errors.WithContext(err, "field", "ref")
	}

	ref := RepoRef{User: parts[0], Repo: parts[1]}
	if err := ref.Validate(); err != nil {
		return RepoRef{}, err
	}
	return ref, nil
}

func invalidRef(field, reason string) error {
	err := errors.Newf(errors.CodeInvalidInput, "invalid %s: %s", field, reason)
	err = errors.WithContext(err, "field", field)
	return errors.WithContext(err, "reason", reason)
}

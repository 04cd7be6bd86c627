// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package badge

import (
	"context"
	"fmt"
	"html/template"
	"io"

	"github.com/apex/log"
	"github.com/dustin/go-humanize"
	"github.com/jmgilman/go/errors"

	"github.com/staranto/starctl/internal/github"
)

// StarResolver resolves a repository's star count. *github.Client satisfies
// it.
type StarResolver interface {
	GetStargazers(ctx context.Context, ref github.RepoRef) (int, bool, error)
}

// Badge is a resolved "GitHub stars" button.
type Badge struct {
	TargetID string
	Ref      github.RepoRef
	Stars    int
	// Known is false when the repository reports no star count.
	Known bool
}

var starsTemplate = template.Must(template.New("stars").Parse(
	`<span id="{{.TargetID}}" class="github-stars">` +
		`<a href="{{.URL}}" title="{{.Key}}">{{.Repo}}</a> ` +
		`<a href="{{.URL}}/stargazers">{{.Star}} {{.Count}}</a>` +
		`</span>`))

// GithubStars resolves the star count of ref for the element targetID.
func GithubStars(ctx context.Context, resolver StarResolver, ref github.RepoRef, targetID string) (Badge, error) {
	if targetID == "" {
		err := errors.New(errors.CodeInvalidInput, "target id must not be empty")
		return Badge{}, errors.WithContext(err, "field", "target")
	}

	n, ok, err := resolver.GetStargazers(ctx, ref)
	if err != nil {
		return Badge{}, fmt.Errorf("failed to resolve stars for %s: %w", ref, err)
	}
	if !ok {
		log.WithField("repo", ref.Key()).Warn("repository has no stargazers_count")
	}

	return Badge{TargetID: targetID, Ref: ref, Stars: n, Known: ok}, nil
}

// Count is the display form of the star count, "?" when unknown.
func (b Badge) Count() string {
	if !b.Known {
		return "?"
	}
	return humanize.Comma(int64(b.Stars))
}

// RenderHTML writes the button as an HTML fragment.
func (b Badge) RenderHTML(w io.Writer) error {
	return starsTemplate.Execute(w, map[string]any{
		"TargetID": b.TargetID,
		"URL":      b.Ref.HTMLURL(),
		"Key":      b.Ref.Key(),
		"Repo":     Icons.Repo,
		"Star":     Icons.Star,
		"Count":    b.Count(),
	})
}

func (b Badge) String() string {
	return fmt.Sprintf("★ %s %s", b.Count(), b.Ref)
}

// Copyright © 2025 Steve Taranto staranto@gmail.com
// SPDX-License-Identifier: MIT

// Package github resolves repository metadata from the GitHub REST API,
// reading through a session cache. A record is fetched at most once per
// session for sequential callers; concurrent misses on the same key are not
// coalesced and each issue their own request.
//
//	store, _ := cache.Open(cache.Options{Kind: cache.KindMemory})
//	client := github.NewClient(store)
//	stars, ok, err := client.GetStargazers(ctx, github.RepoRef{User: "vercel", Repo: "next.js"})
package github

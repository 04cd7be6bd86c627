// Copyright © 2025 Steve Taranto staranto@gmail.com
// SPDX-License-Identifier: MIT

// Package cache provides the session-scoped key/value store that sits in
// front of the GitHub API. A Store serializes values as JSON into a
// pluggable Medium (in-process, on-disk or Redis) and treats every medium
// failure as a cache miss.
package cache

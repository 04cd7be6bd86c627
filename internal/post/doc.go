// Copyright © 2025 Steve Taranto staranto@gmail.com
// SPDX-License-Identifier: MIT

// Package post models a blog post header (title, subtitle, published and
// updated dates, tags) and renders it for the terminal or as HTML.
package post

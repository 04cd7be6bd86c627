// Copyright © 2025 Steve Taranto staranto@gmail.com
// SPDX-License-Identifier: MIT

// Package badge renders status buttons for repositories, such as the
// "GitHub stars" button shown next to a post.
package badge

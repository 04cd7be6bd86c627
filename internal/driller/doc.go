// Copyright © 2025 Steve Taranto staranto@gmail.com
// SPDX-License-Identifier: MIT

// Package driller walks dotted attribute paths through JSON documents such as
// GitHub repository records.
package driller

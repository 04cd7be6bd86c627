// Copyright © 2025 Steve Taranto staranto@gmail.com
// SPDX-License-Identifier: MIT

// starctl reports GitHub repository metadata and star counts, caching every
// repository it has looked up for the rest of the session.
package main

// Copyright © 2025 Steve Taranto staranto@gmail.com
// SPDX-License-Identifier: MIT

package meta

import (
	"context"

	"go.opentelemetry.io/otel/trace"

	"github.com/staranto/starctl/internal/cache"
	"github.com/staranto/starctl/internal/config"
	"github.com/staranto/starctl/internal/github"
)

// Meta are the meta-options that are available on all or most commands.
type Meta struct {
	Args    []string
	Config  config.Type
	Context context.Context

	// Set by the command's Before hook once its flags are parsed.
	Store          *cache.Store
	Client         *github.Client
	TracerProvider trace.TracerProvider
}

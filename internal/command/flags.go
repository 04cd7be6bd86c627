// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"os/exec"

	altsrc "github.com/urfave/cli-altsrc/v3"
	yaml "github.com/urfave/cli-altsrc/v3/yaml"
	"github.com/urfave/cli/v3"

	"github.com/staranto/starctl/internal/cache"
	"github.com/staranto/starctl/internal/config"
	"github.com/staranto/starctl/internal/github"
	"github.com/staranto/starctl/internal/output"
)

func init() {
	cfg, _ = config.Load("")
}

var cfg config.Type

func newSchemaFlag() *cli.BoolFlag {
	return &cli.BoolFlag{
		Name:        "schema",
		Usage:       "dump the attributes available to --attrs",
		HideDefault: true,
	}
}

func newTldrFlag() *cli.BoolFlag {
	return &cli.BoolFlag{
		Name:        "tldr",
		Usage:       "show tldr page",
		Hidden:      !pathHas("tldr"),
		HideDefault: true,
	}
}

func newHTMLFlag() *cli.BoolFlag {
	return &cli.BoolFlag{
		Name:        "html",
		Usage:       "render an HTML fragment instead of a table",
		HideDefault: true,
	}
}

// configSources chains the namespaced and the bare config key for a flag.
func configSources(ns, key string, envVars ...string) cli.ValueSourceChain {
	var sources []cli.ValueSource
	for _, e := range envVars {
		sources = append(sources, cli.EnvVar(e))
	}
	if ns != "" {
		sources = append(sources, yaml.YAML(ns+"."+key, altsrc.StringSourcer(cfg.Source)))
	}
	sources = append(sources, yaml.YAML(key, altsrc.StringSourcer(cfg.Source)))
	return cli.NewValueSourceChain(sources...)
}

func NewGlobalFlags(params ...string) (flags []cli.Flag) {
	ns := ""
	if len(params) > 0 {
		ns = params[0]
	}

	flags = []cli.Flag{
		&cli.StringFlag{
			Name:    "attrs",
			Aliases: []string{"a"},
			Usage:   "comma-separated list of attributes to include in results",
			Validator: func(value string) error {
				return FlagValidators(value, JammedFlagValidator)
			},
		},
		&cli.BoolWithInverseFlag{
			Name:    "color",
			Aliases: []string{"c"},
			Usage:   "enable colored text output",
			Sources: configSources(ns, "color"),
			Value:   output.ColorDefault(),
		},
		&cli.StringFlag{
			Name:    "filter",
			Aliases: []string{"f"},
			Usage:   "comma-separated list of filters to apply to results",
			Validator: func(value string) error {
				return FlagValidators(value, JammedFlagValidator)
			},
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "output format",
			Sources: configSources(ns, "output"),
			Value:   "text",
			Validator: func(value string) error {
				return FlagValidators(value, OutputValidator)
			},
		},
		&cli.StringFlag{
			Name:    "sort",
			Aliases: []string{"s"},
			Usage:   "comma-separated list of attributes to sort the results by",
			Sources: configSources(ns, "sort"),
			Validator: func(value string) error {
				return FlagValidators(value, JammedFlagValidator)
			},
		},
		&cli.BoolWithInverseFlag{
			Name:    "titles",
			Aliases: []string{"t"},
			Usage:   "show titles with text output",
			Sources: configSources(ns, "titles"),
			Value:   false,
		},
	}

	return
}

// NewServiceFlags are the flags that select the cache medium and the API
// the repo commands talk to.
func NewServiceFlags(ns string) []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "api-url",
			Usage:   "GitHub API base URL",
			Sources: configSources(ns, "api.url", "STARCTL_API_URL"),
			Value:   github.DefaultBaseURL,
		},
		&cli.StringFlag{
			Name:    "cache",
			Usage:   "cache medium: file, memory, redis or none",
			Sources: configSources(ns, "cache.medium", "STARCTL_CACHE_MEDIUM"),
			Value:   cache.KindFile,
			Validator: func(value string) error {
				return FlagValidators(value, CacheMediumValidator)
			},
		},
		&cli.StringFlag{
			Name:    "session",
			Usage:   "cache session; entries live until the session is cleared",
			Sources: configSources(ns, "cache.session", "STARCTL_SESSION"),
			Value:   cache.DefaultSession,
		},
		&cli.StringFlag{
			Name:    "redis-addr",
			Usage:   "redis address for --cache redis",
			Sources: configSources(ns, "cache.redis.addr", "STARCTL_REDIS_ADDR"),
		},
		&cli.IntFlag{
			Name:    "redis-db",
			Usage:   "redis database for --cache redis",
			Sources: configSources(ns, "cache.redis.db", "STARCTL_REDIS_DB"),
		},
		&cli.BoolFlag{
			Name:        "trace",
			Usage:       "print a trace of each request to stderr",
			Sources:     cli.NewValueSourceChain(cli.EnvVar("STARCTL_TRACE")),
			HideDefault: true,
		},
	}
}

// pathHas reports whether target is on PATH.
func pathHas(target string) bool {
	_, err := exec.LookPath(target)
	return err == nil
}

// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"github.com/apex/log"

	"github.com/staranto/starctl/internal/command"
	"github.com/staranto/starctl/internal/config"
	mylog "github.com/staranto/starctl/internal/log"
	"github.com/staranto/starctl/internal/version"
)

func main() {
	os.Exit(realMain(context.Background(), os.Args, os.Stdout, os.Stderr))
}

func realMain(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	mylog.InitLogger()

	if len(args) < 2 {
		fmt.Fprintln(stderr, "No command specified.")
		args = append(args, "--help")
	}

	// Short-circuit --version/-v.
	if slices.Contains(args[1:], "--version") || slices.Contains(args[1:], "-v") {
		fmt.Fprintln(stdout, version.String())
		return 0
	}

	args = expandArgSets(args)

	app, err := command.InitApp(ctx, args)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	app.Writer = stdout
	app.ErrWriter = stderr

	if err := app.Run(ctx, args); err != nil {
		fmt.Fprintln(stderr, err)
		return 2
	}

	return 0
}

// expandArgSets splices a named set of arguments from the config into args,
// right after the subcommand. "@name" picks <subcommand>.name; without one
// the "defaults" set is used if the config has it. Help requests are passed
// through untouched.
func expandArgSets(args []string) []string {
	if len(args) < 2 || strings.HasPrefix(args[1], "-") {
		return args
	}
	if slices.Contains(args, "--help") || slices.Contains(args, "-h") {
		return args
	}

	set := "defaults"
	rest := make([]string, 0, len(args)-2)
	for _, a := range args[2:] {
		if strings.HasPrefix(a, "@") && len(a) > 1 {
			set = a[1:]
			continue
		}
		rest = append(rest, a)
	}

	out := []string{args[0], args[1]}
	setArgs, _ := config.GetStringSlice(args[1] + "." + set)
	for _, arg := range setArgs {
		out = append(out, strings.Fields(arg)...)
	}
	out = append(out, rest...)

	log.Debugf("set=%s, args=%v", set, out)
	return out
}

// Copyright © 2025 Steve Taranto staranto@gmail.com
// SPDX-License-Identifier: MIT

package command

import (
	"context"
	"fmt"
	"reflect"
	"time"

	"github.com/apex/log"
	"github.com/jmgilman/go/errors"
	"github.com/urfave/cli/v3"

	"github.com/staranto/starctl/internal/meta"
	"github.com/staranto/starctl/internal/post"
)

// now is swapped out by tests.
var now = time.Now

func HqCommandAction(ctx context.Context, cmd *cli.Command) error {
	log.Debugf("Executing action for %v", cmd.Args().Slice())

	if ShortCircuitTLDR(ctx, cmd, "hq") {
		return nil
	}
	if DumpSchemaIfRequested(cmd, reflect.TypeOf(post.Header{})) {
		return nil
	}

	paths := cmd.Args().Slice()
	if len(paths) == 0 {
		return errors.New(errors.CodeInvalidInput, "at least one post is required")
	}

	headers := make([]post.Header, 0, len(paths))
	for _, path := range paths {
		h, err := post.LoadFile(path)
		if err != nil {
			return err
		}
		if err := h.Validate(); err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		headers = append(headers, h)
	}

	w := writer(cmd)
	switch {
	case cmd.Bool("html"):
		for _, h := range headers {
			if err := post.RenderHTML(w, h, now()); err != nil {
				return err
			}
		}
		return nil
	case cmd.String("output") == "text":
		theme := post.ThemeFromConfig(cmd.Bool("color"))
		for i, h := range headers {
			if i > 0 {
				fmt.Fprintln(w)
			}
			if err := post.Render(w, h, now(), theme); err != nil {
				return err
			}
		}
		return nil
	}

	attrs, err := BuildAttrs(cmd, "title", "date", "modified", "tags")
	if err != nil {
		return err
	}
	return EmitJSONSlice(headers, attrs, cmd)
}

func HqCommandBuilder(meta meta.Meta) *cli.Command {
	qcb := QueryCommandBuilder{
		Name:      "hq",
		Usage:     "post header query",
		UsageText: `starctl hq [options] post.md...`,
		Flags:     []cli.Flag{newHTMLFlag()},
		Action:    HqCommandAction,
		Meta:      meta,
	}
	return qcb.Build()
}

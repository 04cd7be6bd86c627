// Copyright © 2025 Steve Taranto staranto@gmail.com
// SPDX-License-Identifier: MIT

package command

import (
	"context"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/apex/log"
	"github.com/urfave/cli/v3"

	"github.com/staranto/starctl/internal/badge"
	"github.com/staranto/starctl/internal/github"
	"github.com/staranto/starctl/internal/meta"
)

// StarRow is one line of sq output.
type StarRow struct {
	Repo  string `json:"repo"`
	Stars *int   `json:"stars"`
	URL   string `json:"url"`
}

var nonIDChars = regexp.MustCompile(`[^A-Za-z0-9_-]+`)

// TargetID derives the element id of a repository's stars button.
func TargetID(prefix string, ref github.RepoRef) string {
	id := nonIDChars.ReplaceAllString(ref.User+"-"+ref.Repo, "-")
	return prefix + "-" + strings.Trim(id, "-")
}

func SqCommandAction(ctx context.Context, cmd *cli.Command) error {
	m := GetMeta(cmd)
	log.Debugf("Executing action for %v", cmd.Args().Slice())

	if ShortCircuitTLDR(ctx, cmd, "sq") {
		return nil
	}
	if DumpSchemaIfRequested(cmd, reflect.TypeOf(StarRow{})) {
		return nil
	}

	refs, err := ParseRefs(cmd.Args().Slice())
	if err != nil {
		return err
	}

	badges := make([]badge.Badge, 0, len(refs))
	for _, ref := range refs {
		b, err := badge.GithubStars(ctx, m.Client, ref, TargetID(cmd.String("target"), ref))
		if err != nil {
			return err
		}
		badges = append(badges, b)
	}

	if cmd.Bool("html") {
		w := writer(cmd)
		for _, b := range badges {
			if err := b.RenderHTML(w); err != nil {
				return fmt.Errorf("failed to render %s: %w", b.Ref, err)
			}
			fmt.Fprintln(w)
		}
		return nil
	}

	attrs, err := BuildAttrs(cmd, "repo", "stars")
	if err != nil {
		return err
	}

	rows := make([]StarRow, 0, len(badges))
	for _, b := range badges {
		row := StarRow{Repo: b.Ref.Key(), URL: b.Ref.HTMLURL()}
		if b.Known {
			stars := b.Stars
			row.Stars = &stars
		}
		rows = append(rows, row)
	}
	return EmitJSONSlice(rows, attrs, cmd)
}

func SqCommandBuilder(meta meta.Meta) *cli.Command {
	qcb := QueryCommandBuilder{
		Name:      "sq",
		Usage:     "star query",
		UsageText: `starctl sq [options] user/repo...`,
		Flags: []cli.Flag{
			newHTMLFlag(),
			&cli.StringFlag{
				Name:  "target",
				Usage: "element id prefix for --html buttons",
				Value: "github-stars",
			},
		},
		Services: true,
		Action:   SqCommandAction,
		Meta:     meta,
	}
	return qcb.Build()
}

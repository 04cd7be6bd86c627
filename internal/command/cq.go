// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"fmt"
	"reflect"

	"github.com/apex/log"
	"github.com/tidwall/gjson"
	"github.com/urfave/cli/v3"

	"github.com/staranto/starctl/internal/meta"
)

// CacheRow is one line of cq output.
type CacheRow struct {
	Key      string `json:"key"`
	Cached   bool   `json:"cached"`
	Stars    *int64 `json:"stars"`
	Location string `json:"location,omitempty"`
}

func CqCommandAction(ctx context.Context, cmd *cli.Command) error {
	m := GetMeta(cmd)
	log.Debugf("Executing action for %v", cmd.Args().Slice())

	if ShortCircuitTLDR(ctx, cmd, "cq") {
		return nil
	}
	if DumpSchemaIfRequested(cmd, reflect.TypeOf(CacheRow{})) {
		return nil
	}

	if cmd.Bool("clear") {
		if err := m.Store.Clear(ctx); err != nil {
			return err
		}
		fmt.Fprintf(writer(cmd), "cleared %s session %q\n", m.Store.Kind(), cmd.String("session"))
		return nil
	}

	refs, err := ParseRefs(cmd.Args().Slice())
	if err != nil {
		return err
	}

	attrs, err := BuildAttrs(cmd, "key", "cached", "stars", "location")
	if err != nil {
		return err
	}

	rows := make([]CacheRow, 0, len(refs))
	for _, ref := range refs {
		row := CacheRow{Key: ref.Key(), Location: m.Store.Locate(ref.Key())}
		if raw, ok := m.Store.Lookup(ctx, ref.Key()); ok {
			row.Cached = true
			if sc := gjson.GetBytes(raw, "stargazers_count"); sc.Type == gjson.Number {
				n := sc.Int()
				row.Stars = &n
			}
		}
		rows = append(rows, row)
	}
	return EmitJSONSlice(rows, attrs, cmd)
}

func CqCommandBuilder(meta meta.Meta) *cli.Command {
	qcb := QueryCommandBuilder{
		Name:      "cq",
		Usage:     "cache query",
		UsageText: `starctl cq [options] user/repo...` + "\n" + `starctl cq --clear [--session name]`,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "clear",
				Usage:       "remove every entry of the session",
				HideDefault: true,
			},
		},
		Services: true,
		Action:   CqCommandAction,
		Meta:     meta,
	}
	return qcb.Build()
}

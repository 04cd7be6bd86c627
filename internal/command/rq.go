// Copyright © 2025 Steve Taranto staranto@gmail.com
// SPDX-License-Identifier: MIT

package command

import (
	"context"
	"encoding/json"
	"fmt"
	"reflect"

	"github.com/apex/log"
	gh "github.com/google/go-github/v67/github"
	"github.com/urfave/cli/v3"

	"github.com/staranto/starctl/internal/meta"
	"github.com/staranto/starctl/internal/output"
)

var rqDefaultAttrs = []string{
	"full_name",
	"stargazers_count:stars",
	"language",
	"pushed_at",
}

func RqCommandAction(ctx context.Context, cmd *cli.Command) error {
	m := GetMeta(cmd)
	log.Debugf("Executing action for %v", cmd.Args().Slice())

	if ShortCircuitTLDR(ctx, cmd, "rq") {
		return nil
	}
	if DumpSchemaIfRequested(cmd, reflect.TypeOf(gh.Repository{})) {
		return nil
	}

	refs, err := ParseRefs(cmd.Args().Slice())
	if err != nil {
		return err
	}

	attrs, err := BuildAttrs(cmd, rqDefaultAttrs...)
	if err != nil {
		return err
	}
	log.Debugf("attrs: %v", attrs)

	docs := make([]json.RawMessage, 0, len(refs))
	for _, ref := range refs {
		record, err := m.Client.GetRepoData(ctx, ref)
		if err != nil {
			return fmt.Errorf("%s: %w", ref, err)
		}
		docs = append(docs, record.Raw())
	}

	// A single repository in raw output is the document as GitHub sent it.
	if len(docs) == 1 && cmd.String("output") == "raw" {
		return output.SliceDiceSpit(docs[0], attrs, cmd, writer(cmd))
	}
	return EmitJSONSlice(docs, attrs, cmd)
}

func RqCommandBuilder(meta meta.Meta) *cli.Command {
	qcb := QueryCommandBuilder{
		Name:      "rq",
		Usage:     "repository query",
		UsageText: `starctl rq [options] user/repo...`,
		Services:  true,
		Action:    RqCommandAction,
		Meta:      meta,
	}
	return qcb.Build()
}

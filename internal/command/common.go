// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/exec"
	"reflect"

	"github.com/apex/log"
	"github.com/jmgilman/go/errors"
	"github.com/urfave/cli/v3"

	"github.com/staranto/starctl/internal/attrs"
	"github.com/staranto/starctl/internal/cache"
	"github.com/staranto/starctl/internal/github"
	"github.com/staranto/starctl/internal/meta"
	"github.com/staranto/starctl/internal/output"
	"github.com/staranto/starctl/internal/telemetry"
	"github.com/staranto/starctl/internal/version"
)

// ShortCircuitTLDR checks the --tldr flag and, if present and available,
// runs `tldr starctl <subcmd>` and returns true so the caller can exit early.
func ShortCircuitTLDR(ctx context.Context, cmd *cli.Command, subcmd string) bool {
	if cmd.Bool("tldr") {
		if _, err := exec.LookPath("tldr"); err == nil {
			c := exec.CommandContext(ctx, "tldr", "starctl", subcmd)
			c.Stdout = os.Stdout
			c.Stderr = os.Stderr
			_ = c.Run()
		}
		return true
	}
	return false
}

// DumpSchemaIfRequested prints the attribute paths of t when --schema is
// set, and returns true if it handled the request.
func DumpSchemaIfRequested(cmd *cli.Command, t reflect.Type) bool {
	if cmd.Bool("schema") {
		output.DumpSchema(writer(cmd), t)
		return true
	}
	return false
}

// BuildAttrs constructs an AttrList with defaults and optional extras from
// --attrs, then applies the global transform spec.
func BuildAttrs(cmd *cli.Command, defaults ...string) (al attrs.AttrList, err error) {
	for _, d := range defaults {
		if err = al.Set(d); err != nil {
			return nil, err
		}
	}
	if extras := cmd.String("attrs"); extras != "" {
		if err = al.Set(extras); err != nil {
			return nil, fmt.Errorf("invalid --attrs: %w", err)
		}
	}
	err = al.SetGlobalTransformSpec()
	return
}

// EmitJSONSlice marshals results into a JSON array and passes it to the
// common output routine.
func EmitJSONSlice(results any, al attrs.AttrList, cmd *cli.Command) error {
	raw, err := json.Marshal(results)
	if err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}
	return output.SliceDiceSpit(raw, al, cmd, writer(cmd))
}

// GetMeta returns the meta.Meta stored in the command's Metadata. If missing
// or of an unexpected type, it returns the zero value.
func GetMeta(cmd *cli.Command) meta.Meta {
	if cmd == nil || cmd.Metadata == nil {
		return meta.Meta{}
	}
	if m, ok := cmd.Metadata["meta"].(meta.Meta); ok {
		return m
	}
	return meta.Meta{}
}

func setMeta(cmd *cli.Command, m meta.Meta) {
	if cmd.Metadata == nil {
		cmd.Metadata = map[string]any{}
	}
	cmd.Metadata["meta"] = m
}

// writer is where command output goes, stdout unless the app says
// otherwise.
func writer(cmd *cli.Command) io.Writer {
	if root := cmd.Root(); root != nil && root.Writer != nil {
		return root.Writer
	}
	return os.Stdout
}

func errWriter(cmd *cli.Command) io.Writer {
	if root := cmd.Root(); root != nil && root.ErrWriter != nil {
		return root.ErrWriter
	}
	return os.Stderr
}

// ParseRefs parses user/repo arguments. At least one is required.
func ParseRefs(args []string) ([]github.RepoRef, error) {
	if len(args) == 0 {
		return nil, errors.New(errors.CodeInvalidInput, "at least one user/repo is required")
	}
	refs := make([]github.RepoRef, 0, len(args))
	for _, a := range args {
		ref, err := github.ParseRepoRef(a)
		if err != nil {
			return nil, err
		}
		refs = append(refs, ref)
	}
	return refs, nil
}

// OpenServices builds the cache store, tracer and GitHub client from the
// command's flags and stores them in its meta.
func OpenServices(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	m := GetMeta(cmd)

	tp, shutdown, err := telemetry.Setup(cmd.Bool("trace"), errWriter(cmd))
	if err != nil {
		return ctx, err
	}

	store, err := cache.Open(cache.Options{
		Kind:    cmd.String("cache"),
		Session: cmd.String("session"),
		Redis: cache.RedisOptions{
			Addr: cmd.String("redis-addr"),
			DB:   int(cmd.Int("redis-db")),
		},
	})
	if err != nil {
		_ = shutdown(ctx)
		return ctx, fmt.Errorf("failed to open cache: %w", err)
	}
	log.WithField("medium", store.Kind()).Debug("cache opened")

	m.Store = store
	m.TracerProvider = tp
	m.Client = github.NewClient(store,
		github.WithBaseURL(cmd.String("api-url")),
		github.WithUserAgent("starctl/"+version.Version),
		github.WithTracerProvider(tp),
	)
	setMeta(cmd, m)

	if cmd.Metadata != nil {
		cmd.Metadata["shutdown"] = shutdown
	}
	return ctx, nil
}

// CloseServices releases what OpenServices acquired.
func CloseServices(ctx context.Context, cmd *cli.Command) error {
	m := GetMeta(cmd)
	if shutdown, ok := cmd.Metadata["shutdown"].(telemetry.Shutdown); ok {
		if err := shutdown(ctx); err != nil {
			log.WithError(err).Warn("failed to flush traces")
		}
	}
	if m.Store != nil {
		return m.Store.Close()
	}
	return nil
}

// QueryCommandBuilder constructs a cli.Command for the query subcommands
// using a consistent pattern. It wires metadata, adds tldr/schema flags and
// the global flags and, when Services is set, opens the cache and client
// before the action runs.
type QueryCommandBuilder struct {
	Name      string
	Usage     string
	UsageText string
	Flags     []cli.Flag
	Services  bool
	Action    func(context.Context, *cli.Command) error
	Meta      meta.Meta
}

// Build returns a configured cli.Command from the builder.
func (qcb *QueryCommandBuilder) Build() *cli.Command {
	flags := append(qcb.Flags, newTldrFlag(), newSchemaFlag())
	flags = append(flags, NewGlobalFlags(qcb.Name)...)
	if qcb.Services {
		flags = append(flags, NewServiceFlags(qcb.Name)...)
	}

	cmd := &cli.Command{
		Name:      qcb.Name,
		Usage:     qcb.Usage,
		UsageText: qcb.UsageText,
		Metadata: map[string]any{
			"meta": qcb.Meta,
		},
		Flags:  flags,
		Action: qcb.Action,
	}
	if qcb.Services {
		cmd.Before = OpenServices
		cmd.After = CloseServices
	}
	return cmd
}

// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

// docgen turns docs/commands/<cmd>.md into a man page under
// docs/man/share/man1 and a tldr page under docs/tldr.
package main

import (
	"bytes"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	md2man "github.com/cpuguy83/go-md2man/v2/md2man"
)

const project = "https://github.com/staranto/starctl"

func main() {
	root := flag.String("root", ".", "repo root")
	onlyIfChanged := flag.Bool("only-if-changed", true, "only write files whose content changed")
	flag.Parse()

	if err := run(*root, *onlyIfChanged); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(root string, onlyIfChanged bool) error {
	commandsDir := filepath.Join(root, "docs", "commands")
	manDir := filepath.Join(root, "docs", "man", "share", "man1")
	tldrDir := filepath.Join(root, "docs", "tldr")

	for _, d := range []string{manDir, tldrDir} {
		if err := os.MkdirAll(d, 0o755); err != nil {
			return fmt.Errorf("creating %s: %w", d, err)
		}
	}

	paths, err := filepath.Glob(filepath.Join(commandsDir, "*.md"))
	if err != nil {
		return err
	}
	if len(paths) == 0 {
		return fmt.Errorf("no command markdown found under %s", commandsDir)
	}

	for _, p := range paths {
		cmd := strings.TrimSuffix(filepath.Base(p), ".md")
		raw, err := os.ReadFile(p)
		if err != nil {
			return err
		}

		page := parsePage(string(raw))
		outputs := map[string][]byte{
			filepath.Join(manDir, "starctl-"+cmd+".1"): md2man.Render(raw),
			filepath.Join(tldrDir, "starctl-"+cmd+".md"): []byte(page.tldr(cmd)),
		}
		for path, body := range outputs {
			if err := write(path, body, onlyIfChanged); err != nil {
				return fmt.Errorf("writing %s: %w", path, err)
			}
		}
	}
	return nil
}

func write(path string, body []byte, onlyIfChanged bool) error {
	if onlyIfChanged {
		old, err := os.ReadFile(path)
		switch {
		case err == nil && bytes.Equal(bytes.TrimSpace(old), bytes.TrimSpace(body)):
			return nil
		case err != nil && !errors.Is(err, fs.ErrNotExist):
			return err
		}
	}
	return os.WriteFile(path, body, 0o644)
}

type example struct {
	desc, cmd string
}

// page is what a tldr entry needs from a command doc.
type page struct {
	title    string
	short    string
	examples []example
}

// parsePage reads the H1 title, the first paragraph of the "Short
// description" section and the first code block of "Quick examples".
// Inside that block a "# ..." line describes the command lines after it.
func parsePage(md string) page {
	var (
		p       page
		section string
		inFence bool
		done    bool
		desc    string
	)
	for _, ln := range strings.Split(md, "\n") {
		s := strings.TrimSpace(ln)

		if strings.HasPrefix(s, "```") {
			if inFence {
				done = done || section == "quick examples"
			}
			inFence = !inFence
			continue
		}

		if inFence {
			if section != "quick examples" || done || s == "" {
				continue
			}
			if strings.HasPrefix(s, "#") {
				desc = strings.TrimSpace(strings.TrimLeft(s, "#"))
				continue
			}
			if desc == "" {
				desc = "Example"
			}
			p.examples = append(p.examples, example{desc, strings.Join(strings.Fields(s), " ")})
			continue
		}

		switch {
		case strings.HasPrefix(s, "# ") && p.title == "":
			p.title = strings.TrimSpace(s[2:])
		case strings.HasPrefix(s, "#"):
			section = strings.ToLower(strings.TrimSpace(strings.TrimLeft(s, "#")))
		case section == "short description" && s != "":
			p.short = strings.TrimSpace(p.short + " " + s)
		case section == "short description" && p.short != "":
			section = ""
		}
	}
	return p
}

func (p page) tldr(cmd string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# starctl-%s\n\n", cmd)

	summary := p.short
	if summary == "" {
		summary = p.title
	}
	if summary == "" {
		summary = "starctl " + cmd
	}
	fmt.Fprintf(&b, "> %s\n> More information: %s.\n\n", summary, project)

	exs := p.examples
	if len(exs) == 0 {
		exs = []example{{"Show help for the command", "starctl " + cmd + " --help"}}
	}
	for i, ex := range exs {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "- %s:\n\n`%s`\n", ex.desc, ex.cmd)
	}
	return b.String()
}

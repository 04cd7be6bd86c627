// Copyright © 2025 Steve Taranto staranto@gmail.com
// SPDX-License-Identifier: MIT

package command

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/staranto/starctl/internal/meta"
)

const bashCompletionScript = `# bash completion for starctl
# Fallback if bash-completion is not installed
if ! declare -F _get_comp_words_by_ref >/dev/null 2>&1; then
  _get_comp_words_by_ref() {
    cur=${COMP_WORDS[COMP_CWORD]}
    prev=${COMP_WORDS[COMP_CWORD-1]}
  }
fi

_starctl()
{
    local cur prev cmd
    COMPREPLY=()
    _get_comp_words_by_ref -n : cur prev

    if [[ ${COMP_CWORD} -eq 1 ]]; then
        COMPREPLY=( $(compgen -W "rq sq hq cq completion --help --version" -- "$cur") )
        return 0
    fi

    cmd=${COMP_WORDS[1]}
    local common="--attrs -a --color -c --filter -f --output -o --sort -s --titles -t --tldr --schema"
    local services="--api-url --cache --session --redis-addr --redis-db --trace"

    case "$cmd" in
        rq)
            local opts="$common $services"
            ;;
        sq)
            local opts="$common $services --html --target"
            ;;
        cq)
            local opts="$common $services --clear"
            ;;
        hq)
            local opts="$common --html"
            ;;
        completion)
            COMPREPLY=( $(compgen -W "bash zsh" -- "$cur") )
            return 0
            ;;
        *)
            local opts="$common"
            ;;
    esac

    case "$prev" in
        --output|-o)
            COMPREPLY=( $(compgen -W "text json raw yaml" -- "$cur") )
            return 0
            ;;
        --cache)
            COMPREPLY=( $(compgen -W "file memory redis none" -- "$cur") )
            return 0
            ;;
    esac

    if [[ "$cur" == -* ]]; then
        COMPREPLY=( $(compgen -W "$opts" -- "$cur") )
        return 0
    fi

    # hq takes post files, the repo commands take user/repo.
    if [[ "$cmd" == "hq" ]]; then
        COMPREPLY=( $(compgen -f -- "$cur") )
    fi
    return 0
}

complete -F _starctl starctl
`

const zshCompletionScript = `#compdef starctl

_starctl() {
  local -a cmds
  cmds=(
    'rq:repository query'
    'sq:star query'
    'hq:post header query'
    'cq:cache query'
    'completion:generate shell completion script'
  )

  local -a common
  common=(
    '(-a --attrs)'{-a,--attrs}'[attributes to include]:attrs'
    '(-c --color)'{-c,--color}'[enable colored text]'
    '(-f --filter)'{-f,--filter}'[filters to apply]:filters'
    '(-o --output)'{-o,--output}'[output format]:format:(text json raw yaml)'
    '(-s --sort)'{-s,--sort}'[sort attributes]:attrs'
    '(-t --titles)'{-t,--titles}'[show titles]'
    '--schema[dump attributes]'
    '--tldr[show tldr page]'
  )

  local -a services
  services=(
    '--api-url[GitHub API base URL]:url'
    '--cache[cache medium]:medium:(file memory redis none)'
    '--session[cache session]:session'
    '--redis-addr[redis address]:addr'
    '--redis-db[redis database]:db'
    '--trace[trace requests]'
  )

  if (( CURRENT == 2 )); then
    _describe -t commands 'starctl commands' cmds
    return
  fi

  case $words[2] in
    rq)
      _arguments -C $common $services '*:user/repo'
      ;;
    sq)
      _arguments -C $common $services \
        '--html[render HTML buttons]' \
        '--target[element id prefix]:prefix' \
        '*:user/repo'
      ;;
    cq)
      _arguments -C $common $services \
        '--clear[clear the session]' \
        '*:user/repo'
      ;;
    hq)
      _arguments -C $common \
        '--html[render HTML]' \
        '*:post:_files'
      ;;
    completion)
      _arguments '1: :((bash zsh))'
      ;;
    *)
      _arguments -C $common
      ;;
  esac
}

# If this file is sourced directly (not autoloaded via fpath), ensure compsys is initialized and register the completion
if ! typeset -f compdef >/dev/null 2>&1; then
  autoload -Uz compinit && compinit -i
fi
compdef _starctl starctl
`

func CompletionCommandAction(ctx context.Context, cmd *cli.Command) error {
	shell := ""
	if args := cmd.Args().Slice(); len(args) > 0 {
		shell = args[0]
	}
	if shell == "" {
		sh := os.Getenv("SHELL")
		switch {
		case strings.HasSuffix(sh, "zsh"):
			shell = "zsh"
		case strings.HasSuffix(sh, "bash"):
			shell = "bash"
		}
	}

	w := writer(cmd)
	switch shell {
	case "bash":
		fmt.Fprint(w, bashCompletionScript)
	case "zsh":
		fmt.Fprint(w, zshCompletionScript)
	default:
		fmt.Fprintln(errWriter(cmd), "usage: starctl completion [bash|zsh]")
	}
	return nil
}

func CompletionCommandBuilder(meta meta.Meta) *cli.Command {
	return &cli.Command{
		Name:      "completion",
		Usage:     "generate shell completion script",
		UsageText: "starctl completion [bash|zsh]",
		Metadata: map[string]any{
			"meta": meta,
		},
		Action: CompletionCommandAction,
	}
}

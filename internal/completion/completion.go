// Package completion builds the static shell completion scripts emitted
// by --generate-completion.
package completion

import (
	"fmt"
	"strings"

	"github.com/mcncl/dsconv/internal/format"
)

// Shells lists the supported shells.
func Shells() []string {
	return []string{"bash", "zsh", "fish"}
}

// Script returns the completion script for the named shell. The second
// return value reports whether the shell is supported.
func Script(shell string) (string, bool) {
	in := names(format.Inputs())
	out := names(format.Outputs())
	switch shell {
	case "bash":
		return fmt.Sprintf(bashTemplate, in, out), true
	case "zsh":
		return fmt.Sprintf(zshTemplate, in, out), true
	case "fish":
		return fmt.Sprintf(fishTemplate, in, out), true
	}
	return "", false
}

func names(formats []format.Format) string {
	parts := make([]string, 0, len(formats))
	for _, f := range formats {
		parts = append(parts, f.Name())
	}
	return strings.Join(parts, " ")
}

const bashTemplate = `_dsconv() {
    local cur prev
    COMPREPLY=()
    cur="${COMP_WORDS[COMP_CWORD]}"
    prev="${COMP_WORDS[COMP_CWORD-1]}"
    case "${prev}" in
        -f|--from)
            COMPREPLY=( $(compgen -W "%[1]s" -- "${cur}") )
            return 0 ;;
        -t|--to)
            COMPREPLY=( $(compgen -W "%[2]s" -- "${cur}") )
            return 0 ;;
        --color)
            COMPREPLY=( $(compgen -W "auto always never" -- "${cur}") )
            return 0 ;;
        --generate-completion)
            COMPREPLY=( $(compgen -W "bash zsh fish" -- "${cur}") )
            return 0 ;;
        -o|--output)
            COMPREPLY=( $(compgen -f -- "${cur}") )
            return 0 ;;
    esac
    if [[ ${cur} == -* ]]; then
        COMPREPLY=( $(compgen -W "-f --from -t --to -o --output -p --pretty --color --list-input-formats --list-output-formats --generate-completion -h --help -V --version" -- "${cur}") )
        return 0
    fi
    COMPREPLY=( $(compgen -f -- "${cur}") )
}
complete -o filenames -F _dsconv dsconv
`

const zshTemplate = `#compdef dsconv

_dsconv() {
    _arguments -s \
        '(-f --from)'{-f,--from}'[input format]:format:(%[1]s)' \
        '(-t --to)'{-t,--to}'[output format]:format:(%[2]s)' \
        '(-o --output)'{-o,--output}'[output file]:file:_files' \
        '(-p --pretty)'{-p,--pretty}'[pretty-print the output]' \
        '--color[when to colorize output]:when:(auto always never)' \
        '--list-input-formats[list supported input formats]' \
        '--list-output-formats[list supported output formats]' \
        '--generate-completion[emit a completion script]:shell:(bash zsh fish)' \
        '(-h --help)'{-h,--help}'[show help]' \
        '(-V --version)'{-V,--version}'[show version]' \
        '*:input file:_files'
}

_dsconv "$@"
`

const fishTemplate = `complete -c dsconv -s f -l from -x -a "%[1]s" -d "Input format"
complete -c dsconv -s t -l to -x -a "%[2]s" -d "Output format"
complete -c dsconv -s o -l output -r -d "Output file"
complete -c dsconv -s p -l pretty -d "Pretty-print the output"
complete -c dsconv -l color -x -a "auto always never" -d "When to colorize output"
complete -c dsconv -l list-input-formats -d "List supported input formats"
complete -c dsconv -l list-output-formats -d "List supported output formats"
complete -c dsconv -l generate-completion -x -a "bash zsh fish" -d "Emit a completion script"
complete -c dsconv -s h -l help -d "Show help"
complete -c dsconv -s V -l version -d "Show version"
`

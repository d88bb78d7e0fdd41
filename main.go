package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/mcncl/dsconv/internal/completion"
	"github.com/mcncl/dsconv/internal/config"
	"github.com/mcncl/dsconv/internal/decoder"
	"github.com/mcncl/dsconv/internal/encoder"
	"github.com/mcncl/dsconv/internal/errors"
	"github.com/mcncl/dsconv/internal/format"
	"github.com/mcncl/dsconv/internal/highlight"
)

// CLI defines the command-line interface
var CLI struct {
	Input              string `arg:"" optional:"" help:"Path to the input file. If not specified, reads from stdin." type:"path"`
	From               string `help:"Input format, one of: ${input_formats}." short:"f" placeholder:"FORMAT"`
	To                 string `help:"Output format, one of: ${output_formats}." short:"t" placeholder:"FORMAT"`
	Output             string `help:"Write output to FILE instead of stdout." short:"o" placeholder:"FILE" type:"path"`
	Pretty             bool   `help:"Pretty-print the output where the target format supports it." short:"p" default:"${pretty_default}"`
	Color              string `help:"When to colorize output written to stdout." enum:"auto,always,never" default:"auto"`
	ListInputFormats   bool   `help:"List supported input formats and exit."`
	ListOutputFormats  bool   `help:"List supported output formats and exit."`
	GenerateCompletion string `help:"Emit a completion script for SHELL (bash, zsh or fish) and exit." placeholder:"SHELL"`
	Version            bool   `help:"Show version information." short:"V"`
}

// Version information
const (
	Version = "0.3.0"
)

func main() {
	cfg, cfgErr := config.Load(config.Path())

	prettyDefault := "false"
	if cfg.Pretty != nil && *cfg.Pretty {
		prettyDefault = "true"
	}

	// Parse CLI arguments with Kong
	parser := kong.Must(&CLI,
		kong.Name("dsconv"),
		kong.Description("A tool to convert a document between structured data-serialization formats"),
		kong.UsageOnError(),
		kong.Vars{
			"pretty_default": prettyDefault,
			"input_formats":  formatNames(format.Inputs()),
			"output_formats": formatNames(format.Outputs()),
		},
	)

	// Parse the command line arguments
	_, err := parser.Parse(os.Args[1:])
	if err != nil {
		// The usage will already be shown by kong.UsageOnError()
		os.Exit(1)
	}

	// A broken config file is reported even when the flags parsed fine,
	// since it silently changes defaults otherwise.
	if cfgErr != nil {
		fmt.Fprintf(os.Stderr, "%s\n", errors.UserFriendlyError(cfgErr))
		os.Exit(1)
	}

	// Show version and exit if requested
	if CLI.Version {
		fmt.Printf("dsconv version %s\n", Version)
		return
	}

	if CLI.GenerateCompletion != "" {
		if err := generateCompletion(CLI.GenerateCompletion); err != nil {
			fmt.Fprintf(os.Stderr, "%s\n", errors.UserFriendlyError(err))
			os.Exit(1)
		}
		return
	}

	// The list flags bypass conversion entirely.
	if CLI.ListInputFormats {
		for _, f := range format.Inputs() {
			fmt.Println(f)
		}
		return
	}
	if CLI.ListOutputFormats {
		for _, f := range format.Outputs() {
			fmt.Println(f)
		}
		return
	}

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", errors.UserFriendlyError(err))
		os.Exit(1)
	}
}

// run executes the conversion pipeline: infer formats, decode, encode,
// write. The output is built fully in memory before anything is written,
// so a late failure never leaves a partial file behind.
func run() error {
	data, err := readInput()
	if err != nil {
		return err
	}

	in, err := format.InferInput(CLI.From, CLI.Input)
	if err != nil {
		return err
	}

	doc, err := decoder.Decode(data, in)
	if err != nil {
		return err
	}

	out, err := format.InferOutput(CLI.To, CLI.Output)
	if err != nil {
		return err
	}

	encoded, err := encoder.Encode(doc, out, CLI.Pretty)
	if err != nil {
		return err
	}

	return writeOutput(encoded, out)
}

// readInput reads the whole input from file or stdin
func readInput() ([]byte, error) {
	if CLI.Input != "" {
		data, err := os.ReadFile(CLI.Input)
		if err != nil {
			return nil, errors.NewIOError(fmt.Sprintf("failed to read %s", CLI.Input), err)
		}
		return data, nil
	}

	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return nil, errors.NewIOError("failed to read from stdin", err)
	}
	return data, nil
}

// writeOutput writes the encoded document to file or stdout
func writeOutput(data []byte, f format.Format) error {
	if CLI.Output != "" {
		if err := os.WriteFile(CLI.Output, data, 0644); err != nil {
			return errors.NewIOError(fmt.Sprintf("failed to write to %s", CLI.Output), err)
		}
		return nil
	}

	if highlight.Enabled(CLI.Color, os.Stdout) {
		if f.Binary() {
			if CLI.Color == "always" {
				return fmt.Errorf("%s output cannot be colorized", f)
			}
			// auto: fall through to plain bytes
		} else if err := highlight.Print(os.Stdout, data, f.Name()); err == nil {
			return nil
		}
		// a highlighting failure degrades to plain output
	}

	if _, err := os.Stdout.Write(data); err != nil {
		return errors.NewIOError("failed to write to stdout", err)
	}
	return nil
}

func generateCompletion(shell string) error {
	script, ok := completion.Script(shell)
	if !ok {
		return fmt.Errorf("unsupported shell %q (expected one of: %s)", shell, strings.Join(completion.Shells(), ", "))
	}

	if CLI.Output != "" {
		if err := os.WriteFile(CLI.Output, []byte(script), 0644); err != nil {
			return errors.NewIOError(fmt.Sprintf("failed to write to %s", CLI.Output), err)
		}
		return nil
	}
	_, err := io.WriteString(os.Stdout, script)
	if err != nil {
		return errors.NewIOError("failed to write to stdout", err)
	}
	return nil
}

func formatNames(formats []format.Format) string {
	names := make([]string, 0, len(formats))
	for _, f := range formats {
		names = append(names, f.Name())
	}
	return strings.Join(names, ", ")
}

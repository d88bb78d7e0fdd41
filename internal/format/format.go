// Package format enumerates the serialization formats dsconv understands,
// maps names and file extensions to them, and decides which format applies
// to a conversion.
package format

import (
	"path/filepath"
	"strings"

	"github.com/mcncl/dsconv/internal/errors"
)

// Format identifies one supported serialization format.
type Format int

const (
	CBOR Format = iota
	Hjson
	JSON
	JSON5
	JSONC
	MessagePack
	TOML
	YAML
)

// spec describes one registry entry. The first name and the first
// extension are the canonical ones; the rest are aliases.
type spec struct {
	display    string
	names      []string
	extensions []string
	input      bool
	output     bool
	binary     bool
}

var registry = [...]spec{
	CBOR:        {display: "CBOR", names: []string{"cbor"}, extensions: []string{"cbor"}, input: true, output: true, binary: true},
	Hjson:       {display: "Hjson", names: []string{"hjson"}, extensions: []string{"hjson"}, input: true},
	JSON:        {display: "JSON", names: []string{"json"}, extensions: []string{"json"}, input: true, output: true},
	JSON5:       {display: "JSON5", names: []string{"json5"}, extensions: []string{"json5"}, input: true},
	JSONC:       {display: "JSONC", names: []string{"jsonc"}, extensions: []string{"jsonc"}, input: true},
	MessagePack: {display: "MessagePack", names: []string{"msgpack", "messagepack"}, extensions: []string{"msgpack", "mpk"}, input: true, output: true, binary: true},
	TOML:        {display: "TOML", names: []string{"toml"}, extensions: []string{"toml"}, input: true, output: true},
	YAML:        {display: "YAML", names: []string{"yaml", "yml"}, extensions: []string{"yaml", "yml"}, input: true, output: true},
}

// String returns the canonical display name of the format.
func (f Format) String() string {
	return registry[f].display
}

// Name returns the lowercase identifier used on the command line.
func (f Format) Name() string {
	return registry[f].names[0]
}

// Binary reports whether the format is a binary encoding rather than text.
func (f Format) Binary() bool {
	return registry[f].binary
}

// Inputs returns every format that can be decoded, in registry order.
func Inputs() []Format {
	return capableOf(func(s spec) bool { return s.input })
}

// Outputs returns every format that can be encoded, in registry order.
func Outputs() []Format {
	return capableOf(func(s spec) bool { return s.output })
}

func capableOf(pred func(spec) bool) []Format {
	var out []Format
	for f := range registry {
		if pred(registry[f]) {
			out = append(out, Format(f))
		}
	}
	return out
}

// ForName looks up a format by its case-insensitive command-line name or
// alias. The second return value reports whether a match was found.
func ForName(name string) (Format, bool) {
	name = strings.ToLower(name)
	for f := range registry {
		for _, n := range registry[f].names {
			if n == name {
				return Format(f), true
			}
		}
	}
	return 0, false
}

// ForExtension looks up a format by a filename extension, without the
// leading dot and case-insensitively.
func ForExtension(ext string) (Format, bool) {
	ext = strings.ToLower(ext)
	for f := range registry {
		for _, e := range registry[f].extensions {
			if e == ext {
				return Format(f), true
			}
		}
	}
	return 0, false
}

// InferInput resolves the input format from an explicit flag value and an
// input file path. An empty path means stdin.
func InferInput(explicit, path string) (Format, error) {
	return infer(explicit, path, "input", func(f Format) bool { return registry[f].input })
}

// InferOutput resolves the output format from an explicit flag value and
// an output file path. An empty path means stdout.
func InferOutput(explicit, path string) (Format, error) {
	return infer(explicit, path, "output", func(f Format) bool { return registry[f].output })
}

// infer applies the resolution order: an explicit flag always wins, then
// the path's extension, then failure. Flag and extension are never merged.
func infer(explicit, path, direction string, capable func(Format) bool) (Format, error) {
	if explicit != "" {
		f, ok := ForName(explicit)
		if !ok || !capable(f) {
			return 0, errors.NewUnknownFormat(explicit, direction)
		}
		return f, nil
	}
	if path != "" {
		ext := strings.TrimPrefix(filepath.Ext(path), ".")
		if f, ok := ForExtension(ext); ok && capable(f) {
			return f, nil
		}
	}
	return 0, errors.NewAmbiguousFormat(direction)
}

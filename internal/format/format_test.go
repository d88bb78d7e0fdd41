package format

import (
	"testing"

	apperrors "github.com/mcncl/dsconv/internal/errors"
)

func TestForName(t *testing.T) {
	cases := []struct {
		name string
		want Format
		ok   bool
	}{
		{"json", JSON, true},
		{"JSON", JSON, true},
		{"Yaml", YAML, true},
		{"yml", YAML, true},
		{"msgpack", MessagePack, true},
		{"MessagePack", MessagePack, true},
		{"toml", TOML, true},
		{"cbor", CBOR, true},
		{"hjson", Hjson, true},
		{"json5", JSON5, true},
		{"jsonc", JSONC, true},
		{"ron", 0, false},
		{"", 0, false},
	}
	for _, c := range cases {
		got, ok := ForName(c.name)
		if ok != c.ok {
			t.Errorf("ForName(%q) ok = %v, want %v", c.name, ok, c.ok)
			continue
		}
		if ok && got != c.want {
			t.Errorf("ForName(%q) = %v, want %v", c.name, got, c.want)
		}
	}
}

func TestForExtension(t *testing.T) {
	cases := []struct {
		ext  string
		want Format
		ok   bool
	}{
		{"json", JSON, true},
		{"yml", YAML, true},
		{"YAML", YAML, true},
		{"mpk", MessagePack, true},
		{"msgpack", MessagePack, true},
		{"toml", TOML, true},
		{"txt", 0, false},
	}
	for _, c := range cases {
		got, ok := ForExtension(c.ext)
		if ok != c.ok {
			t.Errorf("ForExtension(%q) ok = %v, want %v", c.ext, ok, c.ok)
			continue
		}
		if ok && got != c.want {
			t.Errorf("ForExtension(%q) = %v, want %v", c.ext, got, c.want)
		}
	}
}

func TestCapabilitySets(t *testing.T) {
	if got := len(Inputs()); got != 8 {
		t.Errorf("len(Inputs()) = %d, want 8", got)
	}
	if got := len(Outputs()); got != 5 {
		t.Errorf("len(Outputs()) = %d, want 5", got)
	}

	outputs := make(map[Format]bool)
	for _, f := range Outputs() {
		outputs[f] = true
	}
	for _, f := range []Format{CBOR, JSON, MessagePack, TOML, YAML} {
		if !outputs[f] {
			t.Errorf("Outputs() is missing %v", f)
		}
	}
	for _, f := range []Format{Hjson, JSON5, JSONC} {
		if outputs[f] {
			t.Errorf("Outputs() should not contain %v", f)
		}
	}
}

func TestEveryFormatHasAnExtension(t *testing.T) {
	for f := range registry {
		if len(registry[f].extensions) == 0 {
			t.Errorf("%v has no extensions", Format(f))
		}
	}
}

func TestBinary(t *testing.T) {
	if !CBOR.Binary() || !MessagePack.Binary() {
		t.Error("CBOR and MessagePack should be binary formats")
	}
	if JSON.Binary() || YAML.Binary() || TOML.Binary() {
		t.Error("text formats reported as binary")
	}
}

func TestInferInput_ExtensionOnly(t *testing.T) {
	got, err := InferInput("", "data/sample.json")
	if err != nil {
		t.Fatalf("InferInput() error = %v, want nil", err)
	}
	if got != JSON {
		t.Errorf("InferInput() = %v, want JSON", got)
	}
}

func TestInferInput_ExplicitWinsOverExtension(t *testing.T) {
	got, err := InferInput("yaml", "data/sample.json")
	if err != nil {
		t.Fatalf("InferInput() error = %v, want nil", err)
	}
	if got != YAML {
		t.Errorf("InferInput() = %v, want YAML", got)
	}
}

func TestInferInput_UnknownExplicit(t *testing.T) {
	_, err := InferInput("ron", "data/sample.json")
	if err == nil {
		t.Fatal("InferInput() error = nil, want UnknownFormat")
	}
	assertKind(t, err, apperrors.KindUnknownFormat)
}

func TestInferInput_StdinWithoutFlag(t *testing.T) {
	_, err := InferInput("", "")
	if err == nil {
		t.Fatal("InferInput() error = nil, want AmbiguousFormat")
	}
	assertKind(t, err, apperrors.KindAmbiguousFormat)
}

func TestInferInput_UnknownExtension(t *testing.T) {
	_, err := InferInput("", "notes.txt")
	if err == nil {
		t.Fatal("InferInput() error = nil, want AmbiguousFormat")
	}
	assertKind(t, err, apperrors.KindAmbiguousFormat)
}

func TestInferOutput_InputOnlyFormatRejected(t *testing.T) {
	_, err := InferOutput("hjson", "")
	if err == nil {
		t.Fatal("InferOutput() error = nil, want UnknownFormat")
	}
	assertKind(t, err, apperrors.KindUnknownFormat)
}

func TestInferOutput_StdoutWithoutFlag(t *testing.T) {
	_, err := InferOutput("", "")
	if err == nil {
		t.Fatal("InferOutput() error = nil, want AmbiguousFormat")
	}
	assertKind(t, err, apperrors.KindAmbiguousFormat)
}

func TestInferOutput_FromOutputPath(t *testing.T) {
	got, err := InferOutput("", "out/result.toml")
	if err != nil {
		t.Fatalf("InferOutput() error = %v, want nil", err)
	}
	if got != TOML {
		t.Errorf("InferOutput() = %v, want TOML", got)
	}
}

// An input-only extension on the output path cannot decide the output
// format; the fallthrough is AmbiguousFormat, not a wrong pick.
func TestInferOutput_InputOnlyExtensionIgnored(t *testing.T) {
	_, err := InferOutput("", "out/result.hjson")
	if err == nil {
		t.Fatal("InferOutput() error = nil, want AmbiguousFormat")
	}
	assertKind(t, err, apperrors.KindAmbiguousFormat)
}

func assertKind(t *testing.T, err error, kind apperrors.Kind) {
	t.Helper()
	appErr, ok := err.(*apperrors.AppError)
	if !ok {
		t.Fatalf("error is %T, want *AppError", err)
	}
	if appErr.Kind != kind {
		t.Errorf("error kind = %q, want %q", appErr.Kind, kind)
	}
}

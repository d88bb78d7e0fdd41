package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
	"testing"
)

func TestAppError_Error(t *testing.T) {
	err := NewDecodeError("JSON", "trailing data after first value", nil)
	if got := err.Error(); !strings.Contains(got, "trailing data") {
		t.Errorf("Error() = %q, missing message", got)
	}

	wrapped := NewIOError("failed to read input", fmt.Errorf("permission denied"))
	if got := wrapped.Error(); !strings.Contains(got, "permission denied") {
		t.Errorf("Error() = %q, missing cause", got)
	}
}

func TestAppError_Unwrap(t *testing.T) {
	cause := fmt.Errorf("boom")
	err := NewEncodeError("TOML", "failed to render TOML", cause)
	if !stderrors.Is(err, cause) {
		t.Error("errors.Is should find the wrapped cause")
	}
}

func TestAppError_IsByKind(t *testing.T) {
	err := NewAmbiguousFormat("input")
	if !stderrors.Is(err, &AppError{Kind: KindAmbiguousFormat}) {
		t.Error("errors.Is should match on kind")
	}
	if stderrors.Is(err, &AppError{Kind: KindDecode}) {
		t.Error("errors.Is should not match a different kind")
	}
}

func TestUserFriendlyError(t *testing.T) {
	cases := []struct {
		err  error
		want string
	}{
		{NewAmbiguousFormat("input"), "cannot determine input format"},
		{NewUnknownFormat("ron", "input"), `"ron" is not a supported input format`},
		{NewDecodeError("YAML", "invalid YAML input", nil), "Decode error (YAML)"},
		{NewEncodeError("TOML", "TOML requires a table at the document root, got array", nil), "Encode error (TOML)"},
		{NewIOError("failed to write to stdout", nil), "I/O error"},
		{NewConfigError("failed to parse config file", nil), "Config error"},
		{fmt.Errorf("plain"), "Error: plain"},
	}
	for _, c := range cases {
		if got := UserFriendlyError(c.err); !strings.Contains(got, c.want) {
			t.Errorf("UserFriendlyError(%v) = %q, want it to contain %q", c.err, got, c.want)
		}
	}
}

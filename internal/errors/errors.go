package errors

import (
	"errors"
	"fmt"
)

// Kind categorizes errors
type Kind string

const (
	KindAmbiguousFormat Kind = "ambiguous format"
	KindUnknownFormat   Kind = "unknown format"
	KindDecode          Kind = "decode"
	KindEncode          Kind = "encode"
	KindIO              Kind = "io"
	KindConfig          Kind = "config"
)

// AppError is an application-specific error with context
type AppError struct {
	Kind    Kind
	Format  string // format or direction the error relates to, if known
	Message string
	Err     error
}

// Error implements error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap returns wrapped error
func (e *AppError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is for comparison
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

// NewAmbiguousFormat creates an error for when no format could be
// determined for the given direction ("input" or "output").
func NewAmbiguousFormat(direction string) *AppError {
	return &AppError{
		Kind:    KindAmbiguousFormat,
		Format:  direction,
		Message: fmt.Sprintf("cannot determine %s format: specify it explicitly", direction),
	}
}

// NewUnknownFormat creates an error for an explicit format name with no
// registry entry for the given direction.
func NewUnknownFormat(name, direction string) *AppError {
	return &AppError{
		Kind:    KindUnknownFormat,
		Format:  direction,
		Message: fmt.Sprintf("%q is not a supported %s format", name, direction),
	}
}

// NewDecodeError creates a new error for input that is not valid for the
// declared format.
func NewDecodeError(format, message string, err error) *AppError {
	return &AppError{
		Kind:    KindDecode,
		Format:  format,
		Message: message,
		Err:     err,
	}
}

// NewEncodeError creates a new error for a value the target format
// cannot represent.
func NewEncodeError(format, message string, err error) *AppError {
	return &AppError{
		Kind:    KindEncode,
		Format:  format,
		Message: message,
		Err:     err,
	}
}

// NewIOError creates a new error related to reading input or writing
// output.
func NewIOError(message string, err error) *AppError {
	return &AppError{
		Kind:    KindIO,
		Message: message,
		Err:     err,
	}
}

// NewConfigError creates a new error related to the config file.
func NewConfigError(message string, err error) *AppError {
	return &AppError{
		Kind:    KindConfig,
		Message: message,
		Err:     err,
	}
}

// UserFriendlyError returns a user-friendly error message
func UserFriendlyError(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		switch appErr.Kind {
		case KindAmbiguousFormat, KindUnknownFormat:
			return fmt.Sprintf("Error: %s", appErr.Message)
		case KindDecode:
			return fmt.Sprintf("Decode error (%s): %s", appErr.Format, appErr.Message)
		case KindEncode:
			return fmt.Sprintf("Encode error (%s): %s", appErr.Format, appErr.Message)
		case KindIO:
			return fmt.Sprintf("I/O error: %s", appErr.Message)
		case KindConfig:
			return fmt.Sprintf("Config error: %s", appErr.Message)
		default:
			return fmt.Sprintf("Error: %s", appErr.Message)
		}
	}

	return fmt.Sprintf("Error: %v", err)
}

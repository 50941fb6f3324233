// Package errors defines the error taxonomy shared by the asset pipeline's
// file-system facade, importer registry and import orchestrator.
package errors

import (
	"fmt"

	pkgerrors "github.com/pkg/errors"
)

// Code identifies the category of a pipeline error.
type Code string

const (
	CodeNotFound       Code = "not_found"      // source or artifact missing
	CodeIo             Code = "io"             // underlying file-system failure
	CodeHttp           Code = "http"           // reserved for remote backends
	CodeInvalidData    Code = "invalid_data"   // decode failure on sidecar/meta/artifact/dependents
	CodeNoExtension    Code = "no_extension"   // source path has no extension
	CodeNoImporter     Code = "no_importer"    // no importer registered for extension/type
	CodeImporterError  Code = "importer_error"  // typed failure from AssetImporter.Import
	CodeProcessorError Code = "processor_error" // typed failure from AssetProcessor.Process
)

// Error is a coded error carrying enough context for callers to branch on
// failure category without string matching.
type Error struct {
	Code    Code
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates a coded error with no underlying cause.
func New(code Code, message string) error {
	return &Error{Code: code, Message: message}
}

// Newf creates a coded error with a formatted message.
func Newf(code Code, format string, args ...interface{}) error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap attaches a code and message to an existing cause.
func Wrap(code Code, cause error, message string) error {
	if cause == nil {
		return nil
	}
	return &Error{Code: code, Message: message, Cause: cause}
}

// Wrapf attaches a code and formatted message to an existing cause.
func Wrapf(code Code, cause error, format string, args ...interface{}) error {
	if cause == nil {
		return nil
	}
	return &Error{Code: code, Message: fmt.Sprintf(format, args...), Cause: cause}
}

// Is reports whether err is a *Error with the given code.
func Is(err error, code Code) bool {
	var e *Error
	if pkgerrors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// GetCode extracts the code from err, returning "" if err is not a *Error.
func GetCode(err error) Code {
	var e *Error
	if pkgerrors.As(err, &e) {
		return e.Code
	}
	return ""
}

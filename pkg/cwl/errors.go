package cwl

import (
	"errors"
	"fmt"
)

// Error codes for structured error reporting.
const (
	ErrCodeConversion   = "CONVERSION_ERROR"
	ErrCodeQuery        = "QUERY_ERROR"
	ErrCodeRootNotFound = "ROOT_NOT_FOUND"
	ErrCodeRender       = "RENDER_ERROR"
	ErrCodeConfig       = "CONFIG_ERROR"
	ErrCodeStore        = "STORE_ERROR"
)

// VizError is the structured error type for all cwlviz operations.
type VizError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Cause   error  `json:"-"`
}

func (e *VizError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *VizError) Unwrap() error {
	return e.Cause
}

// NewError creates a new VizError.
func NewError(code, message string) *VizError {
	return &VizError{Code: code, Message: message}
}

// NewErrorf creates a new VizError with a formatted message.
func NewErrorf(code, format string, args ...any) *VizError {
	return &VizError{Code: code, Message: fmt.Sprintf(format, args...)}
}

// WithCause attaches an underlying cause.
func (e *VizError) WithCause(err error) *VizError {
	e.Cause = err
	return e
}

// HasCode reports whether err is (or wraps) a VizError with the given code.
func HasCode(err error, code string) bool {
	var ve *VizError
	return errors.As(err, &ve) && ve.Code == code
}

// Package zerr defines the structured error codes raised across the
// zlayout core, grounded on the teacher pack's errors package.
package zerr

import "fmt"

// Code is a machine-readable error category.
type Code string

const (
	CodeInvalidPolygon       Code = "INVALID_POLYGON"
	CodeDivideByZero         Code = "DIVIDE_BY_ZERO"
	CodeBlockNotFound        Code = "BLOCK_NOT_FOUND"
	CodeDuplicateBlockName   Code = "DUPLICATE_BLOCK_NAME"
	CodeBoundaryWarning      Code = "BOUNDARY_WARNING"
	CodeDanglingNetReference Code = "DANGLING_NET_REFERENCE"
	CodeInfeasibleLayout     Code = "INFEASIBLE_LAYOUT"
	CodeThreadPoolStopped    Code = "THREAD_POOL_STOPPED"
)

// Error is a structured error carrying a Code, a human message, and an
// optional wrapped cause.
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

func (e *Error) Unwrap() error { return e.Cause }

// Is reports whether target is a *Error with the same Code.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// New builds a *Error with a formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap builds a *Error around an existing cause.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...), Cause: cause}
}

// HasCode reports whether err is (or wraps) a *Error with the given code.
func HasCode(err error, code Code) bool {
	for err != nil {
		if e, ok := err.(*Error); ok {
			if e.Code == code {
				return true
			}
			err = e.Cause
			continue
		}
		type unwrapper interface{ Unwrap() error }
		u, ok := err.(unwrapper)
		if !ok {
			return false
		}
		err = u.Unwrap()
	}
	return false
}

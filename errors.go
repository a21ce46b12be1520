package tortilla

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ErrorCode represents a machine-readable error code.
type ErrorCode string

const (
	CodeClassNotResolvable   ErrorCode = "class_not_resolvable"
	CodeInvalidFilterPattern ErrorCode = "invalid_filter_pattern"
	CodeOverloadResolution   ErrorCode = "overload_resolution"
	CodeDependencyResolution ErrorCode = "dependency_resolution"
	CodeInvalidArgument      ErrorCode = "invalid_argument"
	CodeUnsupportedMember    ErrorCode = "unsupported_member"
	CodeInternal             ErrorCode = "internal"
)

// Error is the standard error envelope for generation-time failures.
type Error struct {
	Code    ErrorCode      `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`

	wrapped error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause, if any.
func (e *Error) Unwrap() error {
	return e.wrapped
}

// NewError creates a new error with the given code.
func NewError(code ErrorCode, message string) *Error {
	return &Error{
		Code:    code,
		Message: message,
	}
}

// Errorf creates a new error with a formatted message.
func Errorf(code ErrorCode, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// WrapError creates a new error that wraps an underlying cause.
// The cause remains reachable through errors.Is / errors.As.
func WrapError(code ErrorCode, err error, message string) *Error {
	return &Error{
		Code:    code,
		Message: message,
		wrapped: err,
	}
}

// WithDetail returns a new Error with the key-value pair added to details.
func (e *Error) WithDetail(key string, value any) *Error {
	details := make(map[string]any, len(e.Details)+1)
	for k, v := range e.Details {
		details[k] = v
	}
	details[key] = value
	return &Error{
		Code:    e.Code,
		Message: e.Message,
		Details: details,
		wrapped: e.wrapped,
	}
}

// OverloadResolutionError is raised at call time of a generated routine when
// no dispatch clause matches the supplied arguments. It is a property of the
// emitted dispatch logic, never of generation itself.
type OverloadResolutionError struct {
	Class    string
	Member   string
	ArgTypes []string // concrete runtime type per argument, in call order
}

// NewOverloadError builds an OverloadResolutionError from the raw arguments
// of a routine call. Untyped nils report as "nil".
func NewOverloadError(class, member string, args []any) *OverloadResolutionError {
	types := make([]string, len(args))
	for i, a := range args {
		if a == nil {
			types[i] = "nil"
			continue
		}
		types[i] = fmt.Sprintf("%T", a)
	}
	return &OverloadResolutionError{
		Class:    class,
		Member:   member,
		ArgTypes: types,
	}
}

func (e *OverloadResolutionError) Error() string {
	return fmt.Sprintf("no overload of %s.%s accepts argument types (%s)",
		e.Class, e.Member, strings.Join(e.ArgTypes, ", "))
}

// DefaultErrorTransformer maps arbitrary errors to the standard envelope.
func DefaultErrorTransformer(err error) *Error {
	if err == nil {
		return nil
	}

	var svcErr *Error
	if errors.As(err, &svcErr) {
		return svcErr
	}

	var overloadErr *OverloadResolutionError
	if errors.As(err, &overloadErr) {
		return &Error{
			Code:    CodeOverloadResolution,
			Message: overloadErr.Error(),
			Details: map[string]any{
				"class":     overloadErr.Class,
				"member":    overloadErr.Member,
				"arg_types": overloadErr.ArgTypes,
			},
			wrapped: overloadErr,
		}
	}

	var valErrs validator.ValidationErrors
	if errors.As(err, &valErrs) {
		details := make(map[string]any)
		messages := make([]string, 0, len(valErrs))
		for _, ve := range valErrs {
			msg := formatValidationError(ve)
			details[ve.Field()] = msg
			messages = append(messages, ve.Field()+": "+msg)
		}
		return &Error{
			Code:    CodeInvalidArgument,
			Message: strings.Join(messages, "; "),
			Details: details,
			wrapped: err,
		}
	}

	return &Error{
		Code:    CodeInternal,
		Message: err.Error(),
		wrapped: err,
	}
}

// formatValidationError converts a validator.FieldError to a human-readable message.
func formatValidationError(ve validator.FieldError) string {
	switch ve.Tag() {
	case "required":
		return "required"
	case "gt":
		return fmt.Sprintf("must be greater than %s", ve.Param())
	case "gte":
		return fmt.Sprintf("must be at least %s", ve.Param())
	case "lt":
		return fmt.Sprintf("must be less than %s", ve.Param())
	case "lte":
		return fmt.Sprintf("must be at most %s", ve.Param())
	case "min":
		return fmt.Sprintf("must have at least %s elements", ve.Param())
	case "oneof":
		return fmt.Sprintf("must be one of: %s", ve.Param())
	default:
		if ve.Param() != "" {
			return fmt.Sprintf("failed %s=%s validation", ve.Tag(), ve.Param())
		}
		return fmt.Sprintf("failed %s validation", ve.Tag())
	}
}

package types

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorCode represents a namespaced error code for Conductor runtime errors.
type ErrorCode string

// FSM error codes
const (
	FSM_INVALID_TRANSITION ErrorCode = "FSM_INVALID_TRANSITION"
	FSM_UNKNOWN_PHASE      ErrorCode = "FSM_UNKNOWN_PHASE"
)

// Policy error codes
const (
	POLICY_VIOLATION ErrorCode = "POLICY_VIOLATION"
)

// Execution error codes. Everything in this class is surfaced to the caller
// as an execution failure; IsExecutionError matches the whole class.
const (
	EXECUTION_TOOL_NOT_FOUND ErrorCode = "EXECUTION_TOOL_NOT_FOUND"
	EXECUTION_TOOL_FAILED    ErrorCode = "EXECUTION_TOOL_FAILED"
	EXECUTION_MAX_ITERATIONS ErrorCode = "EXECUTION_MAX_ITERATIONS"
	EXECUTION_HALTED         ErrorCode = "EXECUTION_HALTED"
)

// LLM error codes
const (
	LLM_COMPLETION_FAILED     ErrorCode = "LLM_COMPLETION_FAILED"
	LLM_RESPONSE_PARSE_FAILED ErrorCode = "LLM_RESPONSE_PARSE_FAILED"
	LLM_PROVIDER_NOT_FOUND    ErrorCode = "LLM_PROVIDER_NOT_FOUND"
	LLM_PROVIDER_INIT_FAILED  ErrorCode = "LLM_PROVIDER_INIT_FAILED"
	LLM_PROVIDER_UNAUTHORIZED ErrorCode = "LLM_PROVIDER_UNAUTHORIZED"
)

// Configuration error codes
const (
	CONFIG_LOAD_FAILED       ErrorCode = "CONFIG_LOAD_FAILED"
	CONFIG_PARSE_FAILED      ErrorCode = "CONFIG_PARSE_FAILED"
	CONFIG_VALIDATION_FAILED ErrorCode = "CONFIG_VALIDATION_FAILED"
)

// Audit error codes
const (
	AUDIT_OPEN_FAILED   ErrorCode = "AUDIT_OPEN_FAILED"
	AUDIT_RECORD_FAILED ErrorCode = "AUDIT_RECORD_FAILED"
)

// ConductorError represents a structured error with error code, message, and
// optional cause. It supports error wrapping and retryability hints.
type ConductorError struct {
	Code      ErrorCode
	Message   string
	Retryable bool
	Cause     error
}

// Error implements the error interface.
// Format: "[CODE] message" or "[CODE] message: cause" if cause exists.
func (e *ConductorError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause error for error unwrapping chains.
func (e *ConductorError) Unwrap() error {
	return e.Cause
}

// Is checks if the target error matches this error by error code.
func (e *ConductorError) Is(target error) bool {
	var cerr *ConductorError
	if errors.As(target, &cerr) {
		return e.Code == cerr.Code
	}
	return false
}

// NewError creates a new non-retryable ConductorError with the given code and message.
func NewError(code ErrorCode, message string) *ConductorError {
	return &ConductorError{
		Code:    code,
		Message: message,
	}
}

// NewErrorf creates a new non-retryable ConductorError with a formatted message.
func NewErrorf(code ErrorCode, format string, args ...any) *ConductorError {
	return &ConductorError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// WrapError creates a new non-retryable ConductorError that wraps an existing
// error. The wrapped error is accessible via Unwrap().
func WrapError(code ErrorCode, message string, cause error) *ConductorError {
	return &ConductorError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// CodeOf returns the error code carried by err, or the empty string when err
// is not a ConductorError.
func CodeOf(err error) ErrorCode {
	var cerr *ConductorError
	if errors.As(err, &cerr) {
		return cerr.Code
	}
	return ""
}

// IsExecutionError reports whether err belongs to the EXECUTION_ error class.
func IsExecutionError(err error) bool {
	return strings.HasPrefix(string(CodeOf(err)), "EXECUTION_")
}

// IsPolicyViolation reports whether err is a policy violation.
func IsPolicyViolation(err error) bool {
	return CodeOf(err) == POLICY_VIOLATION
}

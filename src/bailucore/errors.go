package bailucore

import (
	"errors"
	"fmt"
)

// ErrorCode is one of the core's stable, wire-contract error codes. A
// ToolResult.Error string is always prefixed with one of these, and a
// CoreError backs that prefix with a comparable sentinel.
type ErrorCode string

const (
	CodeInvalidArguments  ErrorCode = "invalid-arguments"
	CodePathViolation     ErrorCode = "path-violation"
	CodeNotFound          ErrorCode = "not-found"
	CodePermissionDenied  ErrorCode = "permission-denied"
	CodeFSFault           ErrorCode = "fs-fault"
	CodeBlocked           ErrorCode = "blocked"
	CodeTimeout           ErrorCode = "timeout"
	CodeTransport         ErrorCode = "transport"
	CodeUserCancelled     ErrorCode = "user-cancelled"
	CodeUnknownTool       ErrorCode = "unknown-tool"
)

// CoreError wraps an inner error with one of the stable codes above so
// callers can branch with errors.Is instead of parsing the string prefix
// the wire contract still requires (ToolResult.Error remains "<code>: msg").
type CoreError struct {
	Code ErrorCode
	Msg  string
	Err  error
}

func (e *CoreError) Error() string {
	if e.Msg == "" {
		return string(e.Code)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Msg)
}

func (e *CoreError) Unwrap() error { return e.Err }

// Is lets errors.Is(err, bailucore.Code(CodeBlocked)) match any CoreError
// carrying that code, regardless of message or wrapped cause.
func (e *CoreError) Is(target error) bool {
	t, ok := target.(*CoreError)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// NewError builds a CoreError with the given code and message.
func NewError(code ErrorCode, msg string) *CoreError {
	return &CoreError{Code: code, Msg: msg}
}

// WrapError builds a CoreError carrying an inner cause.
func WrapError(code ErrorCode, msg string, cause error) *CoreError {
	return &CoreError{Code: code, Msg: msg, Err: cause}
}

// Code is a zero-message sentinel usable with errors.Is:
// errors.Is(err, bailucore.Code(bailucore.CodeBlocked)).
func Code(code ErrorCode) error {
	return &CoreError{Code: code}
}

// HasCode reports whether err (or anything it wraps) is a CoreError with
// the given code.
func HasCode(err error, code ErrorCode) bool {
	return errors.Is(err, Code(code))
}

// ToolResultFromError normalizes any error into a failing ToolResult. If
// err is already a *CoreError its code prefixes the message; otherwise it
// is wrapped as fs-fault, the generic I/O-failure bucket.
func ToolResultFromError(err error) ToolResult {
	if err == nil {
		return ToolResult{Success: true}
	}
	var ce *CoreError
	if errors.As(err, &ce) {
		return ToolResult{Success: false, Error: ce.Error()}
	}
	return ToolResult{Success: false, Error: WrapError(CodeFSFault, err.Error(), err).Error()}
}

package rook

import (
	"errors"
	"fmt"
)

// ErrorCode classifies every failure the rules engine and state machine can
// produce. Codes are stable strings so transports can forward them verbatim.
type ErrorCode string

const (
	CodeValidation          ErrorCode = "VALIDATION"
	CodeNotFound            ErrorCode = "NOT_FOUND"
	CodeInvalidTransition   ErrorCode = "INVALID_TRANSITION"
	CodeInvalidTurn         ErrorCode = "INVALID_TURN"
	CodeIllegalPlay         ErrorCode = "ILLEGAL_PLAY"
	CodeIllegalBid          ErrorCode = "ILLEGAL_BID"
	CodeGameFull            ErrorCode = "GAME_FULL"
	CodeNameTaken           ErrorCode = "NAME_TAKEN"
	CodeConcurrencyConflict ErrorCode = "CONCURRENCY_CONFLICT"
	CodeInvariantViolation  ErrorCode = "INVARIANT_VIOLATION"
)

type Error struct {
	Code    ErrorCode
	Message string
}

func (e *Error) Error() string {
	return string(e.Code) + ": " + e.Message
}

// Is matches any *Error carrying the same code, so callers can test
// errors.Is(err, rook.ErrInvalidTurn) regardless of message.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Code == e.Code
}

func NewError(code ErrorCode, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Sentinels for errors.Is checks.
var (
	ErrValidation          = &Error{Code: CodeValidation}
	ErrNotFound            = &Error{Code: CodeNotFound}
	ErrInvalidTransition   = &Error{Code: CodeInvalidTransition}
	ErrInvalidTurn         = &Error{Code: CodeInvalidTurn}
	ErrIllegalPlay         = &Error{Code: CodeIllegalPlay}
	ErrIllegalBid          = &Error{Code: CodeIllegalBid}
	ErrGameFull            = &Error{Code: CodeGameFull}
	ErrNameTaken           = &Error{Code: CodeNameTaken}
	ErrConcurrencyConflict = &Error{Code: CodeConcurrencyConflict}
	ErrInvariantViolation  = &Error{Code: CodeInvariantViolation}
)

// CodeOf extracts the domain code from an error chain, or empty if the
// error did not originate here.
func CodeOf(err error) ErrorCode {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

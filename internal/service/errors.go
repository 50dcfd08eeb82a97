package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/alexanderramin/grantplan/internal/repository"
	"github.com/alexanderramin/grantplan/internal/snapshot"
)

// Code classifies a Failure for callers.
type Code string

const (
	CodeUnauthorized Code = "unauthorized"
	CodeNotFound     Code = "not_found"
	CodeInvalid      Code = "invalid"
	CodeTransaction  Code = "transaction"
	CodeInternal     Code = "internal"
)

// Failure is the error type returned across the service boundary.
type Failure struct {
	Code    Code
	Op      string
	Message string
	Err     error
}

func (f *Failure) Error() string {
	if f == nil {
		return "<nil>"
	}
	msg := f.Message
	if f.Op != "" {
		msg = f.Op + ": " + msg
	}
	if f.Err != nil {
		return fmt.Sprintf("%s: %v", msg, f.Err)
	}
	return msg
}

func (f *Failure) Unwrap() error { return f.Err }

func fail(code Code, op, message string, err error) *Failure {
	return &Failure{Code: code, Op: op, Message: message, Err: err}
}

// IsCode reports whether err carries a Failure with code.
func IsCode(err error, code Code) bool {
	var f *Failure
	if errors.As(err, &f) {
		return f.Code == code
	}
	return false
}

// CodeOf returns the Failure code of err, or CodeInternal for foreign errors.
func CodeOf(err error) Code {
	var f *Failure
	if errors.As(err, &f) {
		return f.Code
	}
	return CodeInternal
}

// classify maps a read-path error to a Failure.
func classify(op, what string, err error) error {
	if err == nil {
		return nil
	}
	var f *Failure
	if errors.As(err, &f) {
		return err
	}
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return fail(CodeNotFound, op, what+" not found", err)
	case errors.Is(err, snapshot.ErrInvalidPayload):
		return fail(CodeInvalid, op, "invalid payload", err)
	default:
		return fail(CodeInternal, op, "loading "+what, err)
	}
}

// txFailure maps an error returned by a unit of work. Anything that
// escapes a transaction means it was rolled back.
func txFailure(op string, err error) error {
	if err == nil {
		return nil
	}
	var f *Failure
	if errors.As(err, &f) {
		return err
	}
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return fail(CodeTransaction, op, "transaction timed out and was rolled back", err)
	case errors.Is(err, repository.ErrNotFound):
		return fail(CodeNotFound, op, "referenced record not found; nothing was written", err)
	default:
		return fail(CodeTransaction, op, "transaction rolled back", err)
	}
}

package wsm

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidArgument indicates a command value can't be converted to
	// the native type. Firmware state is untouched.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrResourceExhausted indicates the log buffer can't be allocated.
	ErrResourceExhausted = errors.New("resource exhausted")
	// ErrEmptyLog indicates the firmware reported an empty log.
	ErrEmptyLog = fmt.Errorf("%w: empty log", ErrResourceExhausted)
	// ErrUnavailable indicates the firmware core failed to serve a query.
	ErrUnavailable = errors.New("unavailable")
)

// OpError records the bridge operation that failed.
type OpError struct {
	Op  string
	Err error
}

// Error implements error.
func (e *OpError) Error() string {
	return e.Op + ": " + e.Err.Error()
}

// Unwrap returns the underlying error.
func (e *OpError) Unwrap() error {
	return e.Err
}

func opErr(op string, err error) error {
	if err == nil {
		return nil
	}
	return &OpError{Op: op, Err: err}
}

func unavailable(op string, err error) error {
	if err == nil {
		return nil
	}
	return &OpError{Op: op, Err: fmt.Errorf("%w: %w", ErrUnavailable, err)}
}

// ErrorCode classifies errors for the wire.
type ErrorCode uint32

// Error codes
const (
	CodeUnknown ErrorCode = iota
	CodeInvalidArgument
	CodeResourceExhausted
	CodeEmptyLog
	CodeUnavailable
)

// Code classifies an error.
func Code(err error) ErrorCode {
	switch {
	case err == nil:
		return CodeUnknown
	case errors.Is(err, ErrInvalidArgument):
		return CodeInvalidArgument
	case errors.Is(err, ErrEmptyLog):
		return CodeEmptyLog
	case errors.Is(err, ErrResourceExhausted):
		return CodeResourceExhausted
	case errors.Is(err, ErrUnavailable):
		return CodeUnavailable
	}
	return CodeUnknown
}

// Err returns the sentinel error of the code, nil for CodeUnknown.
func (c ErrorCode) Err() error {
	switch c {
	case CodeInvalidArgument:
		return ErrInvalidArgument
	case CodeResourceExhausted:
		return ErrResourceExhausted
	case CodeEmptyLog:
		return ErrEmptyLog
	case CodeUnavailable:
		return ErrUnavailable
	}
	return nil
}

package utils

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a failure for HTTP status mapping.
type ErrorKind int

const (
	KindInternal ErrorKind = iota
	KindNotFound
	KindConflict
	KindBadRequest
)

type AppError struct {
	Kind ErrorKind
	Msg  string
	Err  error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Msg + ": " + e.Err.Error()
	}
	return e.Msg
}

func (e *AppError) Unwrap() error { return e.Err }

func NotFoundf(format string, args ...interface{}) error {
	return &AppError{Kind: KindNotFound, Msg: fmt.Sprintf(format, args...)}
}

func Conflictf(format string, args ...interface{}) error {
	return &AppError{Kind: KindConflict, Msg: fmt.Sprintf(format, args...)}
}

func BadRequestf(format string, args ...interface{}) error {
	return &AppError{Kind: KindBadRequest, Msg: fmt.Sprintf(format, args...)}
}

func Internal(err error) error {
	return &AppError{Kind: KindInternal, Msg: "internal error", Err: err}
}

// KindOf extracts the classification from anywhere in the chain.
func KindOf(err error) ErrorKind {
	var ae *AppError
	if errors.As(err, &ae) {
		return ae.Kind
	}
	return KindInternal
}

// internal/domain/operation/errors.go
package operation

import (
	"context"
	"errors"
	"fmt"
)

// ErrorKind classifies why a submission did not produce a result.
type ErrorKind string

const (
	ErrorKindUnknown    ErrorKind = "unknown"
	ErrorKindConfig     ErrorKind = "config"
	ErrorKindCredential ErrorKind = "credential"
	ErrorKindValidation ErrorKind = "validation"
	ErrorKindSession    ErrorKind = "session"
	ErrorKindSigning    ErrorKind = "signing"
	ErrorKindSubmission ErrorKind = "submission"
	ErrorKindUpload     ErrorKind = "upload"
	ErrorKindTimeout    ErrorKind = "timeout"
)

// ExitCode は CLI のプロセス終了コード。成功は 0。
func (k ErrorKind) ExitCode() int {
	switch k {
	case ErrorKindConfig:
		return 2
	case ErrorKindCredential:
		return 3
	case ErrorKindValidation:
		return 4
	case ErrorKindSession:
		return 5
	case ErrorKindSigning:
		return 6
	case ErrorKindSubmission:
		return 7
	case ErrorKindUpload:
		return 8
	case ErrorKindTimeout:
		return 9
	default:
		return 1
	}
}

// Error is the typed failure of one operation.
type Error struct {
	Kind ErrorKind
	Op   Kind
	Err  error
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Op == "" {
		return fmt.Sprintf("%s error: %v", e.Kind, e.Err)
	}
	return fmt.Sprintf("%s: %s error: %v", e.Op, e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// NewError wraps err with kind. Deadline/cancel errors are always reported as timeout,
// and an already-typed error keeps its original kind.
func NewError(op Kind, kind ErrorKind, err error) error {
	if err == nil {
		return nil
	}
	var typed *Error
	if errors.As(err, &typed) {
		if typed.Op == "" {
			return &Error{Kind: typed.Kind, Op: op, Err: typed.Err}
		}
		return err
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		kind = ErrorKindTimeout
	}
	return &Error{Kind: kind, Op: op, Err: err}
}

// KindOf returns the ErrorKind carried by err, or ErrorKindUnknown.
func KindOf(err error) ErrorKind {
	if err == nil {
		return ""
	}
	var typed *Error
	if errors.As(err, &typed) {
		return typed.Kind
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return ErrorKindTimeout
	}
	return ErrorKindUnknown
}

// ExitCode maps err to a process exit code (0 for nil).
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	return KindOf(err).ExitCode()
}

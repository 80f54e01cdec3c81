package errors

import (
	stderrors "errors"
	"fmt"
)

var (
	ErrWorkerPanic = fmt.Errorf("worker panic")

	// ErrUnauthorized covers a missing session, a missing workspace membership,
	// and writes attempted by someone other than the author.
	ErrUnauthorized = fmt.Errorf("unauthorized")
	// ErrNotFound reports a missing message, member, user, parent or workspace.
	ErrNotFound         = fmt.Errorf("not found")
	ErrInvalidScope     = fmt.Errorf("invalid feed scope")
	ErrInvalidCommand   = fmt.Errorf("invalid command")
	ErrInvalidJoinCode  = fmt.Errorf("invalid join code")
	ErrUnsupportedMedia = fmt.Errorf("unsupported attachment type")
	ErrFetchFailed      = fmt.Errorf("page fetch failed")
	ErrDisposed         = fmt.Errorf("feed disposed")
)

// Is and As forward to the standard library so callers need a single errors import.
func Is(err, target error) bool { return stderrors.Is(err, target) }

func As(err error, target any) bool { return stderrors.As(err, target) }

package tree

import (
	"errors"
	"fmt"
)

// ErrNoPackageSession marks a load or mutation attempted before the
// (course, session, level) triple resolved to an offering. The manager
// treats it as a logged no-op, never a crash.
var ErrNoPackageSession = errors.New("package session not resolved")

// FetchError wraps a failed provider query. It is caught inside the manager:
// the affected cache resets to empty and the tree degrades instead of
// propagating the failure.
type FetchError struct {
	Stage string
	Err   error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch %s: %v", e.Stage, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// MutationError wraps a failed structural write. Local state is untouched
// when one is returned; the manager only reloads after confirmed success.
type MutationError struct {
	Op  string
	Err error
}

func (e *MutationError) Error() string {
	return fmt.Sprintf("mutation %s: %v", e.Op, e.Err)
}

func (e *MutationError) Unwrap() error { return e.Err }

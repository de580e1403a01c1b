package domain

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned by a credential store when no record matches the
// lookup key.
var ErrNotFound = errors.New("credential record not found")

var (
	ErrUnknownRole  = errors.New("unknown role")
	ErrMissingField = errors.New("missing required field")
)

type RoleErrorKind int

const (
	UnknownRole RoleErrorKind = iota
	MissingField
)

// RoleError is raised while turning a request into a typed identity.
type RoleError struct {
	Kind  RoleErrorKind
	Role  string
	Field string
}

func (e *RoleError) Error() string {
	if e.Kind == MissingField {
		return fmt.Sprintf("role %q: missing or invalid field %q", e.Role, e.Field)
	}
	return fmt.Sprintf("unknown role %q", e.Role)
}

// Is lets callers match with errors.Is(err, ErrUnknownRole) or ErrMissingField.
func (e *RoleError) Is(target error) bool {
	switch target {
	case ErrUnknownRole:
		return e.Kind == UnknownRole
	case ErrMissingField:
		return e.Kind == MissingField
	}
	return false
}

// Reason maps the error onto the deny reason recorded for the attempt.
func (e *RoleError) Reason() DenyReason {
	if e.Kind == MissingField {
		return ReasonMissingField
	}
	return ReasonUnknownRole
}

// StorageError reports that the credential backend could not answer. It is
// distinct from a denial so transports can answer with a server error.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage: %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// IsStorageError reports whether err carries a *StorageError anywhere in its chain.
func IsStorageError(err error) bool {
	var se *StorageError
	return errors.As(err, &se)
}

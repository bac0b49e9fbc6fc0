package uasset

import (
	"errors"
	"fmt"
)

var (
	ErrOutOfRange       = errors.New("uasset: position out of range")
	ErrNameOutOfRange   = errors.New("uasset: name index out of range")
	ErrIndexOutOfRange  = errors.New("uasset: package index out of range")
	ErrMissingPayload   = errors.New("uasset: payload not attached")
	ErrDuplicatePayload = errors.New("uasset: payload already attached")
	ErrUnresolved       = errors.New("uasset: unresolved reference")
	ErrInvalidTag       = errors.New("uasset: invalid package tag")
	ErrInvalidHeader    = errors.New("uasset: invalid package header")
	ErrInvalidPayload   = errors.New("uasset: invalid payload")
	ErrLimitExceeded    = errors.New("uasset: limit exceeded")
	ErrNotFound         = errors.New("uasset: package not found")
)

// ArchiveError reports a structural failure at a known cursor position.
// Err is one of the package sentinels and is reachable through errors.Is.
type ArchiveError struct {
	Op      string
	Pos     int
	Size    int
	Package string
	Err     error
}

func (e *ArchiveError) Error() string {
	pkg := e.Package
	if pkg == "" {
		pkg = "<none>"
	}
	return fmt.Sprintf("%v: %s (pos %d, size %d, package %s)", e.Err, e.Op, e.Pos, e.Size, pkg)
}

func (e *ArchiveError) Unwrap() error { return e.Err }

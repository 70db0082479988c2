// Package vfserr defines the error taxonomy shared by the path resolver,
// operation handlers, and FUSE dispatcher, and its mapping onto POSIX
// errno values at the kernel boundary.
package vfserr

import (
	"fmt"
	"syscall"
)

// Kind is one of the error categories from the design's error taxonomy.
type Kind int

const (
	// NotFound means no node exists at the requested path or name.
	NotFound Kind = iota
	// NotPermitted means the operation is not allowed at this node kind.
	NotPermitted
	// Busy means an in-flight request collides with the requested operation.
	Busy
	// InvalidInput means a name, offset, or document failed validation.
	InvalidInput
	// LLMFailure means the chat completion port returned an error or timed out.
	LLMFailure
	// SearchFailure means the search port returned an error or timed out.
	SearchFailure
	// Unsupported means the operation is outside the supported surface.
	Unsupported
)

// Error is a typed error carrying a Kind and a human-readable message.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// Errno maps e's Kind onto the POSIX errno the FUSE dispatcher should
// respond with, per the error taxonomy.
func (e *Error) Errno() syscall.Errno {
	switch e.Kind {
	case NotFound:
		return syscall.ENOENT
	case NotPermitted:
		return syscall.EPERM
	case Busy:
		return syscall.EBUSY
	case InvalidInput:
		return syscall.EINVAL
	case LLMFailure, SearchFailure:
		return syscall.EIO
	case Unsupported:
		return syscall.ENOSYS
	default:
		return syscall.EIO
	}
}

// New builds an *Error with a formatted message.
func New(kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// NotFoundf builds a NotFound error.
func NotFoundf(format string, args ...interface{}) *Error { return New(NotFound, format, args...) }

// NotPermittedf builds a NotPermitted error.
func NotPermittedf(format string, args ...interface{}) *Error {
	return New(NotPermitted, format, args...)
}

// Busyf builds a Busy error.
func Busyf(format string, args ...interface{}) *Error { return New(Busy, format, args...) }

// InvalidInputf builds an InvalidInput error.
func InvalidInputf(format string, args ...interface{}) *Error {
	return New(InvalidInput, format, args...)
}

// LLMFailuref builds an LLMFailure error.
func LLMFailuref(format string, args ...interface{}) *Error { return New(LLMFailure, format, args...) }

// SearchFailuref builds a SearchFailure error.
func SearchFailuref(format string, args ...interface{}) *Error {
	return New(SearchFailure, format, args...)
}

// Unsupportedf builds an Unsupported error.
func Unsupportedf(format string, args ...interface{}) *Error {
	return New(Unsupported, format, args...)
}

// Errno extracts the POSIX errno for any error, for handing to
// fuseops.Op.Respond: *Error values use their own mapping, everything else
// becomes EIO. A nil err returns a true nil, not a zero-valued Errno,
// so callers can pass the result straight to Respond without it being
// mistaken for a non-nil error.
func Errno(err error) error {
	if err == nil {
		return nil
	}
	if ve, ok := err.(*Error); ok {
		return ve.Errno()
	}
	return syscall.EIO
}

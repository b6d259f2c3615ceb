package pagebook

import (
	"errors"
	"fmt"
)

// ErrorCode classifies a pagebook Error.
type ErrorCode int

const (
	// ErrNone is the zero value; never attached to a returned Error.
	ErrNone ErrorCode = iota

	// ErrKeyExists indicates Book.Insert was called with a key already
	// present in the book.
	ErrKeyExists

	// ErrKeyNotFound indicates Book.Delete, or a Page lookup by key,
	// targeted an absent key.
	ErrKeyNotFound

	// ErrSlotVacant indicates access to a slot index whose bitmap/map
	// says empty.
	ErrSlotVacant

	// ErrPageFull indicates PageMeta.InsertKey found no vacant slot.
	ErrPageFull

	// ErrIo wraps a failure from the filesystem or the memory mapper:
	// directory creation, enumeration, file open, truncate, or mmap.
	ErrIo

	// ErrCorrupt indicates a page file of the wrong length, or two
	// pages within a Book claiming the same key.
	ErrCorrupt

	// ErrInvalid indicates a malformed call against the API (e.g.
	// PageMeta.InsertAt on a slot that is already occupied).
	ErrInvalid
)

var errorMessages = map[ErrorCode]string{
	ErrKeyExists:    "key already exists",
	ErrKeyNotFound:  "key not found",
	ErrSlotVacant:   "slot is vacant",
	ErrPageFull:     "page is full",
	ErrIo:           "i/o failure",
	ErrCorrupt:      "page store is corrupt",
	ErrInvalid:      "invalid argument",
}

// Error is the error type returned by every public pagebook operation.
type Error struct {
	Code    ErrorCode
	Message string
	Path    string // set for ErrIo/ErrCorrupt when a specific file is implicated
	Err     error  // wrapped cause, if any
}

func (e *Error) Error() string {
	switch {
	case e.Path != "" && e.Err != nil:
		return fmt.Sprintf("pagebook: %s (%s): %v", e.Message, e.Path, e.Err)
	case e.Path != "":
		return fmt.Sprintf("pagebook: %s (%s)", e.Message, e.Path)
	case e.Err != nil:
		return fmt.Sprintf("pagebook: %s: %v", e.Message, e.Err)
	default:
		return fmt.Sprintf("pagebook: %s", e.Message)
	}
}

func (e *Error) Unwrap() error {
	return e.Err
}

// NewError builds an Error from a code, using its canonical message.
func NewError(code ErrorCode) *Error {
	msg, ok := errorMessages[code]
	if !ok {
		msg = fmt.Sprintf("unknown error code %d", code)
	}
	return &Error{Code: code, Message: msg}
}

// WrapIoError builds an ErrIo Error with path context, the way the
// teacher's Env.Open wraps os/mmap failures with the path that failed.
func WrapIoError(path string, err error) *Error {
	e := NewError(ErrIo)
	e.Path = path
	e.Err = err
	return e
}

// WrapCorruptError builds an ErrCorrupt Error with path context.
func WrapCorruptError(path string, reason string) *Error {
	e := NewError(ErrCorrupt)
	e.Path = path
	e.Message = reason
	return e
}

// Code returns the ErrorCode carried by err, or ErrNone if err is nil or
// not a *Error.
func Code(err error) ErrorCode {
	if err == nil {
		return ErrNone
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ErrNone
}

// IsKeyExists reports whether err is ErrKeyExists.
func IsKeyExists(err error) bool { return Code(err) == ErrKeyExists }

// IsKeyNotFound reports whether err is ErrKeyNotFound.
func IsKeyNotFound(err error) bool { return Code(err) == ErrKeyNotFound }

// IsSlotVacant reports whether err is ErrSlotVacant.
func IsSlotVacant(err error) bool { return Code(err) == ErrSlotVacant }

// IsPageFull reports whether err is ErrPageFull.
func IsPageFull(err error) bool { return Code(err) == ErrPageFull }

// IsCorrupt reports whether err is ErrCorrupt.
func IsCorrupt(err error) bool { return Code(err) == ErrCorrupt }

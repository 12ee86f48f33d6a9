package pdfoutline

import (
	"errors"
	"fmt"

	"github.com/tsawler/pdfoutline/images"
	"github.com/tsawler/pdfoutline/outline"
	"github.com/tsawler/pdfoutline/pdfsource"
)

// ErrorKind classifies the failures the public operations report
type ErrorKind int

const (
	// KindParse means the bytes could not be opened as a PDF, or the page
	// tree could not be resolved
	KindParse ErrorKind = iota + 1

	// KindEncrypted means the document needs a password
	KindEncrypted

	// KindSectionNotFound means the requested section id is not in the index
	KindSectionNotFound

	// KindImageNotFound means the requested image id names no image
	KindImageNotFound

	// KindIO covers every other failure reading the input
	KindIO
)

// String returns a string representation of the kind
func (k ErrorKind) String() string {
	switch k {
	case KindParse:
		return "parse"
	case KindEncrypted:
		return "encrypted"
	case KindSectionNotFound:
		return "section_not_found"
	case KindImageNotFound:
		return "image_not_found"
	case KindIO:
		return "io"
	default:
		return "unknown"
	}
}

// Error is the error type returned by every public operation
type Error struct {
	Kind ErrorKind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	switch {
	case e.Msg != "" && e.Err != nil:
		return fmt.Sprintf("pdfoutline: %s: %s: %v", e.Kind, e.Msg, e.Err)
	case e.Msg != "":
		return fmt.Sprintf("pdfoutline: %s: %s", e.Kind, e.Msg)
	case e.Err != nil:
		return fmt.Sprintf("pdfoutline: %s: %v", e.Kind, e.Err)
	default:
		return "pdfoutline: " + e.Kind.String()
	}
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches any *Error of the same kind, so the sentinels below work with
// errors.Is
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

var (
	ErrParse           = &Error{Kind: KindParse}
	ErrEncrypted       = &Error{Kind: KindEncrypted}
	ErrSectionNotFound = &Error{Kind: KindSectionNotFound}
	ErrImageNotFound   = &Error{Kind: KindImageNotFound}
	ErrIO              = &Error{Kind: KindIO}
)

// KindOf returns the kind of err, or 0 when it is not an *Error
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}

// classify wraps an error from a lower layer in the public taxonomy
func classify(msg string, err error) error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return err
	}

	kind := KindIO
	switch {
	case errors.Is(err, pdfsource.ErrEncrypted):
		kind = KindEncrypted
	case errors.Is(err, pdfsource.ErrNotPDF), errors.Is(err, pdfsource.ErrNoPageTree):
		kind = KindParse
	case errors.Is(err, outline.ErrSectionNotFound):
		kind = KindSectionNotFound
	case errors.Is(err, images.ErrNotFound), errors.Is(err, images.ErrInvalidID):
		kind = KindImageNotFound
	}
	return &Error{Kind: kind, Msg: msg, Err: err}
}

package utils

import (
	"github.com/pkg/errors"
)

// ErrMissingResource is returned when a file or folder whose existence is mandatory is absent.
var ErrMissingResource = errors.New("missing resource")

// ErrInvalidArgument is returned when a caller passes a selector, convention or other tag that is
// not part of the closed set the callee understands.
var ErrInvalidArgument = errors.New("invalid argument")

// NewMissingResourceError is used when a required resource of the given kind does not exist at path.
func NewMissingResourceError(kind, path string) error {
	return errors.Wrapf(ErrMissingResource, "%s %q does not exist", kind, path)
}

// NewInvalidArgumentError is used when an argument is outside of its accepted set of values.
func NewInvalidArgumentError(format string, args ...interface{}) error {
	return errors.Wrapf(ErrInvalidArgument, format, args...)
}

// IsMissingResource reports whether err, or any error it wraps, is a missing resource error.
func IsMissingResource(err error) bool {
	return errors.Is(err, ErrMissingResource)
}

// IsInvalidArgument reports whether err, or any error it wraps, is an invalid argument error.
func IsInvalidArgument(err error) bool {
	return errors.Is(err, ErrInvalidArgument)
}

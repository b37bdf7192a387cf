// Package common defines sentinel errors shared by the server, the transport
// layer and the CLI client. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Board and settlement errors.
	ErrEmptyBoard = errors.New("board is empty")
	ErrConflict   = errors.New("conflict")

	// ErrStorage marks transport or persistence failures. The unit of work that
	// produced it has been rolled back.
	ErrStorage = errors.New("storage error")

	// Validation errors.
	ErrInvalidArgument = errors.New("invalid argument")
)

// IsDomain reports whether err carries one of the validation or state errors
// above, as opposed to an unclassified infrastructure failure.
func IsDomain(err error) bool {
	return errors.Is(err, ErrorNotFound) ||
		errors.Is(err, ErrEmptyBoard) ||
		errors.Is(err, ErrConflict) ||
		errors.Is(err, ErrInvalidArgument) ||
		errors.Is(err, ErrStorage)
}

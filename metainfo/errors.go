package metainfo

import (
	"errors"
	"strings"
)

// Kinds of validation error. A *ValidationError unwraps to one of these.
var (
	ErrMissingField            = errors.New("missing field")
	ErrTypeMismatch            = errors.New("type mismatch")
	ErrConflictingFileMode     = errors.New("exactly one of length and files is required")
	ErrInvalidPieceTableLength = errors.New("pieces length is not a multiple of 20")
	// The field has the right type but an unusable value, like a zero piece length.
	ErrInvalidValue = errors.New("invalid value")
)

// Returned when the piece table handed to PieceHashes can't be split into whole hashes.
var ErrMalformedPieceTable = errors.New("malformed piece table")

// ValidationError describes why a decoded metainfo dictionary can't be used.
type ValidationError struct {
	// Path to the offending key, such as "info.files[2].path".
	Field string
	Kind  error
	// Set for ErrTypeMismatch, or to explain ErrInvalidValue.
	Expected string
}

func (e *ValidationError) Error() string {
	var sb strings.Builder
	sb.WriteString("metainfo: ")
	if e.Field != "" {
		sb.WriteString(e.Field)
		sb.WriteString(": ")
	}
	sb.WriteString(e.Kind.Error())
	if e.Expected != "" {
		sb.WriteString(": expected ")
		sb.WriteString(e.Expected)
	}
	return sb.String()
}

func (e *ValidationError) Unwrap() error {
	return e.Kind
}

func missing(field string) error {
	return &ValidationError{Field: field, Kind: ErrMissingField}
}

func mismatch(field, expected string) error {
	return &ValidationError{Field: field, Kind: ErrTypeMismatch, Expected: expected}
}

func invalid(field, expected string) error {
	return &ValidationError{Field: field, Kind: ErrInvalidValue, Expected: expected}
}

package domain

import "errors"

var (
	// ErrNotAnnotatable is returned for messages that have no key and so can
	// never be matched against another result set.
	ErrNotAnnotatable = errors.New("message not eligible for annotation")

	// ErrResultExists is returned when a validation is already stored for a
	// file hash. The first stored result is kept.
	ErrResultExists = errors.New("validation already stored for file hash")

	ErrResultNotFound = errors.New("no validation stored for file hash")

	// ErrMalformedLinterOutput means the analysis tool produced neither a
	// messages list nor errors/warnings/notices lists.
	ErrMalformedLinterOutput = errors.New("malformed linter output")
)

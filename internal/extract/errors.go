package extract

import "errors"

// Path syntax errors. All of them are raised while a rule catalog is being
// built; request-time lookups never fail.
var (
	// ErrMissingRoot indicates an expression not starting with "$.".
	ErrMissingRoot = errors.New("path must start with $.")

	// ErrEmptySegment indicates an empty segment such as "$.a..b".
	ErrEmptySegment = errors.New("path contains an empty segment")

	// ErrPathTooDeep indicates a path exceeding types.MaxPathDepth segments.
	ErrPathTooDeep = errors.New("path exceeds maximum depth")

	// ErrUnexpectedWildcard indicates a [*] segment in a scalar path.
	ErrUnexpectedWildcard = errors.New("wildcard not allowed in scalar path")

	// ErrMissingWildcard indicates an array path without a [*] segment.
	ErrMissingWildcard = errors.New("array path requires a [*] segment")

	// ErrTooManyWildcards indicates more than one [*] segment.
	ErrTooManyWildcards = errors.New("path has more than one wildcard")

	// ErrMalformedPath indicates a wildcard path that does not decompose
	// into prefix, array field and suffix.
	ErrMalformedPath = errors.New("malformed wildcard path")
)

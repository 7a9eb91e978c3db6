package boundcheck

import "errors"

var (
	// ErrEmptyInput is the only fatal input error: a centroid or a
	// validation pass was requested over zero coordinates.
	ErrEmptyInput = errors.New("boundcheck: empty input, no coordinates")

	// ErrMissingTarget is raised when a dataset carries no region claim.
	ErrMissingTarget = errors.New("boundcheck: missing region target")

	// ErrUnionFetch marks a failed authoritative-union fetch. Always
	// recoverable: the union step degrades confidence and is skipped.
	ErrUnionFetch = errors.New("boundcheck: union fetch failed")

	// ErrUnionNotFound is returned by providers for unknown identifier
	// codes. Treated exactly like ErrUnionFetch by the validator.
	ErrUnionNotFound = errors.New("boundcheck: union not found")

	// ErrNoUnionProvider is returned by a cache built without a provider.
	ErrNoUnionProvider = errors.New("boundcheck: no union provider configured")
)

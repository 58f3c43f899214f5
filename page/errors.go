package page

import "errors"

// Paging errors.
var (
	// ErrInvalidRange indicates a slice window with a negative start or
	// count.
	ErrInvalidRange = errors.New("page: invalid slice range")
)

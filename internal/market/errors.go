package market

import "errors"

var (
	ErrInvalidArgument   = errors.New("invalid argument")
	ErrMissingField      = errors.New("missing required fields")
	ErrStoreUnavailable  = errors.New("store unavailable")
	ErrNotFound          = errors.New("not found")
	ErrInvalidTransition = errors.New("invalid status transition")
)

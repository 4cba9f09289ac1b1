package domain

import "errors"

// Error taxonomy for the ledgers. Services wrap these with fmt.Errorf("%w: ...")
// so handlers can classify with errors.Is and keep the detail for the caller.
var (
	ErrValidation         = errors.New("validation failed")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrNotFound           = errors.New("not found")
	ErrInvalidTransition  = errors.New("invalid status transition")
	ErrStorageUnavailable = errors.New("storage unavailable")
)

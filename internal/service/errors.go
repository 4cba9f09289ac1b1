package service

import (
	"errors"
	"fmt"

	"refnet/internal/domain"

	"gorm.io/gorm"
)

// storeErr classifies repository errors: missing rows become ErrNotFound,
// anything else is a transient storage failure the caller may retry.
func storeErr(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.ErrNotFound
	}
	return fmt.Errorf("%w: %v", domain.ErrStorageUnavailable, err)
}

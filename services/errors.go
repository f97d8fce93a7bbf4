package services

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// Error kinds returned by the core services. Handlers map these onto HTTP
// status codes; everything except ErrStoreUnavailable is permanent for the
// given input.
var (
	ErrNotFound         = errors.New("not found")
	ErrForbidden        = errors.New("forbidden")
	ErrInvalidRange     = errors.New("invalid date range")
	ErrInvalidStatus    = errors.New("invalid status")
	ErrConflict         = errors.New("booking conflict")
	ErrAlreadyReviewed  = errors.New("already reviewed")
	ErrNotEligible      = errors.New("not eligible to review")
	ErrStoreUnavailable = errors.New("store unavailable")
)

// wrapStoreError turns gorm's record-not-found into ErrNotFound and every
// other database failure into a retryable ErrStoreUnavailable.
func wrapStoreError(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
}

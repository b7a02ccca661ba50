package services

import "errors"

// Sentinel errors surfaced by the services; handlers translate them to HTTP
// status codes. Anything else coming out of a service is a storage failure
// wrapped with context.
var (
	ErrStoreNotFound = errors.New("store not found")
	ErrUserNotFound  = errors.New("user not found")
	ErrInvalidRating = errors.New("rating must be between 1 and 5")
)

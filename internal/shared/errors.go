package shared

import "errors"

var (
	// ErrNotFound indicates resource not found.
	ErrNotFound = errors.New("not found")
	// ErrValidation indicates a missing or malformed required field.
	ErrValidation = errors.New("validation failed")
	// ErrInsufficientStock indicates a movement would drive a quantity below zero.
	ErrInsufficientStock = errors.New("insufficient stock")
	// ErrPersistence indicates a load or save failure on one persisted collection.
	ErrPersistence = errors.New("persistence failure")
	// ErrServiceUnavailable indicates an optional external service could not be reached.
	ErrServiceUnavailable = errors.New("service unavailable")
)

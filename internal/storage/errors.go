package storage

import (
	"fmt"

	"github.com/odyssey-erp/itstock/internal/shared"
)

// Operations recorded on a PersistenceError.
const (
	OpLoad = "load"
	OpSave = "save"
)

// PersistenceError describes a failed load or save of one collection.
type PersistenceError struct {
	Collection string
	Op         string
	Err        error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("storage: %s %s: %v", e.Op, e.Collection, e.Err)
}

// Unwrap exposes both the persistence sentinel and the cause.
func (e *PersistenceError) Unwrap() []error {
	return []error{shared.ErrPersistence, e.Err}
}

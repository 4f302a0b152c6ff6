package inventory

import (
	"fmt"
	"time"

	"github.com/odyssey-erp/itstock/internal/shared"
)

// MovementKind enumerates supported ledger movements.
type MovementKind string

const (
	// MovementEntry represents an inbound movement.
	MovementEntry MovementKind = "ENTRY"
	// MovementExit represents an outbound movement.
	MovementExit MovementKind = "EXIT"
	// MovementCorrection is reserved for logged corrections. No ledger operation emits it.
	MovementCorrection MovementKind = "CORRECTION"
)

// Valid reports whether k is a known kind.
func (k MovementKind) Valid() bool {
	switch k {
	case MovementEntry, MovementExit, MovementCorrection:
		return true
	}
	return false
}

const (
	// DefaultInitialReason is logged for the opening ENTRY of a created item.
	DefaultInitialReason = "Initial Stock"
	// DefaultReceiveReason is logged when a receipt creates a previously unknown item.
	DefaultReceiveReason = "Initial Entry (New Item)"
)

// Item is a tracked stock unit.
type Item struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Category     string    `json:"category"`
	Quantity     int       `json:"quantity"`
	MinThreshold int       `json:"minThreshold"`
	Location     string    `json:"location,omitempty"`
	Reference    string    `json:"reference,omitempty"`
	LastUpdated  time.Time `json:"lastUpdated"`
}

// LowStock reports whether the item is at or below its reorder threshold.
func (i Item) LowStock() bool {
	return i.Quantity <= i.MinThreshold
}

// Movement is an immutable ledger entry.
type Movement struct {
	ID             string       `json:"id"`
	ItemID         string       `json:"itemId"`
	ItemName       string       `json:"itemName"`
	Kind           MovementKind `json:"kind"`
	SignedQuantity int          `json:"signedQuantity"`
	Timestamp      time.Time    `json:"timestamp"`
	Reason         string       `json:"reason,omitempty"`
}

// ItemInput carries caller-supplied fields for a new item.
type ItemInput struct {
	Name         string
	Category     string
	Quantity     int
	MinThreshold int
	Location     string
	Reference    string
}

// ItemPatch is a partial update; nil fields are left untouched.
type ItemPatch struct {
	Name         *string
	Category     *string
	Quantity     *int
	MinThreshold *int
	Location     *string
	Reference    *string
}

// ItemFilter narrows Items results.
type ItemFilter struct {
	Search   string
	Category string
}

// MovementFilter narrows Movements results.
type MovementFilter struct {
	Kind   MovementKind
	ItemID string
	Limit  int
}

// CategoryTotal aggregates on-hand units per category.
type CategoryTotal struct {
	Category string `json:"category"`
	Units    int    `json:"units"`
}

// Summary is the dashboard projection over the item collection.
type Summary struct {
	TotalUnits      int             `json:"totalUnits"`
	ItemCount       int             `json:"itemCount"`
	LowStockCount   int             `json:"lowStockCount"`
	OutOfStockCount int             `json:"outOfStockCount"`
	CategoryCount   int             `json:"categoryCount"`
	ByCategory      []CategoryTotal `json:"byCategory"`
}

// ErrNameRequired triggered when an item would end up without a name.
var ErrNameRequired = fmt.Errorf("inventory: name is required: %w", shared.ErrValidation)

// ErrNegativeQuantity triggered when a quantity or threshold field is below zero.
var ErrNegativeQuantity = fmt.Errorf("inventory: quantity and threshold must be >= 0: %w", shared.ErrValidation)

// ErrInvalidQuantity indicates a non-positive movement quantity.
var ErrInvalidQuantity = fmt.Errorf("inventory: movement quantity must be > 0: %w", shared.ErrValidation)

// ErrQuantityOverflow indicates an entry that would push a quantity past the int range.
var ErrQuantityOverflow = fmt.Errorf("inventory: resulting quantity is too large: %w", shared.ErrValidation)

// ErrInvalidKind indicates a movement kind other than ENTRY or EXIT.
var ErrInvalidKind = fmt.Errorf("inventory: movement kind must be ENTRY or EXIT: %w", shared.ErrValidation)

// ErrItemNotFound indicates an unknown item id or name.
var ErrItemNotFound = fmt.Errorf("inventory: item %w", shared.ErrNotFound)

// InsufficientStockError reports a rejected movement that would leave a negative quantity.
type InsufficientStockError struct {
	ItemID    string
	Available int
	Requested int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("inventory: insufficient stock for item %s: available %d, requested %d", e.ItemID, e.Available, e.Requested)
}

// Unwrap lets errors.Is match shared.ErrInsufficientStock.
func (e *InsufficientStockError) Unwrap() error {
	return shared.ErrInsufficientStock
}

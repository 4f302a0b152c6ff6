package procurement

import (
	"fmt"

	"github.com/odyssey-erp/itstock/internal/shared"
)

// ReorderBuffer is added on top of the deficit when suggesting an order quantity.
const ReorderBuffer = 5

// Source tells where a final list line came from.
type Source string

const (
	SourceLowStock Source = "low-stock"
	SourceManual   Source = "manual"
)

// Suggestion is a derived reorder row for an item at or below its threshold.
type Suggestion struct {
	ItemID            string `json:"itemId"`
	Name              string `json:"name"`
	Category          string `json:"category"`
	Quantity          int    `json:"quantity"`
	MinThreshold      int    `json:"minThreshold"`
	Deficit           int    `json:"deficit"`
	SuggestedQuantity int    `json:"suggestedQuantity"`
}

// ManualItem is a user-added shopping row, independent of the ledger.
type ManualItem struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
	Note     string `json:"note,omitempty"`
}

// Override adjusts a suggestion before the final list is built.
type Override struct {
	ItemID   string `json:"itemId"`
	Quantity *int   `json:"quantity,omitempty"`
	Note     string `json:"note,omitempty"`
}

// Line is one row of the final shopping list.
type Line struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
	Note     string `json:"note,omitempty"`
	Source   Source `json:"source"`
}

var (
	ErrNameRequired    = fmt.Errorf("procurement: name is required: %w", shared.ErrValidation)
	ErrInvalidQuantity = fmt.Errorf("procurement: quantity must be at least 1: %w", shared.ErrValidation)
	ErrEmptyList       = fmt.Errorf("procurement: shopping list is empty: %w", shared.ErrValidation)
	ErrNoAdvisor       = fmt.Errorf("procurement: advice is not configured: %w", shared.ErrServiceUnavailable)
)

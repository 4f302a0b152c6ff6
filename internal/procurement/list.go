package procurement

import (
	"fmt"
	"math"
	"strings"

	"github.com/odyssey-erp/itstock/internal/inventory"
)

// DeriveLowStock projects items at or below their threshold into reorder suggestions,
// keeping item order.
func DeriveLowStock(items []inventory.Item) []Suggestion {
	out := make([]Suggestion, 0)
	for _, it := range items {
		if !it.LowStock() {
			continue
		}
		deficit := it.MinThreshold - it.Quantity
		suggested := math.MaxInt
		if deficit <= math.MaxInt-ReorderBuffer {
			suggested = max(1, deficit+ReorderBuffer)
		}
		out = append(out, Suggestion{
			ItemID:            it.ID,
			Name:              it.Name,
			Category:          it.Category,
			Quantity:          it.Quantity,
			MinThreshold:      it.MinThreshold,
			Deficit:           deficit,
			SuggestedQuantity: suggested,
		})
	}
	return out
}

// BuildFinalList merges suggestions, per-item overrides and manual rows. Auto rows whose
// effective quantity is zero are dropped; manual rows follow the auto rows.
func BuildFinalList(suggestions []Suggestion, overrides []Override, manual []ManualItem) []Line {
	byItem := make(map[string]Override, len(overrides))
	for _, o := range overrides {
		byItem[o.ItemID] = o
	}
	lines := make([]Line, 0, len(suggestions)+len(manual))
	for _, s := range suggestions {
		qty := s.SuggestedQuantity
		var note string
		if o, ok := byItem[s.ItemID]; ok {
			if o.Quantity != nil {
				qty = max(0, *o.Quantity)
			}
			note = strings.TrimSpace(o.Note)
		}
		if qty == 0 {
			continue
		}
		lines = append(lines, Line{Name: s.Name, Quantity: qty, Note: note, Source: SourceLowStock})
	}
	for _, m := range manual {
		lines = append(lines, Line{Name: m.Name, Quantity: m.Quantity, Note: m.Note, Source: SourceManual})
	}
	return lines
}

// FormatChecklist renders lines as a plain-text checklist, one row per line.
func FormatChecklist(lines []Line) string {
	var b strings.Builder
	for i, l := range lines {
		if i > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "[ ] %s: %d unit(s)", l.Name, l.Quantity)
		if l.Note != "" {
			fmt.Fprintf(&b, " -- Note: %s", l.Note)
		}
	}
	return b.String()
}

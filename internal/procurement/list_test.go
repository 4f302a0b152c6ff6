package procurement

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/odyssey-erp/itstock/internal/inventory"
)

func intPtr(v int) *int { return &v }

func TestDeriveLowStock(t *testing.T) {
	items := []inventory.Item{
		{ID: "a", Name: "Mouse", Quantity: 1, MinThreshold: 3},
		{ID: "b", Name: "Laptop", Quantity: 10, MinThreshold: 2},
		{ID: "c", Name: "Cable", Quantity: 4, MinThreshold: 4},
		{ID: "d", Name: "Toner", Quantity: 0, MinThreshold: 0},
		{ID: "e", Name: "Switch", Quantity: 5, MinThreshold: 1},
	}

	got := DeriveLowStock(items)
	require.Len(t, got, 3)
	require.Equal(t, "a", got[0].ItemID)
	require.Equal(t, 2, got[0].Deficit)
	require.Equal(t, 7, got[0].SuggestedQuantity)
	require.Equal(t, "c", got[1].ItemID)
	require.Equal(t, 0, got[1].Deficit)
	require.Equal(t, 5, got[1].SuggestedQuantity)
	require.Equal(t, "d", got[2].ItemID)
	require.Equal(t, 5, got[2].SuggestedQuantity)

	huge := DeriveLowStock([]inventory.Item{{ID: "z", Name: "Labels", MinThreshold: math.MaxInt}})
	require.Len(t, huge, 1)
	require.Equal(t, math.MaxInt, huge[0].Deficit)
	require.Equal(t, math.MaxInt, huge[0].SuggestedQuantity)

	require.NotNil(t, DeriveLowStock(nil))
	require.Empty(t, DeriveLowStock(nil))
}

func TestBuildFinalList(t *testing.T) {
	suggestions := []Suggestion{
		{ItemID: "a", Name: "Mouse", SuggestedQuantity: 7},
		{ItemID: "b", Name: "Cable", SuggestedQuantity: 5},
		{ItemID: "c", Name: "Toner", SuggestedQuantity: 6},
	}
	overrides := []Override{
		{ItemID: "a", Quantity: intPtr(12), Note: " wireless "},
		{ItemID: "b", Quantity: intPtr(0)},
		{ItemID: "c", Quantity: intPtr(-4)},
		{ItemID: "zz", Quantity: intPtr(3)},
	}
	manual := []ManualItem{{ID: "m1", Name: "Monitor arm", Quantity: 2, Note: "VESA 100"}}

	lines := BuildFinalList(suggestions, overrides, manual)
	require.Equal(t, []Line{
		{Name: "Mouse", Quantity: 12, Note: "wireless", Source: SourceLowStock},
		{Name: "Monitor arm", Quantity: 2, Note: "VESA 100", Source: SourceManual},
	}, lines)

	lines = BuildFinalList(suggestions, []Override{{ItemID: "b", Note: "cat6"}}, nil)
	require.Len(t, lines, 3)
	require.Equal(t, Line{Name: "Cable", Quantity: 5, Note: "cat6", Source: SourceLowStock}, lines[1])
}

func TestFormatChecklist(t *testing.T) {
	text := FormatChecklist([]Line{
		{Name: "Mouse", Quantity: 7, Source: SourceLowStock},
		{Name: "Monitor arm", Quantity: 2, Note: "VESA 100", Source: SourceManual},
	})
	require.Equal(t, "[ ] Mouse: 7 unit(s)\n[ ] Monitor arm: 2 unit(s) -- Note: VESA 100", text)
	require.Equal(t, "", FormatChecklist(nil))
}

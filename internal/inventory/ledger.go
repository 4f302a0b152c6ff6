package inventory

import (
	"math"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/text/cases"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Ledger owns the item collection and the movement log as one consistency unit.
// It is not safe for concurrent use; Service serialises access to it.
type Ledger struct {
	items     []Item
	movements []Movement
	now       func() time.Time
	newID     func() string
}

// LedgerOption customises a Ledger.
type LedgerOption func(*Ledger)

// WithClock overrides the timestamp source.
func WithClock(now func() time.Time) LedgerOption {
	return func(l *Ledger) {
		if now != nil {
			l.now = now
		}
	}
}

// WithIDGenerator overrides the id source.
func WithIDGenerator(fn func() string) LedgerOption {
	return func(l *Ledger) {
		if fn != nil {
			l.newID = fn
		}
	}
}

// NewLedger builds a Ledger from previously loaded collections.
func NewLedger(items []Item, movements []Movement, opts ...LedgerOption) *Ledger {
	l := &Ledger{
		items:     slices.Clone(items),
		movements: slices.Clone(movements),
		now:       time.Now,
		newID:     uuid.NewString,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

func (l *Ledger) timestamp() time.Time {
	return l.now().UTC().Round(0)
}

// CreateItem adds an item and logs its opening stock as an ENTRY movement when quantity > 0.
func (l *Ledger) CreateItem(input ItemInput, initialReason string) (Item, error) {
	input.Name = strings.TrimSpace(input.Name)
	if input.Name == "" {
		return Item{}, ErrNameRequired
	}
	if input.Quantity < 0 || input.MinThreshold < 0 {
		return Item{}, ErrNegativeQuantity
	}
	now := l.timestamp()
	item := Item{
		ID:           l.newID(),
		Name:         input.Name,
		Category:     input.Category,
		Quantity:     input.Quantity,
		MinThreshold: input.MinThreshold,
		Location:     input.Location,
		Reference:    input.Reference,
		LastUpdated:  now,
	}
	l.items = append(l.items, item)
	if item.Quantity > 0 {
		if initialReason == "" {
			initialReason = DefaultInitialReason
		}
		l.appendMovement(item, MovementEntry, item.Quantity, initialReason, now)
	}
	return item, nil
}

// EditItem applies a direct field patch. Quantity changes made here are silent overwrites
// and never reach the movement log.
func (l *Ledger) EditItem(id string, patch ItemPatch) (Item, error) {
	idx := l.indexOf(id)
	if idx < 0 {
		return Item{}, ErrItemNotFound
	}
	item := l.items[idx]
	if patch.Name != nil {
		item.Name = strings.TrimSpace(*patch.Name)
	}
	if patch.Category != nil {
		item.Category = *patch.Category
	}
	if patch.Quantity != nil {
		item.Quantity = *patch.Quantity
	}
	if patch.MinThreshold != nil {
		item.MinThreshold = *patch.MinThreshold
	}
	if patch.Location != nil {
		item.Location = *patch.Location
	}
	if patch.Reference != nil {
		item.Reference = *patch.Reference
	}
	if item.Name == "" {
		return Item{}, ErrNameRequired
	}
	if item.Quantity < 0 || item.MinThreshold < 0 {
		return Item{}, ErrNegativeQuantity
	}
	item.LastUpdated = l.timestamp()
	l.items[idx] = item
	return item, nil
}

// DeleteItem removes the item. Its movements stay in the log. Unknown ids are ignored.
func (l *Ledger) DeleteItem(id string) bool {
	idx := l.indexOf(id)
	if idx < 0 {
		return false
	}
	l.items = slices.Delete(l.items, idx, idx+1)
	return true
}

// ApplyMovement changes the item quantity by an ENTRY or EXIT and logs exactly one movement.
// Nothing changes when the result would be negative.
func (l *Ledger) ApplyMovement(itemID string, kind MovementKind, quantity int, reason string) (Item, Movement, error) {
	if kind != MovementEntry && kind != MovementExit {
		return Item{}, Movement{}, ErrInvalidKind
	}
	if quantity <= 0 {
		return Item{}, Movement{}, ErrInvalidQuantity
	}
	idx := l.indexOf(itemID)
	if idx < 0 {
		return Item{}, Movement{}, ErrItemNotFound
	}
	item := l.items[idx]
	if kind == MovementEntry && quantity > math.MaxInt-item.Quantity {
		return Item{}, Movement{}, ErrQuantityOverflow
	}
	signed := quantity
	if kind == MovementExit {
		signed = -quantity
	}
	newQty := item.Quantity + signed
	if newQty < 0 {
		return Item{}, Movement{}, &InsufficientStockError{ItemID: item.ID, Available: item.Quantity, Requested: quantity}
	}
	now := l.timestamp()
	item.Quantity = newQty
	item.LastUpdated = now
	l.items[idx] = item
	mv := l.appendMovement(item, kind, signed, reason, now)
	return item, mv, nil
}

// Receipt describes the outcome of ReceiveByName.
type Receipt struct {
	Item    Item `json:"item"`
	Created bool `json:"created"`
}

// ReceiveByName books an entry against the item whose name matches case-insensitively,
// creating the item first when no match exists.
func (l *Ledger) ReceiveByName(input ItemInput, reason string) (Receipt, error) {
	if input.Quantity <= 0 {
		return Receipt{}, ErrInvalidQuantity
	}
	if existing, ok := l.findByName(input.Name); ok {
		item, _, err := l.ApplyMovement(existing.ID, MovementEntry, input.Quantity, reason)
		if err != nil {
			return Receipt{}, err
		}
		return Receipt{Item: item}, nil
	}
	if reason == "" {
		reason = DefaultReceiveReason
	}
	item, err := l.CreateItem(input, reason)
	if err != nil {
		return Receipt{}, err
	}
	return Receipt{Item: item, Created: true}, nil
}

func (l *Ledger) appendMovement(item Item, kind MovementKind, signed int, reason string, at time.Time) Movement {
	mv := Movement{
		ID:             l.newID(),
		ItemID:         item.ID,
		ItemName:       item.Name,
		Kind:           kind,
		SignedQuantity: signed,
		Timestamp:      at,
		Reason:         reason,
	}
	l.movements = append(l.movements, mv)
	return mv
}

func (l *Ledger) indexOf(id string) int {
	return slices.IndexFunc(l.items, func(it Item) bool { return it.ID == id })
}

// Item returns one item by id.
func (l *Ledger) Item(id string) (Item, error) {
	idx := l.indexOf(id)
	if idx < 0 {
		return Item{}, ErrItemNotFound
	}
	return l.items[idx], nil
}

// FindByName resolves a trimmed, case-insensitive name to the first matching item.
func (l *Ledger) FindByName(name string) (Item, error) {
	item, ok := l.findByName(name)
	if !ok {
		return Item{}, ErrItemNotFound
	}
	return item, nil
}

func (l *Ledger) findByName(name string) (Item, bool) {
	fold := cases.Fold()
	want := fold.String(strings.TrimSpace(name))
	if want == "" {
		return Item{}, false
	}
	for _, it := range l.items {
		if fold.String(strings.TrimSpace(it.Name)) == want {
			return it, true
		}
	}
	return Item{}, false
}

// Items returns a copy of the collection in insertion order, narrowed by filter.
func (l *Ledger) Items(filter ItemFilter) []Item {
	fold := cases.Fold()
	search := fold.String(strings.TrimSpace(filter.Search))
	out := make([]Item, 0, len(l.items))
	for _, it := range l.items {
		if filter.Category != "" && it.Category != filter.Category {
			continue
		}
		if search != "" &&
			!strings.Contains(fold.String(it.Name), search) &&
			!strings.Contains(fold.String(it.Location), search) &&
			!strings.Contains(fold.String(it.Reference), search) {
			continue
		}
		out = append(out, it)
	}
	return out
}

// Movements returns the log most-recent-first. Entries sharing a timestamp keep reverse
// append order.
func (l *Ledger) Movements(filter MovementFilter) []Movement {
	out := make([]Movement, 0, len(l.movements))
	for i := len(l.movements) - 1; i >= 0; i-- {
		mv := l.movements[i]
		if filter.Kind != "" && mv.Kind != filter.Kind {
			continue
		}
		if filter.ItemID != "" && mv.ItemID != filter.ItemID {
			continue
		}
		out = append(out, mv)
	}
	slices.SortStableFunc(out, func(a, b Movement) int {
		return b.Timestamp.Compare(a.Timestamp)
	})
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out
}

// CategoryUsage counts items carrying the exact category label.
func (l *Ledger) CategoryUsage(category string) int {
	n := 0
	for _, it := range l.items {
		if it.Category == category {
			n++
		}
	}
	return n
}

// Summary computes the dashboard projection.
func (l *Ledger) Summary() Summary {
	s := Summary{ItemCount: len(l.items)}
	totals := make(map[string]int)
	for _, it := range l.items {
		s.TotalUnits = addCapped(s.TotalUnits, it.Quantity)
		if it.LowStock() {
			s.LowStockCount++
		}
		if it.Quantity == 0 {
			s.OutOfStockCount++
		}
		totals[it.Category] = addCapped(totals[it.Category], it.Quantity)
	}
	s.CategoryCount = len(totals)
	s.ByCategory = make([]CategoryTotal, 0, len(totals))
	for cat, units := range totals {
		s.ByCategory = append(s.ByCategory, CategoryTotal{Category: cat, Units: units})
	}
	col := collate.New(language.Und)
	slices.SortFunc(s.ByCategory, func(a, b CategoryTotal) int {
		if a.Units != b.Units {
			return b.Units - a.Units
		}
		return col.CompareString(a.Category, b.Category)
	})
	return s
}

// addCapped adds two non-negative quantities, saturating at math.MaxInt.
func addCapped(a, b int) int {
	if b > math.MaxInt-a {
		return math.MaxInt
	}
	return a + b
}

// Snapshot returns copies of both collections for persistence.
func (l *Ledger) Snapshot() ([]Item, []Movement) {
	return slices.Clone(l.items), slices.Clone(l.movements)
}

package categories

import "strings"

// DefaultCategories seeds the set when nothing usable is stored.
var DefaultCategories = []string{
	"Hardware",
	"Components",
	"Networking",
	"Storage",
	"Peripherals",
	"Software / Licenses",
	"Accessories",
	"Consumables",
	"Security / CCTV",
	"Tools",
}

// Defaults returns a fresh copy of DefaultCategories.
func Defaults() []string {
	return append([]string(nil), DefaultCategories...)
}

// Set holds unique category labels in insertion order. Comparison is exact.
type Set struct {
	names []string
}

// NewSet builds a Set from stored labels, skipping blanks and duplicates.
func NewSet(names []string) *Set {
	s := &Set{}
	for _, name := range names {
		s.Add(name)
	}
	return s
}

// Add appends a trimmed label. It reports whether the set changed.
func (s *Set) Add(name string) bool {
	name = strings.TrimSpace(name)
	if name == "" || s.Contains(name) {
		return false
	}
	s.names = append(s.names, name)
	return true
}

// Remove deletes a label if present. It reports whether the set changed.
func (s *Set) Remove(name string) bool {
	for i, existing := range s.names {
		if existing == name {
			s.names = append(s.names[:i], s.names[i+1:]...)
			return true
		}
	}
	return false
}

// Contains reports whether the label is present.
func (s *Set) Contains(name string) bool {
	for _, existing := range s.names {
		if existing == name {
			return true
		}
	}
	return false
}

// List returns a copy of the labels in insertion order.
func (s *Set) List() []string {
	out := make([]string, len(s.names))
	copy(out, s.names)
	return out
}

package resolve

import (
	"strings"
)

// NamePair is a lower-cased (first, last) name tuple used as the engagement
// membership key.
type NamePair struct {
	First string
	Last  string
}

// NamePairSet holds the name pairs of everyone with a named activity in the
// current scope. It is rebuilt from the filtered activity set on every
// interaction, never persisted.
type NamePairSet map[NamePair]struct{}

// NewNamePairSet builds the set. Add lower-cases and trims both parts and
// skips entries with an empty first name (unnamed activity rows).
func NewNamePairSet() NamePairSet {
	return make(NamePairSet)
}

// Add inserts the (first, last) pair after trimming and lower-casing.
// Pairs with an empty first name are ignored.
func (s NamePairSet) Add(first, last string) {
	first = strings.ToLower(strings.TrimSpace(first))
	if first == "" {
		return
	}
	last = strings.ToLower(strings.TrimSpace(last))
	s[NamePair{First: first, Last: last}] = struct{}{}
}

// MatchDisplayName splits a display name on whitespace and tests the
// first+last token pair for membership. Names with fewer than two tokens
// never match. Middle tokens are ignored: "Jane Q. Doe" compares as
// ("jane", "doe"). That can conflate distinct people who share first and
// last names; the behavior is intentional and relied upon downstream.
func (s NamePairSet) MatchDisplayName(name string) bool {
	parts := strings.Fields(strings.TrimSpace(name))
	if len(parts) < 2 {
		return false
	}
	pair := NamePair{
		First: strings.ToLower(parts[0]),
		Last:  strings.ToLower(parts[len(parts)-1]),
	}
	_, ok := s[pair]
	return ok
}

// Package resolve canonicalizes customer identifiers and person names for
// cross-source matching.
package resolve

import (
	"strings"
)

// idPrefixes lists the vendor prefixes removed during identifier
// normalization. Order matters: H-CIT- must be removed before H- and CIT-
// so the compound prefix never leaves a fragment behind.
var idPrefixes = []string{"H-CIT-", "H-", "CIT-"}

// NormalizeID canonicalizes a raw customer/party identifier by:
//  1. Trimming whitespace
//  2. Converting to uppercase
//  3. Removing the vendor prefixes H-CIT-, H-, CIT- (each at most once,
//     in that order)
//
// Prefix removal is substring removal, not anchored to position 0 — the
// legacy cleansing behaved that way and downstream joins depend on it.
// The transform is idempotent. The ok result is false for missing input
// (empty after trimming), matching null-in/null-out key semantics.
func NormalizeID(raw string) (string, bool) {
	id := strings.ToUpper(strings.TrimSpace(raw))
	if id == "" {
		return "", false
	}

	for _, prefix := range idPrefixes {
		id = strings.Replace(id, prefix, "", 1)
	}

	return id, true
}

// IDSet is a membership set of normalized identifiers.
type IDSet map[string]struct{}

// NewIDSet normalizes each raw identifier and collects the non-missing
// results into a set.
func NewIDSet(raws []string) IDSet {
	set := make(IDSet, len(raws))
	for _, raw := range raws {
		if id, ok := NormalizeID(raw); ok {
			set[id] = struct{}{}
		}
	}
	return set
}

// Contains reports whether the normalized form of raw is in the set.
func (s IDSet) Contains(raw string) bool {
	id, ok := NormalizeID(raw)
	if !ok {
		return false
	}
	_, present := s[id]
	return present
}

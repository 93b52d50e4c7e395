// Package classify derives per-contact engagement flags and the tri-state
// status used by the contact card view.
package classify

import (
	"strings"

	"github.com/sells-group/engage-cli/internal/dataset"
	"github.com/sells-group/engage-cli/internal/resolve"
)

// Status is the tri-state contact classification.
type Status string

const (
	// StatusAffinity: the contact carries a sales affinity tag. Always
	// outranks behavioral engagement, regardless of recency or volume.
	StatusAffinity Status = "affinity"
	// StatusEngaged: no tag, but the contact's name matches a named
	// activity in the current scope.
	StatusEngaged Status = "engaged"
	// StatusUnengaged: neither.
	StatusUnengaged Status = "unengaged"
)

// StatusColors is the presentation mapping the legacy dashboard used for
// its contact cards. The core never branches on colors; this exists so the
// presentation collaborator renders identically.
var StatusColors = map[Status]string{
	StatusAffinity:  "purple",
	StatusEngaged:   "yellow",
	StatusUnengaged: "red",
}

// ParseStatus maps a string (status name or legacy color) to a Status.
func ParseStatus(s string) (Status, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "affinity", "purple":
		return StatusAffinity, true
	case "engaged", "yellow":
		return StatusEngaged, true
	case "unengaged", "red":
		return StatusUnengaged, true
	}
	return "", false
}

// Contact is a dataset contact plus its derived classification.
type Contact struct {
	dataset.Contact
	IsEngaged bool   `json:"is_engaged"`
	Status    Status `json:"status"`
}

// Classify derives the engagement flag and status for one contact.
// Precedence is fixed: affinity, then engaged, then unengaged.
func Classify(c dataset.Contact, engaged resolve.NamePairSet) Contact {
	out := Contact{Contact: c}
	out.IsEngaged = engaged.MatchDisplayName(c.DisplayName)

	switch {
	case strings.TrimSpace(c.AffinityCode) != "":
		out.Status = StatusAffinity
	case out.IsEngaged:
		out.Status = StatusEngaged
	default:
		out.Status = StatusUnengaged
	}
	return out
}

// Contacts classifies a slice of contacts against one engagement set.
func Contacts(cs []dataset.Contact, engaged resolve.NamePairSet) []Contact {
	out := make([]Contact, 0, len(cs))
	for _, c := range cs {
		out = append(out, Classify(c, engaged))
	}
	return out
}

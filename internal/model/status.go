// Application status state machine.
//
// Valid status graph:
//
//	Not Applied ──► Applied ──► Interview ──► Offer
//	     │             │             │          │
//	     └─────────────┴─────────────┴──────────┴──► Rejected / Closed
//
// Rejected and Closed are terminal states.
package model

import "fmt"

// Status tracks where a job sits in the user's application funnel.
type Status string

const (
	StatusNotApplied Status = "Not Applied"
	StatusApplied    Status = "Applied"
	StatusRejected   Status = "Rejected"
	StatusInterview  Status = "Interview"
	StatusOffer      Status = "Offer"
	StatusClosed     Status = "Closed"
)

// validTransitions lists every allowed (from → to) pair.
var validTransitions = map[Status][]Status{
	StatusNotApplied: {StatusApplied, StatusClosed},
	StatusApplied:    {StatusInterview, StatusRejected, StatusClosed},
	StatusInterview:  {StatusOffer, StatusRejected, StatusClosed},
	StatusOffer:      {StatusRejected, StatusClosed},
	// Rejected and Closed are terminal — no outgoing transitions
}

// ParseStatus converts a raw string to a Status, returning an error for
// unknown values.
func ParseStatus(s string) (Status, error) {
	st := Status(s)
	switch st {
	case StatusNotApplied, StatusApplied, StatusRejected, StatusInterview, StatusOffer, StatusClosed:
		return st, nil
	}
	return "", fmt.Errorf("unknown application status %q", s)
}

// IsTransitionAllowed returns true when moving from → to is permitted by the
// state machine.
func IsTransitionAllowed(from, to Status) bool {
	allowed, ok := validTransitions[from]
	if !ok {
		return false // terminal state — no outgoing transitions
	}
	for _, s := range allowed {
		if s == to {
			return true
		}
	}
	return false
}

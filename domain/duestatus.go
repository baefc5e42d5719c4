package domain

import "time"

// DueState classifies a card relative to the current time.
type DueState string

const (
	DueNone    DueState = "none"
	DueSoon    DueState = "soon"
	DueOverdue DueState = "overdue"
)

// dueSoonWindow is how far ahead of the due date a card counts as "soon".
const dueSoonWindow = 24 * time.Hour

// DueState returns the card's classification at the given instant. Done
// cards and cards without a due date are always DueNone. The result is a
// pure function of elapsed time and must be recomputed on every poll,
// never cached.
func (c Card) DueState(now time.Time) DueState {
	if c.Done || c.DueDate == nil {
		return DueNone
	}
	remaining := c.DueDate.Sub(now)
	switch {
	case remaining <= 0:
		return DueOverdue
	case remaining <= dueSoonWindow:
		return DueSoon
	}
	return DueNone
}

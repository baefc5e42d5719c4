package domain

import (
	"math"
	"time"
)

// LoadShare is the weekly completed-task split between the two partners.
type LoadShare struct {
	MeCount        int       `json:"meCount"`
	PartnerCount   int       `json:"partnerCount"`
	TotalCount     int       `json:"totalCount"`
	MePercent      int       `json:"mePercent"`
	PartnerPercent int       `json:"partnerPercent"`
	WeekStart      time.Time `json:"weekStart"`
	WeekEnd        time.Time `json:"weekEnd"`
}

// WeekWindow returns the Monday-through-Sunday window of the week
// containing ref, in ref's location. The window is inclusive on both
// ends: start is Monday 00:00:00.000 and end is Sunday 23:59:59.999.
func WeekWindow(ref time.Time) (start, end time.Time) {
	// Monday is day 0 of the week regardless of locale.
	offset := (int(ref.Weekday()) + 6) % 7
	y, m, d := ref.Date()
	start = time.Date(y, m, d-offset, 0, 0, 0, 0, ref.Location())
	end = start.AddDate(0, 0, 7).Add(-time.Millisecond)
	return start, end
}

// WeeklyLoadShare counts cards completed during the week containing ref
// and splits them between the two partners. A card counts iff it is done,
// has a completion timestamp, and that timestamp falls inside the window.
// Unassigned cards count toward neither partner nor the total, so the two
// percentages always sum to 100 whenever the total is positive:
// PartnerPercent is derived as the complement rather than rounded
// independently.
func WeeklyLoadShare(b Board, ref time.Time) LoadShare {
	start, end := WeekWindow(ref)
	share := LoadShare{WeekStart: start, WeekEnd: end}
	for _, c := range b.Cards {
		if !c.Done || c.CompletedAt == nil {
			continue
		}
		at := *c.CompletedAt
		if at.Before(start) || at.After(end) {
			continue
		}
		switch c.Assignee {
		case AssigneeMe:
			share.MeCount++
		case AssigneePartner:
			share.PartnerCount++
		}
	}
	share.TotalCount = share.MeCount + share.PartnerCount
	if share.TotalCount > 0 {
		share.MePercent = int(math.Round(float64(share.MeCount) / float64(share.TotalCount) * 100))
		share.PartnerPercent = 100 - share.MePercent
	}
	return share
}

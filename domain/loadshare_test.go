package domain

import (
	"testing"
	"time"
)

func TestWeekWindowMondayBased(t *testing.T) {
	cases := []struct {
		name string
		ref  time.Time
	}{
		{"wednesday", time.Date(2026, 8, 19, 15, 30, 0, 0, time.UTC)},
		{"monday midnight", time.Date(2026, 8, 17, 0, 0, 0, 0, time.UTC)},
		{"sunday evening", time.Date(2026, 8, 23, 22, 0, 0, 0, time.UTC)},
	}
	wantStart := time.Date(2026, 8, 17, 0, 0, 0, 0, time.UTC)
	wantEnd := time.Date(2026, 8, 23, 23, 59, 59, 999000000, time.UTC)
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			start, end := WeekWindow(tc.ref)
			if !start.Equal(wantStart) {
				t.Fatalf("week start = %v, want %v", start, wantStart)
			}
			if !end.Equal(wantEnd) {
				t.Fatalf("week end = %v, want %v", end, wantEnd)
			}
		})
	}
}

func completedCard(id string, a Assignee, at time.Time) Card {
	return Card{ID: id, Title: "t", Assignee: a, Done: true, CompletedAt: &at}
}

func boardWith(cards ...Card) Board {
	b := Board{
		Cards:       map[string]Card{},
		Columns:     map[string]Column{"done": {ID: "done", Title: "Done"}},
		ColumnOrder: []string{"done"},
	}
	for _, c := range cards {
		b.Cards[c.ID] = c
		col := b.Columns["done"]
		col.CardIDs = append(col.CardIDs, c.ID)
		b.Columns["done"] = col
	}
	return b
}

func TestWeeklyLoadShareCounts(t *testing.T) {
	ref := time.Date(2026, 8, 19, 12, 0, 0, 0, time.UTC)
	start, end := WeekWindow(ref)

	b := boardWith(
		completedCard("a", AssigneeMe, start),                             // window start, inclusive
		completedCard("b", AssigneeMe, ref),                               // mid-week
		completedCard("c", AssigneePartner, end),                          // window end, inclusive
		completedCard("d", AssigneePartner, start.Add(-time.Millisecond)), // last week
		completedCard("e", AssigneeNone, ref),                             // unassigned, excluded
	)

	share := WeeklyLoadShare(b, ref)
	if share.MeCount != 2 || share.PartnerCount != 1 || share.TotalCount != 3 {
		t.Fatalf("unexpected counts: %+v", share)
	}
	if share.MePercent != 67 || share.PartnerPercent != 33 {
		t.Fatalf("unexpected percentages: %+v", share)
	}
	if share.MePercent+share.PartnerPercent != 100 {
		t.Fatalf("percentages must sum to 100, got %d", share.MePercent+share.PartnerPercent)
	}
}

func TestWeeklyLoadShareZeroTotal(t *testing.T) {
	ref := time.Now()
	share := WeeklyLoadShare(SeedBoard(), ref)
	if share.TotalCount != 0 || share.MePercent != 0 || share.PartnerPercent != 0 {
		t.Fatalf("expected all-zero share on seed board, got %+v", share)
	}
}

func TestWeeklyLoadShareAfterToggle(t *testing.T) {
	b := SeedBoard()
	now := time.Now()
	b.ToggleDone("c2", now) // c2 is assigned to "me" in the seed

	share := WeeklyLoadShare(b, now)
	if share.MeCount != 1 || share.PartnerCount != 0 || share.TotalCount != 1 {
		t.Fatalf("unexpected counts: %+v", share)
	}
	if share.MePercent != 100 || share.PartnerPercent != 0 {
		t.Fatalf("unexpected percentages: %+v", share)
	}
}

func TestWeeklyLoadShareIgnoresOpenCards(t *testing.T) {
	ref := time.Now()
	b := boardWith(Card{ID: "open", Title: "t", Assignee: AssigneeMe})
	share := WeeklyLoadShare(b, ref)
	if share.TotalCount != 0 {
		t.Fatalf("open card must not count, got %+v", share)
	}
}

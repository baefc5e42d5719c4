package domain

import (
	"fmt"
	"time"
)

// Assignee identifies which of the two partners a card belongs to.
type Assignee string

const (
	AssigneeNone    Assignee = ""
	AssigneeMe      Assignee = "me"
	AssigneePartner Assignee = "partner"
)

// Valid reports whether a is one of the known assignee values.
func (a Assignee) Valid() bool {
	switch a {
	case AssigneeNone, AssigneeMe, AssigneePartner:
		return true
	}
	return false
}

// Card is a single board item.
type Card struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Assignee    Assignee   `json:"assignee,omitempty"`
	DueDate     *time.Time `json:"dueDate,omitempty"`
	Done        bool       `json:"done,omitempty"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
}

// Column is an ordered bucket of card ids representing a workflow stage.
type Column struct {
	ID      string   `json:"id"`
	Title   string   `json:"title"`
	CardIDs []string `json:"cardIds"`
}

// Board is the full normalized board state: cards, columns and the
// display order of columns.
type Board struct {
	Cards       map[string]Card   `json:"cards"`
	Columns     map[string]Column `json:"columns"`
	ColumnOrder []string          `json:"columnOrder"`
}

// Clone returns a deep copy of the board. Mutating the copy never
// affects the original.
func (b Board) Clone() Board {
	out := Board{
		Cards:       make(map[string]Card, len(b.Cards)),
		Columns:     make(map[string]Column, len(b.Columns)),
		ColumnOrder: append([]string(nil), b.ColumnOrder...),
	}
	for id, c := range b.Cards {
		if c.DueDate != nil {
			due := *c.DueDate
			c.DueDate = &due
		}
		if c.CompletedAt != nil {
			at := *c.CompletedAt
			c.CompletedAt = &at
		}
		out.Cards[id] = c
	}
	for id, col := range b.Columns {
		col.CardIDs = append([]string(nil), col.CardIDs...)
		out.Columns[id] = col
	}
	return out
}

// Validate checks the board's structural invariants: ColumnOrder is a
// permutation of the column keys, every referenced card exists, and every
// card sits in exactly one column exactly once.
func (b Board) Validate() error {
	if len(b.ColumnOrder) != len(b.Columns) {
		return fmt.Errorf("column order lists %d columns, board has %d", len(b.ColumnOrder), len(b.Columns))
	}
	seenCols := make(map[string]bool, len(b.ColumnOrder))
	for _, id := range b.ColumnOrder {
		if seenCols[id] {
			return fmt.Errorf("column %s appears twice in column order", id)
		}
		if _, ok := b.Columns[id]; !ok {
			return fmt.Errorf("column order references unknown column %s", id)
		}
		seenCols[id] = true
	}
	placed := make(map[string]string, len(b.Cards))
	for colID, col := range b.Columns {
		for _, cardID := range col.CardIDs {
			if _, ok := b.Cards[cardID]; !ok {
				return fmt.Errorf("column %s references unknown card %s", colID, cardID)
			}
			if prev, ok := placed[cardID]; ok {
				return fmt.Errorf("card %s appears in column %s and column %s", cardID, prev, colID)
			}
			placed[cardID] = colID
		}
	}
	for id := range b.Cards {
		if _, ok := placed[id]; !ok {
			return fmt.Errorf("card %s belongs to no column", id)
		}
	}
	for id, c := range b.Cards {
		if c.Done != (c.CompletedAt != nil) {
			return fmt.Errorf("card %s: done=%v but completedAt presence=%v", id, c.Done, c.CompletedAt != nil)
		}
	}
	return nil
}

// InfoItem is a single label/detail pair on the important-info list.
type InfoItem struct {
	ID     string `json:"id"`
	Label  string `json:"label"`
	Detail string `json:"detail"`
}

package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Direction describes where a card should move relative to its current
// position. Left and right step between columns, up and down reorder
// within a column.
type Direction string

const (
	MoveLeft  Direction = "left"
	MoveRight Direction = "right"
	MoveUp    Direction = "up"
	MoveDown  Direction = "down"
)

// AddCard creates a new card and prepends it to the target column.
// A title that trims to empty, an unknown column or an invalid assignee
// value leaves the board unchanged.
func (b *Board) AddCard(columnID, title string, assignee Assignee, due *time.Time) {
	title = strings.TrimSpace(title)
	if title == "" || !assignee.Valid() {
		return
	}
	col, ok := b.Columns[columnID]
	if !ok {
		return
	}
	card := Card{ID: uuid.NewString(), Title: title, Assignee: assignee}
	if due != nil {
		d := *due
		card.DueDate = &d
	}
	b.Cards[card.ID] = card
	col.CardIDs = append([]string{card.ID}, col.CardIDs...)
	b.Columns[columnID] = col
}

// ToggleDone flips a card's done flag. CompletedAt is stamped with now on
// completion and cleared on reopen. Unknown ids are ignored.
func (b *Board) ToggleDone(cardID string, now time.Time) {
	card, ok := b.Cards[cardID]
	if !ok {
		return
	}
	card.Done = !card.Done
	if card.Done {
		at := now
		card.CompletedAt = &at
	} else {
		card.CompletedAt = nil
	}
	b.Cards[cardID] = card
}

// MoveCard removes the card from the source column and inserts it into the
// target column at toIndex, clamped to the target's bounds. Moving within
// the same column this way is a no-op, as is any unknown column or a card
// that is not in the source sequence.
func (b *Board) MoveCard(cardID, fromColumnID, toColumnID string, toIndex int) {
	if fromColumnID == toColumnID {
		return
	}
	from, ok := b.Columns[fromColumnID]
	if !ok {
		return
	}
	to, ok := b.Columns[toColumnID]
	if !ok {
		return
	}
	idx := indexOf(from.CardIDs, cardID)
	if idx < 0 {
		return
	}
	from.CardIDs = append(from.CardIDs[:idx], from.CardIDs[idx+1:]...)
	if toIndex < 0 {
		toIndex = 0
	}
	if toIndex > len(to.CardIDs) {
		toIndex = len(to.CardIDs)
	}
	to.CardIDs = append(to.CardIDs[:toIndex], append([]string{cardID}, to.CardIDs[toIndex:]...)...)
	b.Columns[fromColumnID] = from
	b.Columns[toColumnID] = to
}

// MoveCardDirection moves the card to the column adjacent to fromColumnID
// in the board's column order. Stepping past either end is a no-op; there
// is no wraparound. The card lands at the top of the target column.
func (b *Board) MoveCardDirection(cardID, fromColumnID string, dir Direction) {
	var step int
	switch dir {
	case MoveLeft:
		step = -1
	case MoveRight:
		step = 1
	default:
		return
	}
	pos := indexOf(b.ColumnOrder, fromColumnID)
	if pos < 0 {
		return
	}
	target := pos + step
	if target < 0 || target >= len(b.ColumnOrder) {
		return
	}
	b.MoveCard(cardID, fromColumnID, b.ColumnOrder[target], 0)
}

// MoveWithinColumn swaps the card with its immediate neighbour in the
// column's sequence. At the boundary nothing happens.
func (b *Board) MoveWithinColumn(cardID, columnID string, dir Direction) {
	var step int
	switch dir {
	case MoveUp:
		step = -1
	case MoveDown:
		step = 1
	default:
		return
	}
	col, ok := b.Columns[columnID]
	if !ok {
		return
	}
	idx := indexOf(col.CardIDs, cardID)
	if idx < 0 {
		return
	}
	swap := idx + step
	if swap < 0 || swap >= len(col.CardIDs) {
		return
	}
	col.CardIDs[idx], col.CardIDs[swap] = col.CardIDs[swap], col.CardIDs[idx]
	b.Columns[columnID] = col
}

// SetAssignee overwrites the card's assignee. AssigneeNone clears it.
// Unknown cards and unknown assignee values are ignored.
func (b *Board) SetAssignee(cardID string, assignee Assignee) {
	if !assignee.Valid() {
		return
	}
	card, ok := b.Cards[cardID]
	if !ok {
		return
	}
	card.Assignee = assignee
	b.Cards[cardID] = card
}

// AddInfo prepends a new item to the info list. Either field trimming to
// empty returns the list unchanged.
func AddInfo(items []InfoItem, label, detail string) []InfoItem {
	label = strings.TrimSpace(label)
	detail = strings.TrimSpace(detail)
	if label == "" || detail == "" {
		return items
	}
	return append([]InfoItem{{ID: uuid.NewString(), Label: label, Detail: detail}}, items...)
}

// DeleteInfo removes the item with the given id, if present.
func DeleteInfo(items []InfoItem, id string) []InfoItem {
	for i, it := range items {
		if it.ID == id {
			return append(items[:i:i], items[i+1:]...)
		}
	}
	return items
}

func indexOf(ids []string, id string) int {
	for i, v := range ids {
		if v == id {
			return i
		}
	}
	return -1
}

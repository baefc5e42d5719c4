package api

import (
	"context"
	"time"

	"duoboard/domain"
)

// Service is the board state surface handlers operate on. *store.Store
// satisfies it; tests substitute their own.
type Service interface {
	Board() domain.Board
	Info() []domain.InfoItem
	LoadShare(ref time.Time) domain.LoadShare

	AddCard(ctx context.Context, columnID, title string, assignee domain.Assignee, due *time.Time)
	ToggleDone(ctx context.Context, cardID string)
	MoveCard(ctx context.Context, cardID, fromColumnID, toColumnID string, toIndex int)
	MoveCardDirection(ctx context.Context, cardID, fromColumnID string, dir domain.Direction)
	MoveWithinColumn(ctx context.Context, cardID, columnID string, dir domain.Direction)
	SetAssignee(ctx context.Context, cardID string, assignee domain.Assignee)
	ResetBoard(ctx context.Context)

	AddInfo(ctx context.Context, label, detail string)
	DeleteInfo(ctx context.Context, id string)
	ResetInfo(ctx context.Context)
}

type addCardRequest struct {
	ColumnID string     `json:"columnId"`
	Title    string     `json:"title"`
	Assignee string     `json:"assignee,omitempty"`
	DueDate  *time.Time `json:"dueDate,omitempty"`
}

type moveCardRequest struct {
	FromColumnID string `json:"fromColumnId"`
	ToColumnID   string `json:"toColumnId,omitempty"`
	ToIndex      int    `json:"toIndex,omitempty"`
	Direction    string `json:"direction,omitempty"`
}

type setAssigneeRequest struct {
	Assignee string `json:"assignee"`
}

type addInfoRequest struct {
	Label  string `json:"label"`
	Detail string `json:"detail"`
}

package storage

import (
	"context"
	"errors"

	"duoboard/domain"
)

// ErrNotFound is returned when a record has never been persisted. Callers
// treat it as "no data" and fall back to the seed state.
var ErrNotFound = errors.New("record not found")

// Record names for the two persisted blobs.
const (
	BoardRecord = "board"
	InfoRecord  = "info"
)

// Backend persists the two duoboard records. Each record is an opaque
// blob, read once at startup and overwritten wholesale after every
// mutation; there is no partial-update protocol and no schema versioning.
type Backend interface {
	LoadBoard(ctx context.Context) (domain.Board, error)
	SaveBoard(ctx context.Context, b domain.Board) error
	LoadInfo(ctx context.Context) ([]domain.InfoItem, error)
	SaveInfo(ctx context.Context, items []domain.InfoItem) error
}

// Package store owns the live board and info-list state. All mutations go
// through it: the in-memory copy is authoritative for the session and is
// mirrored to the persistence backend after every change on a best-effort
// basis.
package store

import (
	"context"
	"errors"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"duoboard/domain"
	"duoboard/storage"
)

// Store holds the board and info list behind a mutex and persists them
// through a storage.Backend.
type Store struct {
	mu      sync.Mutex
	board   domain.Board
	info    []domain.InfoItem
	backend storage.Backend
	log     *log.Logger
	now     func() time.Time

	// resets counts full board resets; the alert scanner uses it to
	// drop its per-session seen-set.
	resets uint64
}

// New loads both records from the backend, falling back to the seed data
// when a record is absent or unreadable. Loading never fails: a corrupt
// record is treated the same as no record at all.
func New(ctx context.Context, backend storage.Backend, logger *log.Logger) *Store {
	s := &Store{backend: backend, log: logger, now: time.Now}

	board, err := backend.LoadBoard(ctx)
	switch {
	case err == nil && board.Validate() == nil:
		s.board = board
	case err == nil:
		logger.WithError(board.Validate()).Warn("persisted board invalid, reseeding")
		s.board = domain.SeedBoard()
	case errors.Is(err, storage.ErrNotFound):
		logger.Debug("no persisted board, seeding")
		s.board = domain.SeedBoard()
	default:
		logger.WithError(err).Warn("persisted board unreadable, reseeding")
		s.board = domain.SeedBoard()
	}

	info, err := backend.LoadInfo(ctx)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			logger.WithError(err).Warn("persisted info unreadable, reseeding")
		}
		info = domain.SeedInfo()
	}
	s.info = info
	return s
}

// Board returns a deep copy of the current board.
func (s *Store) Board() domain.Board {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.board.Clone()
}

// Info returns a copy of the current info list, newest first.
func (s *Store) Info() []domain.InfoItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.InfoItem(nil), s.info...)
}

// Generation returns the number of board resets this session. The alert
// scanner compares it between ticks.
func (s *Store) Generation() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.resets
}

// LoadShare computes the weekly completed-task split as of ref.
func (s *Store) LoadShare(ref time.Time) domain.LoadShare {
	s.mu.Lock()
	defer s.mu.Unlock()
	return domain.WeeklyLoadShare(s.board, ref)
}

func (s *Store) AddCard(ctx context.Context, columnID, title string, assignee domain.Assignee, due *time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.board.AddCard(columnID, title, assignee, due)
	s.persistBoard(ctx)
}

func (s *Store) ToggleDone(ctx context.Context, cardID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.board.ToggleDone(cardID, s.now())
	s.persistBoard(ctx)
}

func (s *Store) MoveCard(ctx context.Context, cardID, fromColumnID, toColumnID string, toIndex int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.board.MoveCard(cardID, fromColumnID, toColumnID, toIndex)
	s.persistBoard(ctx)
}

func (s *Store) MoveCardDirection(ctx context.Context, cardID, fromColumnID string, dir domain.Direction) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.board.MoveCardDirection(cardID, fromColumnID, dir)
	s.persistBoard(ctx)
}

func (s *Store) MoveWithinColumn(ctx context.Context, cardID, columnID string, dir domain.Direction) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.board.MoveWithinColumn(cardID, columnID, dir)
	s.persistBoard(ctx)
}

func (s *Store) SetAssignee(ctx context.Context, cardID string, assignee domain.Assignee) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.board.SetAssignee(cardID, assignee)
	s.persistBoard(ctx)
}

// ResetBoard discards the current board and restores the seed. It also
// bumps the reset generation so session-scoped consumers can clear state.
func (s *Store) ResetBoard(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.board = domain.SeedBoard()
	s.resets++
	s.persistBoard(ctx)
}

func (s *Store) AddInfo(ctx context.Context, label, detail string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.info = domain.AddInfo(s.info, label, detail)
	s.persistInfo(ctx)
}

func (s *Store) DeleteInfo(ctx context.Context, id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.info = domain.DeleteInfo(s.info, id)
	s.persistInfo(ctx)
}

// ResetInfo restores the seed info list.
func (s *Store) ResetInfo(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.info = domain.SeedInfo()
	s.persistInfo(ctx)
}

// persistBoard mirrors the in-memory board to the backend. Failures are
// logged and swallowed: the session keeps running on memory and the worst
// case is loss of persistence, never a corrupted view.
func (s *Store) persistBoard(ctx context.Context) {
	if err := s.backend.SaveBoard(ctx, s.board); err != nil {
		s.log.WithError(err).Error("persist board failed")
	}
}

func (s *Store) persistInfo(ctx context.Context) {
	if err := s.backend.SaveInfo(ctx, s.info); err != nil {
		s.log.WithError(err).Error("persist info failed")
	}
}

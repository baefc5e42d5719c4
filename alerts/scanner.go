// Package alerts runs the periodic due-date scan and turns state changes
// into one-shot notifications.
package alerts

import (
	"context"
	"time"

	log "github.com/sirupsen/logrus"

	"duoboard/domain"
	"duoboard/notify"
)

// BoardSource is the slice of the store the scanner needs: a snapshot of
// the board and the reset generation.
type BoardSource interface {
	Board() domain.Board
	Generation() uint64
}

const (
	// DefaultInterval matches the app's 60-second due-status poll.
	DefaultInterval = time.Minute
	// defaultRequestDelay defers the startup permission prompt so it does
	// not race the first paint of the board.
	defaultRequestDelay = 3 * time.Second
)

// Scanner re-evaluates every card's due state on a fixed interval and
// notifies once per card per session. The seen-set survives everything
// except a full board reset.
type Scanner struct {
	source       BoardSource
	notifier     notify.Notifier
	log          *log.Logger
	interval     time.Duration
	requestDelay time.Duration
	now          func() time.Time

	seen map[string]struct{}
	gen  uint64
}

// NewScanner builds a scanner with the default interval.
func NewScanner(source BoardSource, notifier notify.Notifier, logger *log.Logger) *Scanner {
	return &Scanner{
		source:       source,
		notifier:     notifier,
		log:          logger,
		interval:     DefaultInterval,
		requestDelay: defaultRequestDelay,
		now:          time.Now,
		seen:         make(map[string]struct{}),
		gen:          source.Generation(),
	}
}

// SetInterval overrides the scan interval. Call before Run.
func (s *Scanner) SetInterval(d time.Duration) {
	if d > 0 {
		s.interval = d
	}
}

// Run blocks until ctx is cancelled. Permission is requested once, after
// a short delay, then the scan ticks at the configured interval.
func (s *Scanner) Run(ctx context.Context) {
	if s.notifier.Permission() == notify.PermissionUndetermined {
		select {
		case <-ctx.Done():
			return
		case <-time.After(s.requestDelay):
			perm := s.notifier.RequestPermission(ctx)
			s.log.WithField("permission", perm).Debug("notification permission requested")
		}
	}

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.scan(ctx)
		}
	}
}

// scan is one tick: drop the seen-set if the board was reset, then alert
// on every card that newly turned overdue or due-soon.
func (s *Scanner) scan(ctx context.Context) {
	if gen := s.source.Generation(); gen != s.gen {
		s.seen = make(map[string]struct{})
		s.gen = gen
	}

	board := s.source.Board()
	now := s.now()
	for id, card := range board.Cards {
		state := card.DueState(now)
		if state == domain.DueNone {
			continue
		}
		if _, ok := s.seen[id]; ok {
			continue
		}
		s.seen[id] = struct{}{}

		if s.notifier.Permission() != notify.PermissionGranted {
			continue
		}
		alert := notify.Alert{
			CardID: id,
			Title:  card.Title,
			Body:   alertBody(state),
			State:  string(state),
		}
		if err := s.notifier.Notify(ctx, alert); err != nil {
			s.log.WithError(err).WithField("card", id).Warn("alert delivery failed")
		}
	}
}

func alertBody(state domain.DueState) string {
	if state == domain.DueOverdue {
		return "this task is overdue"
	}
	return "this task is due within 24 hours"
}

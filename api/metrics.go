package api

import (
	"context"
	"time"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "duoboard/api"

// boardRequestMetrics collects per-request timings for the board fetch
// path and reports them both as a trace span and as structured log fields.
type boardRequestMetrics struct {
	logger           *log.Logger
	span             trace.Span
	start            time.Time
	snapshotDuration time.Duration
	encodeDuration   time.Duration
	cardCount        int
	errorStage       string
}

func newBoardRequestMetrics(ctx context.Context, logger *log.Logger) (*boardRequestMetrics, context.Context) {
	m := &boardRequestMetrics{logger: logger, start: time.Now()}
	spanCtx, span := otel.Tracer(tracerName).Start(ctx, "board.fetch")
	m.span = span
	return m, spanCtx
}

func (m *boardRequestMetrics) ObserveSnapshot(d time.Duration) {
	if d <= 0 {
		return
	}
	m.snapshotDuration = d
}

func (m *boardRequestMetrics) ObserveEncode(d time.Duration) {
	if d <= 0 {
		return
	}
	m.encodeDuration = d
}

func (m *boardRequestMetrics) SetCardCount(count int) {
	if count < 0 {
		count = 0
	}
	m.cardCount = count
}

func (m *boardRequestMetrics) SetErrorStage(stage string) {
	if stage == "" {
		return
	}
	m.errorStage = stage
}

// Log finishes the span and writes the request summary. Safe on a nil
// receiver so handlers can defer it unconditionally.
func (m *boardRequestMetrics) Log(status int, err error) {
	if m == nil {
		return
	}
	total := time.Since(m.start)

	if m.span != nil {
		m.span.SetAttributes(
			attribute.Int("http.status_code", status),
			attribute.Int("board.cards", m.cardCount),
			attribute.Float64("board.snapshot_ms", durationToMillis(m.snapshotDuration)),
			attribute.Float64("board.encode_ms", durationToMillis(m.encodeDuration)),
		)
		if m.errorStage != "" {
			m.span.SetAttributes(attribute.String("board.error_stage", m.errorStage))
		}
		if err != nil {
			m.span.SetStatus(codes.Error, err.Error())
		} else {
			m.span.SetStatus(codes.Ok, "")
		}
		m.span.End()
	}

	if m.logger == nil {
		return
	}
	fields := log.Fields{
		"route":    "/api/board",
		"status":   status,
		"total_ms": durationToMillis(total),
		"cards":    m.cardCount,
	}
	if m.snapshotDuration > 0 {
		fields["snapshot_ms"] = durationToMillis(m.snapshotDuration)
	}
	if m.encodeDuration > 0 {
		fields["encode_ms"] = durationToMillis(m.encodeDuration)
	}
	if m.errorStage != "" {
		fields["error_stage"] = m.errorStage
	}
	if err != nil {
		fields["error"] = err.Error()
	}
	m.logger.WithFields(fields).Info("board.request.metrics")
}

func durationToMillis(d time.Duration) float64 {
	if d <= 0 {
		return 0
	}
	return float64(d) / float64(time.Millisecond)
}

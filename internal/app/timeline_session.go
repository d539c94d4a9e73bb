package app

import (
	"context"
	"errors"
	"sync/atomic"

	"github.com/example/dutybridge/internal/models"
	"github.com/example/dutybridge/internal/ports/primary"
)

// ErrSuperseded is returned when a newer policy selection arrived while a
// timeline was still resolving. The stale result is discarded, never
// rendered.
var ErrSuperseded = errors.New("selection superseded")

// TimelineSession serializes policy selections for one notification form.
// Each selection gets a generation number; a resolution whose generation
// is no longer current is dropped, so lookups belonging to an abandoned
// selection cannot leak into a newer one. There is no cancellation of the
// in-flight lookups themselves, only of their result.
type TimelineSession struct {
	svc primary.TimelineService
	gen atomic.Int64
}

// NewTimelineSession creates a session over the given timeline service.
func NewTimelineSession(svc primary.TimelineService) *TimelineSession {
	return &TimelineSession{svc: svc}
}

// Select resolves the timeline for a newly selected policy. If another
// Select or Reset happens before resolution completes, the result is
// discarded and ErrSuperseded is returned. For any one generation a
// timeline is produced at most once.
func (s *TimelineSession) Select(ctx context.Context, layers []models.EscalationLayer) (*primary.Timeline, error) {
	gen := s.gen.Add(1)

	timeline, err := s.svc.ResolveTimeline(ctx, layers)
	if err != nil {
		return nil, err
	}
	if s.gen.Load() != gen {
		return nil, ErrSuperseded
	}
	return timeline, nil
}

// Reset invalidates any in-flight selection, e.g. when the form closes.
func (s *TimelineSession) Reset() {
	s.gen.Add(1)
}

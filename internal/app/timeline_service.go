package app

import (
	"context"
	"strconv"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/example/dutybridge/internal/models"
	"github.com/example/dutybridge/internal/ports/primary"
	"github.com/example/dutybridge/internal/ports/secondary"
)

// TimelineServiceImpl implements the TimelineService interface.
type TimelineServiceImpl struct {
	api    secondary.FlashdutyAPI
	logger *zap.Logger
}

// NewTimelineService creates a new TimelineService with injected dependencies.
func NewTimelineService(api secondary.FlashdutyAPI, logger *zap.Logger) *TimelineServiceImpl {
	return &TimelineServiceImpl{
		api:    api,
		logger: logger,
	}
}

// ResolveTimeline resolves the layers' target IDs to names and renders the
// escalation path. One lookup is issued per target kind over the
// deduplicated union of IDs across all layers, the three lookups run
// concurrently, and a failed lookup only leaves its names unresolved.
func (s *TimelineServiceImpl) ResolveTimeline(ctx context.Context, layers []models.EscalationLayer) (*primary.Timeline, error) {
	personIDs, teamIDs, scheduleIDs := collectTargetIDs(layers)

	if len(personIDs) == 0 && len(teamIDs) == 0 && len(scheduleIDs) == 0 {
		return &primary.Timeline{Message: primary.NoTargetsMessage}, nil
	}

	var (
		persons   map[int64]string
		teams     map[int64]string
		schedules map[string]string
	)

	// Each goroutine writes a distinct variable and the group is awaited
	// before any read, so no further synchronization is needed.
	g, gctx := errgroup.WithContext(ctx)
	if len(personIDs) > 0 {
		g.Go(func() error {
			m, err := s.api.PersonNames(gctx, personIDs)
			if err != nil {
				s.logger.Warn("person name lookup failed", zap.Error(err))
				return nil
			}
			persons = m
			return nil
		})
	}
	if len(teamIDs) > 0 {
		g.Go(func() error {
			m, err := s.api.TeamNames(gctx, teamIDs)
			if err != nil {
				s.logger.Warn("team name lookup failed", zap.Error(err))
				return nil
			}
			teams = m
			return nil
		})
	}
	if len(scheduleIDs) > 0 {
		g.Go(func() error {
			m, err := s.api.ScheduleNames(gctx, scheduleIDs)
			if err != nil {
				s.logger.Warn("schedule name lookup failed", zap.Error(err))
				return nil
			}
			schedules = m
			return nil
		})
	}
	g.Wait() //nolint:errcheck // lookups absorb their own failures

	return &primary.Timeline{Entries: renderEntries(layers, persons, teams, schedules)}, nil
}

// collectTargetIDs returns the union of person, team and schedule IDs
// referenced across all layers, deduplicated in order of first appearance.
// Batching the union keeps it to one lookup per kind no matter how many
// layers reference overlapping IDs.
func collectTargetIDs(layers []models.EscalationLayer) ([]int64, []int64, []string) {
	var (
		personIDs   []int64
		teamIDs     []int64
		scheduleIDs []string

		seenPersons   = make(map[int64]bool)
		seenTeams     = make(map[int64]bool)
		seenSchedules = make(map[string]bool)
	)

	for _, layer := range layers {
		for _, id := range layer.Target.PersonIDs {
			if !seenPersons[id] {
				seenPersons[id] = true
				personIDs = append(personIDs, id)
			}
		}
		for _, id := range layer.Target.TeamIDs {
			if !seenTeams[id] {
				seenTeams[id] = true
				teamIDs = append(teamIDs, id)
			}
		}
		for _, id := range layer.Target.ScheduleIDs() {
			if !seenSchedules[id] {
				seenSchedules[id] = true
				scheduleIDs = append(scheduleIDs, id)
			}
		}
	}

	return personIDs, teamIDs, scheduleIDs
}

// renderEntries walks the layers in order with a running cumulative-minutes
// counter. A layer's own window is added only after its entry, so the
// first entry always reads 0 minutes.
func renderEntries(layers []models.EscalationLayer, persons, teams map[int64]string, schedules map[string]string) []primary.TimelineEntry {
	entries := make([]primary.TimelineEntry, 0, len(layers))
	cumulative := 0

	for _, layer := range layers {
		var targets []primary.TimelineTarget

		for _, id := range layer.Target.PersonIDs {
			name, ok := persons[id]
			if !ok {
				name = strconv.FormatInt(id, 10)
			}
			targets = append(targets, primary.TimelineTarget{Kind: primary.TargetPerson, Name: name})
		}
		for _, id := range layer.Target.TeamIDs {
			name, ok := teams[id]
			if !ok {
				name = "Team " + strconv.FormatInt(id, 10)
			}
			targets = append(targets, primary.TimelineTarget{Kind: primary.TargetTeam, Name: name})
		}
		for _, id := range layer.Target.ScheduleIDs() {
			name, ok := schedules[id]
			if !ok {
				name = "Schedule " + id
			}
			targets = append(targets, primary.TimelineTarget{Kind: primary.TargetSchedule, Name: name})
		}

		entries = append(entries, primary.TimelineEntry{
			AfterMinutes: cumulative,
			Targets:      targets,
		})
		cumulative += layer.EscalateWindow
	}

	return entries
}

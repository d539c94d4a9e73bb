package primary

import (
	"context"
	"fmt"
	"strings"

	"github.com/example/dutybridge/internal/models"
)

// NoTargetsMessage is rendered when a policy has no escalation targets in
// any layer.
const NoTargetsMessage = "No escalation targets defined"

// TimelineService turns a policy's layers into a human-readable
// escalation timeline, resolving target IDs to display names.
type TimelineService interface {
	// ResolveTimeline fans out up to three concurrent name lookups (one
	// per target kind, each over the deduplicated union of IDs across all
	// layers) and joins them into a timeline. Failed lookups leave names
	// sparse; unresolved IDs fall back to synthesized labels.
	ResolveTimeline(ctx context.Context, layers []models.EscalationLayer) (*Timeline, error)
}

// TargetKind tags a timeline target with its origin.
type TargetKind string

const (
	TargetPerson   TargetKind = "person"
	TargetTeam     TargetKind = "team"
	TargetSchedule TargetKind = "schedule"
)

// TimelineTarget is one resolved responder within a timeline entry.
type TimelineTarget struct {
	Kind TargetKind `json:"kind"`
	Name string     `json:"name"`
}

// TimelineEntry is one rendered escalation step.
type TimelineEntry struct {
	AfterMinutes int              `json:"after_minutes"` // cumulative minutes since the incident opened
	Targets      []TimelineTarget `json:"targets"`
}

// Label renders the entry's display line. Teams and schedules are tagged
// so they read apart from plain person names.
func (e TimelineEntry) Label() string {
	target := "Not specified"
	if len(e.Targets) > 0 {
		parts := make([]string, len(e.Targets))
		for i, t := range e.Targets {
			switch t.Kind {
			case TargetTeam:
				parts[i] = t.Name + " [team]"
			case TargetSchedule:
				parts[i] = t.Name + " [schedule]"
			default:
				parts[i] = t.Name
			}
		}
		target = strings.Join(parts, ", ")
	}
	return fmt.Sprintf("%d minutes after incident remains open, escalate to %s", e.AfterMinutes, target)
}

// Timeline is the resolved escalation path of one policy. Message is set
// instead of Entries when the policy defines no targets at all.
type Timeline struct {
	Entries []TimelineEntry `json:"entries,omitempty"`
	Message string          `json:"message,omitempty"`
}

package secondary

import (
	"context"

	"github.com/example/dutybridge/internal/models"
)

// Directory defines the secondary port for incident and organizational
// lookups against the incident-management platform.
type Directory interface {
	// Incident retrieves an incident by its sys_id.
	Incident(ctx context.Context, sysID string) (*models.Incident, error)

	// GroupName resolves a group sys_id to its display name.
	// An unknown or empty ID resolves to "".
	GroupName(ctx context.Context, groupID string) (string, error)

	// ActiveMembers lists the active users of a group.
	ActiveMembers(ctx context.Context, groupID string) ([]models.Member, error)

	// User retrieves a single user by sys_id.
	User(ctx context.Context, userID string) (*models.Member, error)

	// LatestComment returns the newest journal comment on a record,
	// or "" when the record has no comments.
	LatestComment(ctx context.Context, recordID string) (string, error)
}

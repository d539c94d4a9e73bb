// Package secondary defines the secondary ports (driven adapters) for the
// application. These are the interfaces through which the application
// drives external systems.
package secondary

import (
	"context"

	"github.com/example/dutybridge/internal/models"
)

// FlashdutyAPI defines the secondary port for the Flashduty OpenAPI.
//
// Implementations absorb transport and parse failures per call: a failed
// lookup returns an error, but callers are expected to degrade (empty
// lists, sparse name maps) rather than propagate the failure to users.
type FlashdutyAPI interface {
	// ListEscalationRules fetches all escalation rules visible in a channel.
	ListEscalationRules(ctx context.Context, channelID int64) ([]models.EscalationRule, error)

	// PersonNames resolves Flashduty person IDs to display names.
	PersonNames(ctx context.Context, ids []int64) (map[int64]string, error)

	// TeamNames resolves Flashduty team IDs to display names.
	TeamNames(ctx context.Context, ids []int64) (map[int64]string, error)

	// ScheduleNames resolves Flashduty schedule IDs to display names.
	ScheduleNames(ctx context.Context, ids []string) (map[string]string, error)
}

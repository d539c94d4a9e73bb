package primary

import (
	"context"

	"github.com/example/dutybridge/internal/models"
)

// PolicyService resolves and ranks escalation policies for a channel.
type PolicyService interface {
	// ResolvePolicies fetches the enabled escalation rules of a channel and
	// ranks them against groupName with the server scorer (exact, prefix,
	// substring, unranked). The sort is stable: ties keep API order.
	// A missing app key yields an empty result without any network call.
	ResolvePolicies(ctx context.Context, req ResolvePoliciesRequest) ([]models.RankedPolicy, error)

	// RankForDisplay re-ranks policies with the display scorer, which adds
	// a shared-word tier between substring and unranked, and flags
	// recommended entries. Used by interactive consumers; raw API
	// consumers keep the server ranking.
	RankForDisplay(policies []models.RankedPolicy, groupName string) []models.RankedPolicy
}

// ResolvePoliciesRequest identifies the channel to list and the assignment
// group to rank against. GroupName may be empty, in which case all
// policies stay unranked in API order.
type ResolvePoliciesRequest struct {
	ChannelID int64
	GroupName string
}

package app

import (
	"context"
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/example/dutybridge/internal/config"
	"github.com/example/dutybridge/internal/models"
	"github.com/example/dutybridge/internal/ports/primary"
	"github.com/example/dutybridge/internal/ports/secondary"
)

// PolicyServiceImpl implements the PolicyService interface.
type PolicyServiceImpl struct {
	api    secondary.FlashdutyAPI
	cfg    *config.Config
	logger *zap.Logger
}

// NewPolicyService creates a new PolicyService with injected dependencies.
func NewPolicyService(api secondary.FlashdutyAPI, cfg *config.Config, logger *zap.Logger) *PolicyServiceImpl {
	return &PolicyServiceImpl{
		api:    api,
		cfg:    cfg,
		logger: logger,
	}
}

// ResolvePolicies fetches the channel's escalation rules, keeps the
// enabled ones and stable-sorts them by server relevance score.
//
// Without a configured app key no network call is attempted: the result
// is empty and the error wraps primary.ErrNotConfigured so callers can
// show a "not configured" state instead of a failure.
func (s *PolicyServiceImpl) ResolvePolicies(ctx context.Context, req primary.ResolvePoliciesRequest) ([]models.RankedPolicy, error) {
	if !s.cfg.HasAppKey() {
		s.logger.Error("flashduty app key is not configured")
		return []models.RankedPolicy{}, fmt.Errorf("%w: flashduty app key missing", primary.ErrNotConfigured)
	}

	channelID := req.ChannelID
	if channelID == 0 {
		channelID = s.cfg.ChannelID
	}
	if channelID == 0 {
		s.logger.Error("flashduty channel id is not configured")
		return []models.RankedPolicy{}, fmt.Errorf("%w: flashduty channel id missing", primary.ErrNotConfigured)
	}

	rules, err := s.api.ListEscalationRules(ctx, channelID)
	if err != nil {
		// Transport and parse failures are absorbed here: callers get an
		// empty list, the operator gets a log line.
		s.logger.Error("failed to list escalation rules",
			zap.Int64("channel_id", channelID),
			zap.Error(err))
		return []models.RankedPolicy{}, nil
	}

	ranked := make([]models.RankedPolicy, 0, len(rules))
	for _, rule := range rules {
		if !rule.Enabled() {
			continue
		}
		ranked = append(ranked, models.RankedPolicy{
			RuleID:   rule.RuleID,
			RuleName: rule.RuleName,
			Layers:   rule.Layers,
			Score:    ServerScore(rule.RuleName, req.GroupName),
		})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score < ranked[j].Score
	})

	s.logger.Info("resolved escalation policies",
		zap.Int64("channel_id", channelID),
		zap.String("group_name", req.GroupName),
		zap.Int("count", len(ranked)))

	return ranked, nil
}

// RankForDisplay re-scores policies with the display scorer and
// stable-sorts the copy. Policies matching any tier are flagged as
// recommended. The input slice is not modified.
func (s *PolicyServiceImpl) RankForDisplay(policies []models.RankedPolicy, groupName string) []models.RankedPolicy {
	out := make([]models.RankedPolicy, len(policies))
	copy(out, policies)

	for i := range out {
		out[i].Score = DisplayScore(out[i].RuleName, groupName)
		out[i].Recommended = out[i].Score != ScoreUnranked
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Score < out[j].Score
	})
	return out
}

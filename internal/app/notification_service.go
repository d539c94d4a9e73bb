package app

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/example/dutybridge/internal/config"
	"github.com/example/dutybridge/internal/models"
	"github.com/example/dutybridge/internal/ports/primary"
	"github.com/example/dutybridge/internal/ports/secondary"
)

// sysIDLength is the length of a ServiceNow record sys_id.
const sysIDLength = 32

// Incident states that trigger the minimal state-change webhook.
const (
	StateResolved = "Resolved"
	StateClosed   = "Closed"
)

// NotificationServiceImpl implements the NotificationService interface.
type NotificationServiceImpl struct {
	directory secondary.Directory
	webhook   secondary.WebhookSender
	cfg       *config.Config
	logger    *zap.Logger
}

// NewNotificationService creates a new NotificationService with injected
// dependencies.
func NewNotificationService(directory secondary.Directory, webhook secondary.WebhookSender, cfg *config.Config, logger *zap.Logger) *NotificationServiceImpl {
	return &NotificationServiceImpl{
		directory: directory,
		webhook:   webhook,
		cfg:       cfg,
		logger:    logger,
	}
}

// SendNotification validates the operator's selections, gathers incident
// context and delivers the notification webhook. Validation failures abort
// before any network call. A delivery failure comes back in the response,
// not as an error.
func (s *NotificationServiceImpl) SendNotification(ctx context.Context, req primary.SendNotificationRequest) (*primary.SendNotificationResponse, error) {
	if req.IncidentSysID == "" {
		return nil, fmt.Errorf("%w: missing incident sys_id", primary.ErrValidation)
	}
	if len(req.IncidentSysID) != sysIDLength {
		return nil, fmt.Errorf("%w: invalid incident ID", primary.ErrValidation)
	}
	if len(req.NotifyTypes) == 0 {
		return nil, fmt.Errorf("%w: please select at least one notification type", primary.ErrValidation)
	}
	if len(req.MemberIDs) == 0 {
		return nil, fmt.Errorf("%w: please select at least one member to notify", primary.ErrValidation)
	}
	if !s.cfg.HasPushURL() {
		s.logger.Error("flashduty push url is not configured")
		return nil, fmt.Errorf("%w: flashduty push url missing", primary.ErrNotConfigured)
	}

	incident, err := s.directory.Incident(ctx, req.IncidentSysID)
	if err != nil || incident == nil {
		s.logger.Error("incident not found", zap.String("sys_id", req.IncidentSysID), zap.Error(err))
		return nil, fmt.Errorf("%w: incident not found", primary.ErrValidation)
	}

	// Group, member and comment lookups degrade to empty values: a sparse
	// payload still goes out.
	groupName := ""
	if req.GroupID != "" {
		if name, err := s.directory.GroupName(ctx, req.GroupID); err == nil {
			groupName = name
		} else {
			s.logger.Warn("failed to resolve group name", zap.String("group_id", req.GroupID), zap.Error(err))
		}
	}

	comment, err := s.directory.LatestComment(ctx, incident.SysID)
	if err != nil {
		s.logger.Warn("failed to load latest comment", zap.String("sys_id", incident.SysID), zap.Error(err))
		comment = ""
	}

	members := s.expandMembers(ctx, req.MemberIDs)

	payload := BuildNotificationPayload(incident, groupName, comment, members, req, s.cfg.TeamsID)

	s.logger.Info("sending notification webhook",
		zap.String("number", incident.Number),
		zap.String("group", groupName),
		zap.String("rule_id", req.RuleID),
		zap.Int("members", len(members)))

	if s.webhook.Send(ctx, payload) {
		return &primary.SendNotificationResponse{
			Sent:    true,
			Message: fmt.Sprintf("Success: Incident %s sent to Flashduty", incident.Number),
		}, nil
	}
	return &primary.SendNotificationResponse{
		Sent:    false,
		Message: fmt.Sprintf("Failed: Unable to send %s. Check system logs.", incident.Number),
	}, nil
}

// NotifyStateChange sends the minimal webhook for a resolved or closed
// incident. Other states are skipped. Delivery is fire-and-forget.
func (s *NotificationServiceImpl) NotifyStateChange(ctx context.Context, incidentSysID string) error {
	if incidentSysID == "" {
		return fmt.Errorf("%w: missing incident sys_id", primary.ErrValidation)
	}
	if !s.cfg.HasPushURL() {
		s.logger.Error("flashduty push url is not configured")
		return fmt.Errorf("%w: flashduty push url missing", primary.ErrNotConfigured)
	}

	incident, err := s.directory.Incident(ctx, incidentSysID)
	if err != nil || incident == nil {
		return fmt.Errorf("%w: incident not found", primary.ErrValidation)
	}

	if incident.State != StateResolved && incident.State != StateClosed {
		s.logger.Info("skipping state-change webhook",
			zap.String("number", incident.Number),
			zap.String("state", incident.State))
		return nil
	}

	payload := models.StateChangePayload{
		Number: incident.Number,
		SysID:  incident.SysID,
		State:  incident.State,
	}

	if !s.webhook.Send(ctx, payload) {
		s.logger.Error("state-change webhook delivery failed", zap.String("number", incident.Number))
	}
	return nil
}

// expandMembers resolves member sys_ids to name and email. Unknown IDs
// are skipped, not errors.
func (s *NotificationServiceImpl) expandMembers(ctx context.Context, ids []string) []models.Member {
	members := make([]models.Member, 0, len(ids))
	for _, id := range ids {
		if id == "" {
			continue
		}
		user, err := s.directory.User(ctx, id)
		if err != nil || user == nil {
			s.logger.Warn("member lookup failed", zap.String("sys_id", id), zap.Error(err))
			continue
		}
		members = append(members, *user)
	}
	return members
}

// BuildNotificationPayload assembles the outbound webhook body. Pure data
// transformation: every field comes from the incident, the resolved
// context or the operator's selections.
func BuildNotificationPayload(incident *models.Incident, groupName, comment string, members []models.Member, req primary.SendNotificationRequest, teamsID string) models.NotificationPayload {
	actionType := "update"
	if incident.IsNew {
		actionType = "insert"
	}
	if members == nil {
		members = []models.Member{}
	}

	return models.NotificationPayload{
		ActionType:        actionType,
		Number:            incident.Number,
		SysID:             incident.SysID,
		ShortDescription:  incident.ShortDescription,
		Description:       incident.Description,
		Impact:            incident.Impact,
		Urgency:           incident.Urgency,
		Comments:          comment,
		PersonalChannels:  strings.Join(req.NotifyTypes, ","),
		AssignmentGroup:   groupName,
		AssignmentGroupID: req.GroupID,
		NotifyMembers:     members,
		RuleID:            req.RuleID,
		TeamsID:           teamsID,
	}
}

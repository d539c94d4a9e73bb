package primary

import "context"

// NotificationService assembles and delivers outbound notifications.
type NotificationService interface {
	// SendNotification validates the request, gathers incident and group
	// context, builds the webhook payload and delivers it. Validation and
	// lookup failures return an error wrapping ErrValidation; a delivery
	// failure is reported in the response, never as an error.
	SendNotification(ctx context.Context, req SendNotificationRequest) (*SendNotificationResponse, error)

	// NotifyStateChange sends the minimal state-change webhook for an
	// incident that was resolved or closed. Fire-and-forget: delivery
	// failures are logged, not returned.
	NotifyStateChange(ctx context.Context, incidentSysID string) error
}

// SendNotificationRequest carries the operator's selections from the
// notification form.
type SendNotificationRequest struct {
	IncidentSysID string
	GroupID       string
	NotifyTypes   []string // personal channels: sms, voice, teams, email
	MemberIDs     []string // user sys_ids to notify
	RuleID        string   // selected escalation rule, optional
}

// SendNotificationResponse reports the delivery outcome with the
// user-facing message.
type SendNotificationResponse struct {
	Sent    bool   `json:"sent"`
	Message string `json:"message"`
}

package app

import (
	"context"
	"errors"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/example/dutybridge/internal/config"
	"github.com/example/dutybridge/internal/models"
	"github.com/example/dutybridge/internal/ports/primary"
)

const testSysID = "9d385017c611228701d22104cc95c371"

func notifyConfig() *config.Config {
	return &config.Config{
		PushURL: "https://api.flashcat.cloud/event/push/servicenow/abc",
		TeamsID: "teams-9",
	}
}

func testIncident() *models.Incident {
	return &models.Incident{
		SysID:            testSysID,
		Number:           "INC0010001",
		ShortDescription: "Database unreachable",
		Description:      "Primary database does not accept connections",
		Impact:           "1 - High",
		Urgency:          "1",
		State:            "In Progress",
	}
}

func validRequest() primary.SendNotificationRequest {
	return primary.SendNotificationRequest{
		IncidentSysID: testSysID,
		GroupID:       "grp-1",
		NotifyTypes:   []string{"sms", "voice"},
		MemberIDs:     []string{"u1", "u2"},
		RuleID:        "rule-5",
	}
}

func notifyService(dir *mockDirectory, hook *mockWebhookSender, cfg *config.Config) *NotificationServiceImpl {
	return NewNotificationService(dir, hook, cfg, zap.NewNop())
}

func TestSendNotification_ValidationErrors(t *testing.T) {
	dir := &mockDirectory{}
	hook := &mockWebhookSender{result: true}
	svc := notifyService(dir, hook, notifyConfig())

	tests := []struct {
		name   string
		mutate func(*primary.SendNotificationRequest)
	}{
		{"missing sys_id", func(r *primary.SendNotificationRequest) { r.IncidentSysID = "" }},
		{"short sys_id", func(r *primary.SendNotificationRequest) { r.IncidentSysID = "abc123" }},
		{"no notification types", func(r *primary.SendNotificationRequest) { r.NotifyTypes = nil }},
		{"no members", func(r *primary.SendNotificationRequest) { r.MemberIDs = nil }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validRequest()
			tt.mutate(&req)

			_, err := svc.SendNotification(context.Background(), req)
			if !errors.Is(err, primary.ErrValidation) {
				t.Fatalf("expected ErrValidation, got %v", err)
			}
			if len(hook.payloads) != 0 {
				t.Error("validation failure must abort before delivery")
			}
		})
	}
}

func TestSendNotification_MissingPushURL(t *testing.T) {
	svc := notifyService(&mockDirectory{}, &mockWebhookSender{}, &config.Config{})

	_, err := svc.SendNotification(context.Background(), validRequest())
	if !errors.Is(err, primary.ErrNotConfigured) {
		t.Fatalf("expected ErrNotConfigured, got %v", err)
	}
}

func TestSendNotification_IncidentNotFound(t *testing.T) {
	svc := notifyService(&mockDirectory{}, &mockWebhookSender{result: true}, notifyConfig())

	_, err := svc.SendNotification(context.Background(), validRequest())
	if !errors.Is(err, primary.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
	if err != nil && !strings.Contains(err.Error(), "incident not found") {
		t.Errorf("unexpected message: %v", err)
	}
}

func TestSendNotification_Success(t *testing.T) {
	dir := &mockDirectory{
		incidents: map[string]*models.Incident{testSysID: testIncident()},
		groups:    map[string]string{"grp-1": "Payments"},
		users: map[string]*models.Member{
			"u1": {SysID: "u1", Name: "Alice", Email: "alice@example.com"},
			"u2": {SysID: "u2", Name: "Bob", Email: "bob@example.com"},
		},
		comments: map[string]string{testSysID: "Still investigating"},
	}
	hook := &mockWebhookSender{result: true}
	svc := notifyService(dir, hook, notifyConfig())

	resp, err := svc.SendNotification(context.Background(), validRequest())
	if err != nil {
		t.Fatalf("SendNotification failed: %v", err)
	}
	if !resp.Sent {
		t.Error("expected sent = true")
	}
	if resp.Message != "Success: Incident INC0010001 sent to Flashduty" {
		t.Errorf("message = %q", resp.Message)
	}

	if len(hook.payloads) != 1 {
		t.Fatalf("expected 1 delivery, got %d", len(hook.payloads))
	}
	payload, ok := hook.payloads[0].(models.NotificationPayload)
	if !ok {
		t.Fatalf("unexpected payload type %T", hook.payloads[0])
	}
	if payload.ActionType != "update" {
		t.Errorf("action_type = %q, want update", payload.ActionType)
	}
	if payload.AssignmentGroup != "Payments" || payload.AssignmentGroupID != "grp-1" {
		t.Errorf("group fields = %q/%q", payload.AssignmentGroup, payload.AssignmentGroupID)
	}
	if payload.PersonalChannels != "sms,voice" {
		t.Errorf("personal_channels = %q", payload.PersonalChannels)
	}
	if payload.Comments != "Still investigating" {
		t.Errorf("comments = %q", payload.Comments)
	}
	if payload.TeamsID != "teams-9" {
		t.Errorf("teams_id = %q", payload.TeamsID)
	}
	if len(payload.NotifyMembers) != 2 || payload.NotifyMembers[0].Name != "Alice" {
		t.Errorf("notify_members = %+v", payload.NotifyMembers)
	}
}

func TestSendNotification_DeliveryFailure(t *testing.T) {
	dir := &mockDirectory{
		incidents: map[string]*models.Incident{testSysID: testIncident()},
		users:     map[string]*models.Member{"u1": {SysID: "u1", Name: "Alice"}},
	}
	hook := &mockWebhookSender{result: false}
	svc := notifyService(dir, hook, notifyConfig())

	req := validRequest()
	req.MemberIDs = []string{"u1"}

	resp, err := svc.SendNotification(context.Background(), req)
	if err != nil {
		t.Fatalf("delivery failure must not be an error: %v", err)
	}
	if resp.Sent {
		t.Error("expected sent = false")
	}
	if resp.Message != "Failed: Unable to send INC0010001. Check system logs." {
		t.Errorf("message = %q", resp.Message)
	}
}

func TestSendNotification_UnknownMembersSkipped(t *testing.T) {
	dir := &mockDirectory{
		incidents: map[string]*models.Incident{testSysID: testIncident()},
		users:     map[string]*models.Member{"u1": {SysID: "u1", Name: "Alice"}},
	}
	hook := &mockWebhookSender{result: true}
	svc := notifyService(dir, hook, notifyConfig())

	req := validRequest()
	req.MemberIDs = []string{"u1", "missing", ""}

	if _, err := svc.SendNotification(context.Background(), req); err != nil {
		t.Fatalf("SendNotification failed: %v", err)
	}
	payload := hook.payloads[0].(models.NotificationPayload)
	if len(payload.NotifyMembers) != 1 {
		t.Errorf("expected 1 member, got %d", len(payload.NotifyMembers))
	}
}

func TestSendNotification_DegradedLookups(t *testing.T) {
	dir := &mockDirectory{
		incidents:  map[string]*models.Incident{testSysID: testIncident()},
		users:      map[string]*models.Member{"u1": {SysID: "u1", Name: "Alice"}},
		groupErr:   errors.New("HTTP 503"),
		commentErr: errors.New("HTTP 503"),
	}
	hook := &mockWebhookSender{result: true}
	svc := notifyService(dir, hook, notifyConfig())

	req := validRequest()
	req.MemberIDs = []string{"u1"}

	resp, err := svc.SendNotification(context.Background(), req)
	if err != nil {
		t.Fatalf("degraded lookups must not fail the send: %v", err)
	}
	if !resp.Sent {
		t.Error("expected sent = true")
	}

	payload := hook.payloads[0].(models.NotificationPayload)
	if payload.AssignmentGroup != "" || payload.Comments != "" {
		t.Errorf("expected sparse payload, got group=%q comments=%q", payload.AssignmentGroup, payload.Comments)
	}
}

func TestNotifyStateChange(t *testing.T) {
	resolved := testIncident()
	resolved.State = StateResolved

	dir := &mockDirectory{incidents: map[string]*models.Incident{testSysID: resolved}}
	hook := &mockWebhookSender{result: true}
	svc := notifyService(dir, hook, notifyConfig())

	if err := svc.NotifyStateChange(context.Background(), testSysID); err != nil {
		t.Fatalf("NotifyStateChange failed: %v", err)
	}
	if len(hook.payloads) != 1 {
		t.Fatalf("expected 1 delivery, got %d", len(hook.payloads))
	}
	payload, ok := hook.payloads[0].(models.StateChangePayload)
	if !ok {
		t.Fatalf("unexpected payload type %T", hook.payloads[0])
	}
	if payload.Number != "INC0010001" || payload.State != StateResolved {
		t.Errorf("payload = %+v", payload)
	}
}

func TestNotifyStateChange_SkipsOpenIncidents(t *testing.T) {
	dir := &mockDirectory{incidents: map[string]*models.Incident{testSysID: testIncident()}}
	hook := &mockWebhookSender{result: true}
	svc := notifyService(dir, hook, notifyConfig())

	if err := svc.NotifyStateChange(context.Background(), testSysID); err != nil {
		t.Fatalf("NotifyStateChange failed: %v", err)
	}
	if len(hook.payloads) != 0 {
		t.Error("open incident must not trigger the state-change webhook")
	}
}

func TestNotifyStateChange_DeliveryFailureAbsorbed(t *testing.T) {
	closed := testIncident()
	closed.State = StateClosed

	dir := &mockDirectory{incidents: map[string]*models.Incident{testSysID: closed}}
	hook := &mockWebhookSender{result: false}
	svc := notifyService(dir, hook, notifyConfig())

	if err := svc.NotifyStateChange(context.Background(), testSysID); err != nil {
		t.Fatalf("delivery failure must be absorbed: %v", err)
	}
}

func TestBuildNotificationPayload_InsertAction(t *testing.T) {
	incident := testIncident()
	incident.IsNew = true

	payload := BuildNotificationPayload(incident, "Payments", "", nil, validRequest(), "")
	if payload.ActionType != "insert" {
		t.Errorf("action_type = %q, want insert", payload.ActionType)
	}
	if payload.NotifyMembers == nil {
		t.Error("notify_members must be an empty list, not null")
	}
}

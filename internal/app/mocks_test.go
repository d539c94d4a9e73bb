package app

import (
	"context"
	"sync"

	"github.com/example/dutybridge/internal/models"
)

// mockFlashdutyAPI implements secondary.FlashdutyAPI for testing.
type mockFlashdutyAPI struct {
	mu sync.Mutex

	rules    []models.EscalationRule
	rulesErr error

	persons   map[int64]string
	teams     map[int64]string
	schedules map[string]string

	personErr   error
	teamErr     error
	scheduleErr error

	listCalls     int
	personCalls   int
	teamCalls     int
	scheduleCalls int

	personArgs   [][]int64
	teamArgs     [][]int64
	scheduleArgs [][]string
}

func (m *mockFlashdutyAPI) ListEscalationRules(ctx context.Context, channelID int64) ([]models.EscalationRule, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listCalls++
	if m.rulesErr != nil {
		return nil, m.rulesErr
	}
	return m.rules, nil
}

func (m *mockFlashdutyAPI) PersonNames(ctx context.Context, ids []int64) (map[int64]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.personCalls++
	m.personArgs = append(m.personArgs, ids)
	if m.personErr != nil {
		return nil, m.personErr
	}
	return m.persons, nil
}

func (m *mockFlashdutyAPI) TeamNames(ctx context.Context, ids []int64) (map[int64]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.teamCalls++
	m.teamArgs = append(m.teamArgs, ids)
	if m.teamErr != nil {
		return nil, m.teamErr
	}
	return m.teams, nil
}

func (m *mockFlashdutyAPI) ScheduleNames(ctx context.Context, ids []string) (map[string]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.scheduleCalls++
	m.scheduleArgs = append(m.scheduleArgs, ids)
	if m.scheduleErr != nil {
		return nil, m.scheduleErr
	}
	return m.schedules, nil
}

// mockDirectory implements secondary.Directory for testing.
type mockDirectory struct {
	incidents map[string]*models.Incident
	groups    map[string]string
	members   map[string][]models.Member
	users     map[string]*models.Member
	comments  map[string]string

	groupErr   error
	commentErr error
}

func (m *mockDirectory) Incident(ctx context.Context, sysID string) (*models.Incident, error) {
	if inc, ok := m.incidents[sysID]; ok {
		return inc, nil
	}
	return nil, nil
}

func (m *mockDirectory) GroupName(ctx context.Context, groupID string) (string, error) {
	if m.groupErr != nil {
		return "", m.groupErr
	}
	return m.groups[groupID], nil
}

func (m *mockDirectory) ActiveMembers(ctx context.Context, groupID string) ([]models.Member, error) {
	return m.members[groupID], nil
}

func (m *mockDirectory) User(ctx context.Context, userID string) (*models.Member, error) {
	if u, ok := m.users[userID]; ok {
		return u, nil
	}
	return nil, nil
}

func (m *mockDirectory) LatestComment(ctx context.Context, recordID string) (string, error) {
	if m.commentErr != nil {
		return "", m.commentErr
	}
	return m.comments[recordID], nil
}

// mockWebhookSender implements secondary.WebhookSender for testing.
type mockWebhookSender struct {
	result   bool
	payloads []any
}

func (m *mockWebhookSender) Send(ctx context.Context, payload any) bool {
	m.payloads = append(m.payloads, payload)
	return m.result
}

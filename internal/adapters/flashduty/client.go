// Package flashduty implements the FlashdutyAPI secondary port against the
// Flashduty OpenAPI. All endpoints are POST with the app key passed as a
// query parameter.
package flashduty

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/example/dutybridge/internal/config"
	"github.com/example/dutybridge/internal/models"
)

const requestTimeout = 30 * time.Second

// maxResponseBytes caps how much of an error body is read for logging.
const maxResponseBytes = 1 << 20

// Client talks to the Flashduty OpenAPI.
type Client struct {
	cfg        *config.Config
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient creates a Flashduty API client.
func NewClient(cfg *config.Config, logger *zap.Logger) *Client {
	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: requestTimeout},
		logger:     logger,
	}
}

// ListEscalationRules fetches all escalation rules of a channel.
// Missing response fields decode as absent: no rules, no error.
func (c *Client) ListEscalationRules(ctx context.Context, channelID int64) ([]models.EscalationRule, error) {
	body, err := c.post(ctx, "/channel/escalate/rule/list", map[string]any{"channel_id": channelID})
	if err != nil {
		return nil, err
	}

	var out struct {
		Data struct {
			Items []struct {
				RuleID   json.RawMessage          `json:"rule_id"`
				RuleName string                   `json:"rule_name"`
				Status   string                   `json:"status"`
				Layers   []models.EscalationLayer `json:"layers"`
			} `json:"items"`
		} `json:"data"`
	}
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("failed to parse rule list response: %w", err)
	}

	rules := make([]models.EscalationRule, 0, len(out.Data.Items))
	for _, item := range out.Data.Items {
		rules = append(rules, models.EscalationRule{
			RuleID:   flexString(item.RuleID),
			RuleName: item.RuleName,
			Status:   item.Status,
			Layers:   item.Layers,
		})
	}
	return rules, nil
}

// PersonNames resolves person IDs to display names. Entries without a name
// fall back to "User <id>".
func (c *Client) PersonNames(ctx context.Context, ids []int64) (map[int64]string, error) {
	body, err := c.post(ctx, "/person/infos", map[string]any{"person_ids": ids})
	if err != nil {
		return nil, err
	}

	var out struct {
		Data struct {
			Items []struct {
				PersonID   int64  `json:"person_id"`
				PersonName string `json:"person_name"`
			} `json:"items"`
		} `json:"data"`
	}
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("failed to parse person response: %w", err)
	}

	names := make(map[int64]string, len(out.Data.Items))
	for _, item := range out.Data.Items {
		name := item.PersonName
		if name == "" {
			name = "User " + strconv.FormatInt(item.PersonID, 10)
		}
		names[item.PersonID] = name
	}
	return names, nil
}

// TeamNames resolves team IDs to display names. Entries without a name
// fall back to "Team <id>".
func (c *Client) TeamNames(ctx context.Context, ids []int64) (map[int64]string, error) {
	body, err := c.post(ctx, "/team/infos", map[string]any{"team_ids": ids})
	if err != nil {
		return nil, err
	}

	var out struct {
		Data struct {
			Items []struct {
				TeamID   int64  `json:"team_id"`
				TeamName string `json:"team_name"`
			} `json:"items"`
		} `json:"data"`
	}
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("failed to parse team response: %w", err)
	}

	names := make(map[int64]string, len(out.Data.Items))
	for _, item := range out.Data.Items {
		name := item.TeamName
		if name == "" {
			name = "Team " + strconv.FormatInt(item.TeamID, 10)
		}
		names[item.TeamID] = name
	}
	return names, nil
}

// ScheduleNames resolves schedule IDs to display names. The endpoint is
// lenient about field names: schedule_id/id and schedule_name/name both
// occur in the wild.
func (c *Client) ScheduleNames(ctx context.Context, ids []string) (map[string]string, error) {
	body, err := c.post(ctx, "/schedule/infos", map[string]any{"schedule_ids": ids})
	if err != nil {
		return nil, err
	}

	var out struct {
		Data struct {
			Items []struct {
				ScheduleID   json.RawMessage `json:"schedule_id"`
				ID           json.RawMessage `json:"id"`
				ScheduleName string          `json:"schedule_name"`
				Name         string          `json:"name"`
			} `json:"items"`
		} `json:"data"`
	}
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("failed to parse schedule response: %w", err)
	}

	names := make(map[string]string, len(out.Data.Items))
	for _, item := range out.Data.Items {
		id := flexString(item.ScheduleID)
		if id == "" {
			id = flexString(item.ID)
		}
		if id == "" {
			continue
		}
		name := item.ScheduleName
		if name == "" {
			name = item.Name
		}
		if name == "" {
			name = "Schedule " + id
		}
		names[id] = name
	}
	return names, nil
}

// post issues one JSON request and returns the response body for 2xx
// statuses. Every other outcome is an error carrying status and body.
func (c *Client) post(ctx context.Context, path string, payload any) ([]byte, error) {
	reqBody, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	url := c.cfg.APIURL(path)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(reqBody))
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request to %s failed: %w", path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read response from %s: %w", path, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.logger.Error("flashduty API call failed",
			zap.String("path", path),
			zap.Int("status", resp.StatusCode),
			zap.ByteString("body", body))
		return nil, fmt.Errorf("%s returned HTTP %d", path, resp.StatusCode)
	}

	return body, nil
}

// flexString decodes a JSON value that may arrive as a string or a number.
func flexString(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		return n.String()
	}
	return ""
}

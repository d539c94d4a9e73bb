// Package servicenow implements the Directory secondary port against the
// ServiceNow Table API. The bridge runs outside the instance, so the
// record queries of the source deployment become REST reads with basic
// auth.
package servicenow

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"

	"github.com/example/dutybridge/internal/config"
	"github.com/example/dutybridge/internal/models"
)

const requestTimeout = 30 * time.Second

const maxResponseBytes = 1 << 20

// Directory reads incident and user data from a ServiceNow instance.
type Directory struct {
	cfg        *config.Config
	httpClient *http.Client
	logger     *zap.Logger
}

// NewDirectory creates a ServiceNow Table API directory.
func NewDirectory(cfg *config.Config, logger *zap.Logger) *Directory {
	return &Directory{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: requestTimeout},
		logger:     logger,
	}
}

// displayField is a Table API field rendered with sysparm_display_value=all.
type displayField struct {
	Value        string `json:"value"`
	DisplayValue string `json:"display_value"`
}

// Incident retrieves an incident by sys_id. Impact and state carry their
// display values, urgency its raw value, matching what the webhook payload
// expects. An unknown sys_id yields (nil, nil).
func (d *Directory) Incident(ctx context.Context, sysID string) (*models.Incident, error) {
	query := url.Values{}
	query.Set("sysparm_display_value", "all")
	query.Set("sysparm_fields", "sys_id,number,short_description,description,impact,urgency,state,assignment_group,assigned_to")

	body, found, err := d.get(ctx, "/api/now/table/incident/"+url.PathEscape(sysID), query)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, nil
	}

	var out struct {
		Result struct {
			SysID            displayField `json:"sys_id"`
			Number           displayField `json:"number"`
			ShortDescription displayField `json:"short_description"`
			Description      displayField `json:"description"`
			Impact           displayField `json:"impact"`
			Urgency          displayField `json:"urgency"`
			State            displayField `json:"state"`
			AssignmentGroup  displayField `json:"assignment_group"`
			AssignedTo       displayField `json:"assigned_to"`
		} `json:"result"`
	}
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("failed to parse incident response: %w", err)
	}

	r := out.Result
	return &models.Incident{
		SysID:            r.SysID.Value,
		Number:           r.Number.Value,
		ShortDescription: r.ShortDescription.Value,
		Description:      r.Description.Value,
		Impact:           r.Impact.DisplayValue,
		Urgency:          r.Urgency.Value,
		State:            r.State.DisplayValue,
		AssignmentGroup:  r.AssignmentGroup.Value,
		AssignedTo:       r.AssignedTo.Value,
	}, nil
}

// GroupName resolves a group sys_id to its name. Unknown groups resolve
// to "".
func (d *Directory) GroupName(ctx context.Context, groupID string) (string, error) {
	if groupID == "" {
		return "", nil
	}

	query := url.Values{}
	query.Set("sysparm_fields", "sys_id,name")

	body, found, err := d.get(ctx, "/api/now/table/sys_user_group/"+url.PathEscape(groupID), query)
	if err != nil {
		return "", err
	}
	if !found {
		return "", nil
	}

	var out struct {
		Result struct {
			Name string `json:"name"`
		} `json:"result"`
	}
	if err := json.Unmarshal(body, &out); err != nil {
		return "", fmt.Errorf("failed to parse group response: %w", err)
	}
	return out.Result.Name, nil
}

// ActiveMembers lists the active users of a group.
func (d *Directory) ActiveMembers(ctx context.Context, groupID string) ([]models.Member, error) {
	if groupID == "" {
		return nil, nil
	}

	query := url.Values{}
	query.Set("sysparm_query", "group="+groupID+"^user.active=true")
	query.Set("sysparm_fields", "user.sys_id,user.name,user.email")

	body, found, err := d.get(ctx, "/api/now/table/sys_user_grmember", query)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, nil
	}

	var out struct {
		Result []struct {
			SysID string `json:"user.sys_id"`
			Name  string `json:"user.name"`
			Email string `json:"user.email"`
		} `json:"result"`
	}
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("failed to parse member response: %w", err)
	}

	members := make([]models.Member, 0, len(out.Result))
	for _, r := range out.Result {
		if r.SysID == "" {
			continue
		}
		members = append(members, models.Member{SysID: r.SysID, Name: r.Name, Email: r.Email})
	}
	return members, nil
}

// User retrieves a single user by sys_id. Unknown users yield (nil, nil).
func (d *Directory) User(ctx context.Context, userID string) (*models.Member, error) {
	if userID == "" {
		return nil, nil
	}

	query := url.Values{}
	query.Set("sysparm_fields", "sys_id,name,email")

	body, found, err := d.get(ctx, "/api/now/table/sys_user/"+url.PathEscape(userID), query)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, nil
	}

	var out struct {
		Result struct {
			SysID string `json:"sys_id"`
			Name  string `json:"name"`
			Email string `json:"email"`
		} `json:"result"`
	}
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("failed to parse user response: %w", err)
	}
	return &models.Member{SysID: out.Result.SysID, Name: out.Result.Name, Email: out.Result.Email}, nil
}

// LatestComment returns the newest journal comment on a record, or "".
func (d *Directory) LatestComment(ctx context.Context, recordID string) (string, error) {
	query := url.Values{}
	query.Set("sysparm_query", "element_id="+recordID+"^element=comments^ORDERBYDESCsys_created_on")
	query.Set("sysparm_limit", "1")
	query.Set("sysparm_fields", "value")

	body, found, err := d.get(ctx, "/api/now/table/sys_journal_field", query)
	if err != nil {
		return "", err
	}
	if !found {
		return "", nil
	}

	var out struct {
		Result []struct {
			Value string `json:"value"`
		} `json:"result"`
	}
	if err := json.Unmarshal(body, &out); err != nil {
		return "", fmt.Errorf("failed to parse journal response: %w", err)
	}
	if len(out.Result) == 0 {
		return "", nil
	}
	return out.Result[0].Value, nil
}

// get issues one Table API read. The found flag is false for HTTP 404,
// which the Table API uses for unknown record sys_ids.
func (d *Directory) get(ctx context.Context, path string, query url.Values) ([]byte, bool, error) {
	if d.cfg.InstanceURL == "" {
		return nil, false, fmt.Errorf("servicenow instance url is not configured")
	}

	u := d.cfg.InstanceURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, false, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.SetBasicAuth(d.cfg.Username, d.cfg.Password)

	resp, err := d.httpClient.Do(req)
	if err != nil {
		return nil, false, fmt.Errorf("request to %s failed: %w", path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, false, fmt.Errorf("failed to read response from %s: %w", path, err)
	}

	if resp.StatusCode == http.StatusNotFound {
		return nil, false, nil
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		d.logger.Error("servicenow API call failed",
			zap.String("path", path),
			zap.Int("status", resp.StatusCode),
			zap.ByteString("body", body))
		return nil, false, fmt.Errorf("%s returned HTTP %d", path, resp.StatusCode)
	}

	return body, true, nil
}

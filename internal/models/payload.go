package models

// NotificationPayload is the outbound webhook body for an operator-
// triggered notification. Field names are fixed by the receiving
// integration and must not change.
type NotificationPayload struct {
	ActionType        string   `json:"action_type"` // "insert" or "update"
	Number            string   `json:"number"`
	SysID             string   `json:"sys_id"`
	ShortDescription  string   `json:"short_description"`
	Description       string   `json:"description"`
	Impact            string   `json:"impact"`
	Urgency           string   `json:"urgency"`
	Comments          string   `json:"comments"`
	PersonalChannels  string   `json:"personal_channels"` // comma-separated: sms,voice,teams,email
	AssignmentGroup   string   `json:"assignment_group"`
	AssignmentGroupID string   `json:"assignment_group_id"`
	NotifyMembers     []Member `json:"notify_members"`
	RuleID            string   `json:"rule_id"`
	TeamsID           string   `json:"teams_id"`
}

// StateChangePayload is the minimal webhook body sent when an incident is
// resolved or closed.
type StateChangePayload struct {
	Number string `json:"number"`
	SysID  string `json:"sys_id"`
	State  string `json:"state"`
}

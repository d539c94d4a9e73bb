package models

// Member is a ServiceNow user notified by name and email. The sys_id is
// the 32-character ServiceNow record identifier.
type Member struct {
	SysID string `json:"sys_id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Group is a ServiceNow assignment group.
type Group struct {
	SysID string `json:"sys_id"`
	Name  string `json:"name"`
}

package models

// Incident carries the incident fields the bridge reads. Impact holds the
// display value and Urgency the raw value, matching what the source system
// put on the wire.
type Incident struct {
	SysID            string `json:"sys_id"`
	Number           string `json:"number"`
	ShortDescription string `json:"short_description"`
	Description      string `json:"description"`
	Impact           string `json:"impact"`
	Urgency          string `json:"urgency"`
	State            string `json:"state"`
	AssignmentGroup  string `json:"assignment_group,omitempty"` // group sys_id
	AssignedTo       string `json:"assigned_to,omitempty"`      // user sys_id
	IsNew            bool   `json:"-"`
}

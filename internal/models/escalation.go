package models

import "sort"

// RuleStatusEnabled is the only rule status surfaced to callers.
const RuleStatusEnabled = "enabled"

// EscalationRule is one escalation policy as returned by the Flashduty
// channel/escalate/rule/list endpoint.
type EscalationRule struct {
	RuleID   string            `json:"rule_id"`
	RuleName string            `json:"rule_name"`
	Status   string            `json:"status"`
	Layers   []EscalationLayer `json:"layers,omitempty"`
}

// Enabled reports whether the rule may be offered for selection.
func (r EscalationRule) Enabled() bool { return r.Status == RuleStatusEnabled }

// EscalationLayer is one step of an escalation policy. Layer order is the
// escalation sequence; the first layer holds the immediate responders.
type EscalationLayer struct {
	EscalateWindow int              `json:"escalate_window"` // minutes before the next layer fires
	Target         EscalationTarget `json:"target"`
}

// EscalationTarget references the responders of a layer. Any combination
// of the three kinds may be set, including none at all. Schedules arrive
// on the wire as the keys of schedule_to_role_ids.
type EscalationTarget struct {
	PersonIDs         []int64          `json:"person_ids,omitempty"`
	TeamIDs           []int64          `json:"team_ids,omitempty"`
	ScheduleToRoleIDs map[string]int64 `json:"schedule_to_role_ids,omitempty"`
}

// ScheduleIDs returns the schedule IDs referenced by the target. Map key
// order is unspecified, so the result is sorted for determinism.
func (t EscalationTarget) ScheduleIDs() []string {
	if len(t.ScheduleToRoleIDs) == 0 {
		return nil
	}
	ids := make([]string, 0, len(t.ScheduleToRoleIDs))
	for id := range t.ScheduleToRoleIDs {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Empty reports whether the target references no responders of any kind.
func (t EscalationTarget) Empty() bool {
	return len(t.PersonIDs) == 0 && len(t.TeamIDs) == 0 && len(t.ScheduleToRoleIDs) == 0
}

// RankedPolicy is an enabled escalation rule together with its relevance
// score against an assignment-group name. Lower score means more relevant.
// The score is derived per resolver call and never persisted.
type RankedPolicy struct {
	RuleID      string            `json:"value"`
	RuleName    string            `json:"label"`
	Layers      []EscalationLayer `json:"layers"`
	Score       int               `json:"priority"`
	Recommended bool              `json:"recommended,omitempty"`
}

package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/example/dutybridge/internal/app"
	"github.com/example/dutybridge/internal/models"
	"github.com/example/dutybridge/internal/ports/primary"
)

func (s *Server) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.logger.Error("failed to encode response", zap.Error(err))
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, map[string]string{"error": message})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleConfig exposes only the non-sensitive settings a form client
// needs; the app key stays server-side.
func (s *Server) handleConfig(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]any{
		"channel_id": s.cfg.ChannelID,
	})
}

type policiesResponse struct {
	Policies []models.RankedPolicy `json:"policies"`
	Message  string                `json:"message,omitempty"`
}

// handlePolicies lists ranked escalation policies. With display=true the
// four-tier display ranking replaces the server ranking.
func (s *Server) handlePolicies(w http.ResponseWriter, r *http.Request) {
	groupName := r.URL.Query().Get("group_name")

	var channelID int64
	if v := r.URL.Query().Get("channel_id"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			s.writeError(w, http.StatusBadRequest, "invalid channel_id")
			return
		}
		channelID = id
	}

	policies, err := s.policies.ResolvePolicies(r.Context(), primary.ResolvePoliciesRequest{
		ChannelID: channelID,
		GroupName: groupName,
	})
	if err != nil {
		if errors.Is(err, primary.ErrNotConfigured) {
			// Missing credentials are not a caller error: empty list plus message.
			s.writeJSON(w, http.StatusOK, policiesResponse{
				Policies: []models.RankedPolicy{},
				Message:  "Flashduty is not configured",
			})
			return
		}
		s.writeError(w, http.StatusBadGateway, "failed to load policies")
		return
	}

	if r.URL.Query().Get("display") == "true" {
		policies = s.policies.RankForDisplay(policies, groupName)
	}
	s.writeJSON(w, http.StatusOK, policiesResponse{Policies: policies})
}

type timelineRequest struct {
	Layers []models.EscalationLayer `json:"layers"`
}

// handleTimeline resolves the escalation path for a selected policy. The
// newest selection wins: a request superseded by a later one gets 409.
func (s *Server) handleTimeline(w http.ResponseWriter, r *http.Request) {
	var req timelineRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	timeline, err := s.timeline.Select(r.Context(), req.Layers)
	if err != nil {
		if errors.Is(err, app.ErrSuperseded) {
			s.writeError(w, http.StatusConflict, "selection superseded by a newer one")
			return
		}
		s.writeError(w, http.StatusBadGateway, "failed to resolve timeline")
		return
	}

	type entry struct {
		AfterMinutes int                      `json:"after_minutes"`
		Targets      []primary.TimelineTarget `json:"targets"`
		Label        string                   `json:"label"`
	}
	out := struct {
		Entries []entry `json:"entries,omitempty"`
		Message string  `json:"message,omitempty"`
	}{Message: timeline.Message}
	for _, e := range timeline.Entries {
		out.Entries = append(out.Entries, entry{
			AfterMinutes: e.AfterMinutes,
			Targets:      e.Targets,
			Label:        e.Label(),
		})
	}
	s.writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleGroup(w http.ResponseWriter, r *http.Request) {
	groupID := mux.Vars(r)["id"]

	name, err := s.directory.GroupName(r.Context(), groupID)
	if err != nil {
		s.writeError(w, http.StatusBadGateway, "failed to resolve group")
		return
	}
	if name == "" {
		s.writeError(w, http.StatusNotFound, "group not found")
		return
	}
	s.writeJSON(w, http.StatusOK, models.Group{SysID: groupID, Name: name})
}

func (s *Server) handleGroupMembers(w http.ResponseWriter, r *http.Request) {
	groupID := mux.Vars(r)["id"]

	members, err := s.directory.ActiveMembers(r.Context(), groupID)
	if err != nil {
		s.writeError(w, http.StatusBadGateway, "failed to load group members")
		return
	}
	if members == nil {
		members = []models.Member{}
	}
	s.writeJSON(w, http.StatusOK, members)
}

func (s *Server) handleUser(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["id"]

	user, err := s.directory.User(r.Context(), userID)
	if err != nil {
		s.writeError(w, http.StatusBadGateway, "failed to load user")
		return
	}
	if user == nil {
		s.writeError(w, http.StatusNotFound, "user not found")
		return
	}
	s.writeJSON(w, http.StatusOK, user)
}

type sendRequest struct {
	SysID       string   `json:"sys_id"`
	GroupID     string   `json:"group_id"`
	NotifyTypes []string `json:"notify_types"`
	MemberIDs   []string `json:"member_ids"`
	RuleID      string   `json:"rule_id"`
}

func (s *Server) handleSend(w http.ResponseWriter, r *http.Request) {
	var req sendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	resp, err := s.notifications.SendNotification(r.Context(), primary.SendNotificationRequest{
		IncidentSysID: req.SysID,
		GroupID:       req.GroupID,
		NotifyTypes:   req.NotifyTypes,
		MemberIDs:     req.MemberIDs,
		RuleID:        req.RuleID,
	})
	if err != nil {
		switch {
		case errors.Is(err, primary.ErrValidation):
			s.writeError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, primary.ErrNotConfigured):
			s.writeError(w, http.StatusServiceUnavailable, err.Error())
		default:
			s.writeError(w, http.StatusInternalServerError, "failed to send notification")
		}
		return
	}
	s.writeJSON(w, http.StatusOK, resp)
}

type incidentEventRequest struct {
	SysID string `json:"sys_id"`
}

// handleIncidentEvent accepts an incident state-change event and forwards
// the minimal webhook when the state qualifies.
func (s *Server) handleIncidentEvent(w http.ResponseWriter, r *http.Request) {
	var req incidentEventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := s.notifications.NotifyStateChange(r.Context(), req.SysID); err != nil {
		switch {
		case errors.Is(err, primary.ErrValidation):
			s.writeError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, primary.ErrNotConfigured):
			s.writeError(w, http.StatusServiceUnavailable, err.Error())
		default:
			s.writeError(w, http.StatusInternalServerError, "failed to process event")
		}
		return
	}
	s.writeJSON(w, http.StatusAccepted, map[string]string{"status": "accepted"})
}

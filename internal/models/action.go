package models

import (
	"github.com/sirupsen/logrus"
)

// Runner actions shared by the CLI and the Lambda handler.
const (
	ActionNormalize    = "normalize"
	ActionInferNames   = "infer_names"
	ActionSummary      = "summary"
	ActionSetTeam      = "set_team"
	ActionSetLeader    = "set_leader"
	ActionSetField     = "set_field"
	ActionConfirm      = "confirm"
	ActionSetTeamNotes = "set_team_notes"
)

// ActionRequest describes one runner action and its arguments.
// Fields not used by the action are ignored.
type ActionRequest struct {
	Action    string `json:"action"`
	Username  string `json:"username,omitempty"`
	TeamID    string `json:"team_id,omitempty"`
	Field     string `json:"field,omitempty"`
	Value     string `json:"value,omitempty"`
	Confirmed bool   `json:"confirmed,omitempty"`
}

// IsMutation reports whether the action edits a single person or team.
func (r ActionRequest) IsMutation() bool {
	switch r.Action {
	case ActionSetTeam, ActionSetLeader, ActionSetField, ActionConfirm, ActionSetTeamNotes:
		return true
	}
	return false
}

// LogFields returns structured logging fields for this request.
func (r ActionRequest) LogFields() logrus.Fields {
	fields := logrus.Fields{"action": r.Action}
	if r.Username != "" {
		fields["username"] = r.Username
	}
	if r.TeamID != "" {
		fields["team_id"] = r.TeamID
	}
	if r.Field != "" {
		fields["field"] = r.Field
	}
	return fields
}

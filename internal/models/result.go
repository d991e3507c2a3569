package models

import (
	"fmt"

	"github.com/sirupsen/logrus"
)

// NormalizeReport counts the repairs made by one normalization pass.
// A pass over an already-normalized roster reports zero repairs.
type NormalizeReport struct {
	PeopleDropped         int `json:"people_dropped"`
	DuplicatePeople       int `json:"duplicate_people"`
	TeamListsTrimmed      int `json:"team_lists_trimmed"`
	LeaderListsTrimmed    int `json:"leader_lists_trimmed"`
	TeamIDsGenerated      int `json:"team_ids_generated"`
	DuplicateTeamIDs      int `json:"duplicate_team_ids"`
	MembershipsBackfilled int `json:"memberships_backfilled"`
	LeadersPromoted       int `json:"leaders_promoted"`
	CommitterFlipped      int `json:"committer_flipped"`
	LegacyFieldsRemoved   int `json:"legacy_fields_removed"`
}

// Repairs returns the total number of repairs in the report.
func (r NormalizeReport) Repairs() int {
	return r.PeopleDropped + r.DuplicatePeople + r.TeamListsTrimmed + r.LeaderListsTrimmed +
		r.TeamIDsGenerated + r.DuplicateTeamIDs + r.MembershipsBackfilled + r.LeadersPromoted +
		r.CommitterFlipped + r.LegacyFieldsRemoved
}

// Merge adds the counts of other into r.
func (r *NormalizeReport) Merge(other NormalizeReport) {
	r.PeopleDropped += other.PeopleDropped
	r.DuplicatePeople += other.DuplicatePeople
	r.TeamListsTrimmed += other.TeamListsTrimmed
	r.LeaderListsTrimmed += other.LeaderListsTrimmed
	r.TeamIDsGenerated += other.TeamIDsGenerated
	r.DuplicateTeamIDs += other.DuplicateTeamIDs
	r.MembershipsBackfilled += other.MembershipsBackfilled
	r.LeadersPromoted += other.LeadersPromoted
	r.CommitterFlipped += other.CommitterFlipped
	r.LegacyFieldsRemoved += other.LegacyFieldsRemoved
}

// LogFields returns structured logging fields for this report.
func (r NormalizeReport) LogFields() logrus.Fields {
	return logrus.Fields{
		"people_dropped":         r.PeopleDropped,
		"duplicate_people":       r.DuplicatePeople,
		"team_lists_trimmed":     r.TeamListsTrimmed,
		"leader_lists_trimmed":   r.LeaderListsTrimmed,
		"team_ids_generated":     r.TeamIDsGenerated,
		"duplicate_team_ids":     r.DuplicateTeamIDs,
		"memberships_backfilled": r.MembershipsBackfilled,
		"leaders_promoted":       r.LeadersPromoted,
		"committer_flipped":      r.CommitterFlipped,
		"legacy_fields_removed":  r.LegacyFieldsRemoved,
	}
}

// RosterSummary provides aggregate statistics about a roster.
type RosterSummary struct {
	People             int `json:"people"`
	Teams              int `json:"teams"`
	Committers         int `json:"committers"`
	Leaders            int `json:"leaders"`
	Confirmed          int `json:"confirmed"`
	Unassigned         int `json:"unassigned"`
	TeamsWithoutLeader int `json:"teams_without_leader"`
}

// String returns a human-readable representation of the summary.
func (s RosterSummary) String() string {
	return fmt.Sprintf(
		"People: %d, Teams: %d (%d without leader), Committers: %d, Leaders: %d, Confirmed: %d, Unassigned: %d",
		s.People, s.Teams, s.TeamsWithoutLeader, s.Committers, s.Leaders, s.Confirmed, s.Unassigned,
	)
}

// RunResult contains the outcome of one runner action.
type RunResult struct {
	Action     string           `json:"action"`
	DryRun     bool             `json:"dry_run"`
	Saved      bool             `json:"saved"`
	DurationMs int64            `json:"duration_ms"`
	Report     NormalizeReport  `json:"report"`
	Inference  *InferenceResult `json:"inference,omitempty"`
	Summary    RosterSummary    `json:"summary"`
	Catalog    int              `json:"catalog_teams_added,omitempty"`
	// Document is the exported JSON, set whenever the roster was exported.
	Document []byte `json:"-"`
}

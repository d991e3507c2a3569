package roster

import (
	"github.com/daniloc96/gitcode-team-roster/internal/models"
)

// PersonField names a free-text person field editable through SetPersonField.
type PersonField string

const (
	FieldRealName PersonField = "realName"
	FieldEmail    PersonField = "email"
	FieldNotes    PersonField = "notes"
)

// ParsePersonField maps a wire field name to a PersonField.
func ParsePersonField(name string) (PersonField, bool) {
	switch f := PersonField(name); f {
	case FieldRealName, FieldEmail, FieldNotes:
		return f, true
	}
	return "", false
}

// Session owns the roster of one loaded document. Every mutation ends in a
// reconcile pass, so readers never observe a roster that violates its invariants.
// A Session is not safe for concurrent use.
type Session struct {
	normalizer *Normalizer
	roster     *models.Roster
	report     models.NormalizeReport
	dirty      bool
}

// NewSession creates a session holding an empty roster.
func NewSession(normalizer *Normalizer) *Session {
	if normalizer == nil {
		normalizer = defaultNormalizer
	}
	s := &Session{normalizer: normalizer}
	s.roster, _ = normalizer.Normalize(nil)
	return s
}

// Load replaces the current roster with a normalized copy of raw and clears the dirty flag.
func (s *Session) Load(raw any) models.NormalizeReport {
	s.roster, s.report = s.normalizer.Normalize(raw)
	s.dirty = false
	return s.report
}

// Roster returns the current canonical roster. Callers must not mutate it directly.
func (s *Session) Roster() *models.Roster {
	return s.roster
}

// Report returns the repairs accumulated since the last Load.
func (s *Session) Report() models.NormalizeReport {
	return s.report
}

// Dirty reports whether the roster has unsaved changes.
func (s *Session) Dirty() bool {
	return s.dirty
}

// MarkSaved clears the dirty flag after the document has been persisted.
func (s *Session) MarkSaved() {
	s.dirty = false
}

// SetPersonTeam assigns username to teamID, or clears the assignment when teamID is "".
// It reports false when username is unknown.
func (s *Session) SetPersonTeam(username, teamID string) bool {
	p := s.roster.FindPerson(username)
	if p == nil {
		return false
	}
	if teamID == "" {
		p.TeamIDs = []string{}
	} else {
		p.TeamIDs = []string{teamID}
	}
	// Stale member lists would otherwise backfill the old team on commit.
	for i := range s.roster.Teams {
		s.roster.Teams[i].MemberUsernames = without(s.roster.Teams[i].MemberUsernames, username)
	}
	s.commit()
	return true
}

// SetTeamLeader makes username the leader of teamID, or clears the slot when username is "".
// The leader does not need to be a member yet. It reports false when teamID is unknown.
func (s *Session) SetTeamLeader(teamID, username string) bool {
	t := s.roster.FindTeam(teamID)
	if t == nil {
		return false
	}
	if username == "" {
		t.LeaderUsernames = []string{}
	} else {
		t.LeaderUsernames = []string{username}
	}
	s.commit()
	return true
}

// SetPersonField assigns a free-text field. It reports false when username is unknown.
func (s *Session) SetPersonField(username string, field PersonField, value string) bool {
	p := s.roster.FindPerson(username)
	if p == nil {
		return false
	}
	switch field {
	case FieldRealName:
		p.RealName = value
	case FieldEmail:
		p.Email = value
	case FieldNotes:
		p.Notes = value
	default:
		return false
	}
	s.commit()
	return true
}

// ToggleConfirmed sets the confirmation lock of username. It reports false when username is unknown.
func (s *Session) ToggleConfirmed(username string, value bool) bool {
	p := s.roster.FindPerson(username)
	if p == nil {
		return false
	}
	p.IsConfirmed = value
	s.commit()
	return true
}

// SetTeamNotes assigns the free-text notes of a team. It reports false when teamID is unknown.
func (s *Session) SetTeamNotes(teamID, notes string) bool {
	t := s.roster.FindTeam(teamID)
	if t == nil {
		return false
	}
	t.Notes = notes
	s.commit()
	return true
}

func (s *Session) commit() {
	s.report.Merge(s.normalizer.Reconcile(s.roster))
	s.dirty = true
}

func without(values []string, drop string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v != drop {
			out = append(out, v)
		}
	}
	return out
}

package models

// DefaultSchemaVersion is written when a document does not carry its own schema version.
const DefaultSchemaVersion = "team.v1"

// Roster is the canonical, invariant-satisfying in-memory model of a team document.
type Roster struct {
	SchemaVersion string
	UpdatedAt     string
	// Sources are collection records passed through unchanged.
	Sources []any
	Teams   []Team
	People  []Person
}

// Team is one group of the roster.
type Team struct {
	ID   string
	Name string
	// LeaderUsernames holds at most one username after normalization.
	LeaderUsernames []string
	// MemberUsernames is derived from Person.TeamIDs plus the team leader.
	MemberUsernames []string
	Notes           string
}

// Leader returns the team leader username, or "" when the slot is empty.
func (t *Team) Leader() string {
	if len(t.LeaderUsernames) == 0 {
		return ""
	}
	return t.LeaderUsernames[0]
}

// HasMember reports whether username is listed in MemberUsernames.
func (t *Team) HasMember(username string) bool {
	for _, m := range t.MemberUsernames {
		if m == username {
			return true
		}
	}
	return false
}

// Person is one member of the roster.
type Person struct {
	Username    string
	ExternalID  string
	RealName    string
	Email       string
	Notes       string
	IsConfirmed bool
	// IsCommitter is derived from RepositoryRoles on every normalization pass.
	IsCommitter bool
	// IsLeader is derived from team leadership on every normalization pass.
	IsLeader bool
	// TeamIDs keeps the array wire shape but holds at most one team id.
	TeamIDs         []string
	RepositoryRoles []RepositoryRole
}

// TeamID returns the authoritative team reference, or "" when unassigned.
func (p *Person) TeamID() string {
	if len(p.TeamIDs) == 0 {
		return ""
	}
	return p.TeamIDs[0]
}

// FindPerson returns the person with the given username, or nil.
func (r *Roster) FindPerson(username string) *Person {
	for i := range r.People {
		if r.People[i].Username == username {
			return &r.People[i]
		}
	}
	return nil
}

// FindTeam returns the team with the given id, or nil.
func (r *Roster) FindTeam(id string) *Team {
	for i := range r.Teams {
		if r.Teams[i].ID == id {
			return &r.Teams[i]
		}
	}
	return nil
}

// FindTeamByName returns the first team with the given display name, or nil.
func (r *Roster) FindTeamByName(name string) *Team {
	for i := range r.Teams {
		if r.Teams[i].Name == name {
			return &r.Teams[i]
		}
	}
	return nil
}

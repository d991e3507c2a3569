package roster

import (
	"reflect"
	"testing"
)

const sessionDocument = `{
  "groups": [
    {"id": "g1", "name": "Compiler", "leaderUsernames": ["carol"]},
    {"id": "g2", "name": "Runtime"}
  ],
  "people": [
    {"username": "alice", "email": "alice12@huawei.com", "groups": ["g2"]},
    {"username": "bob", "groups": ["g1"]},
    {"username": "carol", "groups": ["g1"]}
  ]
}`

func loadSession(t *testing.T) *Session {
	t.Helper()
	s := NewSession(nil)
	s.Load(mustParse(t, sessionDocument))
	if s.Dirty() {
		t.Fatalf("expected freshly loaded session to be clean")
	}
	return s
}

func TestNewSessionIsEmpty(t *testing.T) {
	s := NewSession(nil)
	if len(s.Roster().People) != 0 || len(s.Roster().Teams) != 0 {
		t.Fatalf("expected empty roster, got %+v", s.Roster())
	}
	if s.Dirty() {
		t.Fatalf("expected new session to be clean")
	}
}

func TestSetPersonTeam(t *testing.T) {
	tests := []struct {
		name        string
		username    string
		teamID      string
		wantOK      bool
		wantTeam    string
		wantMembers map[string][]string
	}{
		{
			name:     "move to another team",
			username: "bob",
			teamID:   "g2",
			wantOK:   true,
			wantTeam: "g2",
			wantMembers: map[string][]string{
				"g1": {"carol"},
				"g2": {"alice", "bob"},
			},
		},
		{
			name:     "clear assignment",
			username: "bob",
			teamID:   "",
			wantOK:   true,
			wantTeam: "",
			wantMembers: map[string][]string{
				"g1": {"carol"},
				"g2": {"alice"},
			},
		},
		{
			name:     "clearing a leader keeps the led team",
			username: "carol",
			teamID:   "",
			wantOK:   true,
			wantTeam: "g1",
			wantMembers: map[string][]string{
				"g1": {"bob", "carol"},
				"g2": {"alice"},
			},
		},
		{
			name:     "unknown username",
			username: "ghost",
			teamID:   "g1",
			wantOK:   false,
			wantMembers: map[string][]string{
				"g1": {"bob", "carol"},
				"g2": {"alice"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := loadSession(t)
			ok := s.SetPersonTeam(tt.username, tt.teamID)
			if ok != tt.wantOK {
				t.Fatalf("expected ok=%v, got %v", tt.wantOK, ok)
			}
			if s.Dirty() != tt.wantOK {
				t.Fatalf("expected dirty=%v, got %v", tt.wantOK, s.Dirty())
			}
			if tt.wantOK {
				if got := s.Roster().FindPerson(tt.username).TeamID(); got != tt.wantTeam {
					t.Fatalf("expected team %q, got %q", tt.wantTeam, got)
				}
			}
			for id, want := range tt.wantMembers {
				if got := s.Roster().FindTeam(id).MemberUsernames; !reflect.DeepEqual(got, want) {
					t.Fatalf("expected %s members %v, got %v", id, want, got)
				}
			}
			assertInvariants(t, s.Roster())
		})
	}
}

func TestSetTeamLeader(t *testing.T) {
	s := loadSession(t)

	if !s.SetTeamLeader("g2", "alice") {
		t.Fatalf("expected leader assignment to succeed")
	}
	if !s.Roster().FindPerson("alice").IsLeader {
		t.Fatalf("expected alice to be marked leader")
	}
	assertInvariants(t, s.Roster())

	// Leading another team does not move the leader.
	if !s.SetTeamLeader("g1", "alice") {
		t.Fatalf("expected leader replacement to succeed")
	}
	if s.Roster().FindPerson("alice").TeamID() != "g2" {
		t.Fatalf("expected alice to stay in g2")
	}
	if !s.Roster().FindTeam("g1").HasMember("alice") {
		t.Fatalf("expected alice listed as member of g1")
	}
	if s.Roster().FindPerson("carol").IsLeader {
		t.Fatalf("expected carol to lose the leader flag")
	}
	assertInvariants(t, s.Roster())

	if !s.SetTeamLeader("g1", "") {
		t.Fatalf("expected clearing the leader slot to succeed")
	}
	if got := s.Roster().FindTeam("g1").Leader(); got != "" {
		t.Fatalf("expected empty leader slot, got %q", got)
	}
	if s.Roster().FindTeam("g1").HasMember("alice") {
		t.Fatalf("expected alice to leave the g1 member list once no longer leader")
	}
	assertInvariants(t, s.Roster())

	if s.SetTeamLeader("missing", "bob") {
		t.Fatalf("expected unknown team to be rejected")
	}
}

func TestSetTeamLeaderTeamlessPerson(t *testing.T) {
	s := loadSession(t)
	s.SetPersonTeam("bob", "")

	s.SetTeamLeader("g2", "bob")

	if got := s.Roster().FindPerson("bob").TeamID(); got != "g2" {
		t.Fatalf("expected teamless leader to join the led team, got %q", got)
	}
	assertInvariants(t, s.Roster())
}

func TestSetPersonField(t *testing.T) {
	s := loadSession(t)

	if !s.SetPersonField("bob", FieldRealName, "Bob Li") {
		t.Fatalf("expected realName update to succeed")
	}
	if !s.SetPersonField("bob", FieldNotes, "on leave") {
		t.Fatalf("expected notes update to succeed")
	}
	if !s.SetPersonField("bob", FieldEmail, "bob@example.org") {
		t.Fatalf("expected email update to succeed")
	}
	bob := s.Roster().FindPerson("bob")
	if bob.RealName != "Bob Li" || bob.Notes != "on leave" || bob.Email != "bob@example.org" {
		t.Fatalf("expected updated fields, got %+v", bob)
	}
	if s.SetPersonField("bob", PersonField("username"), "x") {
		t.Fatalf("expected unsupported field to be rejected")
	}
	if s.SetPersonField("ghost", FieldRealName, "x") {
		t.Fatalf("expected unknown person to be rejected")
	}
}

func TestParsePersonField(t *testing.T) {
	tests := []struct {
		in     string
		want   PersonField
		wantOK bool
	}{
		{"realName", FieldRealName, true},
		{"email", FieldEmail, true},
		{"notes", FieldNotes, true},
		{"isCommitter", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		got, ok := ParsePersonField(tt.in)
		if got != tt.want || ok != tt.wantOK {
			t.Fatalf("ParsePersonField(%q): expected %q/%v, got %q/%v", tt.in, tt.want, tt.wantOK, got, ok)
		}
	}
}

func TestToggleConfirmedAndNotes(t *testing.T) {
	s := loadSession(t)

	if !s.ToggleConfirmed("alice", true) || !s.Roster().FindPerson("alice").IsConfirmed {
		t.Fatalf("expected alice to be confirmed")
	}
	if !s.ToggleConfirmed("alice", false) || s.Roster().FindPerson("alice").IsConfirmed {
		t.Fatalf("expected alice to be unconfirmed")
	}
	if s.ToggleConfirmed("ghost", true) {
		t.Fatalf("expected unknown person to be rejected")
	}

	if !s.SetTeamNotes("g2", "runtime and stdlib") {
		t.Fatalf("expected team notes update to succeed")
	}
	if got := s.Roster().FindTeam("g2").Notes; got != "runtime and stdlib" {
		t.Fatalf("expected notes to be stored, got %q", got)
	}
	if s.SetTeamNotes("missing", "x") {
		t.Fatalf("expected unknown team to be rejected")
	}
}

func TestDirtyFlagLifecycle(t *testing.T) {
	s := loadSession(t)

	s.ToggleConfirmed("bob", true)
	if !s.Dirty() {
		t.Fatalf("expected mutation to mark the session dirty")
	}
	s.MarkSaved()
	if s.Dirty() {
		t.Fatalf("expected MarkSaved to clear the dirty flag")
	}
	s.SetTeamNotes("g1", "x")
	s.Load(mustParse(t, sessionDocument))
	if s.Dirty() {
		t.Fatalf("expected Load to clear the dirty flag")
	}
	if s.Roster().FindTeam("g1").Notes != "" {
		t.Fatalf("expected Load to replace the previous roster")
	}
}

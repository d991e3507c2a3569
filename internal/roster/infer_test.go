package roster

import (
	"reflect"
	"testing"

	"github.com/daniloc96/gitcode-team-roster/internal/models"
)

func TestDeriveNameFromEmail(t *testing.T) {
	in := NewInferrer(nil)

	tests := []struct {
		email string
		want  string
	}{
		{"alice12@huawei.com", "alice"},
		{"Zhang.San3@h-partners.com", "zhangsan"},
		{"bob@HUAWEI.COM", "bob"},
		{"bob@huawei", "bob"},
		{"bob@huawei.com.cn", "bob"},
		{"  li_si_007@huawei.com  ", "lisi"},
		{"123@huawei.com", ""},
		{"bob@gmail.com", ""},
		{"bob@nothuawei.com", ""},
		{"bob@huaweicloud.com", ""},
		{"no-at-sign", ""},
		{"", ""},
	}

	for _, tt := range tests {
		if got := in.DeriveNameFromEmail(tt.email); got != tt.want {
			t.Fatalf("DeriveNameFromEmail(%q): expected %q, got %q", tt.email, tt.want, got)
		}
	}
}

func TestDeriveNameFromEmailCustomDomains(t *testing.T) {
	in := NewInferrer([]string{"@example.org", "  "})

	if got := in.DeriveNameFromEmail("jo9@example.org"); got != "jo" {
		t.Fatalf("expected jo, got %q", got)
	}
	if got := in.DeriveNameFromEmail("jo@examplexorg.com"); got != "" {
		t.Fatalf("expected dots in the domain to be matched literally, got %q", got)
	}
	if got := in.DeriveNameFromEmail("jo@huawei.com"); got != "" {
		t.Fatalf("expected default domains to be replaced, got %q", got)
	}
}

func TestShouldOverwrite(t *testing.T) {
	tests := []struct {
		realName string
		username string
		want     bool
	}{
		{"", "alice", true},
		{"   ", "alice", true},
		{"alice", "alice", true},
		{" alice ", "alice", true},
		{"Alice Wang", "alice", false},
		{"bob", "alice", false},
	}
	for _, tt := range tests {
		if got := ShouldOverwrite(tt.realName, tt.username); got != tt.want {
			t.Fatalf("ShouldOverwrite(%q, %q): expected %v, got %v", tt.realName, tt.username, tt.want, got)
		}
	}
}

const inferenceDocument = `{"people": [
  {"username": "alice", "realName": "", "email": "alice12@huawei.com"},
  {"username": "bob", "realName": "bob", "email": "bob.li@h-partners.com"},
  {"username": "dan", "realName": "", "email": "dan@huawei.com", "isConfirmed": true},
  {"username": "erin", "realName": "Erin Zhao", "email": "erin@huawei.com"},
  {"username": "frank", "realName": "", "email": "frank@gmail.com"},
  {"username": "gina", "realName": "gina", "email": "gina@huawei.com"}
]}`

func TestComputeProposedChanges(t *testing.T) {
	s := NewSession(nil)
	s.Load(mustParse(t, inferenceDocument))
	before := withoutTimestamp(s.Roster())

	changes := NewInferrer(nil).ComputeProposedChanges(s.Roster())

	want := []models.NameChange{
		{Username: "alice", Email: "alice12@huawei.com", OldRealName: "", NewRealName: "alice"},
		{Username: "bob", Email: "bob.li@h-partners.com", OldRealName: "bob", NewRealName: "bobli"},
	}
	if !reflect.DeepEqual(changes, want) {
		t.Fatalf("expected %+v, got %+v", want, changes)
	}
	if s.Dirty() {
		t.Fatalf("expected preview not to mark the session dirty")
	}
	if !reflect.DeepEqual(before, withoutTimestamp(s.Roster())) {
		t.Fatalf("expected preview to leave the roster untouched")
	}
}

func TestComputeProposedChangesNeverTouchesConfirmed(t *testing.T) {
	s := NewSession(nil)
	s.Load(mustParse(t, inferenceDocument))
	for _, p := range s.Roster().People {
		s.ToggleConfirmed(p.Username, true)
	}

	if changes := NewInferrer(nil).ComputeProposedChanges(s.Roster()); len(changes) != 0 {
		t.Fatalf("expected no changes for confirmed people, got %+v", changes)
	}
}

func TestApplyNameChanges(t *testing.T) {
	s := NewSession(nil)
	s.Load(mustParse(t, inferenceDocument))
	in := NewInferrer(nil)

	result := in.Apply(s, in.ComputeProposedChanges(s.Roster()))

	if result.Proposed != 2 || result.Applied != 2 || result.Skipped != 0 {
		t.Fatalf("expected 2 proposed and applied, got %+v", result)
	}
	if got := s.Roster().FindPerson("alice").RealName; got != "alice" {
		t.Fatalf("expected alice's realName to be set, got %q", got)
	}
	if got := s.Roster().FindPerson("bob").RealName; got != "bobli" {
		t.Fatalf("expected bob's realName to be set, got %q", got)
	}
	if !s.Dirty() {
		t.Fatalf("expected applied changes to mark the session dirty")
	}

	if again := in.ComputeProposedChanges(s.Roster()); len(again) != 0 {
		t.Fatalf("expected inference to converge, got %+v", again)
	}
}

func TestApplyRechecksStalePreview(t *testing.T) {
	s := NewSession(nil)
	s.Load(mustParse(t, inferenceDocument))
	in := NewInferrer(nil)

	changes := in.ComputeProposedChanges(s.Roster())
	s.ToggleConfirmed("alice", true)
	s.SetPersonField("bob", FieldRealName, "Bob Li")
	changes = append(changes, models.NameChange{Username: "ghost", NewRealName: "ghost"})

	result := in.Apply(s, changes)

	if result.Applied != 0 || result.Skipped != 3 {
		t.Fatalf("expected every stale change to be skipped, got %+v", result)
	}
	if got := s.Roster().FindPerson("alice").RealName; got != "" {
		t.Fatalf("expected confirmed alice to keep an empty realName, got %q", got)
	}
	if got := s.Roster().FindPerson("bob").RealName; got != "Bob Li" {
		t.Fatalf("expected bob's edited realName to survive, got %q", got)
	}
}

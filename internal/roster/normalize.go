package roster

import (
	"strings"

	"github.com/daniloc96/gitcode-team-roster/internal/models"
	"github.com/google/uuid"
)

// Keys dropped by the team-to-groups and committer migrations.
var (
	legacyDocumentKeys = []string{"team"}
	legacyPersonKeys   = []string{"team", "isCommitterAuto", "isCommitterManual"}
)

// Normalizer turns raw documents into canonical rosters.
type Normalizer struct {
	classifier *Classifier
	newID      func() string
}

// NewNormalizer creates a normalizer. A nil classifier uses the default committer labels;
// a nil newID generates UUIDs for teams without an identifier.
func NewNormalizer(classifier *Classifier, newID func() string) *Normalizer {
	if classifier == nil {
		classifier = defaultClassifier
	}
	if newID == nil {
		newID = uuid.NewString
	}
	return &Normalizer{classifier: classifier, newID: newID}
}

var defaultNormalizer = NewNormalizer(nil, nil)

// Normalize converts a parsed document using the default policy.
func Normalize(raw any) (*models.Roster, models.NormalizeReport) {
	return defaultNormalizer.Normalize(raw)
}

// Reconcile re-establishes the roster invariants in place using the default policy.
func Reconcile(r *models.Roster) models.NormalizeReport {
	return defaultNormalizer.Reconcile(r)
}

// Normalize converts any parsed JSON value into a canonical roster. A value that is
// not an object normalizes to an empty roster.
func (n *Normalizer) Normalize(raw any) (*models.Roster, models.NormalizeReport) {
	var report models.NormalizeReport
	doc := AsObject(raw)

	r := &models.Roster{
		SchemaVersion: AsString(doc["schemaVersion"], models.DefaultSchemaVersion),
		UpdatedAt:     AsString(doc["updatedAt"], ""),
		Sources:       append([]any{}, AsSlice(doc["sources"])...),
		Teams:         []models.Team{},
		People:        []models.Person{},
	}
	if r.SchemaVersion == "" {
		r.SchemaVersion = models.DefaultSchemaVersion
	}
	report.LegacyFieldsRemoved += countKeys(doc, legacyDocumentKeys)

	for _, item := range AsSlice(doc["groups"]) {
		g, ok := item.(map[string]any)
		if !ok {
			continue
		}
		r.Teams = append(r.Teams, models.Team{
			ID:              AsString(g["id"], ""),
			Name:            AsString(g["name"], ""),
			LeaderUsernames: stringsOnly(g["leaderUsernames"]),
			MemberUsernames: stringsOnly(g["memberUsernames"]),
			Notes:           AsString(g["notes"], ""),
		})
	}

	seen := map[string]struct{}{}
	for _, item := range AsSlice(doc["people"]) {
		p, ok := item.(map[string]any)
		if !ok {
			report.PeopleDropped++
			continue
		}
		username := strings.TrimSpace(AsString(p["username"], ""))
		if username == "" {
			report.PeopleDropped++
			continue
		}
		if _, dup := seen[username]; dup {
			report.DuplicatePeople++
			continue
		}
		seen[username] = struct{}{}
		report.LegacyFieldsRemoved += countKeys(p, legacyPersonKeys)

		groups := AsSlice(p["groups"])
		if len(groups) > 1 {
			report.TeamListsTrimmed++
		}
		teamIDs := []string{}
		if len(groups) > 0 {
			if id := AsString(groups[0], ""); id != "" {
				teamIDs = []string{id}
			}
		}

		roles := repositoryRoles(p["repos"])
		committer := n.classifier.ComputeIsCommitter(roles)
		if committer != AsBool(p["isCommitter"]) {
			report.CommitterFlipped++
		}

		r.People = append(r.People, models.Person{
			Username:        username,
			ExternalID:      AsString(p["gitcodeId"], ""),
			RealName:        AsString(p["realName"], ""),
			Email:           AsString(p["email"], ""),
			Notes:           AsString(p["notes"], ""),
			IsConfirmed:     AsBool(p["isConfirmed"]),
			IsCommitter:     committer,
			TeamIDs:         teamIDs,
			RepositoryRoles: roles,
		})
	}

	report.Merge(n.Reconcile(r))
	return r, report
}

// Reconcile enforces the roster invariants on a typed roster, in place:
// unique team ids, at most one team per person and one leader per team,
// member lists derived from person team ids plus leaders, and derived flags.
// Running it twice in a row changes nothing the second time.
func (n *Normalizer) Reconcile(r *models.Roster) models.NormalizeReport {
	var report models.NormalizeReport
	if r.Teams == nil {
		r.Teams = []models.Team{}
	}
	if r.People == nil {
		r.People = []models.Person{}
	}
	if r.Sources == nil {
		r.Sources = []any{}
	}

	teamIndex := make(map[string]int, len(r.Teams))
	for i := range r.Teams {
		t := &r.Teams[i]
		switch _, dup := teamIndex[t.ID]; {
		case t.ID == "":
			t.ID = n.newID()
			report.TeamIDsGenerated++
		case dup:
			t.ID = n.newID()
			report.DuplicateTeamIDs++
		}
		teamIndex[t.ID] = i

		leaders := nonEmpty(t.LeaderUsernames)
		if len(leaders) > 1 {
			leaders = leaders[:1]
			report.LeaderListsTrimmed++
		}
		t.LeaderUsernames = leaders
		if t.MemberUsernames == nil {
			t.MemberUsernames = []string{}
		}
	}

	personIndex := make(map[string]int, len(r.People))
	for i := range r.People {
		p := &r.People[i]
		switch {
		case len(p.TeamIDs) > 1:
			p.TeamIDs = p.TeamIDs[:1]
			report.TeamListsTrimmed++
		case p.TeamIDs == nil:
			p.TeamIDs = []string{}
		}
		if len(p.TeamIDs) == 1 && p.TeamIDs[0] == "" {
			p.TeamIDs = []string{}
		}
		if p.RepositoryRoles == nil {
			p.RepositoryRoles = []models.RepositoryRole{}
		}
		p.IsLeader = false
		personIndex[p.Username] = i
	}

	// Backfill teamless people from member lists; the first team listing them wins.
	for _, t := range r.Teams {
		for _, u := range t.MemberUsernames {
			if pi, ok := personIndex[u]; ok && r.People[pi].TeamID() == "" {
				r.People[pi].TeamIDs = []string{t.ID}
				report.MembershipsBackfilled++
			}
		}
	}
	// A teamless leader joins the team they lead, so the next pass sees the same membership.
	for _, t := range r.Teams {
		for _, u := range t.LeaderUsernames {
			if pi, ok := personIndex[u]; ok && r.People[pi].TeamID() == "" {
				r.People[pi].TeamIDs = []string{t.ID}
				report.LeadersPromoted++
			}
		}
	}

	for i := range r.Teams {
		r.Teams[i].MemberUsernames = []string{}
	}
	for _, p := range r.People {
		if ti, ok := teamIndex[p.TeamID()]; ok {
			r.Teams[ti].MemberUsernames = append(r.Teams[ti].MemberUsernames, p.Username)
		}
	}

	for i := range r.Teams {
		t := &r.Teams[i]
		for _, u := range t.LeaderUsernames {
			if !t.HasMember(u) {
				t.MemberUsernames = append(t.MemberUsernames, u)
			}
			if pi, ok := personIndex[u]; ok {
				r.People[pi].IsLeader = true
			}
		}
	}

	for i := range r.People {
		p := &r.People[i]
		committer := n.classifier.ComputeIsCommitter(p.RepositoryRoles)
		if p.IsCommitter != committer {
			p.IsCommitter = committer
			report.CommitterFlipped++
		}
	}

	return report
}

func repositoryRoles(v any) []models.RepositoryRole {
	roles := []models.RepositoryRole{}
	for _, item := range AsSlice(v) {
		obj, ok := item.(map[string]any)
		if !ok {
			continue
		}
		role := models.RepositoryRole{
			Owner:       AsString(obj[models.RepoKeyOwner], ""),
			Repo:        AsString(obj[models.RepoKeyRepo], ""),
			RoleLabelCn: AsString(obj[models.RepoKeyRoleNameCn], ""),
			RoleLabel:   AsString(obj[models.RepoKeyRoleName], ""),
			Permission:  AsString(obj[models.RepoKeyPermission], ""),
		}
		for k, val := range obj {
			if models.IsKnownRepoKey(k) {
				continue
			}
			if role.Extra == nil {
				role.Extra = map[string]any{}
			}
			role.Extra[k] = val
		}
		roles = append(roles, role)
	}
	return roles
}

func nonEmpty(values []string) []string {
	out := []string{}
	for _, v := range values {
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}

func countKeys(obj map[string]any, keys []string) int {
	n := 0
	for _, k := range keys {
		if _, ok := obj[k]; ok {
			n++
		}
	}
	return n
}

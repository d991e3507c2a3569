package models

import (
	"bytes"
	"encoding/json"
	"sort"
)

// Document is the persisted team.v1 shape produced by the exporter.
// Field order matches the order the loader and the collection tooling expect.
type Document struct {
	SchemaVersion string         `json:"schemaVersion"`
	UpdatedAt     string         `json:"updatedAt"`
	Sources       []any          `json:"sources"`
	Groups        []GroupRecord  `json:"groups"`
	People        []PersonRecord `json:"people"`
}

// GroupRecord is the wire form of a Team.
type GroupRecord struct {
	ID              string   `json:"id"`
	Name            string   `json:"name"`
	LeaderUsernames []string `json:"leaderUsernames"`
	MemberUsernames []string `json:"memberUsernames"`
	Notes           string   `json:"notes"`
}

// PersonRecord is the wire form of a Person.
type PersonRecord struct {
	Username    string           `json:"username"`
	GitcodeID   string           `json:"gitcodeId"`
	RealName    string           `json:"realName"`
	Email       string           `json:"email"`
	Notes       string           `json:"notes"`
	IsConfirmed bool             `json:"isConfirmed"`
	IsCommitter bool             `json:"isCommitter"`
	IsLeader    bool             `json:"isLeader"`
	Groups      []string         `json:"groups"`
	Repos       []RepositoryRole `json:"repos"`
}

// Wire keys of the role fields RepositoryRole understands. Anything else lands in Extra.
const (
	RepoKeyOwner      = "owner"
	RepoKeyRepo       = "repo"
	RepoKeyRoleNameCn = "roleNameCn"
	RepoKeyRoleName   = "roleName"
	RepoKeyPermission = "permission"
)

// IsKnownRepoKey reports whether key maps to a typed RepositoryRole field.
func IsKnownRepoKey(key string) bool {
	switch key {
	case RepoKeyOwner, RepoKeyRepo, RepoKeyRoleNameCn, RepoKeyRoleName, RepoKeyPermission:
		return true
	}
	return false
}

// RepositoryRole is a person's role on one repository.
// Extra keeps every key the core does not interpret (accessLevel, permissions, notes, ...).
type RepositoryRole struct {
	Owner       string
	Repo        string
	RoleLabelCn string
	RoleLabel   string
	Permission  string
	Extra       map[string]any
}

// MarshalJSON writes the typed keys first, in a fixed order, then Extra sorted by key.
func (r RepositoryRole) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	first := true
	write := func(key string, value any) error {
		if !first {
			buf.WriteByte(',')
		}
		first = false
		k, err := marshalNoEscape(key)
		if err != nil {
			return err
		}
		v, err := marshalNoEscape(value)
		if err != nil {
			return err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
		return nil
	}

	typed := []struct {
		key   string
		value string
	}{
		{RepoKeyOwner, r.Owner},
		{RepoKeyRepo, r.Repo},
		{RepoKeyRoleNameCn, r.RoleLabelCn},
		{RepoKeyRoleName, r.RoleLabel},
		{RepoKeyPermission, r.Permission},
	}
	for _, f := range typed {
		if err := write(f.key, f.value); err != nil {
			return nil, err
		}
	}

	keys := make([]string, 0, len(r.Extra))
	for k := range r.Extra {
		if IsKnownRepoKey(k) {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if err := write(k, r.Extra[k]); err != nil {
			return nil, err
		}
	}

	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func marshalNoEscape(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

package roster

import (
	"strings"
	"unicode"

	"github.com/daniloc96/gitcode-team-roster/internal/models"
)

// DefaultCommitterLabels are the local-language role labels granting committer status.
var DefaultCommitterLabels = []string{"仓颉Committer", "仓颉committer"}

const committerToken = "committer"

// Classifier decides committer status from per-repository role records.
type Classifier struct {
	labels map[string]struct{}
}

// NewClassifier builds a classifier for the given local-language labels.
// Labels are compared with all whitespace removed. An empty list uses DefaultCommitterLabels.
func NewClassifier(labels []string) *Classifier {
	if len(labels) == 0 {
		labels = DefaultCommitterLabels
	}
	set := make(map[string]struct{}, len(labels))
	for _, l := range labels {
		if n := stripSpace(l); n != "" {
			set[n] = struct{}{}
		}
	}
	return &Classifier{labels: set}
}

var defaultClassifier = NewClassifier(nil)

// IsCommitterRole reports whether a role record grants committer status using the default labels.
func IsCommitterRole(roleLabelCn, roleLabel string) bool {
	return defaultClassifier.IsCommitterRole(roleLabelCn, roleLabel)
}

// ComputeIsCommitter is true iff any role classifies as committer under the default labels.
func ComputeIsCommitter(roles []models.RepositoryRole) bool {
	return defaultClassifier.ComputeIsCommitter(roles)
}

// IsCommitterRole checks the local label first, then falls back to the English role name.
func (c *Classifier) IsCommitterRole(roleLabelCn, roleLabel string) bool {
	if _, ok := c.labels[stripSpace(roleLabelCn)]; ok {
		return true
	}
	rn := strings.ToLower(strings.TrimSpace(roleLabel))
	if rn == "" {
		return false
	}
	// Substring covers both "committer" and "<scope>:committer".
	return strings.Contains(rn, committerToken)
}

// ComputeIsCommitter short-circuits on the first committer role.
func (c *Classifier) ComputeIsCommitter(roles []models.RepositoryRole) bool {
	for _, r := range roles {
		if c.IsCommitterRole(r.RoleLabelCn, r.RoleLabel) {
			return true
		}
	}
	return false
}

func stripSpace(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
}

package roster

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/daniloc96/gitcode-team-roster/internal/models"
)

// DefaultInferenceDomains are the organizational mail domains names are inferred from.
var DefaultInferenceDomains = []string{"huawei", "h-partners"}

// Inferrer derives real names from organizational email addresses.
type Inferrer struct {
	domain *regexp.Regexp
}

// NewInferrer builds an inferrer for the given domain labels. A domain "example"
// matches "@example" and "@example.<anything>", case-insensitively. An empty list
// uses DefaultInferenceDomains.
func NewInferrer(domains []string) *Inferrer {
	if len(domains) == 0 {
		domains = DefaultInferenceDomains
	}
	quoted := make([]string, 0, len(domains))
	for _, d := range domains {
		d = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(d), "@"))
		if d != "" {
			quoted = append(quoted, regexp.QuoteMeta(d))
		}
	}
	if len(quoted) == 0 {
		return NewInferrer(DefaultInferenceDomains)
	}
	pattern := fmt.Sprintf(`(?i)@(%s)(\.[^@]+)?$`, strings.Join(quoted, "|"))
	return &Inferrer{domain: regexp.MustCompile(pattern)}
}

var (
	digitsRe    = regexp.MustCompile(`[0-9]+`)
	nonLetterRe = regexp.MustCompile(`[^a-zA-Z]`)
)

// DeriveNameFromEmail returns the lower-cased letters of the local part of an
// allow-listed address, or "" when the address is not eligible.
func (in *Inferrer) DeriveNameFromEmail(email string) string {
	email = strings.TrimSpace(email)
	if email == "" || !strings.Contains(email, "@") {
		return ""
	}
	if !in.domain.MatchString(email) {
		return ""
	}
	local, _, _ := strings.Cut(email, "@")
	local = digitsRe.ReplaceAllString(local, "")
	local = nonLetterRe.ReplaceAllString(local, "")
	return strings.ToLower(local)
}

// ShouldOverwrite is true when the current real name is a placeholder: empty,
// or a copy of the username.
func ShouldOverwrite(currentRealName, username string) bool {
	rn := strings.TrimSpace(currentRealName)
	if rn == "" {
		return true
	}
	return rn == strings.TrimSpace(username)
}

// ComputeProposedChanges previews the realName updates inference would make.
// Confirmed people are never included. The result depends only on r.
func (in *Inferrer) ComputeProposedChanges(r *models.Roster) []models.NameChange {
	changes := []models.NameChange{}
	for _, p := range r.People {
		if p.IsConfirmed {
			continue
		}
		candidate := in.DeriveNameFromEmail(p.Email)
		if candidate == "" || candidate == p.RealName {
			continue
		}
		if !ShouldOverwrite(p.RealName, p.Username) {
			continue
		}
		changes = append(changes, models.NameChange{
			Username:    p.Username,
			Email:       p.Email,
			OldRealName: p.RealName,
			NewRealName: candidate,
		})
	}
	return changes
}

// Apply writes previewed changes through the session. Each change is re-checked
// against the current roster, since it may have been edited after the preview.
func (in *Inferrer) Apply(s *Session, changes []models.NameChange) models.InferenceResult {
	result := models.InferenceResult{Proposed: len(changes)}
	for _, c := range changes {
		p := s.Roster().FindPerson(c.Username)
		if p == nil || p.IsConfirmed || !ShouldOverwrite(p.RealName, p.Username) || p.RealName == c.NewRealName {
			result.Skipped++
			continue
		}
		if !s.SetPersonField(c.Username, FieldRealName, c.NewRealName) {
			result.Skipped++
			continue
		}
		result.Applied++
		result.Changes = append(result.Changes, c)
	}
	return result
}

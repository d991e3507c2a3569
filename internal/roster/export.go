package roster

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/daniloc96/gitcode-team-roster/internal/models"
)

// Exporter projects a roster back into the persisted document shape.
type Exporter struct {
	normalizer *Normalizer
	// Now stamps updatedAt; defaults to time.Now.
	Now func() time.Time
}

// NewExporter creates an exporter that re-normalizes with normalizer (nil for the default).
func NewExporter(normalizer *Normalizer) *Exporter {
	if normalizer == nil {
		normalizer = defaultNormalizer
	}
	return &Exporter{normalizer: normalizer, Now: time.Now}
}

// FormatTimestamp renders t the way updatedAt is stored: UTC ISO-8601 with a Z suffix.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format("2006-01-02T15:04:05.000000Z")
}

// ToDocument reconciles r and returns its document form with a fresh updatedAt.
// Every field is written, including derived ones, so the loader sees a complete record.
func (e *Exporter) ToDocument(r *models.Roster) models.Document {
	e.normalizer.Reconcile(r)

	doc := models.Document{
		SchemaVersion: r.SchemaVersion,
		UpdatedAt:     FormatTimestamp(e.now()),
		Sources:       append([]any{}, r.Sources...),
		Groups:        make([]models.GroupRecord, 0, len(r.Teams)),
		People:        make([]models.PersonRecord, 0, len(r.People)),
	}
	if doc.SchemaVersion == "" {
		doc.SchemaVersion = models.DefaultSchemaVersion
	}

	for _, t := range r.Teams {
		doc.Groups = append(doc.Groups, models.GroupRecord{
			ID:              t.ID,
			Name:            t.Name,
			LeaderUsernames: append([]string{}, t.LeaderUsernames...),
			MemberUsernames: append([]string{}, t.MemberUsernames...),
			Notes:           t.Notes,
		})
	}
	for _, p := range r.People {
		doc.People = append(doc.People, models.PersonRecord{
			Username:    p.Username,
			GitcodeID:   p.ExternalID,
			RealName:    p.RealName,
			Email:       p.Email,
			Notes:       p.Notes,
			IsConfirmed: p.IsConfirmed,
			IsCommitter: e.normalizer.classifier.ComputeIsCommitter(p.RepositoryRoles),
			IsLeader:    p.IsLeader,
			Groups:      append([]string{}, p.TeamIDs...),
			Repos:       append([]models.RepositoryRole{}, p.RepositoryRoles...),
		})
	}
	return doc
}

// Marshal exports r as indented JSON with non-ASCII text left unescaped and a trailing newline.
func (e *Exporter) Marshal(r *models.Roster) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(e.ToDocument(r)); err != nil {
		return nil, fmt.Errorf("encoding roster document: %w", err)
	}
	return buf.Bytes(), nil
}

func (e *Exporter) now() time.Time {
	if e.Now == nil {
		return time.Now()
	}
	return e.Now()
}

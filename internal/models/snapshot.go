package models

import (
	"time"
)

// Sort keys of roster snapshot items.
const (
	SnapshotLatestSK = "LATEST"
	SnapshotPrefix   = "SNAPSHOT#"
)

// snapshotTimeFormat sorts lexically in time order.
const snapshotTimeFormat = "2006-01-02T15:04:05.000000Z"

// RosterSnapshot is one stored copy of a team document in DynamoDB.
type RosterSnapshot struct {
	PK        string    `dynamodbav:"pk"` // ROSTER#<name>
	SK        string    `dynamodbav:"sk"` // LATEST or SNAPSHOT#<saved_at>
	Name      string    `dynamodbav:"name"`
	Document  string    `dynamodbav:"document"`
	SizeBytes int       `dynamodbav:"size_bytes"`
	SavedAt   time.Time `dynamodbav:"saved_at"`
	TTL       int64     `dynamodbav:"ttl,omitempty"`
}

// SnapshotPK returns the partition key for a named roster.
func SnapshotPK(name string) string {
	return "ROSTER#" + name
}

// SnapshotSK returns the history sort key for a save at t.
func SnapshotSK(t time.Time) string {
	return SnapshotPrefix + t.UTC().Format(snapshotTimeFormat)
}

// NewLatestSnapshot creates the item holding the current document. It never expires.
func NewLatestSnapshot(name string, document []byte, now time.Time) RosterSnapshot {
	return RosterSnapshot{
		PK:        SnapshotPK(name),
		SK:        SnapshotLatestSK,
		Name:      name,
		Document:  string(document),
		SizeBytes: len(document),
		SavedAt:   now.UTC(),
	}
}

// NewHistorySnapshot creates an immutable history item that expires after ttlDays.
func NewHistorySnapshot(name string, document []byte, now time.Time, ttlDays int) RosterSnapshot {
	s := NewLatestSnapshot(name, document, now)
	s.SK = SnapshotSK(now)
	s.TTL = now.UTC().AddDate(0, 0, ttlDays).Unix()
	return s
}

package interfaces

import (
	"context"
	"errors"

	"github.com/daniloc96/gitcode-team-roster/internal/models"
)

// ErrDocumentNotFound is wrapped by stores that hold no document yet.
var ErrDocumentNotFound = errors.New("roster document not found")

// DocumentStore reads and writes the raw team document.
type DocumentStore interface {
	// Load returns the stored document bytes.
	Load(ctx context.Context) ([]byte, error)

	// Save replaces the stored document. Read-only sources return an error.
	Save(ctx context.Context, data []byte) error
}

// MetricsEmitter publishes run statistics.
type MetricsEmitter interface {
	EmitRun(ctx context.Context, result *models.RunResult) error
}

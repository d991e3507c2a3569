package runner

import (
	"context"

	"github.com/daniloc96/gitcode-team-roster/internal/interfaces"
)

// SplitStore reads from one store and writes to another, so a read-only
// published document can be normalized into a local file.
type SplitStore struct {
	Source interfaces.DocumentStore
	Sink   interfaces.DocumentStore
}

func (s *SplitStore) Load(ctx context.Context) ([]byte, error) {
	return s.Source.Load(ctx)
}

func (s *SplitStore) Save(ctx context.Context, data []byte) error {
	return s.Sink.Save(ctx, data)
}

package dynamodb

import (
	"context"
)

// MockStore implements DocumentStore for testing.
type MockStore struct {
	LoadFunc func(ctx context.Context) ([]byte, error)
	SaveFunc func(ctx context.Context, data []byte) error

	// Document is returned by Load when LoadFunc is nil.
	Document []byte

	// Track calls for assertions.
	LoadCalls int
	Saved     [][]byte
}

func (m *MockStore) Load(ctx context.Context) ([]byte, error) {
	m.LoadCalls++
	if m.LoadFunc != nil {
		return m.LoadFunc(ctx)
	}
	if m.Document == nil {
		return nil, ErrSnapshotNotFound
	}
	return m.Document, nil
}

func (m *MockStore) Save(ctx context.Context, data []byte) error {
	m.Saved = append(m.Saved, append([]byte(nil), data...))
	if m.SaveFunc != nil {
		return m.SaveFunc(ctx, data)
	}
	m.Document = append([]byte(nil), data...)
	return nil
}

package secrets

import (
	"fmt"
	"os"
	"strings"

	"github.com/aws/aws-secretsmanager-caching-go/v2/secretcache"
)

// secretGetter is the part of secretcache.Cache the manager uses.
type secretGetter interface {
	GetSecretString(secretID string) (string, error)
}

// Manager wraps the Secrets Manager cache client.
type Manager struct {
	cache secretGetter
}

// NewManager creates a new Secrets Manager cache.
func NewManager() (*Manager, error) {
	cache, err := secretcache.New()
	if err != nil {
		return nil, fmt.Errorf("creating secrets cache: %w", err)
	}
	return &Manager{cache: cache}, nil
}

// GetSecretString retrieves a secret value from Secrets Manager.
func (m *Manager) GetSecretString(secretName string) (string, error) {
	if secretName == "" {
		return "", fmt.Errorf("secret name is required")
	}
	value, err := m.cache.GetSecretString(secretName)
	if err != nil {
		return "", fmt.Errorf("reading secret %s: %w", secretName, err)
	}
	return strings.TrimSpace(value), nil
}

// LoadSecretFromFile reads a secret value from a local file, trimming surrounding whitespace.
func LoadSecretFromFile(path string) (string, error) {
	if path == "" {
		return "", fmt.Errorf("file path is required")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}

// ResolveToken returns the bearer token for the remote roster source.
// A secret name wins over a literal token; a literal starting with "@" names a file to read.
// No secret and no token yields an empty token, meaning anonymous access.
func ResolveToken(secretName, token string) (string, error) {
	if secretName != "" {
		manager, err := NewManager()
		if err != nil {
			return "", err
		}
		return manager.GetSecretString(secretName)
	}
	return resolveLiteral(token)
}

func resolveLiteral(token string) (string, error) {
	if path, ok := strings.CutPrefix(token, "@"); ok {
		return LoadSecretFromFile(path)
	}
	return strings.TrimSpace(token), nil
}

package credential

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"

	"github.com/m-mizutani/cadport/pkg/domain/interfaces"
	"github.com/m-mizutani/cadport/pkg/domain/model"
)

// DefaultPath is the credential file location relative to the working directory
const DefaultPath = ".cadport/session.json"

type fileStore struct {
	path string
}

// NewFile creates a CredentialStore that keeps the session in a JSON file
func NewFile(path string) interfaces.CredentialStore {
	if path == "" {
		path = DefaultPath
	}
	return &fileStore{path: path}
}

// Load reads the session file. A missing or unreadable file resolves to an empty session.
func (s *fileStore) Load(ctx context.Context) (*model.Session, error) {
	logger := ctxlog.From(ctx)

	data, err := os.ReadFile(s.path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			logger.Warn("Failed to read credential file", "path", s.path, "error", err)
		}
		return &model.Session{}, nil
	}

	var session model.Session
	if err := json.Unmarshal(data, &session); err != nil {
		logger.Warn("Failed to decode credential file", "path", s.path, "error", err)
		return &model.Session{}, nil
	}
	return &session, nil
}

// Save writes the session with owner-only permissions
func (s *fileStore) Save(ctx context.Context, session *model.Session) error {
	if session == nil {
		return goerr.New("session is nil")
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return goerr.Wrap(err, "failed to create credential directory", goerr.V("path", s.path))
	}

	data, err := json.MarshalIndent(session, "", "  ")
	if err != nil {
		return goerr.Wrap(err, "failed to encode session")
	}

	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return goerr.Wrap(err, "failed to write credential file", goerr.V("path", s.path))
	}
	return nil
}

// Clear removes the session file
func (s *fileStore) Clear(ctx context.Context) error {
	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return goerr.Wrap(err, "failed to remove credential file", goerr.V("path", s.path))
	}
	return nil
}

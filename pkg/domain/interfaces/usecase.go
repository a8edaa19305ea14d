package interfaces

//go:generate moq -out mocks/usecase_mock.go -pkg mocks . AuthUseCase SearchUseCase LibraryUseCase

import (
	"context"

	"github.com/m-mizutani/cadport/pkg/domain/model"
)

// AuthUseCase manages the portal session
type AuthUseCase interface {
	// Login authenticates with the portal and persists the session
	Login(ctx context.Context, email, password string) *model.LoginResult

	// CheckAuthentication reports whether the stored session is usable
	CheckAuthentication(ctx context.Context) *model.AuthStatus

	// Logout clears the cached and persisted session
	Logout(ctx context.Context) *model.LogoutResult
}

// SessionProvider hands out the current session to portal-facing use cases
type SessionProvider interface {
	// Get returns the cached session, loading it from the store while nothing usable is cached. Never nil.
	Get(ctx context.Context) *model.Session

	// Refresh replaces the cached and persisted session
	Refresh(ctx context.Context, session *model.Session) error

	// Clear drops the cached and persisted session
	Clear(ctx context.Context) error
}

// SearchUseCase resolves queries into candidate parts
type SearchUseCase interface {
	Search(ctx context.Context, query string) *model.SearchResponse
}

// LibraryUseCase downloads and extracts a part's vendor library
type LibraryUseCase interface {
	Download(ctx context.Context, req *model.AcquisitionRequest) *model.AcquisitionResult
}

// ArchiveExtractor turns a downloaded archive into classified artifacts
type ArchiveExtractor interface {
	Extract(ctx context.Context, archivePath, partNumber string) ([]model.ExtractedFile, error)
}

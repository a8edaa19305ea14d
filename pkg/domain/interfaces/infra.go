package interfaces

import (
	"context"

	"github.com/m-mizutani/cadport/pkg/domain/model"
)

// CredentialStore persists the portal session
type CredentialStore interface {
	// Load returns the stored session, or an empty session when nothing is stored
	Load(ctx context.Context) (*model.Session, error)
	Save(ctx context.Context, session *model.Session) error
	// Clear removes stored state; clearing an empty store is not an error
	Clear(ctx context.Context) error
}

// PortalClient performs requests against the vendor portal.
// Failures are returned as *model.PortalError.
type PortalClient interface {
	// VerifyBasicAuth requests a protected resource with HTTP basic auth
	VerifyBasicAuth(ctx context.Context, creds model.Credentials) error

	// HarvestSignInCookies fetches the sign-in page and returns the cookies it issued
	HarvestSignInCookies(ctx context.Context) (map[string]string, error)

	// Probe requests the portal home page with the session applied
	Probe(ctx context.Context, session *model.Session) error

	// Search runs a structured part search
	Search(ctx context.Context, session *model.Session, query string, limit int) ([]model.SearchResult, error)

	// DetailURL builds the canonical detail-page URL for a part
	DetailURL(partNumber, manufacturer string) string

	// FetchPage retrieves a detail page with the session applied
	FetchPage(ctx context.Context, session *model.Session, pageURL string) (*model.PortalPage, error)

	// Download retrieves a binary with the session applied and the given referer
	Download(ctx context.Context, session *model.Session, fileURL, referer string) (*model.PortalFile, error)
}

// LinkMatcher finds a download link in a fetched page. Returned links are absolute.
type LinkMatcher interface {
	Name() string
	Match(page *model.PortalPage) (string, bool)
}

// ArtifactSink writes archives and extracted artifacts to disk
type ArtifactSink interface {
	// EnsureDirs creates role directories; failures are logged, not returned
	EnsureDirs(ctx context.Context)
	SaveArchive(ctx context.Context, filename string, data []byte) (string, error)
	Write(ctx context.Context, role model.Role, filename string, data []byte) (string, error)
}

// Metrics records pipeline outcomes
type Metrics interface {
	ObserveAcquisition(outcome string)
	ObserveArtifact(role model.Role)
	ObserveSearch(outcome string)
}

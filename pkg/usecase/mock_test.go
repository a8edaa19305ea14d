package usecase_test

import (
	"context"
	"errors"
	"sync"

	"github.com/m-mizutani/cadport/pkg/domain/model"
)

// memoryStore is an in-memory CredentialStore
type memoryStore struct {
	mu      sync.Mutex
	session *model.Session
	saveErr error
	saves   int
	clears  int
}

func (s *memoryStore) Load(ctx context.Context) (*model.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.session == nil {
		return &model.Session{}, nil
	}
	copied := *s.session
	return &copied, nil
}

func (s *memoryStore) Save(ctx context.Context, session *model.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saves++
	if s.saveErr != nil {
		return s.saveErr
	}
	copied := *session
	s.session = &copied
	return nil
}

func (s *memoryStore) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clears++
	s.session = nil
	return nil
}

// mockPortal is a PortalClient whose behavior is set per test
type mockPortal struct {
	verifyBasicAuthFunc      func(ctx context.Context, creds model.Credentials) error
	harvestSignInCookiesFunc func(ctx context.Context) (map[string]string, error)
	probeFunc                func(ctx context.Context, session *model.Session) error
	searchFunc               func(ctx context.Context, session *model.Session, query string, limit int) ([]model.SearchResult, error)
	fetchPageFunc            func(ctx context.Context, session *model.Session, pageURL string) (*model.PortalPage, error)
	downloadFunc             func(ctx context.Context, session *model.Session, fileURL, referer string) (*model.PortalFile, error)

	probeCalls   int
	harvestCalls int
}

var errNotConfigured = errors.New("mock not configured")

func (m *mockPortal) VerifyBasicAuth(ctx context.Context, creds model.Credentials) error {
	if m.verifyBasicAuthFunc != nil {
		return m.verifyBasicAuthFunc(ctx, creds)
	}
	return errNotConfigured
}

func (m *mockPortal) HarvestSignInCookies(ctx context.Context) (map[string]string, error) {
	m.harvestCalls++
	if m.harvestSignInCookiesFunc != nil {
		return m.harvestSignInCookiesFunc(ctx)
	}
	return nil, errNotConfigured
}

func (m *mockPortal) Probe(ctx context.Context, session *model.Session) error {
	m.probeCalls++
	if m.probeFunc != nil {
		return m.probeFunc(ctx, session)
	}
	return errNotConfigured
}

func (m *mockPortal) Search(ctx context.Context, session *model.Session, query string, limit int) ([]model.SearchResult, error) {
	if m.searchFunc != nil {
		return m.searchFunc(ctx, session, query, limit)
	}
	return nil, errNotConfigured
}

func (m *mockPortal) DetailURL(partNumber, manufacturer string) string {
	return "https://portal.example.com/part/" + manufacturer + "/" + partNumber
}

func (m *mockPortal) FetchPage(ctx context.Context, session *model.Session, pageURL string) (*model.PortalPage, error) {
	if m.fetchPageFunc != nil {
		return m.fetchPageFunc(ctx, session, pageURL)
	}
	return nil, errNotConfigured
}

func (m *mockPortal) Download(ctx context.Context, session *model.Session, fileURL, referer string) (*model.PortalFile, error) {
	if m.downloadFunc != nil {
		return m.downloadFunc(ctx, session, fileURL, referer)
	}
	return nil, errNotConfigured
}

// staticSessions is a SessionProvider returning a fixed session
type staticSessions struct {
	session *model.Session
}

func (s *staticSessions) Get(ctx context.Context) *model.Session {
	if s.session == nil {
		return &model.Session{}
	}
	return s.session
}

func (s *staticSessions) Refresh(ctx context.Context, session *model.Session) error {
	s.session = session
	return nil
}

func (s *staticSessions) Clear(ctx context.Context) error {
	s.session = nil
	return nil
}

func loggedIn() *staticSessions {
	return &staticSessions{session: &model.Session{
		Credentials:   &model.Credentials{Email: "engineer@example.com", Password: "secret"},
		Authenticated: true,
	}}
}

// countingMetrics records observed outcomes
type countingMetrics struct {
	mu           sync.Mutex
	acquisitions []string
	searches     []string
	artifacts    []model.Role
}

func (m *countingMetrics) ObserveAcquisition(outcome string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.acquisitions = append(m.acquisitions, outcome)
}

func (m *countingMetrics) ObserveArtifact(role model.Role) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.artifacts = append(m.artifacts, role)
}

func (m *countingMetrics) ObserveSearch(outcome string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.searches = append(m.searches, outcome)
}

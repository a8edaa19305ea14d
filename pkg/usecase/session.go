package usecase

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"

	"github.com/m-mizutani/cadport/pkg/domain/interfaces"
	"github.com/m-mizutani/cadport/pkg/domain/model"
)

// SessionManager logs in to the portal and hands the resulting session to other
// use cases. Each instance owns its cache; the mutex keeps the cache memory-safe
// but does not order concurrent logins against the credential store.
type SessionManager struct {
	store  interfaces.CredentialStore
	portal interfaces.PortalClient
	opts   *options

	mu     sync.Mutex
	cached *model.Session
}

var (
	_ interfaces.AuthUseCase     = (*SessionManager)(nil)
	_ interfaces.SessionProvider = (*SessionManager)(nil)
)

// NewSession creates a SessionManager backed by store
func NewSession(store interfaces.CredentialStore, portal interfaces.PortalClient, opts ...Option) *SessionManager {
	return &SessionManager{
		store:  store,
		portal: portal,
		opts:   buildOptions(opts),
	}
}

// Login tries HTTP basic auth first and falls back to harvesting sign-in cookies
// when the basic-auth request cannot be completed.
//
// NOTE: only 401 and 403 count as rejected credentials. Any other failure of the
// basic-auth request, including a 5xx or other error status, also takes the cookie
// fallback, so a portal outage can produce a cookie-only session.
func (m *SessionManager) Login(ctx context.Context, email, password string) *model.LoginResult {
	logger := ctxlog.From(ctx)

	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return &model.LoginResult{Success: false, Message: "Email and password are required"}
	}
	creds := model.Credentials{Email: email, Password: password}

	err := m.portal.VerifyBasicAuth(ctx, creds)
	if err == nil {
		session := &model.Session{
			Credentials:   &creds,
			Authenticated: true,
			CreatedAt:     m.opts.now().UTC().Truncate(time.Second),
		}
		if err := m.Refresh(ctx, session); err != nil {
			logger.Error("Failed to persist session", "error", err)
			return &model.LoginResult{Success: false, Message: "Login succeeded but the session could not be saved"}
		}
		logger.Info("Logged in to portal with basic authentication", "email", email)
		return &model.LoginResult{Success: true, Message: "Login successful"}
	}

	var perr *model.PortalError
	if errors.As(err, &perr) && perr.Kind == model.PortalErrUnauthorized {
		logger.Warn("Portal rejected credentials", "email", email, "status", perr.StatusCode)
		return &model.LoginResult{Success: false, Message: "Invalid email or password"}
	}

	logger.Warn("Basic authentication unavailable, falling back to sign-in cookies", "error", err)

	cookies, err := m.portal.HarvestSignInCookies(ctx)
	if err != nil {
		logger.Error("Failed to reach portal sign-in page", "error", err)
		return &model.LoginResult{Success: false, Message: "Login failed: " + err.Error()}
	}

	session := &model.Session{
		Cookies:       cookies,
		Credentials:   &creds,
		Authenticated: true,
		CreatedAt:     m.opts.now().UTC().Truncate(time.Second),
	}
	if err := m.Refresh(ctx, session); err != nil {
		logger.Error("Failed to persist session", "error", err)
		return &model.LoginResult{Success: false, Message: "Login succeeded but the session could not be saved"}
	}

	logger.Info("Logged in to portal with sign-in cookies", "email", email, "cookies", len(cookies))
	return &model.LoginResult{Success: true, Message: "Login successful"}
}

// CheckAuthentication reports whether the stored session is usable.
//
// NOTE: this is deliberately optimistic. Stored credentials are trusted without a
// round trip, and a failed probe still reports "assumed" when credentials exist.
// An expired portal session can therefore look authenticated until the next real
// request fails with requiresLogin. Callers needing certainty must check for
// AuthStateConfirmed rather than Authenticated.
func (m *SessionManager) CheckAuthentication(ctx context.Context) *model.AuthStatus {
	logger := ctxlog.From(ctx)
	session := m.Get(ctx)

	if session.IsEmpty() {
		return &model.AuthStatus{Authenticated: false, State: model.AuthStateNone, Message: "Not authenticated"}
	}

	if session.HasCredentials() && session.Authenticated {
		return &model.AuthStatus{Authenticated: true, State: model.AuthStateAssumed, Message: "Authenticated with stored credentials"}
	}

	if err := m.portal.Probe(ctx, session); err != nil {
		logger.Info("Session probe failed", "error", err)
		if session.HasCredentials() {
			return &model.AuthStatus{Authenticated: true, State: model.AuthStateAssumed, Message: "Authenticated with stored credentials"}
		}
		return &model.AuthStatus{Authenticated: false, State: model.AuthStateExpired, Message: "Session expired"}
	}

	return &model.AuthStatus{Authenticated: true, State: model.AuthStateConfirmed, Message: "Authenticated"}
}

// Logout drops the session. It always reports success.
func (m *SessionManager) Logout(ctx context.Context) *model.LogoutResult {
	if err := m.Clear(ctx); err != nil {
		ctxlog.From(ctx).Warn("Failed to clear credential store", "error", err)
	}
	return &model.LogoutResult{Success: true, Message: "Logged out"}
}

// Get returns the cached session, loading it from the store when nothing usable is cached
func (m *SessionManager) Get(ctx context.Context) *model.Session {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.cached.IsEmpty() {
		return m.cached
	}

	session, err := m.store.Load(ctx)
	if err != nil || session == nil {
		if err != nil {
			ctxlog.From(ctx).Warn("Failed to load session", "error", err)
		}
		return &model.Session{}
	}
	m.cached = session
	return session
}

// Refresh persists session and replaces the cached copy
func (m *SessionManager) Refresh(ctx context.Context, session *model.Session) error {
	if session == nil {
		return goerr.New("session is nil")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.store.Save(ctx, session); err != nil {
		return goerr.Wrap(err, "failed to save session")
	}
	m.cached = session
	return nil
}

// Clear drops the cached session and the persisted state
func (m *SessionManager) Clear(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.cached = nil
	if err := m.store.Clear(ctx); err != nil {
		return goerr.Wrap(err, "failed to clear session")
	}
	return nil
}

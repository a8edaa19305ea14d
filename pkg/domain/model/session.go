package model

import "time"

// Credentials is the basic-auth pair supplied at login.
type Credentials struct {
	Email    string `json:"email" firestore:"email"`
	Password string `json:"password" firestore:"password" masq:"secret"`
}

// Session is the persisted authentication state against the portal.
type Session struct {
	Cookies       map[string]string `json:"cookies,omitempty" firestore:"cookies,omitempty"`
	Credentials   *Credentials      `json:"credentials,omitempty" firestore:"credentials,omitempty"`
	Authenticated bool              `json:"authenticated" firestore:"authenticated"`
	CreatedAt     time.Time         `json:"created_at" firestore:"created_at"`
}

// IsEmpty reports whether the session carries nothing usable for an authenticated request.
func (s *Session) IsEmpty() bool {
	if s == nil {
		return true
	}
	return len(s.Cookies) == 0 && !s.HasCredentials()
}

// HasCredentials reports whether a basic-auth pair is stored.
func (s *Session) HasCredentials() bool {
	return s != nil && s.Credentials != nil && s.Credentials.Email != ""
}

// AuthState is the outcome of an authentication check.
type AuthState string

const (
	// AuthStateNone means no session data exists.
	AuthStateNone AuthState = "none"
	// AuthStateConfirmed means the portal accepted the session on a probe request.
	AuthStateConfirmed AuthState = "confirmed"
	// AuthStateAssumed means stored credentials are trusted without confirmation.
	AuthStateAssumed AuthState = "assumed"
	// AuthStateExpired means the portal rejected the session and no credentials remain.
	AuthStateExpired AuthState = "expired"
)

// Authenticated is true for confirmed and assumed states.
func (s AuthState) Authenticated() bool {
	return s == AuthStateConfirmed || s == AuthStateAssumed
}

// LoginResult is returned by the login operation.
type LoginResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// AuthStatus is returned by the authentication check.
type AuthStatus struct {
	Authenticated bool      `json:"authenticated"`
	State         AuthState `json:"state"`
	Message       string    `json:"message"`
}

// LogoutResult is returned by the logout operation.
type LogoutResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

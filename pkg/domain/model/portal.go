package model

import "fmt"

// PortalErrorKind classifies a failed portal request.
type PortalErrorKind string

const (
	PortalErrTransport      PortalErrorKind = "transport"
	PortalErrUnauthorized   PortalErrorKind = "unauthorized"
	PortalErrNotFound       PortalErrorKind = "not-found"
	PortalErrSignInRedirect PortalErrorKind = "signin-redirect"
	PortalErrStatus         PortalErrorKind = "status"
	PortalErrDecode         PortalErrorKind = "decode"
)

// PortalError is returned by the portal client for every failed request.
type PortalError struct {
	Kind       PortalErrorKind
	StatusCode int
	URL        string
	Err        error
}

func (e *PortalError) Error() string {
	switch {
	case e.Err != nil && e.StatusCode != 0:
		return fmt.Sprintf("portal %s (status %d) for %s: %v", e.Kind, e.StatusCode, e.URL, e.Err)
	case e.Err != nil:
		return fmt.Sprintf("portal %s for %s: %v", e.Kind, e.URL, e.Err)
	case e.StatusCode != 0:
		return fmt.Sprintf("portal %s (status %d) for %s", e.Kind, e.StatusCode, e.URL)
	default:
		return fmt.Sprintf("portal %s for %s", e.Kind, e.URL)
	}
}

func (e *PortalError) Unwrap() error { return e.Err }

// RequiresLogin reports whether the caller must re-run login before retrying.
func (e *PortalError) RequiresLogin() bool {
	return e.Kind == PortalErrUnauthorized || e.Kind == PortalErrSignInRedirect
}

// PortalPage is a fetched detail page.
type PortalPage struct {
	// URL is the final URL after redirects.
	URL  string
	Body []byte
}

// PortalFile is a downloaded binary.
type PortalFile struct {
	URL         string
	ContentType string
	Data        []byte
}

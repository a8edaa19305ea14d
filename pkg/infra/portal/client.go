package portal

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"golang.org/x/time/rate"

	"github.com/m-mizutani/cadport/pkg/domain/interfaces"
	"github.com/m-mizutani/cadport/pkg/domain/model"
)

// Portal paths. The detail page template takes the escaped manufacturer and part number.
const (
	AccountPath = "/account"
	SignInPath  = "/signin"
	HomePath    = "/"
	SearchPath  = "/api/search"
	DetailPath  = "/part/%s/%s"

	defaultUserAgent = "cadport/1.0"
	defaultTimeout   = 60 * time.Second
)

// config holds internal client configuration
type config struct {
	httpClient *http.Client
	userAgent  string
	limiter    *rate.Limiter
	timeout    time.Duration
}

// Option is a functional option for the portal client
type Option func(*config)

// WithHTTPClient overrides the HTTP client. The client is copied, never mutated.
func WithHTTPClient(client *http.Client) Option {
	return func(c *config) {
		c.httpClient = client
	}
}

// WithUserAgent sets the User-Agent header sent on every request
func WithUserAgent(ua string) Option {
	return func(c *config) {
		c.userAgent = ua
	}
}

// WithRateLimit limits outgoing requests per second. Zero or negative disables limiting.
func WithRateLimit(perSecond float64) Option {
	return func(c *config) {
		if perSecond > 0 {
			c.limiter = rate.NewLimiter(rate.Limit(perSecond), 1)
		}
	}
}

// WithTimeout sets the request timeout of the default HTTP client
func WithTimeout(d time.Duration) Option {
	return func(c *config) {
		c.timeout = d
	}
}

type client struct {
	baseURL    *url.URL
	httpClient *http.Client
	userAgent  string
	limiter    *rate.Limiter
}

// New creates a PortalClient for the portal rooted at baseURL
func New(baseURL string, opts ...Option) (interfaces.PortalClient, error) {
	return newClient(baseURL, opts...)
}

func newClient(baseURL string, opts ...Option) (*client, error) {
	u, err := url.Parse(strings.TrimRight(strings.TrimSpace(baseURL), "/"))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to parse portal base URL", goerr.V("url", baseURL))
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, goerr.New("portal base URL must be absolute", goerr.V("url", baseURL))
	}

	cfg := &config{
		userAgent: defaultUserAgent,
		timeout:   defaultTimeout,
		limiter:   rate.NewLimiter(rate.Inf, 0),
	}
	for _, opt := range opts {
		opt(cfg)
	}

	httpClient := cfg.httpClient
	if httpClient == nil {
		httpClient = &http.Client{
			Timeout:   cfg.timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		}
	}

	return &client{
		baseURL:    u,
		httpClient: httpClient,
		userAgent:  cfg.userAgent,
		limiter:    cfg.limiter,
	}, nil
}

func (c *client) endpoint(path string) string {
	return c.baseURL.String() + path
}

// DetailURL builds the canonical detail-page URL for a part
func (c *client) DetailURL(partNumber, manufacturer string) string {
	return c.endpoint(detailPath(partNumber, manufacturer))
}

func detailPath(partNumber, manufacturer string) string {
	return fmt.Sprintf(DetailPath, url.PathEscape(manufacturer), url.PathEscape(partNumber))
}

// isSignInURL reports whether u points at the portal's sign-in flow
func isSignInURL(u *url.URL) bool {
	if u == nil {
		return false
	}
	p := strings.ToLower(u.Path)
	return p == SignInPath || strings.HasPrefix(p, SignInPath+"/")
}

// applySession copies session cookies and credentials into request headers
func applySession(h http.Header, session *model.Session) {
	if session == nil {
		return
	}
	if cookie := cookieHeader(session.Cookies); cookie != "" {
		h.Set("Cookie", cookie)
	}
	if session.HasCredentials() {
		h.Set("Authorization", basicAuth(session.Credentials.Email, session.Credentials.Password))
	}
}

func cookieHeader(cookies map[string]string) string {
	if len(cookies) == 0 {
		return ""
	}
	names := make([]string, 0, len(cookies))
	for name := range cookies {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, name := range names {
		c := &http.Cookie{Name: name, Value: cookies[name]}
		if s := c.String(); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, "; ")
}

func basicAuth(user, password string) string {
	return "Basic " + base64.StdEncoding.EncodeToString([]byte(user+":"+password))
}

func (c *client) newRequest(ctx context.Context, target string, session *model.Session) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, &model.PortalError{Kind: model.PortalErrTransport, URL: target, Err: err}
	}
	req.Header.Set("User-Agent", c.userAgent)
	if c.isPortalHost(req.URL) {
		applySession(req.Header, session)
	} else if session != nil && !session.IsEmpty() {
		ctxlog.From(ctx).Warn("Not sending portal session to foreign host", "host", req.URL.Host)
	}
	return req, nil
}

// isPortalHost reports whether u is served by the portal host or one of its subdomains
func (c *client) isPortalHost(u *url.URL) bool {
	if strings.EqualFold(u.Host, c.baseURL.Host) {
		return true
	}
	host := strings.ToLower(u.Hostname())
	base := strings.ToLower(c.baseURL.Hostname())
	return base != "" && strings.HasSuffix(host, "."+base)
}

// do sends req and maps transport failures, sign-in redirects and error statuses
// into *model.PortalError. On success the caller owns the response body.
func (c *client) do(req *http.Request) (*http.Response, error) {
	return c.send(c.httpClient, req)
}

func (c *client) send(httpClient *http.Client, req *http.Request) (*http.Response, error) {
	target := req.URL.String()
	if err := c.limiter.Wait(req.Context()); err != nil {
		return nil, &model.PortalError{Kind: model.PortalErrTransport, URL: target, Err: err}
	}

	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, &model.PortalError{Kind: model.PortalErrTransport, URL: target, Err: err}
	}

	if resp.Request != nil && isSignInURL(resp.Request.URL) && !isSignInURL(req.URL) {
		drain(resp)
		return nil, &model.PortalError{Kind: model.PortalErrSignInRedirect, StatusCode: resp.StatusCode, URL: target}
	}

	if perr := statusError(resp.StatusCode, target); perr != nil {
		drain(resp)
		return nil, perr
	}
	return resp, nil
}

// statusError maps an HTTP status into the portal error taxonomy; nil below 400
func statusError(code int, target string) *model.PortalError {
	switch {
	case code < http.StatusBadRequest:
		return nil
	case code == http.StatusUnauthorized || code == http.StatusForbidden:
		return &model.PortalError{Kind: model.PortalErrUnauthorized, StatusCode: code, URL: target}
	case code == http.StatusNotFound:
		return &model.PortalError{Kind: model.PortalErrNotFound, StatusCode: code, URL: target}
	default:
		return &model.PortalError{Kind: model.PortalErrStatus, StatusCode: code, URL: target}
	}
}

func drain(resp *http.Response) {
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))
	_ = resp.Body.Close()
}

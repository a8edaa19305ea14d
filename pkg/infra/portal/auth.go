package portal

import (
	"context"
	"net/http"
	"net/http/cookiejar"

	"golang.org/x/net/publicsuffix"

	"github.com/m-mizutani/cadport/pkg/domain/model"
)

// VerifyBasicAuth requests the account page with HTTP basic auth.
// Any response below 400 means the portal accepted the credentials.
func (c *client) VerifyBasicAuth(ctx context.Context, creds model.Credentials) error {
	req, err := c.newRequest(ctx, c.endpoint(AccountPath), &model.Session{Credentials: &creds})
	if err != nil {
		return err
	}

	resp, err := c.do(req)
	if err != nil {
		return err
	}
	drain(resp)
	return nil
}

// HarvestSignInCookies fetches the sign-in page with a fresh cookie jar and
// returns every cookie the portal issued along the way.
func (c *client) HarvestSignInCookies(ctx context.Context) (map[string]string, error) {
	target := c.endpoint(SignInPath)

	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		return nil, &model.PortalError{Kind: model.PortalErrTransport, URL: target, Err: err}
	}
	hc := *c.httpClient
	hc.Jar = jar

	req, err := c.newRequest(ctx, target, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.send(&hc, req)
	if err != nil {
		return nil, err
	}
	defer drain(resp)

	cookies := make(map[string]string)
	for _, ck := range jar.Cookies(req.URL) {
		cookies[ck.Name] = ck.Value
	}
	if resp.Request != nil && resp.Request.URL.String() != req.URL.String() {
		for _, ck := range jar.Cookies(resp.Request.URL) {
			cookies[ck.Name] = ck.Value
		}
	}
	// The jar withholds Secure cookies on plain HTTP; the final response still carries them
	for _, ck := range resp.Cookies() {
		if ck.Value != "" {
			cookies[ck.Name] = ck.Value
		}
	}
	return cookies, nil
}

// Probe requests the portal home page with the session applied. Only 200 counts as valid.
func (c *client) Probe(ctx context.Context, session *model.Session) error {
	target := c.endpoint(HomePath)
	req, err := c.newRequest(ctx, target, session)
	if err != nil {
		return err
	}

	resp, err := c.do(req)
	if err != nil {
		return err
	}
	defer drain(resp)

	if resp.StatusCode != http.StatusOK {
		return &model.PortalError{Kind: model.PortalErrStatus, StatusCode: resp.StatusCode, URL: target}
	}
	return nil
}

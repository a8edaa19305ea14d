package portal

import (
	"context"
	"net/http"
	"net/url"

	"github.com/gocolly/colly/v2"

	"github.com/m-mizutani/cadport/pkg/domain/model"
)

const maxRedirects = 10

// FetchPage retrieves a detail page with the session applied. A redirect into the
// sign-in flow is reported as PortalErrSignInRedirect regardless of the final status.
func (c *client) FetchPage(ctx context.Context, session *model.Session, pageURL string) (*model.PortalPage, error) {
	requested, err := url.Parse(pageURL)
	if err != nil {
		return nil, &model.PortalError{Kind: model.PortalErrTransport, URL: pageURL, Err: err}
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, &model.PortalError{Kind: model.PortalErrTransport, URL: pageURL, Err: err}
	}

	hc := *c.httpClient
	collector := colly.NewCollector(
		colly.UserAgent(c.userAgent),
		colly.AllowURLRevisit(),
		colly.StdlibContext(ctx),
	)
	collector.SetClient(&hc)

	finalURL := requested
	collector.SetRedirectHandler(func(req *http.Request, via []*http.Request) error {
		if len(via) >= maxRedirects {
			return http.ErrUseLastResponse
		}
		finalURL = req.URL
		return nil
	})

	var (
		page      *model.PortalPage
		status    int
		visitErr  error
		respondOK bool
	)
	collector.OnResponse(func(r *colly.Response) {
		respondOK = true
		status = r.StatusCode
		page = &model.PortalPage{
			URL:  finalURL.String(),
			Body: r.Body,
		}
	})
	collector.OnError(func(r *colly.Response, err error) {
		status = r.StatusCode
		visitErr = err
	})

	hdr := http.Header{}
	applySession(hdr, session)
	hdr.Set("Accept", "text/html,application/xhtml+xml")

	if err := collector.Request(http.MethodGet, pageURL, nil, nil, hdr); err != nil && visitErr == nil {
		visitErr = err
	}

	if isSignInURL(finalURL) && !isSignInURL(requested) {
		return nil, &model.PortalError{Kind: model.PortalErrSignInRedirect, StatusCode: status, URL: pageURL}
	}
	if respondOK {
		return page, nil
	}
	if status != 0 {
		if perr := statusError(status, pageURL); perr != nil {
			perr.Err = visitErr
			return nil, perr
		}
	}
	return nil, &model.PortalError{Kind: model.PortalErrTransport, StatusCode: status, URL: pageURL, Err: visitErr}
}

package portal

import (
	"context"
	"io"

	"github.com/m-mizutani/cadport/pkg/domain/model"
)

// Download retrieves a binary with the session applied and referer set to the detail page
func (c *client) Download(ctx context.Context, session *model.Session, fileURL, referer string) (*model.PortalFile, error) {
	req, err := c.newRequest(ctx, fileURL, session)
	if err != nil {
		return nil, err
	}
	if referer != "" {
		req.Header.Set("Referer", referer)
	}
	req.Header.Set("Accept", "*/*")

	resp, err := c.do(req)
	if err != nil {
		return nil, err
	}
	defer drain(resp)

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &model.PortalError{Kind: model.PortalErrTransport, StatusCode: resp.StatusCode, URL: fileURL, Err: err}
	}

	return &model.PortalFile{
		URL:         resp.Request.URL.String(),
		ContentType: resp.Header.Get("Content-Type"),
		Data:        data,
	}, nil
}

package portal

import (
	"context"
	"encoding/json"
	"io"
	"net/url"
	"strconv"
	"strings"

	"github.com/m-mizutani/cadport/pkg/domain/model"
)

type searchResponse struct {
	Results []searchRecord `json:"results"`
}

type searchRecord struct {
	PartNumber   string `json:"partNumber"`
	Manufacturer string `json:"manufacturer"`
	Description  string `json:"description"`
	DatasheetURL string `json:"datasheetUrl"`
	Package      string `json:"package"`
}

func (r searchRecord) toModel() model.SearchResult {
	return model.SearchResult{
		PartNumber:   strings.TrimSpace(r.PartNumber),
		Manufacturer: strings.TrimSpace(r.Manufacturer),
		Description:  strings.TrimSpace(r.Description),
		DatasheetURL: strings.TrimSpace(r.DatasheetURL),
		Package:      strings.TrimSpace(r.Package),
	}
}

// Search queries the portal's structured search endpoint
func (c *client) Search(ctx context.Context, session *model.Session, query string, limit int) ([]model.SearchResult, error) {
	params := url.Values{}
	params.Set("q", query)
	if limit > 0 {
		params.Set("limit", strconv.Itoa(limit))
	}
	target := c.endpoint(SearchPath) + "?" + params.Encode()

	req, err := c.newRequest(ctx, target, session)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.do(req)
	if err != nil {
		return nil, err
	}
	defer drain(resp)

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &model.PortalError{Kind: model.PortalErrTransport, URL: target, Err: err}
	}

	var decoded searchResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return nil, &model.PortalError{Kind: model.PortalErrDecode, StatusCode: resp.StatusCode, URL: target, Err: err}
	}

	results := make([]model.SearchResult, 0, len(decoded.Results))
	for _, rec := range decoded.Results {
		results = append(results, rec.toModel())
	}
	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}

package usecase

import (
	"context"
	"errors"
	"strings"

	"github.com/m-mizutani/ctxlog"

	"github.com/m-mizutani/cadport/pkg/domain/interfaces"
	"github.com/m-mizutani/cadport/pkg/domain/model"
)

const searchLimit = 20

// Search outcome labels
const (
	SearchOutcomeMatched       = "matched"
	SearchOutcomeFallback      = "fallback"
	SearchOutcomeLoginRequired = "login_required"
	SearchOutcomeInvalid       = "invalid"
)

type searchUseCase struct {
	sessions interfaces.SessionProvider
	portal   interfaces.PortalClient
	opts     *options
}

// NewSearch creates a new instance of SearchUseCase
func NewSearch(sessions interfaces.SessionProvider, portal interfaces.PortalClient, opts ...Option) interfaces.SearchUseCase {
	return &searchUseCase{
		sessions: sessions,
		portal:   portal,
		opts:     buildOptions(opts),
	}
}

// Search runs a structured portal search. When the portal returns nothing usable,
// the query is offered back as a part number with an unknown manufacturer.
func (uc *searchUseCase) Search(ctx context.Context, query string) *model.SearchResponse {
	logger := ctxlog.From(ctx)

	query = strings.TrimSpace(query)
	if query == "" {
		uc.opts.metrics.ObserveSearch(SearchOutcomeInvalid)
		return &model.SearchResponse{Success: false, Results: []model.SearchResult{}, Message: "Query is required"}
	}

	session := uc.sessions.Get(ctx)
	if session.IsEmpty() {
		uc.opts.metrics.ObserveSearch(SearchOutcomeLoginRequired)
		return &model.SearchResponse{
			Success:       false,
			Results:       []model.SearchResult{},
			RequiresLogin: true,
			Message:       "Not authenticated. Please log in first.",
		}
	}

	raw, err := uc.portal.Search(ctx, session, query, searchLimit)
	if err != nil {
		var perr *model.PortalError
		if errors.As(err, &perr) && perr.RequiresLogin() {
			logger.Info("Search rejected by portal", "query", query, "kind", perr.Kind)
			uc.opts.metrics.ObserveSearch(SearchOutcomeLoginRequired)
			return &model.SearchResponse{
				Success:       false,
				Results:       []model.SearchResult{},
				RequiresLogin: true,
				Message:       "Session expired. Please log in again.",
			}
		}
		logger.Warn("Structured search failed, using query as part number", "query", query, "error", err)
	}

	results := make([]model.SearchResult, 0, len(raw))
	for _, r := range raw {
		if r.PartNumber == "" && r.Manufacturer == "" {
			continue
		}
		if r.PartNumber != "" && r.Manufacturer != "" && r.Manufacturer != model.UnknownManufacturer {
			r.ComponentURL = uc.portal.DetailURL(r.PartNumber, r.Manufacturer)
		}
		results = append(results, r)
		if len(results) == searchLimit {
			break
		}
	}

	if len(results) == 0 {
		uc.opts.metrics.ObserveSearch(SearchOutcomeFallback)
		return &model.SearchResponse{
			Success: true,
			Results: []model.SearchResult{{
				PartNumber:   query,
				Manufacturer: model.UnknownManufacturer,
				Description:  "No catalog match. Supply the manufacturer to download.",
			}},
			Message: "No catalog results; showing the query as a part number",
		}
	}

	logger.Debug("Search completed", "query", query, "results", len(results))
	uc.opts.metrics.ObserveSearch(SearchOutcomeMatched)
	return &model.SearchResponse{Success: true, Results: results}
}

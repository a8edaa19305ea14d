package model

// UnknownManufacturer marks a fallback search result whose manufacturer must be supplied by the caller.
const UnknownManufacturer = "Unknown"

// SearchResult is one candidate part returned by a portal search.
type SearchResult struct {
	PartNumber   string `json:"partNumber"`
	Manufacturer string `json:"manufacturer"`
	Description  string `json:"description"`
	DatasheetURL string `json:"datasheetUrl,omitempty"`
	Package      string `json:"package,omitempty"`
	ComponentURL string `json:"componentUrl,omitempty"`
}

// SearchResponse is returned by the search operation.
type SearchResponse struct {
	Success       bool           `json:"success"`
	Results       []SearchResult `json:"results"`
	RequiresLogin bool           `json:"requiresLogin,omitempty"`
	Message       string         `json:"message,omitempty"`
}

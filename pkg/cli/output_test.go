package cli

import (
	"bytes"
	"testing"

	"github.com/m-mizutani/gt"

	"github.com/m-mizutani/cadport/pkg/domain/model"
)

func TestRenderSearch(t *testing.T) {
	var buf bytes.Buffer
	renderSearch(&buf, &model.SearchResponse{
		Success: true,
		Results: []model.SearchResult{
			{PartNumber: "LM317T", Manufacturer: "Texas Instruments", Package: "TO-220", Description: "Adjustable regulator"},
		},
		Message: "showing cached results",
	})

	out := buf.String()
	gt.String(t, out).Contains("PART NUMBER")
	gt.String(t, out).Contains("LM317T")
	gt.String(t, out).Contains("TO-220")
	gt.String(t, out).Contains("showing cached results")
}

func TestRenderAcquisition(t *testing.T) {
	t.Run("success lists artifacts", func(t *testing.T) {
		var buf bytes.Buffer
		renderAcquisition(&buf, &model.AcquisitionResult{
			Success: true,
			Path:    "/tmp/downloads/R-00001_ACME.zip",
			Message: "Library downloaded and 1 file(s) extracted",
			ExtractedFiles: []model.ExtractedFile{
				{Role: model.RoleFootprint, Name: "R-00001.dra", Path: "/tmp/library/footprints/R-00001.dra"},
			},
		})

		out := buf.String()
		gt.String(t, out).Contains("OK")
		gt.String(t, out).Contains("R-00001_ACME.zip")
		gt.String(t, out).Contains("footprint")
		gt.String(t, out).Contains("R-00001.dra")
	})

	t.Run("failure with login hint", func(t *testing.T) {
		var buf bytes.Buffer
		renderAcquisition(&buf, &model.AcquisitionResult{
			Error:         model.ErrKindAuthFailed,
			Message:       "Authentication failed. Please log in again.",
			RequiresLogin: true,
		})

		out := buf.String()
		gt.String(t, out).Contains("FAILED")
		gt.String(t, out).Contains("Authentication failed")
		gt.String(t, out).Contains("cadport login")
	})
}

func TestRenderAuthStatus(t *testing.T) {
	var buf bytes.Buffer
	renderAuthStatus(&buf, &model.AuthStatus{Authenticated: true, State: model.AuthStateAssumed, Message: "Authenticated with stored credentials"})
	gt.String(t, buf.String()).Contains("assumed")
}

package model

import "strings"

// Role is the functional category of an extracted archive entry.
type Role string

const (
	RoleFootprint Role = "footprint"
	RoleSymbol    Role = "symbol"
	RolePad       Role = "pad"
	RolePSpice    Role = "pspice"
	Role3DModel   Role = "3d-model"
)

// Roles lists every role in a stable order.
var Roles = []Role{RoleFootprint, RoleSymbol, RolePad, RolePSpice, Role3DModel}

// ExtractedFile is one artifact written from a single archive entry.
type ExtractedFile struct {
	Role Role   `json:"type"`
	Name string `json:"file"`
	Path string `json:"path"`
}

// AcquisitionRequest identifies the part whose library should be downloaded.
type AcquisitionRequest struct {
	PartNumber   string `json:"partNumber"`
	Manufacturer string `json:"manufacturer"`
	DownloadURL  string `json:"downloadUrl,omitempty"`
}

// Validate checks that the request carries enough to build a detail-page URL.
func (r *AcquisitionRequest) Validate() string {
	if strings.TrimSpace(r.PartNumber) == "" {
		return "Part number is required"
	}
	if strings.TrimSpace(r.DownloadURL) == "" && strings.TrimSpace(r.Manufacturer) == "" {
		return "Manufacturer is required"
	}
	return ""
}

// Failure kinds reported in AcquisitionResult.Error.
const (
	ErrKindPartNotFound   = "Part not found"
	ErrKindAuthFailed     = "Authentication failed"
	ErrKindAuthRequired   = "Authentication required"
	ErrKindLinkNotFound   = "Download link not found"
	ErrKindDownloadFailed = "Download failed"
	ErrKindInvalidRequest = "Invalid request"
)

// AcquisitionResult is the outcome of one download, extract and convert run.
type AcquisitionResult struct {
	Success        bool            `json:"success"`
	Path           string          `json:"path,omitempty"`
	Filename       string          `json:"filename,omitempty"`
	PartNumber     string          `json:"partNumber"`
	Manufacturer   string          `json:"manufacturer"`
	Source         string          `json:"source"`
	ComponentURL   string          `json:"componentUrl,omitempty"`
	Message        string          `json:"message"`
	Error          string          `json:"error,omitempty"`
	RequiresLogin  bool            `json:"requiresLogin,omitempty"`
	ExtractedFiles []ExtractedFile `json:"extractedFiles"`
}

// Fail turns the result into a failure, dropping any artifacts.
func (r *AcquisitionResult) Fail(kind, message string) *AcquisitionResult {
	r.Success = false
	r.Error = kind
	r.Message = message
	r.Path = ""
	r.Filename = ""
	r.ExtractedFiles = []ExtractedFile{}
	return r
}

package usecase

import (
	"context"
	"errors"
	"fmt"
	"mime"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/m-mizutani/ctxlog"

	"github.com/m-mizutani/cadport/pkg/domain/interfaces"
	"github.com/m-mizutani/cadport/pkg/domain/model"
)

// Acquisition outcome labels
const (
	AcquisitionOutcomeSuccess       = "success"
	AcquisitionOutcomeInvalid       = "invalid"
	AcquisitionOutcomeLoginRequired = "login_required"
	AcquisitionOutcomeNotFound      = "not_found"
	AcquisitionOutcomeLinkNotFound  = "link_not_found"
	AcquisitionOutcomeFailed        = "failed"
)

type libraryUseCase struct {
	sessions  interfaces.SessionProvider
	portal    interfaces.PortalClient
	sink      interfaces.ArtifactSink
	extractor interfaces.ArchiveExtractor
	opts      *options
}

// NewLibrary creates a new instance of LibraryUseCase
func NewLibrary(
	sessions interfaces.SessionProvider,
	portal interfaces.PortalClient,
	sink interfaces.ArtifactSink,
	extractor interfaces.ArchiveExtractor,
	opts ...Option,
) interfaces.LibraryUseCase {
	return &libraryUseCase{
		sessions:  sessions,
		portal:    portal,
		sink:      sink,
		extractor: extractor,
		opts:      buildOptions(opts),
	}
}

// Download resolves the part's detail page, finds the download link, stores the archive
// and extracts it. Failures are reported in the result, never as a Go error.
func (uc *libraryUseCase) Download(ctx context.Context, req *model.AcquisitionRequest) *model.AcquisitionResult {
	if req == nil {
		req = &model.AcquisitionRequest{}
	}
	partNumber := strings.TrimSpace(req.PartNumber)
	manufacturer := strings.TrimSpace(req.Manufacturer)

	logger := ctxlog.From(ctx).With(
		"acquisition_id", uuid.NewString(),
		"part_number", partNumber,
		"manufacturer", manufacturer,
	)
	ctx = ctxlog.With(ctx, logger)

	result := &model.AcquisitionResult{
		PartNumber:     partNumber,
		Manufacturer:   manufacturer,
		Source:         uc.opts.source,
		ExtractedFiles: []model.ExtractedFile{},
	}

	if msg := req.Validate(); msg != "" {
		uc.opts.metrics.ObserveAcquisition(AcquisitionOutcomeInvalid)
		return result.Fail(model.ErrKindInvalidRequest, msg)
	}

	session := uc.sessions.Get(ctx)
	if session.IsEmpty() {
		uc.opts.metrics.ObserveAcquisition(AcquisitionOutcomeLoginRequired)
		result.RequiresLogin = true
		return result.Fail(model.ErrKindAuthRequired, "Not authenticated. Please log in first.")
	}

	detailURL := strings.TrimSpace(req.DownloadURL)
	if detailURL == "" {
		detailURL = uc.portal.DetailURL(partNumber, manufacturer)
	}
	result.ComponentURL = detailURL

	logger.Info("Fetching part detail page", "url", detailURL)
	page, err := uc.portal.FetchPage(ctx, session, detailURL)
	if err != nil {
		return uc.failFromPortal(ctx, result, err)
	}
	result.ComponentURL = page.URL

	link, matcher, ok := findDownloadLink(uc.opts.matchers, page)
	if !ok {
		logger.Info("No download link found on detail page", "url", page.URL)
		uc.opts.metrics.ObserveAcquisition(AcquisitionOutcomeLinkNotFound)
		return result.Fail(model.ErrKindLinkNotFound, "No download link found on the part page")
	}
	logger.Info("Found download link", "matcher", matcher, "link", link)

	file, err := uc.portal.Download(ctx, session, link, detailURL)
	if err != nil {
		return uc.failFromPortal(ctx, result, err)
	}

	ext := ArchiveExtension(file.ContentType)
	filename := ArchiveFilename(partNumber, manufacturer, ext)
	archivePath, err := uc.sink.SaveArchive(ctx, filename, file.Data)
	if err != nil {
		logger.Error("Failed to save archive", "error", err, "filename", filename)
		uc.opts.metrics.ObserveAcquisition(AcquisitionOutcomeFailed)
		return result.Fail(model.ErrKindDownloadFailed, "Failed to save archive: "+err.Error())
	}

	result.Success = true
	result.Path = archivePath
	result.Filename = filename
	logger.Info("Saved archive", "path", archivePath, "size_bytes", len(file.Data), "content_type", file.ContentType)

	if ext != "zip" {
		result.Message = fmt.Sprintf("Library downloaded; extraction skipped for .%s archive", ext)
		uc.opts.metrics.ObserveAcquisition(AcquisitionOutcomeSuccess)
		return result
	}

	files, err := uc.extractor.Extract(ctx, archivePath, partNumber)
	if err != nil {
		logger.Warn("Failed to extract archive", "error", err, "path", archivePath)
		result.Message = "Library downloaded but could not be extracted: " + err.Error()
		uc.opts.metrics.ObserveAcquisition(AcquisitionOutcomeSuccess)
		return result
	}

	result.ExtractedFiles = files
	result.Message = fmt.Sprintf("Library downloaded and %d file(s) extracted", len(files))
	uc.opts.metrics.ObserveAcquisition(AcquisitionOutcomeSuccess)
	return result
}

func (uc *libraryUseCase) failFromPortal(ctx context.Context, result *model.AcquisitionResult, err error) *model.AcquisitionResult {
	logger := ctxlog.From(ctx)

	var perr *model.PortalError
	if !errors.As(err, &perr) {
		logger.Error("Portal request failed", "error", err)
		uc.opts.metrics.ObserveAcquisition(AcquisitionOutcomeFailed)
		return result.Fail(model.ErrKindDownloadFailed, err.Error())
	}

	switch perr.Kind {
	case model.PortalErrNotFound:
		logger.Info("Part not found on portal", "url", perr.URL)
		uc.opts.metrics.ObserveAcquisition(AcquisitionOutcomeNotFound)
		return result.Fail(model.ErrKindPartNotFound, "The part was not found on the portal")

	case model.PortalErrUnauthorized:
		logger.Warn("Portal rejected session", "url", perr.URL, "status", perr.StatusCode)
		uc.opts.metrics.ObserveAcquisition(AcquisitionOutcomeLoginRequired)
		result.RequiresLogin = true
		return result.Fail(model.ErrKindAuthFailed, "Authentication failed. Please log in again.")

	case model.PortalErrSignInRedirect:
		logger.Info("Portal redirected to sign-in", "url", perr.URL)
		uc.opts.metrics.ObserveAcquisition(AcquisitionOutcomeLoginRequired)
		result.RequiresLogin = true
		return result.Fail(model.ErrKindAuthRequired, "Session expired. Please log in again.")

	default:
		logger.Error("Portal request failed", "error", err, "kind", perr.Kind)
		uc.opts.metrics.ObserveAcquisition(AcquisitionOutcomeFailed)
		return result.Fail(model.ErrKindDownloadFailed, err.Error())
	}
}

func findDownloadLink(matchers []interfaces.LinkMatcher, page *model.PortalPage) (string, string, bool) {
	for _, m := range matchers {
		if link, ok := m.Match(page); ok {
			return link, m.Name(), true
		}
	}
	return "", "", false
}

var archiveExtensions = map[string]string{
	"application/zip":              "zip",
	"application/x-zip":            "zip",
	"application/x-zip-compressed": "zip",
	"application/x-7z-compressed":  "7z",
	"application/vnd.rar":          "rar",
	"application/x-rar":            "rar",
	"application/x-rar-compressed": "rar",
	"application/gzip":             "gz",
	"application/x-gzip":           "gz",
	"application/x-tar":            "tar",
}

// ArchiveExtension maps a response content type to an archive file extension, defaulting to zip
func ArchiveExtension(contentType string) string {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return "zip"
	}
	if ext, ok := archiveExtensions[strings.ToLower(mediaType)]; ok {
		return ext
	}
	return "zip"
}

// ArchiveFilename builds `<sanitizedPart>_<manufacturer>.<ext>`. Path separators in the
// manufacturer are replaced so the file stays in the download directory.
func ArchiveFilename(partNumber, manufacturer, ext string) string {
	mfr := strings.Map(func(r rune) rune {
		if r == '/' || r == '\\' || r == filepath.Separator {
			return '_'
		}
		return r
	}, strings.TrimSpace(manufacturer))
	mfr = strings.ReplaceAll(mfr, "..", "_")
	if mfr == "" {
		mfr = "unknown"
	}
	return fmt.Sprintf("%s_%s.%s", SanitizePartNumber(partNumber), mfr, ext)
}

package usecase

import (
	"archive/zip"
	"context"
	"io"
	"path"
	"strings"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"

	"github.com/m-mizutani/cadport/pkg/domain/interfaces"
	"github.com/m-mizutani/cadport/pkg/domain/model"
)

// entryHandler decides what happens to a recognized archive entry.
// A nil conversion means the entry is copied as is.
type entryHandler struct {
	role       model.Role
	conversion *Conversion
}

var entryHandlers = map[string]entryHandler{
	".edf":  {role: model.RoleFootprint, conversion: EDFToDRA},
	".cfg":  {role: model.RoleSymbol, conversion: CFGToPSM},
	".dra":  {role: model.RoleFootprint},
	".pad":  {role: model.RolePad},
	".psm":  {role: model.RoleSymbol},
	".osm":  {role: model.RoleSymbol},
	".lib":  {role: model.RolePSpice},
	".stp":  {role: model.Role3DModel},
	".step": {role: model.Role3DModel},
	".wrl":  {role: model.Role3DModel},
	".stl":  {role: model.Role3DModel},
}

// Classify returns the role for an archive entry name, or false when the entry is ignored
func Classify(name string) (model.Role, bool) {
	h, ok := classify(name)
	return h.role, ok
}

func classify(name string) (entryHandler, bool) {
	lower := strings.ToLower(normalizeEntryName(name))
	if h, ok := entryHandlers[path.Ext(lower)]; ok {
		return h, true
	}
	if strings.Contains(lower, "pspice") {
		return entryHandler{role: model.RolePSpice}, true
	}
	return entryHandler{}, false
}

func normalizeEntryName(name string) string {
	return strings.ReplaceAll(name, "\\", "/")
}

func isMetadataEntry(name string) bool {
	name = normalizeEntryName(name)
	if strings.HasPrefix(name, "__MACOSX/") || strings.Contains(name, "/__MACOSX/") {
		return true
	}
	return strings.HasPrefix(path.Base(name), "._")
}

type extractor struct {
	sink interfaces.ArtifactSink
	opts *options
}

// NewExtractor creates an ArchiveExtractor writing artifacts to sink
func NewExtractor(sink interfaces.ArtifactSink, opts ...Option) interfaces.ArchiveExtractor {
	return &extractor{
		sink: sink,
		opts: buildOptions(opts),
	}
}

// Extract classifies every entry of a zip archive and writes recognized ones through the sink.
// Entry failures are logged and skipped; only an unreadable archive is an error.
func (e *extractor) Extract(ctx context.Context, archivePath, partNumber string) ([]model.ExtractedFile, error) {
	logger := ctxlog.From(ctx)

	reader, err := zip.OpenReader(archivePath)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to open archive", goerr.V("path", archivePath))
	}
	defer reader.Close()

	e.sink.EnsureDirs(ctx)

	files := []model.ExtractedFile{}
	for _, entry := range reader.File {
		if entry.FileInfo().IsDir() || isMetadataEntry(entry.Name) {
			continue
		}

		h, ok := classify(entry.Name)
		if !ok {
			logger.Debug("Ignoring unrecognized archive entry", "entry", entry.Name)
			continue
		}

		file, err := e.processEntry(ctx, entry, h, partNumber)
		if err != nil {
			logger.Warn("Failed to process archive entry", "entry", entry.Name, "error", err)
			continue
		}

		e.opts.metrics.ObserveArtifact(file.Role)
		files = append(files, *file)
	}

	logger.Info("Extracted archive", "path", archivePath, "artifacts", len(files), "entries", len(reader.File))
	return files, nil
}

func (e *extractor) processEntry(ctx context.Context, entry *zip.File, h entryHandler, partNumber string) (*model.ExtractedFile, error) {
	limit := e.opts.maxEntrySize
	if entry.UncompressedSize64 > uint64(limit) {
		return nil, goerr.New("archive entry exceeds size limit",
			goerr.V("size", entry.UncompressedSize64),
			goerr.V("limit", limit))
	}

	rc, err := entry.Open()
	if err != nil {
		return nil, goerr.Wrap(err, "failed to open archive entry")
	}
	defer rc.Close()

	data, err := io.ReadAll(io.LimitReader(rc, limit+1))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read archive entry")
	}
	if int64(len(data)) > limit {
		return nil, goerr.New("archive entry exceeds size limit", goerr.V("limit", limit))
	}

	name := path.Base(normalizeEntryName(entry.Name))
	if h.conversion != nil {
		name, data, err = h.conversion.Convert(partNumber, entry.Name, data, e.opts.now())
		if err != nil {
			return nil, err
		}
	}

	written, err := e.sink.Write(ctx, h.role, name, data)
	if err != nil {
		return nil, err
	}

	return &model.ExtractedFile{Role: h.role, Name: name, Path: written}, nil
}

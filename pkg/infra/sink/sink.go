package sink

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"

	"github.com/m-mizutani/cadport/pkg/domain/interfaces"
	"github.com/m-mizutani/cadport/pkg/domain/model"
)

// Dirs holds the output directories. 3D models share the footprint directory.
type Dirs struct {
	Download  string
	Footprint string
	Symbol    string
	Pad       string
	PSpice    string
}

// DefaultDirs returns the conventional relative output layout
func DefaultDirs() Dirs {
	return Dirs{
		Download:  "downloads",
		Footprint: filepath.Join("library", "footprints"),
		Symbol:    filepath.Join("library", "symbols"),
		Pad:       filepath.Join("library", "pads"),
		PSpice:    filepath.Join("library", "pspice"),
	}
}

type filesystem struct {
	dirs Dirs
}

// New creates an ArtifactSink writing under dirs. Empty entries fall back to DefaultDirs.
func New(dirs Dirs) interfaces.ArtifactSink {
	def := DefaultDirs()
	if dirs.Download == "" {
		dirs.Download = def.Download
	}
	if dirs.Footprint == "" {
		dirs.Footprint = def.Footprint
	}
	if dirs.Symbol == "" {
		dirs.Symbol = def.Symbol
	}
	if dirs.Pad == "" {
		dirs.Pad = def.Pad
	}
	if dirs.PSpice == "" {
		dirs.PSpice = def.PSpice
	}
	return &filesystem{dirs: dirs}
}

// DirFor returns the output directory for a role
func (d Dirs) DirFor(role model.Role) string {
	switch role {
	case model.RoleFootprint, model.Role3DModel:
		return d.Footprint
	case model.RoleSymbol:
		return d.Symbol
	case model.RolePad:
		return d.Pad
	case model.RolePSpice:
		return d.PSpice
	default:
		return ""
	}
}

// EnsureDirs creates every role directory. Failures are only logged; a later Write
// into the missing directory returns the error.
func (s *filesystem) EnsureDirs(ctx context.Context) {
	logger := ctxlog.From(ctx)
	for _, dir := range []string{s.dirs.Footprint, s.dirs.Symbol, s.dirs.Pad, s.dirs.PSpice} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			logger.Error("Failed to create output directory", "dir", dir, "error", err)
		}
	}
}

// SaveArchive writes a downloaded archive into the download directory
func (s *filesystem) SaveArchive(ctx context.Context, filename string, data []byte) (string, error) {
	if err := os.MkdirAll(s.dirs.Download, 0o755); err != nil {
		return "", goerr.Wrap(err, "failed to create download directory", goerr.V("dir", s.dirs.Download))
	}
	return writeFile(s.dirs.Download, filename, data)
}

// Write stores one artifact in its role directory and returns the absolute path
func (s *filesystem) Write(ctx context.Context, role model.Role, filename string, data []byte) (string, error) {
	dir := s.dirs.DirFor(role)
	if dir == "" {
		return "", goerr.New("no output directory for role", goerr.V("role", role))
	}
	return writeFile(dir, filename, data)
}

func writeFile(dir, filename string, data []byte) (string, error) {
	name := filepath.Base(filepath.Clean(filename))
	if name == "." || name == string(filepath.Separator) || strings.HasPrefix(name, "..") {
		return "", goerr.New("invalid output filename", goerr.V("filename", filename))
	}

	path, err := filepath.Abs(filepath.Join(dir, name))
	if err != nil {
		return "", goerr.Wrap(err, "failed to resolve output path", goerr.V("dir", dir), goerr.V("filename", name))
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", goerr.Wrap(err, "failed to write output file", goerr.V("path", path))
	}
	return path, nil
}

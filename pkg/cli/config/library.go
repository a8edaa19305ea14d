package config

import (
	"github.com/urfave/cli/v3"

	"github.com/m-mizutani/cadport/pkg/domain/interfaces"
	"github.com/m-mizutani/cadport/pkg/infra/sink"
)

// Library holds output directory settings
type Library struct {
	DownloadDir  string
	FootprintDir string
	SymbolDir    string
	PadDir       string
	PSpiceDir    string
	MaxEntrySize int64
}

// Flags returns CLI flags for library output configuration
func (c *Library) Flags() []cli.Flag {
	def := sink.DefaultDirs()
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "download-dir",
			Usage:       "Directory for downloaded archives",
			Value:       def.Download,
			Destination: &c.DownloadDir,
			Sources:     cli.EnvVars("CADPORT_DOWNLOAD_DIR"),
		},
		&cli.StringFlag{
			Name:        "footprint-dir",
			Usage:       "Directory for footprints and 3D models",
			Value:       def.Footprint,
			Destination: &c.FootprintDir,
			Sources:     cli.EnvVars("CADPORT_FOOTPRINT_DIR"),
		},
		&cli.StringFlag{
			Name:        "symbol-dir",
			Usage:       "Directory for schematic symbols",
			Value:       def.Symbol,
			Destination: &c.SymbolDir,
			Sources:     cli.EnvVars("CADPORT_SYMBOL_DIR"),
		},
		&cli.StringFlag{
			Name:        "pad-dir",
			Usage:       "Directory for padstacks",
			Value:       def.Pad,
			Destination: &c.PadDir,
			Sources:     cli.EnvVars("CADPORT_PAD_DIR"),
		},
		&cli.StringFlag{
			Name:        "pspice-dir",
			Usage:       "Directory for PSpice models",
			Value:       def.PSpice,
			Destination: &c.PSpiceDir,
			Sources:     cli.EnvVars("CADPORT_PSPICE_DIR"),
		},
		&cli.Int64Flag{
			Name:        "max-entry-size",
			Usage:       "Largest archive entry to extract, in bytes",
			Value:       64 << 20,
			Destination: &c.MaxEntrySize,
			Sources:     cli.EnvVars("CADPORT_MAX_ENTRY_SIZE"),
		},
	}
}

// Sink creates the filesystem sink for the configured directories
func (c *Library) Sink() interfaces.ArtifactSink {
	return sink.New(sink.Dirs{
		Download:  c.DownloadDir,
		Footprint: c.FootprintDir,
		Symbol:    c.SymbolDir,
		Pad:       c.PadDir,
		PSpice:    c.PSpiceDir,
	})
}

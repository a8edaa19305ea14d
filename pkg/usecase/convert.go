package usecase

import (
	"bytes"
	_ "embed"
	"regexp"
	"text/template"
	"time"

	"github.com/m-mizutani/goerr/v2"
)

//go:embed templates/footprint.tmpl
var footprintHeader string

//go:embed templates/symbol.tmpl
var symbolHeader string

var (
	footprintTemplate = template.Must(template.New("footprint").Parse(footprintHeader))
	symbolTemplate    = template.Must(template.New("symbol").Parse(symbolHeader))
)

var unsafePartChars = regexp.MustCompile(`[^A-Za-z0-9_-]`)

// fallbackStem names converted files whose part number has no safe characters
const fallbackStem = "part"

// SanitizePartNumber strips every character outside [A-Za-z0-9_-]
func SanitizePartNumber(partNumber string) string {
	return unsafePartChars.ReplaceAllString(partNumber, "")
}

// Conversion describes one vendor-native to wrapper format transform
type Conversion struct {
	Format    string
	Extension string
	header    *template.Template
}

var (
	// EDFToDRA wraps a vendor EDF footprint as an Allegro .dra file
	EDFToDRA = &Conversion{Format: "EDF to DRA", Extension: "dra", header: footprintTemplate}
	// CFGToPSM wraps a vendor CFG symbol as an OrCAD .psm file
	CFGToPSM = &Conversion{Format: "CFG to PSM", Extension: "psm", header: symbolTemplate}
)

type headerData struct {
	PartNumber string
	Generated  string
	Source     string
	Format     string
}

// Convert prepends a provenance header to content. The content is kept byte for byte.
func (c *Conversion) Convert(partNumber, sourceEntry string, content []byte, now time.Time) (string, []byte, error) {
	var buf bytes.Buffer
	data := headerData{
		PartNumber: partNumber,
		Generated:  now.UTC().Format(time.RFC3339),
		Source:     sourceEntry,
		Format:     c.Format,
	}
	if err := c.header.Execute(&buf, data); err != nil {
		return "", nil, goerr.Wrap(err, "failed to render conversion header",
			goerr.V("format", c.Format),
			goerr.V("part_number", partNumber))
	}
	buf.Write(content)

	stem := SanitizePartNumber(partNumber)
	if stem == "" {
		stem = fallbackStem
	}
	return stem + "." + c.Extension, buf.Bytes(), nil
}

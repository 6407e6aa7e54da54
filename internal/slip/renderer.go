package slip

import (
	"bytes"
	"fmt"
	"os"

	"payslip/domain/core"
	"payslip/domain/payroll"
	"payslip/internal"

	"github.com/go-pdf/fpdf"
)

const fontFamily = "SlipFont"

// Config configures the renderer.
type Config struct {
	FontPath string
	Title    string
}

// Renderer paints salary slips as single-page A4 PDFs.
type Renderer struct {
	fontPath string
	title    string
	logger   *internal.Logger

	// plainStreams leaves page content uncompressed
	plainStreams bool
}

// NewRenderer creates a renderer. The font is read on every render so that a
// font deployed after startup is picked up.
func NewRenderer(cfg Config, logger *internal.Logger) *Renderer {
	if logger == nil {
		logger = internal.Discard
	}
	return &Renderer{fontPath: cfg.FontPath, title: cfg.Title, logger: logger}
}

// Render produces the slip for rec. A missing or unusable font yields an
// error wrapping core.ErrMissingFont and no document.
func (r *Renderer) Render(rec payroll.Record) (*payroll.Document, error) {
	fontBytes, err := os.ReadFile(r.fontPath)
	if err != nil {
		return nil, core.NewMissingFontError(r.fontPath, err)
	}

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetCompression(!r.plainStreams)
	pdf.SetTitle("Salary slip "+rec.ID(), true)
	pdf.SetCreator("payslip", false)
	pdf.AddUTF8FontFromBytes(fontFamily, "", fontBytes)
	if pdf.Err() {
		return nil, core.NewMissingFontError(r.fontPath, pdf.Error())
	}
	pdf.AddPage()

	paint(pdf, Layout(r.title, rec))

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to write slip for %s: %w", rec.ID(), err)
	}

	r.logger.Debug("[Renderer] rendered slip for %s (%d bytes)", rec.ID(), buf.Len())
	return payroll.NewDocument(rec.ID(), buf.Bytes()), nil
}

func paint(pdf *fpdf.Fpdf, lines []Line) {
	pdf.SetFillColor(RowFill[0], RowFill[1], RowFill[2])
	for _, l := range lines {
		switch l.Kind {
		case KindRule:
			pdf.Line(RuleFromX, RuleY, RuleToX, RuleY)
		case KindGap:
			pdf.Ln(l.Height)
		case KindText:
			pdf.SetFont(fontFamily, "", l.Size)
			pdf.CellFormat(0, l.Height, l.Shaped, "", 1, l.Align, l.Fill, 0, "")
		}
	}
}

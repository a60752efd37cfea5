package report

import (
	"fmt"
	"io"
	"time"

	"github.com/go-pdf/fpdf"
)

const (
	pdfFontFamily   = "healthlog"
	pdfFallbackFont = "Helvetica"
	pdfPageWidth    = 190.0
	pdfRowHeight    = 7.0
)

// WeeklyPDFRenderer lays out a Document on A4 pages. Without a UTF-8 font
// file only Latin-1 text renders correctly.
type WeeklyPDFRenderer struct {
	fontPath string
	now      func() time.Time
}

func NewWeeklyPDFRenderer(fontPath string) *WeeklyPDFRenderer {
	return &WeeklyPDFRenderer{fontPath: fontPath, now: time.Now}
}

// SupportsUnicode reports whether a UTF-8 font was configured. Without one
// only Latin-1 text renders.
func (renderer *WeeklyPDFRenderer) SupportsUnicode() bool {
	return renderer.fontPath != ""
}

func (renderer *WeeklyPDFRenderer) Render(output io.Writer, document Document) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(document.Title, true)
	pdf.SetCreator("healthlog", false)
	pdf.SetCreationDate(renderer.now())

	family := pdfFallbackFont
	translate := pdf.UnicodeTranslatorFromDescriptor("")
	if renderer.fontPath != "" {
		pdf.AddUTF8Font(pdfFontFamily, "", renderer.fontPath)
		family = pdfFontFamily
		translate = func(text string) string { return text }
	}

	pdf.AddPage()
	pdf.SetFont(family, "", 16)
	pdf.CellFormat(pdfPageWidth, 10, translate(document.Title), "", 1, "L", false, 0, "")
	pdf.Ln(2)

	pdf.SetFont(family, "", 10)
	for _, field := range document.Profile {
		pdf.CellFormat(40, 6, translate(field.Label), "", 0, "L", false, 0, "")
		pdf.CellFormat(pdfPageWidth-40, 6, translate(field.Value), "", 1, "L", false, 0, "")
	}

	for _, table := range document.Tables {
		pdf.Ln(4)
		pdf.SetFont(family, "", 13)
		pdf.CellFormat(pdfPageWidth, 8, translate(table.Title), "", 1, "L", false, 0, "")
		pdf.SetFont(family, "", 9)

		if len(table.Rows) == 0 {
			pdf.CellFormat(pdfPageWidth, pdfRowHeight, translate(table.Empty), "", 1, "L", false, 0, "")
			continue
		}

		width := pdfPageWidth / float64(len(table.Headers))
		pdf.SetFillColor(240, 253, 250)
		for _, header := range table.Headers {
			pdf.CellFormat(width, pdfRowHeight, translate(header), "1", 0, "C", true, 0, "")
		}
		pdf.Ln(-1)
		for _, row := range table.Rows {
			for index := range table.Headers {
				cell := ""
				if index < len(row) {
					cell = row[index]
				}
				pdf.CellFormat(width, pdfRowHeight, translate(cell), "1", 0, "L", false, 0, "")
			}
			pdf.Ln(-1)
		}
	}

	if document.Footer != "" {
		pdf.Ln(6)
		pdf.SetFont(family, "", 8)
		pdf.CellFormat(pdfPageWidth, 5, translate(document.Footer), "", 1, "R", false, 0, "")
	}

	if err := pdf.Output(output); err != nil {
		return fmt.Errorf("render weekly pdf: %w", err)
	}
	return nil
}

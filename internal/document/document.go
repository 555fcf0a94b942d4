// Package document renders shopping lists for download.
package document

import (
	"fmt"
	"io"
	"strings"

	"github.com/go-pdf/fpdf"

	"github.com/pageza/foodgram/backend/internal/types"
)

// Renderer turns a shopping list into a downloadable file.
type Renderer interface {
	Render(w io.Writer, owner string, items []types.ShoppingItem) error
	ContentType() string
	Filename() string
}

// ForFormat picks a renderer by query format; unknown formats get PDF.
func ForFormat(format string) Renderer {
	if strings.EqualFold(format, "txt") {
		return TextRenderer{}
	}
	return PDFRenderer{}
}

func line(item types.ShoppingItem) string {
	return fmt.Sprintf("%s (%s) - %d", item.Name, item.MeasurementUnit, item.Amount)
}

// TextRenderer writes one "name (unit) - amount" line per item.
type TextRenderer struct{}

func (TextRenderer) ContentType() string { return "text/plain; charset=utf-8" }

func (TextRenderer) Filename() string { return "shopping_list.txt" }

func (TextRenderer) Render(w io.Writer, owner string, items []types.ShoppingItem) error {
	var b strings.Builder
	fmt.Fprintf(&b, "Shopping list for %s\n\n", owner)
	if len(items) == 0 {
		b.WriteString("Your shopping cart is empty.\n")
	}
	for _, item := range items {
		b.WriteString("- " + line(item) + "\n")
	}
	_, err := io.WriteString(w, b.String())
	return err
}

// PDFRenderer lays the list out on A4 pages with the core Helvetica font.
type PDFRenderer struct{}

func (PDFRenderer) ContentType() string { return "application/pdf" }

func (PDFRenderer) Filename() string { return "shopping_list.pdf" }

func (PDFRenderer) Render(w io.Writer, owner string, items []types.ShoppingItem) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetTitle("Shopping list", true)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 10, tr("Shopping list for "+owner), "", 1, "L", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "", 12)
	if len(items) == 0 {
		pdf.CellFormat(0, 8, tr("Your shopping cart is empty."), "", 1, "L", false, 0, "")
	}
	for i, item := range items {
		pdf.CellFormat(0, 8, tr(fmt.Sprintf("%d. %s", i+1, line(item))), "", 1, "L", false, 0, "")
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("failed to render pdf: %w", err)
	}
	return nil
}

package report

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"
	"github.com/xelth-com/matchforgego/internal/models"
)

// Matches per page before a new header row is emitted.
const rowsPerPage = 40

// GenerateMatchReport renders one generation's match set as a printable
// table: generation summary on top, confirmed pairs first, automatic matches
// after.
func GenerateMatchReport(gen models.MatchGeneration, matches []models.ProductMatch, overrides []models.MatchOverride) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(12, 12, 12)
	pdf.SetAutoPageBreak(true, 15)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 14)
	pdf.CellFormat(0, 8, "Catalog Match Report", "", 1, "L", false, 0, "")

	pdf.SetFont("Arial", "", 9)
	pdf.CellFormat(0, 5, fmt.Sprintf("Generation %s, built %s", gen.ID, gen.BuiltAt.Format("2006-01-02 15:04:05 MST")), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 5, fmt.Sprintf("Records A: %d   Records B: %d   Matches: %d   Conflicts: %d   Skipped: %d",
		gen.CatalogACount, gen.CatalogBCount, gen.MatchCount, gen.ConflictCount, gen.SkippedCount), "", 1, "L", false, 0, "")
	pdf.Ln(4)

	if len(overrides) > 0 {
		pdf.SetFont("Arial", "B", 10)
		pdf.CellFormat(0, 6, fmt.Sprintf("Confirmed pairs (%d)", len(overrides)), "", 1, "L", false, 0, "")
		overrideHeader(pdf)
		pdf.SetFont("Arial", "", 8)
		for _, o := range overrides {
			pdf.CellFormat(45, 5, o.SkuA, "1", 0, "L", false, 0, "")
			pdf.CellFormat(45, 5, o.SkuB, "1", 0, "L", false, 0, "")
			pdf.CellFormat(30, 5, o.Author, "1", 0, "L", false, 0, "")
			pdf.CellFormat(66, 5, o.Reason, "1", 1, "L", false, 0, "")
		}
		pdf.Ln(4)
	}

	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(0, 6, fmt.Sprintf("Automatic matches (%d)", len(matches)), "", 1, "L", false, 0, "")
	matchHeader(pdf)

	pdf.SetFont("Arial", "", 8)
	for i, m := range matches {
		if i > 0 && i%rowsPerPage == 0 {
			pdf.AddPage()
			matchHeader(pdf)
			pdf.SetFont("Arial", "", 8)
		}
		pdf.CellFormat(42, 5, m.SkuA, "1", 0, "L", false, 0, "")
		pdf.CellFormat(42, 5, m.SkuB, "1", 0, "L", false, 0, "")
		pdf.CellFormat(40, 5, m.BarcodeHit, "1", 0, "L", false, 0, "")
		pdf.CellFormat(42, 5, m.MatchedBy, "1", 0, "L", false, 0, "")
		pdf.CellFormat(20, 5, fmt.Sprintf("%d", m.MatchScore), "1", 1, "R", false, 0, "")
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func matchHeader(pdf *gofpdf.Fpdf) {
	pdf.SetFont("Arial", "B", 8)
	pdf.CellFormat(42, 5, "SKU A", "1", 0, "L", false, 0, "")
	pdf.CellFormat(42, 5, "SKU B", "1", 0, "L", false, 0, "")
	pdf.CellFormat(40, 5, "Barcode", "1", 0, "L", false, 0, "")
	pdf.CellFormat(42, 5, "Matched by", "1", 0, "L", false, 0, "")
	pdf.CellFormat(20, 5, "Score", "1", 1, "R", false, 0, "")
}

func overrideHeader(pdf *gofpdf.Fpdf) {
	pdf.SetFont("Arial", "B", 8)
	pdf.CellFormat(45, 5, "SKU A", "1", 0, "L", false, 0, "")
	pdf.CellFormat(45, 5, "SKU B", "1", 0, "L", false, 0, "")
	pdf.CellFormat(30, 5, "Author", "1", 0, "L", false, 0, "")
	pdf.CellFormat(66, 5, "Reason", "1", 1, "L", false, 0, "")
}

package receipt

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jung-kurt/gofpdf"

	"github.com/coopandina/teller/internal/domain/port"
)

// PDFPrinter renders teller receipts as PDF files into a spool directory,
// where the branch print daemon picks them up. It implements
// port.ReceiptPrinter.
type PDFPrinter struct {
	dir string
}

// NewPDFPrinter creates a PDFPrinter spooling into dir, creating it if
// needed.
func NewPDFPrinter(dir string) (*PDFPrinter, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create receipt spool dir: %w", err)
	}
	return &PDFPrinter{dir: dir}, nil
}

// Print renders the receipt to <spool>/<receipt number>.pdf.
func (p *PDFPrinter) Print(ctx context.Context, r port.Receipt) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	pdf := gofpdf.New("P", "mm", "A5", "")
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 14)
	pdf.CellFormat(0, 8, "Cooperativa Andina", "", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(0, 6, "Comprobante de operacion", "", 1, "C", false, 0, "")
	pdf.Ln(4)

	rows := [][2]string{
		{"Nro. comprobante", r.ReceiptNumber},
		{"Fecha", r.Date.Format("02/01/2006 15:04")},
		{"Socio", r.MemberName},
		{"Cuenta", r.AccountNumber},
		{"Operacion", r.Kind},
		{"Concepto", r.Concept},
		{"Importe", r.Amount},
		{"Cajero", r.TellerName},
	}

	pdf.SetFont("Arial", "", 10)
	for _, row := range rows {
		if row[1] == "" {
			continue
		}
		pdf.SetFont("Arial", "B", 10)
		pdf.CellFormat(45, 7, row[0], "", 0, "L", false, 0, "")
		pdf.SetFont("Arial", "", 10)
		pdf.CellFormat(0, 7, row[1], "", 1, "L", false, 0, "")
	}

	pdf.Ln(6)
	pdf.SetFont("Arial", "I", 8)
	pdf.CellFormat(0, 5, "Conserve este comprobante como constancia de su operacion.", "", 1, "C", false, 0, "")

	path := filepath.Join(p.dir, r.ReceiptNumber+".pdf")
	if err := pdf.OutputFileAndClose(path); err != nil {
		return fmt.Errorf("write receipt %s: %w", r.ReceiptNumber, err)
	}
	return nil
}

package infra

// pdf.go — Closing report generation using go-pdf/fpdf.
// Generates an A4 session report with:
//   - Chain and branch header
//   - Session metadata (terminal, cashier, open/close timestamps)
//   - Movement table (type, reason, amount)
//   - Expected vs counted cash and the resulting difference
//
// The output file is saved to storagePath/cierre_{session_id}.pdf.

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/filimorniga-ux/farmacias-vallenar-suit-sub005/internal/model"

	"github.com/go-pdf/fpdf"
	"github.com/shopspring/decimal"
)

// SessionReport bundles everything the closing report needs rendered.
type SessionReport struct {
	Session      *model.Session
	Movements    []model.CashMovement
	SucursalName string
	TerminalName string
	UserName     string
	ExpectedCash decimal.Decimal
}

var movementLabels = map[string]string{
	model.MovementOpenFloat:  "Fondo inicial",
	model.MovementCloseCount: "Arqueo de cierre",
	model.MovementSale:       "Venta",
	model.MovementRefund:     "Devolución",
	model.MovementAdjustment: "Ajuste",
}

// GenerateSessionReportPDF renders the closing report for a finished session.
// storagePath is the directory where the PDF will be written (created if needed).
// Returns the absolute path to the generated file.
func GenerateSessionReportPDF(r SessionReport, storagePath string) (string, error) {
	if err := os.MkdirAll(storagePath, 0755); err != nil {
		return "", fmt.Errorf("pdf: create storage dir: %w", err)
	}

	fileName := fmt.Sprintf("cierre_%s.pdf", r.Session.ID)
	filePath := filepath.Join(storagePath, fileName)

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.AddPage()

	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 30 // total margins = 30mm

	// ── Header ───────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(contentW, 9, "Farmacias Vallenar", "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 11)
	pdf.CellFormat(contentW, 6, "Reporte de Cierre de Sesión", "", 1, "C", false, 0, "")
	pdf.Ln(4)

	// ── Session info ─────────────────────────────────────────────────────────
	labelW := contentW * 0.30
	pdf.SetFont("Helvetica", "", 9)
	info := [][2]string{
		{"Sucursal:", r.SucursalName},
		{"Terminal:", r.TerminalName},
		{"Cajero:", r.UserName},
		{"Apertura:", r.Session.OpenedAt.Format("02/01/2006 15:04")},
	}
	if r.Session.ClosedAt != nil {
		info = append(info, [2]string{"Cierre:", r.Session.ClosedAt.Format("02/01/2006 15:04")})
	}
	info = append(info, [2]string{"Estado:", r.Session.Status})
	for _, row := range info {
		pdf.SetFont("Helvetica", "B", 9)
		pdf.CellFormat(labelW, 6, row[0], "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 9)
		pdf.CellFormat(contentW-labelW, 6, row[1], "", 1, "L", false, 0, "")
	}
	pdf.Ln(3)

	// ── Movement table ───────────────────────────────────────────────────────
	col1 := contentW * 0.25 // type
	col2 := contentW * 0.50 // reason
	col3 := contentW * 0.25 // amount

	pdf.SetFont("Helvetica", "B", 9)
	pdf.CellFormat(col1, 6, "Movimiento", "B", 0, "L", false, 0, "")
	pdf.CellFormat(col2, 6, "Detalle", "B", 0, "L", false, 0, "")
	pdf.CellFormat(col3, 6, "Monto", "B", 1, "R", false, 0, "")

	pdf.SetFont("Helvetica", "", 9)
	for _, mov := range r.Movements {
		label, ok := movementLabels[mov.Type]
		if !ok {
			label = mov.Type
		}
		reason := mov.Reason
		if len([]rune(reason)) > 48 {
			reason = string([]rune(reason)[:47]) + "…"
		}
		pdf.CellFormat(col1, 5, label, "", 0, "L", false, 0, "")
		pdf.CellFormat(col2, 5, reason, "", 0, "L", false, 0, "")
		pdf.CellFormat(col3, 5, "$"+mov.Amount.StringFixed(0), "", 1, "R", false, 0, "")
	}

	pdf.Ln(2)
	pdf.Line(15, pdf.GetY(), pageW-15, pdf.GetY())
	pdf.Ln(2)

	// ── Totals ───────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(col1+col2, 6, "Fondo inicial:", "", 0, "L", false, 0, "")
	pdf.CellFormat(col3, 6, "$"+r.Session.OpeningAmount.StringFixed(0), "", 1, "R", false, 0, "")
	pdf.CellFormat(col1+col2, 6, "Efectivo esperado:", "", 0, "L", false, 0, "")
	pdf.CellFormat(col3, 6, "$"+r.ExpectedCash.StringFixed(0), "", 1, "R", false, 0, "")

	if r.Session.ClosingAmount != nil {
		counted := *r.Session.ClosingAmount
		diff := counted.Sub(r.ExpectedCash)

		pdf.CellFormat(col1+col2, 6, "Efectivo contado:", "", 0, "L", false, 0, "")
		pdf.CellFormat(col3, 6, "$"+counted.StringFixed(0), "", 1, "R", false, 0, "")

		pdf.SetFont("Helvetica", "B", 11)
		pdf.CellFormat(col1+col2, 7, "DIFERENCIA:", "", 0, "L", false, 0, "")
		pdf.CellFormat(col3, 7, "$"+diff.StringFixed(0), "", 1, "R", false, 0, "")
	}

	// ── Footer ───────────────────────────────────────────────────────────────
	pdf.Ln(5)
	pdf.SetFont("Helvetica", "I", 8)
	pdf.CellFormat(contentW, 5, "Documento generado automáticamente al cierre de sesión.", "", 1, "C", false, 0, "")

	if err := pdf.OutputFileAndClose(filePath); err != nil {
		return "", fmt.Errorf("pdf: write file: %w", err)
	}

	return filePath, nil
}

package infra

// pdf.go: comprobante térmico (74mm de ancho) con go-pdf/fpdf:
// encabezado del negocio, número de factura, líneas, cargos, total y pago.
// El archivo queda en storagePath/comprobante_{numero}.pdf.

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"comandapos/internal/model"

	"github.com/go-pdf/fpdf"
	"github.com/shopspring/decimal"
)

// GenerateComprobantePDF renders the receipt of a completed Factura and returns
// the path of the written file.
func GenerateComprobantePDF(f *model.Factura, negocio, storagePath string) (string, error) {
	if err := os.MkdirAll(storagePath, 0o755); err != nil {
		return "", fmt.Errorf("pdf: create storage dir: %w", err)
	}
	filePath := filepath.Join(storagePath, fmt.Sprintf("comprobante_%s.pdf", sanitizeNombre(f.Numero)))

	// Alto variable: 60mm fijos más una fila por línea.
	alto := 80 + float64(len(f.Detalles))*5
	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "mm",
		Size:           fpdf.SizeType{Wd: 74, Ht: alto},
	})
	pdf.SetMargins(4, 4, 4)
	pdf.SetAutoPageBreak(false, 4)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 8

	// ── Header ───────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(contentW, 7, tr(negocio), "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 8)
	pdf.CellFormat(contentW, 5, "Comprobante de pago", "", 1, "C", false, 0, "")
	pdf.Ln(2)

	pdf.SetFont("Helvetica", "B", 8)
	pdf.CellFormat(contentW, 5, tr("Factura N° "+f.Numero), "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 7)
	pdf.CellFormat(contentW, 4, f.UpdatedAt.Format("02/01/2006  15:04"), "", 1, "L", false, 0, "")
	pdf.Ln(1)
	pdf.Line(4, pdf.GetY(), pageW-4, pdf.GetY())
	pdf.Ln(2)

	// ── Items ─────────────────────────────────────────────────────────────────
	col1 := contentW * 0.52
	col2 := contentW * 0.16
	col3 := contentW * 0.32

	pdf.SetFont("Helvetica", "B", 7)
	pdf.CellFormat(col1, 5, "Producto", "B", 0, "L", false, 0, "")
	pdf.CellFormat(col2, 5, "Cant", "B", 0, "C", false, 0, "")
	pdf.CellFormat(col3, 5, "Subtotal", "B", 1, "R", false, 0, "")

	pdf.SetFont("Helvetica", "", 7)
	for _, d := range f.Detalles {
		nombre := []rune(d.NombreProducto)
		if len(nombre) > 24 {
			nombre = append(nombre[:23], '.')
		}
		pdf.CellFormat(col1, 5, tr(string(nombre)), "", 0, "L", false, 0, "")
		pdf.CellFormat(col2, 5, "x"+d.Cantidad.String(), "", 0, "C", false, 0, "")
		pdf.CellFormat(col3, 5, dinero(d.Subtotal), "", 1, "R", false, 0, "")
	}

	pdf.Ln(1)
	pdf.Line(4, pdf.GetY(), pageW-4, pdf.GetY())
	pdf.Ln(2)

	// ── Totals ────────────────────────────────────────────────────────────────
	fila := func(label, valor string) {
		pdf.CellFormat(col1+col2, 4, tr(label), "", 0, "L", false, 0, "")
		pdf.CellFormat(col3, 4, valor, "", 1, "R", false, 0, "")
	}
	pdf.SetFont("Helvetica", "", 7)
	fila("Subtotal:", dinero(f.Subtotal))
	if !f.Impuesto.IsZero() {
		fila("Impuesto:", dinero(f.Impuesto))
	}
	if !f.Descuento.IsZero() {
		fila(fmt.Sprintf("Descuento (%s%%):", f.DescuentoPct.String()), "-"+dinero(f.Descuento))
	}
	if !f.CargoServicio.IsZero() {
		fila(fmt.Sprintf("Servicio (%s%%):", f.CargoServicioPct.String()), dinero(f.CargoServicio))
	}
	if !f.CargoDomicilio.IsZero() {
		fila("Domicilio:", dinero(f.CargoDomicilio))
	}

	pdf.SetFont("Helvetica", "B", 9)
	pdf.CellFormat(col1+col2, 6, "TOTAL:", "", 0, "L", false, 0, "")
	pdf.CellFormat(col3, 6, dinero(f.Total), "", 1, "R", false, 0, "")

	pdf.SetFont("Helvetica", "", 7)
	if f.MetodoPago != nil {
		fila("Pago ("+string(*f.MetodoPago)+"):", dinero(f.MontoRecibido))
	}
	if f.Cambio.IsPositive() {
		fila("Cambio:", dinero(f.Cambio))
	}

	// ── Footer ────────────────────────────────────────────────────────────────
	pdf.Ln(3)
	pdf.SetFont("Helvetica", "I", 7)
	pdf.CellFormat(contentW, 4, tr("¡Gracias por su visita!"), "", 1, "C", false, 0, "")

	if err := pdf.OutputFileAndClose(filePath); err != nil {
		return "", fmt.Errorf("pdf: write file: %w", err)
	}
	return filePath, nil
}

func dinero(d decimal.Decimal) string { return "$" + d.StringFixed(2) }

func sanitizeNombre(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		}
		return '_'
	}, s)
}

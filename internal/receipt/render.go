// Package receipt renders paid bills as PDF receipts and hands them to a sink.
package receipt

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/shopspring/decimal"

	"pos-billing/internal/core"
)

// Format is the paper layout.
type Format string

const (
	FormatThermal Format = "thermal"
	FormatA4      Format = "a4"
)

// ParseFormat accepts "thermal" (or "80mm") and "a4".
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "thermal", "80mm":
		return FormatThermal, nil
	case "a4":
		return FormatA4, nil
	}
	return "", fmt.Errorf("unknown receipt format %q", s)
}

// Document is everything printed on a receipt.
type Document struct {
	Bill       core.Bill
	Lines      []core.PaymentLine
	Restaurant string
	Currency   string
	IssuedAt   time.Time
}

func (d Document) money(v decimal.Decimal) string {
	return v.StringFixed(2) + " " + d.Currency
}

func (d Document) method(i int, l core.PaymentLine, fallback string) string {
	if l.MethodName != "" {
		return l.MethodName
	}
	return fmt.Sprintf("%s %d", fallback, i+1)
}

func qty(item core.BillItem) decimal.Decimal {
	if item.Quantity.IsPositive() {
		return item.Quantity
	}
	return decimal.NewFromInt(1)
}

// Render draws the document. It has no side effects.
func Render(doc Document, format Format) ([]byte, error) {
	var pdf *gofpdf.Fpdf
	switch format {
	case FormatThermal:
		pdf = renderThermal(doc)
	case FormatA4:
		pdf = renderA4(doc)
	default:
		return nil, fmt.Errorf("unknown receipt format %q", format)
	}
	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render %s receipt for bill %d: %w", format, doc.Bill.ID, err)
	}
	return buf.Bytes(), nil
}

func newPDF(doc Document, init *gofpdf.InitType) (*gofpdf.Fpdf, func(string) string) {
	pdf := gofpdf.NewCustom(init)
	pdf.SetCompression(false)
	pdf.SetCreationDate(doc.IssuedAt)
	pdf.SetTitle(fmt.Sprintf("Bill #%d", doc.Bill.ID), true)
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddPage()
	return pdf, pdf.UnicodeTranslatorFromDescriptor("")
}

func right(pdf *gofpdf.Fpdf, x, y float64, s string) {
	pdf.Text(x-pdf.GetStringWidth(s), y, s)
}

func center(pdf *gofpdf.Fpdf, x, y float64, s string) {
	pdf.Text(x-pdf.GetStringWidth(s)/2, y, s)
}

// renderThermal lays out an 80 mm roll receipt whose height grows with the
// number of lines. The PDF asks the viewer to print on open.
func renderThermal(doc Document) *gofpdf.Fpdf {
	height := 60 + 5*float64(len(doc.Bill.Items)+len(doc.Lines))
	pdf, tr := newPDF(doc, &gofpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "mm",
		Size:           gofpdf.SizeType{Wd: 80, Ht: height},
	})
	pdf.SetJavascript("print(true);")

	y := 10.0
	pdf.SetFont("Helvetica", "B", 12)
	center(pdf, 40, y, tr(doc.Restaurant))
	y += 6

	pdf.SetFont("Helvetica", "", 10)
	pdf.Text(10, y, fmt.Sprintf("Bill #%d", doc.Bill.ID))
	y += 5
	pdf.Text(10, y, "Date: "+doc.IssuedAt.Format("02/01/2006 15:04"))
	y += 4
	pdf.Text(10, y, "Items:")
	y += 5

	for _, item := range doc.Bill.Items {
		q := qty(item)
		pdf.Text(10, y, tr(fmt.Sprintf("%s x %s", q.String(), item.DisplayName())))
		right(pdf, 70, y, doc.money(item.Price.Mul(q)))
		y += 5
	}

	y += 2
	pdf.SetDrawColor(0, 0, 0)
	pdf.Line(10, y, 70, y)
	y += 5

	pdf.Text(10, y, "Total:")
	right(pdf, 70, y, doc.money(doc.Bill.Total))
	y += 6

	for i, l := range doc.Lines {
		pdf.Text(10, y, tr(doc.method(i, l, "Method")+":"))
		right(pdf, 70, y, doc.money(l.Amount))
		y += 5
	}

	y += 4
	pdf.SetFont("Helvetica", "", 9)
	center(pdf, 40, y, "Thank you!")
	return pdf
}

func renderA4(doc Document) *gofpdf.Fpdf {
	pdf, tr := newPDF(doc, &gofpdf.InitType{OrientationStr: "P", UnitStr: "mm", SizeStr: "A4"})

	y := 20.0
	pdf.SetFont("Helvetica", "B", 18)
	center(pdf, 105, y, tr(doc.Restaurant))
	y += 10

	pdf.SetFont("Helvetica", "", 11)
	pdf.Text(20, y, fmt.Sprintf("Invoice #%d", doc.Bill.ID))
	pdf.Text(150, y, "Date: "+doc.IssuedAt.Format("02/01/2006 15:04"))
	y += 10

	pdf.SetFont("Helvetica", "B", 12)
	pdf.Text(20, y, "Items")
	y += 6

	pdf.SetFont("Helvetica", "", 10)
	pdf.Text(20, y, "Item")
	pdf.Text(100, y, "Qty")
	pdf.Text(130, y, "Unit Price")
	pdf.Text(170, y, "Total")
	y += 4
	pdf.SetDrawColor(200, 200, 200)
	pdf.Line(20, y, 190, y)
	y += 6

	for _, item := range doc.Bill.Items {
		q := qty(item)
		pdf.Text(20, y, tr(item.DisplayName()))
		right(pdf, 108, y, q.String())
		right(pdf, 155, y, doc.money(item.Price))
		right(pdf, 190, y, doc.money(item.Price.Mul(q)))
		y += 6
	}

	y += 4
	pdf.Line(20, y, 190, y)
	y += 8

	pdf.SetFont("Helvetica", "B", 11)
	pdf.Text(130, y, "Total:")
	right(pdf, 190, y, doc.money(doc.Bill.Total))
	y += 8

	pdf.SetFont("Helvetica", "B", 12)
	pdf.Text(20, y, "Payments")
	y += 6

	pdf.SetFont("Helvetica", "", 10)
	for i, l := range doc.Lines {
		label := doc.method(i, l, "Payment")
		if l.Reference != "" {
			label += " (#" + l.Reference + ")"
		}
		pdf.Text(30, y, tr(label))
		right(pdf, 190, y, doc.money(l.Amount))
		y += 6
	}

	y += 10
	center(pdf, 105, y, "Thank you for your visit!")
	return pdf
}

// Package receipts renders the payment receipt and the completion
// certificate as standalone PDF documents.
package receipts

import (
	"bytes"
	"fmt"
	"time"

	"github.com/phpdave11/gofpdf"
	"github.com/skip2/go-qrcode"

	"kobetex/models"
)

const letterheadTitle = "KOB LaTeX — Formation & Services Documentaires"

func letterhead(pdf *gofpdf.Fpdf, doctype string) {
	pdf.SetFont("Arial", "B", 18)
	pdf.CellFormat(0, 12, letterheadTitle, "", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "", 11)
	pdf.CellFormat(0, 8, doctype, "B", 1, "C", false, 0, "")
	pdf.Ln(6)
}

// Receipt renders the payment receipt: letterhead, customer block,
// itemized table, a PAID stamp when the order is approved and a
// highlighted access-code block when a code is present.
func Receipt(t models.Transaction) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(20, 20, 20)
	pdf.AddPage()

	letterhead(pdf, fmt.Sprintf("Reçu de paiement — Commande #%d", t.ID))

	pdf.SetFont("Arial", "", 12)
	pdf.MultiCell(0, 8, fmt.Sprintf(
		"Client : %s\nTéléphone : %s\nDate : %s\nPaiement : %s — réf %s\nStatut : %s",
		t.Name, t.Phone, t.Date, t.Method, t.PaymentRef, t.Status,
	), "", "L", false)
	pdf.Ln(4)

	// Itemized table
	pdf.SetFont("Arial", "B", 11)
	pdf.SetFillColor(235, 235, 245)
	pdf.CellFormat(120, 9, "Article", "1", 0, "L", true, 0, "")
	pdf.CellFormat(50, 9, "Prix (FCFA)", "1", 1, "R", true, 0, "")
	pdf.SetFont("Arial", "", 11)
	for _, it := range t.Items {
		pdf.CellFormat(120, 9, it.Name, "1", 0, "L", false, 0, "")
		pdf.CellFormat(50, 9, fmt.Sprintf("%d", it.Price), "1", 1, "R", false, 0, "")
	}
	pdf.SetFont("Arial", "B", 11)
	pdf.CellFormat(120, 9, "Total", "1", 0, "L", false, 0, "")
	pdf.CellFormat(50, 9, fmt.Sprintf("%d", t.Amount), "1", 1, "R", false, 0, "")
	pdf.Ln(8)

	if t.Status == models.StatusApproved {
		paidStamp(pdf)
	}

	if t.Code != "" {
		codeBlock(pdf, t)
	}

	pdf.SetY(-30)
	pdf.SetFont("Arial", "I", 9)
	pdf.CellFormat(0, 10, "Le paiement est vérifié manuellement par notre équipe à partir de la référence SMS.", "T", 0, "C", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// paidStamp draws the rotated green PAID mark.
func paidStamp(pdf *gofpdf.Fpdf) {
	x, y := 150.0, 60.0
	pdf.SetTextColor(0, 140, 60)
	pdf.SetDrawColor(0, 140, 60)
	pdf.SetFont("Arial", "B", 28)
	pdf.TransformBegin()
	pdf.TransformRotate(20, x, y)
	pdf.SetXY(x-25, y-8)
	pdf.CellFormat(50, 16, "PAYÉ", "1", 0, "C", false, 0, "")
	pdf.TransformEnd()
	pdf.SetTextColor(0, 0, 0)
	pdf.SetDrawColor(0, 0, 0)
}

// codeBlock renders the highlighted access code with its QR.
func codeBlock(pdf *gofpdf.Fpdf, t models.Transaction) {
	pdf.SetFillColor(255, 249, 196)
	pdf.SetFont("Arial", "B", 14)
	pdf.CellFormat(110, 14, "Code d'accès : "+t.Code, "1", 0, "C", true, 0, "")

	if t.CodeExpiresAt != 0 {
		expiry := time.UnixMilli(t.CodeExpiresAt).Format("02 Jan 2006 15:04")
		pdf.SetFont("Arial", "I", 9)
		pdf.CellFormat(60, 14, "valable jusqu'au "+expiry, "", 1, "L", false, 0, "")
	} else {
		pdf.Ln(14)
	}

	qrPNG, err := qrcode.Encode(t.Code, qrcode.Medium, 128)
	if err == nil {
		imgOpts := gofpdf.ImageOptions{ImageType: "png"}
		name := fmt.Sprintf("qr-%d", t.ID)
		pdf.RegisterImageOptionsReader(name, imgOpts, bytes.NewReader(qrPNG))
		pdf.ImageOptions(name, 160, pdf.GetY()+4, 30, 30, false, imgOpts, 0, "")
	}
}

// Certificate renders the completion certificate for a delivered
// service order.
func Certificate(t models.Transaction) ([]byte, error) {
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetMargins(25, 25, 25)
	pdf.AddPage()

	letterhead(pdf, "Certificat d'achèvement")

	pdf.Ln(10)
	pdf.SetFont("Arial", "", 14)
	pdf.CellFormat(0, 10, "Ce certificat est décerné à", "", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "B", 24)
	pdf.CellFormat(0, 16, t.Name, "", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "", 13)
	pdf.CellFormat(0, 10, "pour l'achèvement de la prestation liée à la commande", "", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "B", 14)
	pdf.CellFormat(0, 10, fmt.Sprintf("#%d — %s", t.ID, t.Type), "", 1, "C", false, 0, "")

	if t.DeliveredFile != nil {
		pdf.Ln(6)
		pdf.SetFont("Arial", "I", 11)
		pdf.CellFormat(0, 8, "Livré le "+t.DeliveredFile.DeliveredAt.Format("02 Jan 2006"), "", 1, "C", false, 0, "")
	}

	pdf.SetY(-35)
	pdf.SetFont("Arial", "I", 10)
	pdf.CellFormat(0, 10, letterheadTitle, "T", 0, "C", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

package receipts

import (
	"bytes"
	"testing"
	"time"

	"kobetex/models"
)

func sampleTxn() models.Transaction {
	return models.Transaction{
		ID:         42,
		Name:       "Jean Dupont",
		Phone:      "90123456",
		Method:     "flooz",
		PaymentRef: "A1B2C3",
		Amount:     58000,
		Type:       models.OrderFullPackage,
		Status:     models.StatusApproved,
		Date:       "2026-08-28",
		Code:       "KOB-ABCD2345",
		Items: []models.CartItem{
			{Name: "Pack complet", Price: 50000, Type: models.ItemFullPackage},
			{Name: "Pack IA", Price: 8000, Type: models.ItemAIPack},
		},
	}
}

func TestReceiptRendersPDF(t *testing.T) {
	data, err := Receipt(sampleTxn())
	if err != nil {
		t.Fatalf("receipt: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF")) {
		t.Fatal("output is not a PDF")
	}
	if len(data) < 1000 {
		t.Fatalf("suspiciously small PDF: %d bytes", len(data))
	}
}

func TestReceiptWithoutCode(t *testing.T) {
	txn := sampleTxn()
	txn.Status = models.StatusPending
	txn.Code = ""
	txn.CodeExpiresAt = 0

	data, err := Receipt(txn)
	if err != nil {
		t.Fatalf("receipt: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF")) {
		t.Fatal("output is not a PDF")
	}
}

func TestCertificateRendersPDF(t *testing.T) {
	txn := sampleTxn()
	txn.Type = models.OrderService
	txn.DeliveredFile = &models.DeliveredFile{
		Name:        "memoire.pdf",
		URL:         "data:application/pdf;base64,AAAA",
		DeliveredAt: time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC),
	}

	data, err := Certificate(txn)
	if err != nil {
		t.Fatalf("certificate: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF")) {
		t.Fatal("output is not a PDF")
	}
}

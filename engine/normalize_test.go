package engine

import (
	"strings"
	"testing"

	"github.com/Endawoke47/Neo-sub000/model"
)

func TestNormalizeDocument(t *testing.T) {
	raw := "FIRST LINE\r\nsecond line   \r\n\r\n\r\n\r\nthird line\n"
	doc, err := normalizeDocument(model.Document{Content: raw, FileName: "a.txt", MimeType: "text/plain"}, "nigeria", "en")
	if err != nil {
		t.Fatalf("normalizeDocument failed: %v", err)
	}

	want := "FIRST LINE\nsecond line\n\nthird line"
	if doc.Text != want {
		t.Errorf("Expected normalized text %q, got %q", want, doc.Text)
	}
	if doc.Jurisdiction != "NIGERIA" {
		t.Errorf("Expected jurisdiction NIGERIA, got %s", doc.Jurisdiction)
	}
	if doc.Language != "en" {
		t.Errorf("Expected language en, got %s", doc.Language)
	}
	if doc.Length != len(want) {
		t.Errorf("Expected length %d, got %d", len(want), doc.Length)
	}
	if doc.FileName != "a.txt" || doc.MimeType != "text/plain" {
		t.Errorf("Document metadata not carried over: %+v", doc)
	}
}

func TestNormalizeDocumentValidation(t *testing.T) {
	tests := []struct {
		name         string
		content      string
		jurisdiction string
		language     string
		field        string
	}{
		{"empty content", "   ", "NIGERIA", "en", "document.content"},
		{"empty jurisdiction", "contract text", "", "en", "jurisdiction"},
		{"empty language", "contract text", "NIGERIA", " ", "language"},
		{"invalid language", "contract text", "NIGERIA", "english language", "language"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := normalizeDocument(model.Document{Content: tt.content}, tt.jurisdiction, tt.language)
			if err == nil {
				t.Fatal("Expected validation error")
			}
			ve, ok := err.(*ValidationError)
			if !ok {
				t.Fatalf("Expected *ValidationError, got %T", err)
			}
			if ve.Field != tt.field {
				t.Errorf("Expected field %s, got %s", tt.field, ve.Field)
			}
		})
	}
}

func TestInferContractType(t *testing.T) {
	tests := []struct {
		text string
		want string
	}{
		{"This Data Processing Agreement governs the processing of personal data.", model.ContractDataProcessing},
		{"The Employer and the Employee agree as follows.", model.ContractEmployment},
		{"This Non-Disclosure Agreement protects shared information.", model.ContractNDA},
		{"The Landlord leases the premises to the Tenant.", model.ContractLease},
		{"The Buyer agrees to purchase the goods from the Seller.", model.ContractSales},
		{"The Provider will render the services described in Schedule A.", model.ContractServiceAgreement},
		{"The parties agree to cooperate in good faith.", model.ContractOther},
	}

	for _, tt := range tests {
		if got := inferContractType(tt.text); got != tt.want {
			t.Errorf("inferContractType(%q) = %s, want %s", tt.text, got, tt.want)
		}
	}
}

func TestNormalizeDocumentIdempotent(t *testing.T) {
	raw := "A contract.\n\nWith two paragraphs."
	doc, err := normalizeDocument(model.Document{Content: raw}, "EU", "en")
	if err != nil {
		t.Fatalf("normalizeDocument failed: %v", err)
	}
	again, err := normalizeDocument(model.Document{Content: doc.Text}, "EU", "en")
	if err != nil {
		t.Fatalf("second normalizeDocument failed: %v", err)
	}
	if again.Text != doc.Text {
		t.Errorf("Normalization not idempotent: %q vs %q", doc.Text, again.Text)
	}
	if strings.Contains(doc.Text, "\r") {
		t.Error("Normalized text still contains carriage returns")
	}
}

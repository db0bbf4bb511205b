package engine

import (
	"regexp"
	"strings"

	"golang.org/x/text/language"

	"github.com/Endawoke47/Neo-sub000/model"
)

var (
	crlfRE     = regexp.MustCompile(`\r\n?`)
	blankRunRE = regexp.MustCompile(`\n{3,}`)
	trailingWS = regexp.MustCompile(`[ \t]+\n`)
)

// normalizeDocument validates the raw input and produces the immutable
// NormalizedDocument every downstream span refers to. Deterministic, no
// side effects.
func normalizeDocument(doc model.Document, jurisdiction, lang string) (*model.NormalizedDocument, error) {
	if strings.TrimSpace(doc.Content) == "" {
		return nil, &ValidationError{Field: "document.content", Reason: "document is empty"}
	}
	if strings.TrimSpace(jurisdiction) == "" {
		return nil, &ValidationError{Field: "jurisdiction", Reason: "jurisdiction is required"}
	}
	if strings.TrimSpace(lang) == "" {
		return nil, &ValidationError{Field: "language", Reason: "language is required"}
	}

	tag, err := language.Parse(lang)
	if err != nil {
		return nil, &ValidationError{Field: "language", Reason: "unrecognized language tag"}
	}

	text := crlfRE.ReplaceAllString(doc.Content, "\n")
	text = trailingWS.ReplaceAllString(text, "\n")
	text = blankRunRE.ReplaceAllString(text, "\n\n")
	text = strings.TrimSpace(text)

	return &model.NormalizedDocument{
		Text:         text,
		Language:     tag.String(),
		Jurisdiction: strings.ToUpper(strings.TrimSpace(jurisdiction)),
		FileName:     doc.FileName,
		MimeType:     doc.MimeType,
		Length:       len(text),
	}, nil
}

// inferContractType guesses the contract type from the document text when
// the request leaves it unset.
func inferContractType(text string) string {
	lower := strings.ToLower(text)
	switch {
	case strings.Contains(lower, "data processing agreement") || strings.Contains(lower, "data processor"):
		return model.ContractDataProcessing
	case strings.Contains(lower, "employment") || strings.Contains(lower, "employee") || strings.Contains(lower, "employer"):
		return model.ContractEmployment
	case strings.Contains(lower, "non-disclosure agreement") || strings.Contains(lower, "nondisclosure agreement") || strings.Contains(lower, "confidentiality agreement"):
		return model.ContractNDA
	case strings.Contains(lower, "lease") || strings.Contains(lower, "landlord"):
		return model.ContractLease
	case strings.Contains(lower, "purchase") && (strings.Contains(lower, "buyer") || strings.Contains(lower, "seller") || strings.Contains(lower, "goods")):
		return model.ContractSales
	case strings.Contains(lower, "services"):
		return model.ContractServiceAgreement
	}
	return model.ContractOther
}

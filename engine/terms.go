package engine

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/Endawoke47/Neo-sub000/model"
)

var (
	amountSymbolRE = regexp.MustCompile(`[₦$€£¥]\s?\d[\d,]*(?:\.\d+)?`)
	amountCodeRE   = regexp.MustCompile(`\b(USD|EUR|GBP|NGN|JPY|CAD|AUD|CHF)\s?\d[\d,]*(?:\.\d+)?`)

	dateRE = regexp.MustCompile(`\b(?:` +
		`(?:January|February|March|April|May|June|July|August|September|October|November|December)\s+\d{1,2},?\s+\d{4}` +
		`|\d{1,2}(?:st|nd|rd|th)?\s+(?:January|February|March|April|May|June|July|August|September|October|November|December)\s+\d{4}` +
		`|\d{4}-\d{2}-\d{2}` +
		`|\d{1,2}/\d{1,2}/\d{2,4}` +
		`)\b`)

	partyOrgRE   = regexp.MustCompile(`\b[A-Z][A-Za-z&.' -]{1,60}?\s(?:Corporation|Corp\.?|Incorporated|Inc\.?|LLC|L\.L\.C\.|Ltd\.?|Limited|Company|GmbH|Plc|PLC)\b`)
	partyQuoteRE = regexp.MustCompile(`\((?:the\s+|hereinafter\s+)?[“"]([A-Z][A-Za-z ]{1,30})[”"]\)`)

	sentenceRE = regexp.MustCompile(`[^.!?\n]+[.!?]?`)

	obligationRE = regexp.MustCompile(`(?i)\b(shall|must|agrees to|is required to|undertakes)\b`)
	rightRE      = regexp.MustCompile(`(?i)\b(may|is entitled to|reserves the right|shall have the right)\b`)
	conditionRE  = regexp.MustCompile(`(?i)\b(subject to|provided that|in the event|conditional upon|contingent on)\b`)
	penaltyRE    = regexp.MustCompile(`(?i)\b(penalty|liquidated damages|late fee|forfeit|default interest)\b`)
	deadlineRE   = regexp.MustCompile(`(?i)\bwithin\s+\d+\s+(?:calendar\s+|business\s+)?(?:day|hour|week|month)s?\b|\bno later than\b[^.\n]{0,60}`)
)

var currencySymbols = map[string]string{
	"₦": "NGN",
	"$": "USD",
	"€": "EUR",
	"£": "GBP",
	"¥": "JPY",
}

// extractTerms scans the full normalized text with per-category extractors
// gated by the request's extraction options. Extraction is additive:
// overlapping spans from different categories are all kept. BASIC depth
// runs only the entity-level extractors (parties, dates, amounts).
func extractTerms(doc *model.NormalizedDocument, opts model.ExtractionOptions, depth model.AnalysisDepth) []model.ExtractedTerm {
	var terms []model.ExtractedTerm
	text := doc.Text

	if opts.ExtractParties || opts.ExtractEntities {
		terms = append(terms, extractParties(text)...)
	}
	if opts.ExtractDates {
		terms = append(terms, matchCategory(text, dateRE, model.TermDate, 0.85)...)
	}
	if opts.ExtractAmounts {
		terms = append(terms, extractAmounts(text)...)
	}

	if depth == model.DepthBasic {
		return terms
	}

	if opts.ExtractObligations {
		terms = append(terms, matchSentences(text, obligationRE, model.TermObligation, 0.7)...)
	}
	if opts.ExtractRights {
		terms = append(terms, matchSentences(text, rightRE, model.TermRight, 0.65)...)
	}
	if opts.ExtractConditions {
		terms = append(terms, matchSentences(text, conditionRE, model.TermCondition, 0.6)...)
	}
	if opts.ExtractPenalties {
		terms = append(terms, matchSentences(text, penaltyRE, model.TermPenalty, 0.7)...)
	}
	if opts.ExtractDeadlines {
		terms = append(terms, matchCategory(text, deadlineRE, model.TermDeadline, 0.75)...)
	}

	return terms
}

// extractAmounts recognizes monetary amounts and attaches an ISO currency
// code derived from the symbol or code, not just the literal substring.
func extractAmounts(text string) []model.ExtractedTerm {
	var terms []model.ExtractedTerm

	for _, loc := range amountSymbolRE.FindAllStringIndex(text, -1) {
		value := text[loc[0]:loc[1]]
		currency := ""
		for sym, code := range currencySymbols {
			if strings.HasPrefix(value, sym) {
				currency = code
				break
			}
		}
		terms = append(terms, model.ExtractedTerm{
			Category:   model.TermAmount,
			Value:      value,
			Currency:   currency,
			Span:       model.Span{Start: loc[0], End: loc[1]},
			Confidence: 0.9,
		})
	}

	for _, loc := range amountCodeRE.FindAllStringIndex(text, -1) {
		value := text[loc[0]:loc[1]]
		terms = append(terms, model.ExtractedTerm{
			Category:   model.TermAmount,
			Value:      value,
			Currency:   value[:3],
			Span:       model.Span{Start: loc[0], End: loc[1]},
			Confidence: 0.9,
		})
	}

	return terms
}

func extractParties(text string) []model.ExtractedTerm {
	terms := matchCategory(text, partyOrgRE, model.TermParty, 0.8)

	for _, loc := range partyQuoteRE.FindAllStringSubmatchIndex(text, -1) {
		// Capture group 1 holds the defined name.
		terms = append(terms, model.ExtractedTerm{
			Category:   model.TermParty,
			Value:      text[loc[2]:loc[3]],
			Span:       model.Span{Start: loc[2], End: loc[3]},
			Confidence: 0.75,
		})
	}
	return terms
}

func matchCategory(text string, re *regexp.Regexp, cat model.TermCategory, confidence float64) []model.ExtractedTerm {
	var terms []model.ExtractedTerm
	for _, loc := range re.FindAllStringIndex(text, -1) {
		terms = append(terms, model.ExtractedTerm{
			Category:   cat,
			Value:      strings.TrimSpace(text[loc[0]:loc[1]]),
			Span:       model.Span{Start: loc[0], End: loc[1]},
			Confidence: confidence,
		})
	}
	return terms
}

// matchSentences emits one term per sentence containing a category cue.
// The value is the sentence itself, truncated for very long run-ons.
func matchSentences(text string, re *regexp.Regexp, cat model.TermCategory, confidence float64) []model.ExtractedTerm {
	var terms []model.ExtractedTerm
	for _, loc := range sentenceRE.FindAllStringIndex(text, -1) {
		sentence := text[loc[0]:loc[1]]
		if !re.MatchString(sentence) {
			continue
		}
		value := strings.TrimSpace(sentence)
		if len(value) > 240 {
			cut := 240
			// Back up to a rune start so the cut never splits a multi-byte
			// character.
			for cut > 0 && !utf8.RuneStart(value[cut]) {
				cut--
			}
			value = value[:cut]
		}
		terms = append(terms, model.ExtractedTerm{
			Category:   cat,
			Value:      value,
			Span:       model.Span{Start: loc[0], End: loc[1]},
			Confidence: confidence,
		})
	}
	return terms
}

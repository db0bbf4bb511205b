package engine

import (
	"regexp"
	"sort"
	"strings"

	"github.com/Endawoke47/Neo-sub000/model"
	"github.com/Endawoke47/Neo-sub000/rules"
)

// headingRE marks the start of a new numbered or titled section.
var headingRE = regexp.MustCompile(`(?m)^\s*(?:\d+[\.\)]\s|\(\d+\)\s|Section\s+\d+|ARTICLE\s+[IVXLC\d]+|Clause\s+\d+)`)

type clauseKeyword struct {
	text   string
	weight float64
}

// Keyword anchors per clause type. The strongest match labels the segment;
// extra matches nudge confidence up. Ties are broken by model.ClausePriority.
var clauseKeywords = map[model.ClauseType][]clauseKeyword{
	model.ClauseConfidentiality: {
		{"confidential", 0.85}, {"non-disclosure", 0.9}, {"nondisclosure", 0.9},
		{"proprietary information", 0.75}, {"trade secret", 0.75},
	},
	model.ClauseLiability: {
		{"liability", 0.85}, {"liable", 0.7}, {"indemnif", 0.8},
		{"hold harmless", 0.8}, {"damages", 0.55},
	},
	model.ClauseIntellectualProp: {
		{"intellectual property", 0.9}, {"copyright", 0.7}, {"patent", 0.7},
		{"trademark", 0.7}, {"work product", 0.65},
	},
	model.ClauseTermination: {
		{"terminat", 0.85}, {"expiration", 0.6}, {"expiry", 0.6},
	},
	model.ClausePayment: {
		{"payment", 0.8}, {"salary", 0.8}, {"remuneration", 0.8},
		{"invoice", 0.7}, {"fees", 0.65}, {"compensation of", 0.7}, {"price", 0.55},
	},
	model.ClauseDisputeResolution: {
		{"dispute", 0.8}, {"arbitration", 0.85}, {"mediation", 0.8},
		{"governing law", 0.75}, {"jurisdiction of the courts", 0.8},
	},
	model.ClauseCompliance: {
		{"comply with", 0.7}, {"compliance", 0.75}, {"applicable law", 0.6},
		{"data protection", 0.75}, {"regulation", 0.6},
	},
	model.ClauseForceMajeure: {
		{"force majeure", 0.95}, {"act of god", 0.85}, {"beyond the reasonable control", 0.8},
	},
}

// segmentDocument splits the normalized text into ordered, labeled clause
// spans. Segments come from blank-line breaks and numbered headings; each
// segment gets exactly one primary clause type.
func segmentDocument(doc *model.NormalizedDocument) []model.ExtractedClause {
	var clauses []model.ExtractedClause
	for _, span := range splitSegments(doc.Text) {
		text := doc.Text[span.Start:span.End]
		trimmed := strings.TrimSpace(text)
		if trimmed == "" {
			continue
		}
		ctype, confidence := classifySegment(trimmed)
		clauses = append(clauses, model.ExtractedClause{
			Type:       ctype,
			Span:       span,
			Text:       trimmed,
			Confidence: confidence,
		})
	}
	return clauses
}

// splitSegments returns ordered spans over text, cut at blank lines and at
// heading starts.
func splitSegments(text string) []model.Span {
	// Cut points: every blank-line boundary plus every heading start.
	cuts := map[int]bool{0: true}
	for i := 0; i < len(text)-1; i++ {
		if text[i] == '\n' && text[i+1] == '\n' {
			cuts[i+2] = true
		}
	}
	for _, loc := range headingRE.FindAllStringIndex(text, -1) {
		cuts[loc[0]] = true
	}

	points := make([]int, 0, len(cuts))
	for p := range cuts {
		if p < len(text) {
			points = append(points, p)
		}
	}
	sort.Ints(points)

	var spans []model.Span
	for i, start := range points {
		end := len(text)
		if i+1 < len(points) {
			end = points[i+1]
		}
		if strings.TrimSpace(text[start:end]) == "" {
			continue
		}
		spans = append(spans, model.Span{Start: start, End: end})
	}
	return spans
}

// classifySegment picks the primary clause type by highest-confidence
// keyword match, ties broken by the fixed priority order.
func classifySegment(text string) (model.ClauseType, float64) {
	lower := strings.ToLower(text)

	best := model.ClauseOther
	bestScore := 0.0
	for _, ctype := range model.ClausePriority {
		kws, ok := clauseKeywords[ctype]
		if !ok {
			continue
		}
		score := 0.0
		hits := 0
		for _, kw := range kws {
			if strings.Contains(lower, kw.text) {
				hits++
				if kw.weight > score {
					score = kw.weight
				}
			}
		}
		if hits > 1 {
			score += 0.05 * float64(hits-1)
		}
		if score > 0.99 {
			score = 0.99
		}
		// Strict > keeps the earliest-priority type on ties.
		if score > bestScore {
			best = ctype
			bestScore = score
		}
	}

	if best == model.ClauseOther {
		return model.ClauseOther, 0.3
	}
	return best, bestScore
}

// findMissingClauses reports expected-but-absent clause types for the
// contract type under analysis.
func findMissingClauses(set *rules.Set, contractType string, clauses []model.ExtractedClause) []model.MissingClause {
	present := make(map[model.ClauseType]bool, len(clauses))
	for _, c := range clauses {
		present[c.Type] = true
	}

	var missing []model.MissingClause
	for _, expected := range set.ExpectedFor(contractType) {
		if !present[expected] {
			missing = append(missing, model.MissingClause{
				Type: expected,
				Note: "expected for contract type " + strings.ToUpper(contractType),
			})
		}
	}
	return missing
}

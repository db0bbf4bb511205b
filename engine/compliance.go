package engine

import (
	"strings"

	"github.com/Endawoke47/Neo-sub000/model"
	"github.com/Endawoke47/Neo-sub000/rules"
)

// elementRadius bounds how far from its trigger keyword a required element
// may appear and still count as evidence.
const elementRadius = 300

// checkCompliance evaluates each requested standard's requirement checklist
// against the document. A requirement resolves SATISFIED on direct keyword
// evidence, PARTIAL when only related language is present or a required
// element (such as a concrete time window) is missing, MISSING otherwise.
// Each keyword hit is resolved back to the clauses and extracted terms
// covering it, so results cite where the evidence lives.
func checkCompliance(set *rules.Set, doc *model.NormalizedDocument, clauses []model.ExtractedClause, terms []model.ExtractedTerm, standardIDs []string) []model.ComplianceCheck {
	lower := strings.ToLower(doc.Text)

	checks := make([]model.ComplianceCheck, 0, len(standardIDs))
	for _, id := range standardIDs {
		std, ok := set.Standard(id)
		if !ok {
			continue // unknown standards are rejected during request validation
		}

		results := make([]model.RequirementResult, 0, len(std.Requirements))
		score := 0.0
		for i := range std.Requirements {
			res := checkRequirement(&std.Requirements[i], doc.Text, lower, clauses, terms)
			switch res.Status {
			case model.StatusSatisfied:
				score += 1
			case model.StatusPartial:
				score += 0.5
			}
			results = append(results, res)
		}

		pct := 0.0
		if len(results) > 0 {
			pct = score / float64(len(results)) * 100
		}
		checks = append(checks, model.ComplianceCheck{
			Standard:     std.ID,
			Jurisdiction: doc.Jurisdiction,
			Requirements: results,
			Percentage:   pct,
		})
	}
	return checks
}

func checkRequirement(req *rules.Requirement, text, lower string, clauses []model.ExtractedClause, terms []model.ExtractedTerm) model.RequirementResult {
	result := model.RequirementResult{ID: req.ID, Name: req.Name}

	for _, kw := range req.Keywords {
		idx := strings.Index(lower, strings.ToLower(kw))
		if idx < 0 {
			continue
		}

		result.Evidence = kw
		result.ClauseRefs = clausesContaining(clauses, idx, idx+len(kw))
		result.TermRefs = termsOverlapping(terms, idx, idx+len(kw))
		if re := req.Element(); re != nil {
			winStart := idx - elementRadius
			if winStart < 0 {
				winStart = 0
			}
			loc := re.FindStringIndex(windowAround(text, idx, elementRadius))
			if loc == nil {
				result.Status = model.StatusPartial
				result.Note = req.ElementNote
				return result
			}
			result.TermRefs = mergeRefs(result.TermRefs,
				termsOverlapping(terms, winStart+loc[0], winStart+loc[1]))
		}
		result.Status = model.StatusSatisfied
		return result
	}

	for _, kw := range req.Related {
		idx := strings.Index(lower, strings.ToLower(kw))
		if idx < 0 {
			continue
		}
		result.Status = model.StatusPartial
		result.Evidence = kw
		result.ClauseRefs = clausesContaining(clauses, idx, idx+len(kw))
		result.Note = "related language found; requirement not addressed directly"
		return result
	}

	result.Status = model.StatusMissing
	result.Note = "no clause addresses this requirement"
	return result
}

// windowAround returns the text surrounding position idx, so a required
// element is only counted when it appears near its trigger keyword.
func windowAround(text string, idx, radius int) string {
	start := idx - radius
	if start < 0 {
		start = 0
	}
	end := idx + radius
	if end > len(text) {
		end = len(text)
	}
	return text[start:end]
}

func termsOverlapping(terms []model.ExtractedTerm, start, end int) []int {
	var refs []int
	for i, t := range terms {
		if start < t.Span.End && end > t.Span.Start {
			refs = append(refs, i)
		}
	}
	return refs
}

func mergeRefs(a, b []int) []int {
	seen := make(map[int]bool, len(a))
	for _, i := range a {
		seen[i] = true
	}
	for _, i := range b {
		if !seen[i] {
			seen[i] = true
			a = append(a, i)
		}
	}
	return a
}

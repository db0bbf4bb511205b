package engine

import (
	"sort"
	"strings"

	"github.com/Endawoke47/Neo-sub000/model"
	"github.com/Endawoke47/Neo-sub000/rules"
)

// evaluateRisks runs every applicable rule for the jurisdiction and contract
// type against the document. Detection is threshold-independent; the caller
// filters the reported set afterwards so scoring sees every match.
func evaluateRisks(set *rules.Set, doc *model.NormalizedDocument, clauses []model.ExtractedClause, terms []model.ExtractedTerm, contractType string, depth model.AnalysisDepth) []model.IdentifiedRisk {
	categories := make(map[string]bool)
	for _, c := range set.CategoriesForDepth(depth) {
		categories[c] = true
	}
	present := make(map[model.TermCategory]bool)
	for _, t := range terms {
		present[t.Category] = true
	}

	var risks []model.IdentifiedRisk
	for i := range set.RiskRules {
		rule := &set.RiskRules[i]
		if !categories[rule.Category] {
			continue
		}
		if !rule.AppliesTo(doc.Jurisdiction, contractType) {
			continue
		}
		if !rule.AppliesToTerms(present) {
			continue
		}

		switch {
		case rule.Kind == "conflict":
			if risk, ok := evaluateConflictRule(rule, doc); ok {
				risks = append(risks, risk)
			}
		case rule.Absence() != nil:
			if risk, ok := evaluateAbsenceRule(rule, doc); ok {
				risks = append(risks, risk)
			}
		default:
			risks = append(risks, evaluatePatternRule(rule, doc, clauses)...)
		}
	}
	return risks
}

// evaluatePatternRule emits one risk per distinct pattern match, with
// references to the clauses containing the match.
func evaluatePatternRule(rule *rules.RiskRule, doc *model.NormalizedDocument, clauses []model.ExtractedClause) []model.IdentifiedRisk {
	seen := make(map[int]bool)
	var risks []model.IdentifiedRisk

	for _, re := range rule.Matchers() {
		for _, loc := range re.FindAllStringIndex(doc.Text, -1) {
			if seen[loc[0]] {
				continue
			}
			seen[loc[0]] = true

			refs := clausesContaining(clauses, loc[0], loc[1])
			if len(rule.ClauseTypes) > 0 && !refsMatchTypes(rule, clauses, refs) {
				continue
			}
			risks = append(risks, model.IdentifiedRisk{
				RuleID:      rule.ID,
				Severity:    rule.Severity,
				Category:    rule.Category,
				Description: rule.Description,
				ClauseRefs:  refs,
			})
		}
	}
	return risks
}

// evaluateConflictRule fires when the capture group of a cross-clause rule
// takes more than one distinct value across the document.
func evaluateConflictRule(rule *rules.RiskRule, doc *model.NormalizedDocument) (model.IdentifiedRisk, bool) {
	values := make(map[string]bool)
	for _, re := range rule.Matchers() {
		for _, m := range re.FindAllStringSubmatch(doc.Text, -1) {
			if len(m) > 1 {
				values[strings.ToLower(strings.TrimSpace(m[1]))] = true
			}
		}
	}
	if len(values) < 2 {
		return model.IdentifiedRisk{}, false
	}

	names := make([]string, 0, len(values))
	for v := range values {
		names = append(names, v)
	}
	sort.Strings(names)

	return model.IdentifiedRisk{
		RuleID:      rule.ID,
		Severity:    rule.Severity,
		Category:    rule.Category,
		Description: rule.Description + " (" + strings.Join(names, " vs ") + ")",
	}, true
}

// evaluateAbsenceRule fires when the trigger pattern matches but the
// required companion language is absent from the whole document.
func evaluateAbsenceRule(rule *rules.RiskRule, doc *model.NormalizedDocument) (model.IdentifiedRisk, bool) {
	matched := false
	for _, re := range rule.Matchers() {
		if re.MatchString(doc.Text) {
			matched = true
			break
		}
	}
	if !matched || rule.Absence().MatchString(doc.Text) {
		return model.IdentifiedRisk{}, false
	}
	return model.IdentifiedRisk{
		RuleID:      rule.ID,
		Severity:    rule.Severity,
		Category:    rule.Category,
		Description: rule.Description,
	}, true
}

// filterByThreshold drops risks below the severity floor. Detection has
// already happened; this only shapes the reported set.
func filterByThreshold(risks []model.IdentifiedRisk, threshold model.Severity) []model.IdentifiedRisk {
	floor := threshold.Rank()
	filtered := make([]model.IdentifiedRisk, 0, len(risks))
	for _, r := range risks {
		if r.Severity.Rank() >= floor {
			filtered = append(filtered, r)
		}
	}
	return filtered
}

func clausesContaining(clauses []model.ExtractedClause, start, end int) []int {
	var refs []int
	for i, c := range clauses {
		if start < c.Span.End && end > c.Span.Start {
			refs = append(refs, i)
		}
	}
	return refs
}

func refsMatchTypes(rule *rules.RiskRule, clauses []model.ExtractedClause, refs []int) bool {
	for _, i := range refs {
		if rule.MatchesClauseType(clauses[i].Type) {
			return true
		}
	}
	return false
}

package engine

import (
	"github.com/Endawoke47/Neo-sub000/model"
	"github.com/Endawoke47/Neo-sub000/rules"
)

// computeScore aggregates the unfiltered risk set, compliance percentages,
// extraction completeness and classification clarity into a bounded overall
// score with a per-dimension breakdown and a jurisdiction benchmark delta.
func computeScore(set *rules.Set, doc *model.NormalizedDocument, contractType string,
	risks []model.IdentifiedRisk, flags []model.RedFlag, checks []model.ComplianceCheck,
	clauses []model.ExtractedClause, missing []model.MissingClause) model.ContractScore {

	cfg := &set.Score

	// Risk dimension: weighted severity penalty (capped) plus an
	// unconditional penalty for every red flag.
	penalty := 0.0
	for _, r := range risks {
		penalty += cfg.SeverityPenalties[r.Severity]
	}
	if penalty > cfg.RiskPenaltyCap {
		penalty = cfg.RiskPenaltyCap
	}
	penalty += cfg.RedFlagPenalty * float64(len(flags))
	riskDim := clamp(100-penalty, 0, 100)

	// Compliance dimension: average across requested standards, 100 when
	// none were requested.
	complianceDim := 100.0
	if len(checks) > 0 {
		sum := 0.0
		for _, c := range checks {
			sum += c.Percentage
		}
		complianceDim = sum / float64(len(checks))
	}

	// Completeness: share of expected clause types present, reduced by each
	// missing-clause finding.
	expected := set.ExpectedFor(contractType)
	completenessDim := 100.0
	if len(expected) > 0 {
		present := make(map[model.ClauseType]bool, len(clauses))
		for _, c := range clauses {
			present[c.Type] = true
		}
		found := 0
		for _, e := range expected {
			if present[e] {
				found++
			}
		}
		completenessDim = float64(found) / float64(len(expected)) * 100
	}
	completenessDim = clamp(completenessDim-cfg.MissingClausePenalty*float64(len(missing))*0.5, 0, 100)

	// Clarity: how confidently the segmenter labeled the document.
	clarityDim := 50.0
	if len(clauses) > 0 {
		confSum := 0.0
		classified := 0
		for _, c := range clauses {
			confSum += c.Confidence
			if c.Type != model.ClauseOther {
				classified++
			}
		}
		avgConf := confSum / float64(len(clauses))
		classifiedRatio := float64(classified) / float64(len(clauses))
		clarityDim = clamp((0.5*avgConf+0.5*classifiedRatio)*100, 0, 100)
	}

	w := cfg.Weights
	overall := clamp(
		w.Risk*riskDim+w.Compliance*complianceDim+w.Completeness*completenessDim+w.Clarity*clarityDim,
		0, 100)

	baseline := set.Baseline(doc.Jurisdiction)
	return model.ContractScore{
		Overall: overall,
		Breakdown: model.ScoreBreakdown{
			Risk:         riskDim,
			Compliance:   complianceDim,
			Completeness: completenessDim,
			Clarity:      clarityDim,
		},
		Benchmark: model.Benchmark{
			Jurisdiction: doc.Jurisdiction,
			Baseline:     baseline,
			Delta:        overall - baseline,
		},
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

package engine

import (
	"fmt"

	"github.com/Endawoke47/Neo-sub000/model"
	"github.com/Endawoke47/Neo-sub000/rules"
)

// buildRecommendations maps HIGH/CRITICAL risks and MISSING/PARTIAL
// compliance requirements to actionable suggestions. Called only when the
// request sets includeRecommendations.
func buildRecommendations(set *rules.Set, risks []model.IdentifiedRisk, checks []model.ComplianceCheck) []model.Recommendation {
	var recs []model.Recommendation

	for _, r := range risks {
		if r.Severity != model.SeverityHigh && r.Severity != model.SeverityCritical {
			continue
		}
		tpl, ok := set.Recommendations.Risk[r.Category]
		if !ok {
			tpl = set.Recommendations.Risk["default"]
		}
		priority := model.PriorityHigh
		if r.Severity == model.SeverityCritical {
			priority = model.PriorityUrgent
		}
		recs = append(recs, model.Recommendation{
			Priority:    priority,
			Title:       tpl.Title,
			Description: tpl.Description,
			Impact:      tpl.Impact,
			RelatedIDs:  []string{r.RuleID},
		})
	}

	tpl := set.Recommendations.Compliance
	for _, check := range checks {
		for _, req := range check.Requirements {
			if req.Status == model.StatusSatisfied {
				continue
			}
			priority := model.PriorityMedium
			if req.Status == model.StatusMissing {
				priority = model.PriorityHigh
			}
			recs = append(recs, model.Recommendation{
				Priority:    priority,
				Title:       fmt.Sprintf(tpl.Title, req.Name),
				Description: fmt.Sprintf(tpl.Description, req.Name, check.Standard),
				Impact:      tpl.Impact,
				RelatedIDs:  []string{req.ID},
			})
		}
	}

	return recs
}

package engine

import (
	"github.com/Endawoke47/Neo-sub000/model"
	"github.com/Endawoke47/Neo-sub000/rules"
)

// detectRedFlags runs the fixed, jurisdiction-independent pattern table over
// the document. Matches are surfaced unconditionally: the risk threshold
// never filters them.
func detectRedFlags(set *rules.Set, doc *model.NormalizedDocument, clauses []model.ExtractedClause) []model.RedFlag {
	var flags []model.RedFlag
	for i := range set.RedFlags {
		rf := &set.RedFlags[i]
		loc := rf.Matcher().FindStringIndex(doc.Text)
		if loc == nil {
			continue
		}

		clauseRef := -1
		if refs := clausesContaining(clauses, loc[0], loc[1]); len(refs) > 0 {
			clauseRef = refs[0]
		}
		flags = append(flags, model.RedFlag{
			Title:       rf.Title,
			Description: rf.Description,
			Severity:    rf.Severity,
			ClauseRef:   clauseRef,
		})
	}
	return flags
}

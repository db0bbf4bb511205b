package model

import "time"

// Span is a half-open [Start, End) byte range into the normalized document.
type Span struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// NormalizedDocument is the immutable, cleaned-up input every downstream
// stage reads. Offsets in all spans refer to Text.
type NormalizedDocument struct {
	Text         string `json:"-"`
	Language     string `json:"language"`
	Jurisdiction string `json:"jurisdiction"`
	FileName     string `json:"fileName,omitempty"`
	MimeType     string `json:"mimeType,omitempty"`
	Length       int    `json:"length"`
}

// ExtractedClause is one labeled clause span.
type ExtractedClause struct {
	Type       ClauseType `json:"type"`
	Span       Span       `json:"span"`
	Text       string     `json:"text"`
	Confidence float64    `json:"confidence"`
}

// MissingClause reports an expected-but-absent clause type for the
// contract type under analysis.
type MissingClause struct {
	Type ClauseType `json:"type"`
	Note string     `json:"note"`
}

// ExtractedTerm is one structured entity. Currency is set for amounts only,
// derived from symbol or ISO-code recognition.
type ExtractedTerm struct {
	Category   TermCategory `json:"category"`
	Value      string       `json:"value"`
	Currency   string       `json:"currency,omitempty"`
	Span       Span         `json:"span"`
	Confidence float64      `json:"confidence"`
}

// IdentifiedRisk is one matched risk rule instance.
type IdentifiedRisk struct {
	RuleID      string   `json:"ruleId"`
	Severity    Severity `json:"severity"`
	Category    string   `json:"category"`
	Description string   `json:"description"`
	ClauseRefs  []int    `json:"clauseRefs,omitempty"` // indexes into Clauses
}

// RequirementResult resolves one checklist requirement of a standard.
type RequirementResult struct {
	ID         string           `json:"id"`
	Name       string           `json:"name"`
	Status     ComplianceStatus `json:"status"`
	Evidence   string           `json:"evidence,omitempty"`
	ClauseRefs []int            `json:"clauseRefs,omitempty"` // indexes into Clauses
	TermRefs   []int            `json:"termRefs,omitempty"`   // indexes into Terms
	Note       string           `json:"note,omitempty"`
}

// ComplianceCheck is the evaluation of one requested standard.
type ComplianceCheck struct {
	Standard     string              `json:"standard"`
	Jurisdiction string              `json:"jurisdiction"`
	Requirements []RequirementResult `json:"requirements"`
	Percentage   float64             `json:"percentage"`
}

// RedFlag is an unconditionally-surfaced dangerous-clause match.
type RedFlag struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Severity    Severity `json:"severity"`
	ClauseRef   int      `json:"clauseRef"` // index into Clauses, -1 if none
}

// ScoreBreakdown holds the per-dimension scores, each in [0,100].
type ScoreBreakdown struct {
	Risk         float64 `json:"risk"`
	Compliance   float64 `json:"compliance"`
	Completeness float64 `json:"completeness"`
	Clarity      float64 `json:"clarity"`
}

// Benchmark positions the overall score against a fixed per-jurisdiction
// baseline.
type Benchmark struct {
	Jurisdiction string  `json:"jurisdiction"`
	Baseline     float64 `json:"baseline"`
	Delta        float64 `json:"delta"`
}

// ContractScore is the aggregate assessment.
type ContractScore struct {
	Overall   float64        `json:"overall"`
	Breakdown ScoreBreakdown `json:"breakdown"`
	Benchmark Benchmark      `json:"benchmark"`
}

// Recommendation is one actionable suggestion tied to a risk or
// compliance gap.
type Recommendation struct {
	Priority    string   `json:"priority"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Impact      string   `json:"impact"`
	RelatedIDs  []string `json:"relatedIds,omitempty"`
}

// Summary describes the run itself.
type Summary struct {
	ExecutionTimeMS int64    `json:"executionTime"`
	ConfidenceLevel float64  `json:"confidenceLevel"`
	StagesExecuted  []string `json:"stagesExecuted"`
	Warnings        []string `json:"warnings,omitempty"`
}

// AnalysisResult is the complete output of one pipeline run.
type AnalysisResult struct {
	ID               string             `json:"id"`
	Tenant           string             `json:"tenant,omitempty"`
	ContractType     string             `json:"contractType"`
	Document         NormalizedDocument `json:"document"`
	Clauses          []ExtractedClause  `json:"clauses"`
	MissingClauses   []MissingClause    `json:"missingClauses,omitempty"`
	Terms            []ExtractedTerm    `json:"terms"`
	Risks            []IdentifiedRisk   `json:"identifiedRisks"`
	ComplianceChecks []ComplianceCheck  `json:"complianceChecks"`
	RedFlags         []RedFlag          `json:"redFlags"`
	Score            ContractScore      `json:"score"`
	Recommendations  []Recommendation   `json:"recommendations,omitempty"`
	Summary          Summary            `json:"summary"`
	CreatedAt        time.Time          `json:"created_at"`
}

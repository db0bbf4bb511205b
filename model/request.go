package model

// Document is the raw input handed to the pipeline.
type Document struct {
	Content  string `json:"content"`
	FileName string `json:"fileName"`
	MimeType string `json:"mimeType"`
}

// ExtractionOptions gates the per-category term extractors.
type ExtractionOptions struct {
	ExtractEntities        bool `json:"extractEntities"`
	ExtractDates           bool `json:"extractDates"`
	ExtractAmounts         bool `json:"extractAmounts"`
	ExtractParties         bool `json:"extractParties"`
	ExtractObligations     bool `json:"extractObligations"`
	ExtractRights          bool `json:"extractRights"`
	ExtractConditions      bool `json:"extractConditions"`
	ExtractPenalties       bool `json:"extractPenalties"`
	ExtractDeadlines       bool `json:"extractDeadlines"`
	IdentifyMissingClauses bool `json:"identifyMissingClauses"`
}

// DefaultExtractionOptions enables every extractor.
func DefaultExtractionOptions() ExtractionOptions {
	return ExtractionOptions{
		ExtractEntities:        true,
		ExtractDates:           true,
		ExtractAmounts:         true,
		ExtractParties:         true,
		ExtractObligations:     true,
		ExtractRights:          true,
		ExtractConditions:      true,
		ExtractPenalties:       true,
		ExtractDeadlines:       true,
		IdentifyMissingClauses: true,
	}
}

// AnalysisRequest is the full input contract for one pipeline run.
type AnalysisRequest struct {
	Document               Document          `json:"document"`
	AnalysisTypes          []AnalysisType    `json:"analysisTypes"`
	Jurisdiction           string            `json:"jurisdiction"`
	Language               string            `json:"language"`
	ContractType           string            `json:"contractType,omitempty"`
	ComplianceStandards    []string          `json:"complianceStandards,omitempty"`
	RiskThreshold          Severity          `json:"riskThreshold,omitempty"`
	AnalysisDepth          AnalysisDepth     `json:"analysisDepth,omitempty"`
	IncludeRecommendations bool              `json:"includeRecommendations"`
	ExtractionOptions      ExtractionOptions `json:"extractionOptions"`
	ConfidentialityLevel   string            `json:"confidentialityLevel,omitempty"`
}

// WantsType reports whether the given stage was requested. An empty
// analysisTypes list requests everything.
func (r *AnalysisRequest) WantsType(t AnalysisType) bool {
	if len(r.AnalysisTypes) == 0 {
		return true
	}
	for _, at := range r.AnalysisTypes {
		if at == t {
			return true
		}
	}
	return false
}

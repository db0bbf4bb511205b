package model

import "fmt"

// AnalysisType selects which pipeline stages run for a request.
type AnalysisType string

const (
	AnalysisClauseExtraction AnalysisType = "CLAUSE_EXTRACTION"
	AnalysisRiskAssessment   AnalysisType = "RISK_ASSESSMENT"
	AnalysisComplianceCheck  AnalysisType = "COMPLIANCE_CHECK"
	AnalysisTermExtraction   AnalysisType = "TERM_EXTRACTION"
	AnalysisRedFlagDetection AnalysisType = "RED_FLAG_DETECTION"
)

// AllAnalysisTypes lists every stage in execution order.
var AllAnalysisTypes = []AnalysisType{
	AnalysisClauseExtraction,
	AnalysisTermExtraction,
	AnalysisRiskAssessment,
	AnalysisComplianceCheck,
	AnalysisRedFlagDetection,
}

func ParseAnalysisType(s string) (AnalysisType, error) {
	switch AnalysisType(s) {
	case AnalysisClauseExtraction, AnalysisRiskAssessment, AnalysisComplianceCheck,
		AnalysisTermExtraction, AnalysisRedFlagDetection:
		return AnalysisType(s), nil
	}
	return "", fmt.Errorf("unknown analysis type %q", s)
}

// Severity orders risk findings from LOW to CRITICAL.
type Severity string

const (
	SeverityLow      Severity = "LOW"
	SeverityMedium   Severity = "MEDIUM"
	SeverityHigh     Severity = "HIGH"
	SeverityCritical Severity = "CRITICAL"
)

var severityRank = map[Severity]int{
	SeverityLow:      0,
	SeverityMedium:   1,
	SeverityHigh:     2,
	SeverityCritical: 3,
}

// Rank returns the ordinal position of the severity, LOW being lowest.
// Unknown severities rank below LOW.
func (s Severity) Rank() int {
	if r, ok := severityRank[s]; ok {
		return r
	}
	return -1
}

func ParseSeverity(s string) (Severity, error) {
	if _, ok := severityRank[Severity(s)]; ok {
		return Severity(s), nil
	}
	return "", fmt.Errorf("unknown severity %q", s)
}

// AnalysisDepth controls how many rule categories and extraction passes run.
type AnalysisDepth string

const (
	DepthBasic         AnalysisDepth = "BASIC"
	DepthStandard      AnalysisDepth = "STANDARD"
	DepthComprehensive AnalysisDepth = "COMPREHENSIVE"
	DepthExpert        AnalysisDepth = "EXPERT"
)

func ParseAnalysisDepth(s string) (AnalysisDepth, error) {
	switch AnalysisDepth(s) {
	case DepthBasic, DepthStandard, DepthComprehensive, DepthExpert:
		return AnalysisDepth(s), nil
	}
	return "", fmt.Errorf("unknown analysis depth %q", s)
}

// ClauseType labels a segmented clause with its primary provision kind.
type ClauseType string

const (
	ClauseConfidentiality    ClauseType = "confidentiality"
	ClauseLiability          ClauseType = "liability"
	ClauseIntellectualProp   ClauseType = "intellectual_property"
	ClauseTermination        ClauseType = "termination"
	ClausePayment            ClauseType = "payment"
	ClauseDisputeResolution  ClauseType = "dispute_resolution"
	ClauseCompliance         ClauseType = "compliance"
	ClauseForceMajeure       ClauseType = "force_majeure"
	ClauseOther              ClauseType = "other"
)

// ClausePriority is the fixed tie-break order for clause classification.
// Earlier entries win ties.
var ClausePriority = []ClauseType{
	ClauseConfidentiality,
	ClauseLiability,
	ClauseIntellectualProp,
	ClauseTermination,
	ClausePayment,
	ClauseDisputeResolution,
	ClauseCompliance,
	ClauseForceMajeure,
	ClauseOther,
}

// TermCategory labels a structured entity extracted from the document.
type TermCategory string

const (
	TermParty      TermCategory = "party"
	TermDate       TermCategory = "date"
	TermAmount     TermCategory = "amount"
	TermObligation TermCategory = "obligation"
	TermRight      TermCategory = "right"
	TermCondition  TermCategory = "condition"
	TermPenalty    TermCategory = "penalty"
	TermDeadline   TermCategory = "deadline"
)

// ComplianceStatus resolves a single checklist requirement.
type ComplianceStatus string

const (
	StatusSatisfied ComplianceStatus = "SATISFIED"
	StatusPartial   ComplianceStatus = "PARTIAL"
	StatusMissing   ComplianceStatus = "MISSING"
)

// ContractType constants. Contract type is an open string in requests; these
// are the types the rule tables know about. Unknown types fall back to OTHER.
const (
	ContractServiceAgreement = "SERVICE_AGREEMENT"
	ContractEmployment       = "EMPLOYMENT"
	ContractNDA              = "NDA"
	ContractDataProcessing   = "DATA_PROCESSING"
	ContractLease            = "LEASE"
	ContractSales            = "SALES"
	ContractOther            = "OTHER"
)

// Recommendation priorities.
const (
	PriorityUrgent = "URGENT"
	PriorityHigh   = "HIGH"
	PriorityMedium = "MEDIUM"
	PriorityLow    = "LOW"
)

package engine

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/Endawoke47/Neo-sub000/model"
	"github.com/Endawoke47/Neo-sub000/rules"
)

const employmentDoc = `EMPLOYMENT AGREEMENT

This Employment Agreement is made on January 15, 2026 between Acme Corporation ("Employer") and Jane Okafor ("Employee").

1. Compensation. The Employer shall pay the Employee an annual salary of ₦2,000,000 payable in equal monthly installments.

2. Termination. Either party may terminate this Agreement by giving a notice period of 30 days in writing.

3. Confidentiality. The Employee shall keep all proprietary information of the Employer confidential during and after employment.`

const onerousDoc = `SERVICE AGREEMENT

1. Liability. The Provider shall have unlimited liability for all claims arising out of the services.

2. Indemnification. The Provider shall indemnify and hold harmless the Client from all losses, including losses arising from the Client's own negligence.

3. Termination. The Client may terminate this Agreement at any time without compensation to the Provider.`

const dpaDoc = `DATA PROCESSING AGREEMENT

1. Processing. The Processor shall process personal data only on documented instructions from the Controller, relying on the consent of the data subject as the lawful basis under Article 6.

2. Data Subject Rights. The Processor shall assist the Controller in handling requests concerning the right to access and the right to erasure.

3. Breach Notification. The Processor shall notify the Controller of any personal data breach within 24 hours of becoming aware of it.

4. Transfers. Any cross-border transfer of personal data shall rely on standard contractual clauses approved by the Commission.

5. Retention. Upon termination of the services, the Processor shall delete or return all personal data, and the retention period shall not exceed 30 days.`

func newTestPipeline(t *testing.T, opts Options) *Pipeline {
	t.Helper()
	set, err := rules.Load()
	if err != nil {
		t.Fatalf("Failed to load rules: %v", err)
	}
	return NewPipeline(set, opts)
}

func TestAnalyzeEmploymentContract(t *testing.T) {
	p := newTestPipeline(t, Options{Workers: 2})

	req := &model.AnalysisRequest{
		Document:            model.Document{Content: employmentDoc, FileName: "employment.txt"},
		Jurisdiction:        "Nigeria",
		Language:            "en",
		ComplianceStandards: []string{"LOCAL_LABOR_LAW"},
	}

	result, err := p.Analyze(context.Background(), req)
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}

	if result.ContractType != model.ContractEmployment {
		t.Errorf("Expected contract type EMPLOYMENT, got %s", result.ContractType)
	}
	if len(result.Clauses) < 3 {
		t.Errorf("Expected at least 3 clauses, got %d", len(result.Clauses))
	}

	var foundParty, foundAmount bool
	for _, term := range result.Terms {
		if term.Category == model.TermParty && term.Value == "Acme Corporation" {
			foundParty = true
		}
		if term.Category == model.TermAmount && term.Value == "₦2,000,000" {
			foundAmount = true
			if term.Currency != "NGN" {
				t.Errorf("Expected currency NGN, got %q", term.Currency)
			}
		}
	}
	if !foundParty {
		t.Error("Expected party term 'Acme Corporation'")
	}
	if !foundAmount {
		t.Error("Expected amount term '₦2,000,000'")
	}

	if len(result.ComplianceChecks) != 1 || result.ComplianceChecks[0].Standard != "LOCAL_LABOR_LAW" {
		t.Fatalf("Expected one LOCAL_LABOR_LAW check, got %+v", result.ComplianceChecks)
	}
	statuses := make(map[string]model.ComplianceStatus)
	for _, r := range result.ComplianceChecks[0].Requirements {
		statuses[r.ID] = r.Status
	}
	if statuses["labor.compensation"] != model.StatusSatisfied {
		t.Errorf("Expected labor.compensation SATISFIED, got %s", statuses["labor.compensation"])
	}
	if statuses["labor.termination_notice"] != model.StatusSatisfied {
		t.Errorf("Expected labor.termination_notice SATISFIED, got %s", statuses["labor.termination_notice"])
	}

	if result.Score.Overall <= 0 {
		t.Errorf("Expected positive overall score, got %f", result.Score.Overall)
	}
	if result.Score.Benchmark.Jurisdiction != "NIGERIA" {
		t.Errorf("Expected benchmark jurisdiction NIGERIA, got %s", result.Score.Benchmark.Jurisdiction)
	}
	if result.Score.Benchmark.Baseline != 62 {
		t.Errorf("Expected Nigeria baseline 62, got %f", result.Score.Benchmark.Baseline)
	}
	if len(result.MissingClauses) != 0 {
		t.Errorf("Expected no missing clauses, got %+v", result.MissingClauses)
	}
}

func TestAnalyzeOnerousContract(t *testing.T) {
	p := newTestPipeline(t, Options{Workers: 2})

	req := &model.AnalysisRequest{
		Document:     model.Document{Content: onerousDoc},
		Jurisdiction: "NIGERIA",
		Language:     "en",
		ContractType: model.ContractServiceAgreement,
	}

	result, err := p.Analyze(context.Background(), req)
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}

	if len(result.Risks) < 3 {
		t.Fatalf("Expected at least 3 risks, got %d: %+v", len(result.Risks), result.Risks)
	}

	ruleIDs := make(map[string]bool)
	for _, r := range result.Risks {
		ruleIDs[r.RuleID] = true
	}
	for _, want := range []string{"liability.unlimited", "liability.one_sided_indemnity", "termination.no_compensation"} {
		if !ruleIDs[want] {
			t.Errorf("Expected risk %s to fire", want)
		}
	}

	var liabilityFlag bool
	for _, f := range result.RedFlags {
		if strings.Contains(strings.ToLower(f.Description), "liability") {
			liabilityFlag = true
		}
	}
	if !liabilityFlag {
		t.Error("Expected a red flag describing the liability exposure")
	}

	if result.Score.Overall >= 60 {
		t.Errorf("Expected overall score below 60, got %f", result.Score.Overall)
	}
}

func TestAnalyzeDataProcessingAgreement(t *testing.T) {
	p := newTestPipeline(t, Options{Workers: 2})

	req := &model.AnalysisRequest{
		Document:            model.Document{Content: dpaDoc},
		Jurisdiction:        "EU",
		Language:            "en",
		ComplianceStandards: []string{"GDPR"},
	}

	result, err := p.Analyze(context.Background(), req)
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}

	if result.ContractType != model.ContractDataProcessing {
		t.Errorf("Expected contract type DATA_PROCESSING, got %s", result.ContractType)
	}
	if len(result.ComplianceChecks) != 1 {
		t.Fatalf("Expected one compliance check, got %d", len(result.ComplianceChecks))
	}

	check := result.ComplianceChecks[0]
	for _, r := range check.Requirements {
		if r.ID == "gdpr.breach_notification" && r.Status != model.StatusSatisfied {
			t.Errorf("Expected breach notification SATISFIED with 24-hour window, got %s (%s)", r.Status, r.Note)
		}
	}
	if check.Percentage <= 70 {
		t.Errorf("Expected GDPR compliance above 70%%, got %f", check.Percentage)
	}
	if result.Score.Breakdown.Compliance <= 70 {
		t.Errorf("Expected compliance breakdown above 70, got %f", result.Score.Breakdown.Compliance)
	}
}

func TestAnalyzeValidation(t *testing.T) {
	p := newTestPipeline(t, Options{})

	tests := []struct {
		name string
		req  *model.AnalysisRequest
	}{
		{
			name: "empty document",
			req:  &model.AnalysisRequest{Document: model.Document{Content: "   \n "}, Jurisdiction: "NIGERIA", Language: "en"},
		},
		{
			name: "missing jurisdiction",
			req:  &model.AnalysisRequest{Document: model.Document{Content: "some contract"}, Language: "en"},
		},
		{
			name: "bad language tag",
			req:  &model.AnalysisRequest{Document: model.Document{Content: "some contract"}, Jurisdiction: "NIGERIA", Language: "not a language"},
		},
		{
			name: "unknown analysis type",
			req: &model.AnalysisRequest{
				Document: model.Document{Content: "some contract"}, Jurisdiction: "NIGERIA", Language: "en",
				AnalysisTypes: []model.AnalysisType{"SENTIMENT"},
			},
		},
		{
			name: "unknown risk threshold",
			req: &model.AnalysisRequest{
				Document: model.Document{Content: "some contract"}, Jurisdiction: "NIGERIA", Language: "en",
				RiskThreshold: "EXTREME",
			},
		},
		{
			name: "unknown depth",
			req: &model.AnalysisRequest{
				Document: model.Document{Content: "some contract"}, Jurisdiction: "NIGERIA", Language: "en",
				AnalysisDepth: "FULL",
			},
		},
		{
			name: "unknown compliance standard",
			req: &model.AnalysisRequest{
				Document: model.Document{Content: "some contract"}, Jurisdiction: "NIGERIA", Language: "en",
				ComplianceStandards: []string{"HIPAA"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := p.Analyze(context.Background(), tt.req)
			if result != nil {
				t.Error("Expected no result for invalid request")
			}
			if !IsValidation(err) {
				t.Errorf("Expected ValidationError, got %v", err)
			}
		})
	}
}

func TestAnalyzeThresholdFiltersReportOnly(t *testing.T) {
	p := newTestPipeline(t, Options{Workers: 2})

	run := func(threshold model.Severity) *model.AnalysisResult {
		req := &model.AnalysisRequest{
			Document:      model.Document{Content: onerousDoc},
			Jurisdiction:  "NIGERIA",
			Language:      "en",
			ContractType:  model.ContractServiceAgreement,
			RiskThreshold: threshold,
		}
		result, err := p.Analyze(context.Background(), req)
		if err != nil {
			t.Fatalf("Analyze failed at threshold %s: %v", threshold, err)
		}
		return result
	}

	low := run(model.SeverityLow)
	high := run(model.SeverityHigh)

	if len(high.Risks) > len(low.Risks) {
		t.Errorf("HIGH threshold reported more risks (%d) than LOW (%d)", len(high.Risks), len(low.Risks))
	}
	lowIDs := make(map[string]bool)
	for _, r := range low.Risks {
		lowIDs[r.RuleID] = true
	}
	for _, r := range high.Risks {
		if r.Severity.Rank() < model.SeverityHigh.Rank() {
			t.Errorf("Risk %s below HIGH threshold leaked into report", r.RuleID)
		}
		if !lowIDs[r.RuleID] {
			t.Errorf("Risk %s reported at HIGH but not at LOW", r.RuleID)
		}
	}

	// Red flags and scoring ignore the threshold entirely.
	if len(low.RedFlags) != len(high.RedFlags) {
		t.Errorf("Red flag count changed with threshold: %d vs %d", len(low.RedFlags), len(high.RedFlags))
	}
	if low.Score.Overall != high.Score.Overall {
		t.Errorf("Overall score changed with threshold: %f vs %f", low.Score.Overall, high.Score.Overall)
	}
}

func TestAnalyzeDeterministic(t *testing.T) {
	p := newTestPipeline(t, Options{Workers: 4})

	req := &model.AnalysisRequest{
		Document:            model.Document{Content: onerousDoc},
		Jurisdiction:        "NIGERIA",
		Language:            "en",
		ContractType:        model.ContractServiceAgreement,
		ComplianceStandards: []string{"GDPR", "LOCAL_LABOR_LAW"},
	}

	first, err := p.Analyze(context.Background(), req)
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}

	for i := 0; i < 5; i++ {
		next, err := p.Analyze(context.Background(), req)
		if err != nil {
			t.Fatalf("Analyze failed on run %d: %v", i, err)
		}
		if len(next.Risks) != len(first.Risks) {
			t.Fatalf("Risk count changed between runs: %d vs %d", len(next.Risks), len(first.Risks))
		}
		for j := range next.Risks {
			if next.Risks[j].RuleID != first.Risks[j].RuleID {
				t.Errorf("Risk order changed at %d: %s vs %s", j, next.Risks[j].RuleID, first.Risks[j].RuleID)
			}
		}
		if len(next.ComplianceChecks) != len(first.ComplianceChecks) {
			t.Fatalf("Compliance check count changed between runs")
		}
		for j := range next.ComplianceChecks {
			if next.ComplianceChecks[j].Standard != first.ComplianceChecks[j].Standard {
				t.Errorf("Compliance check order changed at %d", j)
			}
			if next.ComplianceChecks[j].Percentage != first.ComplianceChecks[j].Percentage {
				t.Errorf("Compliance percentage changed for %s", next.ComplianceChecks[j].Standard)
			}
		}
		if next.Score.Overall != first.Score.Overall {
			t.Errorf("Overall score changed between runs: %f vs %f", next.Score.Overall, first.Score.Overall)
		}
	}
}

func TestAnalyzeComplianceChecksMatchRequest(t *testing.T) {
	p := newTestPipeline(t, Options{Workers: 2})

	req := &model.AnalysisRequest{
		Document:            model.Document{Content: dpaDoc},
		Jurisdiction:        "EU",
		Language:            "en",
		ComplianceStandards: []string{"gdpr", "LOCAL_LABOR_LAW", "GDPR"},
	}

	result, err := p.Analyze(context.Background(), req)
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}

	// Duplicates collapse, order of first occurrence is kept.
	want := []string{"GDPR", "LOCAL_LABOR_LAW"}
	if len(result.ComplianceChecks) != len(want) {
		t.Fatalf("Expected %d checks, got %d", len(want), len(result.ComplianceChecks))
	}
	for i, std := range want {
		if result.ComplianceChecks[i].Standard != std {
			t.Errorf("Expected check %d to be %s, got %s", i, std, result.ComplianceChecks[i].Standard)
		}
	}
}

func TestAnalyzeRequestedStagesOnly(t *testing.T) {
	p := newTestPipeline(t, Options{Workers: 2})

	req := &model.AnalysisRequest{
		Document:      model.Document{Content: onerousDoc},
		Jurisdiction:  "NIGERIA",
		Language:      "en",
		ContractType:  model.ContractServiceAgreement,
		AnalysisTypes: []model.AnalysisType{model.AnalysisRiskAssessment},
	}

	result, err := p.Analyze(context.Background(), req)
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}

	if len(result.Risks) == 0 {
		t.Error("Expected risks for requested risk assessment")
	}
	if result.Clauses != nil {
		t.Error("Expected no clause collection when clause extraction was not requested")
	}
	if result.Terms != nil {
		t.Error("Expected no term collection when term extraction was not requested")
	}
	if result.RedFlags != nil {
		t.Error("Expected no red flags when red flag detection was not requested")
	}

	executed := strings.Join(result.Summary.StagesExecuted, ",")
	if !strings.Contains(executed, "risk_assessment") {
		t.Errorf("Expected risk_assessment in executed stages, got %s", executed)
	}
	if !strings.Contains(executed, "scoring") || !strings.Contains(executed, "normalization") {
		t.Errorf("Expected normalization and scoring in executed stages, got %s", executed)
	}
}

func TestAnalyzeScoreBounds(t *testing.T) {
	p := newTestPipeline(t, Options{Workers: 2})

	for _, doc := range []string{employmentDoc, onerousDoc, dpaDoc} {
		req := &model.AnalysisRequest{
			Document:            model.Document{Content: doc},
			Jurisdiction:        "NIGERIA",
			Language:            "en",
			ComplianceStandards: []string{"GDPR"},
			AnalysisDepth:       model.DepthExpert,
		}
		result, err := p.Analyze(context.Background(), req)
		if err != nil {
			t.Fatalf("Analyze failed: %v", err)
		}

		dims := map[string]float64{
			"overall":      result.Score.Overall,
			"risk":         result.Score.Breakdown.Risk,
			"compliance":   result.Score.Breakdown.Compliance,
			"completeness": result.Score.Breakdown.Completeness,
			"clarity":      result.Score.Breakdown.Clarity,
		}
		for name, v := range dims {
			if v < 0 || v > 100 {
				t.Errorf("Score dimension %s out of bounds: %f", name, v)
			}
		}
		if result.Summary.ConfidenceLevel <= 0 || result.Summary.ConfidenceLevel > 1 {
			t.Errorf("Confidence level out of bounds: %f", result.Summary.ConfidenceLevel)
		}
	}
}

func TestAnalyzeCancelled(t *testing.T) {
	p := newTestPipeline(t, Options{Workers: 2})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	req := &model.AnalysisRequest{
		Document:     model.Document{Content: onerousDoc},
		Jurisdiction: "NIGERIA",
		Language:     "en",
	}

	result, err := p.Analyze(ctx, req)
	if !errors.Is(err, ErrCancelled) {
		t.Errorf("Expected ErrCancelled, got %v", err)
	}
	if result != nil {
		t.Error("Expected no result for cancelled analysis")
	}
}

func TestAnalyzeRecommendations(t *testing.T) {
	p := newTestPipeline(t, Options{Workers: 2})

	req := &model.AnalysisRequest{
		Document:               model.Document{Content: onerousDoc},
		Jurisdiction:           "NIGERIA",
		Language:               "en",
		ContractType:           model.ContractServiceAgreement,
		IncludeRecommendations: true,
	}

	result, err := p.Analyze(context.Background(), req)
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}

	if len(result.Recommendations) == 0 {
		t.Fatal("Expected recommendations for a contract with HIGH and CRITICAL risks")
	}
	var urgent bool
	for _, rec := range result.Recommendations {
		if rec.Priority == model.PriorityUrgent {
			urgent = true
		}
		if rec.Title == "" || len(rec.RelatedIDs) == 0 {
			t.Errorf("Incomplete recommendation: %+v", rec)
		}
	}
	if !urgent {
		t.Error("Expected an URGENT recommendation for the CRITICAL liability risk")
	}

	last := result.Summary.StagesExecuted[len(result.Summary.StagesExecuted)-1]
	if last != "recommendations" {
		t.Errorf("Expected recommendations as final executed stage, got %s", last)
	}
}

type stubAssist struct {
	terms []model.ExtractedTerm
	err   error
}

func (s *stubAssist) Enabled() bool { return true }

func (s *stubAssist) SuggestTerms(ctx context.Context, text string) ([]model.ExtractedTerm, error) {
	return s.terms, s.err
}

func TestAnalyzeInferenceAssist(t *testing.T) {
	assist := &stubAssist{terms: []model.ExtractedTerm{
		{Category: model.TermObligation, Value: "suggested obligation", Span: model.Span{Start: 0, End: 10}, Confidence: 0.8},
		{Category: model.TermObligation, Value: "out of bounds", Span: model.Span{Start: 0, End: 1 << 20}, Confidence: 0.8},
	}}
	p := newTestPipeline(t, Options{Workers: 2, Assist: assist})

	req := &model.AnalysisRequest{
		Document:      model.Document{Content: employmentDoc},
		Jurisdiction:  "NIGERIA",
		Language:      "en",
		AnalysisDepth: model.DepthComprehensive,
	}

	result, err := p.Analyze(context.Background(), req)
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}

	var merged, leaked bool
	for _, term := range result.Terms {
		if term.Value == "suggested obligation" {
			merged = true
		}
		if term.Value == "out of bounds" {
			leaked = true
		}
	}
	if !merged {
		t.Error("Expected in-bounds suggested term to be merged")
	}
	if leaked {
		t.Error("Expected out-of-bounds suggested term to be dropped")
	}
}

func TestAnalyzeInferenceAssistFailure(t *testing.T) {
	assist := &stubAssist{err: errors.New("model unavailable")}
	p := newTestPipeline(t, Options{Workers: 2, Assist: assist})

	req := &model.AnalysisRequest{
		Document:      model.Document{Content: employmentDoc},
		Jurisdiction:  "NIGERIA",
		Language:      "en",
		AnalysisDepth: model.DepthComprehensive,
	}

	result, err := p.Analyze(context.Background(), req)
	if err != nil {
		t.Fatalf("Expected assist failure to degrade, not fail: %v", err)
	}
	if len(result.Terms) == 0 {
		t.Error("Expected local extraction to survive assist failure")
	}

	var warned bool
	for _, w := range result.Summary.Warnings {
		if strings.Contains(w, "inference assist") {
			warned = true
		}
	}
	if !warned {
		t.Errorf("Expected assist failure warning, got %v", result.Summary.Warnings)
	}
}

func TestAnalyzeAssistSkippedAtStandardDepth(t *testing.T) {
	assist := &stubAssist{terms: []model.ExtractedTerm{
		{Category: model.TermObligation, Value: "suggested obligation", Span: model.Span{Start: 0, End: 10}, Confidence: 0.8},
	}}
	p := newTestPipeline(t, Options{Workers: 2, Assist: assist})

	req := &model.AnalysisRequest{
		Document:     model.Document{Content: employmentDoc},
		Jurisdiction: "NIGERIA",
		Language:     "en",
	}

	result, err := p.Analyze(context.Background(), req)
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}
	for _, term := range result.Terms {
		if term.Value == "suggested obligation" {
			t.Error("Assist must not run at STANDARD depth")
		}
	}
}

func TestNewAnalysisID(t *testing.T) {
	id := NewAnalysisID()
	parts := strings.SplitN(id, "_", 3)
	if len(parts) != 3 || parts[0] != "contract" {
		t.Fatalf("Unexpected analysis ID format: %s", id)
	}
	if len(parts[2]) != 8 {
		t.Errorf("Expected 8-character suffix, got %q", parts[2])
	}
	if NewAnalysisID() == id {
		t.Error("Expected unique analysis IDs")
	}
}

func TestAnalyzeExecutionTime(t *testing.T) {
	p := newTestPipeline(t, Options{Workers: 2, StageTimeout: 5 * time.Second})

	req := &model.AnalysisRequest{
		Document:     model.Document{Content: employmentDoc},
		Jurisdiction: "NIGERIA",
		Language:     "en",
	}

	result, err := p.Analyze(context.Background(), req)
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}
	if result.Summary.ExecutionTimeMS < 0 {
		t.Errorf("Expected non-negative execution time, got %d", result.Summary.ExecutionTimeMS)
	}
	if result.ID == "" || !strings.HasPrefix(result.ID, "contract_") {
		t.Errorf("Unexpected result ID %q", result.ID)
	}
}

// Package engine implements the contract analysis pipeline: normalization,
// clause segmentation, term extraction, risk evaluation, compliance
// checking, red-flag detection, scoring and recommendations, orchestrated
// as a staged state machine over a bounded worker pool.
package engine

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Endawoke47/Neo-sub000/model"
	"github.com/Endawoke47/Neo-sub000/pkg/logger"
	"github.com/Endawoke47/Neo-sub000/rules"
)

// Pipeline states. FAILED is terminal and reachable from any stage.
const (
	StateValidating  = "VALIDATING"
	StateNormalizing = "NORMALIZING"
	StateExtracting  = "EXTRACTING"
	StateAnalyzing   = "ANALYZING"
	StateScoring     = "SCORING"
	StateDone        = "DONE"
	StateFailed      = "FAILED"
)

// TermAssist is an optional remote inference helper the term extractor may
// delegate to at COMPREHENSIVE and EXPERT depth. A failed or timed-out
// assist degrades to the local extractors, never fails the pipeline.
type TermAssist interface {
	Enabled() bool
	SuggestTerms(ctx context.Context, text string) ([]model.ExtractedTerm, error)
}

// Options tunes a Pipeline.
type Options struct {
	Workers      int
	StageTimeout time.Duration
	Assist       TermAssist
}

// Pipeline runs contract analyses. It is safe for concurrent use: the rule
// set is read-only and every run owns its own state.
type Pipeline struct {
	rules        *rules.Set
	pool         *Pool
	stageTimeout time.Duration
	assist       TermAssist
}

// NewPipeline creates a pipeline over the given rule set.
func NewPipeline(set *rules.Set, opts Options) *Pipeline {
	timeout := opts.StageTimeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	return &Pipeline{
		rules:        set,
		pool:         NewPool(opts.Workers),
		stageTimeout: timeout,
		assist:       opts.Assist,
	}
}

// NewAnalysisID mints a run identifier of the form
// contract_<epoch-ms>_<random-suffix>.
func NewAnalysisID() string {
	return fmt.Sprintf("contract_%d_%s", time.Now().UnixMilli(), uuid.NewString()[:8])
}

// Analyze validates the request and runs the requested stages, returning
// the assembled result. Fatal errors (validation, cancellation) return no
// result; single analysis-stage failures surface as warnings on an
// otherwise-complete result.
func (p *Pipeline) Analyze(ctx context.Context, req *model.AnalysisRequest) (*model.AnalysisResult, error) {
	start := time.Now()
	analysisID := NewAnalysisID()
	ctx = context.WithValue(ctx, logger.AnalysisIDKey, analysisID)

	logger.Debug(ctx, "pipeline state", "state", StateValidating)
	norm, err := p.validate(req)
	if err != nil {
		logger.Warn(ctx, "pipeline failed", "state", StateFailed, "error", err)
		return nil, err
	}

	logger.Debug(ctx, "pipeline state", "state", StateNormalizing)
	doc, err := normalizeDocument(req.Document, req.Jurisdiction, req.Language)
	if err != nil {
		logger.Warn(ctx, "pipeline failed", "state", StateFailed, "error", err)
		return nil, err
	}

	contractType := strings.ToUpper(strings.TrimSpace(req.ContractType))
	if contractType == "" {
		contractType = inferContractType(doc.Text)
	}

	run := &runState{req: req, norm: norm, doc: doc, contractType: contractType}

	logger.Debug(ctx, "pipeline state", "state", StateExtracting)
	if err := p.extract(ctx, run); err != nil {
		logger.Warn(ctx, "pipeline failed", "state", StateFailed, "error", err)
		return nil, err
	}

	logger.Debug(ctx, "pipeline state", "state", StateAnalyzing)
	if err := p.analyze(ctx, run); err != nil {
		logger.Warn(ctx, "pipeline failed", "state", StateFailed, "error", err)
		return nil, err
	}

	logger.Debug(ctx, "pipeline state", "state", StateScoring)
	result := p.assemble(run, analysisID, start)

	logger.Info(ctx, "analysis complete",
		"state", StateDone,
		"contract_type", result.ContractType,
		"clauses", len(result.Clauses),
		"terms", len(result.Terms),
		"risks", len(result.Risks),
		"red_flags", len(result.RedFlags),
		"score", result.Score.Overall,
		"duration_ms", result.Summary.ExecutionTimeMS,
	)
	return result, nil
}

// normalized holds the validated, defaulted request knobs.
type normalized struct {
	threshold model.Severity
	depth     model.AnalysisDepth
	options   model.ExtractionOptions
	standards []string
}

// runState is the per-run scratch space. Each stage reads its inputs and
// writes only its own output slice; nothing is mutated after a stage ends.
type runState struct {
	req          *model.AnalysisRequest
	norm         *normalized
	doc          *model.NormalizedDocument
	contractType string

	clauses  []model.ExtractedClause
	missing  []model.MissingClause
	terms    []model.ExtractedTerm
	risks    []model.IdentifiedRisk // unfiltered; scoring reads this set
	checks   []model.ComplianceCheck
	flags    []model.RedFlag
	warnings []string
	executed []string
}

func (p *Pipeline) validate(req *model.AnalysisRequest) (*normalized, error) {
	if strings.TrimSpace(req.Document.Content) == "" {
		return nil, &ValidationError{Field: "document.content", Reason: "document is empty"}
	}

	for _, t := range req.AnalysisTypes {
		if _, err := model.ParseAnalysisType(string(t)); err != nil {
			return nil, &ValidationError{Field: "analysisTypes", Reason: err.Error()}
		}
	}

	n := &normalized{threshold: model.SeverityLow, depth: model.DepthStandard}

	if req.RiskThreshold != "" {
		t, err := model.ParseSeverity(string(req.RiskThreshold))
		if err != nil {
			return nil, &ValidationError{Field: "riskThreshold", Reason: err.Error()}
		}
		n.threshold = t
	}
	if req.AnalysisDepth != "" {
		d, err := model.ParseAnalysisDepth(string(req.AnalysisDepth))
		if err != nil {
			return nil, &ValidationError{Field: "analysisDepth", Reason: err.Error()}
		}
		n.depth = d
	}

	seen := make(map[string]bool)
	for _, id := range req.ComplianceStandards {
		upper := strings.ToUpper(strings.TrimSpace(id))
		if _, ok := p.rules.Standard(upper); !ok {
			return nil, &ValidationError{Field: "complianceStandards", Reason: fmt.Sprintf("unknown standard %q", id)}
		}
		if !seen[upper] {
			seen[upper] = true
			n.standards = append(n.standards, upper)
		}
	}

	// An all-false options block means the caller sent none; default to
	// every extractor rather than extracting nothing.
	if req.ExtractionOptions == (model.ExtractionOptions{}) {
		n.options = model.DefaultExtractionOptions()
	} else {
		n.options = req.ExtractionOptions
	}

	return n, nil
}

// extract runs the segmenter and term extractor concurrently. Both are also
// run when only downstream analyses were requested, since those read
// clauses and terms; unrequested collections are dropped at assembly.
func (p *Pipeline) extract(ctx context.Context, run *runState) error {
	req := run.req
	needClauses := req.WantsType(model.AnalysisClauseExtraction) ||
		req.WantsType(model.AnalysisRiskAssessment) ||
		req.WantsType(model.AnalysisComplianceCheck) ||
		req.WantsType(model.AnalysisRedFlagDetection)
	needTerms := req.WantsType(model.AnalysisTermExtraction) ||
		req.WantsType(model.AnalysisRiskAssessment) ||
		req.WantsType(model.AnalysisComplianceCheck)

	var tasks []Task
	if needClauses {
		tasks = append(tasks, Task{Name: "clause_extraction", Run: func(taskCtx context.Context) error {
			run.clauses = segmentDocument(run.doc)
			if run.norm.options.IdentifyMissingClauses {
				run.missing = findMissingClauses(p.rules, run.contractType, run.clauses)
			}
			return taskCtx.Err()
		}})
	}
	if needTerms {
		tasks = append(tasks, Task{Name: "term_extraction", Run: func(taskCtx context.Context) error {
			run.terms = extractTerms(run.doc, run.norm.options, run.norm.depth)
			p.assistTerms(taskCtx, run)
			return taskCtx.Err()
		}})
	}

	return p.runStageGroup(ctx, run, tasks)
}

// assistTerms merges suggestions from the remote inference helper into the
// locally extracted terms. Only spans inside the document are kept.
func (p *Pipeline) assistTerms(ctx context.Context, run *runState) {
	if p.assist == nil || !p.assist.Enabled() {
		return
	}
	if run.norm.depth != model.DepthComprehensive && run.norm.depth != model.DepthExpert {
		return
	}

	suggested, err := p.assist.SuggestTerms(ctx, run.doc.Text)
	if err != nil {
		logger.Warn(ctx, "inference assist failed, keeping local extraction", "error", err)
		run.warnings = append(run.warnings, "term_extraction: inference assist unavailable")
		return
	}
	for _, t := range suggested {
		if t.Span.Start < 0 || t.Span.End > run.doc.Length || t.Span.Start > t.Span.End {
			continue
		}
		run.terms = append(run.terms, t)
	}
}

// analyze fans out the risk engine, compliance checker and red-flag
// detector. One stage failing empties its collection and records a warning;
// the pipeline continues.
func (p *Pipeline) analyze(ctx context.Context, run *runState) error {
	req := run.req

	var tasks []Task
	if req.WantsType(model.AnalysisRiskAssessment) {
		tasks = append(tasks, Task{Name: "risk_assessment", Run: func(taskCtx context.Context) error {
			run.risks = evaluateRisks(p.rules, run.doc, run.clauses, run.terms, run.contractType, run.norm.depth)
			return taskCtx.Err()
		}})
	}
	if req.WantsType(model.AnalysisComplianceCheck) && len(run.norm.standards) > 0 {
		tasks = append(tasks, Task{Name: "compliance_check", Run: func(taskCtx context.Context) error {
			run.checks = checkCompliance(p.rules, run.doc, run.clauses, run.terms, run.norm.standards)
			return taskCtx.Err()
		}})
	}
	if req.WantsType(model.AnalysisRedFlagDetection) {
		tasks = append(tasks, Task{Name: "red_flag_detection", Run: func(taskCtx context.Context) error {
			run.flags = detectRedFlags(p.rules, run.doc, run.clauses)
			return taskCtx.Err()
		}})
	}

	return p.runStageGroup(ctx, run, tasks)
}

// runStageGroup executes one concurrent stage group and folds each task
// outcome into the run: success, warning (failure/timeout) or cancellation.
func (p *Pipeline) runStageGroup(ctx context.Context, run *runState, tasks []Task) error {
	if len(tasks) == 0 {
		return nil
	}

	results := p.pool.RunAll(ctx, p.stageTimeout, tasks)
	if ctx.Err() != nil {
		return ErrCancelled
	}

	for _, res := range results {
		switch {
		case res.Err == nil:
			run.executed = append(run.executed, res.Name)
		case errors.Is(res.Err, context.Canceled):
			return ErrCancelled
		case errors.Is(res.Err, context.DeadlineExceeded):
			run.warnings = append(run.warnings, res.Name+": stage timed out, output omitted")
			clearStageOutput(run, res.Name)
		default:
			failure := &StageFailure{Stage: res.Name, Err: res.Err}
			logger.Warn(ctx, "stage failed", "error", failure)
			run.warnings = append(run.warnings, failure.Error())
			clearStageOutput(run, res.Name)
		}
	}
	return nil
}

// clearStageOutput empties the collection of a failed stage so a partial
// write never leaks into the result.
func clearStageOutput(run *runState, stage string) {
	switch stage {
	case "clause_extraction":
		run.clauses, run.missing = nil, nil
	case "term_extraction":
		run.terms = nil
	case "risk_assessment":
		run.risks = nil
	case "compliance_check":
		run.checks = nil
	case "red_flag_detection":
		run.flags = nil
	}
}

// assemble builds the final result in fixed collection order regardless of
// stage completion order.
func (p *Pipeline) assemble(run *runState, analysisID string, start time.Time) *model.AnalysisResult {
	req := run.req

	result := &model.AnalysisResult{
		ID:           analysisID,
		ContractType: run.contractType,
		Document:     *run.doc,
		CreatedAt:    start,
	}

	if req.WantsType(model.AnalysisClauseExtraction) {
		result.Clauses = run.clauses
		result.MissingClauses = run.missing
	}
	if req.WantsType(model.AnalysisTermExtraction) {
		result.Terms = run.terms
	}
	if req.WantsType(model.AnalysisRiskAssessment) {
		result.Risks = filterByThreshold(run.risks, run.norm.threshold)
	}
	result.ComplianceChecks = run.checks
	result.RedFlags = run.flags

	// Scoring always runs once normalization succeeded, on the unfiltered
	// risk set.
	result.Score = computeScore(p.rules, run.doc, run.contractType,
		run.risks, run.flags, run.checks, run.clauses, run.missing)

	executed := append([]string{"normalization"}, run.executed...)
	executed = append(executed, "scoring")

	if req.IncludeRecommendations {
		result.Recommendations = buildRecommendations(p.rules, result.Risks, run.checks)
		executed = append(executed, "recommendations")
	}

	result.Summary = model.Summary{
		ExecutionTimeMS: time.Since(start).Milliseconds(),
		ConfidenceLevel: confidenceLevel(run),
		StagesExecuted:  executed,
		Warnings:        run.warnings,
	}
	return result
}

// confidenceLevel derives an overall confidence in (0,1] from how cleanly
// the run went.
func confidenceLevel(run *runState) float64 {
	confidence := 0.95
	confidence -= 0.1 * float64(len(run.warnings))
	if len(run.clauses) == 0 {
		confidence -= 0.15
	}
	if confidence < 0.2 {
		confidence = 0.2
	}
	return confidence
}

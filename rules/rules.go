// Package rules holds the declarative configuration the analysis engine
// evaluates: risk rules, compliance checklists, red-flag patterns, expected
// clauses per contract type, jurisdiction benchmarks and score weights.
// The tables are embedded at build time, parsed once and shared read-only
// across concurrent analysis runs.
package rules

import (
	_ "embed"
	"fmt"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/Endawoke47/Neo-sub000/model"
)

//go:embed rules.yaml
var rulesYAML []byte

// RiskRule is one configured risk pattern. Jurisdictions and ContractTypes
// empty means the rule applies everywhere. Kind "conflict" marks a
// cross-clause rule that fires when the capture group of its pattern takes
// more than one distinct value across the document. RequireTerm and
// RequireTermAbsent gate a rule on the categories of the extracted terms.
type RiskRule struct {
	ID                string             `yaml:"id"`
	Category          string             `yaml:"category"`
	Severity          model.Severity     `yaml:"severity"`
	Kind              string             `yaml:"kind"`
	Jurisdictions     []string           `yaml:"jurisdictions"`
	ContractTypes     []string           `yaml:"contract_types"`
	ClauseTypes       []model.ClauseType `yaml:"clause_types"`
	Patterns          []string           `yaml:"patterns"`
	RequireAbsence    string             `yaml:"require_absence"`
	RequireTerm       model.TermCategory `yaml:"require_term"`
	RequireTermAbsent model.TermCategory `yaml:"require_term_absent"`
	Description       string             `yaml:"description"`

	compiled []*regexp.Regexp
	absence  *regexp.Regexp
}

// Matchers returns the compiled patterns of the rule.
func (r *RiskRule) Matchers() []*regexp.Regexp { return r.compiled }

// Absence returns the compiled require_absence pattern, nil if unset.
func (r *RiskRule) Absence() *regexp.Regexp { return r.absence }

// AppliesTo reports whether the rule is configured for the given
// jurisdiction and contract type.
func (r *RiskRule) AppliesTo(jurisdiction, contractType string) bool {
	if len(r.Jurisdictions) > 0 && !containsFold(r.Jurisdictions, jurisdiction) {
		return false
	}
	if len(r.ContractTypes) > 0 && !containsFold(r.ContractTypes, contractType) {
		return false
	}
	return true
}

// AppliesToTerms reports whether the extracted term categories satisfy the
// rule's term gates. Rules without term gates always pass.
func (r *RiskRule) AppliesToTerms(present map[model.TermCategory]bool) bool {
	if r.RequireTerm != "" && !present[r.RequireTerm] {
		return false
	}
	if r.RequireTermAbsent != "" && present[r.RequireTermAbsent] {
		return false
	}
	return true
}

// MatchesClauseType reports whether the rule is scoped to the clause type.
// An empty clause_types list matches any clause.
func (r *RiskRule) MatchesClauseType(t model.ClauseType) bool {
	if len(r.ClauseTypes) == 0 {
		return true
	}
	for _, ct := range r.ClauseTypes {
		if ct == t {
			return true
		}
	}
	return false
}

// Requirement is one checklist item of a compliance standard. Keywords give
// direct evidence (SATISFIED), Related keywords alone give PARTIAL, and an
// ElementRegex downgrades a keyword match to PARTIAL when the required
// element is absent from the document.
type Requirement struct {
	ID           string   `yaml:"id"`
	Name         string   `yaml:"name"`
	Keywords     []string `yaml:"keywords"`
	Related      []string `yaml:"related"`
	ElementRegex string   `yaml:"element_regex"`
	ElementNote  string   `yaml:"element_note"`

	element *regexp.Regexp
}

// Element returns the compiled required-element pattern, nil if unset.
func (q *Requirement) Element() *regexp.Regexp { return q.element }

// Standard is one named compliance checklist.
type Standard struct {
	ID           string        `yaml:"id"`
	Name         string        `yaml:"name"`
	Requirements []Requirement `yaml:"requirements"`
}

// RedFlag is one jurisdiction-independent dangerous-clause pattern.
type RedFlag struct {
	ID          string         `yaml:"id"`
	Title       string         `yaml:"title"`
	Severity    model.Severity `yaml:"severity"`
	Pattern     string         `yaml:"pattern"`
	Description string         `yaml:"description"`

	compiled *regexp.Regexp
}

// Matcher returns the compiled red-flag pattern.
func (f *RedFlag) Matcher() *regexp.Regexp { return f.compiled }

// ScoreConfig holds the tunable weighting of the scoring engine.
type ScoreConfig struct {
	Weights struct {
		Risk         float64 `yaml:"risk"`
		Compliance   float64 `yaml:"compliance"`
		Completeness float64 `yaml:"completeness"`
		Clarity      float64 `yaml:"clarity"`
	} `yaml:"weights"`
	SeverityPenalties    map[model.Severity]float64 `yaml:"severity_penalties"`
	RiskPenaltyCap       float64                    `yaml:"risk_penalty_cap"`
	RedFlagPenalty       float64                    `yaml:"red_flag_penalty"`
	MissingClausePenalty float64                    `yaml:"missing_clause_penalty"`
}

// RecommendationTemplate is the canned text for one risk category.
type RecommendationTemplate struct {
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
	Impact      string `yaml:"impact"`
}

// Templates holds the recommendation text tables.
type Templates struct {
	Risk       map[string]RecommendationTemplate `yaml:"risk"`
	Compliance RecommendationTemplate            `yaml:"compliance"`
}

// Set is the full, immutable rule configuration.
type Set struct {
	Version         string                        `yaml:"version"`
	RiskCategories  []string                      `yaml:"risk_categories"`
	DepthCategories map[model.AnalysisDepth]int   `yaml:"depth_categories"`
	RiskRules       []RiskRule                    `yaml:"risk_rules"`
	Standards       []Standard                    `yaml:"compliance_standards"`
	RedFlags        []RedFlag                     `yaml:"red_flags"`
	ExpectedClauses map[string][]model.ClauseType `yaml:"expected_clauses"`
	Benchmarks      map[string]float64            `yaml:"benchmarks"`
	Score           ScoreConfig                   `yaml:"score"`
	Recommendations Templates                     `yaml:"recommendation_templates"`

	standardsByID map[string]*Standard
}

// Load parses and compiles the embedded rule tables.
func Load() (*Set, error) {
	var set Set
	if err := yaml.Unmarshal(rulesYAML, &set); err != nil {
		return nil, fmt.Errorf("failed to parse rule tables: %w", err)
	}

	for i := range set.RiskRules {
		r := &set.RiskRules[i]
		for _, p := range r.Patterns {
			re, err := regexp.Compile(p)
			if err != nil {
				return nil, fmt.Errorf("risk rule %s: bad pattern %q: %w", r.ID, p, err)
			}
			r.compiled = append(r.compiled, re)
		}
		if r.RequireAbsence != "" {
			re, err := regexp.Compile(r.RequireAbsence)
			if err != nil {
				return nil, fmt.Errorf("risk rule %s: bad require_absence: %w", r.ID, err)
			}
			r.absence = re
		}
	}

	for i := range set.RedFlags {
		f := &set.RedFlags[i]
		re, err := regexp.Compile(f.Pattern)
		if err != nil {
			return nil, fmt.Errorf("red flag %s: bad pattern: %w", f.ID, err)
		}
		f.compiled = re
	}

	set.standardsByID = make(map[string]*Standard, len(set.Standards))
	for i := range set.Standards {
		s := &set.Standards[i]
		for j := range s.Requirements {
			q := &s.Requirements[j]
			if q.ElementRegex != "" {
				re, err := regexp.Compile(q.ElementRegex)
				if err != nil {
					return nil, fmt.Errorf("requirement %s: bad element_regex: %w", q.ID, err)
				}
				q.element = re
			}
		}
		set.standardsByID[s.ID] = s
	}

	return &set, nil
}

// Standard returns the checklist for the given standard ID.
func (s *Set) Standard(id string) (*Standard, bool) {
	std, ok := s.standardsByID[strings.ToUpper(id)]
	return std, ok
}

// CategoriesForDepth returns the prefix of risk categories evaluated at the
// given analysis depth.
func (s *Set) CategoriesForDepth(depth model.AnalysisDepth) []string {
	n, ok := s.DepthCategories[depth]
	if !ok {
		n = s.DepthCategories[model.DepthStandard]
	}
	if n <= 0 || n > len(s.RiskCategories) {
		n = len(s.RiskCategories)
	}
	return s.RiskCategories[:n]
}

// ExpectedFor returns the expected clause types for a contract type,
// falling back to the OTHER entry.
func (s *Set) ExpectedFor(contractType string) []model.ClauseType {
	if types, ok := s.ExpectedClauses[strings.ToUpper(contractType)]; ok {
		return types
	}
	return s.ExpectedClauses[model.ContractOther]
}

// Baseline returns the benchmark baseline score for a jurisdiction,
// falling back to the DEFAULT entry.
func (s *Set) Baseline(jurisdiction string) float64 {
	if b, ok := s.Benchmarks[strings.ToUpper(jurisdiction)]; ok {
		return b
	}
	return s.Benchmarks["DEFAULT"]
}

func containsFold(list []string, v string) bool {
	for _, s := range list {
		if strings.EqualFold(s, v) {
			return true
		}
	}
	return false
}

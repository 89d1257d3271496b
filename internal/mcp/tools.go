package mcp

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/blackwell-systems/hoshin/internal/kano"
)

// ClassifyResult is the classification of one score pair.
type ClassifyResult struct {
	Category           kano.Category `json:"category"`
	SatisfactionImpact float64       `json:"satisfaction_impact"`
}

// AnalysesResult lists stored analyses.
type AnalysesResult struct {
	Analyses []AnalysisSummary `json:"analyses"`
}

// AnalysisSummary is a compact view of one analysis.
type AnalysisSummary struct {
	ID            string           `json:"id"`
	CompanyName   string           `json:"company_name"`
	Industry      string           `json:"industry,omitempty"`
	CompanyType   kano.CompanyType `json:"company_type"`
	FeatureCount  int              `json:"feature_count"`
	OverallScore  float64          `json:"overall_score"`
	StrengthAreas []string         `json:"strength_areas"`
	WeaknessAreas []string         `json:"weakness_areas"`
}

// ComparisonResult holds the insights of a comparison and the companies'
// overall scores.
type ComparisonResult struct {
	SelfID       string             `json:"self_id"`
	Scores       map[string]float64 `json:"overall_scores,omitempty"`
	Insights     []kano.Insight     `json:"insights"`
	GeneratedAt  string             `json:"generated_at"`
	InsightCount int                `json:"insight_count"`
}

var (
	noArgsSchema   = json.RawMessage(`{"type":"object","properties":{},"additionalProperties":false}`)
	classifySchema = json.RawMessage(`{"type":"object","properties":{"functional_score":{"type":"integer","minimum":-2,"maximum":2,"description":"Satisfaction when the feature is present"},"dysfunctional_score":{"type":"integer","minimum":-2,"maximum":2,"description":"Dissatisfaction when the feature is absent"}},"required":["functional_score","dysfunctional_score"],"additionalProperties":false}`)
	compareSchema  = json.RawMessage(`{"type":"object","properties":{"self_id":{"type":"string","description":"ID of the self-company analysis"},"competitor_ids":{"type":"array","items":{"type":"string"},"minItems":1,"maxItems":2,"description":"IDs of one or two competitor analyses"}},"required":["self_id","competitor_ids"],"additionalProperties":false}`)
)

// addTools registers all MCP tool handlers on s.
func addTools(s *Server) {
	s.registerTool(toolDef{
		Name:        "classify_feature",
		Description: "Kano category and satisfaction impact for a functional/dysfunctional score pair in [-2, 2].",
		InputSchema: classifySchema,
		Handler:     s.handleClassifyFeature,
	})
	s.registerTool(toolDef{
		Name:        "list_analyses",
		Description: "Stored company analyses with overall score, strength areas and weakness areas.",
		InputSchema: noArgsSchema,
		Handler:     s.handleListAnalyses,
	})
	s.registerTool(toolDef{
		Name:        "compare_analyses",
		Description: "Generate ranked opportunity, threat, strength and weakness insights for a self-company against one or two competitors.",
		InputSchema: compareSchema,
		Handler:     s.handleCompareAnalyses,
	})
	s.registerTool(toolDef{
		Name:        "latest_comparison",
		Description: "The most recently generated comparison.",
		InputSchema: noArgsSchema,
		Handler:     s.handleLatestComparison,
	})
}

// handleClassifyFeature classifies one score pair without storing anything.
func (s *Server) handleClassifyFeature(args json.RawMessage) (any, error) {
	var params struct {
		Functional    *int `json:"functional_score"`
		Dysfunctional *int `json:"dysfunctional_score"`
	}
	if err := json.Unmarshal(args, &params); err != nil {
		return nil, fmt.Errorf("invalid arguments: %w", err)
	}
	if params.Functional == nil || params.Dysfunctional == nil {
		return nil, errors.New("functional_score and dysfunctional_score are required")
	}

	cat, err := kano.Classify(*params.Functional, *params.Dysfunctional)
	if err != nil {
		return nil, err
	}
	impact, err := kano.Impact(*params.Functional, *params.Dysfunctional)
	if err != nil {
		return nil, err
	}
	return ClassifyResult{Category: cat, SatisfactionImpact: impact}, nil
}

func (s *Server) handleListAnalyses(args json.RawMessage) (any, error) {
	all, err := s.tracker.Analyses()
	if err != nil {
		return nil, err
	}
	result := make([]AnalysisSummary, 0, len(all))
	for _, a := range all {
		result = append(result, AnalysisSummary{
			ID:            a.ID,
			CompanyName:   a.CompanyName,
			Industry:      a.Industry,
			CompanyType:   a.CompanyType,
			FeatureCount:  len(a.Features),
			OverallScore:  a.OverallScore,
			StrengthAreas: a.StrengthAreas,
			WeaknessAreas: a.WeaknessAreas,
		})
	}
	return AnalysesResult{Analyses: result}, nil
}

// handleCompareAnalyses generates and stores a new comparison.
func (s *Server) handleCompareAnalyses(args json.RawMessage) (any, error) {
	var params struct {
		SelfID        string   `json:"self_id"`
		CompetitorIDs []string `json:"competitor_ids"`
	}
	if err := json.Unmarshal(args, &params); err != nil {
		return nil, fmt.Errorf("invalid arguments: %w", err)
	}

	c, err := s.tracker.Compare(params.SelfID, params.CompetitorIDs)
	if err != nil {
		return nil, err
	}

	scores := map[string]float64{c.Self.CompanyName: c.Self.OverallScore}
	for _, comp := range c.Competitors {
		scores[comp.CompanyName] = comp.OverallScore
	}
	return ComparisonResult{
		SelfID:       c.Self.ID,
		Scores:       scores,
		Insights:     c.Insights,
		GeneratedAt:  c.CreatedAt.Format(time.RFC3339),
		InsightCount: len(c.Insights),
	}, nil
}

func (s *Server) handleLatestComparison(args json.RawMessage) (any, error) {
	rec, err := s.tracker.LatestComparison()
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, errors.New("no comparison generated yet")
	}
	return ComparisonResult{
		SelfID:       rec.SelfID,
		Insights:     rec.Insights,
		GeneratedAt:  rec.CreatedAt.Format(time.RFC3339),
		InsightCount: len(rec.Insights),
	}, nil
}

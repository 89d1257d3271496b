// Package kano implements Kano model feature classification, per-company
// aggregation, and comparative insight generation across competitors.
//
// Everything in this package is pure: functions take their inputs by value or
// pointer, never retain them, and never perform I/O. Persistence and mutation
// dispatch live in the store and tracker packages.
package kano

import "time"

// Category is a Kano satisfaction category.
type Category string

// Kano categories.
const (
	CategoryBasic       Category = "basic"
	CategoryPerformance Category = "performance"
	CategoryExcitement  Category = "excitement"
	CategoryIndifferent Category = "indifferent"
	CategoryReverse     Category = "reverse"
)

// Categories lists every category in display order.
var Categories = []Category{
	CategoryExcitement,
	CategoryPerformance,
	CategoryBasic,
	CategoryIndifferent,
	CategoryReverse,
}

// Differentiating reports whether features in this category set a company
// apart (excitement or performance).
func (c Category) Differentiating() bool {
	return c == CategoryExcitement || c == CategoryPerformance
}

// TableStakes reports whether the category marks an expected or actively
// unwanted feature (basic or reverse).
func (c Category) TableStakes() bool {
	return c == CategoryBasic || c == CategoryReverse
}

// CompanyType distinguishes the analyst's own company from competitors.
type CompanyType string

// Company types.
const (
	CompanySelf       CompanyType = "self"
	CompanyCompetitor CompanyType = "competitor"
)

// Valid reports whether t is a known company type.
func (t CompanyType) Valid() bool {
	return t == CompanySelf || t == CompanyCompetitor
}

// InsightType classifies a comparative finding.
type InsightType string

// Insight types, in generation pass order.
const (
	InsightOpportunity InsightType = "opportunity"
	InsightThreat      InsightType = "threat"
	InsightStrength    InsightType = "strength"
	InsightWeakness    InsightType = "weakness"
)

// Priority is the display priority of an insight.
type Priority string

// Priority levels.
const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// Insight is a single finding produced by comparing a self-company against
// its competitors.
type Insight struct {
	Type            InsightType `json:"type"`
	Title           string      `json:"title"`
	Description     string      `json:"description"`
	Area            string      `json:"area"`
	RelatedFeatures []string    `json:"related_features"`
	Priority        Priority    `json:"priority"`
}

// Comparison is a generated, read-only comparison of one self-company
// against one or two competitors. A new comparison replaces the previous
// one; it is never merged.
type Comparison struct {
	Self        *CompanyAnalysis   `json:"self_company"`
	Competitors []*CompanyAnalysis `json:"competitors"`
	Insights    []Insight          `json:"insights"`
	CreatedAt   time.Time          `json:"created_at"`
}

// Summary is the aggregate view of one company's feature set.
type Summary struct {
	OverallScore  float64  `json:"overall_score"`
	StrengthAreas []string `json:"strength_areas"`
	WeaknessAreas []string `json:"weakness_areas"`
}

// Thresholds tune aggregation and insight generation.
type Thresholds struct {
	// StrengthImportance is the minimum importance for a differentiating
	// feature to count as a strength.
	StrengthImportance int `json:"strength_importance"`

	// WeaknessImpact is the satisfaction impact below which a basic or
	// reverse feature is treated as an unmet need.
	WeaknessImpact float64 `json:"weakness_impact"`

	// OpportunityGap is the minimum shortfall against the competitor
	// average, in differentiating features, that yields an opportunity.
	OpportunityGap float64 `json:"opportunity_gap"`

	// ThreatPresence is the differentiating feature count at which a
	// competitor's presence in an area is strong regardless of importance.
	ThreatPresence int `json:"threat_presence"`
}

// DefaultThresholds returns the standard thresholds.
func DefaultThresholds() Thresholds {
	return Thresholds{
		StrengthImportance: 4,
		WeaknessImpact:     0.25,
		OpportunityGap:     0.5,
		ThreatPresence:     2,
	}
}

// MaxCompetitors is the largest number of competitors a comparison accepts.
const MaxCompetitors = 2

// DefaultArea is the area assigned to features with no explicit area.
const DefaultArea = "General"

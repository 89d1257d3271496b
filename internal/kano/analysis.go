package kano

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// CompanyAnalysis is one company's feature set at a point in time, together
// with its aggregate summary. Call Refresh after changing Features directly;
// the mutators below refresh automatically.
type CompanyAnalysis struct {
	ID            string      `json:"id"`
	CompanyName   string      `json:"company_name"`
	Industry      string      `json:"industry"`
	CompanyType   CompanyType `json:"company_type"`
	Features      []*Feature  `json:"features"`
	OverallScore  float64     `json:"overall_score"`
	StrengthAreas []string    `json:"strength_areas"`
	WeaknessAreas []string    `json:"weakness_areas"`
	AnalysisDate  time.Time   `json:"analysis_date"`
}

// NewCompanyAnalysis returns an empty analysis with a fresh ID.
func NewCompanyAnalysis(companyName, industry string, companyType CompanyType, now time.Time) (*CompanyAnalysis, error) {
	if strings.TrimSpace(companyName) == "" {
		return nil, fmt.Errorf("%w: company name is required", ErrInvalidAnalysis)
	}
	if !companyType.Valid() {
		return nil, fmt.Errorf("%w: unknown company type %q", ErrInvalidAnalysis, companyType)
	}
	return &CompanyAnalysis{
		ID:            uuid.NewString(),
		CompanyName:   companyName,
		Industry:      industry,
		CompanyType:   companyType,
		Features:      []*Feature{},
		StrengthAreas: []string{},
		WeaknessAreas: []string{},
		AnalysisDate:  now,
	}, nil
}

// Feature returns the feature with the given ID, or nil.
func (a *CompanyAnalysis) Feature(id string) *Feature {
	for _, f := range a.Features {
		if f.ID == id {
			return f
		}
	}
	return nil
}

// AddFeature appends f and refreshes the summary.
func (a *CompanyAnalysis) AddFeature(f *Feature, th Thresholds) {
	a.Features = append(a.Features, f)
	a.Refresh(th)
}

// UpdateFeature applies in to the feature with the given ID and refreshes
// the summary.
func (a *CompanyAnalysis) UpdateFeature(id string, in FeatureInput, th Thresholds, now time.Time) (*Feature, error) {
	f := a.Feature(id)
	if f == nil {
		return nil, fmt.Errorf("feature %s: %w", id, ErrFeatureNotFound)
	}
	if err := f.Apply(in, now); err != nil {
		return nil, err
	}
	a.Refresh(th)
	return f, nil
}

// RemoveFeature removes the feature with the given ID and refreshes the
// summary. It reports whether a feature was removed.
func (a *CompanyAnalysis) RemoveFeature(id string, th Thresholds) bool {
	for i, f := range a.Features {
		if f.ID == id {
			a.Features = append(a.Features[:i], a.Features[i+1:]...)
			a.Refresh(th)
			return true
		}
	}
	return false
}

// Refresh recomputes OverallScore, StrengthAreas and WeaknessAreas from the
// full feature list.
func (a *CompanyAnalysis) Refresh(th Thresholds) {
	s := Aggregate(a.Features, th)
	a.OverallScore = s.OverallScore
	a.StrengthAreas = s.StrengthAreas
	a.WeaknessAreas = s.WeaknessAreas
}

// Summary returns the current aggregate fields.
func (a *CompanyAnalysis) Summary() Summary {
	return Summary{
		OverallScore:  a.OverallScore,
		StrengthAreas: a.StrengthAreas,
		WeaknessAreas: a.WeaknessAreas,
	}
}

// Areas returns the distinct feature areas in first-seen order.
func (a *CompanyAnalysis) Areas() []string {
	var areas []string
	seen := make(map[string]bool)
	for _, f := range a.Features {
		name := f.AreaName()
		if !seen[name] {
			seen[name] = true
			areas = append(areas, name)
		}
	}
	return areas
}

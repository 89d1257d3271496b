package kano

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAggregate_Empty(t *testing.T) {
	s := Aggregate(nil, DefaultThresholds())
	assert.Equal(t, 0.0, s.OverallScore)
	assert.Empty(t, s.StrengthAreas)
	assert.Empty(t, s.WeaknessAreas)
	assert.NotNil(t, s.StrengthAreas)
	assert.NotNil(t, s.WeaknessAreas)
}

func TestAggregate_SingleExcitementHighImportance(t *testing.T) {
	f := mustFeature(t, "Smart suggestions", "UX", 2, -2, 5)
	s := Aggregate([]*Feature{f}, DefaultThresholds())
	assert.Equal(t, []string{"Smart suggestions"}, s.StrengthAreas)
	assert.Empty(t, s.WeaknessAreas)
}

func TestAggregate_LowImportanceNotStrength(t *testing.T) {
	f := mustFeature(t, "Confetti", "UX", 2, -2, 3)
	s := Aggregate([]*Feature{f}, DefaultThresholds())
	assert.Empty(t, s.StrengthAreas)
}

func TestAggregate_Weaknesses(t *testing.T) {
	features := []*Feature{
		mustFeature(t, "Login", "Core", -1, 2, 5),   // basic, impact 0.1
		mustFeature(t, "Popups", "UX", -2, 2, 2),    // reverse, impact -0.2
		mustFeature(t, "Backups", "Core", 0, 2, 3),  // basic, impact 0.4, resolved
		mustFeature(t, "Tooltips", "UX", -2, -2, 1), // indifferent
	}
	s := Aggregate(features, DefaultThresholds())
	assert.Equal(t, []string{"Login", "Popups"}, s.WeaknessAreas)
}

func TestAggregate_WeightedByImportance(t *testing.T) {
	perf := mustFeature(t, "Speed", "Core", 2, 2, 5) // impact 1
	indiff := mustFeature(t, "Badge", "UX", 0, 0, 1) // impact 0

	// mean = (1*5 + 0*1) / 6
	want := round2((5.0/6.0 + 1) * 50)
	s := Aggregate([]*Feature{perf, indiff}, DefaultThresholds())
	assert.InDelta(t, want, s.OverallScore, 1e-9)

	// Raising the indifferent feature's weight lowers the score.
	heavy := mustFeature(t, "Badge", "UX", 0, 0, 5)
	s2 := Aggregate([]*Feature{perf, heavy}, DefaultThresholds())
	assert.Less(t, s2.OverallScore, s.OverallScore)
}

func TestAggregate_ScoreBounds(t *testing.T) {
	best := Aggregate([]*Feature{mustFeature(t, "a", "", 2, 2, 5)}, DefaultThresholds())
	worst := Aggregate([]*Feature{mustFeature(t, "b", "", -2, -2, 5)}, DefaultThresholds())
	assert.InDelta(t, 100.0, best.OverallScore, 1e-9)
	assert.InDelta(t, 0.0, worst.OverallScore, 1e-9)
}

func TestAggregate_DeduplicatesNames(t *testing.T) {
	features := []*Feature{
		mustFeature(t, "Sync", "Data", 2, 1, 5),
		mustFeature(t, "Sync", "Mobile", 2, 0, 4),
	}
	s := Aggregate(features, DefaultThresholds())
	assert.Equal(t, []string{"Sync"}, s.StrengthAreas)
}

func TestAggregate_Idempotent(t *testing.T) {
	features := []*Feature{
		mustFeature(t, "Sync", "Data", 2, 1, 5),
		mustFeature(t, "Login", "Core", -1, 2, 4),
	}
	first := Aggregate(features, DefaultThresholds())
	second := Aggregate(features, DefaultThresholds())
	assert.Equal(t, first, second)
}

func TestAggregate_CustomThresholds(t *testing.T) {
	f := mustFeature(t, "Confetti", "UX", 2, -2, 3)
	th := DefaultThresholds()
	th.StrengthImportance = 3
	assert.Equal(t, []string{"Confetti"}, Aggregate([]*Feature{f}, th).StrengthAreas)
}

func TestCategoryCounts_IncludesZeroes(t *testing.T) {
	counts := CategoryCounts([]*Feature{
		mustFeature(t, "a", "", 2, -2, 1),
		mustFeature(t, "b", "", 2, -1, 1),
	})
	assert.Len(t, counts, len(Categories))
	assert.Equal(t, 2, counts[CategoryExcitement])
	assert.Equal(t, 0, counts[CategoryReverse])
}

// --- CompanyAnalysis ---

func TestCompanyAnalysis_MutationsRefreshSummary(t *testing.T) {
	a := mustAnalysis(t, "Acme", CompanySelf)
	assert.Equal(t, 0.0, a.OverallScore)

	f := mustFeature(t, "Sync", "Data", 2, 1, 5)
	a.AddFeature(f, DefaultThresholds())
	assert.Equal(t, []string{"Sync"}, a.StrengthAreas)
	assert.Greater(t, a.OverallScore, 0.0)

	_, err := a.UpdateFeature(f.ID, FeatureInput{Name: "Sync", FunctionalScore: -1, DysfunctionalScore: 2, Importance: 5}, DefaultThresholds(), testNow)
	assert.NoError(t, err)
	assert.Empty(t, a.StrengthAreas)
	assert.Equal(t, []string{"Sync"}, a.WeaknessAreas)

	assert.True(t, a.RemoveFeature(f.ID, DefaultThresholds()))
	assert.False(t, a.RemoveFeature(f.ID, DefaultThresholds()))
	assert.Equal(t, 0.0, a.OverallScore)
	assert.Empty(t, a.WeaknessAreas)
}

func TestCompanyAnalysis_UpdateUnknownFeature(t *testing.T) {
	a := mustAnalysis(t, "Acme", CompanySelf)
	_, err := a.UpdateFeature("nope", FeatureInput{Name: "x", Importance: 1}, DefaultThresholds(), testNow)
	assert.ErrorIs(t, err, ErrFeatureNotFound)
}

func TestNewCompanyAnalysis_Validation(t *testing.T) {
	_, err := NewCompanyAnalysis("  ", "", CompanySelf, testNow)
	assert.ErrorIs(t, err, ErrInvalidAnalysis)

	_, err = NewCompanyAnalysis("Acme", "", CompanyType("partner"), testNow)
	assert.ErrorIs(t, err, ErrInvalidAnalysis)
}

func TestCompanyAnalysis_Areas(t *testing.T) {
	a := mustAnalysis(t, "Acme", CompanySelf,
		mustFeature(t, "a", "UX", 0, 0, 1),
		mustFeature(t, "b", "", 0, 0, 1),
		mustFeature(t, "c", "UX", 0, 0, 1),
	)
	assert.Equal(t, []string{"UX", DefaultArea}, a.Areas())
}

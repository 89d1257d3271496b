package kano

import (
	"testing"
	"time"
)

var testNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

// mustFeature builds a feature or fails the test.
func mustFeature(t *testing.T, name, area string, functional, dysfunctional, importance int) *Feature {
	t.Helper()
	f, err := NewFeature(FeatureInput{
		Name:               name,
		Area:               area,
		FunctionalScore:    functional,
		DysfunctionalScore: dysfunctional,
		Importance:         importance,
	}, testNow)
	if err != nil {
		t.Fatalf("NewFeature(%q): %v", name, err)
	}
	return f
}

// mustAnalysis builds an analysis holding the given features.
func mustAnalysis(t *testing.T, name string, ct CompanyType, features ...*Feature) *CompanyAnalysis {
	t.Helper()
	a, err := NewCompanyAnalysis(name, "software", ct, testNow)
	if err != nil {
		t.Fatalf("NewCompanyAnalysis(%q): %v", name, err)
	}
	for _, f := range features {
		a.AddFeature(f, DefaultThresholds())
	}
	return a
}

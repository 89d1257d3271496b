package tracker

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/blackwell-systems/hoshin/internal/kano"
	"github.com/blackwell-systems/hoshin/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

func newTestService(t *testing.T) *Service {
	t.Helper()
	db, err := store.OpenInMemory()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return New(db, kano.DefaultThresholds(), WithClock(func() time.Time { return testNow }))
}

func input(name, area string, functional, dysfunctional, importance int) kano.FeatureInput {
	return kano.FeatureInput{
		Name:               name,
		Area:               area,
		FunctionalScore:    functional,
		DysfunctionalScore: dysfunctional,
		Importance:         importance,
	}
}

func TestCreateAnalysis_PersistsEmpty(t *testing.T) {
	svc := newTestService(t)

	a, err := svc.CreateAnalysis("Acme", "SaaS", kano.CompanySelf)
	require.NoError(t, err)

	got, err := svc.Analysis(a.ID)
	require.NoError(t, err)
	assert.Equal(t, "Acme", got.CompanyName)
	assert.Empty(t, got.Features)
	assert.Equal(t, 0.0, got.OverallScore)
	assert.True(t, testNow.Equal(got.AnalysisDate))
}

func TestCreateAnalysis_Invalid(t *testing.T) {
	svc := newTestService(t)
	_, err := svc.CreateAnalysis("", "SaaS", kano.CompanySelf)
	assert.ErrorIs(t, err, kano.ErrInvalidAnalysis)
}

func TestAnalysis_NotFound(t *testing.T) {
	svc := newTestService(t)
	_, err := svc.Analysis("missing")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestAddFeature_RefreshesAndPersists(t *testing.T) {
	svc := newTestService(t)
	a, err := svc.CreateAnalysis("Acme", "", kano.CompanySelf)
	require.NoError(t, err)

	f, updated, err := svc.AddFeature(a.ID, input("Dark mode", "UX", 2, -1, 5))
	require.NoError(t, err)
	assert.Equal(t, kano.CategoryExcitement, f.Category())
	assert.Contains(t, updated.StrengthAreas, "Dark mode")

	got, err := svc.Analysis(a.ID)
	require.NoError(t, err)
	require.Len(t, got.Features, 1)
	assert.Equal(t, f.ID, got.Features[0].ID)
	assert.Equal(t, updated.OverallScore, got.OverallScore)
}

func TestAddFeature_InvalidScore(t *testing.T) {
	svc := newTestService(t)
	a, err := svc.CreateAnalysis("Acme", "", kano.CompanySelf)
	require.NoError(t, err)

	_, _, err = svc.AddFeature(a.ID, input("Bad", "", 3, 0, 3))
	assert.ErrorIs(t, err, kano.ErrInvalidScore)

	got, err := svc.Analysis(a.ID)
	require.NoError(t, err)
	assert.Empty(t, got.Features)
}

func TestUpdateFeature_Rederives(t *testing.T) {
	svc := newTestService(t)
	a, err := svc.CreateAnalysis("Acme", "", kano.CompanySelf)
	require.NoError(t, err)
	f, _, err := svc.AddFeature(a.ID, input("Login", "Core", 2, 2, 3))
	require.NoError(t, err)
	require.Equal(t, kano.CategoryPerformance, f.Category())

	updated, analysis, err := svc.UpdateFeature(a.ID, f.ID, input("Login", "Core", -1, 2, 5))
	require.NoError(t, err)
	assert.Equal(t, kano.CategoryBasic, updated.Category())
	assert.Contains(t, analysis.WeaknessAreas, "Login")

	_, _, err = svc.UpdateFeature(a.ID, "nope", input("X", "", 0, 0, 1))
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRemoveFeature(t *testing.T) {
	svc := newTestService(t)
	a, err := svc.CreateAnalysis("Acme", "", kano.CompanySelf)
	require.NoError(t, err)
	f, _, err := svc.AddFeature(a.ID, input("Export", "", 1, 0, 2))
	require.NoError(t, err)

	after, err := svc.RemoveFeature(a.ID, f.ID)
	require.NoError(t, err)
	assert.Empty(t, after.Features)
	assert.Equal(t, 0.0, after.OverallScore)

	_, err = svc.RemoveFeature(a.ID, f.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteAnalysis(t *testing.T) {
	svc := newTestService(t)
	a, err := svc.CreateAnalysis("Acme", "", kano.CompanySelf)
	require.NoError(t, err)

	require.NoError(t, svc.DeleteAnalysis(a.ID))
	assert.ErrorIs(t, svc.DeleteAnalysis(a.ID), ErrNotFound)
}

func TestCompare_StoresLatest(t *testing.T) {
	svc := newTestService(t)
	self, err := svc.CreateAnalysis("Acme", "", kano.CompanySelf)
	require.NoError(t, err)
	rival, err := svc.CreateAnalysis("Globex", "", kano.CompanyCompetitor)
	require.NoError(t, err)

	var ids []string
	for _, name := range []string{"Themes", "Shortcuts", "Widgets"} {
		f, _, err := svc.AddFeature(self.ID, input(name, "UX", 2, -1, 4))
		require.NoError(t, err)
		ids = append(ids, f.ID)
	}

	c, err := svc.Compare(self.ID, []string{rival.ID})
	require.NoError(t, err)
	require.NotEmpty(t, c.Insights)
	assert.Equal(t, kano.InsightStrength, c.Insights[0].Type)
	assert.Equal(t, kano.PriorityHigh, c.Insights[0].Priority)
	assert.ElementsMatch(t, ids, c.Insights[0].RelatedFeatures)

	latest, err := svc.LatestComparison()
	require.NoError(t, err)
	require.NotNil(t, latest)
	assert.Equal(t, self.ID, latest.SelfID)
	assert.Equal(t, []string{rival.ID}, latest.CompetitorIDs)
	assert.Len(t, latest.Insights, len(c.Insights))
}

func TestCompare_Preconditions(t *testing.T) {
	svc := newTestService(t)
	self, err := svc.CreateAnalysis("Acme", "", kano.CompanySelf)
	require.NoError(t, err)
	other, err := svc.CreateAnalysis("Initech", "", kano.CompanySelf)
	require.NoError(t, err)
	rival, err := svc.CreateAnalysis("Globex", "", kano.CompanyCompetitor)
	require.NoError(t, err)

	tests := []struct {
		name        string
		selfID      string
		competitors []string
		want        error
	}{
		{"missing self", "", []string{"x"}, kano.ErrMissingSelf},
		{"no competitors", self.ID, nil, kano.ErrNoCompetitors},
		{"too many", self.ID, []string{"a", "b", "c"}, kano.ErrTooManyCompetitors},
		{"unknown competitor", self.ID, []string{"missing"}, ErrNotFound},
		{"competitor typed self", self.ID, []string{other.ID}, kano.ErrCompanyType},
		{"duplicate competitor", self.ID, []string{rival.ID, rival.ID}, kano.ErrDuplicateCompetitor},
		{"self as competitor", self.ID, []string{self.ID}, kano.ErrDuplicateCompetitor},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Compare(tt.selfID, tt.competitors)
			assert.ErrorIs(t, err, tt.want)
		})
	}

	latest, err := svc.LatestComparison()
	require.NoError(t, err)
	assert.Nil(t, latest)
}

const sampleYAML = `analyses:
  - company_name: Acme
    industry: SaaS
    company_type: self
    features:
      - name: Dark mode
        area: UX
        functional_score: 2
        dysfunctional_score: -1
        importance: 5
  - company_name: Globex
    company_type: competitor
    features:
      - name: SSO
        area: Security
        functional_score: 1
        dysfunctional_score: 2
        importance: 4
`

func TestImportYAML(t *testing.T) {
	svc := newTestService(t)

	imported, err := svc.ImportYAML(strings.NewReader(sampleYAML))
	require.NoError(t, err)
	require.Len(t, imported, 2)
	assert.Equal(t, kano.CompanySelf, imported[0].CompanyType)
	assert.Equal(t, kano.CategoryExcitement, imported[0].Features[0].Category())
	assert.Equal(t, kano.CategoryPerformance, imported[1].Features[0].Category())

	all, err := svc.Analyses()
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestImportYAML_RejectsWholeDocument(t *testing.T) {
	svc := newTestService(t)
	bad := strings.Replace(sampleYAML, "importance: 4", "importance: 9", 1)

	_, err := svc.ImportYAML(strings.NewReader(bad))
	assert.ErrorIs(t, err, kano.ErrInvalidImportance)

	all, err := svc.Analyses()
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestImportYAML_UnknownField(t *testing.T) {
	svc := newTestService(t)
	_, err := svc.ImportYAML(strings.NewReader("analyses:\n  - company_nam: typo\n"))
	assert.Error(t, err)
}

func TestExportYAML_RoundTrip(t *testing.T) {
	svc := newTestService(t)
	_, err := svc.ImportYAML(strings.NewReader(sampleYAML))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, svc.ExportYAML(&buf))
	assert.Contains(t, buf.String(), "company_name: Acme")
	assert.NotContains(t, buf.String(), "category")

	other := newTestService(t)
	again, err := other.ImportYAML(&buf)
	require.NoError(t, err)
	require.Len(t, again, 2)
	assert.Equal(t, "Dark mode", again[0].Features[0].Name)
	assert.Equal(t, 5, again[0].Features[0].Importance())
}

func TestCategoryTotals(t *testing.T) {
	svc := newTestService(t)
	a, err := svc.CreateAnalysis("Acme", "", kano.CompanySelf)
	require.NoError(t, err)
	_, _, err = svc.AddFeature(a.ID, input("One", "", 2, -1, 3))
	require.NoError(t, err)
	_, _, err = svc.AddFeature(a.ID, input("Two", "", 2, 0, 3))
	require.NoError(t, err)

	totals, err := svc.CategoryTotals(a.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, totals[kano.CategoryExcitement])
	assert.Contains(t, totals, kano.CategoryBasic)
	assert.Equal(t, 0, totals[kano.CategoryBasic])

	_, err = svc.CategoryTotals("missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAddFeature_ConcurrentWritesAllPersist(t *testing.T) {
	db, err := store.Open(filepath.Join(t.TempDir(), "hoshin.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	svc := New(db, kano.DefaultThresholds())

	a, err := svc.CreateAnalysis("Acme", "", kano.CompanySelf)
	require.NoError(t, err)

	const writers = 20
	var wg sync.WaitGroup
	errs := make(chan error, writers)
	for i := range writers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _, err := svc.AddFeature(a.ID, input(fmt.Sprintf("Feature %d", i), "UX", 2, -1, 3))
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	got, err := svc.Analysis(a.ID)
	require.NoError(t, err)
	assert.Len(t, got.Features, writers)
}

func TestUpdateAndRemove_ConcurrentWithAdds(t *testing.T) {
	db, err := store.Open(filepath.Join(t.TempDir(), "hoshin.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	svc := New(db, kano.DefaultThresholds())

	a, err := svc.CreateAnalysis("Acme", "", kano.CompanySelf)
	require.NoError(t, err)
	keep, _, err := svc.AddFeature(a.ID, input("Keep", "UX", 2, -1, 3))
	require.NoError(t, err)
	drop, _, err := svc.AddFeature(a.ID, input("Drop", "UX", 2, -1, 3))
	require.NoError(t, err)

	var wg sync.WaitGroup
	errs := make(chan error, 6)
	for i := range 4 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _, err := svc.AddFeature(a.ID, input(fmt.Sprintf("New %d", i), "UX", 1, 2, 4))
			errs <- err
		}()
	}
	wg.Add(2)
	go func() {
		defer wg.Done()
		_, _, err := svc.UpdateFeature(a.ID, keep.ID, input("Keep", "UX", 1, 2, 5))
		errs <- err
	}()
	go func() {
		defer wg.Done()
		_, err := svc.RemoveFeature(a.ID, drop.ID)
		errs <- err
	}()
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	got, err := svc.Analysis(a.ID)
	require.NoError(t, err)
	assert.Len(t, got.Features, 5)
	f := got.Feature(keep.ID)
	require.NotNil(t, f)
	assert.Equal(t, kano.CategoryPerformance, f.Category())
	assert.Nil(t, got.Feature(drop.ID))
}

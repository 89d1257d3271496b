package kano

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func insightsOfType(insights []Insight, typ InsightType) []Insight {
	var out []Insight
	for _, in := range insights {
		if in.Type == typ {
			out = append(out, in)
		}
	}
	return out
}

// --- Preconditions ---

func TestGenerateInsights_NoCompetitors(t *testing.T) {
	self := mustAnalysis(t, "Acme", CompanySelf)
	_, err := GenerateInsights(self, nil, DefaultThresholds())
	assert.ErrorIs(t, err, ErrNoCompetitors)
}

func TestGenerateInsights_MissingSelf(t *testing.T) {
	comp := mustAnalysis(t, "Rival", CompanyCompetitor)
	_, err := GenerateInsights(nil, []*CompanyAnalysis{comp}, DefaultThresholds())
	assert.ErrorIs(t, err, ErrMissingSelf)
}

func TestGenerateInsights_TooManyCompetitors(t *testing.T) {
	self := mustAnalysis(t, "Acme", CompanySelf)
	comps := []*CompanyAnalysis{
		mustAnalysis(t, "R1", CompanyCompetitor),
		mustAnalysis(t, "R2", CompanyCompetitor),
		mustAnalysis(t, "R3", CompanyCompetitor),
	}
	_, err := GenerateInsights(self, comps, DefaultThresholds())
	assert.ErrorIs(t, err, ErrTooManyCompetitors)
}

func TestGenerateInsights_WrongCompanyTypes(t *testing.T) {
	self := mustAnalysis(t, "Acme", CompanySelf)
	rival := mustAnalysis(t, "Rival", CompanyCompetitor)

	_, err := GenerateInsights(rival, []*CompanyAnalysis{self}, DefaultThresholds())
	assert.ErrorIs(t, err, ErrCompanyType)

	other := mustAnalysis(t, "Other", CompanySelf)
	_, err = GenerateInsights(self, []*CompanyAnalysis{other}, DefaultThresholds())
	assert.ErrorIs(t, err, ErrCompanyType)
}

func TestGenerateInsights_DuplicateCompetitor(t *testing.T) {
	self := mustAnalysis(t, "Acme", CompanySelf)
	rival := mustAnalysis(t, "Rival", CompanyCompetitor,
		mustFeature(t, "SSO", "Security", 1, 2, 4))

	_, err := GenerateInsights(self, []*CompanyAnalysis{rival, rival}, DefaultThresholds())
	assert.ErrorIs(t, err, ErrDuplicateCompetitor)

	copied := *rival
	_, err = NewComparison(self, []*CompanyAnalysis{rival, &copied}, DefaultThresholds(), testNow)
	assert.ErrorIs(t, err, ErrDuplicateCompetitor)
}

func TestGenerateInsights_EmptyFeatureSets(t *testing.T) {
	self := mustAnalysis(t, "Acme", CompanySelf)
	comp := mustAnalysis(t, "Rival", CompanyCompetitor)
	insights, err := GenerateInsights(self, []*CompanyAnalysis{comp}, DefaultThresholds())
	require.NoError(t, err)
	assert.Empty(t, insights)
	assert.NotNil(t, insights)
}

// --- Strengths ---

func TestGenerateInsights_StrengthWhenCompetitorsHaveNone(t *testing.T) {
	f1 := mustFeature(t, "Themes", "UX", 2, -2, 3)
	f2 := mustFeature(t, "Shortcuts", "UX", 1, 0, 2)
	f3 := mustFeature(t, "Animations", "UX", 2, -1, 4)
	self := mustAnalysis(t, "Acme", CompanySelf, f1, f2, f3)
	r1 := mustAnalysis(t, "R1", CompanyCompetitor, mustFeature(t, "Login", "Core", -1, 2, 5))
	r2 := mustAnalysis(t, "R2", CompanyCompetitor)

	insights, err := GenerateInsights(self, []*CompanyAnalysis{r1, r2}, DefaultThresholds())
	require.NoError(t, err)

	strengths := insightsOfType(insights, InsightStrength)
	require.Len(t, strengths, 1)
	assert.Equal(t, "UX", strengths[0].Area)
	assert.ElementsMatch(t, []string{f1.ID, f2.ID, f3.ID}, strengths[0].RelatedFeatures)
	assert.Equal(t, PriorityHigh, strengths[0].Priority)
}

func TestGenerateInsights_EndToEndStrength(t *testing.T) {
	mine := mustFeature(t, "Instant preview", "Editor", 2, -1, 5)
	theirs := mustFeature(t, "Preview", "Editor", -1, 2, 3)
	require.Equal(t, CategoryExcitement, mine.Category())
	require.Equal(t, CategoryBasic, theirs.Category())

	self := mustAnalysis(t, "Acme", CompanySelf, mine)
	comp := mustAnalysis(t, "Rival", CompanyCompetitor, theirs)

	insights, err := GenerateInsights(self, []*CompanyAnalysis{comp}, DefaultThresholds())
	require.NoError(t, err)
	require.Len(t, insights, 1)

	got := insights[0]
	assert.Equal(t, InsightStrength, got.Type)
	assert.Equal(t, "Editor", got.Area)
	assert.Equal(t, PriorityHigh, got.Priority)
	assert.Equal(t, []string{mine.ID}, got.RelatedFeatures)
}

func TestStrengths_PartialLeadPriority(t *testing.T) {
	self := mustAnalysis(t, "Acme", CompanySelf,
		mustFeature(t, "a", "UX", 2, 0, 3),
		mustFeature(t, "b", "UX", 2, 0, 3),
		mustFeature(t, "c", "UX", 2, 0, 3),
	)
	comp := mustAnalysis(t, "Rival", CompanyCompetitor,
		mustFeature(t, "x", "UX", 2, 0, 3),
	)
	ctx := newComparisonContext(self, []*CompanyAnalysis{comp}, DefaultThresholds())
	got := Strengths(ctx)
	require.Len(t, got, 1)
	// lead = (3-1)/3
	assert.Equal(t, PriorityMedium, got[0].Priority)

	comp.AddFeature(mustFeature(t, "y", "UX", 2, 0, 3), DefaultThresholds())
	ctx = newComparisonContext(self, []*CompanyAnalysis{comp}, DefaultThresholds())
	got = Strengths(ctx)
	require.Len(t, got, 1)
	assert.Equal(t, PriorityLow, got[0].Priority)
}

func TestStrengths_TieIsNotStrength(t *testing.T) {
	self := mustAnalysis(t, "Acme", CompanySelf, mustFeature(t, "a", "UX", 2, 0, 3))
	comp := mustAnalysis(t, "Rival", CompanyCompetitor, mustFeature(t, "b", "UX", 2, 1, 3))
	ctx := newComparisonContext(self, []*CompanyAnalysis{comp}, DefaultThresholds())
	assert.Empty(t, Strengths(ctx))
}

// --- Opportunities ---

func TestOpportunities_GapScalesPriority(t *testing.T) {
	self := mustAnalysis(t, "Acme", CompanySelf)
	r1 := mustAnalysis(t, "R1", CompanyCompetitor,
		mustFeature(t, "a", "AI", 2, 1, 3),
		mustFeature(t, "b", "AI", 2, 0, 3),
	)
	r2 := mustAnalysis(t, "R2", CompanyCompetitor,
		mustFeature(t, "c", "AI", 2, 1, 3),
		mustFeature(t, "d", "AI", 1, 1, 3),
		mustFeature(t, "e", "Search", 1, 1, 3),
	)
	ctx := newComparisonContext(self, []*CompanyAnalysis{r1, r2}, DefaultThresholds())
	got := Opportunities(ctx)
	require.Len(t, got, 2)

	assert.Equal(t, "AI", got[0].Area)
	assert.Equal(t, PriorityHigh, got[0].Priority)
	assert.Len(t, got[0].RelatedFeatures, 4)

	// Search: average 0.5 against 0.
	assert.Equal(t, "Search", got[1].Area)
	assert.Equal(t, PriorityLow, got[1].Priority)
}

func TestOpportunities_NoGap(t *testing.T) {
	self := mustAnalysis(t, "Acme", CompanySelf, mustFeature(t, "a", "AI", 2, 1, 3))
	comp := mustAnalysis(t, "Rival", CompanyCompetitor, mustFeature(t, "b", "AI", 2, 1, 3))
	ctx := newComparisonContext(self, []*CompanyAnalysis{comp}, DefaultThresholds())
	assert.Empty(t, Opportunities(ctx))
}

// --- Threats ---

func TestThreats(t *testing.T) {
	tests := []struct {
		name     string
		features []*Feature
		want     Priority
	}{
		{"strong presence", []*Feature{
			mustFeature(t, "a", "AI", 2, 1, 2),
			mustFeature(t, "b", "AI", 2, 0, 2),
		}, PriorityHigh},
		{"single important feature", []*Feature{
			mustFeature(t, "a", "AI", 2, 1, 5),
		}, PriorityMedium},
		{"single minor feature", []*Feature{
			mustFeature(t, "a", "AI", 2, 1, 2),
		}, ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			self := mustAnalysis(t, "Acme", CompanySelf)
			comp := mustAnalysis(t, "Rival", CompanyCompetitor, tc.features...)
			ctx := newComparisonContext(self, []*CompanyAnalysis{comp}, DefaultThresholds())
			got := Threats(ctx)
			if tc.want == "" {
				assert.Empty(t, got)
				return
			}
			require.Len(t, got, 1)
			assert.Equal(t, tc.want, got[0].Priority)
			assert.Equal(t, featureIDs(tc.features), got[0].RelatedFeatures)
		})
	}
}

func TestThreats_SelfPresenceSuppresses(t *testing.T) {
	self := mustAnalysis(t, "Acme", CompanySelf, mustFeature(t, "mine", "AI", 1, 0, 1))
	comp := mustAnalysis(t, "Rival", CompanyCompetitor,
		mustFeature(t, "a", "AI", 2, 1, 5),
		mustFeature(t, "b", "AI", 2, 1, 5),
	)
	ctx := newComparisonContext(self, []*CompanyAnalysis{comp}, DefaultThresholds())
	assert.Empty(t, Threats(ctx))
}

// --- Weaknesses ---

func TestWeaknesses_ResolvedByCompetitors(t *testing.T) {
	login := mustFeature(t, "Login", "Core", -1, 2, 5)
	self := mustAnalysis(t, "Acme", CompanySelf, login)
	comp := mustAnalysis(t, "Rival", CompanyCompetitor, mustFeature(t, "Login", "Core", 0, 2, 5))

	ctx := newComparisonContext(self, []*CompanyAnalysis{comp}, DefaultThresholds())
	got := Weaknesses(ctx)
	require.Len(t, got, 1)
	assert.Equal(t, []string{login.ID}, got[0].RelatedFeatures)
	assert.Equal(t, PriorityHigh, got[0].Priority)
}

func TestWeaknesses_SharedNeedIsNotWeakness(t *testing.T) {
	self := mustAnalysis(t, "Acme", CompanySelf, mustFeature(t, "Login", "Core", -1, 2, 5))
	comp := mustAnalysis(t, "Rival", CompanyCompetitor, mustFeature(t, "Login", "Core", -1, 1, 5))
	ctx := newComparisonContext(self, []*CompanyAnalysis{comp}, DefaultThresholds())
	assert.Empty(t, Weaknesses(ctx))
}

func TestWeaknesses_LowImportanceIsMedium(t *testing.T) {
	self := mustAnalysis(t, "Acme", CompanySelf, mustFeature(t, "Export", "Data", 0, 1, 2))
	comp := mustAnalysis(t, "Rival", CompanyCompetitor)
	ctx := newComparisonContext(self, []*CompanyAnalysis{comp}, DefaultThresholds())
	got := Weaknesses(ctx)
	require.Len(t, got, 1)
	assert.Equal(t, PriorityMedium, got[0].Priority)
}

// --- Ordering ---

func TestGenerateInsights_SortedByPriority(t *testing.T) {
	self := mustAnalysis(t, "Acme", CompanySelf,
		mustFeature(t, "Themes", "UX", 2, -2, 5),
		mustFeature(t, "Export", "Data", 0, 1, 2),
		mustFeature(t, "Popups", "Ads", -2, 2, 1),
	)
	r1 := mustAnalysis(t, "R1", CompanyCompetitor,
		mustFeature(t, "Copilot", "AI", 2, 1, 5),
		mustFeature(t, "Summaries", "AI", 2, 0, 4),
		mustFeature(t, "Search", "Search", 1, 1, 2),
	)
	r2 := mustAnalysis(t, "R2", CompanyCompetitor,
		mustFeature(t, "Assistant", "AI", 2, 1, 5),
	)

	insights, err := GenerateInsights(self, []*CompanyAnalysis{r1, r2}, DefaultThresholds())
	require.NoError(t, err)
	require.NotEmpty(t, insights)

	for i := 1; i < len(insights); i++ {
		if PriorityRank(insights[i].Priority) > PriorityRank(insights[i-1].Priority) {
			t.Errorf("insights not sorted: index %d (%s) above index %d (%s)",
				i, insights[i].Priority, i-1, insights[i-1].Priority)
		}
	}

	for _, in := range insights {
		assert.NotEmpty(t, in.RelatedFeatures, "insight %q has no evidence", in.Title)
	}
}

func TestGenerateInsights_Idempotent(t *testing.T) {
	self := mustAnalysis(t, "Acme", CompanySelf, mustFeature(t, "a", "UX", 2, 0, 5))
	comp := mustAnalysis(t, "Rival", CompanyCompetitor, mustFeature(t, "b", "AI", 2, 1, 5))
	first, err := GenerateInsights(self, []*CompanyAnalysis{comp}, DefaultThresholds())
	require.NoError(t, err)
	second, err := GenerateInsights(self, []*CompanyAnalysis{comp}, DefaultThresholds())
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestRankInsights_StableWithinPriority(t *testing.T) {
	in := []Insight{
		{Title: "o-low", Type: InsightOpportunity, Priority: PriorityLow},
		{Title: "t-high", Type: InsightThreat, Priority: PriorityHigh},
		{Title: "s-low", Type: InsightStrength, Priority: PriorityLow},
		{Title: "w-high", Type: InsightWeakness, Priority: PriorityHigh},
		{Title: "o-med", Type: InsightOpportunity, Priority: PriorityMedium},
	}
	got := RankInsights(in)
	var titles []string
	for _, g := range got {
		titles = append(titles, g.Title)
	}
	assert.Equal(t, []string{"t-high", "w-high", "o-med", "o-low", "s-low"}, titles)
	// Input untouched.
	assert.Equal(t, "o-low", in[0].Title)
}

func TestNewEngine_PassOrder(t *testing.T) {
	e := NewEngine(DefaultThresholds())
	assert.Len(t, e.rules, 4)
}

func TestEngineRun_CustomRule(t *testing.T) {
	e := &Engine{rules: []Rule{func(ctx *ComparisonContext) []Insight {
		return []Insight{{Type: InsightThreat, Title: "custom", Priority: PriorityLow, Area: ctx.Self.CompanyName}}
	}}}
	self := mustAnalysis(t, "Acme", CompanySelf)
	comp := mustAnalysis(t, "Rival", CompanyCompetitor)
	got, err := e.Run(self, []*CompanyAnalysis{comp})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Acme", got[0].Area)
}

func TestNewComparison(t *testing.T) {
	self := mustAnalysis(t, "Acme", CompanySelf, mustFeature(t, "a", "UX", 2, 0, 5))
	comp := mustAnalysis(t, "Rival", CompanyCompetitor)
	c, err := NewComparison(self, []*CompanyAnalysis{comp}, DefaultThresholds(), testNow)
	require.NoError(t, err)
	assert.Same(t, self, c.Self)
	assert.Equal(t, testNow, c.CreatedAt)
	assert.Len(t, c.Insights, 1)
}

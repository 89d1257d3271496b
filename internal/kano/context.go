package kano

// ComparisonContext holds everything insight rules need. It is built once
// per comparison by the Engine.
type ComparisonContext struct {
	Self        *CompanyAnalysis
	Competitors []*CompanyAnalysis
	Thresholds  Thresholds

	// Areas lists every feature area across all companies: the self
	// company's areas first, in feature order, then areas only
	// competitors carry.
	Areas []string
}

func newComparisonContext(self *CompanyAnalysis, competitors []*CompanyAnalysis, th Thresholds) *ComparisonContext {
	ctx := &ComparisonContext{
		Self:        self,
		Competitors: competitors,
		Thresholds:  th,
	}
	seen := make(map[string]bool)
	for _, a := range append([]*CompanyAnalysis{self}, competitors...) {
		for _, area := range a.Areas() {
			if !seen[area] {
				seen[area] = true
				ctx.Areas = append(ctx.Areas, area)
			}
		}
	}
	return ctx
}

// Differentiators returns a's excitement and performance features in area.
func (c *ComparisonContext) Differentiators(a *CompanyAnalysis, area string) []*Feature {
	return filterArea(a, area, func(f *Feature) bool {
		return f.category.Differentiating()
	})
}

// Unmet returns a's basic and reverse features in area whose impact is
// below the weakness threshold.
func (c *ComparisonContext) Unmet(a *CompanyAnalysis, area string) []*Feature {
	return filterArea(a, area, func(f *Feature) bool {
		return isUnmet(f, c.Thresholds)
	})
}

// CompetitorAverage returns the mean differentiator count in area across
// competitors.
func (c *ComparisonContext) CompetitorAverage(area string) float64 {
	if len(c.Competitors) == 0 {
		return 0
	}
	total := 0
	for _, comp := range c.Competitors {
		total += len(c.Differentiators(comp, area))
	}
	return float64(total) / float64(len(c.Competitors))
}

func filterArea(a *CompanyAnalysis, area string, keep func(*Feature) bool) []*Feature {
	var out []*Feature
	for _, f := range a.Features {
		if f.AreaName() == area && keep(f) {
			out = append(out, f)
		}
	}
	return out
}

func featureIDs(features []*Feature) []string {
	ids := make([]string, len(features))
	for i, f := range features {
		ids[i] = f.ID
	}
	return ids
}

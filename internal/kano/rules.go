package kano

import (
	"fmt"
	"strings"
)

// Rule examines a comparison and produces zero or more insights.
type Rule func(ctx *ComparisonContext) []Insight

// Opportunities flags areas where the self company carries materially fewer
// differentiating features than the competitor average.
func Opportunities(ctx *ComparisonContext) []Insight {
	var insights []Insight
	for _, area := range ctx.Areas {
		selfCount := len(ctx.Differentiators(ctx.Self, area))
		avg := ctx.CompetitorAverage(area)
		gap := avg - float64(selfCount)
		if gap < ctx.Thresholds.OpportunityGap {
			continue
		}

		var related []*Feature
		for _, comp := range ctx.Competitors {
			related = append(related, ctx.Differentiators(comp, area)...)
		}

		priority := PriorityLow
		switch {
		case gap >= 2:
			priority = PriorityHigh
		case gap >= 1:
			priority = PriorityMedium
		}

		insights = append(insights, Insight{
			Type:  InsightOpportunity,
			Title: fmt.Sprintf("Differentiation gap in %s", area),
			Description: fmt.Sprintf(
				"Competitors average %.1f excitement/performance features in %s; %s has %d. "+
					"Closing the gap is a chance to differentiate.",
				avg, area, ctx.Self.CompanyName, selfCount,
			),
			Area:            area,
			RelatedFeatures: featureIDs(related),
			Priority:        priority,
		})
	}
	return insights
}

// Threats flags areas where a competitor has a strong differentiating
// presence and the self company has none.
func Threats(ctx *ComparisonContext) []Insight {
	var insights []Insight
	for _, area := range ctx.Areas {
		if len(ctx.Differentiators(ctx.Self, area)) > 0 {
			continue
		}
		for _, comp := range ctx.Competitors {
			diff := ctx.Differentiators(comp, area)
			if len(diff) == 0 {
				continue
			}
			strong := len(diff) >= ctx.Thresholds.ThreatPresence
			if !strong && !anyImportant(diff, ctx.Thresholds.StrengthImportance) {
				continue
			}

			priority := PriorityMedium
			if strong {
				priority = PriorityHigh
			}

			insights = append(insights, Insight{
				Type:  InsightThreat,
				Title: fmt.Sprintf("%s leads in %s", comp.CompanyName, area),
				Description: fmt.Sprintf(
					"%s offers %s in %s while %s has no excitement or performance features there.",
					comp.CompanyName, featureNames(diff), area, ctx.Self.CompanyName,
				),
				Area:            area,
				RelatedFeatures: featureIDs(diff),
				Priority:        priority,
			})
		}
	}
	return insights
}

// Strengths flags areas where the self company has strictly more
// differentiating features than every competitor.
func Strengths(ctx *ComparisonContext) []Insight {
	var insights []Insight
	for _, area := range ctx.Areas {
		own := ctx.Differentiators(ctx.Self, area)
		if len(own) == 0 {
			continue
		}
		best := 0
		for _, comp := range ctx.Competitors {
			if n := len(ctx.Differentiators(comp, area)); n > best {
				best = n
			}
		}
		if len(own) <= best {
			continue
		}

		lead := float64(len(own)-best) / float64(len(own))
		priority := PriorityLow
		switch {
		case lead >= 1:
			priority = PriorityHigh
		case lead >= 0.5:
			priority = PriorityMedium
		}

		insights = append(insights, Insight{
			Type:  InsightStrength,
			Title: fmt.Sprintf("%s leads in %s", ctx.Self.CompanyName, area),
			Description: fmt.Sprintf(
				"%s has %d excitement/performance features in %s against at most %d for any competitor.",
				ctx.Self.CompanyName, len(own), area, best,
			),
			Area:            area,
			RelatedFeatures: featureIDs(own),
			Priority:        priority,
		})
	}
	return insights
}

// Weaknesses flags areas where the self company has unmet basic or reverse
// features that no competitor shares.
func Weaknesses(ctx *ComparisonContext) []Insight {
	var insights []Insight
	for _, area := range ctx.Areas {
		unmet := ctx.Unmet(ctx.Self, area)
		if len(unmet) == 0 {
			continue
		}
		resolved := true
		for _, comp := range ctx.Competitors {
			if len(ctx.Unmet(comp, area)) > 0 {
				resolved = false
				break
			}
		}
		if !resolved {
			continue
		}

		priority := PriorityMedium
		for _, f := range unmet {
			if f.category == CategoryReverse || f.importance >= ctx.Thresholds.StrengthImportance {
				priority = PriorityHigh
				break
			}
		}

		insights = append(insights, Insight{
			Type:  InsightWeakness,
			Title: fmt.Sprintf("Unmet table stakes in %s", area),
			Description: fmt.Sprintf(
				"%s underperforms on %s in %s; competitors carry no unmet basic needs there.",
				ctx.Self.CompanyName, featureNames(unmet), area,
			),
			Area:            area,
			RelatedFeatures: featureIDs(unmet),
			Priority:        priority,
		})
	}
	return insights
}

func anyImportant(features []*Feature, min int) bool {
	for _, f := range features {
		if f.importance >= min {
			return true
		}
	}
	return false
}

func featureNames(features []*Feature) string {
	names := make([]string, len(features))
	for i, f := range features {
		names[i] = fmt.Sprintf("%q", f.Name)
	}
	return strings.Join(names, ", ")
}

package kano

import "math"

// Aggregate summarizes a company's feature set.
//
// OverallScore is the importance-weighted mean satisfaction impact mapped
// onto 0-100, so a company whose important features are all performance
// features scores 100. An empty feature set scores 0.
//
// StrengthAreas names differentiating features at or above the strength
// importance threshold. WeaknessAreas names basic or reverse features whose
// impact falls below the weakness threshold. Both lists keep feature order
// and drop duplicate names.
func Aggregate(features []*Feature, th Thresholds) Summary {
	summary := Summary{
		StrengthAreas: []string{},
		WeaknessAreas: []string{},
	}
	if len(features) == 0 {
		return summary
	}

	var weighted, totalWeight float64
	seenStrength := make(map[string]bool)
	seenWeakness := make(map[string]bool)

	for _, f := range features {
		w := float64(f.importance)
		weighted += f.impact * w
		totalWeight += w

		if f.category.Differentiating() && f.importance >= th.StrengthImportance && !seenStrength[f.Name] {
			seenStrength[f.Name] = true
			summary.StrengthAreas = append(summary.StrengthAreas, f.Name)
		}
		if isUnmet(f, th) && !seenWeakness[f.Name] {
			seenWeakness[f.Name] = true
			summary.WeaknessAreas = append(summary.WeaknessAreas, f.Name)
		}
	}

	if totalWeight > 0 {
		mean := weighted / totalWeight
		summary.OverallScore = round2((mean + 1) * 50)
	}
	return summary
}

// isUnmet reports whether f is an unresolved table-stakes feature.
func isUnmet(f *Feature, th Thresholds) bool {
	return f.category.TableStakes() && f.impact < th.WeaknessImpact
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// CategoryCounts returns the number of features in each category. Every
// category is present in the result, with zero for unused ones.
func CategoryCounts(features []*Feature) map[Category]int {
	counts := make(map[Category]int, len(Categories))
	for _, c := range Categories {
		counts[c] = 0
	}
	for _, f := range features {
		counts[f.category]++
	}
	return counts
}

package kano

import "sort"

// PriorityRank orders priorities for display: high=3, medium=2, low=1.
// Unknown priorities rank 0.
func PriorityRank(p Priority) int {
	switch p {
	case PriorityHigh:
		return 3
	case PriorityMedium:
		return 2
	case PriorityLow:
		return 1
	default:
		return 0
	}
}

// RankInsights sorts insights by priority, highest first. Insights of equal
// priority keep their original order.
func RankInsights(insights []Insight) []Insight {
	sorted := make([]Insight, len(insights))
	copy(sorted, insights)
	sort.SliceStable(sorted, func(i, j int) bool {
		return PriorityRank(sorted[i].Priority) > PriorityRank(sorted[j].Priority)
	})
	return sorted
}

package kano

import "fmt"

const (
	minScore = -2
	maxScore = 2

	minImportance = 1
	maxImportance = 5
)

// Impact weights. Presence delight counts slightly more than absence pain so
// that a performance feature outranks a basic one with the same magnitude.
const (
	functionalWeight    = 0.6
	dysfunctionalWeight = 0.4
)

// ValidateScores returns an error wrapping ErrInvalidScore if either score
// is outside [-2, 2].
func ValidateScores(functional, dysfunctional int) error {
	if functional < minScore || functional > maxScore {
		return fmt.Errorf("functional score %d: %w", functional, ErrInvalidScore)
	}
	if dysfunctional < minScore || dysfunctional > maxScore {
		return fmt.Errorf("dysfunctional score %d: %w", dysfunctional, ErrInvalidScore)
	}
	return nil
}

// ValidateImportance returns an error wrapping ErrInvalidImportance if
// importance is outside [1, 5].
func ValidateImportance(importance int) error {
	if importance < minImportance || importance > maxImportance {
		return fmt.Errorf("importance %d: %w", importance, ErrInvalidImportance)
	}
	return nil
}

// Classify maps a functional/dysfunctional score pair onto a Kano category.
//
//	functional > 0,  dysfunctional <= 0  excitement
//	functional > 0,  dysfunctional > 0   performance
//	functional <= 0, dysfunctional > 0   basic
//	functional <= 0, dysfunctional <= 0  indifferent
//
// The corner (-2, 2), where the respondent strongly dislikes the feature and
// strongly prefers its absence, is reverse. Out-of-range scores are rejected.
func Classify(functional, dysfunctional int) (Category, error) {
	if err := ValidateScores(functional, dysfunctional); err != nil {
		return "", err
	}
	return classify(functional, dysfunctional), nil
}

func classify(functional, dysfunctional int) Category {
	switch {
	case functional < -1 && dysfunctional > 1:
		return CategoryReverse
	case functional > 0 && dysfunctional > 0:
		return CategoryPerformance
	case functional > 0:
		return CategoryExcitement
	case dysfunctional > 0:
		return CategoryBasic
	default:
		return CategoryIndifferent
	}
}

// Impact returns the satisfaction impact of a score pair, a weighted
// combination normalized onto [-1, 1]. It increases with both scores;
// negative values mark features that require attention.
func Impact(functional, dysfunctional int) (float64, error) {
	if err := ValidateScores(functional, dysfunctional); err != nil {
		return 0, err
	}
	return impact(functional, dysfunctional), nil
}

func impact(functional, dysfunctional int) float64 {
	return (functionalWeight*float64(functional) + dysfunctionalWeight*float64(dysfunctional)) / maxScore
}

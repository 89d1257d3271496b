package kano

import (
	"fmt"
	"time"
)

// Engine runs the insight rules against a comparison and ranks the results.
type Engine struct {
	rules      []Rule
	thresholds Thresholds
}

// NewEngine creates an engine with the built-in rules registered in pass
// order: opportunities, threats, strengths, weaknesses.
func NewEngine(th Thresholds) *Engine {
	return &Engine{
		rules: []Rule{
			Opportunities,
			Threats,
			Strengths,
			Weaknesses,
		},
		thresholds: th,
	}
}

// Run validates the comparison inputs, executes every rule, and returns the
// insights sorted by priority.
func (e *Engine) Run(self *CompanyAnalysis, competitors []*CompanyAnalysis) ([]Insight, error) {
	if err := validateComparison(self, competitors); err != nil {
		return nil, err
	}
	ctx := newComparisonContext(self, competitors, e.thresholds)

	all := []Insight{}
	for _, rule := range e.rules {
		all = append(all, rule(ctx)...)
	}
	return RankInsights(all), nil
}

// GenerateInsights runs the default engine.
func GenerateInsights(self *CompanyAnalysis, competitors []*CompanyAnalysis, th Thresholds) ([]Insight, error) {
	return NewEngine(th).Run(self, competitors)
}

// NewComparison generates insights and wraps them in a Comparison stamped
// with now.
func NewComparison(self *CompanyAnalysis, competitors []*CompanyAnalysis, th Thresholds, now time.Time) (*Comparison, error) {
	insights, err := GenerateInsights(self, competitors, th)
	if err != nil {
		return nil, err
	}
	return &Comparison{
		Self:        self,
		Competitors: competitors,
		Insights:    insights,
		CreatedAt:   now,
	}, nil
}

func validateComparison(self *CompanyAnalysis, competitors []*CompanyAnalysis) error {
	if self == nil {
		return ErrMissingSelf
	}
	if self.CompanyType != CompanySelf {
		return fmt.Errorf("%s is a %s: %w", self.CompanyName, self.CompanyType, ErrCompanyType)
	}
	if len(competitors) == 0 {
		return ErrNoCompetitors
	}
	if len(competitors) > MaxCompetitors {
		return fmt.Errorf("got %d: %w", len(competitors), ErrTooManyCompetitors)
	}
	seen := map[string]bool{self.ID: true}
	for _, c := range competitors {
		if c == nil {
			return ErrNoCompetitors
		}
		if c.CompanyType != CompanyCompetitor {
			return fmt.Errorf("%s is a %s: %w", c.CompanyName, c.CompanyType, ErrCompanyType)
		}
		if seen[c.ID] {
			return fmt.Errorf("%s: %w", c.CompanyName, ErrDuplicateCompetitor)
		}
		seen[c.ID] = true
	}
	return nil
}

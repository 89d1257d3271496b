// Package tracker is the state container for Kano analyses. It applies
// every mutation to a full analysis, re-derives the affected feature and
// aggregate, and persists the result as one unit.
package tracker

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/blackwell-systems/hoshin/internal/kano"
	"github.com/blackwell-systems/hoshin/internal/store"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// Repository persists analyses and comparisons. *store.DB satisfies it.
type Repository interface {
	SaveAnalysis(a *kano.CompanyAnalysis) error
	SaveAnalyses(list []*kano.CompanyAnalysis) error
	UpdateAnalysis(id string, fn func(*kano.CompanyAnalysis) error) (*kano.CompanyAnalysis, error)
	GetAnalysis(id string) (*kano.CompanyAnalysis, error)
	ListAnalyses() ([]*kano.CompanyAnalysis, error)
	DeleteAnalysis(id string) error
	SaveComparison(c *kano.Comparison) (int64, error)
	LatestComparison() (*store.ComparisonRecord, error)
}

// ErrNotFound is returned when an analysis or feature does not exist.
var ErrNotFound = errors.New("not found")

// Service coordinates analyses and comparisons over a Repository. It is
// safe for concurrent use.
type Service struct {
	// mu serializes writes from this process. UpdateAnalysis covers
	// writers in other processes.
	mu sync.Mutex

	repo       Repository
	thresholds kano.Thresholds
	logger     zerolog.Logger
	now        func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithClock overrides the time source, for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithLogger sets the logger used for mutation events.
func WithLogger(l zerolog.Logger) Option {
	return func(s *Service) { s.logger = l }
}

// New returns a Service backed by repo.
func New(repo Repository, th kano.Thresholds, opts ...Option) *Service {
	s := &Service{
		repo:       repo,
		thresholds: th,
		logger:     zerolog.Nop(),
		now:        func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Thresholds returns the thresholds used for aggregation and insights.
func (s *Service) Thresholds() kano.Thresholds {
	return s.thresholds
}

// CreateAnalysis starts a new, empty analysis.
func (s *Service) CreateAnalysis(companyName, industry string, companyType kano.CompanyType) (*kano.CompanyAnalysis, error) {
	a, err := kano.NewCompanyAnalysis(companyName, industry, companyType, s.now())
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.repo.SaveAnalysis(a); err != nil {
		return nil, fmt.Errorf("saving analysis: %w", err)
	}
	s.logger.Info().Str("analysis", a.ID).Str("company", a.CompanyName).
		Str("type", string(a.CompanyType)).Msg("analysis created")
	return a, nil
}

// Analysis loads one analysis with its summary refreshed against the
// current thresholds.
func (s *Service) Analysis(id string) (*kano.CompanyAnalysis, error) {
	a, err := s.repo.GetAnalysis(id)
	if err != nil {
		return nil, mapNotFound(err)
	}
	a.Refresh(s.thresholds)
	return a, nil
}

// Analyses loads every analysis.
func (s *Service) Analyses() ([]*kano.CompanyAnalysis, error) {
	all, err := s.repo.ListAnalyses()
	if err != nil {
		return nil, err
	}
	for _, a := range all {
		a.Refresh(s.thresholds)
	}
	return all, nil
}

// DeleteAnalysis removes an analysis and its features.
func (s *Service) DeleteAnalysis(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.repo.DeleteAnalysis(id); err != nil {
		return mapNotFound(err)
	}
	s.logger.Info().Str("analysis", id).Msg("analysis deleted")
	return nil
}

// CategoryTotals counts the features of an analysis per category. Every
// category is present, zero or not.
func (s *Service) CategoryTotals(analysisID string) (map[kano.Category]int, error) {
	a, err := s.repo.GetAnalysis(analysisID)
	if err != nil {
		return nil, mapNotFound(err)
	}
	return kano.CategoryCounts(a.Features), nil
}

// AddFeature classifies a new feature, appends it to the analysis and
// persists the refreshed analysis.
func (s *Service) AddFeature(analysisID string, in kano.FeatureInput) (*kano.Feature, *kano.CompanyAnalysis, error) {
	f, err := kano.NewFeature(in, s.now())
	if err != nil {
		return nil, nil, err
	}
	a, err := s.update(analysisID, func(a *kano.CompanyAnalysis) error {
		a.AddFeature(f, s.thresholds)
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	s.logger.Debug().Str("analysis", a.ID).Str("feature", f.ID).
		Str("category", string(f.Category())).Float64("impact", f.SatisfactionImpact()).
		Msg("feature added")
	return f, a, nil
}

// UpdateFeature replaces a feature's editable fields, re-deriving its
// category and impact and the owning analysis summary.
func (s *Service) UpdateFeature(analysisID, featureID string, in kano.FeatureInput) (*kano.Feature, *kano.CompanyAnalysis, error) {
	var f *kano.Feature
	a, err := s.update(analysisID, func(a *kano.CompanyAnalysis) error {
		var err error
		f, err = a.UpdateFeature(featureID, in, s.thresholds, s.now())
		if errors.Is(err, kano.ErrFeatureNotFound) {
			return fmt.Errorf("feature %s: %w", featureID, ErrNotFound)
		}
		return err
	})
	if err != nil {
		return nil, nil, err
	}
	s.logger.Debug().Str("analysis", a.ID).Str("feature", f.ID).
		Str("category", string(f.Category())).Msg("feature updated")
	return f, a, nil
}

// RemoveFeature deletes a feature and refreshes the owning analysis.
func (s *Service) RemoveFeature(analysisID, featureID string) (*kano.CompanyAnalysis, error) {
	a, err := s.update(analysisID, func(a *kano.CompanyAnalysis) error {
		if !a.RemoveFeature(featureID, s.thresholds) {
			return fmt.Errorf("feature %s: %w", featureID, ErrNotFound)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.logger.Debug().Str("analysis", a.ID).Str("feature", featureID).Msg("feature removed")
	return a, nil
}

// update runs fn against the stored analysis and saves the result as one
// atomic read-modify-write.
func (s *Service) update(id string, fn func(*kano.CompanyAnalysis) error) (*kano.CompanyAnalysis, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, err := s.repo.UpdateAnalysis(id, func(a *kano.CompanyAnalysis) error {
		a.Refresh(s.thresholds)
		return fn(a)
	})
	if err != nil {
		return nil, mapNotFound(err)
	}
	return a, nil
}

// Compare loads the self analysis and competitors, generates a fresh
// comparison and stores it in place of the previous one.
func (s *Service) Compare(selfID string, competitorIDs []string) (*kano.Comparison, error) {
	if selfID == "" {
		return nil, kano.ErrMissingSelf
	}
	if len(competitorIDs) == 0 {
		return nil, kano.ErrNoCompetitors
	}
	if len(competitorIDs) > kano.MaxCompetitors {
		return nil, fmt.Errorf("got %d: %w", len(competitorIDs), kano.ErrTooManyCompetitors)
	}
	seen := map[string]bool{selfID: true}
	for _, id := range competitorIDs {
		if seen[id] {
			return nil, fmt.Errorf("%s: %w", id, kano.ErrDuplicateCompetitor)
		}
		seen[id] = true
	}

	ids := append([]string{selfID}, competitorIDs...)
	loaded := make([]*kano.CompanyAnalysis, len(ids))

	var g errgroup.Group
	for i, id := range ids {
		g.Go(func() error {
			a, err := s.Analysis(id)
			if err != nil {
				return err
			}
			loaded[i] = a
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	c, err := kano.NewComparison(loaded[0], loaded[1:], s.thresholds, s.now())
	if err != nil {
		return nil, err
	}
	if _, err := s.repo.SaveComparison(c); err != nil {
		return nil, fmt.Errorf("saving comparison: %w", err)
	}
	s.logger.Info().Str("self", selfID).Strs("competitors", competitorIDs).
		Int("insights", len(c.Insights)).Msg("comparison generated")
	return c, nil
}

// LatestComparison returns the stored comparison, or nil if none exists.
func (s *Service) LatestComparison() (*store.ComparisonRecord, error) {
	return s.repo.LatestComparison()
}

func mapNotFound(err error) error {
	if errors.Is(err, store.ErrNotFound) {
		return fmt.Errorf("%w: %w", ErrNotFound, err)
	}
	return err
}

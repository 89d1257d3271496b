package kano

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// FeatureInput carries the user-editable fields of a feature. It is the only
// way scores and importance enter a Feature.
type FeatureInput struct {
	Name               string   `json:"name" yaml:"name" validate:"required"`
	Description        string   `json:"description,omitempty" yaml:"description,omitempty"`
	Area               string   `json:"area,omitempty" yaml:"area,omitempty"`
	FunctionalScore    int      `json:"functional_score" yaml:"functional_score" validate:"min=-2,max=2"`
	DysfunctionalScore int      `json:"dysfunctional_score" yaml:"dysfunctional_score" validate:"min=-2,max=2"`
	Importance         int      `json:"importance" yaml:"importance" validate:"min=1,max=5"`
	LinkedObjectiveIDs []string `json:"linked_objective_ids,omitempty" yaml:"linked_objective_ids,omitempty"`
}

// Validate checks field constraints and maps failures onto the package's
// sentinel errors.
func (in FeatureInput) Validate() error {
	err := validate.Struct(in)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return fmt.Errorf("%w: %v", ErrInvalidFeature, err)
	}
	fe := verrs[0]
	switch fe.Field() {
	case "FunctionalScore":
		return fmt.Errorf("functional score %v: %w", fe.Value(), ErrInvalidScore)
	case "DysfunctionalScore":
		return fmt.Errorf("dysfunctional score %v: %w", fe.Value(), ErrInvalidScore)
	case "Importance":
		return fmt.Errorf("importance %v: %w", fe.Value(), ErrInvalidImportance)
	default:
		return fmt.Errorf("%w: %s failed %q", ErrInvalidFeature, fe.Field(), fe.Tag())
	}
}

// Feature is a product capability under evaluation. Category and
// satisfaction impact are derived from the score pair and cannot be set
// directly; SetScores and Apply re-derive them atomically.
type Feature struct {
	ID                 string
	Name               string
	Description        string
	Area               string
	LinkedObjectiveIDs []string
	CreatedAt          time.Time
	UpdatedAt          time.Time

	functional    int
	dysfunctional int
	importance    int
	category      Category
	impact        float64
}

// NewFeature validates in and returns a feature with a fresh ID.
func NewFeature(in FeatureInput, now time.Time) (*Feature, error) {
	return RestoreFeature(uuid.NewString(), in, now, now)
}

// RestoreFeature rebuilds a previously persisted feature. Derived fields are
// recomputed rather than trusted.
func RestoreFeature(id string, in FeatureInput, createdAt, updatedAt time.Time) (*Feature, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: empty id", ErrInvalidFeature)
	}
	f := &Feature{ID: id, CreatedAt: createdAt}
	if err := f.Apply(in, updatedAt); err != nil {
		return nil, err
	}
	return f, nil
}

// Apply replaces every editable field with the values from in.
// On validation failure the feature is left unchanged.
func (f *Feature) Apply(in FeatureInput, now time.Time) error {
	if err := in.Validate(); err != nil {
		return err
	}
	f.Name = in.Name
	f.Description = in.Description
	f.Area = in.Area
	f.importance = in.Importance
	f.LinkedObjectiveIDs = append([]string(nil), in.LinkedObjectiveIDs...)
	f.setScores(in.FunctionalScore, in.DysfunctionalScore)
	f.UpdatedAt = now
	return nil
}

// SetScores updates both survey scores and re-derives category and impact.
func (f *Feature) SetScores(functional, dysfunctional int, now time.Time) error {
	if err := ValidateScores(functional, dysfunctional); err != nil {
		return err
	}
	f.setScores(functional, dysfunctional)
	f.UpdatedAt = now
	return nil
}

func (f *Feature) setScores(functional, dysfunctional int) {
	f.functional = functional
	f.dysfunctional = dysfunctional
	f.category = classify(functional, dysfunctional)
	f.impact = impact(functional, dysfunctional)
}

// FunctionalScore is the respondent reaction when the feature is present.
func (f *Feature) FunctionalScore() int { return f.functional }

// DysfunctionalScore is the respondent reaction when the feature is absent.
func (f *Feature) DysfunctionalScore() int { return f.dysfunctional }

// Importance is the analyst-assigned weight in [1, 5].
func (f *Feature) Importance() int { return f.importance }

// Category returns the derived Kano category.
func (f *Feature) Category() Category { return f.category }

// SatisfactionImpact returns the derived impact score.
func (f *Feature) SatisfactionImpact() float64 { return f.impact }

// AreaName returns the feature's area, or DefaultArea when unset.
func (f *Feature) AreaName() string {
	if f.Area == "" {
		return DefaultArea
	}
	return f.Area
}

// Input returns the editable fields of f.
func (f *Feature) Input() FeatureInput {
	return FeatureInput{
		Name:               f.Name,
		Description:        f.Description,
		Area:               f.Area,
		FunctionalScore:    f.functional,
		DysfunctionalScore: f.dysfunctional,
		Importance:         f.importance,
		LinkedObjectiveIDs: append([]string(nil), f.LinkedObjectiveIDs...),
	}
}

// featureJSON is the wire form of a Feature.
type featureJSON struct {
	ID                 string    `json:"id"`
	Name               string    `json:"name"`
	Description        string    `json:"description,omitempty"`
	Area               string    `json:"area,omitempty"`
	FunctionalScore    int       `json:"functional_score"`
	DysfunctionalScore int       `json:"dysfunctional_score"`
	Importance         int       `json:"importance"`
	Category           Category  `json:"category"`
	SatisfactionImpact float64   `json:"satisfaction_impact"`
	LinkedObjectiveIDs []string  `json:"linked_objective_ids,omitempty"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// MarshalJSON implements json.Marshaler.
func (f *Feature) MarshalJSON() ([]byte, error) {
	return json.Marshal(featureJSON{
		ID:                 f.ID,
		Name:               f.Name,
		Description:        f.Description,
		Area:               f.Area,
		FunctionalScore:    f.functional,
		DysfunctionalScore: f.dysfunctional,
		Importance:         f.importance,
		Category:           f.category,
		SatisfactionImpact: f.impact,
		LinkedObjectiveIDs: f.LinkedObjectiveIDs,
		CreatedAt:          f.CreatedAt,
		UpdatedAt:          f.UpdatedAt,
	})
}

// UnmarshalJSON implements json.Unmarshaler. Category and impact in the
// payload are ignored and re-derived from the scores.
func (f *Feature) UnmarshalJSON(data []byte) error {
	var w featureJSON
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	restored, err := RestoreFeature(w.ID, FeatureInput{
		Name:               w.Name,
		Description:        w.Description,
		Area:               w.Area,
		FunctionalScore:    w.FunctionalScore,
		DysfunctionalScore: w.DysfunctionalScore,
		Importance:         w.Importance,
		LinkedObjectiveIDs: w.LinkedObjectiveIDs,
	}, w.CreatedAt, w.UpdatedAt)
	if err != nil {
		return err
	}
	*f = *restored
	return nil
}

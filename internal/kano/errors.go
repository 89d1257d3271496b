package kano

import "errors"

// Validation errors. Callers match them with errors.Is; returned errors wrap
// them with the offending value.
var (
	ErrInvalidScore      = errors.New("score out of range [-2, 2]")
	ErrInvalidImportance = errors.New("importance out of range [1, 5]")
	ErrInvalidFeature    = errors.New("invalid feature")
	ErrInvalidAnalysis   = errors.New("invalid analysis")
)

// Comparison precondition errors.
var (
	ErrMissingSelf         = errors.New("comparison requires a self company")
	ErrNoCompetitors       = errors.New("comparison requires at least one competitor")
	ErrTooManyCompetitors  = errors.New("comparison accepts at most two competitors")
	ErrCompanyType         = errors.New("company type does not match comparison slot")
	ErrDuplicateCompetitor = errors.New("comparison lists the same company more than once")
)

// ErrFeatureNotFound is returned when a feature ID does not belong to the
// analysis being edited.
var ErrFeatureNotFound = errors.New("feature not found")

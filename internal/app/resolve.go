package app

import (
	"errors"
	"fmt"
	"strings"

	"github.com/blackwell-systems/hoshin/internal/kano"
	"github.com/blackwell-systems/hoshin/internal/tracker"
)

// resolveAnalysis finds an analysis by full ID or unique ID prefix.
func resolveAnalysis(svc *tracker.Service, ref string) (*kano.CompanyAnalysis, error) {
	a, err := svc.Analysis(ref)
	if err == nil {
		return a, nil
	}
	if !errors.Is(err, tracker.ErrNotFound) {
		return nil, err
	}

	all, err := svc.Analyses()
	if err != nil {
		return nil, err
	}
	var matched *kano.CompanyAnalysis
	for _, cand := range all {
		if strings.HasPrefix(cand.ID, ref) {
			if matched != nil {
				return nil, fmt.Errorf("ambiguous analysis prefix %q; use more characters", ref)
			}
			matched = cand
		}
	}
	if matched == nil {
		return nil, fmt.Errorf("no analysis found matching %q: %w", ref, tracker.ErrNotFound)
	}
	return matched, nil
}

// resolveFeature finds a feature of a by full ID or unique ID prefix.
func resolveFeature(a *kano.CompanyAnalysis, ref string) (*kano.Feature, error) {
	if f := a.Feature(ref); f != nil {
		return f, nil
	}
	var matched *kano.Feature
	for _, f := range a.Features {
		if strings.HasPrefix(f.ID, ref) {
			if matched != nil {
				return nil, fmt.Errorf("ambiguous feature prefix %q; use more characters", ref)
			}
			matched = f
		}
	}
	if matched == nil {
		return nil, fmt.Errorf("no feature of %s found matching %q: %w", a.CompanyName, ref, tracker.ErrNotFound)
	}
	return matched, nil
}

// shortID abbreviates an ID for table output.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

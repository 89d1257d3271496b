package tracker

import (
	"errors"
	"fmt"
	"io"

	"github.com/blackwell-systems/hoshin/internal/kano"
	"gopkg.in/yaml.v3"
)

// Document is the on-disk YAML form of a set of analyses. Derived fields are
// never written; they are recomputed on import.
type Document struct {
	Analyses []AnalysisDoc `yaml:"analyses"`
}

// AnalysisDoc is one analysis in a Document.
type AnalysisDoc struct {
	CompanyName string              `yaml:"company_name"`
	Industry    string              `yaml:"industry,omitempty"`
	CompanyType kano.CompanyType    `yaml:"company_type"`
	Features    []kano.FeatureInput `yaml:"features,omitempty"`
}

// ImportYAML reads a Document and stores every analysis in it as a new
// analysis. The document is stored in one transaction: nothing is written
// when any entry fails validation or any save fails.
func (s *Service) ImportYAML(r io.Reader) ([]*kano.CompanyAnalysis, error) {
	var doc Document
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("decoding yaml: %w", err)
	}

	now := s.now()
	built := make([]*kano.CompanyAnalysis, 0, len(doc.Analyses))
	for i, ad := range doc.Analyses {
		a, err := kano.NewCompanyAnalysis(ad.CompanyName, ad.Industry, ad.CompanyType, now)
		if err != nil {
			return nil, fmt.Errorf("analysis %d: %w", i+1, err)
		}
		for j, in := range ad.Features {
			f, err := kano.NewFeature(in, now)
			if err != nil {
				return nil, fmt.Errorf("analysis %d (%s) feature %d: %w", i+1, ad.CompanyName, j+1, err)
			}
			a.Features = append(a.Features, f)
		}
		a.Refresh(s.thresholds)
		built = append(built, a)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.repo.SaveAnalyses(built); err != nil {
		return nil, fmt.Errorf("saving analyses: %w", err)
	}
	s.logger.Info().Int("analyses", len(built)).Msg("analyses imported")
	return built, nil
}

// ExportYAML writes the given analyses, or all of them when ids is empty.
func (s *Service) ExportYAML(w io.Writer, ids ...string) error {
	var list []*kano.CompanyAnalysis
	if len(ids) == 0 {
		all, err := s.Analyses()
		if err != nil {
			return err
		}
		list = all
	} else {
		for _, id := range ids {
			a, err := s.Analysis(id)
			if err != nil {
				return err
			}
			list = append(list, a)
		}
	}

	doc := Document{Analyses: make([]AnalysisDoc, 0, len(list))}
	for _, a := range list {
		ad := AnalysisDoc{
			CompanyName: a.CompanyName,
			Industry:    a.Industry,
			CompanyType: a.CompanyType,
		}
		for _, f := range a.Features {
			ad.Features = append(ad.Features, f.Input())
		}
		doc.Analyses = append(doc.Analyses, ad)
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encoding yaml: %w", err)
	}
	return enc.Close()
}

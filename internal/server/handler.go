package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/blackwell-systems/hoshin/internal/kano"
	"github.com/blackwell-systems/hoshin/internal/store"
	"github.com/blackwell-systems/hoshin/internal/tracker"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// Tracker is the subset of *tracker.Service the API needs.
type Tracker interface {
	CreateAnalysis(companyName, industry string, companyType kano.CompanyType) (*kano.CompanyAnalysis, error)
	Analysis(id string) (*kano.CompanyAnalysis, error)
	Analyses() ([]*kano.CompanyAnalysis, error)
	DeleteAnalysis(id string) error
	CategoryTotals(analysisID string) (map[kano.Category]int, error)
	AddFeature(analysisID string, in kano.FeatureInput) (*kano.Feature, *kano.CompanyAnalysis, error)
	UpdateFeature(analysisID, featureID string, in kano.FeatureInput) (*kano.Feature, *kano.CompanyAnalysis, error)
	RemoveFeature(analysisID, featureID string) (*kano.CompanyAnalysis, error)
	Compare(selfID string, competitorIDs []string) (*kano.Comparison, error)
	LatestComparison() (*store.ComparisonRecord, error)
}

// Handler serves the /api/v1 routes.
type Handler struct {
	tracker Tracker
}

// NewHandler returns a Handler backed by t.
func NewHandler(t Tracker) *Handler {
	return &Handler{tracker: t}
}

type classifyRequest struct {
	FunctionalScore    int `json:"functional_score"`
	DysfunctionalScore int `json:"dysfunctional_score"`
}

type classifyResponse struct {
	Category           kano.Category `json:"category"`
	SatisfactionImpact float64       `json:"satisfaction_impact"`
}

type createAnalysisRequest struct {
	CompanyName string           `json:"company_name"`
	Industry    string           `json:"industry"`
	CompanyType kano.CompanyType `json:"company_type"`
}

type featureResponse struct {
	Feature  *kano.Feature         `json:"feature"`
	Analysis *kano.CompanyAnalysis `json:"analysis"`
}

type compareRequest struct {
	SelfID        string   `json:"self_id"`
	CompetitorIDs []string `json:"competitor_ids"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// errBadRequest marks malformed request bodies.
var errBadRequest = errors.New("bad request")

func (h *Handler) Classify(w http.ResponseWriter, r *http.Request) {
	var req classifyRequest
	if err := decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	cat, err := kano.Classify(req.FunctionalScore, req.DysfunctionalScore)
	if err != nil {
		writeError(w, r, err)
		return
	}
	impact, err := kano.Impact(req.FunctionalScore, req.DysfunctionalScore)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, classifyResponse{Category: cat, SatisfactionImpact: impact})
}

func (h *Handler) ListAnalyses(w http.ResponseWriter, r *http.Request) {
	analyses, err := h.tracker.Analyses()
	if err != nil {
		writeError(w, r, err)
		return
	}
	if analyses == nil {
		analyses = []*kano.CompanyAnalysis{}
	}
	writeJSON(w, r, http.StatusOK, analyses)
}

func (h *Handler) CreateAnalysis(w http.ResponseWriter, r *http.Request) {
	var req createAnalysisRequest
	if err := decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	a, err := h.tracker.CreateAnalysis(req.CompanyName, req.Industry, req.CompanyType)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, a)
}

func (h *Handler) GetAnalysis(w http.ResponseWriter, r *http.Request) {
	a, err := h.tracker.Analysis(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, a)
}

func (h *Handler) DeleteAnalysis(w http.ResponseWriter, r *http.Request) {
	if err := h.tracker.DeleteAnalysis(chi.URLParam(r, "id")); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) CategoryTotals(w http.ResponseWriter, r *http.Request) {
	totals, err := h.tracker.CategoryTotals(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, totals)
}

func (h *Handler) AddFeature(w http.ResponseWriter, r *http.Request) {
	var in kano.FeatureInput
	if err := decode(r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	f, a, err := h.tracker.AddFeature(chi.URLParam(r, "id"), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, featureResponse{Feature: f, Analysis: a})
}

func (h *Handler) UpdateFeature(w http.ResponseWriter, r *http.Request) {
	var in kano.FeatureInput
	if err := decode(r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	f, a, err := h.tracker.UpdateFeature(chi.URLParam(r, "id"), chi.URLParam(r, "featureID"), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, featureResponse{Feature: f, Analysis: a})
}

func (h *Handler) RemoveFeature(w http.ResponseWriter, r *http.Request) {
	a, err := h.tracker.RemoveFeature(chi.URLParam(r, "id"), chi.URLParam(r, "featureID"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, a)
}

func (h *Handler) Compare(w http.ResponseWriter, r *http.Request) {
	var req compareRequest
	if err := decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	c, err := h.tracker.Compare(req.SelfID, req.CompetitorIDs)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, c)
}

func (h *Handler) LatestComparison(w http.ResponseWriter, r *http.Request) {
	rec, err := h.tracker.LatestComparison()
	if err != nil {
		writeError(w, r, err)
		return
	}
	if rec == nil {
		writeJSON(w, r, http.StatusNotFound, errorResponse{Error: "no comparison generated yet"})
		return
	}
	writeJSON(w, r, http.StatusOK, rec)
}

func decode(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%w: %v", errBadRequest, err)
	}
	return nil
}

// statusFor maps domain errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, errBadRequest),
		errors.Is(err, kano.ErrInvalidScore),
		errors.Is(err, kano.ErrInvalidImportance),
		errors.Is(err, kano.ErrInvalidFeature),
		errors.Is(err, kano.ErrInvalidAnalysis):
		return http.StatusBadRequest
	case errors.Is(err, tracker.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, kano.ErrMissingSelf),
		errors.Is(err, kano.ErrNoCompetitors),
		errors.Is(err, kano.ErrTooManyCompetitors),
		errors.Is(err, kano.ErrCompanyType),
		errors.Is(err, kano.ErrDuplicateCompetitor):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("request failed")
		msg = http.StatusText(status)
	}
	writeJSON(w, r, status, errorResponse{Error: msg})
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zerolog.Ctx(r.Context()).Error().
			Err(err).
			Msg("failed to encode response")
	}
}

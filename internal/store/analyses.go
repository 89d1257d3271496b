package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/blackwell-systems/hoshin/internal/kano"
)

const analysisColumns = `id, company_name, industry, company_type, overall_score,
	strength_areas, weakness_areas, analysis_date`

const featureColumns = `id, analysis_id, name, description, area, functional_score,
	dysfunctional_score, importance, linked_objective_ids, created_at, updated_at`

// querier is satisfied by *sql.DB, *sql.Tx and *sql.Conn.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// SaveAnalysis inserts or replaces an analysis together with its full
// feature list. Features no longer present on a are deleted.
func (db *DB) SaveAnalysis(a *kano.CompanyAnalysis) error {
	return db.SaveAnalyses([]*kano.CompanyAnalysis{a})
}

// SaveAnalyses stores every analysis in one transaction. Either all of them
// are written or none are.
func (db *DB) SaveAnalyses(list []*kano.CompanyAnalysis) error {
	ctx := context.Background()
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, a := range list {
		if err := saveAnalysis(ctx, tx, a); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// UpdateAnalysis loads an analysis, applies fn to it and saves the result
// inside one write transaction. The write lock is taken before the read, so
// concurrent updates from any connection or process are applied one after
// another. When fn returns an error nothing is written.
func (db *DB) UpdateAnalysis(id string, fn func(*kano.CompanyAnalysis) error) (*kano.CompanyAnalysis, error) {
	ctx := context.Background()
	conn, err := db.conn.Conn(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = conn.Close() }()

	// database/sql cannot start an IMMEDIATE transaction, so the
	// statements are issued on a pinned connection.
	if _, err := conn.ExecContext(ctx, "BEGIN IMMEDIATE"); err != nil {
		return nil, fmt.Errorf("locking analysis %s: %w", id, err)
	}
	committed := false
	defer func() {
		if !committed {
			_, _ = conn.ExecContext(ctx, "ROLLBACK")
		}
	}()

	a, err := getAnalysis(ctx, conn, id)
	if err != nil {
		return nil, err
	}
	if err := fn(a); err != nil {
		return nil, err
	}
	if err := saveAnalysis(ctx, conn, a); err != nil {
		return nil, err
	}
	if _, err := conn.ExecContext(ctx, "COMMIT"); err != nil {
		return nil, err
	}
	committed = true
	return a, nil
}

func saveAnalysis(ctx context.Context, q querier, a *kano.CompanyAnalysis) error {
	strengths, err := json.Marshal(nonNil(a.StrengthAreas))
	if err != nil {
		return err
	}
	weaknesses, err := json.Marshal(nonNil(a.WeaknessAreas))
	if err != nil {
		return err
	}

	if _, err := q.ExecContext(ctx,
		`INSERT INTO analyses (`+analysisColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			company_name = excluded.company_name,
			industry = excluded.industry,
			company_type = excluded.company_type,
			overall_score = excluded.overall_score,
			strength_areas = excluded.strength_areas,
			weakness_areas = excluded.weakness_areas`,
		a.ID, a.CompanyName, a.Industry, string(a.CompanyType), a.OverallScore,
		string(strengths), string(weaknesses), formatTime(a.AnalysisDate),
	); err != nil {
		return fmt.Errorf("saving analysis %s: %w", a.ID, err)
	}

	if _, err := q.ExecContext(ctx, "DELETE FROM features WHERE analysis_id = ?", a.ID); err != nil {
		return fmt.Errorf("clearing features of %s: %w", a.ID, err)
	}

	for i, f := range a.Features {
		linked, err := json.Marshal(nonNil(f.LinkedObjectiveIDs))
		if err != nil {
			return err
		}
		if _, err := q.ExecContext(ctx,
			`INSERT INTO features
			(id, analysis_id, position, name, description, area, functional_score,
			 dysfunctional_score, importance, category, satisfaction_impact,
			 linked_objective_ids, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			f.ID, a.ID, i, f.Name, f.Description, f.Area, f.FunctionalScore(),
			f.DysfunctionalScore(), f.Importance(), string(f.Category()),
			f.SatisfactionImpact(), string(linked),
			formatTime(f.CreatedAt), formatTime(f.UpdatedAt),
		); err != nil {
			return fmt.Errorf("saving feature %s: %w", f.ID, err)
		}
	}
	return nil
}

// GetAnalysis returns the analysis with the given ID, or ErrNotFound.
func (db *DB) GetAnalysis(id string) (*kano.CompanyAnalysis, error) {
	return getAnalysis(context.Background(), db.conn, id)
}

func getAnalysis(ctx context.Context, q querier, id string) (*kano.CompanyAnalysis, error) {
	row := q.QueryRowContext(ctx, "SELECT "+analysisColumns+" FROM analyses WHERE id = ?", id)
	a, err := scanAnalysis(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("analysis %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}

	features, err := queryFeatures(ctx, q, "WHERE analysis_id = ?", id)
	if err != nil {
		return nil, err
	}
	a.Features = features[id]
	if a.Features == nil {
		a.Features = []*kano.Feature{}
	}
	return a, nil
}

// ListAnalyses returns every analysis with its features, oldest first.
func (db *DB) ListAnalyses() ([]*kano.CompanyAnalysis, error) {
	rows, err := db.conn.Query("SELECT " + analysisColumns + " FROM analyses ORDER BY analysis_date, rowid")
	if err != nil {
		return nil, err
	}

	var analyses []*kano.CompanyAnalysis
	for rows.Next() {
		a, err := scanAnalysis(rows)
		if err != nil {
			_ = rows.Close()
			return nil, err
		}
		analyses = append(analyses, a)
	}
	if err := rows.Err(); err != nil {
		_ = rows.Close()
		return nil, err
	}
	_ = rows.Close()

	features, err := queryFeatures(context.Background(), db.conn, "")
	if err != nil {
		return nil, err
	}
	for _, a := range analyses {
		a.Features = features[a.ID]
		if a.Features == nil {
			a.Features = []*kano.Feature{}
		}
	}
	return analyses, nil
}

// DeleteAnalysis removes an analysis and all of its features.
func (db *DB) DeleteAnalysis(id string) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM features WHERE analysis_id = ?", id); err != nil {
		return err
	}
	res, err := tx.Exec("DELETE FROM analyses WHERE id = ?", id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("analysis %s: %w", id, ErrNotFound)
	}
	return tx.Commit()
}

// queryFeatures loads features matching where, grouped by analysis ID in
// stored order.
func queryFeatures(ctx context.Context, q querier, where string, args ...any) (map[string][]*kano.Feature, error) {
	rows, err := q.QueryContext(ctx,
		"SELECT "+featureColumns+" FROM features "+where+" ORDER BY analysis_id, position",
		args...,
	)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	out := make(map[string][]*kano.Feature)
	for rows.Next() {
		var (
			id, analysisID, linked, createdAt, updatedAt string
			in                                           kano.FeatureInput
		)
		if err := rows.Scan(
			&id, &analysisID, &in.Name, &in.Description, &in.Area,
			&in.FunctionalScore, &in.DysfunctionalScore, &in.Importance,
			&linked, &createdAt, &updatedAt,
		); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(linked), &in.LinkedObjectiveIDs); err != nil {
			return nil, fmt.Errorf("decoding objectives of feature %s: %w", id, err)
		}
		if len(in.LinkedObjectiveIDs) == 0 {
			in.LinkedObjectiveIDs = nil
		}
		f, err := kano.RestoreFeature(id, in, parseTime(createdAt), parseTime(updatedAt))
		if err != nil {
			return nil, fmt.Errorf("restoring feature %s: %w", id, err)
		}
		out[analysisID] = append(out[analysisID], f)
	}
	return out, rows.Err()
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanAnalysis(row rowScanner) (*kano.CompanyAnalysis, error) {
	var (
		a                     kano.CompanyAnalysis
		companyType           string
		strengths, weaknesses string
		analysisDate          string
	)
	if err := row.Scan(
		&a.ID, &a.CompanyName, &a.Industry, &companyType, &a.OverallScore,
		&strengths, &weaknesses, &analysisDate,
	); err != nil {
		return nil, err
	}
	a.CompanyType = kano.CompanyType(companyType)
	a.AnalysisDate = parseTime(analysisDate)
	if err := json.Unmarshal([]byte(strengths), &a.StrengthAreas); err != nil {
		return nil, fmt.Errorf("decoding strength areas of %s: %w", a.ID, err)
	}
	if err := json.Unmarshal([]byte(weaknesses), &a.WeaknessAreas); err != nil {
		return nil, fmt.Errorf("decoding weakness areas of %s: %w", a.ID, err)
	}
	return &a, nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(s string) time.Time {
	t, _ := time.Parse(time.RFC3339Nano, s)
	return t
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

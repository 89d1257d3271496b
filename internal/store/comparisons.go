package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/blackwell-systems/hoshin/internal/kano"
)

// ComparisonRecord is a stored comparison. Companies are referenced by ID
// because the analyses keep changing after the comparison was generated.
type ComparisonRecord struct {
	ID            int64          `json:"id"`
	SelfID        string         `json:"self_id"`
	CompetitorIDs []string       `json:"competitor_ids"`
	Insights      []kano.Insight `json:"insights"`
	CreatedAt     time.Time      `json:"created_at"`
}

// SaveComparison stores c as the current comparison, replacing any
// previously stored one, and returns its ID.
func (db *DB) SaveComparison(c *kano.Comparison) (int64, error) {
	ids := make([]string, len(c.Competitors))
	for i, comp := range c.Competitors {
		ids[i] = comp.ID
	}
	competitorIDs, err := json.Marshal(ids)
	if err != nil {
		return 0, err
	}

	tx, err := db.conn.Begin()
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM insights"); err != nil {
		return 0, err
	}
	if _, err := tx.Exec("DELETE FROM comparisons"); err != nil {
		return 0, err
	}

	res, err := tx.Exec(
		"INSERT INTO comparisons (self_id, competitor_ids, created_at) VALUES (?, ?, ?)",
		c.Self.ID, string(competitorIDs), formatTime(c.CreatedAt),
	)
	if err != nil {
		return 0, fmt.Errorf("saving comparison: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}

	for i, in := range c.Insights {
		related, err := json.Marshal(nonNil(in.RelatedFeatures))
		if err != nil {
			return 0, err
		}
		if _, err := tx.Exec(
			`INSERT INTO insights
			(comparison_id, position, type, title, description, area, related_features, priority)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			id, i, string(in.Type), in.Title, in.Description, in.Area,
			string(related), string(in.Priority),
		); err != nil {
			return 0, fmt.Errorf("saving insight %d: %w", i, err)
		}
	}

	return id, tx.Commit()
}

// LatestComparison returns the stored comparison, or nil if none exists.
func (db *DB) LatestComparison() (*ComparisonRecord, error) {
	var (
		rec           ComparisonRecord
		competitorIDs string
		createdAt     string
	)
	err := db.conn.QueryRow(
		"SELECT id, self_id, competitor_ids, created_at FROM comparisons ORDER BY id DESC LIMIT 1",
	).Scan(&rec.ID, &rec.SelfID, &competitorIDs, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	rec.CreatedAt = parseTime(createdAt)
	if err := json.Unmarshal([]byte(competitorIDs), &rec.CompetitorIDs); err != nil {
		return nil, fmt.Errorf("decoding competitor ids: %w", err)
	}

	rows, err := db.conn.Query(
		`SELECT type, title, description, area, related_features, priority
		 FROM insights WHERE comparison_id = ? ORDER BY position`,
		rec.ID,
	)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	rec.Insights = []kano.Insight{}
	for rows.Next() {
		var (
			in                     kano.Insight
			typ, priority, related string
		)
		if err := rows.Scan(&typ, &in.Title, &in.Description, &in.Area, &related, &priority); err != nil {
			return nil, err
		}
		in.Type = kano.InsightType(typ)
		in.Priority = kano.Priority(priority)
		if err := json.Unmarshal([]byte(related), &in.RelatedFeatures); err != nil {
			return nil, fmt.Errorf("decoding related features: %w", err)
		}
		rec.Insights = append(rec.Insights, in)
	}
	return &rec, rows.Err()
}

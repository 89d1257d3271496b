package store

import "fmt"

// currentSchemaVersion is the latest schema version.
const currentSchemaVersion = 1

// Migrate runs forward migrations to bring the database schema up to date.
func (db *DB) Migrate() error {
	if _, err := db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS schema_version (
			version INTEGER NOT NULL
		)
	`); err != nil {
		return fmt.Errorf("creating schema_version table: %w", err)
	}

	version := 0
	row := db.conn.QueryRow("SELECT version FROM schema_version LIMIT 1")
	if err := row.Scan(&version); err != nil {
		// No rows means a fresh database.
		version = 0
	}

	if version < 1 {
		if err := db.migrateV1(); err != nil {
			return fmt.Errorf("migration v1: %w", err)
		}
	}

	return nil
}

// SchemaVersion returns the recorded schema version.
func (db *DB) SchemaVersion() (int, error) {
	var v int
	err := db.conn.QueryRow("SELECT version FROM schema_version LIMIT 1").Scan(&v)
	return v, err
}

// migrateV1 creates the analysis, feature and comparison tables.
func (db *DB) migrateV1() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS analyses (
			id             TEXT PRIMARY KEY,
			company_name   TEXT NOT NULL,
			industry       TEXT NOT NULL DEFAULT '',
			company_type   TEXT NOT NULL CHECK (company_type IN ('self', 'competitor')),
			overall_score  REAL NOT NULL DEFAULT 0,
			strength_areas TEXT NOT NULL DEFAULT '[]',
			weakness_areas TEXT NOT NULL DEFAULT '[]',
			analysis_date  TEXT NOT NULL
		)`,

		`CREATE TABLE IF NOT EXISTS features (
			id                   TEXT PRIMARY KEY,
			analysis_id          TEXT NOT NULL REFERENCES analyses(id) ON DELETE CASCADE,
			position             INTEGER NOT NULL,
			name                 TEXT NOT NULL,
			description          TEXT NOT NULL DEFAULT '',
			area                 TEXT NOT NULL DEFAULT '',
			functional_score     INTEGER NOT NULL CHECK (functional_score BETWEEN -2 AND 2),
			dysfunctional_score  INTEGER NOT NULL CHECK (dysfunctional_score BETWEEN -2 AND 2),
			importance           INTEGER NOT NULL CHECK (importance BETWEEN 1 AND 5),
			category             TEXT NOT NULL,
			satisfaction_impact  REAL NOT NULL,
			linked_objective_ids TEXT NOT NULL DEFAULT '[]',
			created_at           TEXT NOT NULL,
			updated_at           TEXT NOT NULL
		)`,

		`CREATE TABLE IF NOT EXISTS comparisons (
			id             INTEGER PRIMARY KEY AUTOINCREMENT,
			self_id        TEXT NOT NULL,
			competitor_ids TEXT NOT NULL,
			created_at     TEXT NOT NULL
		)`,

		`CREATE TABLE IF NOT EXISTS insights (
			id               INTEGER PRIMARY KEY AUTOINCREMENT,
			comparison_id    INTEGER NOT NULL REFERENCES comparisons(id) ON DELETE CASCADE,
			position         INTEGER NOT NULL,
			type             TEXT NOT NULL,
			title            TEXT NOT NULL,
			description      TEXT NOT NULL,
			area             TEXT NOT NULL DEFAULT '',
			related_features TEXT NOT NULL DEFAULT '[]',
			priority         TEXT NOT NULL
		)`,

		// Indexes.
		`CREATE INDEX IF NOT EXISTS idx_features_analysis ON features(analysis_id, position)`,
		`CREATE INDEX IF NOT EXISTS idx_features_category ON features(category)`,
		`CREATE INDEX IF NOT EXISTS idx_insights_comparison ON insights(comparison_id, position)`,
	}

	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, stmt := range statements {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("executing %q: %w", stmt[:40], err)
		}
	}

	if _, err := tx.Exec("DELETE FROM schema_version"); err != nil {
		return err
	}
	if _, err := tx.Exec("INSERT INTO schema_version (version) VALUES (?)", currentSchemaVersion); err != nil {
		return err
	}

	return tx.Commit()
}

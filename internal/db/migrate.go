package db

import (
	"database/sql"
	"fmt"
	"strings"
)

// Migrate runs all schema migrations. Every statement is safe to re-run.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			// ALTER TABLE ADD COLUMN has no IF NOT EXISTS form in SQLite.
			if strings.Contains(err.Error(), "duplicate column name") {
				continue
			}
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	if err := backfillOrigin(db); err != nil {
		return fmt.Errorf("backfilling symptom sample origin: %w", err)
	}
	return nil
}

// backfillOrigin marks samples without a backend id as locally recorded.
// Rows written before the origin column existed default to 'backend'.
func backfillOrigin(db *sql.DB) error {
	_, err := db.Exec(`UPDATE symptom_samples SET origin = 'local'
		WHERE origin = 'backend' AND id LIKE 'local-%'`)
	return err
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS appointments (
		id             TEXT PRIMARY KEY,
		subject_id     TEXT NOT NULL DEFAULT '',
		counterpart_id TEXT NOT NULL DEFAULT '',
		scheduled_at   TEXT NOT NULL,
		state          TEXT NOT NULL
		               CHECK(state IN ('PENDING','CONFIRMED','SCHEDULED','RESCHEDULED','COMPLETED','CANCELLED','REJECTED')),
		reason         TEXT NOT NULL DEFAULT '',
		notes          TEXT NOT NULL DEFAULT '',
		created_at     TEXT,
		synced_at      TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS recommendations (
		id               TEXT PRIMARY KEY,
		subject_id       TEXT NOT NULL DEFAULT '',
		title            TEXT NOT NULL DEFAULT '',
		description      TEXT NOT NULL DEFAULT '',
		category         TEXT NOT NULL DEFAULT 'GENERAL',
		state            TEXT NOT NULL
		                 CHECK(state IN ('PENDING_APPROVAL','APPROVED','MODIFIED','ACTIVE','REJECTED')),
		priority         TEXT NOT NULL
		                 CHECK(priority IN ('LOW','MEDIUM','HIGH','URGENT')),
		source           TEXT NOT NULL DEFAULT '',
		completed        INTEGER NOT NULL DEFAULT 0,
		reviewer_comment TEXT NOT NULL DEFAULT '',
		created_at       TEXT,
		synced_at        TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS symptom_samples (
		id                  TEXT PRIMARY KEY,
		subject_id          TEXT NOT NULL DEFAULT '',
		tremor              INTEGER NOT NULL CHECK(tremor BETWEEN 1 AND 10),
		rigidity            INTEGER NOT NULL CHECK(rigidity BETWEEN 1 AND 10),
		bradykinesia        INTEGER NOT NULL CHECK(bradykinesia BETWEEN 1 AND 10),
		balance             INTEGER NOT NULL CHECK(balance BETWEEN 1 AND 10),
		additional_symptoms TEXT NOT NULL DEFAULT '',
		notes               TEXT NOT NULL DEFAULT '',
		recorded_at         TEXT NOT NULL,
		synced_at           TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS transition_log (
		id          TEXT PRIMARY KEY,
		entity_type TEXT NOT NULL CHECK(entity_type IN ('appointment','recommendation')),
		entity_id   TEXT NOT NULL,
		from_state  TEXT NOT NULL,
		to_state    TEXT NOT NULL,
		action      TEXT NOT NULL DEFAULT '',
		actor_role  TEXT NOT NULL DEFAULT '',
		note        TEXT NOT NULL DEFAULT '',
		offline     INTEGER NOT NULL DEFAULT 0,
		occurred_at TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_appointments_subject ON appointments(subject_id)`,
	`CREATE INDEX IF NOT EXISTS idx_appointments_counterpart ON appointments(counterpart_id)`,
	`CREATE INDEX IF NOT EXISTS idx_appointments_scheduled ON appointments(scheduled_at)`,
	`CREATE INDEX IF NOT EXISTS idx_recommendations_subject ON recommendations(subject_id)`,
	`CREATE INDEX IF NOT EXISTS idx_symptoms_subject_recorded ON symptom_samples(subject_id, recorded_at)`,
	`CREATE INDEX IF NOT EXISTS idx_transition_log_entity ON transition_log(entity_type, entity_id)`,
	// Locally recorded samples are kept apart from backend copies.
	`ALTER TABLE symptom_samples ADD COLUMN origin TEXT NOT NULL DEFAULT 'backend'`,
}

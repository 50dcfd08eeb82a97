package db

import (
	"database/sql"
	"fmt"
	"strings"
)

// Migrate runs all schema migrations.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			// Tolerate "duplicate column name" errors from ALTER TABLE
			// since the migration system re-runs all statements.
			if strings.Contains(err.Error(), "duplicate column name") {
				continue
			}
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS projects (
		id              TEXT PRIMARY KEY,
		title           TEXT NOT NULL,
		acronym         TEXT NOT NULL DEFAULT '',
		start_date      TEXT NOT NULL,
		duration_months INTEGER NOT NULL CHECK(duration_months > 0),
		national_agency TEXT NOT NULL DEFAULT '',
		language        TEXT NOT NULL DEFAULT '',
		is_template     INTEGER NOT NULL DEFAULT 0,
		created_at      TEXT NOT NULL,
		updated_at      TEXT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS organizations (
		id         TEXT PRIMARY KEY,
		name       TEXT NOT NULL,
		nation     TEXT NOT NULL DEFAULT '',
		city       TEXT NOT NULL DEFAULT '',
		type       TEXT NOT NULL DEFAULT '',
		email      TEXT NOT NULL DEFAULT '',
		phone      TEXT NOT NULL DEFAULT '',
		website    TEXT NOT NULL DEFAULT '',
		address    TEXT NOT NULL DEFAULT '',
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS affiliations (
		id              TEXT PRIMARY KEY,
		user_id         TEXT NOT NULL,
		organization_id TEXT NOT NULL REFERENCES organizations(id) ON DELETE CASCADE,
		position        TEXT NOT NULL DEFAULT '',
		created_at      TEXT NOT NULL,
		UNIQUE(user_id, organization_id)
	)`,

	`CREATE TABLE IF NOT EXISTS sections (
		id          TEXT PRIMARY KEY,
		project_id  TEXT NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
		title       TEXT NOT NULL,
		order_index INTEGER NOT NULL DEFAULT 0,
		created_at  TEXT NOT NULL,
		updated_at  TEXT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS work_items (
		id          TEXT PRIMARY KEY,
		project_id  TEXT NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
		section_id  TEXT REFERENCES sections(id) ON DELETE SET NULL,
		title       TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		start_date  TEXT NOT NULL,
		end_date    TEXT NOT NULL,
		budget      REAL NOT NULL DEFAULT 0,
		created_at  TEXT NOT NULL,
		updated_at  TEXT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS tasks (
		id           TEXT PRIMARY KEY,
		work_item_id TEXT NOT NULL REFERENCES work_items(id) ON DELETE CASCADE,
		title        TEXT NOT NULL,
		description  TEXT NOT NULL DEFAULT '',
		start_date   TEXT NOT NULL,
		end_date     TEXT NOT NULL,
		budget       REAL NOT NULL DEFAULT 0,
		created_at   TEXT NOT NULL,
		updated_at   TEXT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS activities (
		id               TEXT PRIMARY KEY,
		task_id          TEXT NOT NULL REFERENCES tasks(id) ON DELETE CASCADE,
		title            TEXT NOT NULL,
		description      TEXT NOT NULL DEFAULT '',
		estimated_start  TEXT NOT NULL,
		estimated_end    TEXT NOT NULL,
		allocated_amount REAL NOT NULL DEFAULT 0,
		created_at       TEXT NOT NULL,
		updated_at       TEXT NOT NULL
	)`,

	// Exactly one parent column is set and it must agree with parent_kind.
	`CREATE TABLE IF NOT EXISTS modules (
		id          TEXT PRIMARY KEY,
		parent_kind TEXT NOT NULL
		            CHECK(parent_kind IN ('project','section','work','task','activity')),
		project_id  TEXT REFERENCES projects(id) ON DELETE CASCADE,
		section_id  TEXT REFERENCES sections(id) ON DELETE CASCADE,
		work_id     TEXT REFERENCES work_items(id) ON DELETE CASCADE,
		task_id     TEXT REFERENCES tasks(id) ON DELETE CASCADE,
		activity_id TEXT REFERENCES activities(id) ON DELETE CASCADE,
		title       TEXT NOT NULL,
		subtitle    TEXT NOT NULL DEFAULT '',
		order_index INTEGER NOT NULL DEFAULT 0,
		guidelines  TEXT NOT NULL DEFAULT '',
		char_limit  INTEGER NOT NULL DEFAULT 0,
		status      TEXT NOT NULL DEFAULT 'todo'
		            CHECK(status IN ('todo','under_review','done','authorized')),
		content     TEXT NOT NULL DEFAULT '',
		created_at  TEXT NOT NULL,
		updated_at  TEXT NOT NULL,
		CHECK(
			(project_id IS NOT NULL) + (section_id IS NOT NULL) + (work_id IS NOT NULL) +
			(task_id IS NOT NULL) + (activity_id IS NOT NULL) = 1
		),
		CHECK(
			(parent_kind = 'project'  AND project_id  IS NOT NULL) OR
			(parent_kind = 'section'  AND section_id  IS NOT NULL) OR
			(parent_kind = 'work'     AND work_id     IS NOT NULL) OR
			(parent_kind = 'task'     AND task_id     IS NOT NULL) OR
			(parent_kind = 'activity' AND activity_id IS NOT NULL)
		)
	)`,

	`CREATE TABLE IF NOT EXISTS partners (
		id              TEXT PRIMARY KEY,
		project_id      TEXT NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
		organization_id TEXT REFERENCES organizations(id) ON DELETE SET NULL,
		name            TEXT NOT NULL,
		role            TEXT NOT NULL
		                CHECK(role IN ('coordinator','partner','other')),
		budget          REAL NOT NULL DEFAULT 0,
		nation          TEXT NOT NULL DEFAULT '',
		city            TEXT NOT NULL DEFAULT '',
		type            TEXT NOT NULL DEFAULT '',
		email           TEXT NOT NULL DEFAULT '',
		phone           TEXT NOT NULL DEFAULT '',
		website         TEXT NOT NULL DEFAULT '',
		address         TEXT NOT NULL DEFAULT '',
		created_at      TEXT NOT NULL,
		updated_at      TEXT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS work_partners (
		id           TEXT PRIMARY KEY,
		work_item_id TEXT NOT NULL REFERENCES work_items(id) ON DELETE CASCADE,
		partner_id   TEXT NOT NULL REFERENCES partners(id) ON DELETE CASCADE,
		role         TEXT NOT NULL DEFAULT '',
		budget       REAL NOT NULL DEFAULT 0,
		UNIQUE(work_item_id, partner_id)
	)`,

	`CREATE TABLE IF NOT EXISTS task_partners (
		id         TEXT PRIMARY KEY,
		task_id    TEXT NOT NULL REFERENCES tasks(id) ON DELETE CASCADE,
		partner_id TEXT NOT NULL REFERENCES partners(id) ON DELETE CASCADE,
		role       TEXT NOT NULL DEFAULT '',
		budget     REAL NOT NULL DEFAULT 0,
		UNIQUE(task_id, partner_id)
	)`,

	`CREATE TABLE IF NOT EXISTS memberships (
		id             TEXT PRIMARY KEY,
		project_id     TEXT NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
		user_id        TEXT NOT NULL,
		partner_id     TEXT NOT NULL REFERENCES partners(id) ON DELETE CASCADE,
		affiliation_id TEXT REFERENCES affiliations(id) ON DELETE SET NULL,
		role           TEXT NOT NULL
		               CHECK(role IN ('coordinator','editor','viewer')),
		project_role   TEXT NOT NULL DEFAULT '',
		created_at     TEXT NOT NULL,
		UNIQUE(project_id, user_id)
	)`,

	`CREATE TABLE IF NOT EXISTS snapshots (
		id         TEXT PRIMARY KEY,
		project_id TEXT NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
		name       TEXT NOT NULL,
		rev        TEXT NOT NULL,
		payload    BLOB NOT NULL,
		created_by TEXT NOT NULL DEFAULT '',
		created_at TEXT NOT NULL
	)`,

	// Snapshots are read-only once written.
	`CREATE TRIGGER IF NOT EXISTS snapshots_immutable
		BEFORE UPDATE ON snapshots
		BEGIN
			SELECT RAISE(ABORT, 'snapshots are immutable');
		END`,

	`CREATE INDEX IF NOT EXISTS idx_sections_project ON sections(project_id)`,
	`CREATE INDEX IF NOT EXISTS idx_work_items_project ON work_items(project_id)`,
	`CREATE INDEX IF NOT EXISTS idx_work_items_section ON work_items(section_id)`,
	`CREATE INDEX IF NOT EXISTS idx_tasks_work_item ON tasks(work_item_id)`,
	`CREATE INDEX IF NOT EXISTS idx_activities_task ON activities(task_id)`,
	`CREATE INDEX IF NOT EXISTS idx_modules_project ON modules(project_id)`,
	`CREATE INDEX IF NOT EXISTS idx_modules_section ON modules(section_id)`,
	`CREATE INDEX IF NOT EXISTS idx_modules_work ON modules(work_id)`,
	`CREATE INDEX IF NOT EXISTS idx_modules_task ON modules(task_id)`,
	`CREATE INDEX IF NOT EXISTS idx_modules_activity ON modules(activity_id)`,
	`CREATE INDEX IF NOT EXISTS idx_partners_project ON partners(project_id)`,
	`CREATE INDEX IF NOT EXISTS idx_memberships_user ON memberships(user_id)`,
	`CREATE INDEX IF NOT EXISTS idx_snapshots_project ON snapshots(project_id)`,
}

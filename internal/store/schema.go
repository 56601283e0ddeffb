package store

import (
	"database/sql"
	"fmt"
)

// A migration is one forward-only schema step. Steps must be idempotent
// with respect to partial completion ("IF NOT EXISTS" creates,
// delete-then-reinsert backfills) so that retrying after a mid-migration
// failure is always safe. Migrations never roll back.
type migration struct {
	version int
	name    string
	apply   func(tx *sql.Tx) error
}

var migrations = []migration{
	{1, "notes, tags, links", applyNotesTables},
	{2, "pending operations outbox", applyPendingOps},
	{3, "reminders", applyReminders},
	{4, "folder hierarchy", applyFolders},
	{5, "saved searches", applySavedSearches},
	{6, "search index backfill", applySearchIndex},
}

// migrate applies every step above the persisted schema version. The
// version lives in PRAGMA user_version and is bumped inside the same
// transaction as the step it belongs to.
func migrate(conn *sql.DB) error {
	var current int
	if err := conn.QueryRow(`PRAGMA user_version`).Scan(&current); err != nil {
		return fmt.Errorf("store: read schema version: %w", err)
	}

	for _, m := range migrations {
		if m.version <= current {
			continue
		}
		tx, err := conn.Begin()
		if err != nil {
			return fmt.Errorf("store: begin migration %d: %w", m.version, err)
		}
		if err := m.apply(tx); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("store: migration %d (%s): %w", m.version, m.name, err)
		}
		if _, err := tx.Exec(fmt.Sprintf("PRAGMA user_version = %d", m.version)); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("store: set schema version %d: %w", m.version, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("store: commit migration %d: %w", m.version, err)
		}
	}
	return nil
}

func applyNotesTables(tx *sql.Tx) error {
	_, err := tx.Exec(`
CREATE TABLE IF NOT EXISTS notes (
	id                 TEXT PRIMARY KEY,
	title              TEXT NOT NULL DEFAULT '',
	body               TEXT NOT NULL DEFAULT '',
	encrypted_metadata TEXT,
	is_pinned          INTEGER NOT NULL DEFAULT 0,
	deleted            INTEGER NOT NULL DEFAULT 0,
	updated_at         INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_notes_updated ON notes(updated_at DESC) WHERE deleted = 0;

CREATE TABLE IF NOT EXISTS note_tags (
	note_id TEXT NOT NULL,
	tag     TEXT NOT NULL,
	PRIMARY KEY (note_id, tag)
);

CREATE INDEX IF NOT EXISTS idx_note_tags_tag ON note_tags(tag);

CREATE TABLE IF NOT EXISTS note_links (
	source_id    TEXT NOT NULL,
	target_title TEXT NOT NULL,
	target_id    TEXT,
	PRIMARY KEY (source_id, target_title)
);

CREATE INDEX IF NOT EXISTS idx_note_links_target ON note_links(target_title);
`)
	return err
}

func applyPendingOps(tx *sql.Tx) error {
	_, err := tx.Exec(`
CREATE TABLE IF NOT EXISTS pending_ops (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	entity_id  TEXT NOT NULL,
	kind       TEXT NOT NULL,
	payload    TEXT,
	created_at INTEGER NOT NULL
);
`)
	return err
}

func applyReminders(tx *sql.Tx) error {
	_, err := tx.Exec(`
CREATE TABLE IF NOT EXISTS note_reminders (
	id                  INTEGER PRIMARY KEY AUTOINCREMENT,
	note_id             TEXT NOT NULL,
	type                TEXT NOT NULL,
	remind_at           INTEGER,
	timezone            TEXT NOT NULL DEFAULT '',
	latitude            REAL,
	longitude           REAL,
	radius              REAL,
	recurrence_pattern  TEXT NOT NULL DEFAULT '',
	recurrence_interval INTEGER NOT NULL DEFAULT 0,
	recurrence_end_date INTEGER,
	snoozed_until       INTEGER,
	snooze_count        INTEGER NOT NULL DEFAULT 0,
	last_triggered      INTEGER,
	trigger_count       INTEGER NOT NULL DEFAULT 0,
	is_active           INTEGER NOT NULL DEFAULT 1
);

CREATE INDEX IF NOT EXISTS idx_reminders_remind_at ON note_reminders(remind_at);
CREATE INDEX IF NOT EXISTS idx_reminders_note ON note_reminders(note_id);
CREATE INDEX IF NOT EXISTS idx_reminders_type ON note_reminders(type);
CREATE INDEX IF NOT EXISTS idx_reminders_active ON note_reminders(is_active);
CREATE INDEX IF NOT EXISTS idx_reminders_location ON note_reminders(latitude, longitude) WHERE latitude IS NOT NULL;
CREATE INDEX IF NOT EXISTS idx_reminders_snoozed ON note_reminders(snoozed_until) WHERE snoozed_until IS NOT NULL;
`)
	return err
}

func applyFolders(tx *sql.Tx) error {
	_, err := tx.Exec(`
CREATE TABLE IF NOT EXISTS local_folders (
	id         TEXT PRIMARY KEY,
	name       TEXT NOT NULL,
	parent_id  TEXT,
	path       TEXT NOT NULL DEFAULT '',
	sort_order INTEGER NOT NULL DEFAULT 0,
	deleted    INTEGER NOT NULL DEFAULT 0,
	updated_at INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_folders_parent ON local_folders(parent_id);
CREATE INDEX IF NOT EXISTS idx_folders_path ON local_folders(path);
CREATE INDEX IF NOT EXISTS idx_folders_deleted ON local_folders(deleted);
CREATE INDEX IF NOT EXISTS idx_folders_parent_sort ON local_folders(parent_id, sort_order);

CREATE TABLE IF NOT EXISTS note_folders (
	note_id   TEXT PRIMARY KEY,
	folder_id TEXT NOT NULL,
	added_at  INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_note_folders_folder ON note_folders(folder_id);
`)
	return err
}

func applySavedSearches(tx *sql.Tx) error {
	_, err := tx.Exec(`
CREATE TABLE IF NOT EXISTS saved_searches (
	id           TEXT PRIMARY KEY,
	name         TEXT NOT NULL,
	query        TEXT NOT NULL,
	search_type  TEXT NOT NULL DEFAULT 'text',
	parameters   TEXT,
	usage_count  INTEGER NOT NULL DEFAULT 0,
	last_used_at INTEGER,
	created_at   INTEGER NOT NULL
);
`)
	return err
}

// applySearchIndex creates the FTS table and backfills it from existing
// non-deleted notes. On builds without FTS5 this is a no-op; search then
// uses the LIKE fallback over the notes table.
func applySearchIndex(tx *sql.Tx) error {
	return ftsSetup(tx)
}

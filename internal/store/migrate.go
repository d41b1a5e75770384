package store

import (
	"context"
	"time"

	apperrors "github.com/bdfinst/interactive-cd/pkg/errors"
	"github.com/bdfinst/interactive-cd/pkg/observability"
)

// migration is a versioned schema change. Migrations run in order inside a
// transaction and are recorded in schema_migrations, so reopening a database
// only applies what is new.
type migration struct {
	version int
	name    string
	stmts   []string
}

var migrations = []migration{
	{
		version: 1,
		name:    "create practice tables",
		stmts: []string{
			`CREATE TABLE IF NOT EXISTS practices (
				id             TEXT PRIMARY KEY,
				name           TEXT NOT NULL,
				description    TEXT NOT NULL DEFAULT '',
				category       TEXT NOT NULL DEFAULT '',
				maturity_level INTEGER NOT NULL DEFAULT 0
			)`,
			`CREATE TABLE IF NOT EXISTS practice_dependencies (
				practice_id   TEXT NOT NULL REFERENCES practices(id) ON DELETE CASCADE,
				depends_on_id TEXT NOT NULL REFERENCES practices(id) ON DELETE CASCADE,
				position      INTEGER NOT NULL DEFAULT 0,
				PRIMARY KEY (practice_id, depends_on_id)
			)`,
			`CREATE INDEX IF NOT EXISTS idx_dependencies_practice
				ON practice_dependencies(practice_id, position)`,
		},
	},
	{
		version: 2,
		name:    "seed practice catalog",
		stmts:   seedStmts,
	},
}

// migrate applies pending migrations inside transactions.
func (s *Store) migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx,
		`CREATE TABLE IF NOT EXISTS schema_migrations (
			version    INTEGER PRIMARY KEY,
			name       TEXT NOT NULL,
			applied_at TEXT NOT NULL
		)`); err != nil {
		return apperrors.Wrap(apperrors.ErrCodeMigration, err, "create schema_migrations")
	}

	applied, err := s.appliedVersions(ctx)
	if err != nil {
		return err
	}

	for _, m := range migrations {
		if applied[m.version] {
			continue
		}
		start := time.Now()
		err := s.apply(ctx, m)
		observability.Store().OnMigration(ctx, m.version, time.Since(start), err)
		if err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) appliedVersions(ctx context.Context) (map[int]bool, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT version FROM schema_migrations`)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeMigration, err, "query schema_migrations")
	}
	defer rows.Close()

	applied := make(map[int]bool)
	for rows.Next() {
		var v int
		if err := rows.Scan(&v); err != nil {
			return nil, apperrors.Wrap(apperrors.ErrCodeMigration, err, "scan version")
		}
		applied[v] = true
	}
	return applied, rows.Err()
}

func (s *Store) apply(ctx context.Context, m migration) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return apperrors.Wrap(apperrors.ErrCodeMigration, err, "begin migration %d", m.version)
	}
	defer tx.Rollback()

	for _, stmt := range m.stmts {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return apperrors.Wrap(apperrors.ErrCodeMigration, err, "migration %d (%s)", m.version, m.name)
		}
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO schema_migrations (version, name, applied_at) VALUES (?, ?, ?)`,
		m.version, m.name, time.Now().UTC().Format(time.RFC3339)); err != nil {
		return apperrors.Wrap(apperrors.ErrCodeMigration, err, "record migration %d", m.version)
	}

	if err := tx.Commit(); err != nil {
		return apperrors.Wrap(apperrors.ErrCodeMigration, err, "commit migration %d", m.version)
	}
	return nil
}

// MigrationStatus reports applied migration versions for diagnostics.
func (s *Store) MigrationStatus(ctx context.Context) ([]AppliedMigration, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT version, name, applied_at FROM schema_migrations ORDER BY version`)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeMigration, err, "query status")
	}
	defer rows.Close()

	var out []AppliedMigration
	for rows.Next() {
		var a AppliedMigration
		if err := rows.Scan(&a.Version, &a.Name, &a.AppliedAt); err != nil {
			return nil, apperrors.Wrap(apperrors.ErrCodeMigration, err, "scan status")
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// AppliedMigration is one row of migration history.
type AppliedMigration struct {
	Version   int    `json:"version"`
	Name      string `json:"name"`
	AppliedAt string `json:"appliedAt"`
}

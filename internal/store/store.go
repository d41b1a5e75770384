// Package store implements the relational practice store.
//
// It uses SQLite to hold the practice catalog and its dependency edges,
// seeded through versioned SQL migrations. Read queries assemble the rows
// back into the nested node trees the engine consumes.
package store

import (
	"context"
	"database/sql"
	"time"

	_ "modernc.org/sqlite"

	apperrors "github.com/bdfinst/interactive-cd/pkg/errors"
	"github.com/bdfinst/interactive-cd/pkg/observability"
	"github.com/bdfinst/interactive-cd/pkg/practice"
)

// openDB is a package-level var to allow test injection.
var openDB = sql.Open

// Store provides access to the practice catalog.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the SQLite database at path, applies performance
// pragmas, and runs any pending schema migrations.
func Open(path string) (*Store, error) {
	db, err := openDB("sqlite", path)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeStore, err, "open database %s", path)
	}

	// SQLite performance pragmas
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA foreign_keys = ON",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			_ = db.Close()
			return nil, apperrors.Wrap(apperrors.ErrCodeStore, err, "pragma %q", p)
		}
	}

	s := &Store{db: db}
	if err := s.migrate(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// row is the raw practice record before tree assembly.
type row struct {
	id            string
	name          string
	description   string
	category      string
	maturityLevel int
}

// loadCatalog reads every practice and dependency edge in one pass.
// Edges are ordered by position so dependency order is stable.
func (s *Store) loadCatalog(ctx context.Context) (map[string]row, map[string][]string, error) {
	start := time.Now()
	rows, deps, err := s.loadCatalogLocked(ctx)
	observability.Store().OnQuery(ctx, "catalog", time.Since(start), err)
	return rows, deps, err
}

func (s *Store) loadCatalogLocked(ctx context.Context) (map[string]row, map[string][]string, error) {
	practices := make(map[string]row)

	rs, err := s.db.QueryContext(ctx,
		`SELECT id, name, description, category, maturity_level FROM practices`)
	if err != nil {
		return nil, nil, apperrors.Wrap(apperrors.ErrCodeStore, err, "query practices")
	}
	defer rs.Close()

	for rs.Next() {
		var r row
		if err := rs.Scan(&r.id, &r.name, &r.description, &r.category, &r.maturityLevel); err != nil {
			return nil, nil, apperrors.Wrap(apperrors.ErrCodeStore, err, "scan practice")
		}
		practices[r.id] = r
	}
	if err := rs.Err(); err != nil {
		return nil, nil, apperrors.Wrap(apperrors.ErrCodeStore, err, "iterate practices")
	}

	deps := make(map[string][]string)
	es, err := s.db.QueryContext(ctx,
		`SELECT practice_id, depends_on_id FROM practice_dependencies ORDER BY practice_id, position`)
	if err != nil {
		return nil, nil, apperrors.Wrap(apperrors.ErrCodeStore, err, "query dependencies")
	}
	defer es.Close()

	for es.Next() {
		var from, to string
		if err := es.Scan(&from, &to); err != nil {
			return nil, nil, apperrors.Wrap(apperrors.ErrCodeStore, err, "scan dependency")
		}
		deps[from] = append(deps[from], to)
	}
	if err := es.Err(); err != nil {
		return nil, nil, apperrors.Wrap(apperrors.ErrCodeStore, err, "iterate dependencies")
	}

	return practices, deps, nil
}

// Tree returns the full nested dependency tree rooted at rootID, with
// dependency counts populated. Shared dependencies are represented by a
// single node reachable through multiple parents.
func (s *Store) Tree(ctx context.Context, rootID string) (*practice.Node, error) {
	practices, deps, err := s.loadCatalog(ctx)
	if err != nil {
		return nil, err
	}
	if _, ok := practices[rootID]; !ok {
		return nil, apperrors.New(apperrors.ErrCodePracticeNotFound, "practice %q not found", rootID)
	}

	nodes := make(map[string]*practice.Node, len(practices))
	root := assemble(rootID, practices, deps, nodes)
	if _, err := practice.EnrichCounts(root); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeInvalidTree, err, "enrich %q", rootID)
	}
	return root, nil
}

// assemble builds the node graph reachable from id. Nodes are memoized so a
// shared dependency yields one node with multiple parents. An edge to an
// id missing from the catalog is skipped rather than failing the whole tree.
func assemble(id string, practices map[string]row, deps map[string][]string, nodes map[string]*practice.Node) *practice.Node {
	if n, ok := nodes[id]; ok {
		return n
	}
	r := practices[id]
	n := &practice.Node{
		ID:            r.id,
		Name:          r.name,
		Description:   r.description,
		Category:      r.category,
		MaturityLevel: r.maturityLevel,
	}
	// Memoize before recursing so an accidental cycle terminates.
	nodes[id] = n
	for _, depID := range deps[id] {
		if _, ok := practices[depID]; !ok {
			continue
		}
		n.Dependencies = append(n.Dependencies, assemble(depID, practices, deps, nodes))
	}
	return n
}

// Cards returns the card view rooted at rootID: the root node first,
// followed by its direct dependencies, all with counts populated.
func (s *Store) Cards(ctx context.Context, rootID string) ([]*practice.Node, error) {
	root, err := s.Tree(ctx, rootID)
	if err != nil {
		return nil, err
	}

	cards := make([]*practice.Node, 0, len(root.Dependencies)+1)
	cards = append(cards, root)
	for _, dep := range root.Dependencies {
		dep.Level = 1
		cards = append(cards, dep)
	}
	return cards, nil
}

// Practice returns a single practice row without its dependency tree.
func (s *Store) Practice(ctx context.Context, id string) (*practice.Node, error) {
	start := time.Now()
	var r row
	err := s.db.QueryRowContext(ctx,
		`SELECT id, name, description, category, maturity_level FROM practices WHERE id = ?`, id).
		Scan(&r.id, &r.name, &r.description, &r.category, &r.maturityLevel)
	observability.Store().OnQuery(ctx, "practice", time.Since(start), err)

	if err == sql.ErrNoRows {
		return nil, apperrors.New(apperrors.ErrCodePracticeNotFound, "practice %q not found", id)
	}
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeStore, err, "query practice %q", id)
	}
	return &practice.Node{
		ID:            r.id,
		Name:          r.name,
		Description:   r.description,
		Category:      r.category,
		MaturityLevel: r.maturityLevel,
	}, nil
}

// IDs returns all practice ids in lexicographic order.
func (s *Store) IDs(ctx context.Context) ([]string, error) {
	start := time.Now()
	rs, err := s.db.QueryContext(ctx, `SELECT id FROM practices ORDER BY id`)
	observability.Store().OnQuery(ctx, "ids", time.Since(start), err)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeStore, err, "query ids")
	}
	defer rs.Close()

	var ids []string
	for rs.Next() {
		var id string
		if err := rs.Scan(&id); err != nil {
			return nil, apperrors.Wrap(apperrors.ErrCodeStore, err, "scan id")
		}
		ids = append(ids, id)
	}
	return ids, rs.Err()
}

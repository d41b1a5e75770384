// Package share persists shareable snapshots of a user's adoption state.
//
// A snapshot captures the adoption document plus the navigation path at the
// moment of sharing, keyed by a generated uuid. Anyone holding the id can
// restore the same view. Two backends are provided: MongoDB for server
// deployments and an in-memory store for tests and single-process use.
package share

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/bdfinst/interactive-cd/pkg/adoption"
)

// ErrNotFound is returned when a snapshot id does not exist.
var ErrNotFound = errors.New("snapshot not found")

// Snapshot is a shareable capture of adoption state and navigation position.
type Snapshot struct {
	ID        string            `json:"id" bson:"_id"`
	CreatedAt time.Time         `json:"createdAt" bson:"created_at"`
	Path      []string          `json:"path" bson:"path"`
	Document  adoption.Document `json:"document" bson:"document"`
}

// Store is the interface implemented by snapshot backends.
type Store interface {
	// Create persists a snapshot and returns its generated id.
	Create(ctx context.Context, path []string, doc adoption.Document) (string, error)

	// Get retrieves a snapshot by id. Returns ErrNotFound for unknown ids.
	Get(ctx context.Context, id string) (*Snapshot, error)

	// Delete removes a snapshot. Deleting a missing id is not an error.
	Delete(ctx context.Context, id string) error

	// Close releases backend resources.
	Close(ctx context.Context) error
}

// newSnapshot builds a Snapshot with a fresh uuid and UTC timestamp.
func newSnapshot(path []string, doc adoption.Document) Snapshot {
	return Snapshot{
		ID:        uuid.NewString(),
		CreatedAt: time.Now().UTC(),
		Path:      append([]string(nil), path...),
		Document:  doc,
	}
}

// Package session persists a user's working state between CLI runs.
//
// A session captures which practices the user has marked adopted, the
// navigation path they have drilled into, and the tree root they were
// viewing. Sessions are stored as JSON files under a config directory
// so that `cdgraph browse` and the adoption subcommands pick up where
// the previous invocation left off.
//
// # Usage
//
// Create a session store:
//
//	store, err := session.NewFileStore("")  // Uses ~/.config/cdgraph/sessions/
//
// Manage sessions:
//
//	sess, err := store.Get(ctx, "default")
//	if err != nil {
//	    return err
//	}
//	if sess == nil {
//	    sess = session.New("default", "continuous-delivery")
//	}
//	sess.Adopt("version-control")
//	store.Set(ctx, sess)
package session

import (
	"context"
	"sort"
	"time"

	"github.com/bdfinst/interactive-cd/pkg/adoption"
)

// DefaultID is the session used by CLI commands when none is named.
const DefaultID = "default"

// Session stores a user's adoption and navigation state.
type Session struct {
	ID        string    `json:"id"`
	RootID    string    `json:"root_id"`
	Adopted   []string  `json:"adopted"`
	Path      []string  `json:"path"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// New creates an empty session for the given tree root.
func New(id, rootID string) *Session {
	now := time.Now().UTC()
	return &Session{
		ID:        id,
		RootID:    rootID,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// AdoptedSet returns the adopted practices as a set for aggregation.
func (s *Session) AdoptedSet() *adoption.Set {
	return adoption.NewSetFrom(s.Adopted)
}

// Adopt marks a practice as adopted. Adopting twice is a no-op.
func (s *Session) Adopt(id string) {
	for _, a := range s.Adopted {
		if a == id {
			return
		}
	}
	s.Adopted = append(s.Adopted, id)
	sort.Strings(s.Adopted)
	s.touch()
}

// Unadopt removes a practice from the adopted set.
func (s *Session) Unadopt(id string) {
	for i, a := range s.Adopted {
		if a == id {
			s.Adopted = append(s.Adopted[:i], s.Adopted[i+1:]...)
			s.touch()
			return
		}
	}
}

// IsAdopted reports whether a practice has been marked adopted.
func (s *Session) IsAdopted(id string) bool {
	for _, a := range s.Adopted {
		if a == id {
			return true
		}
	}
	return false
}

// SetPath records the navigation path for the next run.
func (s *Session) SetPath(path []string) {
	s.Path = append([]string(nil), path...)
	s.touch()
}

func (s *Session) touch() {
	s.UpdatedAt = time.Now().UTC()
}

// Store is the interface for session storage backends.
type Store interface {
	// Get retrieves a session by ID.
	// Returns nil, nil if the session doesn't exist.
	Get(ctx context.Context, sessionID string) (*Session, error)

	// Set stores a session.
	Set(ctx context.Context, session *Session) error

	// Delete removes a session.
	Delete(ctx context.Context, sessionID string) error

	// List returns the ids of all stored sessions.
	List(ctx context.Context) ([]string, error)
}

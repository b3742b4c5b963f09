package repository

import (
	"context"
	"time"

	"github.com/okrmaster/okrd/internal/okr"
)

// ProjectSummary is the list-view projection of a project, carrying the
// caller's role so clients can gate edit affordances without fetching the
// full document.
type ProjectSummary struct {
	ID        string
	Name      string
	Archived  bool
	Role      okr.Role
	UpdatedAt time.Time
}

// ProjectRepository manages project document persistence
type ProjectRepository interface {
	Create(ctx context.Context, proj *okr.Project) error
	Get(ctx context.Context, id string) (*okr.Project, error)
	ListForUser(ctx context.Context, userID string) ([]ProjectSummary, error)
	// SaveDocument replaces the whole stored document with the aggregate.
	SaveDocument(ctx context.Context, proj *okr.Project) error
	// SaveFields merges the given top-level fields into the stored
	// document, leaving the rest untouched. Last writer wins per field.
	SaveFields(ctx context.Context, id string, fields map[string]any) error
	Delete(ctx context.Context, id string) error
}

// APIKeyRepository manages API key credentials
type APIKeyRepository interface {
	Put(ctx context.Context, keyHash, userID, label string) error
	// Resolve maps a key hash to the owning user id, or ErrNotFound.
	Resolve(ctx context.Context, keyHash string) (string, error)
}

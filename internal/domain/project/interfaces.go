package project

import (
	"context"

	"github.com/okrmaster/okrd/internal/okr"
	"github.com/okrmaster/okrd/internal/repository"
)

// Repository provides persistence for project documents.
type Repository interface {
	Create(ctx context.Context, proj *okr.Project) error
	Get(ctx context.Context, id string) (*okr.Project, error)
	ListForUser(ctx context.Context, userID string) ([]repository.ProjectSummary, error)
	SaveDocument(ctx context.Context, proj *okr.Project) error
	SaveFields(ctx context.Context, id string, fields map[string]any) error
	Delete(ctx context.Context, id string) error
}

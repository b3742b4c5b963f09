package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/okrmaster/okrd/internal/okr"
	"github.com/okrmaster/okrd/internal/repository"
)

// ProjectRepository implements repository.ProjectRepository for SQLite. The
// aggregate is stored as one JSON document per row; name, archived flag and
// membership are mirrored into relational columns so listing and access
// checks never deserialize the document.
type ProjectRepository struct {
	db *DB
}

// NewProjectRepository creates a new ProjectRepository
func NewProjectRepository(db *DB) *ProjectRepository {
	return &ProjectRepository{db: db}
}

// Create inserts a new project document and its membership index.
func (r *ProjectRepository) Create(ctx context.Context, proj *okr.Project) error {
	doc, err := json.Marshal(proj)
	if err != nil {
		return fmt.Errorf("failed to encode project: %w", err)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO projects (id, name, archived, document, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`
	now := time.Now().UTC()
	if _, err := tx.ExecContext(ctx, query, proj.ID, proj.Name, proj.Archived, string(doc), now, now); err != nil {
		if isUniqueViolation(err) {
			return repository.ErrInvalidInput
		}
		return fmt.Errorf("failed to create project: %w", err)
	}

	if err := syncMembers(ctx, tx, proj.ID, proj.Members); err != nil {
		return err
	}

	return tx.Commit()
}

// Get retrieves a project document by ID.
func (r *ProjectRepository) Get(ctx context.Context, id string) (*okr.Project, error) {
	var doc string
	err := r.db.QueryRowContext(ctx, `SELECT document FROM projects WHERE id = ?`, id).Scan(&doc)
	if err == sql.ErrNoRows {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get project: %w", err)
	}

	var proj okr.Project
	if err := json.Unmarshal([]byte(doc), &proj); err != nil {
		return nil, fmt.Errorf("failed to decode project %s: %w", id, err)
	}
	proj.ID = id
	return &proj, nil
}

// ListForUser returns summaries of every project the user is a member of,
// most recently updated first.
func (r *ProjectRepository) ListForUser(ctx context.Context, userID string) ([]repository.ProjectSummary, error) {
	query := `
		SELECT p.id, p.name, p.archived, m.role, p.updated_at
		FROM projects p
		JOIN project_members m ON m.project_id = p.id
		WHERE m.user_id = ?
		ORDER BY p.updated_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	defer rows.Close()

	var summaries []repository.ProjectSummary
	for rows.Next() {
		var s repository.ProjectSummary
		if err := rows.Scan(&s.ID, &s.Name, &s.Archived, &s.Role, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan project summary: %w", err)
		}
		summaries = append(summaries, s)
	}
	return summaries, rows.Err()
}

// SaveDocument replaces the stored document with the aggregate and resyncs
// the index columns.
func (r *ProjectRepository) SaveDocument(ctx context.Context, proj *okr.Project) error {
	doc, err := json.Marshal(proj)
	if err != nil {
		return fmt.Errorf("failed to encode project: %w", err)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		UPDATE projects SET name = ?, archived = ?, document = ?, updated_at = ?
		WHERE id = ?
	`
	res, err := tx.ExecContext(ctx, query, proj.Name, proj.Archived, string(doc), time.Now().UTC(), proj.ID)
	if err != nil {
		return fmt.Errorf("failed to save project: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return repository.ErrNotFound
	}

	if err := syncMembers(ctx, tx, proj.ID, proj.Members); err != nil {
		return err
	}

	return tx.Commit()
}

// SaveFields merges the given top-level fields into the stored document.
// Fields absent from the map are left as stored, so concurrent writers of
// disjoint fields do not clobber each other. The read and write happen in
// one transaction.
func (r *ProjectRepository) SaveFields(ctx context.Context, id string, fields map[string]any) error {
	if len(fields) == 0 {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var doc string
	err = tx.QueryRowContext(ctx, `SELECT document FROM projects WHERE id = ?`, id).Scan(&doc)
	if err == sql.ErrNoRows {
		return repository.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to get project: %w", err)
	}

	var merged map[string]any
	if err := json.Unmarshal([]byte(doc), &merged); err != nil {
		return fmt.Errorf("failed to decode project %s: %w", id, err)
	}
	for k, v := range fields {
		merged[k] = v
	}

	out, err := json.Marshal(merged)
	if err != nil {
		return fmt.Errorf("failed to encode project: %w", err)
	}

	// Round-trip through the typed aggregate to refresh the index columns.
	var proj okr.Project
	if err := json.Unmarshal(out, &proj); err != nil {
		return fmt.Errorf("failed to decode merged project %s: %w", id, err)
	}

	query := `
		UPDATE projects SET name = ?, archived = ?, document = ?, updated_at = ?
		WHERE id = ?
	`
	if _, err := tx.ExecContext(ctx, query, proj.Name, proj.Archived, string(out), time.Now().UTC(), id); err != nil {
		return fmt.Errorf("failed to save project: %w", err)
	}

	if _, touched := fields["members"]; touched {
		if err := syncMembers(ctx, tx, id, proj.Members); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// Delete removes a project; the membership index goes with it via cascade.
func (r *ProjectRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM projects WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete project: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func syncMembers(ctx context.Context, tx *sql.Tx, projectID string, members map[string]okr.Role) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM project_members WHERE project_id = ?`, projectID); err != nil {
		return fmt.Errorf("failed to clear members: %w", err)
	}
	for userID, role := range members {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO project_members (project_id, user_id, role) VALUES (?, ?, ?)`,
			projectID, userID, role)
		if err != nil {
			return fmt.Errorf("failed to index member %s: %w", userID, err)
		}
	}
	return nil
}

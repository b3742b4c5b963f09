package project

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/okrmaster/okrd/internal/okr"
	"github.com/okrmaster/okrd/internal/repository"
)

// Service handles project lifecycle operations: creation, membership,
// archival, clone, export and import. Content mutations inside a project
// (cycles, objectives, key results) live in the tracker service.
type Service struct {
	repo   Repository
	logger *slog.Logger
}

// NewService creates a new project service.
func NewService(repo Repository, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{repo: repo, logger: logger}
}

// CreateRequest defines project creation inputs.
type CreateRequest struct {
	Name        string
	CompanyName string
	Mission     string
	Vision      string
	TeamNames   []string
}

// Create creates a new project seeded with an active initial cycle and the
// creator as owner.
func (s *Service) Create(ctx context.Context, userID string, req CreateRequest) (*okr.Project, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, ErrInvalidInput
	}

	proj := &okr.Project{
		ID:          uuid.NewString(),
		Name:        req.Name,
		CompanyName: req.CompanyName,
		Foundation:  okr.Foundation{Mission: req.Mission, Vision: req.Vision},
		Cycles: []okr.Cycle{{
			ID:        uuid.NewString(),
			Name:      "Initial Cycle",
			StartDate: okr.Today(time.Now()),
			Status:    okr.CycleActive,
		}},
		Members: map[string]okr.Role{userID: okr.RoleOwner},
	}
	for _, name := range req.TeamNames {
		if strings.TrimSpace(name) == "" {
			continue
		}
		proj.Teams = append(proj.Teams, okr.Team{ID: uuid.NewString(), Name: name})
	}

	if err := s.repo.Create(ctx, proj); err != nil {
		return nil, fmt.Errorf("creating project: %w", err)
	}

	s.logger.Info("project created", "project_id", proj.ID, "owner", userID)
	return proj, nil
}

// List returns summaries of the user's projects.
func (s *Service) List(ctx context.Context, userID string) ([]repository.ProjectSummary, error) {
	return s.repo.ListForUser(ctx, userID)
}

// Get fetches a project the user is a member of.
func (s *Service) Get(ctx context.Context, userID, id string) (*okr.Project, error) {
	return s.authorize(ctx, userID, id, okr.RoleViewer)
}

// Delete removes a project permanently. Owner only.
func (s *Service) Delete(ctx context.Context, userID, id string) error {
	if _, err := s.authorize(ctx, userID, id, okr.RoleOwner); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("deleting project: %w", err)
	}
	s.logger.Info("project deleted", "project_id", id, "user", userID)
	return nil
}

// Archive marks a project archived without deleting its data. Owner only.
func (s *Service) Archive(ctx context.Context, userID, id string) error {
	return s.setArchived(ctx, userID, id, true)
}

// Unarchive restores an archived project. Owner only.
func (s *Service) Unarchive(ctx context.Context, userID, id string) error {
	return s.setArchived(ctx, userID, id, false)
}

func (s *Service) setArchived(ctx context.Context, userID, id string, archived bool) error {
	if _, err := s.authorize(ctx, userID, id, okr.RoleOwner); err != nil {
		return err
	}
	if err := s.repo.SaveFields(ctx, id, map[string]any{"isArchived": archived}); err != nil {
		return fmt.Errorf("saving project: %w", err)
	}
	return nil
}

// Clone deep-copies a project into a fresh one owned by the caller. The
// copy starts a new active cycle; objective and key result ids are
// regenerated, current values reset to their starts, and history cleared.
func (s *Service) Clone(ctx context.Context, userID, id string) (*okr.Project, error) {
	src, err := s.authorize(ctx, userID, id, okr.RoleViewer)
	if err != nil {
		return nil, err
	}

	cycle := okr.Cycle{
		ID:        uuid.NewString(),
		Name:      "Initial Cycle",
		StartDate: okr.Today(time.Now()),
		Status:    okr.CycleActive,
	}

	clone := &okr.Project{
		ID:          uuid.NewString(),
		Name:        src.Name + " (Clone)",
		CompanyName: src.CompanyName,
		Foundation:  src.Foundation,
		Cycles:      []okr.Cycle{cycle},
		Members:     map[string]okr.Role{userID: okr.RoleOwner},
	}

	teamIDs := make(map[string]string, len(src.Teams))
	for _, team := range src.Teams {
		nid := uuid.NewString()
		teamIDs[team.ID] = nid
		clone.Teams = append(clone.Teams, okr.Team{ID: nid, Name: team.Name})
	}

	objIDs := make(map[string]string, len(src.Objectives))
	for _, obj := range src.Objectives {
		objIDs[obj.ID] = uuid.NewString()
	}
	for _, obj := range src.Objectives {
		cp := obj.Copy()
		cp.ID = objIDs[obj.ID]
		cp.CycleID = cycle.ID
		cp.Progress = 0
		if nid, ok := teamIDs[cp.OwnerID]; ok {
			cp.OwnerID = nid
		}
		var deps []string
		for _, depID := range obj.DependsOn {
			if nid, ok := objIDs[depID]; ok {
				deps = append(deps, nid)
			}
		}
		cp.DependsOn = deps
		for i := range cp.KeyResults {
			kr := &cp.KeyResults[i]
			kr.ID = uuid.NewString()
			kr.CurrentValue = kr.StartValue
			kr.Progress = 0
			kr.History = nil
		}
		clone.Objectives = append(clone.Objectives, cp)
	}

	if err := s.repo.Create(ctx, clone); err != nil {
		return nil, fmt.Errorf("creating clone: %w", err)
	}

	s.logger.Info("project cloned", "source_id", id, "project_id", clone.ID, "user", userID)
	return clone, nil
}

// Export serializes the full project document as indented JSON.
func (s *Service) Export(ctx context.Context, userID, id string) ([]byte, error) {
	proj, err := s.authorize(ctx, userID, id, okr.RoleViewer)
	if err != nil {
		return nil, err
	}
	data, err := json.MarshalIndent(proj, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding project: %w", err)
	}
	return data, nil
}

// Import creates a new project from an exported document. The payload must
// carry a name and at least one cycle; the imported copy gets a fresh id,
// an "(Imported)" suffix and the caller as sole owner.
func (s *Service) Import(ctx context.Context, userID string, data []byte) (*okr.Project, error) {
	var proj okr.Project
	if err := json.Unmarshal(data, &proj); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidImport, err)
	}
	if strings.TrimSpace(proj.Name) == "" || len(proj.Cycles) == 0 {
		return nil, ErrInvalidImport
	}

	proj.ID = uuid.NewString()
	proj.Name += " (Imported)"
	proj.Archived = false
	proj.Members = map[string]okr.Role{userID: okr.RoleOwner}

	if err := s.repo.Create(ctx, &proj); err != nil {
		return nil, fmt.Errorf("creating imported project: %w", err)
	}

	s.logger.Info("project imported", "project_id", proj.ID, "user", userID)
	return &proj, nil
}

// UpdateFoundation sets the project's mission and vision. Editor or owner.
func (s *Service) UpdateFoundation(ctx context.Context, userID, id, mission, vision string) error {
	if _, err := s.authorize(ctx, userID, id, okr.RoleEditor); err != nil {
		return err
	}
	fields := map[string]any{"foundation": okr.Foundation{Mission: mission, Vision: vision}}
	if err := s.repo.SaveFields(ctx, id, fields); err != nil {
		return fmt.Errorf("saving foundation: %w", err)
	}
	return nil
}

// SetNotes replaces the project's shared notes content. Editor or owner.
func (s *Service) SetNotes(ctx context.Context, userID, id, content string) error {
	if _, err := s.authorize(ctx, userID, id, okr.RoleEditor); err != nil {
		return err
	}
	if err := s.repo.SaveFields(ctx, id, map[string]any{"notes": content}); err != nil {
		return fmt.Errorf("saving notes: %w", err)
	}
	return nil
}

// InviteMember grants a user access to the project. Owner only; invitees
// join as editor or viewer, never as a second owner.
func (s *Service) InviteMember(ctx context.Context, userID, id, memberID string, role okr.Role) error {
	proj, err := s.authorize(ctx, userID, id, okr.RoleOwner)
	if err != nil {
		return err
	}
	if role != okr.RoleEditor && role != okr.RoleViewer {
		return ErrInvalidInput
	}
	if strings.TrimSpace(memberID) == "" || proj.IsMember(memberID) {
		return ErrInvalidInput
	}

	proj.Members[memberID] = role
	return s.saveMembers(ctx, proj)
}

// SetMemberRole changes an existing member's role. Owner only; the owner's
// own role is immutable.
func (s *Service) SetMemberRole(ctx context.Context, userID, id, memberID string, role okr.Role) error {
	proj, err := s.authorize(ctx, userID, id, okr.RoleOwner)
	if err != nil {
		return err
	}
	if role != okr.RoleEditor && role != okr.RoleViewer {
		return ErrInvalidInput
	}
	current := proj.RoleOf(memberID)
	if current == "" {
		return ErrInvalidInput
	}
	if current == okr.RoleOwner {
		return ErrPermissionDenied
	}

	proj.Members[memberID] = role
	return s.saveMembers(ctx, proj)
}

// RemoveMember revokes a member's access. Owner only; the owner cannot be
// removed.
func (s *Service) RemoveMember(ctx context.Context, userID, id, memberID string) error {
	proj, err := s.authorize(ctx, userID, id, okr.RoleOwner)
	if err != nil {
		return err
	}
	current := proj.RoleOf(memberID)
	if current == "" {
		return ErrInvalidInput
	}
	if current == okr.RoleOwner {
		return ErrPermissionDenied
	}

	delete(proj.Members, memberID)
	return s.saveMembers(ctx, proj)
}

func (s *Service) saveMembers(ctx context.Context, proj *okr.Project) error {
	if err := s.repo.SaveFields(ctx, proj.ID, map[string]any{"members": proj.Members}); err != nil {
		return fmt.Errorf("saving members: %w", err)
	}
	return nil
}

// authorize loads the project and checks the caller holds at least the
// given role. Roles order viewer < editor < owner.
func (s *Service) authorize(ctx context.Context, userID, id string, min okr.Role) (*okr.Project, error) {
	proj, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("getting project: %w", err)
	}
	if !roleAtLeast(proj.RoleOf(userID), min) {
		return nil, ErrPermissionDenied
	}
	return proj, nil
}

func roleAtLeast(have, min okr.Role) bool {
	rank := map[okr.Role]int{okr.RoleViewer: 1, okr.RoleEditor: 2, okr.RoleOwner: 3}
	return rank[have] >= rank[min] && rank[have] > 0
}

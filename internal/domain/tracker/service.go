package tracker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/okrmaster/okrd/internal/domain/project"
	"github.com/okrmaster/okrd/internal/okr"
	"github.com/okrmaster/okrd/internal/repository"
)

// Repository is the slice of project persistence the tracker needs.
type Repository interface {
	Get(ctx context.Context, id string) (*okr.Project, error)
	SaveFields(ctx context.Context, id string, fields map[string]any) error
}

// Service handles content mutations inside a project: cycles, objectives
// and key results. Every mutation loads the aggregate, checks the caller's
// role, applies the change in memory and persists only the touched
// top-level fields.
type Service struct {
	repo   Repository
	logger *slog.Logger
	now    func() time.Time
}

// NewService creates a new tracker service.
func NewService(repo Repository, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{repo: repo, logger: logger, now: time.Now}
}

// AddCycleRequest defines cycle creation inputs.
type AddCycleRequest struct {
	Name      string
	StartDate string
	EndDate   string
}

// AddCycle appends a new cycle. New cycles start archived; SetActiveCycle
// promotes them.
func (s *Service) AddCycle(ctx context.Context, userID, projectID string, req AddCycleRequest) (*okr.Cycle, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, ErrInvalidInput
	}
	proj, err := s.edit(ctx, userID, projectID)
	if err != nil {
		return nil, err
	}

	cycle := okr.Cycle{
		ID:        uuid.NewString(),
		Name:      req.Name,
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
		Status:    okr.CycleArchived,
	}
	proj.Cycles = append(proj.Cycles, cycle)

	if err := s.save(ctx, projectID, map[string]any{"cycles": proj.Cycles}); err != nil {
		return nil, err
	}
	return &cycle, nil
}

// SetActiveCycle makes the given cycle the single active one.
func (s *Service) SetActiveCycle(ctx context.Context, userID, projectID, cycleID string) error {
	proj, err := s.edit(ctx, userID, projectID)
	if err != nil {
		return err
	}
	if proj.CycleByID(cycleID) == nil {
		return ErrCycleNotFound
	}

	for i := range proj.Cycles {
		if proj.Cycles[i].ID == cycleID {
			proj.Cycles[i].Status = okr.CycleActive
		} else {
			proj.Cycles[i].Status = okr.CycleArchived
		}
	}

	return s.save(ctx, projectID, map[string]any{"cycles": proj.Cycles})
}

// DeleteCycle removes a cycle and every objective attached to it. The
// active cycle and the last remaining cycle are protected.
func (s *Service) DeleteCycle(ctx context.Context, userID, projectID, cycleID string) error {
	proj, err := s.edit(ctx, userID, projectID)
	if err != nil {
		return err
	}
	cycle := proj.CycleByID(cycleID)
	if cycle == nil {
		return ErrCycleNotFound
	}
	if len(proj.Cycles) == 1 {
		return ErrLastCycle
	}
	if cycle.Status == okr.CycleActive {
		return ErrCycleActive
	}

	kept := proj.Cycles[:0]
	for _, c := range proj.Cycles {
		if c.ID != cycleID {
			kept = append(kept, c)
		}
	}
	proj.Cycles = kept

	var objectives []okr.Objective
	for _, obj := range proj.Objectives {
		if obj.CycleID == cycleID {
			okr.PruneDependency(proj.Objectives, obj.ID)
			continue
		}
		objectives = append(objectives, obj)
	}
	proj.Objectives = objectives

	return s.save(ctx, projectID, map[string]any{
		"cycles":     proj.Cycles,
		"objectives": proj.Objectives,
	})
}

// AddObjectiveRequest defines objective creation inputs.
type AddObjectiveRequest struct {
	Title       string
	OwnerID     string
	Responsible string
	Notes       string
	StartDate   string
	EndDate     string
	DependsOn   []string
}

// AddObjective creates an objective attached to the active cycle.
func (s *Service) AddObjective(ctx context.Context, userID, projectID string, req AddObjectiveRequest) (*okr.Objective, error) {
	if strings.TrimSpace(req.Title) == "" {
		return nil, ErrInvalidInput
	}
	proj, err := s.edit(ctx, userID, projectID)
	if err != nil {
		return nil, err
	}
	active := proj.ActiveCycle()
	if active == nil {
		return nil, ErrNoActiveCycle
	}

	obj := okr.Objective{
		ID:          uuid.NewString(),
		Title:       req.Title,
		CycleID:     active.ID,
		OwnerID:     req.OwnerID,
		Responsible: req.Responsible,
		Notes:       req.Notes,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		DependsOn:   req.DependsOn,
	}
	if obj.OwnerID == "" {
		obj.OwnerID = okr.CompanyOwnerID
	}
	if err := checkDependencies(obj, proj.Objectives); err != nil {
		return nil, err
	}

	proj.Objectives = append(proj.Objectives, obj)
	if err := s.save(ctx, projectID, map[string]any{"objectives": proj.Objectives}); err != nil {
		return nil, err
	}
	return &obj, nil
}

// UpdateObjectiveRequest carries optional field updates; nil fields are
// left untouched.
type UpdateObjectiveRequest struct {
	Title       *string
	OwnerID     *string
	Responsible *string
	Notes       *string
	StartDate   *string
	EndDate     *string
	DependsOn   []string
	SetDeps     bool
}

// UpdateObjective applies partial updates to an objective.
func (s *Service) UpdateObjective(ctx context.Context, userID, projectID, objectiveID string, req UpdateObjectiveRequest) (*okr.Objective, error) {
	proj, err := s.edit(ctx, userID, projectID)
	if err != nil {
		return nil, err
	}
	obj := proj.ObjectiveByID(objectiveID)
	if obj == nil {
		return nil, ErrObjectiveNotFound
	}

	if req.Title != nil {
		if strings.TrimSpace(*req.Title) == "" {
			return nil, ErrInvalidInput
		}
		obj.Title = *req.Title
	}
	if req.OwnerID != nil {
		obj.OwnerID = *req.OwnerID
	}
	if req.Responsible != nil {
		obj.Responsible = *req.Responsible
	}
	if req.Notes != nil {
		obj.Notes = *req.Notes
	}
	if req.StartDate != nil {
		obj.StartDate = *req.StartDate
	}
	if req.EndDate != nil {
		obj.EndDate = *req.EndDate
	}
	if req.SetDeps {
		probe := *obj
		probe.DependsOn = req.DependsOn
		if err := checkDependencies(probe, proj.Objectives); err != nil {
			return nil, err
		}
		obj.DependsOn = req.DependsOn
	}

	if err := s.save(ctx, projectID, map[string]any{"objectives": proj.Objectives}); err != nil {
		return nil, err
	}
	return obj, nil
}

// DeleteObjective removes an objective and prunes its id from every other
// objective's dependency list.
func (s *Service) DeleteObjective(ctx context.Context, userID, projectID, objectiveID string) error {
	proj, err := s.edit(ctx, userID, projectID)
	if err != nil {
		return err
	}
	if proj.ObjectiveByID(objectiveID) == nil {
		return ErrObjectiveNotFound
	}

	kept := proj.Objectives[:0]
	for _, obj := range proj.Objectives {
		if obj.ID != objectiveID {
			kept = append(kept, obj)
		}
	}
	proj.Objectives = kept
	okr.PruneDependency(proj.Objectives, objectiveID)

	return s.save(ctx, projectID, map[string]any{"objectives": proj.Objectives})
}

// ReorderObjectives reorders a cycle's objectives to the given id sequence.
// Ids not listed keep their relative order after the listed ones;
// objectives in other cycles are untouched.
func (s *Service) ReorderObjectives(ctx context.Context, userID, projectID, cycleID string, orderedIDs []string) error {
	proj, err := s.edit(ctx, userID, projectID)
	if err != nil {
		return err
	}
	if proj.CycleByID(cycleID) == nil {
		return ErrCycleNotFound
	}

	inCycle := make(map[string]okr.Objective)
	for _, obj := range proj.Objectives {
		if obj.CycleID == cycleID {
			inCycle[obj.ID] = obj
		}
	}

	var reordered []okr.Objective
	seen := make(map[string]bool, len(orderedIDs))
	for _, id := range orderedIDs {
		obj, ok := inCycle[id]
		if !ok {
			return ErrObjectiveNotFound
		}
		if seen[id] {
			return ErrInvalidInput
		}
		seen[id] = true
		reordered = append(reordered, obj)
	}
	for _, obj := range proj.Objectives {
		if obj.CycleID == cycleID && !seen[obj.ID] {
			reordered = append(reordered, obj)
		}
	}

	// Splice the cycle's new order back into the overall slice, keeping
	// other cycles' positions stable.
	next := 0
	for i := range proj.Objectives {
		if proj.Objectives[i].CycleID == cycleID {
			proj.Objectives[i] = reordered[next]
			next++
		}
	}

	return s.save(ctx, projectID, map[string]any{"objectives": proj.Objectives})
}

// AddKeyResultRequest defines key result creation inputs.
type AddKeyResultRequest struct {
	Title       string
	StartValue  float64
	TargetValue float64
	Confidence  okr.Confidence
	Notes       string
}

// AddKeyResult creates a key result with its seed history entry and
// recomputes the objective's progress.
func (s *Service) AddKeyResult(ctx context.Context, userID, projectID, objectiveID string, req AddKeyResultRequest) (*okr.KeyResult, error) {
	if strings.TrimSpace(req.Title) == "" {
		return nil, ErrInvalidInput
	}
	proj, err := s.edit(ctx, userID, projectID)
	if err != nil {
		return nil, err
	}
	obj := proj.ObjectiveByID(objectiveID)
	if obj == nil {
		return nil, ErrObjectiveNotFound
	}

	kr := okr.KeyResult{
		ID:           uuid.NewString(),
		Title:        req.Title,
		StartValue:   req.StartValue,
		CurrentValue: req.StartValue,
		TargetValue:  req.TargetValue,
		Confidence:   req.Confidence,
		Notes:        req.Notes,
	}
	if kr.Confidence == "" {
		kr.Confidence = okr.ConfidenceOnTrack
	}
	okr.SeedHistory(&kr, okr.Today(s.now()))

	obj.KeyResults = append(obj.KeyResults, kr)
	if err := okr.Recalculate(obj); err != nil {
		return nil, err
	}

	if err := s.save(ctx, projectID, map[string]any{"objectives": proj.Objectives}); err != nil {
		return nil, err
	}
	return &obj.KeyResults[len(obj.KeyResults)-1], nil
}

// UpdateKeyResultRequest carries optional field updates; nil fields are
// left untouched.
type UpdateKeyResultRequest struct {
	Title        *string
	Notes        *string
	StartValue   *float64
	TargetValue  *float64
	CurrentValue *float64
	Confidence   *okr.Confidence
}

// UpdateKeyResult applies partial updates to a key result. Changes to the
// current value or confidence append one history entry dated today;
// repeating the same values is a no-op on the history.
func (s *Service) UpdateKeyResult(ctx context.Context, userID, projectID, objectiveID, keyResultID string, req UpdateKeyResultRequest) (*okr.KeyResult, error) {
	proj, err := s.edit(ctx, userID, projectID)
	if err != nil {
		return nil, err
	}
	obj := proj.ObjectiveByID(objectiveID)
	if obj == nil {
		return nil, ErrObjectiveNotFound
	}
	kr := keyResultByID(obj, keyResultID)
	if kr == nil {
		return nil, ErrKeyResultNotFound
	}

	if req.Title != nil {
		if strings.TrimSpace(*req.Title) == "" {
			return nil, ErrInvalidInput
		}
		kr.Title = *req.Title
	}
	if req.Notes != nil {
		kr.Notes = *req.Notes
	}
	if req.StartValue != nil {
		kr.StartValue = *req.StartValue
	}
	if req.TargetValue != nil {
		kr.TargetValue = *req.TargetValue
	}

	newValue := kr.CurrentValue
	if req.CurrentValue != nil {
		newValue = *req.CurrentValue
	}
	newConfidence := kr.Confidence
	if req.Confidence != nil {
		newConfidence = *req.Confidence
	}
	okr.RecordHistoryIfChanged(kr, newValue, newConfidence, okr.Today(s.now()))

	if err := okr.Recalculate(obj); err != nil {
		return nil, err
	}

	if err := s.save(ctx, projectID, map[string]any{"objectives": proj.Objectives}); err != nil {
		return nil, err
	}
	return kr, nil
}

// DeleteKeyResult removes a key result and recomputes the objective's
// progress.
func (s *Service) DeleteKeyResult(ctx context.Context, userID, projectID, objectiveID, keyResultID string) error {
	proj, err := s.edit(ctx, userID, projectID)
	if err != nil {
		return err
	}
	obj := proj.ObjectiveByID(objectiveID)
	if obj == nil {
		return ErrObjectiveNotFound
	}
	if keyResultByID(obj, keyResultID) == nil {
		return ErrKeyResultNotFound
	}

	kept := obj.KeyResults[:0]
	for _, kr := range obj.KeyResults {
		if kr.ID != keyResultID {
			kept = append(kept, kr)
		}
	}
	obj.KeyResults = kept
	if err := okr.Recalculate(obj); err != nil {
		return err
	}

	return s.save(ctx, projectID, map[string]any{"objectives": proj.Objectives})
}

// edit loads the project and requires editor or owner.
func (s *Service) edit(ctx context.Context, userID, projectID string) (*okr.Project, error) {
	proj, err := s.repo.Get(ctx, projectID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, project.ErrProjectNotFound
		}
		return nil, fmt.Errorf("getting project: %w", err)
	}
	if !proj.CanEdit(userID) {
		return nil, project.ErrPermissionDenied
	}
	return proj, nil
}

func (s *Service) save(ctx context.Context, projectID string, fields map[string]any) error {
	if err := s.repo.SaveFields(ctx, projectID, fields); err != nil {
		return fmt.Errorf("saving project: %w", err)
	}
	return nil
}

// checkDependencies rejects dependsOn ids that are unknown, cross-cycle or
// self-referential. Write-time validation is strict; read paths tolerate
// stale ids instead.
func checkDependencies(obj okr.Objective, all []okr.Objective) error {
	for _, depID := range obj.DependsOn {
		if depID == obj.ID {
			return ErrInvalidDependency
		}
		found := false
		for _, other := range all {
			if other.ID == depID && other.ID != obj.ID {
				if other.CycleID != obj.CycleID {
					return ErrInvalidDependency
				}
				found = true
				break
			}
		}
		if !found {
			return ErrInvalidDependency
		}
	}
	return nil
}

func keyResultByID(obj *okr.Objective, id string) *okr.KeyResult {
	for i := range obj.KeyResults {
		if obj.KeyResults[i].ID == id {
			return &obj.KeyResults[i]
		}
	}
	return nil
}

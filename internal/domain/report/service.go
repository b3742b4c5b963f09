package report

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/okrmaster/okrd/internal/domain/project"
	"github.com/okrmaster/okrd/internal/okr"
	"github.com/okrmaster/okrd/internal/repository"
)

// Repository is the read-only slice of project persistence reports need.
type Repository interface {
	Get(ctx context.Context, id string) (*okr.Project, error)
}

// Service derives dashboard and report views from stored projects. It
// never writes; everything here is a pure function of the aggregate and
// the report date.
type Service struct {
	repo   Repository
	logger *slog.Logger
	now    func() time.Time
}

// NewService creates a new report service.
func NewService(repo Repository, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{repo: repo, logger: logger, now: time.Now}
}

// OverviewFilter narrows an overview to one owner or responsible person.
type OverviewFilter struct {
	OwnerID     string
	Responsible string
}

// OwnerProgress is one owner's rolled-up progress within a cycle.
type OwnerProgress struct {
	OwnerID   string `json:"ownerId"`
	OwnerName string `json:"ownerName"`
	Progress  int    `json:"progress"`
}

// Overview is the cycle dashboard: overall progress, per-owner rollups and
// key result health counts.
type Overview struct {
	CycleID         string               `json:"cycleId"`
	CycleName       string               `json:"cycleName"`
	OverallProgress int                  `json:"overallProgress"`
	Owners          []OwnerProgress      `json:"owners"`
	Health          okr.ConfidenceCounts `json:"health"`
	ObjectiveCount  int                  `json:"objectiveCount"`
}

// GetOverview builds the dashboard for a cycle; an empty cycleID means the
// active one.
func (s *Service) GetOverview(ctx context.Context, userID, projectID, cycleID string, filter OverviewFilter) (*Overview, error) {
	proj, cycle, err := s.view(ctx, userID, projectID, cycleID)
	if err != nil {
		return nil, err
	}

	objectives := filterObjectives(proj.ObjectivesInCycle(cycle.ID), filter)

	out := &Overview{
		CycleID:        cycle.ID,
		CycleName:      cycle.Name,
		ObjectiveCount: len(objectives),
	}
	out.OverallProgress = okr.OverallProgress(objectives)

	byOwner := make(map[string][]okr.Objective)
	var ownerOrder []string
	for _, obj := range objectives {
		if _, seen := byOwner[obj.OwnerID]; !seen {
			ownerOrder = append(ownerOrder, obj.OwnerID)
		}
		byOwner[obj.OwnerID] = append(byOwner[obj.OwnerID], obj)

		for _, kr := range obj.KeyResults {
			switch kr.Confidence {
			case okr.ConfidenceAtRisk:
				out.Health.AtRisk++
			case okr.ConfidenceOffTrack:
				out.Health.OffTrack++
			default:
				out.Health.OnTrack++
			}
		}
	}
	for _, ownerID := range ownerOrder {
		out.Owners = append(out.Owners, OwnerProgress{
			OwnerID:   ownerID,
			OwnerName: proj.OwnerName(ownerID),
			Progress:  okr.OverallProgress(byOwner[ownerID]),
		})
	}

	return out, nil
}

// ObjectiveSnapshot is one objective's reconstructed state in a
// point-in-time report.
type ObjectiveSnapshot struct {
	ID         string          `json:"id"`
	Title      string          `json:"title"`
	OwnerName  string          `json:"ownerName"`
	Progress   int             `json:"progress"`
	KeyResults []okr.KeyResult `json:"keyResults"`
}

// PointInTimeReport is the active cycle reconstructed as of a date.
type PointInTimeReport struct {
	Date            string              `json:"date"`
	OverallProgress int                 `json:"overallProgress"`
	Objectives      []ObjectiveSnapshot `json:"objectives"`
}

// PointInTime reconstructs the active cycle's objectives as of the given
// date.
func (s *Service) PointInTime(ctx context.Context, userID, projectID, date string) (*PointInTimeReport, error) {
	proj, cycle, err := s.view(ctx, userID, projectID, "")
	if err != nil {
		return nil, err
	}
	if _, err := time.Parse(okr.DateLayout, date); err != nil {
		return nil, fmt.Errorf("invalid report date %q: %w", date, err)
	}

	out := &PointInTimeReport{Date: date}
	objectives := proj.ObjectivesInCycle(cycle.ID)
	reconstructed := make([]okr.Objective, 0, len(objectives))
	for _, obj := range objectives {
		rec, err := okr.ReconstructAsOf(obj, date)
		if err != nil {
			return nil, err
		}
		reconstructed = append(reconstructed, rec)
		out.Objectives = append(out.Objectives, ObjectiveSnapshot{
			ID:         rec.ID,
			Title:      rec.Title,
			OwnerName:  proj.OwnerName(rec.OwnerID),
			Progress:   rec.Progress,
			KeyResults: rec.KeyResults,
		})
	}
	out.OverallProgress = okr.OverallProgress(reconstructed)
	return out, nil
}

// HealthTrend is the daily confidence breakdown over a trailing window.
type HealthTrend struct {
	Dates  []string               `json:"dates"`
	Counts []okr.ConfidenceCounts `json:"counts"`
}

// GetHealthTrend walks the trailing N days (default 30) of the active
// cycle's key result confidence.
func (s *Service) GetHealthTrend(ctx context.Context, userID, projectID string, days int) (*HealthTrend, error) {
	proj, cycle, err := s.view(ctx, userID, projectID, "")
	if err != nil {
		return nil, err
	}
	if days <= 0 {
		days = 30
	}

	dates, err := okr.TrailingDates(okr.Today(s.now()), days)
	if err != nil {
		return nil, err
	}
	byDate := okr.DailyConfidenceCounts(proj.ObjectivesInCycle(cycle.ID), dates)

	out := &HealthTrend{Dates: dates, Counts: make([]okr.ConfidenceCounts, len(dates))}
	for i, date := range dates {
		out.Counts[i] = byDate[date]
	}
	return out, nil
}

// GetVelocity returns week-over-week progress deltas for the active cycle
// (default 4 weeks).
func (s *Service) GetVelocity(ctx context.Context, userID, projectID string, weeks int) ([]int, error) {
	proj, cycle, err := s.view(ctx, userID, projectID, "")
	if err != nil {
		return nil, err
	}
	if weeks <= 0 {
		weeks = 4
	}
	return okr.WeeklyVelocity(proj.ObjectivesInCycle(cycle.ID), okr.Today(s.now()), weeks)
}

// GetBurndown returns the active cycle's key result burndown, or
// okr.ErrInsufficientData when the cycle is missing boundary dates.
func (s *Service) GetBurndown(ctx context.Context, userID, projectID string) (*okr.Burndown, error) {
	proj, cycle, err := s.view(ctx, userID, projectID, "")
	if err != nil {
		return nil, err
	}
	return okr.BurndownSeries(proj.ObjectivesInCycle(cycle.ID), *cycle, okr.Today(s.now()))
}

// RiskEntry is one objective with its troubled key results.
type RiskEntry struct {
	ObjectiveID string          `json:"objectiveId"`
	Title       string          `json:"title"`
	OwnerName   string          `json:"ownerName"`
	KeyResults  []okr.KeyResult `json:"keyResults"`
}

// GetRiskBoard lists active-cycle objectives that have At Risk or Off
// Track key results, with only those key results attached.
func (s *Service) GetRiskBoard(ctx context.Context, userID, projectID string) ([]RiskEntry, error) {
	proj, cycle, err := s.view(ctx, userID, projectID, "")
	if err != nil {
		return nil, err
	}

	var entries []RiskEntry
	for _, obj := range proj.ObjectivesInCycle(cycle.ID) {
		var troubled []okr.KeyResult
		for _, kr := range obj.KeyResults {
			if kr.Confidence == okr.ConfidenceAtRisk || kr.Confidence == okr.ConfidenceOffTrack {
				troubled = append(troubled, kr)
			}
		}
		if len(troubled) == 0 {
			continue
		}
		entries = append(entries, RiskEntry{
			ObjectiveID: obj.ID,
			Title:       obj.Title,
			OwnerName:   proj.OwnerName(obj.OwnerID),
			KeyResults:  troubled,
		})
	}
	return entries, nil
}

// GanttRow is one schedulable objective for timeline rendering.
type GanttRow struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Start        string   `json:"start"`
	End          string   `json:"end"`
	Progress     int      `json:"progress"`
	Dependencies []string `json:"dependencies"`
}

// GetGanttRows returns active-cycle objectives that carry both dates.
// Dependency ids that no longer resolve within the cycle are dropped
// rather than failing the whole report.
func (s *Service) GetGanttRows(ctx context.Context, userID, projectID string) ([]GanttRow, error) {
	proj, cycle, err := s.view(ctx, userID, projectID, "")
	if err != nil {
		return nil, err
	}

	objectives := proj.ObjectivesInCycle(cycle.ID)
	var rows []GanttRow
	for _, obj := range objectives {
		if obj.StartDate == "" || obj.EndDate == "" {
			continue
		}
		rows = append(rows, GanttRow{
			ID:           obj.ID,
			Name:         obj.Title,
			Start:        obj.StartDate,
			End:          obj.EndDate,
			Progress:     obj.Progress,
			Dependencies: okr.ValidDependencies(obj, objectives),
		})
	}
	return rows, nil
}

// view loads the project, requires membership, and resolves the cycle (the
// active one when cycleID is empty). No resolvable cycle means there is
// nothing to report on.
func (s *Service) view(ctx context.Context, userID, projectID, cycleID string) (*okr.Project, *okr.Cycle, error) {
	proj, err := s.repo.Get(ctx, projectID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil, project.ErrProjectNotFound
		}
		return nil, nil, fmt.Errorf("getting project: %w", err)
	}
	if !proj.IsMember(userID) {
		return nil, nil, project.ErrPermissionDenied
	}

	var cycle *okr.Cycle
	if cycleID == "" {
		cycle = proj.ActiveCycle()
	} else {
		cycle = proj.CycleByID(cycleID)
	}
	if cycle == nil {
		return nil, nil, okr.ErrInsufficientData
	}
	return proj, cycle, nil
}

func filterObjectives(objectives []okr.Objective, filter OverviewFilter) []okr.Objective {
	if filter.OwnerID == "" && filter.Responsible == "" {
		return objectives
	}
	var out []okr.Objective
	for _, obj := range objectives {
		if filter.OwnerID != "" && obj.OwnerID != filter.OwnerID {
			continue
		}
		if filter.Responsible != "" && obj.Responsible != filter.Responsible {
			continue
		}
		out = append(out, obj)
	}
	return out
}

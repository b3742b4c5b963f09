package report_test

import (
	"context"
	"testing"
	"time"

	"github.com/okrmaster/okrd/internal/domain/project"
	"github.com/okrmaster/okrd/internal/domain/report"
	"github.com/okrmaster/okrd/internal/okr"
	"github.com/okrmaster/okrd/internal/repository/mocks"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func daysAgo(t *testing.T, n int) string {
	t.Helper()
	d, err := okr.AddDays(okr.Today(time.Now()), -n)
	require.NoError(t, err)
	return d
}

func daysAhead(t *testing.T, n int) string {
	t.Helper()
	d, err := okr.AddDays(okr.Today(time.Now()), n)
	require.NoError(t, err)
	return d
}

func reportProject(t *testing.T) *okr.Project {
	t.Helper()
	return &okr.Project{
		ID:          "p1",
		Name:        "Q1 Goals",
		CompanyName: "Acme",
		Teams:       []okr.Team{{ID: "t1", Name: "Platform"}},
		Cycles: []okr.Cycle{{
			ID:        "c1",
			Name:      "Q1",
			StartDate: daysAgo(t, 10),
			EndDate:   daysAhead(t, 10),
			Status:    okr.CycleActive,
		}},
		Objectives: []okr.Objective{
			{
				ID:        "o1",
				Title:     "Grow",
				CycleID:   "c1",
				OwnerID:   okr.CompanyOwnerID,
				StartDate: daysAgo(t, 10),
				EndDate:   daysAhead(t, 10),
				DependsOn: []string{"o2", "stale"},
				Progress:  60,
				KeyResults: []okr.KeyResult{{
					ID:           "kr1",
					Title:        "ARR",
					StartValue:   0,
					CurrentValue: 60,
					TargetValue:  100,
					Confidence:   okr.ConfidenceOnTrack,
					Progress:     60,
					History: []okr.HistoryEntry{
						{Date: daysAgo(t, 10), Value: 0, Confidence: okr.ConfidenceOnTrack},
						{Date: daysAgo(t, 2), Value: 60, Confidence: okr.ConfidenceOnTrack},
					},
				}},
			},
			{
				ID:          "o2",
				Title:       "Retain",
				CycleID:     "c1",
				OwnerID:     "t1",
				Responsible: "pat",
				Progress:    20,
				KeyResults: []okr.KeyResult{{
					ID:           "kr2",
					Title:        "Churn",
					StartValue:   10,
					CurrentValue: 8,
					TargetValue:  0,
					Confidence:   okr.ConfidenceAtRisk,
					Progress:     20,
					History: []okr.HistoryEntry{
						{Date: daysAgo(t, 10), Value: 10, Confidence: okr.ConfidenceOnTrack},
						{Date: daysAgo(t, 1), Value: 8, Confidence: okr.ConfidenceAtRisk},
					},
				}},
			},
		},
		Members: map[string]okr.Role{
			"alice": okr.RoleOwner,
			"carol": okr.RoleViewer,
		},
	}
}

func newReportService(t *testing.T, proj *okr.Project) *report.Service {
	t.Helper()
	repo := &mocks.ProjectRepository{}
	repo.On("Get", mock.Anything, proj.ID).Return(proj, nil)
	return report.NewService(repo, nil)
}

func TestReport_GetOverview(t *testing.T) {
	svc := newReportService(t, reportProject(t))
	ctx := context.Background()

	ov, err := svc.GetOverview(ctx, "carol", "p1", "", report.OverviewFilter{})
	require.NoError(t, err)
	require.Equal(t, "c1", ov.CycleID)
	require.Equal(t, 40, ov.OverallProgress)
	require.Equal(t, 2, ov.ObjectiveCount)
	require.Equal(t, okr.ConfidenceCounts{OnTrack: 1, AtRisk: 1}, ov.Health)

	require.Len(t, ov.Owners, 2)
	require.Equal(t, "Acme", ov.Owners[0].OwnerName)
	require.Equal(t, 60, ov.Owners[0].Progress)
	require.Equal(t, "Platform", ov.Owners[1].OwnerName)
	require.Equal(t, 20, ov.Owners[1].Progress)
}

func TestReport_GetOverviewFiltered(t *testing.T) {
	svc := newReportService(t, reportProject(t))

	ov, err := svc.GetOverview(context.Background(), "carol", "p1", "", report.OverviewFilter{Responsible: "pat"})
	require.NoError(t, err)
	require.Equal(t, 1, ov.ObjectiveCount)
	require.Equal(t, 20, ov.OverallProgress)
}

func TestReport_AccessAndMissingCycle(t *testing.T) {
	ctx := context.Background()

	svc := newReportService(t, reportProject(t))
	_, err := svc.GetOverview(ctx, "mallory", "p1", "", report.OverviewFilter{})
	require.ErrorIs(t, err, project.ErrPermissionDenied)

	proj := reportProject(t)
	proj.Cycles[0].Status = okr.CycleArchived
	svc = newReportService(t, proj)
	_, err = svc.GetOverview(ctx, "carol", "p1", "", report.OverviewFilter{})
	require.ErrorIs(t, err, okr.ErrInsufficientData)
}

func TestReport_PointInTime(t *testing.T) {
	svc := newReportService(t, reportProject(t))
	ctx := context.Background()

	// Before any update landed, both key results sit at their start.
	rep, err := svc.PointInTime(ctx, "carol", "p1", daysAgo(t, 5))
	require.NoError(t, err)
	require.Equal(t, 0, rep.OverallProgress)
	require.Len(t, rep.Objectives, 2)
	require.Equal(t, 0.0, rep.Objectives[0].KeyResults[0].CurrentValue)

	// Today reflects the live values.
	rep, err = svc.PointInTime(ctx, "carol", "p1", daysAgo(t, 0))
	require.NoError(t, err)
	require.Equal(t, 40, rep.OverallProgress)

	_, err = svc.PointInTime(ctx, "carol", "p1", "not-a-date")
	require.Error(t, err)
}

func TestReport_GetHealthTrend(t *testing.T) {
	svc := newReportService(t, reportProject(t))

	trend, err := svc.GetHealthTrend(context.Background(), "carol", "p1", 7)
	require.NoError(t, err)
	require.Len(t, trend.Dates, 7)
	require.Len(t, trend.Counts, 7)

	// Dates ascend day by day.
	for i := 1; i < len(trend.Dates); i++ {
		require.Less(t, trend.Dates[i-1], trend.Dates[i])
	}

	// kr2 went At Risk yesterday.
	last := trend.Counts[len(trend.Counts)-1]
	require.Equal(t, okr.ConfidenceCounts{OnTrack: 1, AtRisk: 1}, last)
	first := trend.Counts[0]
	require.Equal(t, okr.ConfidenceCounts{OnTrack: 2}, first)
}

func TestReport_GetVelocity(t *testing.T) {
	svc := newReportService(t, reportProject(t))

	velocities, err := svc.GetVelocity(context.Background(), "carol", "p1", 0)
	require.NoError(t, err)
	require.Len(t, velocities, 4)
}

func TestReport_GetBurndown(t *testing.T) {
	ctx := context.Background()

	svc := newReportService(t, reportProject(t))
	bd, err := svc.GetBurndown(ctx, "carol", "p1")
	require.NoError(t, err)
	require.Len(t, bd.Dates, 21)
	// Future days are gaps.
	require.Nil(t, bd.Actual[len(bd.Actual)-1])
	require.NotNil(t, bd.Actual[0])

	proj := reportProject(t)
	proj.Cycles[0].EndDate = ""
	svc = newReportService(t, proj)
	_, err = svc.GetBurndown(ctx, "carol", "p1")
	require.ErrorIs(t, err, okr.ErrInsufficientData)
}

func TestReport_GetRiskBoard(t *testing.T) {
	svc := newReportService(t, reportProject(t))

	entries, err := svc.GetRiskBoard(context.Background(), "carol", "p1")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, "o2", entries[0].ObjectiveID)
	require.Equal(t, "Platform", entries[0].OwnerName)
	require.Len(t, entries[0].KeyResults, 1)
	require.Equal(t, "kr2", entries[0].KeyResults[0].ID)
}

func TestReport_GetGanttRows(t *testing.T) {
	svc := newReportService(t, reportProject(t))

	rows, err := svc.GetGanttRows(context.Background(), "carol", "p1")
	require.NoError(t, err)
	// o2 has no dates and is skipped.
	require.Len(t, rows, 1)
	require.Equal(t, "o1", rows[0].ID)
	require.Equal(t, 60, rows[0].Progress)
	// The stale dependency id is dropped, the live one kept.
	require.Equal(t, []string{"o2"}, rows[0].Dependencies)
}

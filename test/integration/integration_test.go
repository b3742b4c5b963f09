package integration_test

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/okrmaster/okrd/internal/domain/project"
	"github.com/okrmaster/okrd/internal/domain/report"
	"github.com/okrmaster/okrd/internal/domain/tracker"
	"github.com/okrmaster/okrd/internal/okr"
	"github.com/okrmaster/okrd/internal/sqlite"
)

type testEnv struct {
	db          *sqlite.DB
	projectRepo *sqlite.ProjectRepository

	projectSvc *project.Service
	trackerSvc *tracker.Service
	reportSvc  *report.Service
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := sqlite.New(dsn)
	require.NoError(t, err)
	require.NoError(t, db.RunMigrations())
	t.Cleanup(func() { _ = db.Close() })

	projectRepo := sqlite.NewProjectRepository(db)

	return &testEnv{
		db:          db,
		projectRepo: projectRepo,
		projectSvc:  project.NewService(projectRepo, nil),
		trackerSvc:  tracker.NewService(projectRepo, nil),
		reportSvc:   report.NewService(projectRepo, nil),
	}
}

func TestIntegration_ColdStartWorkflow(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	proj, err := env.projectSvc.Create(ctx, "alice", project.CreateRequest{
		Name:        "2026 Goals",
		CompanyName: "Acme",
		TeamNames:   []string{"Platform"},
	})
	require.NoError(t, err)
	require.NotNil(t, proj.ActiveCycle())

	obj, err := env.trackerSvc.AddObjective(ctx, "alice", proj.ID, tracker.AddObjectiveRequest{
		Title: "Grow revenue",
	})
	require.NoError(t, err)
	require.Equal(t, okr.CompanyOwnerID, obj.OwnerID)

	kr, err := env.trackerSvc.AddKeyResult(ctx, "alice", proj.ID, obj.ID, tracker.AddKeyResultRequest{
		Title:       "ARR",
		StartValue:  0,
		TargetValue: 100,
	})
	require.NoError(t, err)
	require.Len(t, kr.History, 1, "new key results carry a seed history entry")
	require.Equal(t, 0.0, kr.CurrentValue)

	v := 40.0
	kr, err = env.trackerSvc.UpdateKeyResult(ctx, "alice", proj.ID, obj.ID, kr.ID, tracker.UpdateKeyResultRequest{
		CurrentValue: &v,
	})
	require.NoError(t, err)
	require.Equal(t, 40.0, kr.Progress)
	require.Len(t, kr.History, 2)

	ov, err := env.reportSvc.GetOverview(ctx, "alice", proj.ID, "", report.OverviewFilter{})
	require.NoError(t, err)
	require.Equal(t, 40, ov.OverallProgress)
	require.Equal(t, 1, ov.ObjectiveCount)

	// The update must have survived the round trip through the store.
	reloaded, err := env.projectSvc.Get(ctx, "alice", proj.ID)
	require.NoError(t, err)
	require.Equal(t, 40.0, reloaded.Objectives[0].KeyResults[0].CurrentValue)
}

func TestIntegration_CycleManagement(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	proj, err := env.projectSvc.Create(ctx, "alice", project.CreateRequest{Name: "Goals"})
	require.NoError(t, err)
	initial := proj.ActiveCycle().ID

	cycle, err := env.trackerSvc.AddCycle(ctx, "alice", proj.ID, tracker.AddCycleRequest{
		Name:      "Q2",
		StartDate: "2026-04-01",
		EndDate:   "2026-06-30",
	})
	require.NoError(t, err)
	require.Equal(t, okr.CycleArchived, cycle.Status)

	require.NoError(t, env.trackerSvc.SetActiveCycle(ctx, "alice", proj.ID, cycle.ID))

	reloaded, err := env.projectSvc.Get(ctx, "alice", proj.ID)
	require.NoError(t, err)
	require.Equal(t, cycle.ID, reloaded.ActiveCycle().ID)

	// Deleting the active cycle is refused; the archived one goes.
	err = env.trackerSvc.DeleteCycle(ctx, "alice", proj.ID, cycle.ID)
	require.ErrorIs(t, err, tracker.ErrCycleActive)
	require.NoError(t, env.trackerSvc.DeleteCycle(ctx, "alice", proj.ID, initial))

	err = env.trackerSvc.DeleteCycle(ctx, "alice", proj.ID, cycle.ID)
	require.ErrorIs(t, err, tracker.ErrLastCycle)
}

func TestIntegration_MembershipAndPermissions(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	proj, err := env.projectSvc.Create(ctx, "alice", project.CreateRequest{Name: "Goals"})
	require.NoError(t, err)

	_, err = env.projectSvc.Get(ctx, "bob", proj.ID)
	require.ErrorIs(t, err, project.ErrPermissionDenied)

	require.NoError(t, env.projectSvc.InviteMember(ctx, "alice", proj.ID, "bob", okr.RoleEditor))
	require.NoError(t, env.projectSvc.InviteMember(ctx, "alice", proj.ID, "carol", okr.RoleViewer))

	obj, err := env.trackerSvc.AddObjective(ctx, "bob", proj.ID, tracker.AddObjectiveRequest{Title: "Ship v2"})
	require.NoError(t, err)

	_, err = env.trackerSvc.AddObjective(ctx, "carol", proj.ID, tracker.AddObjectiveRequest{Title: "Nope"})
	require.ErrorIs(t, err, project.ErrPermissionDenied)

	_, err = env.reportSvc.GetOverview(ctx, "carol", proj.ID, "", report.OverviewFilter{})
	require.NoError(t, err, "viewers can read reports")

	require.NoError(t, env.projectSvc.RemoveMember(ctx, "alice", proj.ID, "bob"))
	err = env.trackerSvc.DeleteObjective(ctx, "bob", proj.ID, obj.ID)
	require.ErrorIs(t, err, project.ErrPermissionDenied)
}

func TestIntegration_ExportImportRoundTrip(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	proj, err := env.projectSvc.Create(ctx, "alice", project.CreateRequest{
		Name:      "Goals",
		TeamNames: []string{"Platform"},
	})
	require.NoError(t, err)

	obj, err := env.trackerSvc.AddObjective(ctx, "alice", proj.ID, tracker.AddObjectiveRequest{Title: "Grow"})
	require.NoError(t, err)
	_, err = env.trackerSvc.AddKeyResult(ctx, "alice", proj.ID, obj.ID, tracker.AddKeyResultRequest{
		Title: "ARR", TargetValue: 100,
	})
	require.NoError(t, err)

	data, err := env.projectSvc.Export(ctx, "alice", proj.ID)
	require.NoError(t, err)

	imported, err := env.projectSvc.Import(ctx, "bob", data)
	require.NoError(t, err)
	require.Equal(t, "Goals (Imported)", imported.Name)
	require.NotEqual(t, proj.ID, imported.ID)
	require.Equal(t, okr.RoleOwner, imported.Members["bob"])

	reloaded, err := env.projectSvc.Get(ctx, "bob", imported.ID)
	require.NoError(t, err)
	require.Len(t, reloaded.Objectives, 1)
	require.Len(t, reloaded.Objectives[0].KeyResults, 1)
}

func TestIntegration_PointInTimeReconstruction(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	proj, err := env.projectSvc.Create(ctx, "alice", project.CreateRequest{Name: "Goals"})
	require.NoError(t, err)

	obj, err := env.trackerSvc.AddObjective(ctx, "alice", proj.ID, tracker.AddObjectiveRequest{Title: "Grow"})
	require.NoError(t, err)
	kr, err := env.trackerSvc.AddKeyResult(ctx, "alice", proj.ID, obj.ID, tracker.AddKeyResultRequest{
		Title: "ARR", TargetValue: 100,
	})
	require.NoError(t, err)

	v := 60.0
	_, err = env.trackerSvc.UpdateKeyResult(ctx, "alice", proj.ID, obj.ID, kr.ID, tracker.UpdateKeyResultRequest{
		CurrentValue: &v,
	})
	require.NoError(t, err)

	today := okr.Today(time.Now())
	rep, err := env.reportSvc.PointInTime(ctx, "alice", proj.ID, today)
	require.NoError(t, err)
	require.Equal(t, 60, rep.OverallProgress)

	past := okr.Today(time.Now().AddDate(0, 0, -30))
	rep, err = env.reportSvc.PointInTime(ctx, "alice", proj.ID, past)
	require.NoError(t, err)
	require.Equal(t, 0, rep.OverallProgress, "history starts today, so the past shows the start value")
}

func TestIntegration_CloneResetsTracking(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	proj, err := env.projectSvc.Create(ctx, "alice", project.CreateRequest{Name: "Goals"})
	require.NoError(t, err)

	obj, err := env.trackerSvc.AddObjective(ctx, "alice", proj.ID, tracker.AddObjectiveRequest{Title: "Grow"})
	require.NoError(t, err)
	kr, err := env.trackerSvc.AddKeyResult(ctx, "alice", proj.ID, obj.ID, tracker.AddKeyResultRequest{
		Title: "ARR", TargetValue: 100,
	})
	require.NoError(t, err)
	v := 80.0
	_, err = env.trackerSvc.UpdateKeyResult(ctx, "alice", proj.ID, obj.ID, kr.ID, tracker.UpdateKeyResultRequest{
		CurrentValue: &v,
	})
	require.NoError(t, err)

	clone, err := env.projectSvc.Clone(ctx, "alice", proj.ID)
	require.NoError(t, err)
	require.Equal(t, "Goals (Clone)", clone.Name)

	reloaded, err := env.projectSvc.Get(ctx, "alice", clone.ID)
	require.NoError(t, err)
	clonedKR := reloaded.Objectives[0].KeyResults[0]
	require.Equal(t, 0.0, clonedKR.Progress)
	require.Equal(t, clonedKR.StartValue, clonedKR.CurrentValue)
	require.Empty(t, clonedKR.History)
}

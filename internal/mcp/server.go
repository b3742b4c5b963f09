package mcp

import (
	"context"
	"log/slog"

	"github.com/okrmaster/okrd/internal/domain/project"
	"github.com/okrmaster/okrd/internal/domain/report"
	"github.com/okrmaster/okrd/internal/domain/tracker"
	"github.com/okrmaster/okrd/internal/notes"
	"github.com/okrmaster/okrd/internal/okr"
	"github.com/okrmaster/okrd/internal/repository"
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

// ProjectService defines project lifecycle operations needed by MCP.
type ProjectService interface {
	Create(ctx context.Context, userID string, req project.CreateRequest) (*okr.Project, error)
	List(ctx context.Context, userID string) ([]repository.ProjectSummary, error)
	Get(ctx context.Context, userID, id string) (*okr.Project, error)
	Delete(ctx context.Context, userID, id string) error
	Archive(ctx context.Context, userID, id string) error
	Unarchive(ctx context.Context, userID, id string) error
	Clone(ctx context.Context, userID, id string) (*okr.Project, error)
	Export(ctx context.Context, userID, id string) ([]byte, error)
	Import(ctx context.Context, userID string, data []byte) (*okr.Project, error)
	UpdateFoundation(ctx context.Context, userID, id, mission, vision string) error
	SetNotes(ctx context.Context, userID, id, content string) error
	InviteMember(ctx context.Context, userID, id, memberID string, role okr.Role) error
	SetMemberRole(ctx context.Context, userID, id, memberID string, role okr.Role) error
	RemoveMember(ctx context.Context, userID, id, memberID string) error
}

// TrackerService defines content mutations needed by MCP.
type TrackerService interface {
	AddCycle(ctx context.Context, userID, projectID string, req tracker.AddCycleRequest) (*okr.Cycle, error)
	SetActiveCycle(ctx context.Context, userID, projectID, cycleID string) error
	DeleteCycle(ctx context.Context, userID, projectID, cycleID string) error
	AddObjective(ctx context.Context, userID, projectID string, req tracker.AddObjectiveRequest) (*okr.Objective, error)
	UpdateObjective(ctx context.Context, userID, projectID, objectiveID string, req tracker.UpdateObjectiveRequest) (*okr.Objective, error)
	DeleteObjective(ctx context.Context, userID, projectID, objectiveID string) error
	ReorderObjectives(ctx context.Context, userID, projectID, cycleID string, orderedIDs []string) error
	AddKeyResult(ctx context.Context, userID, projectID, objectiveID string, req tracker.AddKeyResultRequest) (*okr.KeyResult, error)
	UpdateKeyResult(ctx context.Context, userID, projectID, objectiveID, keyResultID string, req tracker.UpdateKeyResultRequest) (*okr.KeyResult, error)
	DeleteKeyResult(ctx context.Context, userID, projectID, objectiveID, keyResultID string) error
}

// ReportService defines read-side derivations needed by MCP.
type ReportService interface {
	GetOverview(ctx context.Context, userID, projectID, cycleID string, filter report.OverviewFilter) (*report.Overview, error)
	PointInTime(ctx context.Context, userID, projectID, date string) (*report.PointInTimeReport, error)
	GetHealthTrend(ctx context.Context, userID, projectID string, days int) (*report.HealthTrend, error)
	GetVelocity(ctx context.Context, userID, projectID string, weeks int) ([]int, error)
	GetBurndown(ctx context.Context, userID, projectID string) (*okr.Burndown, error)
	GetRiskBoard(ctx context.Context, userID, projectID string) ([]report.RiskEntry, error)
	GetGanttRows(ctx context.Context, userID, projectID string) ([]report.GanttRow, error)
}

// NotesHub broadcasts collaborative notes saves; nil disables broadcasting.
type NotesHub interface {
	Publish(ctx context.Context, update notes.NoteUpdate) error
}

// Services contains all domain services needed by MCP.
type Services struct {
	Projects ProjectService
	Tracker  TrackerService
	Reports  ReportService
	Notes    NotesHub
}

// Config contains server configuration.
type Config struct {
	Services      Services
	Resolver      UserResolver
	AuthEnabled   bool
	TransportMode string // "stdio" or "http"
	Logger        *slog.Logger
}

// NewServer creates and configures an MCP server with all tools and middleware.
func NewServer(cfg Config) *sdkmcp.Server {
	server := sdkmcp.NewServer(&sdkmcp.Implementation{
		Name:    "okrd",
		Version: "0.1.0",
	}, &sdkmcp.ServerOptions{
		Instructions: serverInstructions,
		Logger:       cfg.Logger,
	})

	registerDocResources(server)

	// Stdio mode: always disable auth (local dev only)
	if cfg.TransportMode == "stdio" || !cfg.AuthEnabled {
		server.AddReceivingMiddleware(noAuthMiddleware("default"))
	} else {
		server.AddReceivingMiddleware(authMiddleware(cfg.Resolver))
	}
	server.AddReceivingMiddleware(trafficLoggingMiddleware(cfg.Logger, "inbound"))
	server.AddSendingMiddleware(trafficLoggingMiddleware(cfg.Logger, "outbound"))

	registerTools(server, cfg.Services)

	return server
}

package mcp

import (
	"context"

	"github.com/okrmaster/okrd/internal/domain/report"
	"github.com/okrmaster/okrd/internal/okr"
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

type overviewInput struct {
	ProjectID   string `json:"project_id"`
	CycleID     string `json:"cycle_id,omitempty" jsonschema:"cycle to report on; omit for the active cycle"`
	OwnerID     string `json:"owner_id,omitempty" jsonschema:"filter to one team (or \"company\")"`
	Responsible string `json:"responsible,omitempty" jsonschema:"filter to one responsible person"`
}

func getOverviewTool() *sdkmcp.Tool {
	return &sdkmcp.Tool{
		Name:        "get_overview",
		Description: "Cycle dashboard: overall progress, per-owner rollups and key result health counts",
	}
}

func getOverviewHandler(svc ReportService) sdkmcp.ToolHandlerFor[overviewInput, *report.Overview] {
	return func(ctx context.Context, _ *sdkmcp.CallToolRequest, input overviewInput) (*sdkmcp.CallToolResult, *report.Overview, error) {
		ov, err := svc.GetOverview(ctx, getUserID(ctx), input.ProjectID, input.CycleID, report.OverviewFilter{
			OwnerID:     input.OwnerID,
			Responsible: input.Responsible,
		})
		if err != nil {
			return nil, nil, domainErr(err)
		}
		return nil, sanitizeOverview(ov), nil
	}
}

type pointInTimeInput struct {
	ProjectID string `json:"project_id"`
	Date      string `json:"date" jsonschema:"report date, ISO YYYY-MM-DD"`
}

func pointInTimeReportTool() *sdkmcp.Tool {
	return &sdkmcp.Tool{
		Name:        "point_in_time_report",
		Description: "Reconstructs the active cycle's state as it stood on a past date",
	}
}

func pointInTimeReportHandler(svc ReportService) sdkmcp.ToolHandlerFor[pointInTimeInput, *report.PointInTimeReport] {
	return func(ctx context.Context, _ *sdkmcp.CallToolRequest, input pointInTimeInput) (*sdkmcp.CallToolResult, *report.PointInTimeReport, error) {
		rep, err := svc.PointInTime(ctx, getUserID(ctx), input.ProjectID, input.Date)
		if err != nil {
			return nil, nil, domainErr(err)
		}
		return nil, rep, nil
	}
}

type healthTrendInput struct {
	ProjectID string `json:"project_id"`
	Days      int    `json:"days,omitempty" jsonschema:"trailing window in days, default 30"`
}

func healthTrendTool() *sdkmcp.Tool {
	return &sdkmcp.Tool{
		Name:        "health_trend",
		Description: "Daily On Track / At Risk / Off Track counts over a trailing window",
	}
}

func healthTrendHandler(svc ReportService) sdkmcp.ToolHandlerFor[healthTrendInput, *report.HealthTrend] {
	return func(ctx context.Context, _ *sdkmcp.CallToolRequest, input healthTrendInput) (*sdkmcp.CallToolResult, *report.HealthTrend, error) {
		trend, err := svc.GetHealthTrend(ctx, getUserID(ctx), input.ProjectID, input.Days)
		if err != nil {
			return nil, nil, domainErr(err)
		}
		return nil, trend, nil
	}
}

type velocityInput struct {
	ProjectID string `json:"project_id"`
	Weeks     int    `json:"weeks,omitempty" jsonschema:"number of weekly deltas, default 4"`
}

type velocityResult struct {
	Velocities []int `json:"velocities" jsonschema:"week-over-week progress deltas in percentage points, oldest first"`
}

func velocityTool() *sdkmcp.Tool {
	return &sdkmcp.Tool{
		Name:        "velocity",
		Description: "Week-over-week overall progress deltas for the active cycle",
	}
}

func velocityHandler(svc ReportService) sdkmcp.ToolHandlerFor[velocityInput, velocityResult] {
	return func(ctx context.Context, _ *sdkmcp.CallToolRequest, input velocityInput) (*sdkmcp.CallToolResult, velocityResult, error) {
		velocities, err := svc.GetVelocity(ctx, getUserID(ctx), input.ProjectID, input.Weeks)
		if err != nil {
			return nil, velocityResult{}, domainErr(err)
		}
		return nil, velocityResult{Velocities: velocities}, nil
	}
}

func burndownTool() *sdkmcp.Tool {
	return &sdkmcp.Tool{
		Name:        "burndown",
		Description: "Key result burndown for the active cycle: ideal line vs reconstructed actuals",
	}
}

func burndownHandler(svc ReportService) sdkmcp.ToolHandlerFor[projectIDInput, *okr.Burndown] {
	return func(ctx context.Context, _ *sdkmcp.CallToolRequest, input projectIDInput) (*sdkmcp.CallToolResult, *okr.Burndown, error) {
		bd, err := svc.GetBurndown(ctx, getUserID(ctx), input.ProjectID)
		if err != nil {
			return nil, nil, domainErr(err)
		}
		return nil, bd, nil
	}
}

type riskBoardResult struct {
	Entries []report.RiskEntry `json:"entries"`
}

func riskBoardTool() *sdkmcp.Tool {
	return &sdkmcp.Tool{
		Name:        "risk_board",
		Description: "Objectives with At Risk or Off Track key results in the active cycle",
	}
}

func riskBoardHandler(svc ReportService) sdkmcp.ToolHandlerFor[projectIDInput, riskBoardResult] {
	return func(ctx context.Context, _ *sdkmcp.CallToolRequest, input projectIDInput) (*sdkmcp.CallToolResult, riskBoardResult, error) {
		entries, err := svc.GetRiskBoard(ctx, getUserID(ctx), input.ProjectID)
		if err != nil {
			return nil, riskBoardResult{}, domainErr(err)
		}
		return nil, riskBoardResult{Entries: entries}, nil
	}
}

type ganttResult struct {
	Rows []report.GanttRow `json:"rows"`
}

func ganttTool() *sdkmcp.Tool {
	return &sdkmcp.Tool{
		Name:        "gantt",
		Description: "Timeline rows for active-cycle objectives that carry start and end dates",
	}
}

func ganttHandler(svc ReportService) sdkmcp.ToolHandlerFor[projectIDInput, ganttResult] {
	return func(ctx context.Context, _ *sdkmcp.CallToolRequest, input projectIDInput) (*sdkmcp.CallToolResult, ganttResult, error) {
		rows, err := svc.GetGanttRows(ctx, getUserID(ctx), input.ProjectID)
		if err != nil {
			return nil, ganttResult{}, domainErr(err)
		}
		return nil, ganttResult{Rows: rows}, nil
	}
}

package mcp

import (
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

// registerTools wires every tool onto the server with typed handlers.
func registerTools(server *sdkmcp.Server, services Services) {
	// Project lifecycle
	sdkmcp.AddTool(server, createProjectTool(), createProjectHandler(services.Projects))
	sdkmcp.AddTool(server, listProjectsTool(), listProjectsHandler(services.Projects))
	sdkmcp.AddTool(server, getProjectTool(), getProjectHandler(services.Projects))
	sdkmcp.AddTool(server, deleteProjectTool(), deleteProjectHandler(services.Projects))
	sdkmcp.AddTool(server, archiveProjectTool(), archiveProjectHandler(services.Projects))
	sdkmcp.AddTool(server, unarchiveProjectTool(), unarchiveProjectHandler(services.Projects))
	sdkmcp.AddTool(server, cloneProjectTool(), cloneProjectHandler(services.Projects))
	sdkmcp.AddTool(server, exportProjectTool(), exportProjectHandler(services.Projects))
	sdkmcp.AddTool(server, importProjectTool(), importProjectHandler(services.Projects))
	sdkmcp.AddTool(server, updateFoundationTool(), updateFoundationHandler(services.Projects))
	sdkmcp.AddTool(server, setNotesTool(), setNotesHandler(services.Projects, services.Notes))
	sdkmcp.AddTool(server, inviteMemberTool(), inviteMemberHandler(services.Projects))
	sdkmcp.AddTool(server, setMemberRoleTool(), setMemberRoleHandler(services.Projects))
	sdkmcp.AddTool(server, removeMemberTool(), removeMemberHandler(services.Projects))

	// Cycles / objectives / key results
	sdkmcp.AddTool(server, addCycleTool(), addCycleHandler(services.Tracker))
	sdkmcp.AddTool(server, setActiveCycleTool(), setActiveCycleHandler(services.Tracker))
	sdkmcp.AddTool(server, deleteCycleTool(), deleteCycleHandler(services.Tracker))
	sdkmcp.AddTool(server, addObjectiveTool(), addObjectiveHandler(services.Tracker))
	sdkmcp.AddTool(server, updateObjectiveTool(), updateObjectiveHandler(services.Tracker))
	sdkmcp.AddTool(server, deleteObjectiveTool(), deleteObjectiveHandler(services.Tracker))
	sdkmcp.AddTool(server, reorderObjectivesTool(), reorderObjectivesHandler(services.Tracker))
	sdkmcp.AddTool(server, addKeyResultTool(), addKeyResultHandler(services.Tracker))
	sdkmcp.AddTool(server, updateKeyResultTool(), updateKeyResultHandler(services.Tracker))
	sdkmcp.AddTool(server, deleteKeyResultTool(), deleteKeyResultHandler(services.Tracker))

	// Reports
	sdkmcp.AddTool(server, getOverviewTool(), getOverviewHandler(services.Reports))
	sdkmcp.AddTool(server, pointInTimeReportTool(), pointInTimeReportHandler(services.Reports))
	sdkmcp.AddTool(server, healthTrendTool(), healthTrendHandler(services.Reports))
	sdkmcp.AddTool(server, velocityTool(), velocityHandler(services.Reports))
	sdkmcp.AddTool(server, burndownTool(), burndownHandler(services.Reports))
	sdkmcp.AddTool(server, riskBoardTool(), riskBoardHandler(services.Reports))
	sdkmcp.AddTool(server, ganttTool(), ganttHandler(services.Reports))
}

// okResult is the output of tools that have nothing to return on success.
type okResult struct {
	Status string `json:"status" jsonschema:"always \"ok\" on success"`
}

var resultOK = okResult{Status: "ok"}

// domainErr translates known domain errors to APIError codes; everything
// else passes through as an internal error.
func domainErr(err error) error {
	if apiErr := MapError(err); apiErr != nil {
		return apiErr
	}
	return err
}

package mcp

import (
	"context"
	"encoding/json"
	"time"

	"github.com/okrmaster/okrd/internal/domain/project"
	"github.com/okrmaster/okrd/internal/notes"
	"github.com/okrmaster/okrd/internal/okr"
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

type createProjectInput struct {
	Name        string   `json:"name" jsonschema:"project name"`
	CompanyName string   `json:"company_name,omitempty" jsonschema:"company display name"`
	Mission     string   `json:"mission,omitempty" jsonschema:"mission statement"`
	Vision      string   `json:"vision,omitempty" jsonschema:"vision statement"`
	TeamNames   []string `json:"team_names,omitempty" jsonschema:"initial team names"`
}

func createProjectTool() *sdkmcp.Tool {
	return &sdkmcp.Tool{
		Name:        "create_project",
		Description: "Creates an OKR project with an active initial cycle; the caller becomes owner",
	}
}

func createProjectHandler(svc ProjectService) sdkmcp.ToolHandlerFor[createProjectInput, *okr.Project] {
	return func(ctx context.Context, _ *sdkmcp.CallToolRequest, input createProjectInput) (*sdkmcp.CallToolResult, *okr.Project, error) {
		proj, err := svc.Create(ctx, getUserID(ctx), project.CreateRequest{
			Name:        input.Name,
			CompanyName: input.CompanyName,
			Mission:     input.Mission,
			Vision:      input.Vision,
			TeamNames:   input.TeamNames,
		})
		if err != nil {
			return nil, nil, domainErr(err)
		}
		return nil, sanitizeProject(proj), nil
	}
}

type listProjectsInput struct{}

type projectSummary struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Archived bool   `json:"is_archived"`
	Role     string `json:"role" jsonschema:"the caller's role: owner, editor or viewer"`
}

type listProjectsResult struct {
	Projects []projectSummary `json:"projects"`
}

func listProjectsTool() *sdkmcp.Tool {
	return &sdkmcp.Tool{
		Name:        "list_projects",
		Description: "Lists the projects you are a member of, with your role on each",
	}
}

func listProjectsHandler(svc ProjectService) sdkmcp.ToolHandlerFor[listProjectsInput, listProjectsResult] {
	return func(ctx context.Context, _ *sdkmcp.CallToolRequest, _ listProjectsInput) (*sdkmcp.CallToolResult, listProjectsResult, error) {
		summaries, err := svc.List(ctx, getUserID(ctx))
		if err != nil {
			return nil, listProjectsResult{}, domainErr(err)
		}
		out := listProjectsResult{Projects: make([]projectSummary, 0, len(summaries))}
		for _, s := range summaries {
			out.Projects = append(out.Projects, projectSummary{
				ID:       s.ID,
				Name:     s.Name,
				Archived: s.Archived,
				Role:     string(s.Role),
			})
		}
		return nil, out, nil
	}
}

type projectIDInput struct {
	ProjectID string `json:"project_id" jsonschema:"project id"`
}

func getProjectTool() *sdkmcp.Tool {
	return &sdkmcp.Tool{
		Name:        "get_project",
		Description: "Fetches the full project document: cycles, teams, objectives, key results and history",
	}
}

func getProjectHandler(svc ProjectService) sdkmcp.ToolHandlerFor[projectIDInput, *okr.Project] {
	return func(ctx context.Context, _ *sdkmcp.CallToolRequest, input projectIDInput) (*sdkmcp.CallToolResult, *okr.Project, error) {
		proj, err := svc.Get(ctx, getUserID(ctx), input.ProjectID)
		if err != nil {
			return nil, nil, domainErr(err)
		}
		return nil, sanitizeProject(proj), nil
	}
}

func deleteProjectTool() *sdkmcp.Tool {
	return &sdkmcp.Tool{
		Name:        "delete_project",
		Description: "Permanently deletes a project and all its data (owner only)",
	}
}

func deleteProjectHandler(svc ProjectService) sdkmcp.ToolHandlerFor[projectIDInput, okResult] {
	return func(ctx context.Context, _ *sdkmcp.CallToolRequest, input projectIDInput) (*sdkmcp.CallToolResult, okResult, error) {
		if err := svc.Delete(ctx, getUserID(ctx), input.ProjectID); err != nil {
			return nil, okResult{}, domainErr(err)
		}
		return nil, resultOK, nil
	}
}

func archiveProjectTool() *sdkmcp.Tool {
	return &sdkmcp.Tool{
		Name:        "archive_project",
		Description: "Archives a project, hiding it from active lists without deleting data (owner only)",
	}
}

func archiveProjectHandler(svc ProjectService) sdkmcp.ToolHandlerFor[projectIDInput, okResult] {
	return func(ctx context.Context, _ *sdkmcp.CallToolRequest, input projectIDInput) (*sdkmcp.CallToolResult, okResult, error) {
		if err := svc.Archive(ctx, getUserID(ctx), input.ProjectID); err != nil {
			return nil, okResult{}, domainErr(err)
		}
		return nil, resultOK, nil
	}
}

func unarchiveProjectTool() *sdkmcp.Tool {
	return &sdkmcp.Tool{
		Name:        "unarchive_project",
		Description: "Restores an archived project (owner only)",
	}
}

func unarchiveProjectHandler(svc ProjectService) sdkmcp.ToolHandlerFor[projectIDInput, okResult] {
	return func(ctx context.Context, _ *sdkmcp.CallToolRequest, input projectIDInput) (*sdkmcp.CallToolResult, okResult, error) {
		if err := svc.Unarchive(ctx, getUserID(ctx), input.ProjectID); err != nil {
			return nil, okResult{}, domainErr(err)
		}
		return nil, resultOK, nil
	}
}

func cloneProjectTool() *sdkmcp.Tool {
	return &sdkmcp.Tool{
		Name:        "clone_project",
		Description: "Copies a project's structure into a fresh one you own; metric history is reset",
	}
}

func cloneProjectHandler(svc ProjectService) sdkmcp.ToolHandlerFor[projectIDInput, *okr.Project] {
	return func(ctx context.Context, _ *sdkmcp.CallToolRequest, input projectIDInput) (*sdkmcp.CallToolResult, *okr.Project, error) {
		clone, err := svc.Clone(ctx, getUserID(ctx), input.ProjectID)
		if err != nil {
			return nil, nil, domainErr(err)
		}
		return nil, sanitizeProject(clone), nil
	}
}

type exportProjectResult struct {
	Document json.RawMessage `json:"document" jsonschema:"the full project as an importable JSON document"`
}

func exportProjectTool() *sdkmcp.Tool {
	return &sdkmcp.Tool{
		Name:        "export_project",
		Description: "Exports the full project as a JSON backup document",
	}
}

func exportProjectHandler(svc ProjectService) sdkmcp.ToolHandlerFor[projectIDInput, exportProjectResult] {
	return func(ctx context.Context, _ *sdkmcp.CallToolRequest, input projectIDInput) (*sdkmcp.CallToolResult, exportProjectResult, error) {
		data, err := svc.Export(ctx, getUserID(ctx), input.ProjectID)
		if err != nil {
			return nil, exportProjectResult{}, domainErr(err)
		}
		return nil, exportProjectResult{Document: data}, nil
	}
}

type importProjectInput struct {
	Document json.RawMessage `json:"document" jsonschema:"a project export document"`
}

func importProjectTool() *sdkmcp.Tool {
	return &sdkmcp.Tool{
		Name:        "import_project",
		Description: "Restores a project from an export document as a new project you own",
	}
}

func importProjectHandler(svc ProjectService) sdkmcp.ToolHandlerFor[importProjectInput, *okr.Project] {
	return func(ctx context.Context, _ *sdkmcp.CallToolRequest, input importProjectInput) (*sdkmcp.CallToolResult, *okr.Project, error) {
		proj, err := svc.Import(ctx, getUserID(ctx), input.Document)
		if err != nil {
			return nil, nil, domainErr(err)
		}
		return nil, sanitizeProject(proj), nil
	}
}

type updateFoundationInput struct {
	ProjectID string `json:"project_id"`
	Mission   string `json:"mission"`
	Vision    string `json:"vision"`
}

func updateFoundationTool() *sdkmcp.Tool {
	return &sdkmcp.Tool{
		Name:        "update_foundation",
		Description: "Sets the project's mission and vision statements",
	}
}

func updateFoundationHandler(svc ProjectService) sdkmcp.ToolHandlerFor[updateFoundationInput, okResult] {
	return func(ctx context.Context, _ *sdkmcp.CallToolRequest, input updateFoundationInput) (*sdkmcp.CallToolResult, okResult, error) {
		if err := svc.UpdateFoundation(ctx, getUserID(ctx), input.ProjectID, input.Mission, input.Vision); err != nil {
			return nil, okResult{}, domainErr(err)
		}
		return nil, resultOK, nil
	}
}

type setNotesInput struct {
	ProjectID string `json:"project_id"`
	Content   string `json:"content" jsonschema:"full replacement notes content"`
}

func setNotesTool() *sdkmcp.Tool {
	return &sdkmcp.Tool{
		Name:        "set_notes",
		Description: "Saves the project's shared notes and broadcasts the update to live collaborators",
	}
}

func setNotesHandler(svc ProjectService, hub NotesHub) sdkmcp.ToolHandlerFor[setNotesInput, okResult] {
	return func(ctx context.Context, _ *sdkmcp.CallToolRequest, input setNotesInput) (*sdkmcp.CallToolResult, okResult, error) {
		userID := getUserID(ctx)
		if err := svc.SetNotes(ctx, userID, input.ProjectID, input.Content); err != nil {
			return nil, okResult{}, domainErr(err)
		}
		if hub != nil {
			// Broadcast failures don't undo the save; collaborators
			// resync on their next load.
			_ = hub.Publish(ctx, notes.NoteUpdate{
				ProjectID: input.ProjectID,
				Content:   input.Content,
				Editor:    userID,
				SavedAt:   time.Now().UTC(),
			})
		}
		return nil, resultOK, nil
	}
}

type memberInput struct {
	ProjectID string `json:"project_id"`
	UserID    string `json:"user_id" jsonschema:"the member's user id"`
	Role      string `json:"role,omitempty" jsonschema:"editor or viewer"`
}

func inviteMemberTool() *sdkmcp.Tool {
	return &sdkmcp.Tool{
		Name:        "invite_member",
		Description: "Grants a user access to the project as editor or viewer (owner only)",
	}
}

func inviteMemberHandler(svc ProjectService) sdkmcp.ToolHandlerFor[memberInput, okResult] {
	return func(ctx context.Context, _ *sdkmcp.CallToolRequest, input memberInput) (*sdkmcp.CallToolResult, okResult, error) {
		if err := svc.InviteMember(ctx, getUserID(ctx), input.ProjectID, input.UserID, okr.Role(input.Role)); err != nil {
			return nil, okResult{}, domainErr(err)
		}
		return nil, resultOK, nil
	}
}

func setMemberRoleTool() *sdkmcp.Tool {
	return &sdkmcp.Tool{
		Name:        "set_member_role",
		Description: "Changes a member's role between editor and viewer (owner only)",
	}
}

func setMemberRoleHandler(svc ProjectService) sdkmcp.ToolHandlerFor[memberInput, okResult] {
	return func(ctx context.Context, _ *sdkmcp.CallToolRequest, input memberInput) (*sdkmcp.CallToolResult, okResult, error) {
		if err := svc.SetMemberRole(ctx, getUserID(ctx), input.ProjectID, input.UserID, okr.Role(input.Role)); err != nil {
			return nil, okResult{}, domainErr(err)
		}
		return nil, resultOK, nil
	}
}

func removeMemberTool() *sdkmcp.Tool {
	return &sdkmcp.Tool{
		Name:        "remove_member",
		Description: "Revokes a member's access to the project (owner only)",
	}
}

func removeMemberHandler(svc ProjectService) sdkmcp.ToolHandlerFor[memberInput, okResult] {
	return func(ctx context.Context, _ *sdkmcp.CallToolRequest, input memberInput) (*sdkmcp.CallToolResult, okResult, error) {
		if err := svc.RemoveMember(ctx, getUserID(ctx), input.ProjectID, input.UserID); err != nil {
			return nil, okResult{}, domainErr(err)
		}
		return nil, resultOK, nil
	}
}

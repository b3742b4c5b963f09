package mcp

import (
	"context"

	"github.com/okrmaster/okrd/internal/domain/tracker"
	"github.com/okrmaster/okrd/internal/okr"
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

type addCycleInput struct {
	ProjectID string `json:"project_id"`
	Name      string `json:"name" jsonschema:"cycle name, e.g. Q2 2026"`
	StartDate string `json:"start_date,omitempty" jsonschema:"ISO date YYYY-MM-DD"`
	EndDate   string `json:"end_date,omitempty" jsonschema:"ISO date YYYY-MM-DD"`
}

func addCycleTool() *sdkmcp.Tool {
	return &sdkmcp.Tool{
		Name:        "add_cycle",
		Description: "Adds a planning cycle; new cycles start inactive until set_active_cycle",
	}
}

func addCycleHandler(svc TrackerService) sdkmcp.ToolHandlerFor[addCycleInput, *okr.Cycle] {
	return func(ctx context.Context, _ *sdkmcp.CallToolRequest, input addCycleInput) (*sdkmcp.CallToolResult, *okr.Cycle, error) {
		cycle, err := svc.AddCycle(ctx, getUserID(ctx), input.ProjectID, tracker.AddCycleRequest{
			Name:      input.Name,
			StartDate: input.StartDate,
			EndDate:   input.EndDate,
		})
		if err != nil {
			return nil, nil, domainErr(err)
		}
		return nil, cycle, nil
	}
}

type cycleIDInput struct {
	ProjectID string `json:"project_id"`
	CycleID   string `json:"cycle_id"`
}

func setActiveCycleTool() *sdkmcp.Tool {
	return &sdkmcp.Tool{
		Name:        "set_active_cycle",
		Description: "Makes the given cycle the single active one; all others become archived",
	}
}

func setActiveCycleHandler(svc TrackerService) sdkmcp.ToolHandlerFor[cycleIDInput, okResult] {
	return func(ctx context.Context, _ *sdkmcp.CallToolRequest, input cycleIDInput) (*sdkmcp.CallToolResult, okResult, error) {
		if err := svc.SetActiveCycle(ctx, getUserID(ctx), input.ProjectID, input.CycleID); err != nil {
			return nil, okResult{}, domainErr(err)
		}
		return nil, resultOK, nil
	}
}

func deleteCycleTool() *sdkmcp.Tool {
	return &sdkmcp.Tool{
		Name:        "delete_cycle",
		Description: "Deletes an inactive cycle and every objective in it; the last cycle is protected",
	}
}

func deleteCycleHandler(svc TrackerService) sdkmcp.ToolHandlerFor[cycleIDInput, okResult] {
	return func(ctx context.Context, _ *sdkmcp.CallToolRequest, input cycleIDInput) (*sdkmcp.CallToolResult, okResult, error) {
		if err := svc.DeleteCycle(ctx, getUserID(ctx), input.ProjectID, input.CycleID); err != nil {
			return nil, okResult{}, domainErr(err)
		}
		return nil, resultOK, nil
	}
}

type addObjectiveInput struct {
	ProjectID   string   `json:"project_id"`
	Title       string   `json:"title"`
	OwnerID     string   `json:"owner_id,omitempty" jsonschema:"team id, or omit for a company objective"`
	Responsible string   `json:"responsible,omitempty" jsonschema:"person accountable"`
	Notes       string   `json:"notes,omitempty"`
	StartDate   string   `json:"start_date,omitempty" jsonschema:"ISO date YYYY-MM-DD"`
	EndDate     string   `json:"end_date,omitempty" jsonschema:"ISO date YYYY-MM-DD"`
	DependsOn   []string `json:"depends_on,omitempty" jsonschema:"ids of same-cycle objectives this depends on"`
}

func addObjectiveTool() *sdkmcp.Tool {
	return &sdkmcp.Tool{
		Name:        "add_objective",
		Description: "Adds an objective to the active cycle",
	}
}

func addObjectiveHandler(svc TrackerService) sdkmcp.ToolHandlerFor[addObjectiveInput, *okr.Objective] {
	return func(ctx context.Context, _ *sdkmcp.CallToolRequest, input addObjectiveInput) (*sdkmcp.CallToolResult, *okr.Objective, error) {
		obj, err := svc.AddObjective(ctx, getUserID(ctx), input.ProjectID, tracker.AddObjectiveRequest{
			Title:       input.Title,
			OwnerID:     input.OwnerID,
			Responsible: input.Responsible,
			Notes:       input.Notes,
			StartDate:   input.StartDate,
			EndDate:     input.EndDate,
			DependsOn:   input.DependsOn,
		})
		if err != nil {
			return nil, nil, domainErr(err)
		}
		return nil, sanitizeObjective(obj), nil
	}
}

type updateObjectiveInput struct {
	ProjectID   string    `json:"project_id"`
	ObjectiveID string    `json:"objective_id"`
	Title       *string   `json:"title,omitempty"`
	OwnerID     *string   `json:"owner_id,omitempty"`
	Responsible *string   `json:"responsible,omitempty"`
	Notes       *string   `json:"notes,omitempty"`
	StartDate   *string   `json:"start_date,omitempty"`
	EndDate     *string   `json:"end_date,omitempty"`
	DependsOn   *[]string `json:"depends_on,omitempty" jsonschema:"full replacement dependency list"`
}

func updateObjectiveTool() *sdkmcp.Tool {
	return &sdkmcp.Tool{
		Name:        "update_objective",
		Description: "Updates objective fields; omitted fields are left unchanged",
	}
}

func updateObjectiveHandler(svc TrackerService) sdkmcp.ToolHandlerFor[updateObjectiveInput, *okr.Objective] {
	return func(ctx context.Context, _ *sdkmcp.CallToolRequest, input updateObjectiveInput) (*sdkmcp.CallToolResult, *okr.Objective, error) {
		req := tracker.UpdateObjectiveRequest{
			Title:       input.Title,
			OwnerID:     input.OwnerID,
			Responsible: input.Responsible,
			Notes:       input.Notes,
			StartDate:   input.StartDate,
			EndDate:     input.EndDate,
		}
		if input.DependsOn != nil {
			req.SetDeps = true
			req.DependsOn = *input.DependsOn
		}
		obj, err := svc.UpdateObjective(ctx, getUserID(ctx), input.ProjectID, input.ObjectiveID, req)
		if err != nil {
			return nil, nil, domainErr(err)
		}
		return nil, sanitizeObjective(obj), nil
	}
}

type objectiveIDInput struct {
	ProjectID   string `json:"project_id"`
	ObjectiveID string `json:"objective_id"`
}

func deleteObjectiveTool() *sdkmcp.Tool {
	return &sdkmcp.Tool{
		Name:        "delete_objective",
		Description: "Deletes an objective; other objectives' references to it are pruned",
	}
}

func deleteObjectiveHandler(svc TrackerService) sdkmcp.ToolHandlerFor[objectiveIDInput, okResult] {
	return func(ctx context.Context, _ *sdkmcp.CallToolRequest, input objectiveIDInput) (*sdkmcp.CallToolResult, okResult, error) {
		if err := svc.DeleteObjective(ctx, getUserID(ctx), input.ProjectID, input.ObjectiveID); err != nil {
			return nil, okResult{}, domainErr(err)
		}
		return nil, resultOK, nil
	}
}

type reorderObjectivesInput struct {
	ProjectID  string   `json:"project_id"`
	CycleID    string   `json:"cycle_id"`
	OrderedIDs []string `json:"ordered_ids" jsonschema:"objective ids in the desired order; unlisted ones follow"`
}

func reorderObjectivesTool() *sdkmcp.Tool {
	return &sdkmcp.Tool{
		Name:        "reorder_objectives",
		Description: "Reorders a cycle's objectives",
	}
}

func reorderObjectivesHandler(svc TrackerService) sdkmcp.ToolHandlerFor[reorderObjectivesInput, okResult] {
	return func(ctx context.Context, _ *sdkmcp.CallToolRequest, input reorderObjectivesInput) (*sdkmcp.CallToolResult, okResult, error) {
		if err := svc.ReorderObjectives(ctx, getUserID(ctx), input.ProjectID, input.CycleID, input.OrderedIDs); err != nil {
			return nil, okResult{}, domainErr(err)
		}
		return nil, resultOK, nil
	}
}

type addKeyResultInput struct {
	ProjectID   string  `json:"project_id"`
	ObjectiveID string  `json:"objective_id"`
	Title       string  `json:"title"`
	StartValue  float64 `json:"start_value"`
	TargetValue float64 `json:"target_value"`
	Confidence  string  `json:"confidence,omitempty" jsonschema:"On Track, At Risk or Off Track; defaults to On Track"`
	Notes       string  `json:"notes,omitempty"`
}

func addKeyResultTool() *sdkmcp.Tool {
	return &sdkmcp.Tool{
		Name:        "add_key_result",
		Description: "Adds a measurable key result to an objective; its history starts today",
	}
}

func addKeyResultHandler(svc TrackerService) sdkmcp.ToolHandlerFor[addKeyResultInput, *okr.KeyResult] {
	return func(ctx context.Context, _ *sdkmcp.CallToolRequest, input addKeyResultInput) (*sdkmcp.CallToolResult, *okr.KeyResult, error) {
		kr, err := svc.AddKeyResult(ctx, getUserID(ctx), input.ProjectID, input.ObjectiveID, tracker.AddKeyResultRequest{
			Title:       input.Title,
			StartValue:  input.StartValue,
			TargetValue: input.TargetValue,
			Confidence:  okr.Confidence(input.Confidence),
			Notes:       input.Notes,
		})
		if err != nil {
			return nil, nil, domainErr(err)
		}
		return nil, sanitizeKeyResult(kr), nil
	}
}

type updateKeyResultInput struct {
	ProjectID    string   `json:"project_id"`
	ObjectiveID  string   `json:"objective_id"`
	KeyResultID  string   `json:"key_result_id"`
	Title        *string  `json:"title,omitempty"`
	Notes        *string  `json:"notes,omitempty"`
	StartValue   *float64 `json:"start_value,omitempty"`
	TargetValue  *float64 `json:"target_value,omitempty"`
	CurrentValue *float64 `json:"current_value,omitempty" jsonschema:"the metric's latest measured value"`
	Confidence   *string  `json:"confidence,omitempty" jsonschema:"On Track, At Risk or Off Track"`
}

func updateKeyResultTool() *sdkmcp.Tool {
	return &sdkmcp.Tool{
		Name:        "update_key_result",
		Description: "Updates a key result; value or confidence changes append a dated history entry",
	}
}

func updateKeyResultHandler(svc TrackerService) sdkmcp.ToolHandlerFor[updateKeyResultInput, *okr.KeyResult] {
	return func(ctx context.Context, _ *sdkmcp.CallToolRequest, input updateKeyResultInput) (*sdkmcp.CallToolResult, *okr.KeyResult, error) {
		req := tracker.UpdateKeyResultRequest{
			Title:        input.Title,
			Notes:        input.Notes,
			StartValue:   input.StartValue,
			TargetValue:  input.TargetValue,
			CurrentValue: input.CurrentValue,
		}
		if input.Confidence != nil {
			conf := okr.Confidence(*input.Confidence)
			req.Confidence = &conf
		}
		kr, err := svc.UpdateKeyResult(ctx, getUserID(ctx), input.ProjectID, input.ObjectiveID, input.KeyResultID, req)
		if err != nil {
			return nil, nil, domainErr(err)
		}
		return nil, sanitizeKeyResult(kr), nil
	}
}

type keyResultIDInput struct {
	ProjectID   string `json:"project_id"`
	ObjectiveID string `json:"objective_id"`
	KeyResultID string `json:"key_result_id"`
}

func deleteKeyResultTool() *sdkmcp.Tool {
	return &sdkmcp.Tool{
		Name:        "delete_key_result",
		Description: "Deletes a key result and recomputes the objective's progress",
	}
}

func deleteKeyResultHandler(svc TrackerService) sdkmcp.ToolHandlerFor[keyResultIDInput, okResult] {
	return func(ctx context.Context, _ *sdkmcp.CallToolRequest, input keyResultIDInput) (*sdkmcp.CallToolResult, okResult, error) {
		if err := svc.DeleteKeyResult(ctx, getUserID(ctx), input.ProjectID, input.ObjectiveID, input.KeyResultID); err != nil {
			return nil, okResult{}, domainErr(err)
		}
		return nil, resultOK, nil
	}
}

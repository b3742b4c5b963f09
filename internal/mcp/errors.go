package mcp

import (
	"errors"
	"fmt"

	"github.com/okrmaster/okrd/internal/domain/project"
	"github.com/okrmaster/okrd/internal/domain/tracker"
	"github.com/okrmaster/okrd/internal/okr"
)

// APIError represents an MCP error response.
type APIError struct {
	Code         string `json:"code"`
	Message      string `json:"message"`
	Details      any    `json:"details,omitempty"`
	RecoveryHint string `json:"recovery_hint,omitempty"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// MapError maps domain errors to MCP error codes.
func MapError(err error) *APIError {
	if err == nil {
		return nil
	}
	var verr *okr.ValidationError
	switch {
	case errors.Is(err, project.ErrProjectNotFound):
		return &APIError{Code: "PROJECT_NOT_FOUND", Message: "project not found", RecoveryHint: "Check the project id against list_projects"}
	case errors.Is(err, project.ErrPermissionDenied):
		return &APIError{Code: "PERMISSION_DENIED", Message: "your role does not allow this operation", RecoveryHint: "Ask a project owner for access"}
	case errors.Is(err, project.ErrInvalidImport):
		return &APIError{Code: "INVALID_IMPORT", Message: "import payload is not a valid project export", RecoveryHint: "Export must include a name and at least one cycle"}
	case errors.Is(err, project.ErrInvalidInput):
		return &APIError{Code: "INVALID_INPUT", Message: "invalid project input"}
	case errors.Is(err, tracker.ErrCycleNotFound):
		return &APIError{Code: "CYCLE_NOT_FOUND", Message: "cycle not found", RecoveryHint: "Check the cycle id on get_project"}
	case errors.Is(err, tracker.ErrObjectiveNotFound):
		return &APIError{Code: "OBJECTIVE_NOT_FOUND", Message: "objective not found", RecoveryHint: "Check the objective id on get_project"}
	case errors.Is(err, tracker.ErrKeyResultNotFound):
		return &APIError{Code: "KEY_RESULT_NOT_FOUND", Message: "key result not found", RecoveryHint: "Check the key result id on get_project"}
	case errors.Is(err, tracker.ErrNoActiveCycle):
		return &APIError{Code: "NO_ACTIVE_CYCLE", Message: "project has no active cycle", RecoveryHint: "Call set_active_cycle first"}
	case errors.Is(err, tracker.ErrLastCycle):
		return &APIError{Code: "LAST_CYCLE", Message: "the only remaining cycle cannot be deleted"}
	case errors.Is(err, tracker.ErrCycleActive):
		return &APIError{Code: "CYCLE_ACTIVE", Message: "the active cycle cannot be deleted", RecoveryHint: "Activate another cycle first"}
	case errors.Is(err, tracker.ErrInvalidDependency):
		return &APIError{Code: "INVALID_DEPENDENCY", Message: "dependencies must reference objectives in the same cycle"}
	case errors.Is(err, tracker.ErrInvalidInput):
		return &APIError{Code: "INVALID_INPUT", Message: "invalid tracker input"}
	case errors.Is(err, okr.ErrInsufficientData):
		return &APIError{Code: "INSUFFICIENT_DATA", Message: "not enough data for this report", RecoveryHint: "Set the cycle's start and end dates"}
	case errors.As(err, &verr):
		return &APIError{Code: "VALIDATION_ERROR", Message: verr.Error()}
	default:
		return nil
	}
}

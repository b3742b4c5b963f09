package tracker

import "errors"

var (
	// ErrCycleNotFound indicates the cycle doesn't exist in the project.
	ErrCycleNotFound = errors.New("cycle not found")
	// ErrObjectiveNotFound indicates the objective doesn't exist.
	ErrObjectiveNotFound = errors.New("objective not found")
	// ErrKeyResultNotFound indicates the key result doesn't exist.
	ErrKeyResultNotFound = errors.New("key result not found")
	// ErrNoActiveCycle indicates the project has no active cycle to attach to.
	ErrNoActiveCycle = errors.New("project has no active cycle")
	// ErrLastCycle indicates the only remaining cycle cannot be deleted.
	ErrLastCycle = errors.New("cannot delete the last cycle")
	// ErrCycleActive indicates the active cycle cannot be deleted.
	ErrCycleActive = errors.New("cannot delete the active cycle")
	// ErrInvalidDependency indicates a dependsOn id that is unknown or in
	// another cycle.
	ErrInvalidDependency = errors.New("dependency must reference an objective in the same cycle")
	// ErrInvalidInput indicates invalid tracker input.
	ErrInvalidInput = errors.New("invalid tracker input")
)

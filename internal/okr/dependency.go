package okr

// ValidDependencies filters an objective's dependency list down to ids
// that resolve to objectives in the same cycle. Stale references left
// behind by old data are dropped silently rather than rejected; historical
// documents may already contain them.
func ValidDependencies(obj Objective, all []Objective) []string {
	var out []string
	for _, depID := range obj.DependsOn {
		for _, other := range all {
			if other.ID == depID && other.CycleID == obj.CycleID {
				out = append(out, depID)
				break
			}
		}
	}
	return out
}

// Blocks returns the ids of objectives that list the given objective as a
// dependency, in stored order.
func Blocks(objectiveID string, all []Objective) []string {
	var out []string
	for _, obj := range all {
		for _, depID := range obj.DependsOn {
			if depID == objectiveID {
				out = append(out, obj.ID)
				break
			}
		}
	}
	return out
}

// PruneDependency removes the deleted objective's id from every remaining
// objective's dependency list, keeping the graph free of dangling edges at
// write time.
func PruneDependency(objectives []Objective, deletedID string) {
	for i := range objectives {
		deps := objectives[i].DependsOn
		kept := deps[:0]
		for _, depID := range deps {
			if depID != deletedID {
				kept = append(kept, depID)
			}
		}
		if len(kept) == 0 {
			objectives[i].DependsOn = nil
		} else {
			objectives[i].DependsOn = kept
		}
	}
}

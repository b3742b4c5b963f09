package okr_test

import (
	"testing"

	"github.com/okrmaster/okrd/internal/okr"
	"github.com/stretchr/testify/require"
)

func TestValidDependencies(t *testing.T) {
	all := []okr.Objective{
		{ID: "a", CycleID: "q1"},
		{ID: "b", CycleID: "q1", DependsOn: []string{"a", "gone", "c"}},
		{ID: "c", CycleID: "q2"},
	}

	// "gone" no longer exists; "c" lives in a different cycle.
	require.Equal(t, []string{"a"}, okr.ValidDependencies(all[1], all))
	require.Empty(t, okr.ValidDependencies(all[0], all))
}

func TestBlocks(t *testing.T) {
	all := []okr.Objective{
		{ID: "a", CycleID: "q1"},
		{ID: "b", CycleID: "q1", DependsOn: []string{"a"}},
		{ID: "c", CycleID: "q1", DependsOn: []string{"a", "b"}},
	}

	require.Equal(t, []string{"b", "c"}, okr.Blocks("a", all))
	require.Equal(t, []string{"c"}, okr.Blocks("b", all))
	require.Empty(t, okr.Blocks("c", all))
}

func TestPruneDependency(t *testing.T) {
	objectives := []okr.Objective{
		{ID: "a", DependsOn: []string{"x"}},
		{ID: "b", DependsOn: []string{"x", "a"}},
		{ID: "c"},
	}

	okr.PruneDependency(objectives, "x")

	require.Nil(t, objectives[0].DependsOn)
	require.Equal(t, []string{"a"}, objectives[1].DependsOn)
	require.Nil(t, objectives[2].DependsOn)
}

package okr_test

import (
	"testing"

	"github.com/okrmaster/okrd/internal/okr"
	"github.com/stretchr/testify/require"
)

func sampleObjective() okr.Objective {
	return okr.Objective{
		ID:      "obj-1",
		CycleID: "cycle-1",
		KeyResults: []okr.KeyResult{{
			ID:           "kr-1",
			StartValue:   0,
			CurrentValue: 5,
			TargetValue:  10,
			Confidence:   okr.ConfidenceAtRisk,
			History: []okr.HistoryEntry{
				{Date: "2024-01-01", Value: 0, Confidence: okr.ConfidenceOnTrack},
				{Date: "2024-01-10", Value: 5, Confidence: okr.ConfidenceAtRisk},
			},
		}},
	}
}

func TestReconstructAsOf(t *testing.T) {
	t.Run("between entries takes the earlier one", func(t *testing.T) {
		rec, err := okr.ReconstructAsOf(sampleObjective(), "2024-01-05")
		require.NoError(t, err)
		require.Equal(t, 0.0, rec.KeyResults[0].CurrentValue)
		require.Equal(t, 0, rec.Progress)
	})

	t.Run("before all history falls back to start value", func(t *testing.T) {
		obj := sampleObjective()
		obj.KeyResults[0].StartValue = 2
		rec, err := okr.ReconstructAsOf(obj, "2023-12-31")
		require.NoError(t, err)
		require.Equal(t, 2.0, rec.KeyResults[0].CurrentValue)
	})

	t.Run("on or after the last entry matches live state", func(t *testing.T) {
		rec, err := okr.ReconstructAsOf(sampleObjective(), "2024-01-10")
		require.NoError(t, err)
		require.Equal(t, 5.0, rec.KeyResults[0].CurrentValue)
		require.Equal(t, 50, rec.Progress)
	})

	t.Run("same-date entries resolve to the last appended", func(t *testing.T) {
		obj := sampleObjective()
		obj.KeyResults[0].History = append(obj.KeyResults[0].History,
			okr.HistoryEntry{Date: "2024-01-10", Value: 8, Confidence: okr.ConfidenceOnTrack})
		rec, err := okr.ReconstructAsOf(obj, "2024-01-10")
		require.NoError(t, err)
		require.Equal(t, 8.0, rec.KeyResults[0].CurrentValue)
	})

	t.Run("does not mutate the input", func(t *testing.T) {
		obj := sampleObjective()
		_, err := okr.ReconstructAsOf(obj, "2024-01-05")
		require.NoError(t, err)
		require.Equal(t, 5.0, obj.KeyResults[0].CurrentValue)
		require.Len(t, obj.KeyResults[0].History, 2)
		require.Equal(t, 0, obj.Progress)
	})
}

func TestOverallProgressAsOf(t *testing.T) {
	objectives := []okr.Objective{
		sampleObjective(),
		{
			ID:      "obj-2",
			CycleID: "cycle-1",
			KeyResults: []okr.KeyResult{{
				StartValue:   0,
				CurrentValue: 10,
				TargetValue:  10,
				History: []okr.HistoryEntry{
					{Date: "2024-01-01", Value: 0, Confidence: okr.ConfidenceOnTrack},
					{Date: "2024-01-08", Value: 10, Confidence: okr.ConfidenceOnTrack},
				},
			}},
		},
	}

	pct, err := okr.OverallProgressAsOf(objectives, "2024-01-05")
	require.NoError(t, err)
	require.Equal(t, 0, pct)

	pct, err = okr.OverallProgressAsOf(objectives, "2024-01-09")
	require.NoError(t, err)
	require.Equal(t, 50, pct)

	pct, err = okr.OverallProgressAsOf(objectives, "2024-01-10")
	require.NoError(t, err)
	require.Equal(t, 75, pct)

	pct, err = okr.OverallProgressAsOf(nil, "2024-01-10")
	require.NoError(t, err)
	require.Equal(t, 0, pct)
}

package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunLifecycle(t *testing.T) {
	run := NewRun("immortal", "input.mp4", 4)

	assert.Equal(t, RunStatusPending, run.Status)
	assert.NotEqual(t, "", run.ID.String())

	run.MarkProcessing()
	assert.Equal(t, RunStatusProcessing, run.Status)
	assert.Nil(t, run.CompletedAt)

	run.MarkCompleted()
	assert.Equal(t, RunStatusCompleted, run.Status)
	require.NotNil(t, run.CompletedAt)
}

func TestRunMarkFailed(t *testing.T) {
	run := NewRun("immortal", "input.mp4", 4)
	run.MarkFailed("split_parts: no such file")

	assert.Equal(t, RunStatusFailed, run.Status)
	assert.Equal(t, "split_parts: no such file", run.ErrorMessage)
	assert.Nil(t, run.CompletedAt)
}

func TestRunAddPartResultAccumulates(t *testing.T) {
	run := NewRun("immortal", "input.mp4", 2)
	run.AddPartResult(PartResult{Index: 0, Windows: 2, Clips: 2})
	run.AddPartResult(PartResult{Index: 1, Windows: 3, Clips: 2, FailedClips: 1})

	assert.Equal(t, 5, run.WindowCount)
	assert.Equal(t, 4, run.ClipCount)
	assert.Equal(t, 1, run.FailedClips)
	assert.Len(t, run.Parts, 2)
}

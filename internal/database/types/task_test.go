package types_test

import (
	"testing"

	"github.com/scidept/sentinel/internal/database/types"
	"github.com/stretchr/testify/assert"
)

func TestIsNumberedTaskType(t *testing.T) {
	t.Parallel()

	assert.True(t, types.IsNumberedTaskType("Cross-Testing"))
	assert.True(t, types.IsNumberedTaskType("Anomaly Testing"))
	assert.False(t, types.IsNumberedTaskType("SCP Interviews"))
	assert.False(t, types.IsNumberedTaskType(""))
}

func TestPluralTaskName(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "Cross-Tests", types.PluralTaskName("Cross-Testing"))
	assert.Equal(t, "SCP Interviews", types.PluralTaskName("SCP Interviews"))

	// Unknown types fall through unchanged.
	assert.Equal(t, "Weird Task", types.PluralTaskName("Weird Task"))
}

func TestEveryTaskTypeHasPlural(t *testing.T) {
	t.Parallel()

	for _, taskType := range types.TaskTypes {
		assert.Contains(t, types.TaskPlurals, taskType)
	}
}

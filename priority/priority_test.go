package priority_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/wm3445/react/priority"
)

func TestOrdering(t *testing.T) {
	assert.Less(t, int(priority.Sync), int(priority.Animation))
	assert.Less(t, int(priority.Animation), int(priority.Low))
	assert.Less(t, int(priority.Low), int(priority.NoWork))
}

func TestMin(t *testing.T) {
	assert.Equal(t, priority.Sync, priority.Min(priority.Sync, priority.Low))
	assert.Equal(t, priority.Animation, priority.Min(priority.NoWork, priority.Animation))
}

func TestHasWork(t *testing.T) {
	assert.False(t, priority.HasWork(priority.NoWork))
	assert.True(t, priority.HasWork(priority.Sync))
}

func TestAtMost(t *testing.T) {
	assert.True(t, priority.AtMost(priority.Sync, priority.Animation))
	assert.False(t, priority.AtMost(priority.Low, priority.Animation))
	assert.True(t, priority.AtMost(priority.Animation, priority.Animation))
}

func TestStringer(t *testing.T) {
	assert.Equal(t, "Sync", priority.Sync.String())
	assert.Equal(t, "NoWork", priority.NoWork.String())
	assert.Contains(t, priority.Level(42).String(), "42")
}

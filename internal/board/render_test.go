package board

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/varshaaa-v/Web-Technology-Project/internal/dto"
)

func TestRender(t *testing.T) {
	overdue := "2024-01-09"
	today := "2024-01-10"
	view := BuildView(
		[]dto.Category{{ID: "c1", Name: "Home"}},
		[]dto.Task{
			{ID: "t1", Title: "rent", Category: "Home", Priority: "high", DueDate: &overdue},
			{ID: "t2", Title: "plants", Category: "Home", Priority: "low", DueDate: &today},
			{ID: "t3", Title: "done", Category: "Home", Priority: "low", IsComplete: true},
			{ID: "t4", Title: "stray", Category: "Misc", Priority: "medium"},
		},
	)
	state := State{Screen: ScreenBoard, View: view, Filter: FilterPending, Streak: Streak{Current: 2, Best: 3}}

	frame := Render(state, "2024-01-10")

	assert.Equal(t, 4, frame.Total)
	assert.Equal(t, 1, frame.Completed)
	assert.Equal(t, 3, frame.Visible)
	require.Len(t, frame.Groups, 2)

	home := frame.Groups[0]
	assert.Equal(t, 1, home.Hidden)
	require.Len(t, home.Tasks, 2)
	assert.True(t, home.Tasks[0].Overdue)
	assert.True(t, home.Tasks[1].DueToday)
	assert.True(t, frame.Groups[1].Orphan)

	var buf bytes.Buffer
	require.NoError(t, WriteText(&buf, frame))
	out := buf.String()
	assert.Contains(t, out, "1/4 done")
	assert.Contains(t, out, "streak 2 (best 3)")
	assert.Contains(t, out, "OVERDUE")
	assert.Contains(t, out, "Misc (no category)")
	assert.Contains(t, out, "1 hidden")
}

func TestRender_DoesNotMutateState(t *testing.T) {
	view := BuildView(nil, []dto.Task{{ID: "t1", Title: "a", Category: "X"}})
	state := State{View: view, Filter: FilterCompleted}

	Render(state, "2024-01-10")
	assert.Equal(t, 1, state.View.TaskCount())
}
